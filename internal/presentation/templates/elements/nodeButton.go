package templates

import (
	"html/template"
	"log"
	"strings"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/rendering"
)

// uri actions render as links; every other action type is a button carrying
// its payload in data attributes.
var nodeButtonTmpl = template.Must(template.New("nodeButton").Parse(
	`{{define "link"}}<a id="{{.ID}}" class="{{.Class}}" data-kind="button" href="{{.URI}}" target="_blank" rel="noopener noreferrer"{{if .Style}} style="{{.Style}}"{{end}}>{{.Label}}</a>{{end}}` +
		`{{define "action"}}<button id="{{.ID}}" type="button" class="{{.Class}}" data-kind="button" data-action="{{.ActionType}}"{{if .Data}} data-payload="{{.Data}}"{{end}}{{if .Style}} style="{{.Style}}"{{end}} onclick="return false;">{{.Label}}</button>{{end}}`,
))

type nodeButtonData struct {
	ID         string
	Class      string
	Style      template.CSS
	Label      string
	URI        string
	ActionType string
	Data       string
}

// NodeButtonRenderer handles button rendering logic
type NodeButtonRenderer struct {
	ctx *rendering.RenderContext
	css CSSProcessor
}

// NewNodeButtonRenderer creates a new node button renderer
func NewNodeButtonRenderer(ctx *rendering.RenderContext, css CSSProcessor) *NodeButtonRenderer {
	return &NodeButtonRenderer{ctx: ctx, css: css}
}

// Render writes the button. The label falls back to the uri so that an
// unlabelled button is still visible.
func (nbr *NodeButtonRenderer) Render(nodeID string) string {
	button, ok := nbr.ctx.AllNodes[nodeID].(*flex.Button)
	if !ok {
		return `<button>missing button</button>`
	}

	action := button.Action
	data := nodeButtonData{
		ID:         button.ID,
		Class:      nbr.css.GetNodeClasses(nodeID, "flex-button whitespace-nowrap"),
		Style:      template.CSS(nbr.css.GetNodeStringStyles(nodeID)),
		Label:      action.Label,
		URI:        action.URI,
		ActionType: action.Type,
		Data:       action.Data,
	}
	if data.Label == "" {
		data.Label = action.URI
	}

	name := "action"
	if action.Type == "uri" {
		name = "link"
	}

	var html strings.Builder
	if err := nodeButtonTmpl.ExecuteTemplate(&html, name, data); err != nil {
		log.Printf("ERROR: Failed to execute nodeButton template for nodeID %s: %v", nodeID, err)
		return `<!-- error rendering button -->`
	}
	return html.String()
}
