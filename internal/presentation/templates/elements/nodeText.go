package templates

import (
	"html/template"
	"log"
	"strings"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/rendering"
)

// nodeTextTmpl escapes the copy through html/template.
var nodeTextTmpl = template.Must(template.New("nodeText").Parse(
	`<p id="{{.ID}}" class="{{.Class}}" data-kind="text"{{if .Style}} style="{{.Style}}"{{end}}>{{.Text}}</p>`,
))

type nodeTextData struct {
	ID    string
	Class string
	Style template.CSS
	Text  string
}

// NodeTextRenderer handles text rendering logic
type NodeTextRenderer struct {
	ctx *rendering.RenderContext
	css CSSProcessor
}

// NewNodeTextRenderer creates a new node text renderer
func NewNodeTextRenderer(ctx *rendering.RenderContext, css CSSProcessor) *NodeTextRenderer {
	return &NodeTextRenderer{ctx: ctx, css: css}
}

// Render writes a paragraph. Whitespace-only copy becomes a non-breaking
// space so the element keeps its height in the preview.
func (ntr *NodeTextRenderer) Render(nodeID string) string {
	text, ok := ntr.ctx.AllNodes[nodeID].(*flex.Text)
	if !ok {
		return ""
	}

	content := text.Text
	if strings.TrimSpace(content) == "" {
		content = " "
	}

	var html strings.Builder
	err := nodeTextTmpl.Execute(&html, nodeTextData{
		ID:    text.ID,
		Class: ntr.css.GetNodeClasses(nodeID, "flex-text"),
		Style: template.CSS(ntr.css.GetNodeStringStyles(nodeID)),
		Text:  content,
	})
	if err != nil {
		log.Printf("ERROR: Failed to execute nodeText template for nodeID %s: %v", nodeID, err)
		return "<!-- error escaping text -->"
	}
	return html.String()
}
