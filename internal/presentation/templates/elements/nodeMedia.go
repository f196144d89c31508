package templates

import (
	"html/template"
	"log"
	"strings"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/rendering"
)

var nodeMediaTmpl = template.Must(template.New("nodeMedia").Parse(
	`{{define "image"}}<img id="{{.ID}}" class="{{.Class}}" data-kind="image" src="{{.URL}}" alt="{{.Alt}}" loading="lazy"{{if .Style}} style="{{.Style}}"{{end}}>{{end}}` +
		`{{define "icon"}}<img id="{{.ID}}" class="{{.Class}}" data-kind="icon" src="{{.URL}}" alt=""{{if .Style}} style="{{.Style}}"{{end}}>{{end}}` +
		`{{define "video"}}<video id="{{.ID}}" class="{{.Class}}" data-kind="video" src="{{.URL}}"{{if .Poster}} poster="{{.Poster}}"{{end}} controls playsinline preload="metadata"{{if .Style}} style="{{.Style}}"{{end}}></video>{{end}}` +
		`{{define "separator"}}<hr id="{{.ID}}" class="{{.Class}}" data-kind="separator"{{if .Style}} style="{{.Style}}"{{end}}>{{end}}`,
))

type nodeMediaData struct {
	ID     string
	Class  string
	Style  template.CSS
	URL    string
	Poster string
	Alt    string
}

// NodeMediaRenderer renders the leaf kinds that carry no text: image, icon,
// video and separator.
type NodeMediaRenderer struct {
	ctx *rendering.RenderContext
	css CSSProcessor
}

// NewNodeMediaRenderer creates a new media renderer
func NewNodeMediaRenderer(ctx *rendering.RenderContext, css CSSProcessor) *NodeMediaRenderer {
	return &NodeMediaRenderer{ctx: ctx, css: css}
}

func (nmr *NodeMediaRenderer) Render(nodeID string) string {
	node := nmr.ctx.AllNodes[nodeID]
	if node == nil {
		return RenderEmpty()
	}

	data := nodeMediaData{
		ID:    nodeID,
		Class: nmr.css.GetNodeClasses(nodeID, "flex-"+string(node.Kind())),
		Style: template.CSS(nmr.css.GetNodeStringStyles(nodeID)),
	}
	switch v := node.(type) {
	case *flex.Image:
		data.URL = v.URL
		data.Alt = v.Description
	case *flex.Icon:
		data.URL = v.URL
	case *flex.Video:
		data.URL = v.URL
		data.Poster = v.PreviewURL
	case *flex.Separator:
	default:
		return RenderEmpty()
	}

	var html strings.Builder
	if err := nodeMediaTmpl.ExecuteTemplate(&html, string(node.Kind()), data); err != nil {
		log.Printf("ERROR: Failed to execute %s template for nodeID %s: %v", node.Kind(), nodeID, err)
		return `<!-- error rendering media -->`
	}
	return html.String()
}
