// Package templates provides per-kind flex element rendering
package templates

import (
	"html/template"
	"log"
	"strings"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/rendering"
)

// NodeRenderer interface for child node rendering
type NodeRenderer interface {
	RenderNode(nodeID string) string
	GetChildNodeIDs(nodeID string) []string
}

// CSSProcessor supplies classes and inline styles derived from node styles
type CSSProcessor interface {
	GetNodeClasses(nodeID string, defaultClasses string) string
	GetNodeStringStyles(nodeID string) string
}

var nodeBoxTmpl = template.Must(template.New("nodeBox").Parse(
	`<div id="{{.ID}}" class="{{.Class}}" data-kind="box"{{if .Style}} style="{{.Style}}"{{end}}>`,
))

type nodeBoxData struct {
	ID    string
	Class string
	Style template.CSS
}

// NodeBoxRenderer renders a box and its children in order
type NodeBoxRenderer struct {
	ctx          *rendering.RenderContext
	nodeRenderer NodeRenderer
	css          CSSProcessor
}

// NewNodeBoxRenderer creates a new box renderer
func NewNodeBoxRenderer(ctx *rendering.RenderContext, nodeRenderer NodeRenderer, css CSSProcessor) *NodeBoxRenderer {
	return &NodeBoxRenderer{
		ctx:          ctx,
		nodeRenderer: nodeRenderer,
		css:          css,
	}
}

// Render writes the box wrapper with its layout class, then every child.
func (nbr *NodeBoxRenderer) Render(nodeID string) string {
	box, ok := nbr.ctx.AllNodes[nodeID].(*flex.Box)
	if !ok {
		return RenderEmpty()
	}

	var html strings.Builder
	err := nodeBoxTmpl.Execute(&html, nodeBoxData{
		ID:    box.ID,
		Class: nbr.css.GetNodeClasses(nodeID, "flex-box flex-box-"+string(box.Layout)),
		Style: template.CSS(nbr.css.GetNodeStringStyles(nodeID)),
	})
	if err != nil {
		log.Printf("ERROR: Failed to execute nodeBox template for nodeID %s: %v", nodeID, err)
		return `<!-- error rendering box -->`
	}

	for _, childID := range nbr.nodeRenderer.GetChildNodeIDs(nodeID) {
		html.WriteString(nbr.nodeRenderer.RenderNode(childID))
	}
	html.WriteString(`</div>`)
	return html.String()
}
