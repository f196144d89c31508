// Package templates renders flex documents to the HTML preview saved with a card
package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/rendering"

	templates "github.com/AtRiskMedia/flexstack-go/internal/presentation/templates/elements"
)

var documentTemplates = template.Must(template.New("documentRenderer").Parse(
	`{{define "preview"}}<div class="flex-preview flex-preview-{{.}}">{{end}}` +
		`{{define "carousel"}}<div id="{{.}}" class="flex-carousel">{{end}}` +
		`{{define "bubble"}}<div id="{{.ID}}" class="flex-bubble flex-bubble-{{.Size}}"{{if .Direction}} dir="{{.Direction}}"{{end}}{{if .Style}} style="{{.Style}}"{{end}}>{{end}}` +
		`{{define "section"}}<div class="flex-section flex-{{.Role}}" data-bubble="{{.BubbleID}}" data-section="{{.Role}}"{{if .Style}} style="{{.Style}}"{{end}}>{{end}}`,
))

type bubbleData struct {
	ID        string
	Size      string
	Direction string
	Style     template.CSS
}

type sectionData struct {
	BubbleID string
	Role     flex.SectionRole
	Style    template.CSS
}

// NodeRenderer interface for child node rendering
type NodeRenderer interface {
	RenderNode(nodeID string) string
	GetChildNodeIDs(nodeID string) []string
}

// NodeRendererImpl dispatches a node id to the renderer for its kind
type NodeRendererImpl struct {
	ctx          *rendering.RenderContext
	cssProcessor *CSSProcessorImpl
}

// NewNodeRenderer creates a new node renderer with context
func NewNodeRenderer(ctx *rendering.RenderContext) *NodeRendererImpl {
	renderer := &NodeRendererImpl{ctx: ctx}
	renderer.cssProcessor = NewCSSProcessorImpl(ctx)
	return renderer
}

// RenderNode renders a node by ID
func (nr *NodeRendererImpl) RenderNode(nodeID string) string {
	if nodeID == "" {
		return templates.RenderEmpty()
	}
	node, exists := nr.ctx.AllNodes[nodeID]
	if !exists {
		return templates.RenderEmpty()
	}

	switch node.Kind() {
	case flex.KindBox:
		return templates.NewNodeBoxRenderer(nr.ctx, nr, nr.cssProcessor).Render(nodeID)
	case flex.KindText:
		return templates.NewNodeTextRenderer(nr.ctx, nr.cssProcessor).Render(nodeID)
	case flex.KindButton:
		return templates.NewNodeButtonRenderer(nr.ctx, nr.cssProcessor).Render(nodeID)
	case flex.KindImage, flex.KindIcon, flex.KindVideo, flex.KindSeparator:
		return templates.NewNodeMediaRenderer(nr.ctx, nr.cssProcessor).Render(nodeID)
	default:
		log.Printf("WARN: no renderer for node kind %s (%s)", node.Kind(), nodeID)
		return templates.RenderEmpty()
	}
}

// GetChildNodeIDs returns child node IDs for a given parent
func (nr *NodeRendererImpl) GetChildNodeIDs(parentID string) []string {
	if nr.ctx.ParentNodes == nil {
		return []string{}
	}
	children, exists := nr.ctx.ParentNodes[parentID]
	if !exists {
		return []string{}
	}
	return children
}

// DocumentRenderer renders whole documents. It is stateless and safe for
// concurrent use.
type DocumentRenderer struct{}

// NewDocumentRenderer creates a document renderer
func NewDocumentRenderer() *DocumentRenderer {
	return &DocumentRenderer{}
}

// RenderDocument renders doc at desktop width.
func (dr *DocumentRenderer) RenderDocument(doc flex.Document) (string, error) {
	return dr.RenderForDevice(doc, flex.DeviceDesktop)
}

// RenderForDevice renders the uncollapsed tree of doc, wrapped in a preview
// container sized for device. Empty sections are kept so the preview mirrors
// the editor canvas.
func (dr *DocumentRenderer) RenderForDevice(doc flex.Document, device flex.Device) (string, error) {
	if doc.IsZero() {
		return "", fmt.Errorf("cannot render an empty document")
	}
	ctx, err := rendering.NewRenderContext(doc, device)
	if err != nil {
		return "", fmt.Errorf("failed to index document: %w", err)
	}
	nr := NewNodeRenderer(ctx)

	var html bytes.Buffer
	dr.executeTemplate(&html, "preview", strings.ToLower(string(device)))
	if doc.Carousel != nil {
		dr.executeTemplate(&html, "carousel", doc.Carousel.ID)
	}
	for _, b := range doc.Bubbles() {
		dr.renderBubble(&html, nr, b)
	}
	if doc.Carousel != nil {
		html.WriteString(`</div>`)
	}
	html.WriteString(`</div>`)
	return html.String(), nil
}

func (dr *DocumentRenderer) renderBubble(html *bytes.Buffer, nr *NodeRendererImpl, b *flex.Bubble) {
	size := b.Size
	if size == "" {
		size = "mega"
	}
	dr.executeTemplate(html, "bubble", bubbleData{
		ID:        b.ID,
		Size:      size,
		Direction: b.Direction,
		Style:     template.CSS(StyleDeclarations(b.Style)),
	})

	// Per-section styles live under bubble.styles.<role> on the wire.
	sectionStyles, _ := b.Style["styles"].(map[string]any)
	for _, role := range flex.SectionOrder {
		root := b.Section(role)
		if root == nil {
			continue
		}
		var style flex.Style
		if m, ok := sectionStyles[string(role)].(map[string]any); ok {
			style = flex.Style(m)
		}
		dr.executeTemplate(html, "section", sectionData{
			BubbleID: b.ID,
			Role:     role,
			Style:    template.CSS(StyleDeclarations(style)),
		})
		html.WriteString(nr.RenderNode(root.ID))
		html.WriteString(`</div>`)
	}
	html.WriteString(`</div>`)
}

func (dr *DocumentRenderer) executeTemplate(buf *bytes.Buffer, name string, data interface{}) {
	err := documentTemplates.ExecuteTemplate(buf, name, data)
	if err != nil {
		log.Printf("ERROR: Failed to execute document template '%s': %v", name, err)
		buf.WriteString("<!-- template error -->")
	}
}
