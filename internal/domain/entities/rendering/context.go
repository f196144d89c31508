// Package rendering provides domain entities for HTML rendering operations
package rendering

import (
	"fmt"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
)

// SectionRef locates a section root box inside the document.
type SectionRef struct {
	BubbleID string
	Role     flex.SectionRole
}

// RenderContext provides the context for HTML rendering operations
type RenderContext struct {
	AllNodes    map[string]flex.Node    `json:"-"`
	ParentNodes map[string][]string     `json:"parentNodes,omitempty"`
	ParentOf    map[string]string       `json:"parentOf,omitempty"`
	Sections    map[string]SectionRef   `json:"sections,omitempty"`
	Bubbles     map[string]*flex.Bubble `json:"-"`
	Device      flex.Device             `json:"device,omitempty"`
}

// NewRenderContext indexes every node of doc by id. Node ids must be unique
// and non-empty for the lookups to be meaningful.
func NewRenderContext(doc flex.Document, device flex.Device) (*RenderContext, error) {
	ctx := &RenderContext{
		AllNodes:    make(map[string]flex.Node),
		ParentNodes: make(map[string][]string),
		ParentOf:    make(map[string]string),
		Sections:    make(map[string]SectionRef),
		Bubbles:     make(map[string]*flex.Bubble),
		Device:      device,
	}

	for _, b := range doc.Bubbles() {
		ctx.Bubbles[b.ID] = b
		for _, role := range flex.SectionOrder {
			if root := b.Section(role); root != nil {
				ctx.Sections[root.ID] = SectionRef{BubbleID: b.ID, Role: role}
			}
		}
	}

	var indexErr error
	doc.WalkNodes(func(n flex.Node, parent *flex.Box, _ *flex.Bubble, _ flex.SectionRole) bool {
		id := n.Meta().ID
		if id == "" {
			indexErr = fmt.Errorf("node of kind %s has no id", n.Kind())
			return false
		}
		if _, dup := ctx.AllNodes[id]; dup {
			indexErr = fmt.Errorf("duplicate node id %s", id)
			return false
		}
		ctx.AllNodes[id] = n
		if parent != nil {
			ctx.ParentOf[id] = parent.ID
			ctx.ParentNodes[parent.ID] = append(ctx.ParentNodes[parent.ID], id)
		}
		return true
	})
	if indexErr != nil {
		return nil, indexErr
	}
	return ctx, nil
}
