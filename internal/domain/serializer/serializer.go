// Package serializer turns an editor document into the two artifacts saved
// with a card: flex-message JSON for the messaging platform and an HTML preview.
package serializer

import (
	"encoding/json"
	"fmt"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
)

// ShapeError reports a node the wire format cannot represent.
type ShapeError struct {
	ID     string
	Reason string
}

func (e *ShapeError) Error() string {
	if e.ID == "" {
		return "unexpected document shape: " + e.Reason
	}
	return fmt.Sprintf("unexpected shape at node %s: %s", e.ID, e.Reason)
}

// HTMLRenderer renders the uncollapsed editor tree.
type HTMLRenderer interface {
	RenderDocument(doc flex.Document) (string, error)
}

// Artifacts are the persisted outputs of a save.
type Artifacts struct {
	FlexJSON string
	HTML     string
}

// ToWireFormat builds both artifacts. The JSON comes from a stripped and
// collapsed copy; the HTML is rendered from doc as edited.
func ToWireFormat(doc flex.Document, html HTMLRenderer) (Artifacts, error) {
	flexJSON, err := ToFlexJSON(doc)
	if err != nil {
		return Artifacts{}, err
	}
	rendered, err := html.RenderDocument(doc)
	if err != nil {
		return Artifacts{}, fmt.Errorf("failed to render html: %w", err)
	}
	return Artifacts{FlexJSON: string(flexJSON), HTML: rendered}, nil
}

// ToFlexJSON encodes doc as flex-message JSON.
func ToFlexJSON(doc flex.Document) ([]byte, error) {
	m, err := Collapse(doc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

var wire = flex.EncodeOptions{}

// Collapse strips ids and descriptions and simplifies containers: a section
// or box left with one child is replaced by that child, one left with none is
// dropped.
func Collapse(doc flex.Document) (map[string]any, error) {
	if doc.IsZero() {
		return nil, &ShapeError{Reason: "document is empty"}
	}
	if doc.Carousel == nil {
		return collapseBubble(doc.Bubble)
	}
	if len(doc.Carousel.Contents) == 0 {
		return nil, &ShapeError{ID: doc.Carousel.ID, Reason: "carousel has no bubbles"}
	}
	contents := make([]any, 0, len(doc.Carousel.Contents))
	for _, b := range doc.Carousel.Contents {
		bm, err := collapseBubble(b)
		if err != nil {
			return nil, err
		}
		contents = append(contents, bm)
	}
	return map[string]any{"type": string(flex.KindCarousel), "contents": contents}, nil
}

func collapseBubble(b *flex.Bubble) (map[string]any, error) {
	if b == nil {
		return nil, &ShapeError{Reason: "nil bubble"}
	}
	// Encode the bubble shell only; sections are collapsed below.
	shell := *b
	shell.Header, shell.Hero, shell.Body, shell.Footer = nil, nil, nil, nil
	m := flex.EncodeBubble(&shell, wire)

	for _, role := range flex.SectionOrder {
		section := b.Section(role)
		if section == nil {
			continue
		}
		v, present, err := collapseNode(section)
		if err != nil {
			return nil, err
		}
		if present {
			m[string(role)] = v
		}
	}
	return m, nil
}

func collapseNode(n flex.Node) (map[string]any, bool, error) {
	if n == nil {
		return nil, false, &ShapeError{Reason: "nil node in contents"}
	}
	if err := checkShape(n); err != nil {
		return nil, false, err
	}
	box, isBox := n.(*flex.Box)
	if !isBox {
		return flex.EncodeNode(n, wire), true, nil
	}

	contents := make([]any, 0, len(box.Contents))
	for _, child := range box.Contents {
		v, present, err := collapseNode(child)
		if err != nil {
			return nil, false, err
		}
		if present {
			contents = append(contents, v)
		}
	}
	switch len(contents) {
	case 0:
		return nil, false, nil
	case 1:
		return contents[0].(map[string]any), true, nil
	}

	shell := &flex.Box{Base: box.Base, Layout: box.Layout}
	m := flex.EncodeNode(shell, wire)
	m["contents"] = contents
	return m, true, nil
}

func checkShape(n flex.Node) error {
	id := n.Meta().ID
	switch v := n.(type) {
	case *flex.Box:
		if _, err := flex.ParseLayout(string(v.Layout)); err != nil {
			return &ShapeError{ID: id, Reason: err.Error()}
		}
	case *flex.Button:
		if v.Action.Type == "" {
			return &ShapeError{ID: id, Reason: "button action has no type"}
		}
	case *flex.Image:
		if v.URL == "" {
			return &ShapeError{ID: id, Reason: "image has no url"}
		}
	case *flex.Icon:
		if v.URL == "" {
			return &ShapeError{ID: id, Reason: "icon has no url"}
		}
	case *flex.Video:
		if v.URL == "" {
			return &ShapeError{ID: id, Reason: "video has no url"}
		}
	case *flex.Text, *flex.Separator:
	default:
		return &ShapeError{ID: id, Reason: fmt.Sprintf("unsupported node kind %q", n.Kind())}
	}
	return nil
}
