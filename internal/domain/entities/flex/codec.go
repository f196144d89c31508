package flex

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// EncodeOptions controls which fields EncodeNode emits.
type EncodeOptions struct {
	// EditorFields keeps id and description, which the wire format drops.
	EditorFields bool
}

// Editor is the encoding used for editor state and session snapshots.
var Editor = EncodeOptions{EditorFields: true}

// EncodeNode converts a node into its flex-message object form.
func EncodeNode(n Node, opts EncodeOptions) map[string]any {
	base := n.Meta()
	m := make(map[string]any, len(base.Style)+6)
	for k, v := range base.Style {
		m[k] = v
	}
	m["type"] = string(n.Kind())
	if opts.EditorFields {
		m["id"] = base.ID
		if base.Description != "" {
			m["description"] = base.Description
		}
	}

	switch v := n.(type) {
	case *Box:
		m["layout"] = string(v.Layout)
		contents := make([]any, 0, len(v.Contents))
		for _, child := range v.Contents {
			contents = append(contents, EncodeNode(child, opts))
		}
		m["contents"] = contents
	case *Text:
		m["text"] = v.Text
	case *Image:
		m["url"] = v.URL
		setIf(m, "size", v.Size)
		setIf(m, "aspectMode", v.AspectMode)
		setIf(m, "aspectRatio", v.AspectRatio)
	case *Icon:
		m["url"] = v.URL
		setIf(m, "size", v.Size)
		setIf(m, "aspectRatio", v.AspectRatio)
	case *Button:
		action := map[string]any{"type": v.Action.Type}
		setIf(action, "label", v.Action.Label)
		setIf(action, "uri", v.Action.URI)
		setIf(action, "data", v.Action.Data)
		m["action"] = action
	case *Video:
		m["url"] = v.URL
		setIf(m, "previewUrl", v.PreviewURL)
		setIf(m, "aspectRatio", v.AspectRatio)
	}
	return m
}

// EncodeBubble converts a bubble, sections included, into object form.
func EncodeBubble(b *Bubble, opts EncodeOptions) map[string]any {
	m := make(map[string]any, len(b.Style)+8)
	for k, v := range b.Style {
		m[k] = v
	}
	m["type"] = string(KindBubble)
	if opts.EditorFields {
		m["id"] = b.ID
		if b.Description != "" {
			m["description"] = b.Description
		}
	}
	setIf(m, "size", b.Size)
	setIf(m, "direction", b.Direction)
	for _, role := range SectionOrder {
		if s := b.Section(role); s != nil {
			m[string(role)] = EncodeNode(s, opts)
		}
	}
	return m
}

// EncodeDocument converts a whole document into object form.
func EncodeDocument(d Document, opts EncodeOptions) map[string]any {
	if d.Carousel == nil {
		if d.Bubble == nil {
			return map[string]any{}
		}
		return EncodeBubble(d.Bubble, opts)
	}
	m := map[string]any{"type": string(KindCarousel)}
	if opts.EditorFields {
		m["id"] = d.Carousel.ID
		if d.Carousel.Description != "" {
			m["description"] = d.Carousel.Description
		}
	}
	contents := make([]any, 0, len(d.Carousel.Contents))
	for _, b := range d.Carousel.Contents {
		contents = append(contents, EncodeBubble(b, opts))
	}
	m["contents"] = contents
	return m
}

// MarshalJSON emits the editor encoding.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(EncodeDocument(d, Editor))
}

func setIf(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

// DecodeDocument parses a JSON document. Nodes without an id get one from
// newID; a nil newID leaves them empty.
func DecodeDocument(data []byte, newID IDFunc) (Document, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Document{}, fmt.Errorf("failed to parse document: %w", err)
	}
	return DecodeDocumentMap(m, newID)
}

// DecodeDocumentYAML parses a YAML document with the same schema as JSON.
func DecodeDocumentYAML(data []byte, newID IDFunc) (Document, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Document{}, fmt.Errorf("failed to parse yaml document: %w", err)
	}
	return DecodeDocumentMap(m, newID)
}

// DecodeDocumentMap builds a document from its object form.
func DecodeDocumentMap(m map[string]any, newID IDFunc) (Document, error) {
	d := &decoder{newID: newID}
	switch Kind(str(m, "type")) {
	case KindCarousel:
		raw, _ := m["contents"].([]any)
		if len(raw) == 0 {
			return Document{}, fmt.Errorf("carousel has no bubbles")
		}
		c := &Carousel{ID: d.id(m), Description: str(m, "description")}
		for i, item := range raw {
			bm, ok := item.(map[string]any)
			if !ok {
				return Document{}, fmt.Errorf("carousel item %d is not an object", i)
			}
			b, err := d.bubble(bm)
			if err != nil {
				return Document{}, fmt.Errorf("carousel item %d: %w", i, err)
			}
			c.Contents = append(c.Contents, b)
		}
		return Document{Carousel: c}, nil
	case KindBubble:
		b, err := d.bubble(m)
		if err != nil {
			return Document{}, err
		}
		return Document{Bubble: b}, nil
	}
	return Document{}, fmt.Errorf("document root must be a carousel or bubble, got %q", str(m, "type"))
}

// DecodeNode builds an element from its object form.
func DecodeNode(m map[string]any, newID IDFunc) (Node, error) {
	d := &decoder{newID: newID}
	return d.node(m)
}

type decoder struct {
	newID IDFunc
}

func (d *decoder) id(m map[string]any) string {
	if id := str(m, "id"); id != "" {
		return id
	}
	if d.newID != nil {
		return d.newID()
	}
	return ""
}

func (d *decoder) bubble(m map[string]any) (*Bubble, error) {
	if k := str(m, "type"); k != string(KindBubble) {
		return nil, fmt.Errorf("expected bubble, got %q", k)
	}
	b := &Bubble{
		ID:          d.id(m),
		Description: str(m, "description"),
		Size:        str(m, "size"),
		Direction:   str(m, "direction"),
		Style:       rest(m, "type", "id", "description", "size", "direction", "header", "hero", "body", "footer"),
	}
	for _, role := range SectionOrder {
		raw, ok := m[string(role)]
		if !ok || raw == nil {
			continue
		}
		sm, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("section %s is not an object", role)
		}
		n, err := d.node(sm)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", role, err)
		}
		box, ok := n.(*Box)
		if !ok {
			// Collapsed wire sections hold their only child directly.
			box = &Box{Base: Base{ID: d.id(map[string]any{})}, Layout: LayoutVertical, Contents: []Node{n}}
		}
		b = b.WithSection(role, box)
	}
	return b, nil
}

func (d *decoder) node(m map[string]any) (Node, error) {
	base := Base{ID: d.id(m), Description: str(m, "description")}
	kind := Kind(str(m, "type"))
	switch kind {
	case KindBox:
		layout, err := ParseLayout(str(m, "layout"))
		if err != nil {
			return nil, err
		}
		base.Style = rest(m, "type", "id", "description", "layout", "contents")
		box := &Box{Base: base, Layout: layout}
		raw, _ := m["contents"].([]any)
		for i, item := range raw {
			cm, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("box content %d is not an object", i)
			}
			child, err := d.node(cm)
			if err != nil {
				return nil, err
			}
			box.Contents = append(box.Contents, child)
		}
		return box, nil
	case KindText:
		base.Style = rest(m, "type", "id", "description", "text")
		return &Text{Base: base, Text: str(m, "text")}, nil
	case KindImage:
		base.Style = rest(m, "type", "id", "description", "url", "size", "aspectMode", "aspectRatio")
		return &Image{Base: base, URL: str(m, "url"), Size: str(m, "size"), AspectMode: str(m, "aspectMode"), AspectRatio: str(m, "aspectRatio")}, nil
	case KindIcon:
		base.Style = rest(m, "type", "id", "description", "url", "size", "aspectRatio")
		return &Icon{Base: base, URL: str(m, "url"), Size: str(m, "size"), AspectRatio: str(m, "aspectRatio")}, nil
	case KindButton:
		base.Style = rest(m, "type", "id", "description", "action")
		am, _ := m["action"].(map[string]any)
		if am == nil {
			return nil, fmt.Errorf("button has no action")
		}
		return &Button{Base: base, Action: Action{
			Type:  str(am, "type"),
			Label: str(am, "label"),
			URI:   str(am, "uri"),
			Data:  str(am, "data"),
		}}, nil
	case KindSeparator:
		base.Style = rest(m, "type", "id", "description")
		return &Separator{Base: base}, nil
	case KindVideo:
		base.Style = rest(m, "type", "id", "description", "url", "previewUrl", "aspectRatio")
		return &Video{Base: base, URL: str(m, "url"), PreviewURL: str(m, "previewUrl"), AspectRatio: str(m, "aspectRatio")}, nil
	}
	return nil, fmt.Errorf("unknown node type %q", kind)
}

func str(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func rest(m map[string]any, known ...string) Style {
	var s Style
	for k, v := range m {
		skip := false
		for _, kn := range known {
			if k == kn {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		if s == nil {
			s = make(Style)
		}
		s[k] = v
	}
	return s
}
