package flex

import "maps"

// Style carries visual attributes the editor does not interpret
// (backgroundColor, paddingAll, margin, cornerRadius, offsetTop, ...).
type Style map[string]any

// Base holds the fields every node carries.
type Base struct {
	ID          string
	Description string
	Style       Style
}

// Node is an element that can live inside a box. Nodes reachable from a
// history snapshot are never modified; edits clone the path to the change.
type Node interface {
	Kind() Kind
	Meta() *Base
	// Clone returns a shallow copy: a fresh Style map, and for boxes a fresh
	// Contents slice that still points at the same children.
	Clone() Node
}

func (b Base) cloneBase() Base {
	b.Style = maps.Clone(b.Style)
	return b
}

// Box is a layout container.
type Box struct {
	Base
	Layout   Layout
	Contents []Node
}

func (b *Box) Kind() Kind  { return KindBox }
func (b *Box) Meta() *Base { return &b.Base }
func (b *Box) Clone() Node { return b.CloneBox() }

// CloneBox is Clone with the concrete type preserved.
func (b *Box) CloneBox() *Box {
	c := *b
	c.Base = b.cloneBase()
	c.Contents = append([]Node(nil), b.Contents...)
	return &c
}

type Text struct {
	Base
	Text string
}

func (t *Text) Kind() Kind  { return KindText }
func (t *Text) Meta() *Base { return &t.Base }
func (t *Text) Clone() Node {
	c := *t
	c.Base = t.cloneBase()
	return &c
}

type Image struct {
	Base
	URL         string
	Size        string
	AspectMode  string
	AspectRatio string
}

func (i *Image) Kind() Kind  { return KindImage }
func (i *Image) Meta() *Base { return &i.Base }
func (i *Image) Clone() Node {
	c := *i
	c.Base = i.cloneBase()
	return &c
}

type Icon struct {
	Base
	URL         string
	Size        string
	AspectRatio string
}

func (i *Icon) Kind() Kind  { return KindIcon }
func (i *Icon) Meta() *Base { return &i.Base }
func (i *Icon) Clone() Node {
	c := *i
	c.Base = i.cloneBase()
	return &c
}

// Action is what a button does when tapped. URI is used by "uri" actions,
// Data by "postback" actions.
type Action struct {
	Type  string
	Label string
	URI   string
	Data  string
}

type Button struct {
	Base
	Action Action
}

func (b *Button) Kind() Kind  { return KindButton }
func (b *Button) Meta() *Base { return &b.Base }
func (b *Button) Clone() Node {
	c := *b
	c.Base = b.cloneBase()
	return &c
}

type Separator struct {
	Base
}

func (s *Separator) Kind() Kind  { return KindSeparator }
func (s *Separator) Meta() *Base { return &s.Base }
func (s *Separator) Clone() Node {
	c := *s
	c.Base = s.cloneBase()
	return &c
}

type Video struct {
	Base
	URL         string
	PreviewURL  string
	AspectRatio string
}

func (v *Video) Kind() Kind  { return KindVideo }
func (v *Video) Meta() *Base { return &v.Base }
func (v *Video) Clone() Node {
	c := *v
	c.Base = v.cloneBase()
	return &c
}

// Walk visits n and its descendants depth-first, pre-order. parent is nil for
// n itself. Returning false from fn stops the walk.
func Walk(n Node, fn func(n Node, parent *Box) bool) bool {
	return walk(n, nil, fn)
}

func walk(n Node, parent *Box, fn func(n Node, parent *Box) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n, parent) {
		return false
	}
	if box, ok := n.(*Box); ok {
		for _, child := range box.Contents {
			if !walk(child, box, fn) {
				return false
			}
		}
	}
	return true
}

// Find returns the node with the given id inside n, or nil.
func Find(n Node, id string) Node {
	var found Node
	Walk(n, func(cur Node, _ *Box) bool {
		if cur.Meta().ID == id {
			found = cur
			return false
		}
		return true
	})
	return found
}

// DeepClone copies a subtree without sharing any node with the original.
func DeepClone(n Node) Node {
	c := n.Clone()
	if box, ok := c.(*Box); ok {
		for i, child := range box.Contents {
			box.Contents[i] = DeepClone(child)
		}
	}
	return c
}
