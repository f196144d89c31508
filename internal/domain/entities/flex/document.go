package flex

import "maps"

// Bubble is one card. Each section is an optional root box.
type Bubble struct {
	ID          string
	Description string
	Size        string
	Direction   string
	Style       Style
	Header      *Box
	Hero        *Box
	Body        *Box
	Footer      *Box
}

// Section returns the root box of the given section, or nil when absent.
func (b *Bubble) Section(role SectionRole) *Box {
	switch role {
	case SectionHeader:
		return b.Header
	case SectionHero:
		return b.Hero
	case SectionBody:
		return b.Body
	case SectionFooter:
		return b.Footer
	}
	return nil
}

// WithSection returns a copy of b with the given section replaced.
func (b *Bubble) WithSection(role SectionRole, box *Box) *Bubble {
	c := b.Clone()
	switch role {
	case SectionHeader:
		c.Header = box
	case SectionHero:
		c.Hero = box
	case SectionBody:
		c.Body = box
	case SectionFooter:
		c.Footer = box
	}
	return c
}

// Clone is a shallow copy; section boxes are shared.
func (b *Bubble) Clone() *Bubble {
	c := *b
	c.Style = maps.Clone(b.Style)
	return &c
}

// RoleOf reports which section root box has the given id.
func (b *Bubble) RoleOf(boxID string) (SectionRole, bool) {
	for _, role := range SectionOrder {
		if s := b.Section(role); s != nil && s.ID == boxID {
			return role, true
		}
	}
	return "", false
}

// Carousel is an ordered list of bubbles.
type Carousel struct {
	ID          string
	Description string
	Contents    []*Bubble
}

// Document is either a carousel or a single bubble. Exactly one field is set.
type Document struct {
	Carousel *Carousel
	Bubble   *Bubble
}

// IsCarousel reports whether the document root is a carousel.
func (d Document) IsCarousel() bool { return d.Carousel != nil }

// IsZero reports whether the document has no root at all.
func (d Document) IsZero() bool { return d.Carousel == nil && d.Bubble == nil }

// Bubbles returns the document's bubbles in order.
func (d Document) Bubbles() []*Bubble {
	if d.Carousel != nil {
		return d.Carousel.Contents
	}
	if d.Bubble != nil {
		return []*Bubble{d.Bubble}
	}
	return nil
}

// BubbleIndex returns the position of the bubble with the given id, or -1.
func (d Document) BubbleIndex(id string) int {
	for i, b := range d.Bubbles() {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// WithBubble returns a document in which the bubble at index i is replaced.
func (d Document) WithBubble(i int, b *Bubble) Document {
	if d.Carousel == nil {
		return Document{Bubble: b}
	}
	c := *d.Carousel
	c.Contents = append([]*Bubble(nil), d.Carousel.Contents...)
	c.Contents[i] = b
	return Document{Carousel: &c}
}

// WalkNodes visits every element of every section of every bubble, in
// bubble order and header, hero, body, footer order.
func (d Document) WalkNodes(fn func(n Node, parent *Box, bubble *Bubble, role SectionRole) bool) {
	for _, b := range d.Bubbles() {
		for _, role := range SectionOrder {
			root := b.Section(role)
			if root == nil {
				continue
			}
			cont := Walk(root, func(n Node, parent *Box) bool {
				return fn(n, parent, b, role)
			})
			if !cont {
				return
			}
		}
	}
}

// IDs returns every id in the document, including carousel and bubble ids,
// in traversal order. Duplicates are kept so callers can detect them.
func (d Document) IDs() []string {
	var ids []string
	if d.Carousel != nil {
		ids = append(ids, d.Carousel.ID)
	}
	for _, b := range d.Bubbles() {
		ids = append(ids, b.ID)
	}
	d.WalkNodes(func(n Node, _ *Box, _ *Bubble, _ SectionRole) bool {
		ids = append(ids, n.Meta().ID)
		return true
	})
	return ids
}

// Contains reports whether any node, bubble or carousel has the id.
func (d Document) Contains(id string) bool {
	if id == "" {
		return false
	}
	for _, existing := range d.IDs() {
		if existing == id {
			return true
		}
	}
	return false
}
