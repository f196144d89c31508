package editor

import (
	"reflect"
	"slices"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
)

// location pins a node inside a document.
type location struct {
	bubble int
	role   flex.SectionRole
	// path holds child indexes from the section root box down to the node.
	// An empty path is the section root itself.
	path   []int
	node   flex.Node
	parent *flex.Box
}

func (l location) targetRole() TargetRole {
	if len(l.path) == 0 {
		return SectionRoot(l.role)
	}
	return RoleNested
}

// locate finds id, searching the named bubble first, then the remaining
// bubbles in order. Within a bubble the named section is searched first,
// then header, hero, body and footer.
func locate(doc flex.Document, bubbleID, sectionID, id string) (location, bool) {
	if id == "" {
		return location{}, false
	}
	bubbles := doc.Bubbles()
	order := make([]int, 0, len(bubbles))
	if i := doc.BubbleIndex(bubbleID); i >= 0 {
		order = append(order, i)
	}
	for i := range bubbles {
		if len(order) > 0 && order[0] == i {
			continue
		}
		order = append(order, i)
	}

	for _, bi := range order {
		b := bubbles[bi]
		for _, role := range sectionOrder(b, sectionID) {
			root := b.Section(role)
			if root == nil {
				continue
			}
			if path, node, parent, ok := findPath(root, id); ok {
				return location{bubble: bi, role: role, path: path, node: node, parent: parent}, true
			}
		}
	}
	return location{}, false
}

func sectionOrder(b *flex.Bubble, sectionID string) []flex.SectionRole {
	named, ok := flex.ParseSectionRole(sectionID)
	if !ok {
		named, ok = b.RoleOf(sectionID)
	}
	if !ok {
		return flex.SectionOrder
	}
	order := []flex.SectionRole{named}
	for _, r := range flex.SectionOrder {
		if r != named {
			order = append(order, r)
		}
	}
	return order
}

func findPath(root *flex.Box, id string) ([]int, flex.Node, *flex.Box, bool) {
	if root.ID == id {
		return nil, root, nil, true
	}
	for i, child := range root.Contents {
		if child.Meta().ID == id {
			return []int{i}, child, root, true
		}
		if box, ok := child.(*flex.Box); ok {
			if path, node, parent, found := findPath(box, id); found {
				return append([]int{i}, path...), node, parent, true
			}
		}
	}
	return nil, nil, nil, false
}

// rebuild copies every box on path and replaces the node at its end with fn's result.
func rebuild(n flex.Node, path []int, fn func(flex.Node) flex.Node) flex.Node {
	if len(path) == 0 {
		return fn(n)
	}
	box := n.(*flex.Box).CloneBox()
	box.Contents[path[0]] = rebuild(box.Contents[path[0]], path[1:], fn)
	return box
}

func applyAt(doc flex.Document, loc location, path []int, fn func(flex.Node) flex.Node) flex.Document {
	b := doc.Bubbles()[loc.bubble]
	root := rebuild(b.Section(loc.role), path, fn).(*flex.Box)
	return doc.WithBubble(loc.bubble, b.WithSection(loc.role, root))
}

// Insert appends node, whose ids must already be assigned, to the contents of
// targetID. The input document is never modified.
func Insert(doc flex.Document, bubbleID, sectionID, targetID string, node flex.Node) (flex.Document, error) {
	if node == nil {
		return doc, reject("no element to add")
	}
	if node.Meta().ID == "" {
		return doc, reject("element id must be assigned before insert")
	}
	loc, ok := locate(doc, bubbleID, sectionID, targetID)
	if !ok {
		return doc, ErrNotFound
	}
	if ok, reason := CanPlace(loc.node, loc.targetRole(), node.Kind()); !ok {
		return doc, &Rejection{Reason: reason}
	}
	if box, isBox := node.(*flex.Box); isBox {
		if r := checkSubtree(box, RoleNested); r != nil {
			return doc, r
		}
	}

	return applyAt(doc, loc, loc.path, func(n flex.Node) flex.Node {
		target := n.(*flex.Box).CloneBox()
		target.Contents = append(target.Contents, node)
		return target
	}), nil
}

// Update replaces the node with details.ID by details, in the same position.
// changed is false when the node already equals details.
func Update(doc flex.Document, bubbleID, sectionID string, details flex.Node) (next flex.Document, changed bool, err error) {
	if details == nil || details.Meta().ID == "" {
		return doc, false, reject("element id is required")
	}
	id := details.Meta().ID
	loc, ok := locate(doc, bubbleID, sectionID, id)
	if !ok {
		return doc, false, ErrNotFound
	}
	if loc.node.Kind() != details.Kind() {
		return doc, false, reject("cannot change %s into %s", loc.node.Kind(), details.Kind())
	}
	if r := checkReplacementIDs(doc, loc.node, details); r != nil {
		return doc, false, r
	}
	if box, isBox := details.(*flex.Box); isBox {
		if r := checkSubtree(box, loc.targetRole()); r != nil {
			return doc, false, r
		}
	}
	if reflect.DeepEqual(loc.node, details) {
		return doc, false, nil
	}

	return applyAt(doc, loc, loc.path, func(flex.Node) flex.Node {
		return details
	}), true, nil
}

// checkReplacementIDs rejects details whose ids repeat within details, or
// belong to a node outside the subtree details replaces.
func checkReplacementIDs(doc flex.Document, replaced, details flex.Node) *Rejection {
	owned := make(map[string]bool)
	flex.Walk(replaced, func(n flex.Node, _ *flex.Box) bool {
		owned[n.Meta().ID] = true
		return true
	})
	taken := make(map[string]bool)
	for _, id := range doc.IDs() {
		if !owned[id] {
			taken[id] = true
		}
	}

	seen := make(map[string]bool)
	var rejection *Rejection
	flex.Walk(details, func(n flex.Node, _ *flex.Box) bool {
		id := n.Meta().ID
		if seen[id] || taken[id] {
			rejection = reject("duplicate element id %s", id)
			return false
		}
		seen[id] = true
		return true
	})
	return rejection
}

// Delete removes the subtree rooted at elementID from its parent's contents.
func Delete(doc flex.Document, bubbleID, sectionID, elementID string) (flex.Document, error) {
	loc, ok := locate(doc, bubbleID, sectionID, elementID)
	if !ok {
		return doc, ErrNotFound
	}
	if len(loc.path) == 0 {
		return doc, reject("sections cannot be deleted, remove their contents instead")
	}

	last := len(loc.path) - 1
	idx := loc.path[last]
	return applyAt(doc, loc, loc.path[:last], func(n flex.Node) flex.Node {
		parent := n.(*flex.Box).CloneBox()
		parent.Contents = slices.Delete(parent.Contents, idx, idx+1)
		return parent
	}), nil
}

// InsertBubble inserts b after the bubble afterID, or at the end. A single
// bubble document becomes a carousel whose id comes from newID.
func InsertBubble(doc flex.Document, afterID string, b *flex.Bubble, newID flex.IDFunc) (flex.Document, error) {
	if b == nil || b.ID == "" {
		return doc, reject("bubble id must be assigned before insert")
	}
	var carousel flex.Carousel
	if doc.Carousel != nil {
		carousel = *doc.Carousel
	} else {
		carousel.ID = newID()
	}
	bubbles := doc.Bubbles()
	at := len(bubbles)
	if i := doc.BubbleIndex(afterID); i >= 0 {
		at = i + 1
	}
	carousel.Contents = slices.Insert(slices.Clone(bubbles), at, b)
	return flex.Document{Carousel: &carousel}, nil
}

// RemoveBubble removes a bubble. The last remaining bubble cannot be removed.
func RemoveBubble(doc flex.Document, bubbleID string) (flex.Document, error) {
	i := doc.BubbleIndex(bubbleID)
	if i < 0 {
		return doc, ErrNotFound
	}
	if len(doc.Bubbles()) == 1 {
		return doc, reject("a card needs at least one bubble")
	}
	carousel := *doc.Carousel
	carousel.Contents = slices.Delete(slices.Clone(carousel.Contents), i, i+1)
	return flex.Document{Carousel: &carousel}, nil
}
