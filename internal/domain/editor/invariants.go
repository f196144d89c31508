package editor

import (
	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
)

// CheckInvariants verifies id uniqueness and acyclic containment. It returns
// the offending id alongside ErrDuplicateID or ErrCyclicContainment.
func CheckInvariants(doc flex.Document) (string, error) {
	seen := make(map[string]struct{})
	mark := func(id string) bool {
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
		return true
	}

	if doc.Carousel != nil && !mark(doc.Carousel.ID) {
		return doc.Carousel.ID, ErrDuplicateID
	}
	for _, b := range doc.Bubbles() {
		if !mark(b.ID) {
			return b.ID, ErrDuplicateID
		}
		for _, role := range flex.SectionOrder {
			root := b.Section(role)
			if root == nil {
				continue
			}
			if id, err := checkNode(root, make(map[*flex.Box]struct{}), mark); err != nil {
				return id, err
			}
		}
	}
	return "", nil
}

func checkNode(n flex.Node, onPath map[*flex.Box]struct{}, mark func(string) bool) (string, error) {
	id := n.Meta().ID
	box, isBox := n.(*flex.Box)
	if isBox {
		if _, cyclic := onPath[box]; cyclic {
			return id, ErrCyclicContainment
		}
	}
	if !mark(id) {
		return id, ErrDuplicateID
	}
	if !isBox {
		return "", nil
	}
	onPath[box] = struct{}{}
	defer delete(onPath, box)
	for _, child := range box.Contents {
		if cid, err := checkNode(child, onPath, mark); err != nil {
			return cid, err
		}
	}
	return "", nil
}
