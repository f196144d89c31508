package editor

import (
	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
)

// TargetRole describes where a drop target sits in its bubble: the root box
// of one of the four sections, or a box nested somewhere below one.
type TargetRole string

const (
	RoleNested TargetRole = "nested"
	RoleHeader TargetRole = TargetRole(flex.SectionHeader)
	RoleHero   TargetRole = TargetRole(flex.SectionHero)
	RoleBody   TargetRole = TargetRole(flex.SectionBody)
	RoleFooter TargetRole = TargetRole(flex.SectionFooter)
)

// SectionRoot returns the role of the root box of a section.
func SectionRoot(role flex.SectionRole) TargetRole { return TargetRole(role) }

// CanPlace decides whether an element of the given kind may be appended to
// target. When it may not, reason explains why in words fit for the UI.
func CanPlace(target flex.Node, role TargetRole, kind flex.Kind) (ok bool, reason string) {
	box, isBox := target.(*flex.Box)
	if !isBox {
		return false, "elements can only be placed inside a box"
	}

	switch kind {
	case flex.KindBox, flex.KindText:
		return true, ""
	case flex.KindButton, flex.KindSeparator, flex.KindImage:
		if box.Layout == flex.LayoutBaseline {
			return false, string(kind) + " cannot be placed in a box with baseline layout"
		}
		return true, ""
	case flex.KindIcon:
		if box.Layout != flex.LayoutBaseline {
			return false, "icon can only be placed in a box with baseline layout"
		}
		return true, ""
	case flex.KindVideo:
		if role != RoleHero {
			return false, "video can only be placed in the hero section"
		}
		return true, ""
	}
	return false, "unknown element kind " + string(kind)
}

// checkSubtree verifies that every descendant of box is legal where it sits,
// assuming box itself has the given role.
func checkSubtree(box *flex.Box, role TargetRole) *Rejection {
	for _, child := range box.Contents {
		if ok, reason := CanPlace(box, role, child.Kind()); !ok {
			return &Rejection{Reason: reason}
		}
		if nested, isBox := child.(*flex.Box); isBox {
			if r := checkSubtree(nested, RoleNested); r != nil {
				return r
			}
		}
	}
	return nil
}
