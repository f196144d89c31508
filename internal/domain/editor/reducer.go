package editor

import (
	"errors"
	"io"
	"log/slog"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
)

// IDGenerator hands out node ids that never collide within a session.
type IDGenerator interface {
	NewID() string
}

// Outcome describes what a command did.
type Outcome struct {
	// Applied is true when the state changed in any way.
	Applied bool `json:"applied"`
	// Recorded is true when a new history snapshot was appended.
	Recorded bool `json:"recorded"`
	// Rejection holds the user-facing reason a command was refused.
	Rejection string `json:"rejection,omitempty"`
}

// Reducer applies commands to editor states. It is synchronous and holds no
// per-session data, so one Reducer serves every session.
type Reducer struct {
	ids    IDGenerator
	logger *slog.Logger
}

// NewReducer creates a reducer. A nil logger discards instrumentation.
func NewReducer(ids IDGenerator, logger *slog.Logger) *Reducer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reducer{ids: ids, logger: logger}
}

// Reduce returns the state following cmd. Rejected and no-op commands return
// s itself. The error is non-nil only for an invariant violation, in which
// case s is returned untouched.
func (r *Reducer) Reduce(s *State, cmd Command) (*State, Outcome, error) {
	switch c := cmd.(type) {
	case AddElement:
		return r.addElement(s, c.BubbleID, c.SectionID, c.TargetID, c.ElementDetails, cmd.Type())
	case UpdateElement:
		return r.updateElement(s, c)
	case DeleteElement:
		return r.deleteElement(s, c)
	case ChangeClickedElement:
		return r.changeClicked(s, c)
	case Undo:
		next, ok := s.History.Undo()
		return r.travel(s, next, ok)
	case Redo:
		next, ok := s.History.Redo()
		return r.travel(s, next, ok)
	case ChangeDevice:
		device, err := flex.ParseDevice(string(c.Device))
		if err != nil {
			return r.rejected(s, cmd.Type(), err.Error())
		}
		return s.with(func(n *State) { n.Device = device }), Outcome{Applied: true}, nil
	case TogglePreviewMode:
		return s.with(func(n *State) { n.PreviewMode = !n.PreviewMode }), Outcome{Applied: true}, nil
	case ToggleLiveMode:
		return s.with(func(n *State) { n.LiveMode = !n.LiveMode }), Outcome{Applied: true}, nil
	case BeginDrag:
		kind, err := flex.ParseElementKind(string(c.Kind))
		if err != nil {
			return r.rejected(s, cmd.Type(), err.Error())
		}
		return s.with(func(n *State) { n.Drag = &DragPayload{Kind: kind} }), Outcome{Applied: true}, nil
	case CommitDrop:
		return r.commitDrop(s, c)
	case CancelDrag:
		if s.Drag == nil {
			return s, Outcome{}, nil
		}
		return s.with(func(n *State) { n.Drag = nil }), Outcome{Applied: true}, nil
	case AddBubble:
		return r.addBubble(s, c)
	case DeleteBubble:
		return r.deleteBubble(s, c)
	case Malformed:
		return r.rejected(s, c.Name, c.Reason)
	case nil:
		return r.rejected(s, "", "empty command")
	}
	return r.rejected(s, cmd.Type(), "unsupported command "+string(cmd.Type()))
}

func (r *Reducer) addElement(s *State, bubbleID, sectionID, targetID string, details flex.Node, name CommandType) (*State, Outcome, error) {
	if details == nil {
		return r.rejected(s, name, "elementDetails is required")
	}
	if targetID == "" {
		return r.rejected(s, name, "targetId is required")
	}
	node := flex.DeepClone(details)
	flex.Reassign(node, r.ids.NewID)

	next, err := Insert(s.Document(), bubbleID, sectionID, targetID, node)
	if err != nil {
		return r.refused(s, name, err, targetID, bubbleID, sectionID)
	}
	return r.record(s, next, name, func(*State) {})
}

func (r *Reducer) updateElement(s *State, c UpdateElement) (*State, Outcome, error) {
	if c.ElementDetails == nil {
		return r.rejected(s, c.Type(), "elementDetails is required")
	}
	details := flex.DeepClone(c.ElementDetails)
	flex.AssignIDs(details, r.ids.NewID)

	next, changed, err := Update(s.Document(), c.BubbleID, c.SectionID, details)
	if err != nil {
		return r.refused(s, c.Type(), err, c.ElementDetails.Meta().ID, c.BubbleID, c.SectionID)
	}
	if !changed {
		return s, Outcome{}, nil
	}
	return r.record(s, next, c.Type(), func(n *State) { n.Selection = keepSelection(n.Selection, next) })
}

func (r *Reducer) deleteElement(s *State, c DeleteElement) (*State, Outcome, error) {
	if c.ElementID == "" {
		return r.rejected(s, c.Type(), "elementId is required")
	}
	next, err := Delete(s.Document(), c.BubbleID, c.SectionID, c.ElementID)
	if err != nil {
		return r.refused(s, c.Type(), err, c.ElementID, c.BubbleID, c.SectionID)
	}
	return r.record(s, next, c.Type(), func(n *State) { n.Selection = keepSelection(n.Selection, next) })
}

func (r *Reducer) changeClicked(s *State, c ChangeClickedElement) (*State, Outcome, error) {
	if c.ElementID == "" && c.SectionID == "" && c.BubbleID == "" {
		return s.with(func(n *State) { n.Selection = nil }), Outcome{Applied: s.Selection != nil}, nil
	}
	doc := s.Document()
	if c.ElementID != "" && !doc.Contains(c.ElementID) {
		return r.rejected(s, c.Type(), "element "+c.ElementID+" not found")
	}
	sel := Selection{ElementID: c.ElementID, SectionID: c.SectionID, BubbleID: c.BubbleID}
	return s.with(func(n *State) { n.Selection = &sel }), Outcome{Applied: true}, nil
}

func (r *Reducer) travel(s *State, next *History, ok bool) (*State, Outcome, error) {
	if !ok {
		return s, Outcome{}, nil
	}
	return s.with(func(n *State) {
		n.History = next
		n.Selection = keepSelection(n.Selection, next.Current())
	}), Outcome{Applied: true}, nil
}

func (r *Reducer) commitDrop(s *State, c CommitDrop) (*State, Outcome, error) {
	if s.Drag == nil {
		return r.rejected(s, c.Type(), "no element is being dragged")
	}
	dropped := s.with(func(n *State) { n.Drag = nil })
	el, err := flex.NewElement(s.Drag.Kind)
	if err != nil {
		next, out, _ := r.rejected(dropped, c.Type(), err.Error())
		out.Applied = true
		return next, out, nil
	}
	next, out, err := r.addElement(dropped, c.BubbleID, c.SectionID, c.TargetID, el, c.Type())
	if err != nil {
		return s, out, err
	}
	// The drag payload is consumed by the drop whether or not it lands.
	out.Applied = true
	return next, out, nil
}

func (r *Reducer) addBubble(s *State, c AddBubble) (*State, Outcome, error) {
	next, err := InsertBubble(s.Document(), c.AfterBubbleID, flex.NewBubble(r.ids.NewID), r.ids.NewID)
	if err != nil {
		return r.refused(s, c.Type(), err, c.AfterBubbleID, c.AfterBubbleID, "")
	}
	return r.record(s, next, c.Type(), func(*State) {})
}

func (r *Reducer) deleteBubble(s *State, c DeleteBubble) (*State, Outcome, error) {
	next, err := RemoveBubble(s.Document(), c.BubbleID)
	if err != nil {
		return r.refused(s, c.Type(), err, c.BubbleID, c.BubbleID, "")
	}
	return r.record(s, next, c.Type(), func(n *State) {
		n.Selection = keepSelection(n.Selection, next)
		if n.Selection != nil && n.Selection.BubbleID == c.BubbleID {
			n.Selection = nil
		}
	})
}

// record appends next to history after checking document invariants.
func (r *Reducer) record(s *State, next flex.Document, name CommandType, also func(*State)) (*State, Outcome, error) {
	if id, err := CheckInvariants(next); err != nil {
		r.logger.Error("Document invariant violated", "command", name, "id", id, "error", err.Error())
		return s, Outcome{}, &InvariantError{Command: name, ID: id, Err: err}
	}
	ns := s.with(func(n *State) {
		n.History = s.History.Record(next)
		also(n)
	})
	r.logger.Debug("Command recorded", "command", name, "historyIndex", ns.History.Index(), "historyLength", ns.History.Len())
	return ns, Outcome{Applied: true, Recorded: true}, nil
}

// refused maps a mutator error to an outcome: rejections are surfaced,
// stale ids are logged and ignored.
func (r *Reducer) refused(s *State, name CommandType, err error, id, bubbleID, sectionID string) (*State, Outcome, error) {
	if reason, ok := AsRejection(err); ok {
		return r.rejected(s, name, reason)
	}
	if errors.Is(err, ErrNotFound) {
		r.logger.Warn("Command target not found, ignoring",
			"command", name, "elementId", id, "bubbleId", bubbleID, "sectionId", sectionID)
		return s, Outcome{}, nil
	}
	return r.rejected(s, name, err.Error())
}

func (r *Reducer) rejected(s *State, name CommandType, reason string) (*State, Outcome, error) {
	r.logger.Warn("Command rejected", "command", name, "reason", reason)
	return s, Outcome{Rejection: reason}, nil
}

// keepSelection drops a selection whose element or bubble is gone from doc.
func keepSelection(sel *Selection, doc flex.Document) *Selection {
	if sel == nil {
		return nil
	}
	if sel.ElementID != "" && !doc.Contains(sel.ElementID) {
		return nil
	}
	if sel.BubbleID != "" && doc.BubbleIndex(sel.BubbleID) < 0 {
		return nil
	}
	return sel
}
