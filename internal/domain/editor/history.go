package editor

import (
	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
)

// DefaultMaxSnapshots bounds history when no cap is configured.
const DefaultMaxSnapshots = 200

// History is a linear list of whole-document snapshots with a cursor.
// Values are immutable: Record, Undo and Redo return a new History.
type History struct {
	snapshots []flex.Document
	index     int
	max       int
}

// NewHistory starts a history holding only the initial document.
func NewHistory(initial flex.Document, maxSnapshots int) *History {
	if maxSnapshots <= 1 {
		maxSnapshots = DefaultMaxSnapshots
	}
	return &History{snapshots: []flex.Document{initial}, max: maxSnapshots}
}

// Current returns the authoritative document.
func (h *History) Current() flex.Document { return h.snapshots[h.index] }

// Record drops every redo-able snapshot, then appends doc as the new current
// snapshot. The oldest snapshots are discarded beyond the cap.
func (h *History) Record(doc flex.Document) *History {
	kept := h.snapshots[: h.index+1 : h.index+1]
	snapshots := append(kept, doc)
	if excess := len(snapshots) - h.max; excess > 0 {
		snapshots = snapshots[excess:]
	}
	return &History{snapshots: snapshots, index: len(snapshots) - 1, max: h.max}
}

// Undo moves the cursor back one snapshot. ok is false at the oldest snapshot.
func (h *History) Undo() (next *History, ok bool) {
	if h.index == 0 {
		return h, false
	}
	c := *h
	c.index--
	return &c, true
}

// Redo moves the cursor forward one snapshot. ok is false at the newest snapshot.
func (h *History) Redo() (next *History, ok bool) {
	if h.index >= len(h.snapshots)-1 {
		return h, false
	}
	c := *h
	c.index++
	return &c, true
}

func (h *History) CanUndo() bool { return h.index > 0 }
func (h *History) CanRedo() bool { return h.index < len(h.snapshots)-1 }

// Len returns the number of snapshots held.
func (h *History) Len() int { return len(h.snapshots) }

// Index returns the position of the current snapshot.
func (h *History) Index() int { return h.index }
