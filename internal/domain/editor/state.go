package editor

import (
	"encoding/json"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
)

// Selection is the element, section and bubble the user last clicked.
type Selection struct {
	ElementID string `json:"elementId,omitempty"`
	SectionID string `json:"sectionId,omitempty"`
	BubbleID  string `json:"bubbleId,omitempty"`
}

// DragPayload is captured when a palette drag starts and consumed by the drop.
type DragPayload struct {
	Kind flex.Kind `json:"kind"`
}

// State is one immutable editor state. Reduce returns a new State for every
// applied command; the previous value stays valid.
type State struct {
	History     *History
	Selection   *Selection
	Device      flex.Device
	LiveMode    bool
	PreviewMode bool
	Drag        *DragPayload
}

// NewState opens a session on doc.
func NewState(doc flex.Document, maxSnapshots int) *State {
	return &State{
		History: NewHistory(doc, maxSnapshots),
		Device:  flex.DeviceDesktop,
	}
}

// Document returns the current snapshot.
func (s *State) Document() flex.Document { return s.History.Current() }

func (s *State) with(fn func(*State)) *State {
	c := *s
	fn(&c)
	return &c
}

type historyView struct {
	Index   int  `json:"index"`
	Length  int  `json:"length"`
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

type stateView struct {
	Document    flex.Document `json:"document"`
	History     historyView   `json:"history"`
	Selection   *Selection    `json:"selection"`
	Device      flex.Device   `json:"device"`
	LiveMode    bool          `json:"liveMode"`
	PreviewMode bool          `json:"previewMode"`
	Drag        *DragPayload  `json:"drag,omitempty"`
}

// MarshalJSON emits the current document in editor form plus UI state.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateView{
		Document: s.Document(),
		History: historyView{
			Index:   s.History.Index(),
			Length:  s.History.Len(),
			CanUndo: s.History.CanUndo(),
			CanRedo: s.History.CanRedo(),
		},
		Selection:   s.Selection,
		Device:      s.Device,
		LiveMode:    s.LiveMode,
		PreviewMode: s.PreviewMode,
		Drag:        s.Drag,
	})
}
