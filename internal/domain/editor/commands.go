package editor

import (
	"encoding/json"
	"fmt"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
)

// CommandType is the wire name of a reducer command.
type CommandType string

const (
	CmdAddElement        CommandType = "ADD_ELEMENT"
	CmdUpdateElement     CommandType = "UPDATE_ELEMENT"
	CmdDeleteElement     CommandType = "DELETE_ELEMENT"
	CmdChangeClicked     CommandType = "CHANGE_CLICKED_ELEMENT"
	CmdUndo              CommandType = "UNDO"
	CmdRedo              CommandType = "REDO"
	CmdChangeDevice      CommandType = "CHANGE_DEVICE"
	CmdTogglePreviewMode CommandType = "TOGGLE_PREVIEW_MODE"
	CmdToggleLiveMode    CommandType = "TOGGLE_LIVE_MODE"
	CmdBeginDrag         CommandType = "BEGIN_DRAG"
	CmdCommitDrop        CommandType = "COMMIT_DROP"
	CmdCancelDrag        CommandType = "CANCEL_DRAG"
	CmdAddBubble         CommandType = "ADD_BUBBLE"
	CmdDeleteBubble      CommandType = "DELETE_BUBBLE"
)

// Command is an input to Reduce.
type Command interface {
	Type() CommandType
}

type AddElement struct {
	BubbleID       string
	SectionID      string
	TargetID       string
	ElementDetails flex.Node
}

type UpdateElement struct {
	BubbleID       string
	SectionID      string
	ElementDetails flex.Node
}

type DeleteElement struct {
	BubbleID  string
	SectionID string
	ElementID string
}

// ChangeClickedElement moves the selection. An empty ElementID selects only
// the section or bubble; all fields empty clears the selection.
type ChangeClickedElement struct {
	ElementID string
	SectionID string
	BubbleID  string
}

type Undo struct{}
type Redo struct{}

type ChangeDevice struct {
	Device flex.Device
}

type TogglePreviewMode struct{}
type ToggleLiveMode struct{}

type BeginDrag struct {
	Kind flex.Kind
}

type CommitDrop struct {
	BubbleID  string
	SectionID string
	TargetID  string
}

type CancelDrag struct{}

type AddBubble struct {
	AfterBubbleID string
}

type DeleteBubble struct {
	BubbleID string
}

func (AddElement) Type() CommandType           { return CmdAddElement }
func (UpdateElement) Type() CommandType        { return CmdUpdateElement }
func (DeleteElement) Type() CommandType        { return CmdDeleteElement }
func (ChangeClickedElement) Type() CommandType { return CmdChangeClicked }
func (Undo) Type() CommandType                 { return CmdUndo }
func (Redo) Type() CommandType                 { return CmdRedo }
func (ChangeDevice) Type() CommandType         { return CmdChangeDevice }
func (TogglePreviewMode) Type() CommandType    { return CmdTogglePreviewMode }
func (ToggleLiveMode) Type() CommandType       { return CmdToggleLiveMode }
func (BeginDrag) Type() CommandType            { return CmdBeginDrag }
func (CommitDrop) Type() CommandType           { return CmdCommitDrop }
func (CancelDrag) Type() CommandType           { return CmdCancelDrag }
func (AddBubble) Type() CommandType            { return CmdAddBubble }
func (DeleteBubble) Type() CommandType         { return CmdDeleteBubble }

// commandEnvelope is the JSON shape the editor UI posts.
type commandEnvelope struct {
	Type           CommandType     `json:"type"`
	BubbleID       string          `json:"bubbleId"`
	SectionID      string          `json:"sectionId"`
	TargetID       string          `json:"targetId"`
	ElementID      string          `json:"elementId"`
	AfterBubbleID  string          `json:"afterBubbleId"`
	Device         string          `json:"device"`
	Kind           string          `json:"kind"`
	ElementDetails json.RawMessage `json:"elementDetails"`
}

// DecodeCommand parses a command posted by the UI. Element kinds, devices and
// node shapes are validated by the reducer so that a malformed command is a
// rejection rather than a transport error; only unparseable JSON fails here.
func DecodeCommand(data []byte) (Command, error) {
	var env commandEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse command: %w", err)
	}

	details, detailsErr := decodeDetails(env.ElementDetails)

	switch env.Type {
	case CmdAddElement:
		if detailsErr != nil {
			return Malformed{Name: env.Type, Reason: detailsErr.Error()}, nil
		}
		return AddElement{BubbleID: env.BubbleID, SectionID: env.SectionID, TargetID: env.TargetID, ElementDetails: details}, nil
	case CmdUpdateElement:
		if detailsErr != nil {
			return Malformed{Name: env.Type, Reason: detailsErr.Error()}, nil
		}
		return UpdateElement{BubbleID: env.BubbleID, SectionID: env.SectionID, ElementDetails: details}, nil
	case CmdDeleteElement:
		return DeleteElement{BubbleID: env.BubbleID, SectionID: env.SectionID, ElementID: firstNonEmpty(env.ElementID, idOf(details))}, nil
	case CmdChangeClicked:
		return ChangeClickedElement{ElementID: firstNonEmpty(env.ElementID, idOf(details)), SectionID: env.SectionID, BubbleID: env.BubbleID}, nil
	case CmdUndo:
		return Undo{}, nil
	case CmdRedo:
		return Redo{}, nil
	case CmdChangeDevice:
		return ChangeDevice{Device: flex.Device(env.Device)}, nil
	case CmdTogglePreviewMode:
		return TogglePreviewMode{}, nil
	case CmdToggleLiveMode:
		return ToggleLiveMode{}, nil
	case CmdBeginDrag:
		return BeginDrag{Kind: flex.Kind(env.Kind)}, nil
	case CmdCommitDrop:
		return CommitDrop{BubbleID: env.BubbleID, SectionID: env.SectionID, TargetID: env.TargetID}, nil
	case CmdCancelDrag:
		return CancelDrag{}, nil
	case CmdAddBubble:
		return AddBubble{AfterBubbleID: env.AfterBubbleID}, nil
	case CmdDeleteBubble:
		return DeleteBubble{BubbleID: env.BubbleID}, nil
	}
	return Malformed{Name: env.Type, Reason: fmt.Sprintf("unknown command %q", env.Type)}, nil
}

// Malformed stands in for a command that could not be understood. Reducing
// it is always a rejection.
type Malformed struct {
	Name   CommandType
	Reason string
}

func (m Malformed) Type() CommandType { return m.Name }

func decodeDetails(raw json.RawMessage) (flex.Node, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("elementDetails must be an object")
	}
	return flex.DecodeNode(m, nil)
}

func idOf(n flex.Node) string {
	if n == nil {
		return ""
	}
	return n.Meta().ID
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
