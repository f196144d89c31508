// Package services provides application-level services that orchestrate
// editor sessions and coordinate between repositories and domain entities.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/editor"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/repositories"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/serializer"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/sessions"
)

var (
	ErrSessionNotFound = errors.New("editor session not found")
	ErrCardNotFound    = errors.New("card not found")
	ErrInvalidCommand  = errors.New("invalid command")
	ErrInvalidDocument = errors.New("invalid document")
)

// PreviewRenderer renders the edited tree as the editor preview.
type PreviewRenderer interface {
	RenderDocument(doc flex.Document) (string, error)
	RenderForDevice(doc flex.Document, device flex.Device) (string, error)
}

// OpenRequest selects the document a new session starts from. An empty
// request opens a fresh single-bubble document.
type OpenRequest struct {
	FlexJSON json.RawMessage `json:"flexJson,omitempty"`
	CardID   string          `json:"cardId,omitempty"`
}

// DispatchResult is the state after a command and what the command did.
type DispatchResult struct {
	State   *editor.State  `json:"state"`
	Outcome editor.Outcome `json:"outcome"`
}

// LiveUpdate is pushed to live-preview clients after each applied command.
type LiveUpdate struct {
	Type         string          `json:"type"`
	HTML         string          `json:"html"`
	FlexJSON     json.RawMessage `json:"flexJson,omitempty"`
	HistoryIndex int             `json:"historyIndex"`
	Device       flex.Device     `json:"device"`
}

// EditorService owns the open editor sessions and feeds their commands
// through the reducer.
type EditorService struct {
	sessions     *sessions.Store
	reducer      *editor.Reducer
	ids          editor.IDGenerator
	renderer     PreviewRenderer
	publisher    messaging.Publisher
	cards        repositories.CardRepository
	logger       *logging.ChanneledLogger
	maxSnapshots int
}

// NewEditorService creates the editor service singleton.
func NewEditorService(
	store *sessions.Store,
	renderer PreviewRenderer,
	publisher messaging.Publisher,
	cards repositories.CardRepository,
	logger *logging.ChanneledLogger,
	maxSnapshots int,
) *EditorService {
	ids := security.ULIDGenerator{}
	return &EditorService{
		sessions:     store,
		reducer:      editor.NewReducer(ids, logger.Editor()),
		ids:          ids,
		renderer:     renderer,
		publisher:    publisher,
		cards:        cards,
		logger:       logger,
		maxSnapshots: maxSnapshots,
	}
}

// Open starts a session for profileID.
func (s *EditorService) Open(ctx context.Context, profileID string, req OpenRequest) (*sessions.Session, error) {
	start := time.Now()
	doc, cardID, err := s.loadDocument(ctx, profileID, req)
	if err != nil {
		return nil, err
	}
	if id, err := editor.CheckInvariants(doc); err != nil {
		return nil, fmt.Errorf("%w: node %s: %v", ErrInvalidDocument, id, err)
	}

	sess := s.sessions.Create(s.ids.NewID(), profileID, cardID, editor.NewState(doc, s.maxSnapshots))
	s.logger.Editor().Info("Editor session opened",
		"sessionId", sess.ID, "profileId", profileID, "cardId", cardID,
		"carousel", doc.IsCarousel(), "duration", time.Since(start))
	return sess, nil
}

func (s *EditorService) loadDocument(ctx context.Context, profileID string, req OpenRequest) (flex.Document, string, error) {
	newID := s.ids.NewID
	if req.CardID != "" {
		card, err := s.cards.FindByID(ctx, req.CardID)
		if err != nil {
			return flex.Document{}, "", fmt.Errorf("failed to load card %s: %w", req.CardID, err)
		}
		if card == nil || card.ProfileID != profileID {
			return flex.Document{}, "", ErrCardNotFound
		}
		// Prefer the editor form so descriptions and empty sections survive.
		source := card.EditorJSON
		if source == "" {
			source = card.FlexJSON
		}
		doc, err := flex.DecodeDocument([]byte(source), newID)
		if err != nil {
			return flex.Document{}, "", fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return doc, card.ID, nil
	}
	if len(req.FlexJSON) > 0 && string(req.FlexJSON) != "null" {
		doc, err := flex.DecodeDocument(req.FlexJSON, newID)
		if err != nil {
			return flex.Document{}, "", fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return doc, "", nil
	}
	return flex.NewDocument(newID), "", nil
}

// Session returns the session with id if profileID owns it.
func (s *EditorService) Session(sessionID, profileID string) (*sessions.Session, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok || sess.ProfileID != profileID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Dispatch decodes a posted command and reduces it against the session.
// Rejections come back in the outcome; the error is set only for an unknown
// session, unparseable JSON or an invariant violation.
func (s *EditorService) Dispatch(sessionID, profileID string, raw []byte) (*DispatchResult, error) {
	sess, err := s.Session(sessionID, profileID)
	if err != nil {
		return nil, err
	}
	cmd, err := editor.DecodeCommand(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	return s.Apply(sess, cmd)
}

// Apply reduces cmd against sess.
func (s *EditorService) Apply(sess *sessions.Session, cmd editor.Command) (*DispatchResult, error) {
	start := time.Now()
	var (
		outcome editor.Outcome
		state   *editor.State
	)
	err := sess.Do(func(st *editor.State) (*editor.State, error) {
		next, out, err := s.reducer.Reduce(st, cmd)
		outcome, state = out, next
		return next, err
	})
	if err != nil {
		var inv *editor.InvariantError
		if errors.As(err, &inv) {
			s.logger.Editor().Error("Command broke document invariants",
				"sessionId", sess.ID, "command", inv.Command, "nodeId", inv.ID, "error", inv.Err)
		}
		return nil, err
	}

	s.logger.Editor().Debug("Command dispatched",
		"sessionId", sess.ID, "command", typeOf(cmd), "applied", outcome.Applied,
		"recorded", outcome.Recorded, "duration", time.Since(start))

	if outcome.Applied && state.LiveMode {
		s.publishLive(sess.ID, state)
	}
	return &DispatchResult{State: state, Outcome: outcome}, nil
}

func (s *EditorService) publishLive(sessionID string, state *editor.State) {
	if s.publisher == nil || s.publisher.ClientCount(sessionID) == 0 {
		return
	}
	payload, err := s.liveUpdate(state)
	if err != nil {
		s.logger.Live().Warn("Live preview not published", "sessionId", sessionID, "error", err)
		return
	}
	s.publisher.Publish(sessionID, payload)
}

// LiveSnapshot encodes the session's current preview, sent to a live client
// as soon as it connects.
func (s *EditorService) LiveSnapshot(sess *sessions.Session) ([]byte, error) {
	return s.liveUpdate(sess.State())
}

func (s *EditorService) liveUpdate(state *editor.State) ([]byte, error) {
	doc := state.Document()
	html, err := s.renderer.RenderForDevice(doc, state.Device)
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	update := LiveUpdate{Type: "preview", HTML: html, HistoryIndex: state.History.Index(), Device: state.Device}
	// An incomplete tree still previews; only the JSON half is withheld.
	if flexJSON, err := serializer.ToFlexJSON(doc); err == nil {
		update.FlexJSON = flexJSON
	}
	payload, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("failed to encode live update: %w", err)
	}
	return payload, nil
}

// Close ends a session and disconnects its live clients.
func (s *EditorService) Close(sessionID, profileID string) error {
	if _, err := s.Session(sessionID, profileID); err != nil {
		return err
	}
	s.close(sessionID, "closed")
	return nil
}

// ExpireIdle closes sessions with no activity since cutoff.
func (s *EditorService) ExpireIdle(cutoff time.Time) int {
	ids := s.sessions.IdleSince(cutoff)
	for _, id := range ids {
		s.close(id, "expired")
	}
	return len(ids)
}

func (s *EditorService) close(sessionID, reason string) {
	if !s.sessions.Delete(sessionID) {
		return
	}
	if s.publisher != nil {
		s.publisher.CloseSession(sessionID)
	}
	s.logger.Editor().Info("Editor session "+reason, "sessionId", sessionID)
}

// SessionCount reports how many sessions are open.
func (s *EditorService) SessionCount() int { return s.sessions.Len() }

func typeOf(cmd editor.Command) editor.CommandType {
	if cmd == nil {
		return ""
	}
	return cmd.Type()
}
