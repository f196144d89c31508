package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/repositories"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/serializer"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/security"
)

// CardMeta is the user-supplied part of a save.
type CardMeta struct {
	Name    string `json:"name"`
	AltText string `json:"altText"`
}

// SaveResult reports a save the way the editor UI displays it.
type SaveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	CardID  string `json:"cardId,omitempty"`
}

// CardService serializes editor sessions into saved cards.
type CardService struct {
	editor   *EditorService
	cards    repositories.CardRepository
	renderer serializer.HTMLRenderer
	logger   *logging.ChanneledLogger
}

// NewCardService creates the card service singleton.
func NewCardService(editor *EditorService, cards repositories.CardRepository, renderer serializer.HTMLRenderer, logger *logging.ChanneledLogger) *CardService {
	return &CardService{editor: editor, cards: cards, renderer: renderer, logger: logger}
}

// Save persists the current document of a session. Shape problems and name
// clashes are reported in the result; the error is reserved for a missing
// session and storage failures. The session itself is never modified apart
// from remembering which card it wrote.
func (s *CardService) Save(ctx context.Context, profileID string, meta CardMeta, sessionID string) (*SaveResult, error) {
	start := time.Now()
	sess, err := s.editor.Session(sessionID, profileID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(meta.Name)
	if name == "" {
		return &SaveResult{Success: false, Message: "name is required"}, nil
	}

	doc := sess.State().Document()
	artifacts, err := serializer.ToWireFormat(doc, s.renderer)
	if err != nil {
		var shape *serializer.ShapeError
		if errors.As(err, &shape) {
			s.logger.Content().Warn("Card not saved, unexpected document shape",
				"sessionId", sessionID, "nodeId", shape.ID, "reason", shape.Reason)
			return &SaveResult{Success: false, Message: shape.Error()}, nil
		}
		return nil, fmt.Errorf("failed to serialize card: %w", err)
	}
	editorJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode editor document: %w", err)
	}

	exists := &SaveResult{Success: false, Message: fmt.Sprintf("card %q already exists", name)}
	owned := sess.CardID()

	clash, err := s.cards.FindByProfileAndName(ctx, profileID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check card name: %w", err)
	}
	if clash != nil && clash.ID != owned {
		return exists, nil
	}

	var current *content.Card
	if owned != "" {
		if current, err = s.cards.FindByID(ctx, owned); err != nil {
			return nil, fmt.Errorf("failed to load card %s: %w", owned, err)
		}
	}

	if current != nil && current.ProfileID == profileID {
		current.Name = name
		current.AltText = meta.AltText
		current.FlexJSON = artifacts.FlexJSON
		current.HTMLFormat = artifacts.HTML
		current.EditorJSON = string(editorJSON)
		if err := s.cards.Update(ctx, current); err != nil {
			if errors.Is(err, repositories.ErrDuplicateCard) {
				return exists, nil
			}
			return nil, fmt.Errorf("failed to update card: %w", err)
		}
		s.logger.Content().Info("Card updated", "cardId", current.ID, "profileId", profileID, "name", name, "duration", time.Since(start))
		return &SaveResult{Success: true, Message: "card updated", CardID: current.ID}, nil
	}

	card := &content.Card{
		ID:         security.GenerateULID(),
		ProfileID:  profileID,
		Name:       name,
		AltText:    meta.AltText,
		FlexJSON:   artifacts.FlexJSON,
		HTMLFormat: artifacts.HTML,
		EditorJSON: string(editorJSON),
		Created:    time.Now().UTC(),
	}
	if err := s.cards.Store(ctx, card); err != nil {
		if errors.Is(err, repositories.ErrDuplicateCard) {
			return exists, nil
		}
		return nil, fmt.Errorf("failed to store card: %w", err)
	}
	sess.SetCardID(card.ID)
	s.logger.Content().Info("Card saved", "cardId", card.ID, "profileId", profileID, "name", name, "duration", time.Since(start))
	return &SaveResult{Success: true, Message: "card saved", CardID: card.ID}, nil
}

// List returns the profile's cards without payloads.
func (s *CardService) List(ctx context.Context, profileID string) ([]content.CardSummary, error) {
	cards, err := s.cards.FindByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	out := make([]content.CardSummary, len(cards))
	for i, c := range cards {
		out[i] = c.Summary()
	}
	return out, nil
}

// Get returns a card owned by profileID.
func (s *CardService) Get(ctx context.Context, profileID, id string) (*content.Card, error) {
	if id == "" {
		return nil, fmt.Errorf("card ID cannot be empty")
	}
	card, err := s.cards.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}
	if card == nil || card.ProfileID != profileID {
		return nil, ErrCardNotFound
	}
	return card, nil
}

// Delete removes a card owned by profileID.
func (s *CardService) Delete(ctx context.Context, profileID, id string) error {
	if _, err := s.Get(ctx, profileID, id); err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete card %s: %w", id, err)
	}
	s.logger.Content().Info("Card deleted", "cardId", id, "profileId", profileID)
	return nil
}
