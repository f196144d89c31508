// Package content provides the saved card and media repositories
package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/repositories"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/persistence/database"
)

const cardColumns = `id, profile_id, name, alt_text, flex_json, html_format, editor_json, created, changed`

type CardRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewCardRepository(db *sql.DB, logger *logging.ChanneledLogger) *CardRepository {
	return &CardRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CardRepository) FindByID(ctx context.Context, id string) (*content.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM flex_cards WHERE id = ?`
	return r.queryOne(ctx, query, id)
}

func (r *CardRepository) FindByProfileAndName(ctx context.Context, profileID, name string) (*content.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM flex_cards WHERE profile_id = ? AND name = ?`
	return r.queryOne(ctx, query, profileID, name)
}

func (r *CardRepository) FindByProfile(ctx context.Context, profileID string) ([]*content.Card, error) {
	start := time.Now()
	query := `SELECT ` + cardColumns + ` FROM flex_cards WHERE profile_id = ? ORDER BY created DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards := []*content.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return cards, nil
}

// Store inserts card. A second card with the same profile and name yields
// repositories.ErrDuplicateCard.
func (r *CardRepository) Store(ctx context.Context, card *content.Card) error {
	start := time.Now()
	if card.Created.IsZero() {
		card.Created = time.Now().UTC()
	}
	query := `INSERT INTO flex_cards (` + cardColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, card.ID, card.ProfileID, card.Name, card.AltText,
		card.FlexJSON, card.HTMLFormat, nullString(card.EditorJSON), formatTime(card.Created), nullTime(card.Changed))
	if database.IsUniqueViolation(err) {
		return repositories.ErrDuplicateCard
	}
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return nil
}

func (r *CardRepository) Update(ctx context.Context, card *content.Card) error {
	now := time.Now().UTC()
	card.Changed = &now
	query := `UPDATE flex_cards SET name = ?, alt_text = ?, flex_json = ?, html_format = ?, editor_json = ?, changed = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, card.Name, card.AltText, card.FlexJSON, card.HTMLFormat,
		nullString(card.EditorJSON), formatTime(now), card.ID)
	if database.IsUniqueViolation(err) {
		return repositories.ErrDuplicateCard
	}
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return nil
}

func (r *CardRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM flex_cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return nil
}

func (r *CardRepository) queryOne(ctx context.Context, query string, args ...any) (*content.Card, error) {
	start := time.Now()
	card, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return card, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*content.Card, error) {
	var card content.Card
	var editorJSON, changed sql.NullString
	var created string

	err := row.Scan(&card.ID, &card.ProfileID, &card.Name, &card.AltText,
		&card.FlexJSON, &card.HTMLFormat, &editorJSON, &created, &changed)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan card: %w", err)
	}

	if editorJSON.Valid {
		card.EditorJSON = editorJSON.String
	}
	if card.Created, err = parseTime(created); err != nil {
		return nil, err
	}
	if changed.Valid && changed.String != "" {
		t, err := parseTime(changed.String)
		if err != nil {
			return nil, err
		}
		card.Changed = &t
	}
	return &card, nil
}
