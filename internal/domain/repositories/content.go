// Package repositories defines the repository interfaces for content entities.
// These repositories abstract the data persistence details, ensuring the core
// application is clean and decoupled from the database.
package repositories

import (
	"context"
	"errors"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/content"
)

// ErrDuplicateCard is returned when a profile already owns a card with the
// same name.
var ErrDuplicateCard = errors.New("card already exists")

// CardRepository persists saved cards. Finders return (nil, nil) when no row
// matches.
type CardRepository interface {
	FindByID(ctx context.Context, id string) (*content.Card, error)
	FindByProfileAndName(ctx context.Context, profileID, name string) (*content.Card, error)
	FindByProfile(ctx context.Context, profileID string) ([]*content.Card, error)
	Store(ctx context.Context, card *content.Card) error
	Update(ctx context.Context, card *content.Card) error
	Delete(ctx context.Context, id string) error
}

// MediaFileRepository records uploaded assets.
type MediaFileRepository interface {
	FindByID(ctx context.Context, id string) (*content.MediaFile, error)
	FindByProfile(ctx context.Context, profileID string) ([]*content.MediaFile, error)
	Store(ctx context.Context, file *content.MediaFile) error
}
