package content

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/repositories"
	schema "github.com/AtRiskMedia/flexstack-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/persistence/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB returns an in-memory store. One connection keeps every query on
// the same memory database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.NewConnection(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, schema.NewTableCreator().CreateSchema(db.DB))
	return db.DB
}

func sampleCard(id, profile, name string) *content.Card {
	return &content.Card{
		ID:         id,
		ProfileID:  profile,
		Name:       name,
		AltText:    "alt " + name,
		FlexJSON:   `{"type":"bubble"}`,
		HTMLFormat: `<div></div>`,
		EditorJSON: `{"type":"bubble","id":"b"}`,
		Created:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCardRepository_StoreAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(openTestDB(t), logging.NewNopLogger())

	card := sampleCard("c1", "p1", "Welcome")
	require.NoError(t, repo.Store(ctx, card))

	got, err := repo.FindByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, card.Name, got.Name)
	assert.Equal(t, card.EditorJSON, got.EditorJSON)
	assert.True(t, card.Created.Equal(got.Created))
	assert.Nil(t, got.Changed)

	byName, err := repo.FindByProfileAndName(ctx, "p1", "Welcome")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "c1", byName.ID)

	missing, err := repo.FindByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	other, err := repo.FindByProfileAndName(ctx, "p2", "Welcome")
	assert.NoError(t, err)
	assert.Nil(t, other)
}

func TestCardRepository_DuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(openTestDB(t), logging.NewNopLogger())

	require.NoError(t, repo.Store(ctx, sampleCard("c1", "p1", "Promo")))
	err := repo.Store(ctx, sampleCard("c2", "p1", "Promo"))
	assert.ErrorIs(t, err, repositories.ErrDuplicateCard)

	// Names are unique per profile only.
	assert.NoError(t, repo.Store(ctx, sampleCard("c3", "p2", "Promo")))

	require.NoError(t, repo.Store(ctx, sampleCard("c4", "p1", "Other")))
	renamed := sampleCard("c4", "p1", "Promo")
	assert.ErrorIs(t, repo.Update(ctx, renamed), repositories.ErrDuplicateCard)
}

func TestCardRepository_UpdateListDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewCardRepository(openTestDB(t), logging.NewNopLogger())

	older := sampleCard("c1", "p1", "First")
	newer := sampleCard("c2", "p1", "Second")
	newer.Created = older.Created.Add(time.Hour)
	require.NoError(t, repo.Store(ctx, older))
	require.NoError(t, repo.Store(ctx, newer))
	require.NoError(t, repo.Store(ctx, sampleCard("c3", "p2", "Elsewhere")))

	older.FlexJSON = `{"type":"carousel","contents":[]}`
	older.EditorJSON = ""
	require.NoError(t, repo.Update(ctx, older))
	require.NotNil(t, older.Changed)

	got, err := repo.FindByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, older.FlexJSON, got.FlexJSON)
	assert.Empty(t, got.EditorJSON)
	require.NotNil(t, got.Changed)

	cards, err := repo.FindByProfile(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "c2", cards[0].ID, "newest first")

	require.NoError(t, repo.Delete(ctx, "c2"))
	cards, err = repo.FindByProfile(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, cards, 1)

	none, err := repo.FindByProfile(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMediaFileRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMediaFileRepository(openTestDB(t))

	img := &content.MediaFile{
		ID: "m1", ProfileID: "p1", Kind: content.MediaImage, Filename: "m1.webp",
		URL: "/media/m1.webp", MimeType: "image/webp", Width: 640, Height: 480, Size: 1234,
	}
	video := &content.MediaFile{
		ID: "m2", ProfileID: "p1", Kind: content.MediaVideo, Filename: "m2.mp4",
		URL: "/media/m2.mp4", MimeType: "video/mp4", Size: 99,
		Created: time.Now().UTC().Add(time.Minute),
	}
	require.NoError(t, repo.Store(ctx, img))
	require.NoError(t, repo.Store(ctx, video))
	assert.False(t, img.Created.IsZero())

	got, err := repo.FindByID(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, content.MediaImage, got.Kind)
	assert.Equal(t, 640, got.Width)
	assert.Equal(t, int64(1234), got.Size)

	missing, err := repo.FindByID(ctx, "zzz")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	files, err := repo.FindByProfile(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "m2", files[0].ID)
	assert.Equal(t, 0, files[0].Width)
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{"2026-03-01T12:00:00Z", "2026-03-01 12:00:00+00:00", "2026-03-01 12:00:00"} {
		got, err := parseTime(s)
		require.NoError(t, err, s)
		assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), got)
	}
	_, err := parseTime("yesterday")
	assert.Error(t, err)
}
