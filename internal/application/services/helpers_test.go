package services

import (
	"database/sql"
	"sync"
	"testing"

	schema "github.com/AtRiskMedia/flexstack-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	persistence "github.com/AtRiskMedia/flexstack-go/internal/infrastructure/persistence/content"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/sessions"
	"github.com/AtRiskMedia/flexstack-go/internal/presentation/templates"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.NewConnection(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, schema.NewTableCreator().CreateSchema(db.DB))
	return db.DB
}

// fakePublisher records what the editor service pushes to live clients.
type fakePublisher struct {
	mu        sync.Mutex
	clients   int
	published map[string][][]byte
	closed    []string
}

func (p *fakePublisher) Publish(sessionID string, message []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.published == nil {
		p.published = make(map[string][][]byte)
	}
	p.published[sessionID] = append(p.published[sessionID], message)
}

func (p *fakePublisher) CloseSession(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, sessionID)
}

func (p *fakePublisher) ClientCount(string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clients
}

func (p *fakePublisher) messages(sessionID string) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.published[sessionID]
}

type fixture struct {
	editor    *EditorService
	cards     *CardService
	publisher *fakePublisher
	db        *sql.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openTestDB(t)
	logger := logging.NewNopLogger()
	repo := persistence.NewCardRepository(db, logger)
	renderer := templates.NewDocumentRenderer()
	publisher := &fakePublisher{}

	editorService := NewEditorService(sessions.NewStore(), renderer, publisher, repo, logger, 50)
	return &fixture{
		editor:    editorService,
		cards:     NewCardService(editorService, repo, renderer, logger),
		publisher: publisher,
		db:        db,
	}
}
