// Package container provides dependency injection for all singleton services
package container

import (
	"database/sql"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/application/services"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/persistence/content"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/sessions"
	"github.com/AtRiskMedia/flexstack-go/internal/presentation/templates"
	"github.com/AtRiskMedia/flexstack-go/pkg/config"
)

// Options carries the settings the services are built with.
type Options struct {
	JWTSecret           string
	EditorPasswordHash  string
	TokenTTL            time.Duration
	HistoryMaxSnapshots int
	LiveBroadcastBuffer int
	MediaDir            string
	MediaURLPrefix      string
	MaxImageWidth       int
	WebPQuality         int
	MaxUploadBytes      int64
}

// OptionsFromConfig reads Options from pkg/config. jwtSecret replaces the
// configured secret, which startup may have generated.
func OptionsFromConfig(jwtSecret string) Options {
	return Options{
		JWTSecret:           jwtSecret,
		EditorPasswordHash:  config.EditorPasswordHash,
		TokenTTL:            config.TokenTTL,
		HistoryMaxSnapshots: config.HistoryMaxSnapshots,
		LiveBroadcastBuffer: config.LiveBroadcastBuffer,
		MediaDir:            config.MediaDir,
		MediaURLPrefix:      config.MediaURLPrefix,
		MaxImageWidth:       config.MaxImageWidth,
		WebPQuality:         config.WebPQuality,
		MaxUploadBytes:      int64(config.MaxUploadMB) << 20,
	}
}

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	EditorService *services.EditorService
	CardService   *services.CardService
	MediaService  *services.MediaService
	AuthService   *services.AuthService

	// Infrastructure Dependencies
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
	DB          *sql.DB
	Sessions    *sessions.Store
	Broadcaster *messaging.LiveBroadcaster
	Renderer    *templates.DocumentRenderer
	Options     Options
}

// NewContainer creates and wires all singleton services
func NewContainer(db *sql.DB, logger *logging.ChanneledLogger, opts Options) *Container {
	cardRepo := content.NewCardRepository(db, logger)
	mediaRepo := content.NewMediaFileRepository(db)

	store := sessions.NewStore()
	renderer := templates.NewDocumentRenderer()
	broadcaster := messaging.NewLiveBroadcaster(logger, opts.LiveBroadcastBuffer)

	editorService := services.NewEditorService(store, renderer, broadcaster, cardRepo, logger, opts.HistoryMaxSnapshots)

	return &Container{
		EditorService: editorService,
		CardService:   services.NewCardService(editorService, cardRepo, renderer, logger),
		MediaService: services.NewMediaService(
			media.NewImageProcessor(opts.MediaDir, opts.MediaURLPrefix, opts.MaxImageWidth, opts.WebPQuality, opts.MaxUploadBytes),
			media.NewVideoStore(opts.MediaDir, opts.MediaURLPrefix, opts.MaxUploadBytes),
			mediaRepo,
			logger,
		),
		AuthService: services.NewAuthService(logger, opts.JWTSecret, opts.EditorPasswordHash, opts.TokenTTL),

		Logger:      logger,
		PerfTracker: performance.NewTracker(performance.DefaultTrackerConfig()),
		DB:          db,
		Sessions:    store,
		Broadcaster: broadcaster,
		Renderer:    renderer,
		Options:     opts,
	}
}
