// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/application/container"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	persistence "github.com/AtRiskMedia/flexstack-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/sessions/cleanup"
	"github.com/AtRiskMedia/flexstack-go/internal/presentation/http/server"
	"github.com/AtRiskMedia/flexstack-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete startup sequence and blocks until a
// shutdown signal arrives.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[32m" + `
  ▄▄▄ ▄▄    ▄▄▄ ▄▄ ▄▄  ▄▄▄ ▄▄▄▄  ▄▄   ▄▄▄ ▄▄ ▄▄
  ██▄ ██    ██▄  ▀█▀  ▀█▄   ██   █▄█  ██  ██▄▀
  ██  ██▄▄ ██▄▄ ▄█ █▄ ▄▄█▀  ██  ██ ██ ▀▀▄▄ ██ █▄
` + "\033[97m" + `
  flex message card editor
` + "\033[0m")

	// Step 1: Create the channeled logger
	log.Println("Initializing logging...")
	logger, err := NewLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	logger.Startup().Info("Channeled logging initialized",
		"json", config.LogJSON, "toFile", config.LogToFile, "level", config.LogLevel)

	// Step 2: Open the card store
	phaseStart := time.Now()
	db, err := persistence.OpenConfigured(logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := persistence.TestConnectionWithLogger(db.DB, logger); err != nil {
		return fmt.Errorf("database connection check failed: %w", err)
	}
	if err := database.NewTableCreator().CreateSchema(db.DB); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	logger.LogStartupPhase("database", time.Since(phaseStart), true, map[string]any{"driver": db.Driver})

	// Step 3: Resolve the token secret
	jwtSecret, err := resolveJWTSecret(logger)
	if err != nil {
		return err
	}
	if config.EditorPasswordHash == "" {
		logger.Startup().Warn("EDITOR_PASSWORD_HASH is not set, logins will be refused")
	}

	// Step 4: Create dependency injection container
	phaseStart = time.Now()
	if err := os.MkdirAll(filepath.Clean(config.MediaDir), 0755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	appContainer := container.NewContainer(db.DB, logger, container.OptionsFromConfig(jwtSecret))
	logger.LogStartupPhase("container", time.Since(phaseStart), true, nil)

	// Step 5: Start background workers
	go appContainer.Broadcaster.Run(ctx)
	go appContainer.PerfTracker.Start(ctx)

	cleanupWorker := cleanup.NewWorker(appContainer.EditorService, logger, cleanup.NewConfig())
	go cleanupWorker.Start(ctx)
	logger.Startup().Info("Background workers started")

	// Step 6: Start HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			cancelBackgroundTasks()
			return err
		}
	}

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"openSessions", appContainer.EditorService.SessionCount(),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// NewLogger builds the channeled logger from pkg/config.
func NewLogger() (*logging.ChanneledLogger, error) {
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDir
	cfg.JSONFormat = config.LogJSON
	cfg.DefaultLevel = logging.ParseLevel(config.LogLevel)
	return logging.NewChanneledLogger(cfg)
}

// resolveJWTSecret returns JWT_SECRET, or a process-lifetime secret when it
// is unset. Tokens issued with a generated secret die with the process.
func resolveJWTSecret(logger *logging.ChanneledLogger) (string, error) {
	if config.JWTSecret != "" {
		return config.JWTSecret, nil
	}
	secret, err := security.GenerateSecureKey(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate jwt secret: %w", err)
	}
	logger.Startup().Warn("JWT_SECRET is not set, using an ephemeral secret")
	return secret, nil
}

// setupLogging configures application logging
func setupLogging() {
	if config.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
