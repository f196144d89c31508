// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/AtRiskMedia/flexstack-go/internal/application/container"
	"github.com/AtRiskMedia/flexstack-go/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/flexstack-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(container.Logger))
	r.Use(middleware.CORSMiddleware(corsOrigins))

	// Uploaded assets are served from the media directory.
	r.Static(container.Options.MediaURLPrefix, container.Options.MediaDir)

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	editorHandlers := handlers.NewEditorHandlers(
		container.EditorService,
		container.CardService,
		container.Broadcaster,
		container.Logger,
		container.PerfTracker,
		corsOrigins,
	)
	cardHandlers := handlers.NewCardHandlers(container.CardService, container.Logger)
	mediaHandlers := handlers.NewMediaHandlers(container.MediaService, container.Logger, container.PerfTracker)
	systemHandlers := handlers.NewSystemHandlers(container.EditorService, container.Logger, container.PerfTracker)

	requireAuth := middleware.AuthMiddleware(container.AuthService)

	api := r.Group("/api/v1")
	{
		api.GET("/health", systemHandlers.GetHealth)

		// Authentication routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.GET("/status", requireAuth, authHandlers.GetStatus)
		}

		// Editor sessions
		sessions := api.Group("/editor/sessions")
		sessions.Use(requireAuth)
		{
			sessions.POST("", editorHandlers.PostSession)
			sessions.GET("/:id", editorHandlers.GetSession)
			sessions.DELETE("/:id", editorHandlers.DeleteSession)
			sessions.POST("/:id/commands", editorHandlers.PostCommand)
			sessions.POST("/:id/save", editorHandlers.PostSave)
			sessions.GET("/:id/live", editorHandlers.GetLive)
		}

		// Saved cards
		cards := api.Group("/cards")
		cards.Use(requireAuth)
		{
			cards.GET("", cardHandlers.GetAllCards)
			cards.GET("/:id", cardHandlers.GetCardByID)
			cards.DELETE("/:id", cardHandlers.DeleteCard)
		}

		// Uploads
		mediaGroup := api.Group("/media")
		mediaGroup.Use(requireAuth)
		{
			mediaGroup.GET("", mediaHandlers.GetAllMedia)
			mediaGroup.POST("/images", mediaHandlers.PostImage)
			mediaGroup.POST("/videos", mediaHandlers.PostVideo)
		}

		// System endpoints
		system := api.Group("/system")
		system.Use(requireAuth)
		{
			system.GET("/stats", systemHandlers.GetStats)
			system.GET("/logs/levels", systemHandlers.GetLogLevels)
			system.POST("/logs/levels", systemHandlers.PostLogLevel)
		}
	}

	return r
}
