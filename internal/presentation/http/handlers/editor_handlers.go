package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/application/services"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/editor"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const maxCommandBytes = 1 << 20

// EditorHandlers contains the editor session HTTP handlers
type EditorHandlers struct {
	editorService *services.EditorService
	cardService   *services.CardService
	broadcaster   *messaging.LiveBroadcaster
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
	upgrader      websocket.Upgrader
}

// NewEditorHandlers creates editor handlers with injected dependencies.
// allowedOrigins gates the live websocket handshake; "*" admits any origin.
func NewEditorHandlers(
	editorService *services.EditorService,
	cardService *services.CardService,
	broadcaster *messaging.LiveBroadcaster,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
	allowedOrigins []string,
) *EditorHandlers {
	return &EditorHandlers{
		editorService: editorService,
		cardService:   cardService,
		broadcaster:   broadcaster,
		logger:        logger,
		perfTracker:   perfTracker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// PostSession handles POST /api/v1/editor/sessions - opens an editor session
func (h *EditorHandlers) PostSession(c *gin.Context) {
	profileID, ok := requireProfile(c)
	if !ok {
		return
	}
	start := time.Now()
	marker := h.perfTracker.StartOperation("editor:open", "")
	defer h.perfTracker.CompleteOperation(marker)

	var req services.OpenRequest
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCommandBytes))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			marker.SetError(err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	sess, err := h.editorService.Open(c.Request.Context(), profileID, req)
	if err != nil {
		marker.SetError(err)
		switch {
		case errors.Is(err, services.ErrCardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidDocument):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Editor().Error("Failed to open editor session", "error", err, "profileId", profileID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open session"})
		}
		return
	}

	marker.SessionID = sess.ID
	h.logger.Editor().Info("Open session request completed", "sessionId", sess.ID, "duration", time.Since(start))
	c.JSON(http.StatusCreated, gin.H{"sessionId": sess.ID, "state": sess.State()})
}

// GetSession handles GET /api/v1/editor/sessions/:id
func (h *EditorHandlers) GetSession(c *gin.Context) {
	profileID, ok := requireProfile(c)
	if !ok {
		return
	}
	sess, err := h.editorService.Session(c.Param("id"), profileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": sess.ID, "cardId": sess.CardID(), "state": sess.State()})
}

// PostCommand handles POST /api/v1/editor/sessions/:id/commands - reduces one
// command. A rejected command is still a 200 with outcome.rejection set.
func (h *EditorHandlers) PostCommand(c *gin.Context) {
	profileID, ok := requireProfile(c)
	if !ok {
		return
	}
	sessionID := c.Param("id")
	marker := h.perfTracker.StartOperation("editor:command", sessionID)
	defer h.perfTracker.CompleteOperation(marker)

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCommandBytes))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	result, err := h.editorService.Dispatch(sessionID, profileID, raw)
	if err != nil {
		marker.SetError(err)
		var inv *editor.InvariantError
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidCommand):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &inv):
			c.JSON(http.StatusInternalServerError, gin.H{"error": inv.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "command failed"})
		}
		return
	}

	marker.AddMetadata("applied", result.Outcome.Applied)
	if result.Outcome.Rejection != "" {
		marker.AddMetadata("rejection", result.Outcome.Rejection)
	}
	c.JSON(http.StatusOK, result)
}

// PostSave handles POST /api/v1/editor/sessions/:id/save
func (h *EditorHandlers) PostSave(c *gin.Context) {
	profileID, ok := requireProfile(c)
	if !ok {
		return
	}
	sessionID := c.Param("id")
	start := time.Now()
	marker := h.perfTracker.StartOperation("card:save", sessionID)
	defer h.perfTracker.CompleteOperation(marker)

	var meta services.CardMeta
	if err := c.ShouldBindJSON(&meta); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.cardService.Save(c.Request.Context(), profileID, meta, sessionID)
	if err != nil {
		marker.SetError(err)
		if errors.Is(err, services.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Content().Error("Card save failed", "sessionId", sessionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save card"})
		return
	}

	marker.SetSuccess(result.Success)
	h.logger.Content().Info("Save request completed", "sessionId", sessionID, "success", result.Success, "duration", time.Since(start))
	c.JSON(http.StatusOK, result)
}

// DeleteSession handles DELETE /api/v1/editor/sessions/:id
func (h *EditorHandlers) DeleteSession(c *gin.Context) {
	profileID, ok := requireProfile(c)
	if !ok {
		return
	}
	if err := h.editorService.Close(c.Param("id"), profileID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetLive handles GET /api/v1/editor/sessions/:id/live - upgrades to a
// websocket that receives a preview after every applied command while live
// mode is on.
func (h *EditorHandlers) GetLive(c *gin.Context) {
	profileID, ok := requireProfile(c)
	if !ok {
		return
	}
	sess, err := h.editorService.Session(c.Param("id"), profileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Live().Warn("Websocket upgrade failed", "sessionId", sess.ID, "error", err)
		return
	}

	client := h.broadcaster.NewClient(conn, sess.ID)
	if snapshot, err := h.editorService.LiveSnapshot(sess); err == nil {
		client.Send <- snapshot
	} else {
		h.logger.Live().Warn("Initial live snapshot failed", "sessionId", sess.ID, "error", err)
	}
	h.broadcaster.Register(client)
	h.logger.Live().Info("Live preview connected", "sessionId", sess.ID)

	go client.WritePump()
	client.ReadPump(h.broadcaster)
	h.logger.Live().Info("Live preview disconnected", "sessionId", sess.ID)
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}
