package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/AtRiskMedia/flexstack-go/internal/application/services"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// CardHandlers serves saved cards
type CardHandlers struct {
	cardService *services.CardService
	logger      *logging.ChanneledLogger
}

// NewCardHandlers creates card handlers with injected dependencies
func NewCardHandlers(cardService *services.CardService, logger *logging.ChanneledLogger) *CardHandlers {
	return &CardHandlers{cardService: cardService, logger: logger}
}

// GetAllCards handles GET /api/v1/cards
func (h *CardHandlers) GetAllCards(c *gin.Context) {
	profileID, ok := requireProfile(c)
	if !ok {
		return
	}
	start := time.Now()
	cards, err := h.cardService.List(c.Request.Context(), profileID)
	if err != nil {
		h.logger.Content().Error("Failed to list cards", "error", err, "profileId", profileID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.logger.Content().Debug("Listed cards", "profileId", profileID, "count", len(cards), "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"cards": cards, "count": len(cards)})
}

// GetCardByID handles GET /api/v1/cards/:id
func (h *CardHandlers) GetCardByID(c *gin.Context) {
	profileID, ok := requireProfile(c)
	if !ok {
		return
	}
	card, err := h.cardService.Get(c.Request.Context(), profileID, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, card)
}

// DeleteCard handles DELETE /api/v1/cards/:id
func (h *CardHandlers) DeleteCard(c *gin.Context) {
	profileID, ok := requireProfile(c)
	if !ok {
		return
	}
	if err := h.cardService.Delete(c.Request.Context(), profileID, c.Param("id")); err != nil {
		if errors.Is(err, services.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
