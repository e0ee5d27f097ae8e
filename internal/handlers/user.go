package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wager-program-backend/internal/middleware"
	"wager-program-backend/internal/services"
)

type PlayerHandler struct {
	engine *services.WagerEngine
}

func NewPlayerHandler(engine *services.WagerEngine) *PlayerHandler {
	return &PlayerHandler{engine: engine}
}

func (h *PlayerHandler) GetCurrentPlayer(c *gin.Context) {
	player := middleware.Player(c)

	sessions, err := h.engine.GetPlayerSessions(c.Request.Context(), player)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player":   player,
		"sessions": sessions,
	})
}
