package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wager-program-backend/internal/middleware"
	"wager-program-backend/internal/models"
	"wager-program-backend/internal/services"
	"wager-program-backend/internal/wager"
)

type SessionHandler struct {
	engine *services.WagerEngine
}

func NewSessionHandler(engine *services.WagerEngine) *SessionHandler {
	return &SessionHandler{engine: engine}
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.engine.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}

func (h *SessionHandler) JoinSession(c *gin.Context) {
	var req models.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	session, deposit, err := h.engine.JoinUser(c.Request.Context(), c.Param("id"), middleware.Player(c), *req.Team)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"session":         session,
		"deposit":         deposit,
		"deposit_display": models.FormatTokens(deposit),
	})
}

func (h *SessionHandler) PayToSpawn(c *gin.Context) {
	var req models.SpawnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	session, deposit, err := h.engine.PayToSpawn(c.Request.Context(), c.Param("id"), middleware.Player(c), *req.Team)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"session":         session,
		"deposit":         deposit,
		"deposit_display": models.FormatTokens(deposit),
	})
}

func (h *SessionHandler) RecordKill(c *gin.Context) {
	var kill wager.KillRecord
	if err := c.ShouldBindJSON(&kill); err != nil {
		respondBadRequest(c, err)
		return
	}

	session, event, err := h.engine.RecordKill(c.Request.Context(), c.Param("id"), middleware.Player(c), kill)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
		"kill":    event,
	})
}

func (h *SessionHandler) SetWinner(c *gin.Context) {
	var req models.WinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	session, err := h.engine.SetWinner(c.Request.Context(), c.Param("id"), middleware.Player(c), *req.Team)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}

func (h *SessionHandler) GetEarnings(c *gin.Context) {
	accounts, err := strconv.Atoi(c.DefaultQuery("accounts", "0"))
	if err != nil || accounts < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "InvalidRequest",
			"details": "accounts must be a non-negative integer",
		})
		return
	}

	earnings, err := h.engine.ComputeEarnings(c.Request.Context(), c.Param("id"), accounts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"earnings": earnings,
	})
}

func (h *SessionHandler) GetKills(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit <= 0 || limit > services.MaxSessionKills {
		limit = 50
	}

	kills, err := h.engine.GetSessionKills(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"kills":   kills,
		"count":   len(kills),
	})
}
