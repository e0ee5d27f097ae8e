package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wager-program-backend/internal/services"
	"wager-program-backend/internal/wager"
)

var serviceErrors = []struct {
	err    error
	status int
	name   string
}{
	{services.ErrSessionNotFound, http.StatusNotFound, "SessionNotFound"},
	{services.ErrStaleSession, http.StatusConflict, "StaleSession"},
	{services.ErrTeamFull, http.StatusConflict, "TeamFull"},
	{services.ErrPlayerAlreadyJoined, http.StatusConflict, "PlayerAlreadyJoined"},
	{services.ErrPlayerNotFound, http.StatusNotFound, "PlayerNotFound"},
	{services.ErrPlayerHasNoSpawns, http.StatusConflict, "PlayerHasNoSpawns"},
	{services.ErrInvalidGameState, http.StatusConflict, "InvalidGameState"},
	{services.ErrInvalidGameMode, http.StatusBadRequest, "InvalidGameMode"},
	{services.ErrUnauthorized, http.StatusForbidden, "Unauthorized"},
	{services.ErrNoWinner, http.StatusConflict, "NoWinner"},
}

func kindStatus(kind wager.Kind) int {
	switch kind {
	case wager.ErrAlreadyProcessing:
		return http.StatusConflict
	case wager.ErrArithmeticOverflow, wager.ErrArithmeticUnderflow, wager.ErrArithmeticError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func respondError(c *gin.Context, err error) {
	if kind, ok := wager.KindOf(err); ok {
		c.JSON(kindStatus(kind), gin.H{
			"error":   string(kind),
			"code":    kind.Code(),
			"details": err.Error(),
		})
		return
	}

	for _, se := range serviceErrors {
		if errors.Is(err, se.err) {
			c.JSON(se.status, gin.H{
				"error":   se.name,
				"details": err.Error(),
			})
			return
		}
	}

	zap.L().Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err))

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "InternalError",
		"details": "an unexpected error occurred",
	})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "InvalidRequest",
		"details": err.Error(),
	})
}
