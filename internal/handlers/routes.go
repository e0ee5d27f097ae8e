package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"wager-program-backend/internal/config"
	"wager-program-backend/internal/middleware"
	"wager-program-backend/internal/services"
)

type Dependencies struct {
	Config    *config.Config
	Engine    *services.WagerEngine
	JWT       *services.JWTService
	Nonces    services.NonceStore
	Limiter   services.RateLimiter
	WebSocket *WebSocketHandler
}

func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	authHandler := NewAuthHandler(deps.JWT, deps.Nonces)
	playerHandler := NewPlayerHandler(deps.Engine)
	sessionHandler := NewSessionHandler(deps.Engine)

	router.POST("/auth/token", authHandler.Authenticate)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(deps.JWT))
	{
		protected.GET("/me", playerHandler.GetCurrentPlayer)

		if deps.WebSocket != nil {
			protected.GET("/ws", deps.WebSocket.HandleWebSocket)
		}

		sessions := protected.Group("/sessions/:id")
		{
			sessions.GET("", sessionHandler.GetSession)
			sessions.GET("/kills", sessionHandler.GetKills)
			sessions.GET("/earnings", sessionHandler.GetEarnings)
			sessions.POST("/join", sessionHandler.JoinSession)
			sessions.POST("/spawn",
				middleware.RateLimitMiddleware(deps.Limiter, "spawn", deps.Config.RateLimitSpawns, time.Minute),
				sessionHandler.PayToSpawn)
			sessions.POST("/kills",
				middleware.RateLimitMiddleware(deps.Limiter, "kill", deps.Config.RateLimitKills, time.Minute),
				sessionHandler.RecordKill)
			sessions.POST("/winner", sessionHandler.SetWinner)
		}
	}
}
