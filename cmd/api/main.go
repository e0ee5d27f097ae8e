package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"wager-program-backend/internal/config"
	"wager-program-backend/internal/handlers"
	"wager-program-backend/internal/services"
)

type backend interface {
	services.SessionStore
	services.RateLimiter
	services.NonceStore
	services.SessionSeeder
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	var store backend
	if cfg.Store == "memory" {
		logger.Warn("using in-memory session store")
		store = services.NewMemoryStore()
	} else {
		redisService, err := services.NewRedisService(cfg)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisService.Close()
		store = redisService
	}

	if cfg.SeedFile != "" {
		if err := seedSessions(store, cfg.SeedFile); err != nil {
			logger.Fatal("failed to seed sessions", zap.String("file", cfg.SeedFile), zap.Error(err))
		}
	}

	jwtService := services.NewJWTService(cfg)

	engine := services.NewWagerEngine(store, cfg, logger.Named("engine"))
	wsHandler := handlers.NewWebSocketHandler(logger.Named("ws"))
	engine.SetBroadcaster(wsHandler)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	handlers.RegisterRoutes(router, handlers.Dependencies{
		Config:    cfg,
		Engine:    engine,
		JWT:       jwtService,
		Nonces:    store,
		Limiter:   store,
		WebSocket: wsHandler,
	})

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func seedSessions(store services.SessionSeeder, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := services.SeedSessions(context.Background(), store, f)
	if err != nil {
		return err
	}
	zap.L().Info("seeded sessions", zap.String("file", path), zap.Int("written", n))
	return nil
}
