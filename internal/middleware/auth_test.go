package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wager-program-backend/internal/config"
	"wager-program-backend/internal/middleware"
	"wager-program-backend/internal/models"
	"wager-program-backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(jwtService *services.JWTService, limiter services.RateLimiter) *gin.Engine {
	router := gin.New()
	router.GET("/ping",
		middleware.AuthMiddleware(jwtService),
		middleware.RateLimitMiddleware(limiter, "ping", 2, time.Minute),
		func(c *gin.Context) {
			c.String(http.StatusOK, middleware.Player(c).String())
		})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := services.NewJWTService(&config.Config{JWTSecret: "test-secret"})
	router := newRouter(jwtService, services.NewMemoryStore())

	var player models.Address
	player[0] = 42
	token, err := jwtService.GenerateToken(player)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"bad scheme", "Basic abc", "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", "", http.StatusUnauthorized},
		{"header", "Bearer " + token, "", http.StatusOK},
		{"query", "", "?token=" + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, player.String(), w.Body.String())
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	jwtService := services.NewJWTService(&config.Config{JWTSecret: "test-secret"})
	router := newRouter(jwtService, services.NewMemoryStore())

	var player models.Address
	player[0] = 43
	token, err := jwtService.GenerateToken(player)
	require.NoError(t, err)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
