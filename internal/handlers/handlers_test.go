package handlers_test

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wager-program-backend/internal/config"
	"wager-program-backend/internal/handlers"
	"wager-program-backend/internal/models"
	"wager-program-backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	jwt    *services.JWTService
	store  *services.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:            "test-secret",
		JWTTTL:               time.Hour,
		MaxRemainingAccounts: 10,
		RateLimitKills:       100,
		RateLimitSpawns:      100,
	}
	store := services.NewMemoryStore()
	jwtService := services.NewJWTService(cfg)
	engine := services.NewWagerEngine(store, cfg, nil)

	router := gin.New()
	handlers.RegisterRoutes(router, handlers.Dependencies{
		Config:  cfg,
		Engine:  engine,
		JWT:     jwtService,
		Nonces:  store,
		Limiter: store,
	})

	return &testServer{router: router, jwt: jwtService, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, as models.Address, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if !as.IsZero() {
		token, err := s.jwt.GenerateToken(as)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func addr(b byte) models.Address {
	var a models.Address
	a[0] = b
	a[2] = 0x55
	return a
}

var gameServer = addr(100)

func seed(s *testServer, id string, mode models.GameMode) {
	s.store.Put(&models.GameSession{
		ID:         id,
		Authority:  gameServer,
		SessionBet: 100,
		GameMode:   mode,
		Status:     models.SessionStatusWaiting,
	})
}

func team(n uint8) map[string]interface{} {
	return map[string]interface{}{"team": n}
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t)
	seed(s, "match-100", models.GameModePayToSpawnOneVsOne)

	code, resp := s.do(t, http.MethodPost, "/api/sessions/match-100/join", addr(1), team(0))
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, float64(100), resp["deposit"])
	assert.Equal(t, "0.000000100", resp["deposit_display"])

	code, _ = s.do(t, http.MethodPost, "/api/sessions/match-100/join", addr(2), team(1))
	require.Equal(t, http.StatusOK, code)

	kill := map[string]interface{}{
		"killer":      addr(1).String(),
		"victim":      addr(2).String(),
		"killer_team": 0,
		"victim_team": 1,
	}

	code, resp = s.do(t, http.MethodPost, "/api/sessions/match-100/kills", addr(1), kill)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Unauthorized", resp["error"])

	code, resp = s.do(t, http.MethodPost, "/api/sessions/match-100/kills", gameServer, kill)
	require.Equal(t, http.StatusOK, code, resp)

	code, _ = s.do(t, http.MethodPost, "/api/sessions/match-100/spawn", addr(2), team(1))
	require.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodGet, "/api/sessions/match-100/earnings?accounts=4", addr(1), nil)
	require.Equal(t, http.StatusOK, code, resp)
	earnings := resp["earnings"].(map[string]interface{})
	assert.Equal(t, float64(300), earnings["vault"])
	// addr(1): 1 kill + 10 spawns; addr(2): 0 kills + 19 spawns.
	assert.Equal(t, float64(300), earnings["total"])

	code, resp = s.do(t, http.MethodGet, "/api/sessions/match-100/kills", addr(1), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), resp["count"])

	code, resp = s.do(t, http.MethodGet, "/api/me", addr(2), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"match-100"}, resp["sessions"])
}

func TestValidationErrorsCarryKindAndCode(t *testing.T) {
	s := newTestServer(t)
	seed(s, "match-101", models.GameModeWinnerTakesAllOneVsOne)

	code, resp := s.do(t, http.MethodPost, "/api/sessions/match-101/join", addr(1), team(2))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidTeamSelection", resp["error"])
	assert.Equal(t, float64(6003), resp["code"])

	code, resp = s.do(t, http.MethodGet, "/api/sessions/"+"bad_id_that_is_far_too_long_for_us", addr(1), nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "SessionIdTooLong", resp["error"])

	code, resp = s.do(t, http.MethodGet, "/api/sessions/no-such-session", addr(1), nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "SessionNotFound", resp["error"])

	code, resp = s.do(t, http.MethodPost, "/api/sessions/match-101/join", addr(1), map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidRequest", resp["error"])

	code, _ = s.do(t, http.MethodGet, "/api/sessions/match-101", models.ZeroAddress, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, resp = s.do(t, http.MethodGet, "/api/sessions/match-101/earnings?accounts=11", addr(1), nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "TooManyRemainingAccounts", resp["error"])
}

func TestKillWithZeroVictim(t *testing.T) {
	s := newTestServer(t)
	seed(s, "match-102", models.GameModeWinnerTakesAllOneVsOne)

	code, resp := s.do(t, http.MethodPost, "/api/sessions/match-102/kills", gameServer, map[string]interface{}{
		"killer":      addr(1).String(),
		"victim":      models.ZeroAddress.String(),
		"killer_team": 0,
		"victim_team": 1,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidPlayer", resp["error"])
}

func login(t *testing.T, s *testServer, priv ed25519.PrivateKey, pub ed25519.PublicKey, message string) (int, map[string]interface{}) {
	t.Helper()
	sig := ed25519.Sign(priv, []byte(message))
	return s.do(t, http.MethodPost, "/auth/token", models.ZeroAddress, map[string]interface{}{
		"address":   base58.Encode(pub),
		"message":   message,
		"signature": base58.Encode(sig),
	})
}

func TestAuthenticate(t *testing.T) {
	s := newTestServer(t)
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	message := "wager-login:" + strconv.FormatInt(time.Now().Unix(), 10)

	code, resp := login(t, s, priv, pub, message)
	require.Equal(t, http.StatusOK, code, resp)
	require.NotEmpty(t, resp["token"])

	claims, err := s.jwt.ValidateToken(resp["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, base58.Encode(pub), claims.Address)

	code, _ = login(t, s, priv, pub, message)
	assert.Equal(t, http.StatusUnauthorized, code, "replayed login must be rejected")

	stale := fmt.Sprintf("wager-login:%d", time.Now().Add(-time.Hour).Unix())
	code, _ = login(t, s, priv, pub, stale)
	assert.Equal(t, http.StatusUnauthorized, code)

	_, otherPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	fresh := fmt.Sprintf("wager-login:%d", time.Now().Unix()+1)
	code, resp = login(t, s, otherPriv, pub, fresh)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "InvalidLogin", resp["error"])
}
