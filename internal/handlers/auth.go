package handlers

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mr-tron/base58"

	"wager-program-backend/internal/models"
	"wager-program-backend/internal/services"
)

const (
	loginMessagePrefix = "wager-login:"
	loginMaxSkew       = 5 * time.Minute
)

type AuthHandler struct {
	jwtService *services.JWTService
	nonces     services.NonceStore
	now        func() time.Time
}

func NewAuthHandler(jwtService *services.JWTService, nonces services.NonceStore) *AuthHandler {
	return &AuthHandler{
		jwtService: jwtService,
		nonces:     nonces,
		now:        time.Now,
	}
}

// Authenticate exchanges a signed login message for a token. The message is
// "wager-login:<unix seconds>" signed with the player's ed25519 key.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	player, err := models.ParseAddress(req.Address)
	if err != nil || player.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidPlayer", "details": "invalid address"})
		return
	}

	if err := h.checkLoginMessage(req.Message); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "InvalidLogin", "details": err.Error()})
		return
	}

	sig, err := base58.Decode(req.Signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "InvalidLogin", "details": "malformed signature"})
		return
	}
	if !ed25519.Verify(ed25519.PublicKey(player[:]), []byte(req.Message), sig) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "InvalidLogin", "details": "signature mismatch"})
		return
	}

	fresh, err := h.nonces.ClaimLoginNonce(c.Request.Context(), player, req.Message, 2*loginMaxSkew)
	if err != nil {
		respondError(c, err)
		return
	}
	if !fresh {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "InvalidLogin", "details": "login message already used"})
		return
	}

	token, err := h.jwtService.GenerateToken(player)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"player": player,
	})
}

func (h *AuthHandler) checkLoginMessage(message string) error {
	raw, ok := strings.CutPrefix(message, loginMessagePrefix)
	if !ok {
		return errors.New("login message must start with " + loginMessagePrefix)
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("login timestamp: %w", err)
	}

	skew := h.now().Sub(time.Unix(unix, 0))
	if skew < -loginMaxSkew || skew > loginMaxSkew {
		return errors.New("login message expired")
	}
	return nil
}
