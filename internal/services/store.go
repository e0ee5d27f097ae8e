package services

import (
	"context"
	"errors"
	"time"

	"wager-program-backend/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrStaleSession means another writer committed the session first.
	ErrStaleSession = errors.New("session was modified concurrently")
)

type SessionStore interface {
	GetGameSession(ctx context.Context, sessionID string) (*models.GameSession, error)
	// CommitGameSession writes session only if the stored version still equals
	// expectedVersion.
	CommitGameSession(ctx context.Context, session *models.GameSession, expectedVersion uint64) error
	SaveKillEvent(ctx context.Context, event *models.KillEvent) error
	GetSessionKills(ctx context.Context, sessionID string, limit int64) ([]*models.KillEvent, error)
	GetPlayerSessions(ctx context.Context, player models.Address) ([]string, error)
}

type RateLimiter interface {
	CheckRateLimit(ctx context.Context, subject, action string, limit int, window time.Duration) (bool, error)
}

type NonceStore interface {
	// ClaimLoginNonce returns false when the message was already used.
	ClaimLoginNonce(ctx context.Context, player models.Address, message string, ttl time.Duration) (bool, error)
}
