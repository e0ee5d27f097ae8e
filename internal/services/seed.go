package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"wager-program-backend/internal/models"
	"wager-program-backend/internal/wager"
)

// SessionSeeder is a store that accepts sessions created outside the engine.
type SessionSeeder interface {
	GetGameSession(ctx context.Context, sessionID string) (*models.GameSession, error)
	SaveGameSession(ctx context.Context, session *models.GameSession) error
}

// SeedSessions reads a JSON array of sessions from r and writes the ones the
// store does not hold yet. It returns how many were written.
func SeedSessions(ctx context.Context, store SessionSeeder, r io.Reader) (int, error) {
	var sessions []*models.GameSession
	if err := json.NewDecoder(r).Decode(&sessions); err != nil {
		return 0, fmt.Errorf("failed to decode seed sessions: %w", err)
	}

	for _, session := range sessions {
		if err := validateSeed(session); err != nil {
			return 0, fmt.Errorf("invalid seed session %q: %w", session.ID, err)
		}
	}

	written := 0
	for _, session := range sessions {
		_, err := store.GetGameSession(ctx, session.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return written, err
		}

		if session.Status == "" {
			session.Status = models.SessionStatusWaiting
		}
		if session.CreatedAt.IsZero() {
			session.CreatedAt = time.Now()
		}
		session.IsProcessing = false

		if err := store.SaveGameSession(ctx, session); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func validateSeed(session *models.GameSession) error {
	if err := wager.ValidateSessionID(session.ID); err != nil {
		return err
	}
	if err := wager.ValidatePlayerAddress(session.Authority); err != nil {
		return err
	}
	if err := wager.ValidateBetAmount(session.SessionBet); err != nil {
		return err
	}
	if session.GameMode.PlayersPerTeam() == 0 {
		return fmt.Errorf("%w: %q", ErrInvalidGameMode, session.GameMode)
	}
	return nil
}
