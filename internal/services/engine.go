package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"wager-program-backend/internal/config"
	"wager-program-backend/internal/models"
	"wager-program-backend/internal/wager"
)

var (
	ErrTeamFull            = errors.New("team is full")
	ErrPlayerAlreadyJoined = errors.New("player already joined this session")
	ErrPlayerNotFound      = errors.New("player not found on team")
	ErrPlayerHasNoSpawns   = errors.New("player has no spawns left")
	ErrInvalidGameState    = errors.New("session is not in a valid state for this instruction")
	ErrInvalidGameMode     = errors.New("instruction not supported by this game mode")
	ErrUnauthorized        = errors.New("caller is not the session authority")
	ErrNoWinner            = errors.New("session has no winner")
)

// WagerEngine runs instructions against wager sessions. Each mutating
// instruction validates its input, holds the session's processing flag for the
// duration of the change, and commits a working copy only on success.
//
// Session state always comes from the store. The engine keeps only the flags
// of sessions with an instruction in flight.
type WagerEngine struct {
	store                SessionStore
	broadcaster          Broadcaster
	logger               *zap.Logger
	maxRemainingAccounts int
	now                  func() time.Time

	mu     sync.Mutex
	active map[string]*inFlight
}

// inFlight is the processing flag of one session.
type inFlight struct {
	processing bool
}

func (f *inFlight) Processing() bool     { return f.processing }
func (f *inFlight) SetProcessing(v bool) { f.processing = v }

func NewWagerEngine(store SessionStore, cfg *config.Config, logger *zap.Logger) *WagerEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WagerEngine{
		store:                store,
		broadcaster:          noopBroadcaster{},
		logger:               logger,
		maxRemainingAccounts: cfg.MaxRemainingAccounts,
		now:                  time.Now,
		active:               make(map[string]*inFlight),
	}
}

func (e *WagerEngine) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = noopBroadcaster{}
	}
	e.broadcaster = b
}

// acquire takes the processing flag for sessionID and loads a working copy
// from the store. Callers must release the flag once acquire succeeds.
func (e *WagerEngine) acquire(ctx context.Context, sessionID string) (*models.GameSession, error) {
	e.mu.Lock()
	flag, ok := e.active[sessionID]
	if !ok {
		flag = &inFlight{}
		e.active[sessionID] = flag
	}
	err := wager.Acquire(flag)
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("session busy",
			zap.String("session_id", sessionID))
		return nil, err
	}

	working, err := e.store.GetGameSession(ctx, sessionID)
	if err != nil {
		e.release(sessionID)
		return nil, err
	}
	// The flag is never committed as set; a stored value is stale.
	wager.Release(working)
	return working, nil
}

func (e *WagerEngine) release(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if flag, ok := e.active[sessionID]; ok {
		wager.Release(flag)
		delete(e.active, sessionID)
	}
}

// execute runs fn on a working copy of the session and commits it. Any error
// from fn or the commit discards the copy.
func (e *WagerEngine) execute(ctx context.Context, sessionID, instruction string, fn func(working *models.GameSession) error) (*models.GameSession, error) {
	working, err := e.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer e.release(sessionID)

	if err := fn(working); err != nil {
		return nil, err
	}

	version, err := wager.SafeAdd(working.Version, 1)
	if err != nil {
		return nil, err
	}
	expected := working.Version
	working.Version = version
	working.UpdatedAt = e.now()

	if err := e.store.CommitGameSession(ctx, working, expected); err != nil {
		return nil, err
	}

	e.logger.Info("instruction committed",
		zap.String("instruction", instruction),
		zap.String("session_id", sessionID),
		zap.Uint64("version", working.Version))

	return working, nil
}

// inspect runs fn on a snapshot while holding the flag, without committing.
func (e *WagerEngine) inspect(ctx context.Context, sessionID string, fn func(snapshot *models.GameSession) error) error {
	snapshot, err := e.acquire(ctx, sessionID)
	if err != nil {
		return err
	}
	defer e.release(sessionID)

	return fn(snapshot)
}

// JoinUser seats player on team and returns the deposit the caller must
// escrow, which is the session bet.
func (e *WagerEngine) JoinUser(ctx context.Context, sessionID string, player models.Address, team uint8) (*models.GameSession, uint64, error) {
	if err := wager.ValidateSessionID(sessionID); err != nil {
		return nil, 0, err
	}
	if err := wager.ValidateTeamNumber(team); err != nil {
		return nil, 0, err
	}
	if err := wager.ValidatePlayerAddress(player); err != nil {
		return nil, 0, err
	}

	session, err := e.execute(ctx, sessionID, "join_user", func(s *models.GameSession) error {
		if s.Status != models.SessionStatusWaiting {
			return fmt.Errorf("%w: status %s", ErrInvalidGameState, s.Status)
		}
		if err := wager.ValidateBetAmount(s.SessionBet); err != nil {
			return err
		}
		size := s.GameMode.PlayersPerTeam()
		if size == 0 {
			return fmt.Errorf("%w: %q", ErrInvalidGameMode, s.GameMode)
		}
		if _, _, seated := s.Seat(player); seated {
			return ErrPlayerAlreadyJoined
		}

		t := s.Team(team)
		slot := t.EmptySlot(size)
		if slot < 0 {
			return ErrTeamFull
		}

		vault, err := wager.SafeAdd(s.VaultBalance, s.SessionBet)
		if err != nil {
			return err
		}

		t.Players[slot] = player
		t.PlayerSpawns[slot] = models.DefaultSpawns
		t.PlayerKills[slot] = 0
		s.VaultBalance = vault

		if s.IsFull() {
			s.Status = models.SessionStatusInProgress
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	e.broadcaster.BroadcastSessionUpdate(session)
	return session, session.SessionBet, nil
}

// PayToSpawn buys another round of spawns for a seated player in a
// pay-to-spawn session and returns the deposit owed.
func (e *WagerEngine) PayToSpawn(ctx context.Context, sessionID string, player models.Address, team uint8) (*models.GameSession, uint64, error) {
	if err := wager.ValidateSessionID(sessionID); err != nil {
		return nil, 0, err
	}
	if err := wager.ValidateTeamNumber(team); err != nil {
		return nil, 0, err
	}
	if err := wager.ValidatePlayerAddress(player); err != nil {
		return nil, 0, err
	}

	session, err := e.execute(ctx, sessionID, "pay_to_spawn", func(s *models.GameSession) error {
		if !s.GameMode.IsPayToSpawn() {
			return fmt.Errorf("%w: %q", ErrInvalidGameMode, s.GameMode)
		}
		if s.Status != models.SessionStatusInProgress {
			return fmt.Errorf("%w: status %s", ErrInvalidGameState, s.Status)
		}

		t := s.Team(team)
		idx := t.IndexOf(player)
		if idx < 0 {
			return ErrPlayerNotFound
		}

		spawns, err := addUint16(t.PlayerSpawns[idx], models.DefaultSpawns)
		if err != nil {
			return err
		}
		vault, err := wager.SafeAdd(s.VaultBalance, s.SessionBet)
		if err != nil {
			return err
		}

		t.PlayerSpawns[idx] = spawns
		s.VaultBalance = vault
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	e.broadcaster.BroadcastSessionUpdate(session)
	return session, session.SessionBet, nil
}

// RecordKill moves one spawn from the victim to the killer's kill count. Only
// the session authority may report kills.
func (e *WagerEngine) RecordKill(ctx context.Context, sessionID string, authority models.Address, kill wager.KillRecord) (*models.GameSession, *models.KillEvent, error) {
	if err := wager.ValidateSessionID(sessionID); err != nil {
		return nil, nil, err
	}
	if err := wager.ValidateKillData(kill); err != nil {
		return nil, nil, err
	}
	if err := wager.ValidateTeamNumber(kill.KillerTeam); err != nil {
		return nil, nil, err
	}
	if err := wager.ValidateTeamNumber(kill.VictimTeam); err != nil {
		return nil, nil, err
	}

	session, err := e.execute(ctx, sessionID, "record_kill", func(s *models.GameSession) error {
		if s.Authority != authority {
			return ErrUnauthorized
		}
		if s.Status != models.SessionStatusInProgress {
			return fmt.Errorf("%w: status %s", ErrInvalidGameState, s.Status)
		}

		killerTeam, victimTeam := s.Team(kill.KillerTeam), s.Team(kill.VictimTeam)
		killerIdx := killerTeam.IndexOf(kill.Killer)
		victimIdx := victimTeam.IndexOf(kill.Victim)
		if killerIdx < 0 || victimIdx < 0 {
			return ErrPlayerNotFound
		}
		if victimTeam.PlayerSpawns[victimIdx] == 0 {
			return ErrPlayerHasNoSpawns
		}

		spawns, err := wager.SafeSubtract(uint64(victimTeam.PlayerSpawns[victimIdx]), 1)
		if err != nil {
			return err
		}
		kills, err := addUint16(killerTeam.PlayerKills[killerIdx], 1)
		if err != nil {
			return err
		}

		victimTeam.PlayerSpawns[victimIdx] = uint16(spawns)
		killerTeam.PlayerKills[killerIdx] = kills
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	event := models.NewKillEvent(sessionID, kill.Killer, kill.Victim, kill.KillerTeam, kill.VictimTeam)
	if err := e.store.SaveKillEvent(ctx, event); err != nil {
		e.logger.Error("failed to save kill event",
			zap.String("session_id", sessionID),
			zap.String("event_id", event.ID),
			zap.Error(err))
	}

	e.broadcaster.BroadcastKill(event)
	e.broadcaster.BroadcastSessionUpdate(session)
	return session, event, nil
}

// SetWinner records the winning team and ends play on the session.
func (e *WagerEngine) SetWinner(ctx context.Context, sessionID string, authority models.Address, team uint8) (*models.GameSession, error) {
	if err := wager.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	if err := wager.ValidateTeamNumber(team); err != nil {
		return nil, err
	}

	session, err := e.execute(ctx, sessionID, "set_winner", func(s *models.GameSession) error {
		if s.Authority != authority {
			return ErrUnauthorized
		}
		if s.Status != models.SessionStatusInProgress {
			return fmt.Errorf("%w: status %s", ErrInvalidGameState, s.Status)
		}
		s.HasWinner = true
		s.WinningTeam = team
		s.Status = models.SessionStatusCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.broadcaster.BroadcastSessionUpdate(session)
	return session, nil
}

// ComputeEarnings works out what each player is owed. remainingAccounts is the
// number of player accounts the caller intends to pay out to, two per player.
func (e *WagerEngine) ComputeEarnings(ctx context.Context, sessionID string, remainingAccounts int) (*models.EarningsResponse, error) {
	if err := wager.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	var resp *models.EarningsResponse
	err := e.inspect(ctx, sessionID, func(s *models.GameSession) error {
		limit := min(2*2*s.GameMode.PlayersPerTeam(), e.maxRemainingAccounts)
		if err := wager.ValidateRemainingAccountsCount(remainingAccounts, limit); err != nil {
			return err
		}

		var payouts []*models.Payout
		var err error
		if s.GameMode.IsPayToSpawn() {
			payouts, err = payToSpawnEarnings(s)
		} else {
			payouts, err = winnerEarnings(s)
		}
		if err != nil {
			return err
		}

		var total uint64
		for _, p := range payouts {
			if total, err = wager.SafeAdd(total, p.Amount); err != nil {
				return err
			}
		}
		if _, err := wager.SafeSubtract(s.VaultBalance, total); err != nil {
			return err
		}

		resp = &models.EarningsResponse{
			SessionID: s.ID,
			Payouts:   payouts,
			Total:     total,
			Vault:     s.VaultBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func payToSpawnEarnings(s *models.GameSession) ([]*models.Payout, error) {
	payouts := []*models.Payout{}
	for _, seat := range s.Players() {
		t := s.Team(seat.Team)
		points, err := addUint16(t.PlayerKills[seat.Index], t.PlayerSpawns[seat.Index])
		if err != nil {
			return nil, err
		}
		amount, err := wager.SafeEarningsCalculation(points, s.SessionBet)
		if err != nil {
			return nil, err
		}
		if amount == 0 {
			continue
		}
		payouts = append(payouts, &models.Payout{
			Player: seat.Player,
			Team:   seat.Team,
			Amount: amount,
			Reason: models.PayoutReasonKillsAndSpawns,
		})
	}
	return payouts, nil
}

func winnerEarnings(s *models.GameSession) ([]*models.Payout, error) {
	if !s.HasWinner {
		return nil, ErrNoWinner
	}
	share, err := wager.SafeMultiply(s.SessionBet, 2)
	if err != nil {
		return nil, err
	}

	payouts := []*models.Payout{}
	for _, seat := range s.Players() {
		if seat.Team != s.WinningTeam {
			continue
		}
		payouts = append(payouts, &models.Payout{
			Player: seat.Player,
			Team:   seat.Team,
			Amount: share,
			Reason: models.PayoutReasonWinner,
		})
	}
	return payouts, nil
}

func (e *WagerEngine) GetSession(ctx context.Context, sessionID string) (*models.GameSession, error) {
	if err := wager.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	return e.store.GetGameSession(ctx, sessionID)
}

func (e *WagerEngine) GetSessionKills(ctx context.Context, sessionID string, limit int64) ([]*models.KillEvent, error) {
	if err := wager.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	return e.store.GetSessionKills(ctx, sessionID, limit)
}

func (e *WagerEngine) GetPlayerSessions(ctx context.Context, player models.Address) ([]string, error) {
	if err := wager.ValidatePlayerAddress(player); err != nil {
		return nil, err
	}
	return e.store.GetPlayerSessions(ctx, player)
}

// addUint16 adds two counters, failing instead of wrapping past MaxUint16.
func addUint16(a, b uint16) (uint16, error) {
	sum, err := wager.SafeAdd(uint64(a), uint64(b))
	if err != nil {
		return 0, err
	}
	if sum > math.MaxUint16 {
		return 0, wager.ErrArithmeticOverflow
	}
	return uint16(sum), nil
}
