package wager

import (
	"unicode"

	"wager-program-backend/internal/models"
)

const (
	MaxSessionIDLength = 32
	// MaxBetAmount is the protocol ceiling for a single session bet, in base units.
	MaxBetAmount uint64 = 1_000_000_000_000
)

// KillRecord is a kill reported by the game server.
type KillRecord struct {
	Killer     models.Address `json:"killer"`
	Victim     models.Address `json:"victim"`
	KillerTeam uint8          `json:"killer_team"`
	VictimTeam uint8          `json:"victim_team"`
}

func ValidateSessionID(sessionID string) error {
	if sessionID == "" {
		return ErrInvalidSessionID
	}
	if len(sessionID) > MaxSessionIDLength {
		return ErrSessionIDTooLong
	}
	for _, r := range sessionID {
		if !isSessionIDRune(r) {
			return ErrInvalidSessionIDFormat
		}
	}
	return nil
}

func isSessionIDRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '_'
}

func ValidateTeamNumber(team uint8) error {
	if team != 0 && team != 1 {
		return ErrInvalidTeamSelection
	}
	return nil
}

func ValidateBetAmount(amount uint64) error {
	if amount == 0 {
		return ErrInvalidBetAmount
	}
	if amount > MaxBetAmount {
		return ErrInvalidBetAmount
	}
	return nil
}

func ValidatePlayerAddress(player models.Address) error {
	if player.IsZero() {
		return ErrInvalidPlayer
	}
	return nil
}

func ValidateRemainingAccountsCount(count, maxCount int) error {
	if count > maxCount {
		return ErrTooManyRemainingAccounts
	}
	return nil
}

// ValidateKillData rejects self kills and same-team kills before checking that
// both addresses are set.
func ValidateKillData(kill KillRecord) error {
	if kill.Killer == kill.Victim {
		return ErrInvalidKill
	}
	if kill.KillerTeam == kill.VictimTeam {
		return ErrInvalidKill
	}
	if err := ValidatePlayerAddress(kill.Killer); err != nil {
		return err
	}
	return ValidatePlayerAddress(kill.Victim)
}
