package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TokenDecimals is the number of base units per whole token.
const TokenDecimals = 1_000_000_000

func NewKillEvent(sessionID string, killer, victim Address, killerTeam, victimTeam uint8) *KillEvent {
	return &KillEvent{
		ID:         fmt.Sprintf("kill_%s_%s", time.Now().Format("20060102"), uuid.New().String()),
		SessionID:  sessionID,
		Killer:     killer,
		Victim:     victim,
		KillerTeam: killerTeam,
		VictimTeam: victimTeam,
		CreatedAt:  time.Now(),
	}
}

func FormatTokens(amount uint64) string {
	return fmt.Sprintf("%d.%09d", amount/TokenDecimals, amount%TokenDecimals)
}
