package models

import "time"

type PayoutReason string

const (
	PayoutReasonKillsAndSpawns PayoutReason = "kills_and_spawns"
	PayoutReasonWinner         PayoutReason = "winner"
)

// Payout is a computed share. Nothing here moves funds.
type Payout struct {
	Player Address      `json:"player"`
	Team   uint8        `json:"team"`
	Amount uint64       `json:"amount"`
	Reason PayoutReason `json:"reason"`
}

type KillEvent struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Killer     Address   `json:"killer"`
	Victim     Address   `json:"victim"`
	KillerTeam uint8     `json:"killer_team"`
	VictimTeam uint8     `json:"victim_team"`
	CreatedAt  time.Time `json:"created_at"`
}
