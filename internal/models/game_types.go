package models

type GameMode string

const (
	GameModeWinnerTakesAllOneVsOne     GameMode = "winner-takes-all-1v1"
	GameModeWinnerTakesAllThreeVsThree GameMode = "winner-takes-all-3v3"
	GameModeWinnerTakesAllFiveVsFive   GameMode = "winner-takes-all-5v5"
	GameModePayToSpawnOneVsOne         GameMode = "pay-to-spawn-1v1"
	GameModePayToSpawnThreeVsThree     GameMode = "pay-to-spawn-3v3"
	GameModePayToSpawnFiveVsFive       GameMode = "pay-to-spawn-5v5"
)

// PlayersPerTeam returns 0 for an unknown mode.
func (m GameMode) PlayersPerTeam() int {
	switch m {
	case GameModeWinnerTakesAllOneVsOne, GameModePayToSpawnOneVsOne:
		return 1
	case GameModeWinnerTakesAllThreeVsThree, GameModePayToSpawnThreeVsThree:
		return 3
	case GameModeWinnerTakesAllFiveVsFive, GameModePayToSpawnFiveVsFive:
		return 5
	default:
		return 0
	}
}

func (m GameMode) IsPayToSpawn() bool {
	switch m {
	case GameModePayToSpawnOneVsOne, GameModePayToSpawnThreeVsThree, GameModePayToSpawnFiveVsFive:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionStatusWaiting    SessionStatus = "waiting"
	SessionStatusInProgress SessionStatus = "in-progress"
	SessionStatusCompleted  SessionStatus = "completed"
)

type JoinRequest struct {
	Team *uint8 `json:"team" binding:"required"`
}

type SpawnRequest struct {
	Team *uint8 `json:"team" binding:"required"`
}

type WinnerRequest struct {
	Team *uint8 `json:"team" binding:"required"`
}

type TokenRequest struct {
	Address   string `json:"address" binding:"required"`
	Message   string `json:"message" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type EarningsResponse struct {
	SessionID string    `json:"session_id"`
	Payouts   []*Payout `json:"payouts"`
	Total     uint64    `json:"total"`
	Vault     uint64    `json:"vault"`
}
