package models

import "time"

const (
	MaxPlayersPerTeam = 5
	// DefaultSpawns is granted on join and for every paid respawn.
	DefaultSpawns uint16 = 10
)

type Team struct {
	Players      [MaxPlayersPerTeam]Address `json:"players"`
	PlayerSpawns [MaxPlayersPerTeam]uint16  `json:"player_spawns"`
	PlayerKills  [MaxPlayersPerTeam]uint16  `json:"player_kills"`
}

// EmptySlot returns the first free seat among the first size seats, or -1.
func (t *Team) EmptySlot(size int) int {
	for i := 0; i < size && i < MaxPlayersPerTeam; i++ {
		if t.Players[i].IsZero() {
			return i
		}
	}
	return -1
}

func (t *Team) IndexOf(player Address) int {
	if player.IsZero() {
		return -1
	}
	for i, p := range t.Players {
		if p == player {
			return i
		}
	}
	return -1
}

// GameSession is a wager session. It holds arrays only, so assigning a
// session produces an independent copy.
type GameSession struct {
	ID           string        `json:"id"`
	Authority    Address       `json:"authority"`
	SessionBet   uint64        `json:"session_bet"`
	GameMode     GameMode      `json:"game_mode"`
	Status       SessionStatus `json:"status"`
	TeamA        Team          `json:"team_a"`
	TeamB        Team          `json:"team_b"`
	VaultBalance uint64        `json:"vault_balance"`
	HasWinner    bool          `json:"has_winner"`
	WinningTeam  uint8         `json:"winning_team"`
	IsProcessing bool          `json:"is_processing"`
	Version      uint64        `json:"version"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (s *GameSession) Processing() bool {
	return s.IsProcessing
}

func (s *GameSession) SetProcessing(processing bool) {
	s.IsProcessing = processing
}

// Team returns team 0 (A) or 1 (B), nil otherwise.
func (s *GameSession) Team(team uint8) *Team {
	switch team {
	case 0:
		return &s.TeamA
	case 1:
		return &s.TeamB
	}
	return nil
}

// Seat locates a player on either team.
func (s *GameSession) Seat(player Address) (team uint8, index int, ok bool) {
	if i := s.TeamA.IndexOf(player); i >= 0 {
		return 0, i, true
	}
	if i := s.TeamB.IndexOf(player); i >= 0 {
		return 1, i, true
	}
	return 0, -1, false
}

func (s *GameSession) IsFull() bool {
	size := s.GameMode.PlayersPerTeam()
	return s.TeamA.EmptySlot(size) < 0 && s.TeamB.EmptySlot(size) < 0
}

// Players returns every seated player with its team, team A first.
func (s *GameSession) Players() []Seat {
	var seats []Seat
	for _, team := range []uint8{0, 1} {
		t := s.Team(team)
		for i, p := range t.Players {
			if p.IsZero() {
				continue
			}
			seats = append(seats, Seat{Player: p, Team: team, Index: i})
		}
	}
	return seats
}

type Seat struct {
	Player Address `json:"player"`
	Team   uint8   `json:"team"`
	Index  int     `json:"index"`
}
