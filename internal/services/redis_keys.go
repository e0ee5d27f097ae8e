package services

import "time"

const (
	KeyGameSession    = "wager:session:%s"
	KeySessionKills   = "wager:session:%s:kills"
	KeyKillEvent      = "wager:kill:%s"
	KeyPlayerSessions = "player:%s:sessions"
	KeyLoginNonce     = "auth:nonce:%s:%s"
	KeyRateLimit      = "ratelimit:%s:%s"

	TTLKillEvent  = 30 * 24 * time.Hour // 30 days
	TTLLoginNonce = 10 * time.Minute

	MaxSessionKills = 500
)
