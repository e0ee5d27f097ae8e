package services

import "wager-program-backend/internal/models"

type Broadcaster interface {
	BroadcastSessionUpdate(session *models.GameSession)
	BroadcastKill(event *models.KillEvent)
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastSessionUpdate(*models.GameSession) {}
func (noopBroadcaster) BroadcastKill(*models.KillEvent)            {}
