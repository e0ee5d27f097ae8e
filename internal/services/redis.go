package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wager-program-backend/internal/config"
	"wager-program-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisService struct {
	client     *redis.Client
	sessionTTL time.Duration
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if ttl < time.Second {
		ttl = time.Second
	}

	return &RedisService{
		client:     client,
		sessionTTL: ttl,
	}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

// SaveGameSession writes a session unconditionally. Sessions are created
// outside this service; this is the seeding path.
func (s *RedisService) SaveGameSession(ctx context.Context, session *models.GameSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal game session: %w", err)
	}

	key := fmt.Sprintf(KeyGameSession, session.ID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, s.sessionTTL)
		for _, indexKey := range playerIndexKeys(session) {
			pipe.SAdd(ctx, indexKey, session.ID)
			pipe.Expire(ctx, indexKey, s.sessionTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save game session: %w", err)
	}
	return nil
}

func (s *RedisService) GetGameSession(ctx context.Context, sessionID string) (*models.GameSession, error) {
	key := fmt.Sprintf(KeyGameSession, sessionID)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}

	var session models.GameSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game session: %w", err)
	}

	return &session, nil
}

var commitSessionScript = redis.NewScript(`
	local key = KEYS[1]
	local expected = tonumber(ARGV[1])
	local payload = ARGV[2]
	local ttl = tonumber(ARGV[3])

	local data = redis.call("GET", key)
	if not data then
		return redis.error_reply("session not found")
	end

	local current = cjson.decode(data)
	local version = current.version or 0
	if version ~= expected then
		return redis.error_reply("stale session")
	end

	redis.call("SET", key, payload, "EX", ttl)
	for i = 2, #KEYS do
		redis.call("SADD", KEYS[i], ARGV[4])
		redis.call("EXPIRE", KEYS[i], ttl)
	end

	return "OK"
`)

func (s *RedisService) CommitGameSession(ctx context.Context, session *models.GameSession, expectedVersion uint64) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal game session: %w", err)
	}

	// KEYS[1] is the session, the rest are the player indexes written with it.
	keys := append([]string{fmt.Sprintf(KeyGameSession, session.ID)}, playerIndexKeys(session)...)

	err = commitSessionScript.Run(ctx, s.client, keys, expectedVersion, data, s.ttlSeconds(), session.ID).Err()
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "session not found"):
			return fmt.Errorf("%w: %s", ErrSessionNotFound, session.ID)
		case strings.Contains(err.Error(), "stale session"):
			return fmt.Errorf("%w: %s", ErrStaleSession, session.ID)
		}
		return fmt.Errorf("failed to commit game session: %w", err)
	}

	return nil
}

// ttlSeconds is the session TTL for EX arguments; redis rejects EX 0.
func (s *RedisService) ttlSeconds() int64 {
	return max(int64(s.sessionTTL/time.Second), 1)
}

func playerIndexKeys(session *models.GameSession) []string {
	seats := session.Players()
	keys := make([]string, 0, len(seats))
	for _, seat := range seats {
		keys = append(keys, fmt.Sprintf(KeyPlayerSessions, seat.Player))
	}
	return keys
}

func (s *RedisService) GetPlayerSessions(ctx context.Context, player models.Address) ([]string, error) {
	key := fmt.Sprintf(KeyPlayerSessions, player)

	sessions, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player sessions: %w", err)
	}

	return sessions, nil
}

func (s *RedisService) SaveKillEvent(ctx context.Context, event *models.KillEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal kill event: %w", err)
	}

	eventKey := fmt.Sprintf(KeyKillEvent, event.ID)
	if err := s.client.Set(ctx, eventKey, data, TTLKillEvent).Err(); err != nil {
		return fmt.Errorf("failed to save kill event: %w", err)
	}

	killsKey := fmt.Sprintf(KeySessionKills, event.SessionID)
	if err := s.client.ZAdd(ctx, killsKey, redis.Z{
		Score:  float64(event.CreatedAt.UnixNano()),
		Member: event.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add to session kills: %w", err)
	}

	s.client.ZRemRangeByRank(ctx, killsKey, 0, -(MaxSessionKills + 1))
	s.client.Expire(ctx, killsKey, TTLKillEvent)

	return nil
}

func (s *RedisService) GetSessionKills(ctx context.Context, sessionID string, limit int64) ([]*models.KillEvent, error) {
	if limit <= 0 || limit > MaxSessionKills {
		limit = 50
	}

	killsKey := fmt.Sprintf(KeySessionKills, sessionID)

	ids, err := s.client.ZRevRange(ctx, killsKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get kill IDs: %w", err)
	}
	if len(ids) == 0 {
		return []*models.KillEvent{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, fmt.Sprintf(KeyKillEvent, id))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("pipeline execution failed: %w", err)
	}

	events := make([]*models.KillEvent, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			continue
		}

		var event models.KillEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			continue
		}

		events = append(events, &event)
	}

	return events, nil
}

func (s *RedisService) CheckRateLimit(ctx context.Context, subject, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, subject, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	if count == 1 {
		s.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisService) ClaimLoginNonce(ctx context.Context, player models.Address, message string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyLoginNonce, player, message)

	ok, err := s.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim login nonce: %w", err)
	}
	return ok, nil
}

func (s *RedisService) DeleteGameSession(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf(KeyGameSession, sessionID)
	return s.client.Del(ctx, key, fmt.Sprintf(KeySessionKills, sessionID)).Err()
}

func (s *RedisService) ClearRateLimit(ctx context.Context, subject, action string) error {
	key := fmt.Sprintf(KeyRateLimit, subject, action)
	return s.client.Del(ctx, key).Err()
}
