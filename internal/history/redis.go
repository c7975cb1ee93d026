package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"ragchat/internal/domain"
)

// RedisStore keeps each session as a JSON-per-entry list with a sliding TTL.
type RedisStore struct {
	client *redisv9.Client
	ttl    time.Duration
	limit  int
}

func NewRedisStore(client *redisv9.Client, ttl time.Duration, limit int) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &RedisStore{client: client, ttl: ttl, limit: limit}
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, msgs ...domain.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]any, len(msgs))
	for i, m := range msgs {
		payload, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal history entry failed: %w", err)
		}
		values[i] = payload
	}
	key := historyKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, int64(-s.limit), -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append history failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	raw, err := s.client.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get history failed: %w", err)
	}
	out := make([]domain.ChatMessage, 0, len(raw))
	for _, r := range raw {
		var m domain.ChatMessage
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			return nil, fmt.Errorf("unmarshal history entry failed: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

func historyKey(sessionID string) string {
	return "chat:history:" + sessionID
}
