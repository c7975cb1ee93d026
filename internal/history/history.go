// Package history keeps the chat turns of each session for the reference backend.
package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"ragchat/internal/config"
	"ragchat/internal/domain"
)

// DefaultLimit is how many messages a session keeps before old ones are dropped.
const DefaultLimit = 200

// Store records and returns the messages of a session in order.
type Store interface {
	Append(ctx context.Context, sessionID string, msgs ...domain.ChatMessage) error
	Get(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
}

// New builds the store selected by cfg.
func New(cfg config.HistoryConfig) (Store, error) {
	switch cfg.Type {
	case "memory", "":
		return NewMemoryStore(DefaultLimit), nil
	case "redis":
		if cfg.Redis == nil {
			return nil, fmt.Errorf("redis history config missing")
		}
		client := redisv9.NewClient(&redisv9.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisStore(client, time.Duration(cfg.Redis.TTLSecs)*time.Second, DefaultLimit), nil
	default:
		return nil, fmt.Errorf("unknown history store: %s", cfg.Type)
	}
}

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	limit    int
	sessions map[string][]domain.ChatMessage
}

func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{limit: limit, sessions: make(map[string][]domain.ChatMessage)}
}

func (s *MemoryStore) Append(ctx context.Context, sessionID string, msgs ...domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := append(s.sessions[sessionID], msgs...)
	if over := len(all) - s.limit; over > 0 {
		all = append([]domain.ChatMessage(nil), all[over:]...)
	}
	s.sessions[sessionID] = all
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ChatMessage(nil), s.sessions[sessionID]...), nil
}
