package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps dialogue state in Redis with a per-conversation TTL,
// so abandoned dialogues expire on their own. Used when the bot runs
// with more than one process behind the same token.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store over an existing Redis client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}

func (s *RedisStore) Get(ctx context.Context, chatID int64) (Dialogue, error) {
	data, err := s.client.Get(ctx, sessionKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Idle(), nil
	}
	if err != nil {
		return Idle(), fmt.Errorf("failed to read session: %w", err)
	}

	var d Dialogue
	if err := json.Unmarshal(data, &d); err != nil {
		// Unreadable state must not strand the conversation.
		return Idle(), nil
	}
	return d, nil
}

func (s *RedisStore) Set(ctx context.Context, chatID int64, d Dialogue) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(chatID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, sessionKey(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
