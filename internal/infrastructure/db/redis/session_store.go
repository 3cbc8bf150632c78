package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore is the allowlist of live session tokens.
// Key format: session:<token_id>, value: identity id, TTL: token lifetime.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save registers tokenID for identityID until ttl elapses.
func (s *SessionStore) Save(ctx context.Context, tokenID, identityID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(tokenID), identityID, ttl).Err(); err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

// Lookup returns the identity bound to tokenID. ok is false when the session
// expired or was revoked.
func (s *SessionStore) Lookup(ctx context.Context, tokenID string) (identityID string, ok bool, err error) {
	identityID, err = s.client.Get(ctx, s.key(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session lookup: %w", err)
	}
	return identityID, true, nil
}

// Delete removes tokenID. Deleting a missing session is not an error.
func (s *SessionStore) Delete(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, s.key(tokenID)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) key(tokenID string) string {
	return "session:" + tokenID
}
