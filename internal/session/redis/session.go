// Package redis implements the session store on Redis. Each session's keys
// live under a common prefix and share a TTL that refreshes on every write,
// so an idle session expires as a whole.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// Store implements session.Store for one session ID.
type Store struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

// New creates a session store bound to the given session ID.
func New(client *redis.Client, sessionID string, ttl time.Duration) *Store {
	return &Store{
		client:    client,
		sessionID: sessionID,
		ttl:       ttl,
	}
}

func (s *Store) key(key string) string {
	return keyPrefix + s.sessionID + ":" + key
}

// Get returns the value for key, or found=false when absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get session key: %w", err)
	}
	return data, true, nil
}

// Put writes the value and refreshes the session TTL.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session key: %w", err)
	}
	return nil
}

// Has reports whether key is present.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists session key: %w", err)
	}
	return n > 0, nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del session key: %w", err)
	}
	return nil
}
