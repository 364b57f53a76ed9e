// Package state keeps OAuth state values and their PKCE verifiers between
// the login redirect and the callback.
package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("oauth state: not found")

type Store interface {
	Save(ctx context.Context, state, verifier string, ttl time.Duration) error
	// Consume returns the verifier and forgets the state. A state can be
	// consumed once.
	Consume(ctx context.Context, state string) (string, error)
}

type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "oauth_state:",
	}
}

func (r *RedisStore) key(state string) string {
	return r.prefix + state
}

func (r *RedisStore) Save(ctx context.Context, state, verifier string, ttl time.Duration) error {
	if state == "" || verifier == "" {
		return errors.New("oauth state: missing state or verifier")
	}
	if ttl <= 0 {
		return errors.New("oauth state: ttl must be positive")
	}

	if err := r.client.Set(ctx, r.key(state), verifier, ttl).Err(); err != nil {
		return fmt.Errorf("oauth state: save: %w", err)
	}
	return nil
}

func (r *RedisStore) Consume(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", ErrNotFound
	}

	verifier, err := r.client.GetDel(ctx, r.key(state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("oauth state: consume: %w", err)
	}
	return verifier, nil
}
