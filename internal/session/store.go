package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session: not found")

// Session links an opaque token to an external identity.
// It is immutable once created.
type Session struct {
	Token     string // hex(SHA256(salt || counter))
	Identity  string // discord user id
	Counter   uint64 // value allocated from current_session_integer
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store allocates sessions and resolves tokens back to identities.
type Store interface {
	Create(ctx context.Context, identity string) (Session, error)
	// Identity returns ErrNotFound when the token is unknown or expired.
	Identity(ctx context.Context, token string) (string, error)
}
