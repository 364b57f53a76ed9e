package post

import (
	"context"
	"errors"
	"time"
)

var ErrDuplicate = errors.New("post: already recorded")

// HiringPost links a message in the hiring channel to the identity that
// submitted it.
type HiringPost struct {
	PostID    string
	Author    string
	CreatedAt time.Time
}

type Store interface {
	// Create records a post for an already resolved identity. Session
	// tokens are resolved by the caller and never reach this method.
	Create(ctx context.Context, author, postID string) error
	// ListForSession returns the post ids authored by the identity behind a
	// live session, in no particular order.
	ListForSession(ctx context.Context, token string) ([]string, error)
}
