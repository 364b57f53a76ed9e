package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hiring-service/internal/db"

	"github.com/lib/pq"
)

const (
	insertPostQuery = `
		INSERT INTO hiring_posts (post_id, author)
		VALUES ($1, $2)
	`

	listForSessionQuery = `
		SELECT hiring_posts.post_id
		FROM sessions
		JOIN hiring_posts ON sessions.discord_id = hiring_posts.author
		WHERE sessions.session_id = $1
		  AND sessions.expires_at > $2
	`
)

const uniqueViolation = "23505"

type PostgresStore struct {
	db  *db.DB
	now func() time.Time
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) Create(ctx context.Context, author, postID string) error {
	if author == "" || postID == "" {
		return errors.New("post: missing author or post id")
	}

	_, err := s.db.ExecContext(ctx, insertPostQuery, postID, author)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("post: insert: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListForSession(ctx context.Context, token string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, listForSessionQuery, token, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("post: list: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("post: scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("post: list: %w", err)
	}
	return ids, nil
}
