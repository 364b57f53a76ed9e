package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hiring-service/internal/db"
)

const (
	incrementCounterQuery = `
		UPDATE current_session_integer
		SET id = id + 1
		RETURNING id
	`

	insertSessionQuery = `
		INSERT INTO sessions (session_id, discord_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`

	selectIdentityQuery = `
		SELECT discord_id
		FROM sessions
		WHERE session_id = $1
		  AND expires_at > $2
	`
)

type PostgresStore struct {
	db   *db.DB
	salt string
	ttl  time.Duration
	now  func() time.Time
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *db.DB, salt string, ttl time.Duration) *PostgresStore {
	return &PostgresStore{
		db:   db,
		salt: salt,
		ttl:  ttl,
		now:  time.Now,
	}
}

// Create allocates the next counter value and records a session for identity.
//
// The counter increment commits on its own before the session row is
// written. A failure between the two leaves a gap in the counter, never a
// reused value.
func (s *PostgresStore) Create(ctx context.Context, identity string) (Session, error) {
	if identity == "" {
		return Session{}, errors.New("session: missing identity")
	}

	counter, err := s.nextCounter(ctx)
	if err != nil {
		return Session{}, err
	}

	now := s.now().UTC()
	sess := Session{
		Token:     DeriveToken(s.salt, counter),
		Identity:  identity,
		Counter:   counter,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	_, err = s.db.ExecContext(ctx, insertSessionQuery,
		sess.Token,
		sess.Identity,
		sess.CreatedAt,
		sess.ExpiresAt,
	)
	if err != nil {
		return Session{}, fmt.Errorf("session: insert: %w", err)
	}

	return sess, nil
}

func (s *PostgresStore) nextCounter(ctx context.Context) (uint64, error) {
	var counter int64
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, incrementCounterQuery).Scan(&counter)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errors.New("session: counter row missing")
	}
	if err != nil {
		return 0, fmt.Errorf("session: allocate counter: %w", err)
	}
	if counter < 0 {
		return 0, fmt.Errorf("session: counter out of range: %d", counter)
	}
	return uint64(counter), nil
}

func (s *PostgresStore) Identity(ctx context.Context, token string) (string, error) {
	var identity string
	err := s.db.QueryRowContext(ctx, selectIdentityQuery, token, s.now().UTC()).Scan(&identity)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("session: lookup: %w", err)
	}
	return identity, nil
}
