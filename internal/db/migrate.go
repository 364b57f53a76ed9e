package db

import (
	"context"
	"fmt"
)

// The counter table holds exactly one row, keyed by a column that can only
// be true; it is the serialization point for session allocation.
const schemaMigration = `
CREATE TABLE IF NOT EXISTS current_session_integer (
    lock boolean PRIMARY KEY DEFAULT true CHECK (lock),
    id bigint NOT NULL DEFAULT 0
);

INSERT INTO current_session_integer (lock, id)
VALUES (true, 0)
ON CONFLICT (lock) DO NOTHING;

CREATE TABLE IF NOT EXISTS sessions (
    session_id text PRIMARY KEY,
    discord_id text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    expires_at timestamptz NOT NULL
);

CREATE INDEX IF NOT EXISTS sessions_discord_id_idx
ON sessions (discord_id);

CREATE TABLE IF NOT EXISTS hiring_posts (
    post_id text PRIMARY KEY,
    author text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS hiring_posts_author_idx
ON hiring_posts (author);
`

func (d *DB) RunMigration(ctx context.Context) error {
	if _, err := d.ExecContext(ctx, schemaMigration); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}
