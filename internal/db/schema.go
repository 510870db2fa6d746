package db

import "context"

// EnsureSchema creates the posts table on a fresh database. The collection is
// small enough that a migration tool would be overkill.
func EnsureSchema(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS posts (
			id              TEXT PRIMARY KEY,
			prompt          TEXT NOT NULL DEFAULT '',
			original_images TEXT[] NOT NULL DEFAULT '{}',
			ai_image        TEXT NOT NULL DEFAULT '',
			ai_text         TEXT NOT NULL DEFAULT '',
			user_avatar     TEXT NOT NULL DEFAULT '',
			user_name       TEXT NOT NULL DEFAULT '',
			status          TEXT NOT NULL DEFAULT 'pending',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_posts_status ON posts (status)`)
	return err
}
