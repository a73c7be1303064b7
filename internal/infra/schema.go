package infra

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates the tables on boot, matching the deploy story of
// the original service (no external migration tool).
func InitSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users(
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			session_token TEXT UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS jobs(
			id BIGSERIAL PRIMARY KEY,
			owner_id BIGINT NOT NULL REFERENCES users(id),
			patient_name TEXT NOT NULL DEFAULT '',
			blob_key TEXT NOT NULL,
			mime_type TEXT NOT NULL,
			model TEXT NOT NULL,
			state TEXT NOT NULL DEFAULT 'queued',
			attempts INT NOT NULL DEFAULT 0,
			last_error TEXT,
			leased_until TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS notes(
			id BIGSERIAL PRIMARY KEY,
			job_id BIGINT UNIQUE NOT NULL,
			owner_id BIGINT NOT NULL REFERENCES users(id),
			patient_name TEXT NOT NULL DEFAULT '',
			transcription TEXT NOT NULL,
			reply TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
