package migration

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"
)

// Execer is satisfied by *pgxpool.Pool.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Migration represents a database migration. Up must be idempotent: every
// migration runs on each startup.
type Migration struct {
	Name string
	Up   func(ctx context.Context, db Execer) error
}

// Migrations returns the schema steps in the order they are applied.
func Migrations() []Migration {
	return []Migration{
		{Name: "enable_pgcrypto", Up: execStep(`CREATE EXTENSION IF NOT EXISTS pgcrypto`)},
		{Name: "create_users", Up: execStep(`
			CREATE TABLE IF NOT EXISTS users (
				id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				email         TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
			)`)},
		{Name: "create_resumes", Up: execStep(`
			CREATE TABLE IF NOT EXISTS resumes (
				id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				data       JSONB NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`)},
		{Name: "drop_index_resumes_user_updated", Up: execStep(
			`DROP INDEX IF EXISTS resumes_user_updated_idx`)},
		{Name: "index_resumes_user_created", Up: execStep(
			`CREATE INDEX IF NOT EXISTS resumes_user_created_idx ON resumes (user_id, created_at DESC)`)},
	}
}

func execStep(query string) func(ctx context.Context, db Execer) error {
	return func(ctx context.Context, db Execer) error {
		_, err := db.Exec(ctx, query)
		return err
	}
}

// RunMigrations executes all migrations on startup and stops at the first
// failure.
func RunMigrations(ctx context.Context, db Execer) error {
	log.Info().Msg("migration: starting")

	for _, m := range Migrations() {
		if err := m.Up(ctx, db); err != nil {
			log.Error().Err(err).Str("name", m.Name).Msg("migration: failed")
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		log.Debug().Str("name", m.Name).Msg("migration: applied")
	}

	log.Info().Msg("migration: done")
	return nil
}
