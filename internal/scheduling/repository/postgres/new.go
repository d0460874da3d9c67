package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"matterplan/internal/scheduling/repository"
	"matterplan/pkg/log"
)

type implRepository struct {
	pool *pgxpool.Pool
	l    log.Logger
}

// New creates a PostgreSQL-backed Repository for the scheduling domain.
func New(pool *pgxpool.Pool, l log.Logger) repository.Repository {
	if pool == nil {
		panic("scheduling/repository/postgres: pool is required")
	}
	return &implRepository{pool: pool, l: l}
}

// dsn returns a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("scheduling/repository/postgres.%s", method)
}

// EnsureSchema creates the scheduling tables if they don't exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id                   TEXT PRIMARY KEY,
			assignee_id          TEXT NOT NULL,
			title                TEXT NOT NULL DEFAULT '',
			due_date             DATE,
			estimated_duration   INTEGER NOT NULL DEFAULT 0,
			logged_duration      INTEGER NOT NULL DEFAULT 0,
			scheduled_date       DATE,
			scheduled_start_time TEXT NOT NULL DEFAULT '',
			pinned               BOOLEAN NOT NULL DEFAULT FALSE,
			completed            BOOLEAN NOT NULL DEFAULT FALSE,
			version              BIGINT NOT NULL DEFAULT 1,
			created_at           TIMESTAMPTZ DEFAULT NOW(),
			updated_at           TIMESTAMPTZ DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_tasks_assignee_day
		ON tasks(assignee_id, scheduled_date) WHERE NOT completed`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			id          TEXT PRIMARY KEY,
			assignee_id TEXT NOT NULL,
			title       TEXT NOT NULL DEFAULT '',
			date        DATE NOT NULL,
			start_time  TEXT NOT NULL,
			end_time    TEXT NOT NULL,
			external_id TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ DEFAULT NOW(),
			updated_at  TIMESTAMPTZ DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_events_assignee_day ON events(assignee_id, date)`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_events_external
		ON events(assignee_id, external_id) WHERE external_id != ''`)
	return err
}
