package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the announce store. It can be
// registered with a grove extension for orchestrated migrations.
var Migrations = migrate.NewGroup("announce")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_announce_webhooks",
			Version: "20250101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS announce_webhooks (
    id            TEXT PRIMARY KEY,
    event_types   TEXT[] NOT NULL DEFAULT '{}',
    event_filters JSONB,
    format        TEXT NOT NULL,
    text_prefix   TEXT,
    extra_fields  JSONB,
    url           TEXT NOT NULL,
    description   TEXT,
    enabled       BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_announce_webhooks_event_types ON announce_webhooks USING GIN (event_types) WHERE enabled;
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS announce_webhooks`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_announce_jobs",
			Version: "20250101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS announce_jobs (
    id               TEXT PRIMARY KEY,
    webhook_id       TEXT NOT NULL,
    event_name       TEXT NOT NULL DEFAULT '',
    request          JSONB NOT NULL,
    run_at           TIMESTAMPTZ NOT NULL,
    state            TEXT NOT NULL DEFAULT 'pending',
    last_status_code INT NOT NULL DEFAULT 0,
    last_error       TEXT NOT NULL DEFAULT '',
    last_latency_ms  INT NOT NULL DEFAULT 0,
    completed_at     TIMESTAMPTZ,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_announce_jobs_due ON announce_jobs (run_at) WHERE state = 'pending';
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS announce_jobs`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_announce_failures",
			Version: "20250101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS announce_failures (
    id          TEXT PRIMARY KEY,
    kind        TEXT NOT NULL,
    event_name  TEXT NOT NULL DEFAULT '',
    webhook_id  TEXT NOT NULL DEFAULT '',
    url         TEXT NOT NULL DEFAULT '',
    status_code INT NOT NULL DEFAULT 0,
    details     TEXT NOT NULL DEFAULT '',
    failed_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_announce_failures_failed_at ON announce_failures (failed_at DESC);
CREATE INDEX IF NOT EXISTS idx_announce_failures_webhook ON announce_failures (webhook_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS announce_failures`)
				return err
			},
		},
	)
}
