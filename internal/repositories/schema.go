package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                 BIGSERIAL PRIMARY KEY,
		email              TEXT NOT NULL UNIQUE,
		display_name       TEXT NOT NULL DEFAULT '',
		password_hash      TEXT NOT NULL,
		role_id            INTEGER NOT NULL DEFAULT 10,
		refresh_token      TEXT UNIQUE,
		refresh_expires_at TIMESTAMPTZ,
		refresh_revoked    BOOLEAN NOT NULL DEFAULT FALSE,
		telegram_chat_id   BIGINT NOT NULL DEFAULT 0,
		notify_telegram    BOOLEAN NOT NULL DEFAULT FALSE,
		notify_email       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS daily_tasks (
		id                 UUID PRIMARY KEY,
		user_id            BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title              TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		work_type          TEXT NOT NULL DEFAULT 'light',
		priority           TEXT NOT NULL DEFAULT 'medium',
		completed          BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at       TIMESTAMPTZ,
		original_date      DATE NOT NULL,
		active_date        DATE NOT NULL,
		rollovers          INTEGER NOT NULL DEFAULT 0 CHECK (rollovers >= 0),
		estimated_duration INTEGER,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS daily_tasks_user_day_idx ON daily_tasks (user_id, active_date)`,
	`CREATE TABLE IF NOT EXISTS rewards (
		id                  BIGSERIAL PRIMARY KEY,
		category            TEXT NOT NULL,
		name                TEXT NOT NULL UNIQUE,
		base_price          INTEGER NOT NULL CHECK (base_price > 0),
		availability_window TEXT NOT NULL DEFAULT 'anytime',
		max_daily_use       INTEGER NOT NULL DEFAULT 0,
		requires_streak     INTEGER,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS xp_ledger (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		kind       TEXT NOT NULL,
		amount     INTEGER NOT NULL,
		task_id    UUID,
		reward_id  BIGINT REFERENCES rewards(id) ON DELETE SET NULL,
		note       TEXT NOT NULL DEFAULT '',
		day        DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS xp_ledger_user_day_idx ON xp_ledger (user_id, day)`,
	`CREATE INDEX IF NOT EXISTS xp_ledger_task_idx ON xp_ledger (task_id)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
