package database

import (
	"context"
	"log"
	"time"
)

// The unique index on (user_id, type, dedup_key, time_bucket) makes racing
// scanner runs structurally unable to create duplicate reminders; the
// pre-insert dedup query is only a fast path.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS notifications (
		id          UUID PRIMARY KEY,
		user_id     TEXT NOT NULL,
		type        TEXT NOT NULL,
		title       TEXT NOT NULL,
		message     TEXT NOT NULL DEFAULT '',
		action_url  TEXT NOT NULL DEFAULT '',
		read        BOOLEAN NOT NULL DEFAULT FALSE,
		read_at     TIMESTAMPTZ,
		sent        BOOLEAN NOT NULL DEFAULT FALSE,
		dedup_key   TEXT NOT NULL,
		time_bucket TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS notifications_dedup_idx
		ON notifications (user_id, type, dedup_key, time_bucket)`,
	`CREATE INDEX IF NOT EXISTS notifications_user_created_idx
		ON notifications (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS notifications_unsent_idx
		ON notifications (created_at) WHERE NOT sent`,
	`CREATE TABLE IF NOT EXISTS push_subscriptions (
		id         UUID PRIMARY KEY,
		user_id    TEXT NOT NULL,
		endpoint   TEXT NOT NULL,
		p256dh     TEXT NOT NULL,
		auth       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, endpoint)
	)`,
	`CREATE TABLE IF NOT EXISTS medications (
		id         UUID PRIMARY KEY,
		user_id    TEXT NOT NULL,
		name       TEXT NOT NULL,
		dosage     TEXT NOT NULL DEFAULT '',
		frequency  TEXT NOT NULL DEFAULT 'daily',
		start_date DATE NOT NULL,
		end_date   DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS medications_active_idx
		ON medications (start_date, end_date)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id           UUID PRIMARY KEY,
		user_id      TEXT NOT NULL,
		title        TEXT NOT NULL,
		location     TEXT NOT NULL DEFAULT '',
		scheduled_at TIMESTAMPTZ NOT NULL,
		status       TEXT NOT NULL DEFAULT 'scheduled',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS appointments_scheduled_idx
		ON appointments (scheduled_at)`,
}

// Migrate applies the schema. Statements are idempotent so it runs on every boot.
func Migrate() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range ddl {
		if _, err := Pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("failed to apply migration: %v", err)
		}
	}
}
