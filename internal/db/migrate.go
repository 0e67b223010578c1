package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Migrate bootstraps the schema. Statements are idempotent so the server can
// run this on every start.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			street TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			zip TEXT NOT NULL DEFAULT '',
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION,
			type TEXT NOT NULL DEFAULT 'residential',
			notes TEXT NOT NULL DEFAULT '',
			equipment JSONB NOT NULL DEFAULT '{}',
			photos TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS technicians (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS work_orders (
			id TEXT PRIMARY KEY,
			work_order_number TEXT NOT NULL DEFAULT '',
			customer_id TEXT NOT NULL REFERENCES customers(id),
			technician_id TEXT REFERENCES technicians(id),
			title TEXT NOT NULL,
			service_type TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'normal',
			status TEXT NOT NULL DEFAULT 'pending',
			service_date DATE NOT NULL,
			scheduled_start_time TIMESTAMPTZ,
			scheduled_end_time TIMESTAMPTZ,
			time_preference TEXT NOT NULL DEFAULT 'anytime',
			description TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			started_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_work_orders_service_date ON work_orders (service_date)`,
		`CREATE INDEX IF NOT EXISTS idx_work_orders_status ON work_orders (status)`,
		`CREATE TABLE IF NOT EXISTS estimate_requests (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			street TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			zip TEXT NOT NULL DEFAULT '',
			service_type TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT 'normal',
			source TEXT NOT NULL DEFAULT 'website',
			status TEXT NOT NULL DEFAULT 'pending',
			workflow_stage TEXT NOT NULL DEFAULT '',
			customer_id TEXT REFERENCES customers(id),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ai_conversations (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			customer_id TEXT,
			user_message TEXT NOT NULL,
			ai_response TEXT NOT NULL,
			intent TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ai_conversations_cid ON ai_conversations (conversation_id)`,
		`CREATE TABLE IF NOT EXISTS ai_leads (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			conversation_id TEXT NOT NULL,
			lead_score INT NOT NULL DEFAULT 5,
			urgency TEXT NOT NULL DEFAULT 'medium',
			service_type TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'new',
			work_order_id TEXT,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS admin_notifications (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			recipient TEXT NOT NULL,
			subject TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
}
