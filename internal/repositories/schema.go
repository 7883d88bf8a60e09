package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// schema creates the tables the service needs. Statements are idempotent so
// bootstrap can run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id UUID PRIMARY KEY,
		username VARCHAR(255) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		phone VARCHAR(20) NOT NULL DEFAULT '',
		role VARCHAR(20) NOT NULL DEFAULT 'Customer'
			CHECK (role IN ('Customer', 'Manager', 'Admin')),
		balance NUMERIC(15, 2) NOT NULL DEFAULT 100000.00,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tokens (
		token_id UUID PRIMARY KEY,
		token TEXT UNIQUE NOT NULL,
		user_id UUID NOT NULL REFERENCES users (user_id),
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS tokens_user_id_idx ON tokens (user_id)`,
}

// EnsureSchema applies the schema statements. Callers treat failure as
// non-fatal: a managed deployment may have applied the schema out of band
// and revoked DDL rights.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
