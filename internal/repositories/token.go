package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kodbank/kodbank-api/internal/logger"
)

// TokenWriteRepository records and revokes issued tokens.
type TokenWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTokenWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TokenWriteRepository {
	return &TokenWriteRepository{db: db, txGetter: txGetter}
}

func (r *TokenWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save records a freshly issued token for the given user.
func (r *TokenWriteRepository) Save(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	const query = `
		INSERT INTO tokens (token_id, token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	_, err := r.executor(ctx).ExecContext(ctx, query, uuid.New(), token, userID, expiresAt)

	logger.Log.Debugw("token insert",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, expiresAt},
		"error", err,
	)

	return err
}

// Revoke deletes the token record, ending the session server-side. Returns
// true when a record was actually removed.
func (r *TokenWriteRepository) Revoke(ctx context.Context, token string) (bool, error) {
	const query = `DELETE FROM tokens WHERE token = $1`

	res, err := r.executor(ctx).ExecContext(ctx, query, token)

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Debugw("token revoke",
		"query", query,
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// RevokeAllForUser removes every token issued to a user, forcing fresh
// logins everywhere.
func (r *TokenWriteRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	const query = `DELETE FROM tokens WHERE user_id = $1`

	_, err := r.executor(ctx).ExecContext(ctx, query, userID)

	logger.Log.Debugw("token revoke all",
		"query", query,
		"args", []any{userID},
		"error", err,
	)

	return err
}

// TokenReadRepository answers token-presence queries.
type TokenReadRepository struct {
	db *sqlx.DB
}

func NewTokenReadRepository(db *sqlx.DB) *TokenReadRepository {
	return &TokenReadRepository{db: db}
}

// Exists reports whether the exact token string is present in the store.
// Expiry is the token service's concern; the store only checks presence.
func (r *TokenReadRepository) Exists(ctx context.Context, token string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tokens WHERE token = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, token)

	logger.Log.Debugw("token presence check",
		"query", query,
		"result", exists,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return exists, nil
}
