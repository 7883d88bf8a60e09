package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenDB represents an issued-token record. The token string is stored
// opaque; the store never parses it.
type TokenDB struct {
	TokenID   uuid.UUID `db:"token_id"`   // Primary key
	Token     string    `db:"token"`      // Signed token string
	UserID    uuid.UUID `db:"user_id"`    // Owning account
	ExpiresAt time.Time `db:"expires_at"` // Absolute expiry
	CreatedAt time.Time `db:"created_at"` // Issue timestamp
}
