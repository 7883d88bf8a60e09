package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID       `db:"user_id"`       // Primary key
	Username     string          `db:"username"`      // Unique username
	Email        string          `db:"email"`         // Unique email
	PasswordHash string          `db:"password_hash"` // Hashed password, never the plaintext
	Phone        string          `db:"phone"`         // Optional phone number
	Role         string          `db:"role"`          // Customer, Manager or Admin
	Balance      decimal.Decimal `db:"balance"`       // Fixed-point account balance
	CreatedAt    time.Time       `db:"created_at"`    // Creation timestamp
	UpdatedAt    time.Time       `db:"updated_at"`    // Last update timestamp
}

// Profile is the public view of an account.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// Profile projects the public fields of a user record.
func (u *UserDB) Profile() *Profile {
	return &Profile{
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
	}
}
