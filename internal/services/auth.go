package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kodbank/kodbank-api/internal/logger"
	"github.com/kodbank/kodbank-api/internal/models"
	"github.com/kodbank/kodbank-api/internal/repositories"
)

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username *string, email *string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, email, passwordHash, phone, role string, balance decimal.Decimal) (uuid.UUID, error)
}

// PasswordHasher hashes passwords and verifies candidates against stored
// hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, stored string) error
}

// TokenGenerator issues signed bearer tokens.
type TokenGenerator interface {
	Generate(ctx context.Context, username, role string) (string, time.Time, error)
}

// TokenWriter records and revokes issued tokens.
type TokenWriter interface {
	Save(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error
	Revoke(ctx context.Context, token string) (bool, error)
}

// RegistrationNotifier publishes an event after a successful registration.
type RegistrationNotifier interface {
	NotifyRegistered(ctx context.Context, username, email string)
}

// LoginResult carries everything the API layer needs after a successful
// login.
type LoginResult struct {
	Username  string
	Role      string
	Token     string
	ExpiresAt time.Time
}

// AuthService handles registration, login and logout.
type AuthService struct {
	reader          UserReader
	writer          UserWriter
	tokens          TokenWriter
	hasher          PasswordHasher
	jwt             TokenGenerator
	notifier        RegistrationNotifier
	startingBalance decimal.Decimal
}

// NewAuthService creates a new AuthService instance. notifier may be nil
// when no broker is configured.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	tokens TokenWriter,
	hasher PasswordHasher,
	jwt TokenGenerator,
	notifier RegistrationNotifier,
	startingBalance decimal.Decimal,
) *AuthService {
	return &AuthService{
		reader:          reader,
		writer:          writer,
		tokens:          tokens,
		hasher:          hasher,
		jwt:             jwt,
		notifier:        notifier,
		startingBalance: startingBalance,
	}
}

// Register creates a new account with the starting balance grant. The
// username/email pre-check is advisory: under concurrent registration the
// unique constraint at insert time is the authoritative conflict signal.
func (svc *AuthService) Register(ctx context.Context, username, email, password, phone string) error {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, &email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return err
	}
	if user != nil {
		logger.Log.Infow("user already exists", "username", username)
		return ErrUserAlreadyExists
	}

	hashedPassword, err := svc.hasher.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	_, err = svc.writer.Save(ctx, username, email, hashedPassword, phone, models.RoleCustomer, svc.startingBalance)
	if errors.Is(err, repositories.ErrUniqueViolation) {
		logger.Log.Infow("registration lost uniqueness race", "username", username)
		return ErrUserAlreadyExists
	}
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return err
	}

	if svc.notifier != nil {
		svc.notifier.NotifyRegistered(ctx, username, email)
	}

	return nil
}

// Login authenticates a user, issues a token and records it in the
// issued-token store.
func (svc *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, nil)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		logger.Log.Infow("login for unknown user", "username", username)
		return nil, ErrInvalidCredentials
	}

	if err := svc.hasher.Compare(password, user.PasswordHash); err != nil {
		logger.Log.Infow("invalid credentials", "username", username)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := svc.jwt.Generate(ctx, user.Username, user.Role)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return nil, err
	}

	if err := svc.tokens.Save(ctx, token, user.UserID, expiresAt); err != nil {
		logger.Log.Errorw("failed to record issued token", "err", err)
		return nil, err
	}

	return &LoginResult{
		Username:  user.Username,
		Role:      user.Role,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the presented token. Revoking a token that is already gone
// is not an error; the session is dead either way.
func (svc *AuthService) Logout(ctx context.Context, token string) error {
	revoked, err := svc.tokens.Revoke(ctx, token)
	if err != nil {
		logger.Log.Errorw("failed to revoke token", "err", err)
		return err
	}
	if !revoked {
		logger.Log.Infow("logout for unknown token")
	}
	return nil
}
