package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/kodbank/kodbank-api/internal/logger"
	"github.com/kodbank/kodbank-api/internal/models"
)

// ErrUserNotFound is returned when the referenced account does not exist,
// e.g. it vanished between authentication and lookup.
var ErrUserNotFound = errors.New("user not found")

// AccountReader reads single accounts by username.
type AccountReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// AccountService serves the protected read endpoints.
type AccountService struct {
	reader AccountReader
}

func NewAccountService(reader AccountReader) *AccountService {
	return &AccountService{reader: reader}
}

// GetBalance returns the account balance as a fixed-point decimal.
func (svc *AccountService) GetBalance(ctx context.Context, username string) (decimal.Decimal, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "username", username, "err", err)
		return decimal.Decimal{}, err
	}
	if user == nil {
		return decimal.Decimal{}, ErrUserNotFound
	}
	return user.Balance, nil
}

// GetProfile returns the public profile of the account.
func (svc *AccountService) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "username", username, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user.Profile(), nil
}
