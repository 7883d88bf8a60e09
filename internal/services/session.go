package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kodbank/kodbank-api/internal/jwt"
	"github.com/kodbank/kodbank-api/internal/logger"
)

// ErrUnauthenticated is the single failure mode for session validation:
// missing, malformed, expired, tampered and revoked tokens all collapse
// into it.
var ErrUnauthenticated = errors.New("unauthenticated")

// TokenParser extracts and decodes bearer tokens.
type TokenParser interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// TokenReader answers token-presence queries against the issued-token store.
type TokenReader interface {
	Exists(ctx context.Context, token string) (bool, error)
}

// TokenCache is an optional read-through cache in front of the store.
type TokenCache interface {
	Get(ctx context.Context, token string) bool
	Set(ctx context.Context, token string, expiresAt time.Time)
	Delete(ctx context.Context, token string)
}

// Session is an authenticated request identity.
type Session struct {
	Username string
	Role     string
	Token    string
}

// SessionService validates bearer tokens: extract, decode, then check the
// issued-token store so revoked sessions die even before their expiry.
// The presence check is the canonical behavior; presenceCheck=false keeps
// the observed permissive deployment variant available as configuration.
type SessionService struct {
	parser        TokenParser
	tokens        TokenReader
	cache         TokenCache
	presenceCheck bool
}

// NewSessionService creates a SessionService. cache may be nil.
func NewSessionService(parser TokenParser, tokens TokenReader, cache TokenCache, presenceCheck bool) *SessionService {
	return &SessionService{
		parser:        parser,
		tokens:        tokens,
		cache:         cache,
		presenceCheck: presenceCheck,
	}
}

// Authenticate answers "is this request authenticated, and as whom?".
// Every failure is reported as ErrUnauthenticated; detail goes to the log.
func (svc *SessionService) Authenticate(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := svc.parser.GetTokenFromRequest(ctx, r)
	if err != nil {
		logger.Log.Debugw("no token in request", "err", err)
		return nil, ErrUnauthenticated
	}

	claims, err := svc.parser.GetClaims(ctx, token)
	if err != nil {
		logger.Log.Debugw("token rejected", "err", err)
		return nil, ErrUnauthenticated
	}

	if svc.presenceCheck {
		live, err := svc.tokenIsLive(ctx, token, claims)
		if err != nil {
			return nil, err
		}
		if !live {
			logger.Log.Infow("token absent from issued-token store", "username", claims.Username())
			return nil, ErrUnauthenticated
		}
	}

	return &Session{
		Username: claims.Username(),
		Role:     claims.Role,
		Token:    token,
	}, nil
}

// RevokeFromCache drops the cached presence entry so a revoked token stops
// authenticating immediately.
func (svc *SessionService) RevokeFromCache(ctx context.Context, token string) {
	if svc.cache != nil {
		svc.cache.Delete(ctx, token)
	}
}

func (svc *SessionService) tokenIsLive(ctx context.Context, token string, claims *jwt.Claims) (bool, error) {
	if svc.cache != nil && svc.cache.Get(ctx, token) {
		return true, nil
	}

	exists, err := svc.tokens.Exists(ctx, token)
	if err != nil {
		logger.Log.Errorw("token presence check failed", "err", err)
		return false, err
	}
	if exists && svc.cache != nil && claims.ExpiresAt != nil {
		svc.cache.Set(ctx, token, claims.ExpiresAt.Time)
	}
	return exists, nil
}
