package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/kodbank/kodbank-api/internal/jwt"
	"github.com/kodbank/kodbank-api/internal/services"
)

func validClaims(username, role string) *jwt.Claims {
	return &jwt.Claims{
		Role: role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "/balance", nil)
	assert.NoError(t, err)
	return req
}

func TestSessionService_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParser := services.NewMockTokenParser(ctrl)
	mockTokens := services.NewMockTokenReader(ctrl)

	svc := services.NewSessionService(mockParser, mockTokens, nil, true)
	req := newRequest(t)

	mockParser.EXPECT().GetTokenFromRequest(gomock.Any(), req).Return("token123", nil)
	mockParser.EXPECT().GetClaims(gomock.Any(), "token123").Return(validClaims("alice", "Customer"), nil)
	mockTokens.EXPECT().Exists(gomock.Any(), "token123").Return(true, nil)

	session, err := svc.Authenticate(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "Customer", session.Role)
	assert.Equal(t, "token123", session.Token)
}

func TestSessionService_Authenticate_NoToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParser := services.NewMockTokenParser(ctrl)
	svc := services.NewSessionService(mockParser, services.NewMockTokenReader(ctrl), nil, true)
	req := newRequest(t)

	mockParser.EXPECT().GetTokenFromRequest(gomock.Any(), req).Return("", jwt.ErrNoToken)

	session, err := svc.Authenticate(context.Background(), req)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
	assert.Nil(t, session)
}

func TestSessionService_Authenticate_InvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParser := services.NewMockTokenParser(ctrl)
	svc := services.NewSessionService(mockParser, services.NewMockTokenReader(ctrl), nil, true)
	req := newRequest(t)

	mockParser.EXPECT().GetTokenFromRequest(gomock.Any(), req).Return("tampered", nil)
	mockParser.EXPECT().GetClaims(gomock.Any(), "tampered").Return(nil, jwt.ErrInvalidToken)

	session, err := svc.Authenticate(context.Background(), req)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
	assert.Nil(t, session)
}

func TestSessionService_Authenticate_RevokedToken(t *testing.T) {
	// A well-signed, unexpired token absent from the issued-token store must
	// be rejected: this is what makes server-side revocation possible.
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParser := services.NewMockTokenParser(ctrl)
	mockTokens := services.NewMockTokenReader(ctrl)
	svc := services.NewSessionService(mockParser, mockTokens, nil, true)
	req := newRequest(t)

	mockParser.EXPECT().GetTokenFromRequest(gomock.Any(), req).Return("revoked", nil)
	mockParser.EXPECT().GetClaims(gomock.Any(), "revoked").Return(validClaims("alice", "Customer"), nil)
	mockTokens.EXPECT().Exists(gomock.Any(), "revoked").Return(false, nil)

	session, err := svc.Authenticate(context.Background(), req)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)
	assert.Nil(t, session)
}

func TestSessionService_Authenticate_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParser := services.NewMockTokenParser(ctrl)
	mockTokens := services.NewMockTokenReader(ctrl)
	svc := services.NewSessionService(mockParser, mockTokens, nil, true)
	req := newRequest(t)

	mockParser.EXPECT().GetTokenFromRequest(gomock.Any(), req).Return("token123", nil)
	mockParser.EXPECT().GetClaims(gomock.Any(), "token123").Return(validClaims("alice", "Customer"), nil)
	mockTokens.EXPECT().Exists(gomock.Any(), "token123").Return(false, errors.New("db down"))

	session, err := svc.Authenticate(context.Background(), req)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrUnauthenticated)
	assert.Nil(t, session)
}

func TestSessionService_Authenticate_PresenceCheckDisabled(t *testing.T) {
	// The permissive deployment variant: decode success alone authenticates.
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParser := services.NewMockTokenParser(ctrl)
	mockTokens := services.NewMockTokenReader(ctrl)
	svc := services.NewSessionService(mockParser, mockTokens, nil, false)
	req := newRequest(t)

	mockParser.EXPECT().GetTokenFromRequest(gomock.Any(), req).Return("token123", nil)
	mockParser.EXPECT().GetClaims(gomock.Any(), "token123").Return(validClaims("alice", "Customer"), nil)
	// No Exists expectation: the store must not be consulted.

	session, err := svc.Authenticate(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
}

func TestSessionService_Authenticate_CacheHitSkipsStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParser := services.NewMockTokenParser(ctrl)
	mockTokens := services.NewMockTokenReader(ctrl)
	mockCache := services.NewMockTokenCache(ctrl)
	svc := services.NewSessionService(mockParser, mockTokens, mockCache, true)
	req := newRequest(t)

	mockParser.EXPECT().GetTokenFromRequest(gomock.Any(), req).Return("token123", nil)
	mockParser.EXPECT().GetClaims(gomock.Any(), "token123").Return(validClaims("alice", "Customer"), nil)
	mockCache.EXPECT().Get(gomock.Any(), "token123").Return(true)
	// No Exists expectation: the cache answered.

	session, err := svc.Authenticate(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
}

func TestSessionService_Authenticate_CacheMissFillsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockParser := services.NewMockTokenParser(ctrl)
	mockTokens := services.NewMockTokenReader(ctrl)
	mockCache := services.NewMockTokenCache(ctrl)
	svc := services.NewSessionService(mockParser, mockTokens, mockCache, true)
	req := newRequest(t)

	claims := validClaims("alice", "Customer")
	mockParser.EXPECT().GetTokenFromRequest(gomock.Any(), req).Return("token123", nil)
	mockParser.EXPECT().GetClaims(gomock.Any(), "token123").Return(claims, nil)
	mockCache.EXPECT().Get(gomock.Any(), "token123").Return(false)
	mockTokens.EXPECT().Exists(gomock.Any(), "token123").Return(true, nil)
	mockCache.EXPECT().Set(gomock.Any(), "token123", claims.ExpiresAt.Time)

	session, err := svc.Authenticate(context.Background(), req)
	assert.NoError(t, err)
	assert.NotNil(t, session)
}

func TestSessionService_RevokeFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := services.NewMockTokenCache(ctrl)
	svc := services.NewSessionService(
		services.NewMockTokenParser(ctrl), services.NewMockTokenReader(ctrl), mockCache, true)

	mockCache.EXPECT().Delete(gomock.Any(), "token123")
	svc.RevokeFromCache(context.Background(), "token123")

	// Nil cache is a no-op.
	noCache := services.NewSessionService(
		services.NewMockTokenParser(ctrl), services.NewMockTokenReader(ctrl), nil, true)
	noCache.RevokeFromCache(context.Background(), "token123")
}
