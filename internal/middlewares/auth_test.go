package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/kodbank/kodbank-api/internal/services"
)

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := &services.Session{Username: "alice", Role: "Customer", Token: "token123"}

	mockAuth := NewMockAuthenticator(ctrl)
	mockAuth.EXPECT().
		Authenticate(gomock.Any(), gomock.Any()).
		Return(session, nil)

	var got *services.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/balance", nil)
	rec := httptest.NewRecorder()

	AuthMiddleware(mockAuth)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session, got)
}

func TestAuthMiddleware_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := NewMockAuthenticator(ctrl)
	mockAuth.EXPECT().
		Authenticate(gomock.Any(), gomock.Any()).
		Return(nil, services.ErrUnauthenticated)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/balance", nil)
	rec := httptest.NewRecorder()

	AuthMiddleware(mockAuth)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	assert.False(t, nextCalled)
}

func TestAuthMiddleware_StoreFailure(t *testing.T) {
	// A presence-store outage must surface as 500, not masquerade as bad
	// credentials.
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := NewMockAuthenticator(ctrl)
	mockAuth.EXPECT().
		Authenticate(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("db down"))

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/balance", nil)
	rec := httptest.NewRecorder()

	AuthMiddleware(mockAuth)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.False(t, nextCalled)
}

func TestGetSessionFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetSessionFromContext(req.Context()))
}
