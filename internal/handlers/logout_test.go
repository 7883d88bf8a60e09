package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/kodbank/kodbank-api/internal/jwt"
	"github.com/kodbank/kodbank-api/internal/middlewares"
	"github.com/kodbank/kodbank-api/internal/models"
	"github.com/kodbank/kodbank-api/internal/services"
)

func authenticatedRequest(method, target, token string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := middlewares.SetSessionToContext(req.Context(), &services.Session{
		Username: "alice",
		Role:     models.RoleCustomer,
		Token:    token,
	})
	return req.WithContext(ctx)
}

func TestLogoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLogouter(ctrl)
	mockRevoker := NewMockSessionRevoker(ctrl)

	mockSvc.EXPECT().Logout(gomock.Any(), "token123").Return(nil)
	mockRevoker.EXPECT().RevokeFromCache(gomock.Any(), "token123")

	req := authenticatedRequest(http.MethodPost, "/logout", "token123")
	rec := httptest.NewRecorder()

	NewLogoutHandler(mockSvc, mockRevoker)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logged out"}`, rec.Body.String())
}

func TestLogoutHandler_ClearsCookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLogouter(ctrl)
	mockRevoker := NewMockSessionRevoker(ctrl)
	mockSvc.EXPECT().Logout(gomock.Any(), "token123").Return(nil)
	mockRevoker.EXPECT().RevokeFromCache(gomock.Any(), "token123")

	req := authenticatedRequest(http.MethodPost, "/logout", "token123")
	rec := httptest.NewRecorder()

	NewLogoutHandler(mockSvc, mockRevoker)(rec, req)

	cookies := rec.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, jwt.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestLogoutHandler_NoSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()

	NewLogoutHandler(NewMockLogouter(ctrl), NewMockSessionRevoker(ctrl))(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestLogoutHandler_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLogouter(ctrl)
	mockSvc.EXPECT().Logout(gomock.Any(), "token123").Return(errors.New("db down"))

	req := authenticatedRequest(http.MethodPost, "/logout", "token123")
	rec := httptest.NewRecorder()

	NewLogoutHandler(mockSvc, NewMockSessionRevoker(ctrl))(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}
