package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/kodbank/kodbank-api/internal/jwt"
	"github.com/kodbank/kodbank-api/internal/models"
	"github.com/kodbank/kodbank-api/internal/services"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	result := &services.LoginResult{
		Username:  "alice",
		Role:      models.RoleCustomer,
		Token:     "token123",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	tests := []struct {
		name       string
		body       string
		result     *services.LoginResult
		svcErr     error
		expectCall bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "successful login",
			body:       `{"username":"alice","password":"pw123"}`,
			result:     result,
			expectCall: true,
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"Login successful","username":"alice","role":"Customer","access_token":"token123"}`,
		},
		{
			name:       "malformed body",
			body:       `{"username":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid request body"}`,
		},
		{
			name:       "invalid credentials",
			body:       `{"username":"alice","password":"wrong"}`,
			svcErr:     services.ErrInvalidCredentials,
			expectCall: true,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid username or password"}`,
		},
		{
			name:       "service failure is redacted",
			body:       `{"username":"alice","password":"pw123"}`,
			svcErr:     errors.New("pq: connection refused"),
			expectCall: true,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockLoginer(ctrl)
			if tt.expectCall {
				mockSvc.EXPECT().
					Login(gomock.Any(), "alice", gomock.Any()).
					Return(tt.result, tt.svcErr)
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			NewLoginHandler(mockSvc)(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestLoginHandler_SetsHTTPOnlyCookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	mockSvc := NewMockLoginer(ctrl)
	mockSvc.EXPECT().
		Login(gomock.Any(), "alice", "pw123").
		Return(&services.LoginResult{
			Username:  "alice",
			Role:      models.RoleCustomer,
			Token:     "token123",
			ExpiresAt: expiry,
		}, nil)

	body := `{"username":"alice","password":"pw123"}`
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	NewLoginHandler(mockSvc)(rec, req)

	cookies := rec.Result().Cookies()
	assert.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, jwt.CookieName, cookie.Name)
	assert.Equal(t, "token123", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.WithinDuration(t, expiry, cookie.Expires, time.Second)
}

func TestLoginHandler_NoCookieOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLoginer(ctrl)
	mockSvc.EXPECT().
		Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, services.ErrInvalidCredentials)

	body := `{"username":"alice","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	NewLoginHandler(mockSvc)(rec, req)

	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginHandler_ResponseShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLoginer(ctrl)
	mockSvc.EXPECT().
		Login(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&services.LoginResult{
			Username:  "alice",
			Role:      models.RoleManager,
			Token:     "token123",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)

	body := `{"username":"alice","password":"pw123"}`
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	NewLoginHandler(mockSvc)(rec, req)

	var resp LoginResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, models.RoleManager, resp.Role)
	assert.Equal(t, "token123", resp.AccessToken)
}
