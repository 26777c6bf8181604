package handlers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/api/handlers"
	"github.com/sahil-lab/realEstate/internal/auth"
	"github.com/sahil-lab/realEstate/internal/models"
)

const (
	testJWTSecret  = "test-secret"
	testGatewayKey = "gateway-key"
)

func doLogin(t *testing.T, r http.Handler, key, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(handlers.IdentityKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newAuthRouter(gatewayKey string) (*MockAccountService, http.Handler) {
	mockSvc := new(MockAccountService)
	handler := handlers.NewRestAuthHandler(mockSvc, testJWTSecret, time.Hour, gatewayKey, nil, zap.NewNop())
	r := newTestRouter("")
	r.POST("/api/auth/login", handler.Login)
	return mockSvc, r
}

func TestRestAuthHandler_Login_IssuesToken(t *testing.T) {
	mockSvc, r := newAuthRouter(testGatewayKey)
	mockSvc.On("RecordLogin", mock.Anything, models.Identity{UID: "uid-1", Email: "a@example.com"}).
		Return(&models.Account{UID: "uid-1", Email: "a@example.com", Role: models.RoleUser}, nil)

	w := doLogin(t, r, testGatewayKey, `{"uid":"uid-1","email":"a@example.com"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 3600, body["expiresIn"])

	claims, err := auth.ValidateJWT(body["token"].(string), testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UserID)
	mockSvc.AssertExpectations(t)
}

func TestRestAuthHandler_Login_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		presented  string
		body       string
		wantCode   int
	}{
		{"not configured", "", testGatewayKey, `{"uid":"uid-1"}`, http.StatusServiceUnavailable},
		{"missing key", testGatewayKey, "", `{"uid":"uid-1"}`, http.StatusUnauthorized},
		{"wrong key", testGatewayKey, "guess", `{"uid":"uid-1"}`, http.StatusUnauthorized},
		{"bad body", testGatewayKey, testGatewayKey, `uid=1`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc, r := newAuthRouter(tt.configured)

			w := doLogin(t, r, tt.presented, tt.body)

			assert.Equal(t, tt.wantCode, w.Code)
			mockSvc.AssertNotCalled(t, "RecordLogin")
		})
	}
}

func TestRestAuthHandler_Login_ServiceError(t *testing.T) {
	mockSvc, r := newAuthRouter(testGatewayKey)
	mockSvc.On("RecordLogin", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("upsert account: boom"))

	w := doLogin(t, r, testGatewayKey, `{"uid":"uid-1"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to log in", decodeBody(t, w)["error"])
}

func TestHealthHandler(t *testing.T) {
	r := newTestRouter("")
	r.GET("/api/health", handlers.HealthHandler("Acme Realty"))

	w := doJSON(t, r, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Acme Realty API is running", body["message"])
}
