package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akrmotors/backoffice/internal/infrastructure/auth"
	"github.com/akrmotors/backoffice/internal/infrastructure/config"
	"github.com/akrmotors/backoffice/internal/interfaces/http/dto"
)

func newTestAuthHandler() *AuthHandler {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-with-enough-length",
		TokenExpiration: time.Hour,
		Issuer:          "test",
	})
	return NewAuthHandler(jwtService, "admin", "letmein")
}

func performLogin(t *testing.T, h *AuthHandler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestAuthHandler()

	w := performLogin(t, h, map[string]string{"username": "admin", "password": "letmein"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.Equal(t, "Bearer", data["token_type"])
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestAuthHandler()

	w := performLogin(t, h, map[string]string{"username": "admin", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
}

func TestAuthHandler_Login_WrongUsername(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestAuthHandler()

	w := performLogin(t, h, map[string]string{"username": "root", "password": "letmein"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestAuthHandler()

	w := performLogin(t, h, map[string]string{"username": "admin"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
