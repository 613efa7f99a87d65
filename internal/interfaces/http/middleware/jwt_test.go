package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akrmotors/backoffice/internal/infrastructure/auth"
	"github.com/akrmotors/backoffice/internal/infrastructure/config"
)

func newTestJWTMiddlewareService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-with-enough-length",
		TokenExpiration: expiration,
		Issuer:          "test",
	})
}

func setupJWTTestRouter(jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(JWTAuthMiddleware(jwtService))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/v1/coupons", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": GetJWTUsername(c)})
	})
	return engine
}

func TestJWTAuthMiddleware_MissingToken(t *testing.T) {
	engine := setupJWTTestRouter(newTestJWTMiddlewareService(time.Hour))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/coupons", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_SkipPath(t *testing.T) {
	engine := setupJWTTestRouter(newTestJWTMiddlewareService(time.Hour))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTMiddlewareService(time.Hour)
	engine := setupJWTTestRouter(jwtService)

	token, err := jwtService.Generate(uuid.New(), "clerk")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/coupons", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "clerk")
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	jwtService := newTestJWTMiddlewareService(-time.Hour)
	engine := setupJWTTestRouter(jwtService)

	token, err := jwtService.Generate(uuid.New(), "clerk")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/coupons", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	engine := setupJWTTestRouter(newTestJWTMiddlewareService(time.Hour))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/coupons", nil)
	req.Header.Set("Authorization", "Token abc")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
