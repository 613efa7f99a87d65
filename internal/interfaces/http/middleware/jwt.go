package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/akrmotors/backoffice/internal/infrastructure/auth"
	"github.com/akrmotors/backoffice/internal/interfaces/http/dto"
)

const (
	// JWTClaimsKey is the gin context key under which validated claims are stored
	JWTClaimsKey = "jwt_claims"
	// JWTUserIDKey is the gin context key for the authenticated user ID
	JWTUserIDKey = "jwt_user_id"
	// JWTUsernameKey is the gin context key for the authenticated username
	JWTUsernameKey = "jwt_username"
)

// JWTAuthConfig configures the JWT authentication middleware.
type JWTAuthConfig struct {
	// SkipPaths are exact request paths that bypass authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that bypass authentication
	SkipPathPrefixes []string
}

// JWTAuthMiddleware returns a middleware that validates Bearer tokens on every
// request except health and login endpoints.
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(jwtService, JWTAuthConfig{
		SkipPaths: []string{
			"/health",
			"/api/v1/auth/login",
		},
	})
}

// JWTAuthMiddlewareWithConfig returns a JWT middleware with custom skip rules.
func JWTAuthMiddlewareWithConfig(jwtService *auth.JWTService, cfg JWTAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range cfg.SkipPaths {
			if path == p {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		tokenString, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, err.Error())
			return
		}

		claims, err := jwtService.Validate(tokenString)
		if err != nil {
			code := dto.ErrCodeTokenInvalid
			message := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeTokenExpired
				message = "token has expired"
			}
			abortUnauthorized(c, code, message)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTUsernameKey, claims.Username)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("authorization header must be a Bearer token")
	}
	return parts[1], nil
}

func abortUnauthorized(c *gin.Context, code, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// GetJWTClaims returns the validated claims stored by the JWT middleware.
func GetJWTClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(JWTClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// GetJWTUserID returns the authenticated user ID, or uuid.Nil when absent.
func GetJWTUserID(c *gin.Context) uuid.UUID {
	value, exists := c.Get(JWTUserIDKey)
	if !exists {
		return uuid.Nil
	}
	raw, ok := value.(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetJWTUsername returns the authenticated username, or empty when absent.
func GetJWTUsername(c *gin.Context) string {
	return c.GetString(JWTUsernameKey)
}
