package handler

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/akrmotors/backoffice/internal/infrastructure/auth"
)

// AuthHandler issues access tokens for the back office operator account
type AuthHandler struct {
	BaseHandler
	jwtService *auth.JWTService
	username   string
	password   string
}

// NewAuthHandler creates a new AuthHandler with the configured credentials
func NewAuthHandler(jwtService *auth.JWTService, username, password string) *AuthHandler {
	return &AuthHandler{
		jwtService: jwtService,
		username:   username,
		password:   password,
	}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=1,max=200"`
}

// Login validates credentials and returns a Bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	userMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.username))
	passMatch := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password))
	if userMatch&passMatch != 1 {
		h.Unauthorized(c, "Invalid username or password")
		return
	}

	// Stable user ID derived from the username so tokens survive restarts
	userID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(h.username))

	token, err := h.jwtService.Generate(userID, h.username)
	if err != nil {
		h.InternalError(c, "Failed to issue token")
		return
	}

	h.Success(c, token)
}
