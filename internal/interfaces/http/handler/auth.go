package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	identityapp "github.com/schoolhub/backend/internal/application/identity"
	"github.com/schoolhub/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest is the login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=1,max=128"`
}

// RefreshRequest is the token refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest is the logout request body. The refresh token is
// optional; the access token comes from the Authorization header.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login authenticates a user and returns a token pair with the user
// profile.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tokens)
}

// Logout revokes the current session's tokens
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	// Body is optional on logout.
	_ = c.ShouldBindJSON(&req)

	accessToken := strings.TrimPrefix(c.GetHeader(middleware.AuthHeaderKey), middleware.BearerPrefix)
	if err := h.authService.Logout(c.Request.Context(), accessToken, req.RefreshToken); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RevokeAllSessions invalidates every outstanding token of the calling
// user, e.g. after a password change on another device.
func (h *AuthHandler) RevokeAllSessions(c *gin.Context) {
	access, ok := h.access(c)
	if !ok {
		return
	}

	if err := h.authService.RevokeAllSessions(c.Request.Context(), access.Principal.UserID.String()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Me returns the caller's resolved principal
func (h *AuthHandler) Me(c *gin.Context) {
	access, ok := h.access(c)
	if !ok {
		return
	}

	resp := gin.H{
		"user_id":  access.Principal.UserID,
		"role":     access.Principal.Role,
		"platform": access.IsPlatform(),
	}
	if access.Principal.TenantID != nil {
		resp["tenant_id"] = access.Principal.TenantID
	}
	h.Success(c, resp)
}
