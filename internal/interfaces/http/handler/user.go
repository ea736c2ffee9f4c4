package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/schoolhub/backend/internal/application/identity"
)

// UserHandler handles user management within a school, plus the
// platform super-admin roster.
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
	authService *identityapp.AuthService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService, authService *identityapp.AuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

// CreateUserRequest is the body for creating a school user
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Email       string `json:"email" binding:"required,email,max=200"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	DisplayName string `json:"display_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=30"`
	Role        string `json:"role" binding:"required,oneof=school-admin teacher accountant staff"`
}

// CreatePlatformUserRequest is the body for creating a super-admin
type CreatePlatformUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Email       string `json:"email" binding:"required,email,max=200"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	DisplayName string `json:"display_name" binding:"max=100"`
	Phone       string `json:"phone" binding:"max=30"`
}

// UpdateUserRequest is the body for updating a user's profile
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=30"`
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
}

// ChangeUserStatusRequest is the body for a status change
type ChangeUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive locked"`
}

// ChangePasswordRequest is the body for a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// Create creates a user inside the caller's school
func (h *UserHandler) Create(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Create(c.Request.Context(), tenantID, identityapp.CreateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Role:        req.Role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// GetByID retrieves a user in the caller's school
func (h *UserHandler) GetByID(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// List lists the school's users with pagination and filters
func (h *UserHandler) List(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	listReq, err := listFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.userService.List(c.Request.Context(), tenantID, identityapp.UserFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		SortBy:   listReq.OrderBy,
		SortDir:  listReq.OrderDir,
		Keyword:  listReq.Search,
		Role:     c.Query("role"),
		Status:   c.Query("status"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update updates a user's profile fields
func (h *UserHandler) Update(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Update(c.Request.Context(), tenantID, id, identityapp.UpdateUserInput{
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Email:       req.Email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ChangeStatus activates, deactivates or locks a user account
func (h *UserHandler) ChangeStatus(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req ChangeUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.ChangeStatus(c.Request.Context(), tenantID, id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ChangePassword changes the caller's own password and revokes every
// other session.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	access, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID := access.Principal.UserID
	if err := h.userService.ChangePassword(c.Request.Context(), tenantID, userID,
		req.CurrentPassword, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}

	// Outstanding tokens were issued against the old credential.
	if err := h.authService.RevokeAllSessions(c.Request.Context(), userID.String()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SoftDelete retires a user account. The record survives for audit;
// the account can no longer log in.
func (h *UserHandler) SoftDelete(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.SoftDelete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.authService.RevokeAllSessions(c.Request.Context(), id.String()); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Purge irrevocably removes a soft-deleted user. Only accounts already
// retired through SoftDelete qualify.
func (h *UserHandler) Purge(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Purge(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Restore brings a soft-deleted user back
func (h *UserHandler) Restore(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Restore(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// CreatePlatformUser creates a platform super-admin. Platform guarded.
func (h *UserHandler) CreatePlatformUser(c *gin.Context) {
	var req CreatePlatformUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.CreatePlatformUser(c.Request.Context(), identityapp.CreateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// ListPlatformUsers lists the super-admin roster. Platform guarded.
func (h *UserHandler) ListPlatformUsers(c *gin.Context) {
	listReq, err := listFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	users, err := h.userService.ListPlatformUsers(c.Request.Context(), identityapp.UserFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		SortBy:   listReq.OrderBy,
		SortDir:  listReq.OrderDir,
		Keyword:  listReq.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, users)
}
