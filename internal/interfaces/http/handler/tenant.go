package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/schoolhub/backend/internal/application/identity"
)

// TenantHandler handles the platform's school-account endpoints. Every
// route behind it is guarded by the platform middleware.
type TenantHandler struct {
	BaseHandler
	tenantService *identityapp.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *identityapp.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// CreateTenantRequest is the body for onboarding a school
type CreateTenantRequest struct {
	Slug             string `json:"slug" binding:"required,min=3,max=50,slug"`
	Name             string `json:"name" binding:"required,min=2,max=200"`
	ContactName      string `json:"contact_name" binding:"max=100"`
	ContactPhone     string `json:"contact_phone" binding:"max=30"`
	ContactEmail     string `json:"contact_email" binding:"omitempty,email,max=200"`
	Address          string `json:"address" binding:"max=500"`
	Plan             string `json:"plan" binding:"omitempty,oneof=free standard premium"`
	SubscriptionDays int    `json:"subscription_days" binding:"omitempty,min=1,max=3660"`
}

// UpdateTenantRequest is the body for updating a school's profile
type UpdateTenantRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=2,max=200"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=100"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=30"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email,max=200"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
}

// ChangePlanRequest is the body for a plan change
type ChangePlanRequest struct {
	Plan   string     `json:"plan" binding:"required,oneof=free standard premium"`
	EndsAt *time.Time `json:"ends_at"`
}

// ExtendSubscriptionRequest is the body for a subscription extension
type ExtendSubscriptionRequest struct {
	Days int `json:"days" binding:"required,min=1,max=3660"`
}

// ChangeStatusRequest is the body for an explicit status change
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Create onboards a new school account
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.Create(c.Request.Context(), identityapp.CreateTenantInput{
		Slug:             req.Slug,
		Name:             req.Name,
		ContactName:      req.ContactName,
		ContactPhone:     req.ContactPhone,
		ContactEmail:     req.ContactEmail,
		Address:          req.Address,
		Plan:             req.Plan,
		SubscriptionDays: req.SubscriptionDays,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, tenant)
}

// GetByID retrieves a school account by ID
func (h *TenantHandler) GetByID(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	tenant, err := h.tenantService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// GetBySlug retrieves a school account by its slug
func (h *TenantHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Slug is required")
		return
	}

	tenant, err := h.tenantService.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// List lists school accounts with pagination and filters
func (h *TenantHandler) List(c *gin.Context) {
	listReq, err := listFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.tenantService.List(c.Request.Context(), identityapp.TenantFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		SortBy:   listReq.OrderBy,
		SortDir:  listReq.OrderDir,
		Keyword:  listReq.Search,
		Status:   c.Query("status"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update updates a school's profile fields
func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), identityapp.UpdateTenantInput{
		ID:           id,
		Name:         req.Name,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Address:      req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Activate activates a pending or suspended school
func (h *TenantHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.tenantService.Activate)
}

// Suspend suspends an active school; its users can no longer log in
func (h *TenantHandler) Suspend(c *gin.Context) {
	h.changeStatus(c, h.tenantService.Suspend)
}

// ChangeStatus applies an arbitrary (validated) status transition
func (h *TenantHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// ChangePlan switches a school's subscription plan
func (h *TenantHandler) ChangePlan(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.ChangePlan(c.Request.Context(), id, req.Plan, req.EndsAt)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// ExtendSubscription pushes a paid school's expiry out by N days
func (h *TenantHandler) ExtendSubscription(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req ExtendSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.tenantService.ExtendSubscription(c.Request.Context(), id, req.Days)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}

// Delete soft-deletes a school account
func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.tenantService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *TenantHandler) changeStatus(c *gin.Context, fn func(context.Context, uuid.UUID) (*identityapp.TenantDTO, error)) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	tenant, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tenant)
}
