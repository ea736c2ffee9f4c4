package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	settingsapp "github.com/schoolhub/backend/internal/application/settings"
)

// SettingsHandler handles the sectioned settings store. School routes
// operate on the caller's tenant scope; platform routes operate on the
// global scope and sit behind the platform guard.
type SettingsHandler struct {
	BaseHandler
	settingsService *settingsapp.Service
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *settingsapp.Service) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns one settings section for the caller's school
func (h *SettingsHandler) Get(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	h.get(c, &tenantID)
}

// GetAll returns every stored section for the caller's school
func (h *SettingsHandler) GetAll(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	h.getAll(c, &tenantID)
}

// Replace overwrites one section for the caller's school
func (h *SettingsHandler) Replace(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	h.replace(c, &tenantID)
}

// Patch overlays keys onto one section for the caller's school
func (h *SettingsHandler) Patch(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	h.patch(c, &tenantID)
}

// GetPlatform returns one global settings section
func (h *SettingsHandler) GetPlatform(c *gin.Context) {
	h.get(c, nil)
}

// GetAllPlatform returns every stored global section
func (h *SettingsHandler) GetAllPlatform(c *gin.Context) {
	h.getAll(c, nil)
}

// ReplacePlatform overwrites one global section
func (h *SettingsHandler) ReplacePlatform(c *gin.Context) {
	h.replace(c, nil)
}

// PatchPlatform overlays keys onto one global section
func (h *SettingsHandler) PatchPlatform(c *gin.Context) {
	h.patch(c, nil)
}

func (h *SettingsHandler) get(c *gin.Context, tenantID *uuid.UUID) {
	setting, err := h.settingsService.Get(c.Request.Context(), tenantID, c.Param("section"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}

func (h *SettingsHandler) getAll(c *gin.Context, tenantID *uuid.UUID) {
	settings, err := h.settingsService.GetAll(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

func (h *SettingsHandler) replace(c *gin.Context, tenantID *uuid.UUID) {
	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}
	setting, err := h.settingsService.Replace(c.Request.Context(), tenantID, c.Param("section"), payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}

func (h *SettingsHandler) patch(c *gin.Context, tenantID *uuid.UUID) {
	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}
	setting, err := h.settingsService.Patch(c.Request.Context(), tenantID, c.Param("section"), payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}

func (h *SettingsHandler) bindPayload(c *gin.Context) (map[string]interface{}, bool) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.BadRequest(c, "Body must be a JSON object")
		return nil, false
	}
	if payload == nil {
		h.BadRequest(c, "Body must be a JSON object")
		return nil, false
	}
	return payload, true
}
