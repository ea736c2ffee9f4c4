package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	academicapp "github.com/schoolhub/backend/internal/application/academic"
)

// dateFormat is the wire format for calendar dates without times
const dateFormat = "2006-01-02"

// AcademicYearHandler handles academic year endpoints
type AcademicYearHandler struct {
	BaseHandler
	yearService *academicapp.AcademicYearService
}

// NewAcademicYearHandler creates a new academic year handler
func NewAcademicYearHandler(yearService *academicapp.AcademicYearService) *AcademicYearHandler {
	return &AcademicYearHandler{yearService: yearService}
}

// CreateAcademicYearRequest is the body for creating an academic year
type CreateAcademicYearRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=50"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateFormat, raw)
}

// Create creates an academic year in upcoming status
func (h *AcademicYearHandler) Create(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req CreateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		h.invalidField(c, "start_date", "must be YYYY-MM-DD")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		h.invalidField(c, "end_date", "must be YYYY-MM-DD")
		return
	}

	year, err := h.yearService.Create(c.Request.Context(), tenantID, academicapp.CreateAcademicYearInput{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, year)
}

// GetByID retrieves one academic year
func (h *AcademicYearHandler) GetByID(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	year, err := h.yearService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, year)
}

// GetCurrent retrieves the school's current academic year
func (h *AcademicYearHandler) GetCurrent(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	year, err := h.yearService.GetCurrent(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, year)
}

// List lists the school's academic years
func (h *AcademicYearHandler) List(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	listReq, err := listFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	years, err := h.yearService.List(c.Request.Context(), tenantID, academicapp.ListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		SortBy:   listReq.OrderBy,
		SortDir:  listReq.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, years)
}

// SetCurrent flips the current-year flag to the given year. Exactly
// one year per school is current at any time.
func (h *AcademicYearHandler) SetCurrent(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	year, err := h.yearService.SetCurrent(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, year)
}

// Close closes an academic year; closed years refuse new enrollment
// and timetable changes.
func (h *AcademicYearHandler) Close(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	year, err := h.yearService.Close(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, year)
}

// Delete removes an academic year that was never made current
func (h *AcademicYearHandler) Delete(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.yearService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
