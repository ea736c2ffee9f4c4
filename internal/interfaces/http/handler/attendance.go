package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	academicapp "github.com/schoolhub/backend/internal/application/academic"
)

// AttendanceHandler handles daily attendance endpoints
type AttendanceHandler struct {
	BaseHandler
	attendanceService *academicapp.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *academicapp.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// MarkAttendanceRequest is the body for marking a single student
type MarkAttendanceRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	SectionID string `json:"section_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required,len=10"`
	Status    string `json:"status" binding:"required,oneof=present absent late half_day leave holiday"`
	Remarks   string `json:"remarks" binding:"omitempty,max=500"`
}

// BulkMarkRequest is the body for marking a whole section at once
type BulkMarkRequest struct {
	SectionID string          `json:"section_id" binding:"required,uuid"`
	Date      string          `json:"date" binding:"required,len=10"`
	Entries   []BulkMarkEntry `json:"entries" binding:"required,min=1,max=500,dive"`
}

// BulkMarkEntry is one student's status inside a bulk mark
type BulkMarkEntry struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	Status    string `json:"status" binding:"required,oneof=present absent late half_day leave holiday"`
	Remarks   string `json:"remarks" binding:"omitempty,max=500"`
}

// Mark records one student's attendance for a date
func (h *AttendanceHandler) Mark(c *gin.Context) {
	access, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	studentID, err := parseUUIDString(req.StudentID)
	if err != nil {
		h.invalidField(c, "student_id", "must be a valid UUID")
		return
	}
	sectionID, err := parseUUIDString(req.SectionID)
	if err != nil {
		h.invalidField(c, "section_id", "must be a valid UUID")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		h.invalidField(c, "date", "must be YYYY-MM-DD")
		return
	}

	record, err := h.attendanceService.Mark(c.Request.Context(), tenantID, academicapp.MarkAttendanceInput{
		StudentID: studentID,
		SectionID: sectionID,
		Date:      date,
		Status:    req.Status,
		Remarks:   req.Remarks,
		MarkedBy:  access.Principal.UserID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, record)
}

// BulkMark records attendance for many students of a section in one call
func (h *AttendanceHandler) BulkMark(c *gin.Context) {
	access, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req BulkMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	sectionID, err := parseUUIDString(req.SectionID)
	if err != nil {
		h.invalidField(c, "section_id", "must be a valid UUID")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		h.invalidField(c, "date", "must be YYYY-MM-DD")
		return
	}

	input := academicapp.BulkMarkInput{
		SectionID: sectionID,
		Date:      date,
		MarkedBy:  access.Principal.UserID,
		Entries:   make([]academicapp.BulkMarkEntry, 0, len(req.Entries)),
	}
	for _, entry := range req.Entries {
		studentID, err := parseUUIDString(entry.StudentID)
		if err != nil {
			h.invalidField(c, "entries", "contains an invalid student_id")
			return
		}
		input.Entries = append(input.Entries, academicapp.BulkMarkEntry{
			StudentID: studentID,
			Status:    entry.Status,
			Remarks:   entry.Remarks,
		})
	}

	result, err := h.attendanceService.BulkMark(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetForSection returns a section's attendance for one date
func (h *AttendanceHandler) GetForSection(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	sectionID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		h.BadRequest(c, "date query parameter must be YYYY-MM-DD")
		return
	}

	records, err := h.attendanceService.GetForSection(c.Request.Context(), tenantID, sectionID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// GetForStudent returns a student's attendance over a date range
func (h *AttendanceHandler) GetForStudent(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	studentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}

	records, err := h.attendanceService.GetForStudent(c.Request.Context(), tenantID, studentID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// Summarize aggregates a student's attendance counts over a date range
func (h *AttendanceHandler) Summarize(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	studentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	from, to, ok := h.dateRange(c)
	if !ok {
		return
	}

	summary, err := h.attendanceService.Summarize(c.Request.Context(), tenantID, studentID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

func (h *AttendanceHandler) dateRange(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	if from, err = parseDate(c.Query("from")); err != nil {
		h.BadRequest(c, "from query parameter must be YYYY-MM-DD")
		return from, to, false
	}
	if to, err = parseDate(c.Query("to")); err != nil {
		h.BadRequest(c, "to query parameter must be YYYY-MM-DD")
		return from, to, false
	}
	return from, to, true
}
