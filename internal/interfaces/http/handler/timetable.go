package handler

import (
	"github.com/gin-gonic/gin"

	academicapp "github.com/schoolhub/backend/internal/application/academic"
)

// TimetableHandler handles weekly timetable endpoints
type TimetableHandler struct {
	BaseHandler
	timetableService *academicapp.TimetableService
}

// NewTimetableHandler creates a new timetable handler
func NewTimetableHandler(timetableService *academicapp.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetableService: timetableService}
}

// CreateTimetableEntryRequest is the body for creating a timetable slot
type CreateTimetableEntryRequest struct {
	SectionID      string `json:"section_id" binding:"required,uuid"`
	AcademicYearID string `json:"academic_year_id" binding:"required,uuid"`
	Weekday        int    `json:"weekday" binding:"required,min=1,max=7"`
	SlotNumber     int    `json:"slot_number" binding:"required,min=1,max=12"`
	Subject        string `json:"subject" binding:"required,min=1,max=100"`
	TeacherID      string `json:"teacher_id" binding:"omitempty,uuid"`
	StartTime      string `json:"start_time" binding:"required,len=5"`
	EndTime        string `json:"end_time" binding:"required,len=5"`
	Room           string `json:"room" binding:"omitempty,max=50"`
}

// AssignSlotTeacherRequest is the body for staffing a slot
type AssignSlotTeacherRequest struct {
	TeacherID string `json:"teacher_id" binding:"required,uuid"`
}

// CreateEntry creates a timetable slot for a section
func (h *TimetableHandler) CreateEntry(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req CreateTimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := academicapp.CreateEntryInput{
		Weekday:    req.Weekday,
		SlotNumber: req.SlotNumber,
		Subject:    req.Subject,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Room:       req.Room,
	}
	var err error
	if input.SectionID, err = parseUUIDString(req.SectionID); err != nil {
		h.invalidField(c, "section_id", "must be a valid UUID")
		return
	}
	if input.AcademicYearID, err = parseUUIDString(req.AcademicYearID); err != nil {
		h.invalidField(c, "academic_year_id", "must be a valid UUID")
		return
	}
	if req.TeacherID != "" {
		teacherID, err := parseUUIDString(req.TeacherID)
		if err != nil {
			h.invalidField(c, "teacher_id", "must be a valid UUID")
			return
		}
		input.TeacherID = &teacherID
	}

	entry, err := h.timetableService.CreateEntry(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// GetForSection returns a section's weekly grid for an academic year
func (h *TimetableHandler) GetForSection(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	sectionID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	yearID, err := parseUUIDQuery(c, "academic_year_id")
	if err != nil {
		h.BadRequest(c, "academic_year_id query parameter must be a valid UUID")
		return
	}

	entries, err := h.timetableService.GetForSection(c.Request.Context(), tenantID, sectionID, yearID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// GetForTeacher returns every slot a teacher covers in an academic year
func (h *TimetableHandler) GetForTeacher(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	teacherID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	yearID, err := parseUUIDQuery(c, "academic_year_id")
	if err != nil {
		h.BadRequest(c, "academic_year_id query parameter must be a valid UUID")
		return
	}

	entries, err := h.timetableService.GetForTeacher(c.Request.Context(), tenantID, teacherID, yearID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// AssignTeacher staffs a timetable slot
func (h *TimetableHandler) AssignTeacher(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	entryID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req AssignSlotTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	teacherID, err := parseUUIDString(req.TeacherID)
	if err != nil {
		h.invalidField(c, "teacher_id", "must be a valid UUID")
		return
	}

	entry, err := h.timetableService.AssignTeacher(c.Request.Context(), tenantID, entryID, teacherID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// ClearTeacher unstaffs a timetable slot
func (h *TimetableHandler) ClearTeacher(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	entryID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	entry, err := h.timetableService.ClearTeacher(c.Request.Context(), tenantID, entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// DeleteEntry removes a timetable slot
func (h *TimetableHandler) DeleteEntry(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	entryID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.timetableService.DeleteEntry(c.Request.Context(), tenantID, entryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
