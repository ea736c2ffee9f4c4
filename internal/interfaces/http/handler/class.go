package handler

import (
	"github.com/gin-gonic/gin"

	academicapp "github.com/schoolhub/backend/internal/application/academic"
)

// ClassHandler handles class and section endpoints
type ClassHandler struct {
	BaseHandler
	classService *academicapp.ClassService
}

// NewClassHandler creates a new class handler
func NewClassHandler(classService *academicapp.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// CreateClassRequest is the body for creating a class grade
type CreateClassRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=50"`
	NumericLevel int    `json:"numeric_level" binding:"required,min=1,max=20"`
}

// CreateSectionRequest is the body for creating a section
type CreateSectionRequest struct {
	ClassID        string `json:"class_id" binding:"required,uuid"`
	AcademicYearID string `json:"academic_year_id" binding:"required,uuid"`
	Name           string `json:"name" binding:"required,min=1,max=20"`
	Capacity       int    `json:"capacity" binding:"required,min=1,max=500"`
}

// ResizeSectionRequest is the body for changing a section's capacity
type ResizeSectionRequest struct {
	Capacity int `json:"capacity" binding:"required,min=1,max=500"`
}

// AssignTeacherRequest is the body for assigning a class teacher
type AssignTeacherRequest struct {
	TeacherID string `json:"teacher_id" binding:"required,uuid"`
}

// CreateClass creates a class grade
func (h *ClassHandler) CreateClass(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	class, err := h.classService.CreateClass(c.Request.Context(), tenantID, academicapp.CreateClassInput{
		Name:         req.Name,
		NumericLevel: req.NumericLevel,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, class)
}

// GetClass retrieves a class with its sections for an academic year
func (h *ClassHandler) GetClass(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	classID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	yearID, err := parseUUIDQuery(c, "academic_year_id")
	if err != nil {
		h.BadRequest(c, "academic_year_id query parameter is required")
		return
	}

	class, err := h.classService.GetClass(c.Request.Context(), tenantID, classID, yearID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, class)
}

// ListClasses lists the school's classes ordered by level
func (h *ClassHandler) ListClasses(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	listReq, err := listFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	classes, err := h.classService.ListClasses(c.Request.Context(), tenantID, academicapp.ListFilter{
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

	h.Success(c, classes)
}

// AssignClassTeacher assigns the class teacher
func (h *ClassHandler) AssignClassTeacher(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	classID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req AssignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	teacherID, err := parseUUIDString(req.TeacherID)
	if err != nil {
		h.invalidField(c, "teacher_id", "must be a valid UUID")
		return
	}

	class, err := h.classService.AssignClassTeacher(c.Request.Context(), tenantID, classID, teacherID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, class)
}

// DeleteClass removes an empty class
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	classID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.classService.DeleteClass(c.Request.Context(), tenantID, classID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateSection creates a section under a class for an academic year
func (h *ClassHandler) CreateSection(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	classID, err := parseUUIDString(req.ClassID)
	if err != nil {
		h.invalidField(c, "class_id", "must be a valid UUID")
		return
	}
	yearID, err := parseUUIDString(req.AcademicYearID)
	if err != nil {
		h.invalidField(c, "academic_year_id", "must be a valid UUID")
		return
	}

	section, err := h.classService.CreateSection(c.Request.Context(), tenantID, academicapp.CreateSectionInput{
		ClassID:        classID,
		AcademicYearID: yearID,
		Name:           req.Name,
		Capacity:       req.Capacity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, section)
}

// GetSection retrieves a section with live seat availability
func (h *ClassHandler) GetSection(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	sectionID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	section, err := h.classService.GetSection(c.Request.Context(), tenantID, sectionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, section)
}

// ResizeSection changes a section's capacity; shrinking below current
// enrollment is refused.
func (h *ClassHandler) ResizeSection(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	sectionID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req ResizeSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	section, err := h.classService.ResizeSection(c.Request.Context(), tenantID, sectionID, req.Capacity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, section)
}
