package handler

import (
	"github.com/gin-gonic/gin"

	academicapp "github.com/schoolhub/backend/internal/application/academic"
)

// StudentHandler handles enrollment, student profile and guardian endpoints
type StudentHandler struct {
	BaseHandler
	enrollmentService *academicapp.EnrollmentService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(enrollmentService *academicapp.EnrollmentService) *StudentHandler {
	return &StudentHandler{enrollmentService: enrollmentService}
}

// EnrollStudentRequest is the body for enrolling a student
type EnrollStudentRequest struct {
	UserID         string `json:"user_id" binding:"required,uuid"`
	ClassID        string `json:"class_id" binding:"required,uuid"`
	SectionID      string `json:"section_id" binding:"required,uuid"`
	AcademicYearID string `json:"academic_year_id" binding:"required,uuid"`
	AdmissionNo    string `json:"admission_no" binding:"required,min=1,max=50"`
	FirstName      string `json:"first_name" binding:"required,min=1,max=100"`
	LastName       string `json:"last_name" binding:"required,min=1,max=100"`
	DateOfBirth    string `json:"date_of_birth" binding:"omitempty,len=10"`
	Gender         string `json:"gender" binding:"omitempty,oneof=male female other"`
}

// TransferStudentRequest is the body for moving a student between sections
type TransferStudentRequest struct {
	ClassID   string `json:"class_id" binding:"required,uuid"`
	SectionID string `json:"section_id" binding:"required,uuid"`
}

// ChangeStudentStatusRequest is the body for a student status transition
type ChangeStudentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active transferred graduated withdrawn"`
}

// CreateGuardianRequest is the body for registering a guardian
type CreateGuardianRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Phone     string `json:"phone" binding:"required,min=5,max=20"`
	Email     string `json:"email" binding:"omitempty,email"`
	Address   string `json:"address" binding:"omitempty,max=500"`
}

// LinkGuardianRequest is the body for linking a guardian to a student
type LinkGuardianRequest struct {
	GuardianID       string `json:"guardian_id" binding:"required,uuid"`
	Relationship     string `json:"relationship" binding:"required,min=1,max=50"`
	EmergencyContact bool   `json:"emergency_contact"`
	PickupPermitted  bool   `json:"pickup_permitted"`
}

// Enroll enrolls a student into a section
func (h *StudentHandler) Enroll(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req EnrollStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := academicapp.EnrollStudentInput{
		AdmissionNo: req.AdmissionNo,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Gender:      req.Gender,
	}
	var err error
	if input.UserID, err = parseUUIDString(req.UserID); err != nil {
		h.invalidField(c, "user_id", "must be a valid UUID")
		return
	}
	if input.ClassID, err = parseUUIDString(req.ClassID); err != nil {
		h.invalidField(c, "class_id", "must be a valid UUID")
		return
	}
	if input.SectionID, err = parseUUIDString(req.SectionID); err != nil {
		h.invalidField(c, "section_id", "must be a valid UUID")
		return
	}
	if input.AcademicYearID, err = parseUUIDString(req.AcademicYearID); err != nil {
		h.invalidField(c, "academic_year_id", "must be a valid UUID")
		return
	}
	if req.DateOfBirth != "" {
		dob, err := parseDate(req.DateOfBirth)
		if err != nil {
			h.invalidField(c, "date_of_birth", "must be YYYY-MM-DD")
			return
		}
		input.DateOfBirth = &dob
	}

	student, err := h.enrollmentService.Enroll(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, student)
}

// Get retrieves a student profile
func (h *StudentHandler) Get(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	studentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	student, err := h.enrollmentService.GetStudent(c.Request.Context(), tenantID, studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, student)
}

// List lists students with pagination
func (h *StudentHandler) List(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	listReq, err := listFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.enrollmentService.ListStudents(c.Request.Context(), tenantID, academicapp.ListFilter{
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

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListBySection returns a section's roster
func (h *StudentHandler) ListBySection(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	sectionID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	students, err := h.enrollmentService.ListBySection(c.Request.Context(), tenantID, sectionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, students)
}

// Transfer moves a student to another section
func (h *StudentHandler) Transfer(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	studentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req TransferStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	classID, err := parseUUIDString(req.ClassID)
	if err != nil {
		h.invalidField(c, "class_id", "must be a valid UUID")
		return
	}
	sectionID, err := parseUUIDString(req.SectionID)
	if err != nil {
		h.invalidField(c, "section_id", "must be a valid UUID")
		return
	}

	student, err := h.enrollmentService.Transfer(c.Request.Context(), tenantID, studentID, classID, sectionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, student)
}

// ChangeStatus transitions a student's enrollment status
func (h *StudentHandler) ChangeStatus(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	studentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req ChangeStudentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	student, err := h.enrollmentService.ChangeStudentStatus(c.Request.Context(), tenantID, studentID, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, student)
}

// CreateGuardian registers a guardian
func (h *StudentHandler) CreateGuardian(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req CreateGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	guardian, err := h.enrollmentService.CreateGuardian(c.Request.Context(), tenantID, academicapp.CreateGuardianInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, guardian)
}

// LinkGuardian links a guardian to a student
func (h *StudentHandler) LinkGuardian(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	studentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req LinkGuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	guardianID, err := parseUUIDString(req.GuardianID)
	if err != nil {
		h.invalidField(c, "guardian_id", "must be a valid UUID")
		return
	}

	if err := h.enrollmentService.LinkGuardian(c.Request.Context(), tenantID, academicapp.LinkGuardianInput{
		StudentID:        studentID,
		GuardianID:       guardianID,
		Relationship:     req.Relationship,
		EmergencyContact: req.EmergencyContact,
		PickupPermitted:  req.PickupPermitted,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// UnlinkGuardian removes a student-guardian link
func (h *StudentHandler) UnlinkGuardian(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	studentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	guardianID, ok := h.pathUUID(c, "guardian_id")
	if !ok {
		return
	}

	if err := h.enrollmentService.UnlinkGuardian(c.Request.Context(), tenantID, studentID, guardianID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListGuardians lists a student's guardians
func (h *StudentHandler) ListGuardians(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	studentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	guardians, err := h.enrollmentService.ListGuardians(c.Request.Context(), tenantID, studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, guardians)
}
