package handler

import (
	"github.com/gin-gonic/gin"

	feesapp "github.com/schoolhub/backend/internal/application/fees"
)

// FeeHandler handles fee category, structure, discount and allocation endpoints
type FeeHandler struct {
	BaseHandler
	feeService *feesapp.FeeService
}

// NewFeeHandler creates a new fee handler
func NewFeeHandler(feeService *feesapp.FeeService) *FeeHandler {
	return &FeeHandler{feeService: feeService}
}

// CreateFeeCategoryRequest is the body for creating a fee category
type CreateFeeCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// CreateFeeStructureRequest is the body for creating a fee structure
type CreateFeeStructureRequest struct {
	CategoryID     string `json:"category_id" binding:"required,uuid"`
	ClassID        string `json:"class_id" binding:"omitempty,uuid"`
	AcademicYearID string `json:"academic_year_id" binding:"required,uuid"`
	Amount         string `json:"amount" binding:"required"`
	LateFee        string `json:"late_fee" binding:"omitempty"`
	GraceDays      int    `json:"grace_days" binding:"omitempty,min=0,max=365"`
	DueDate        string `json:"due_date" binding:"omitempty,len=10"`
}

// CreateDiscountRequest is the body for creating a discount
type CreateDiscountRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Type  string `json:"type" binding:"required,oneof=percentage fixed"`
	Value string `json:"value" binding:"required"`
}

// AssignFeeRequest is the body for allocating a structure to a student
type AssignFeeRequest struct {
	StudentID      string `json:"student_id" binding:"required,uuid"`
	FeeStructureID string `json:"fee_structure_id" binding:"required,uuid"`
	DiscountID     string `json:"discount_id" binding:"omitempty,uuid"`
}

// CreateCategory creates a fee category
func (h *FeeHandler) CreateCategory(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req CreateFeeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.feeService.CreateCategory(c.Request.Context(), tenantID, feesapp.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// ListCategories lists the school's fee categories
func (h *FeeHandler) ListCategories(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	listReq, err := listFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	categories, err := h.feeService.ListCategories(c.Request.Context(), tenantID, feesapp.ListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		SortBy:   listReq.OrderBy,
		SortDir:  listReq.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// DeactivateCategory retires a fee category from new structures
func (h *FeeHandler) DeactivateCategory(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	categoryID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	category, err := h.feeService.DeactivateCategory(c.Request.Context(), tenantID, categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// CreateStructure creates a fee structure under a category
func (h *FeeHandler) CreateStructure(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req CreateFeeStructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := feesapp.CreateStructureInput{
		Amount:    req.Amount,
		LateFee:   req.LateFee,
		GraceDays: req.GraceDays,
	}
	var err error
	if input.CategoryID, err = parseUUIDString(req.CategoryID); err != nil {
		h.invalidField(c, "category_id", "must be a valid UUID")
		return
	}
	if input.AcademicYearID, err = parseUUIDString(req.AcademicYearID); err != nil {
		h.invalidField(c, "academic_year_id", "must be a valid UUID")
		return
	}
	if req.ClassID != "" {
		classID, err := parseUUIDString(req.ClassID)
		if err != nil {
			h.invalidField(c, "class_id", "must be a valid UUID")
			return
		}
		input.ClassID = &classID
	}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			h.invalidField(c, "due_date", "must be YYYY-MM-DD")
			return
		}
		input.DueDate = &due
	}

	structure, err := h.feeService.CreateStructure(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, structure)
}

// ListStructures lists the school's fee structures
func (h *FeeHandler) ListStructures(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	listReq, err := listFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	structures, err := h.feeService.ListStructures(c.Request.Context(), tenantID, feesapp.ListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		SortBy:   listReq.OrderBy,
		SortDir:  listReq.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, structures)
}

// ListApplicableStructures lists structures that apply to one class in
// one academic year, including school-wide structures.
func (h *FeeHandler) ListApplicableStructures(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	yearID, err := parseUUIDQuery(c, "academic_year_id")
	if err != nil {
		h.BadRequest(c, "academic_year_id query parameter must be a valid UUID")
		return
	}
	classID, err := parseUUIDQuery(c, "class_id")
	if err != nil {
		h.BadRequest(c, "class_id query parameter must be a valid UUID")
		return
	}

	structures, err := h.feeService.ListApplicableStructures(c.Request.Context(), tenantID, yearID, classID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, structures)
}

// CreateDiscount creates a discount
func (h *FeeHandler) CreateDiscount(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	discount, err := h.feeService.CreateDiscount(c.Request.Context(), tenantID, feesapp.CreateDiscountInput{
		Name:  req.Name,
		Type:  req.Type,
		Value: req.Value,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, discount)
}

// ListDiscounts lists the school's discounts
func (h *FeeHandler) ListDiscounts(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	listReq, err := listFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	discounts, err := h.feeService.ListDiscounts(c.Request.Context(), tenantID, feesapp.ListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		SortBy:   listReq.OrderBy,
		SortDir:  listReq.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, discounts)
}

// AssignToStudent allocates a fee structure to a student, applying an
// optional discount at assessment time.
func (h *FeeHandler) AssignToStudent(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req AssignFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := feesapp.AssignFeeInput{}
	var err error
	if input.StudentID, err = parseUUIDString(req.StudentID); err != nil {
		h.invalidField(c, "student_id", "must be a valid UUID")
		return
	}
	if input.FeeStructureID, err = parseUUIDString(req.FeeStructureID); err != nil {
		h.invalidField(c, "fee_structure_id", "must be a valid UUID")
		return
	}
	if req.DiscountID != "" {
		discountID, err := parseUUIDString(req.DiscountID)
		if err != nil {
			h.invalidField(c, "discount_id", "must be a valid UUID")
			return
		}
		input.DiscountID = &discountID
	}

	allocation, err := h.feeService.AssignToStudent(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, allocation)
}

// ListForStudent lists a student's fee allocations
func (h *FeeHandler) ListForStudent(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	studentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	allocations, err := h.feeService.ListForStudent(c.Request.Context(), tenantID, studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, allocations)
}

// Waive writes off an allocation's outstanding balance
func (h *FeeHandler) Waive(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	allocationID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	allocation, err := h.feeService.Waive(c.Request.Context(), tenantID, allocationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, allocation)
}

// SummaryForStudent aggregates a student's assessed, paid and outstanding totals
func (h *FeeHandler) SummaryForStudent(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	studentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	summary, err := h.feeService.SummaryForStudent(c.Request.Context(), tenantID, studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
