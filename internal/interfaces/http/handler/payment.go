package handler

import (
	"github.com/gin-gonic/gin"

	feesapp "github.com/schoolhub/backend/internal/application/fees"
)

// PaymentHandler handles fee payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *feesapp.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *feesapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest is the body for recording a payment
type RecordPaymentRequest struct {
	AllocationID string `json:"allocation_id" binding:"required,uuid"`
	Amount       string `json:"amount" binding:"required"`
	Method       string `json:"method" binding:"required,oneof=cash bank_transfer mobile_money card cheque online"`
	Notes        string `json:"notes" binding:"omitempty,max=500"`
}

// Record records a payment against an allocation. The recording user
// is taken from the authenticated caller.
func (h *PaymentHandler) Record(c *gin.Context) {
	access, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	allocationID, err := parseUUIDString(req.AllocationID)
	if err != nil {
		h.invalidField(c, "allocation_id", "must be a valid UUID")
		return
	}

	recordedBy := access.Principal.UserID
	result, err := h.paymentService.Record(c.Request.Context(), tenantID, feesapp.RecordPaymentInput{
		AllocationID: allocationID,
		Amount:       req.Amount,
		Method:       req.Method,
		RecordedBy:   &recordedBy,
		Notes:        req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID retrieves a payment
func (h *PaymentHandler) GetByID(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	paymentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), tenantID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// GetByReceipt retrieves a payment by its receipt number
func (h *PaymentHandler) GetByReceipt(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	receipt := c.Param("receipt")
	if receipt == "" {
		h.BadRequest(c, "receipt number is required")
		return
	}

	payment, err := h.paymentService.GetByReceipt(c.Request.Context(), tenantID, receipt)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// ListForAllocation lists the payments made against one allocation
func (h *PaymentHandler) ListForAllocation(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	allocationID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListForAllocation(c.Request.Context(), tenantID, allocationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payments)
}

// Void soft-deletes a payment. The row stays in the ledger for audit.
func (h *PaymentHandler) Void(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	paymentID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.Void(c.Request.Context(), tenantID, paymentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
