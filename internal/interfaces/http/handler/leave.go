package handler

import (
	"github.com/gin-gonic/gin"

	academicapp "github.com/schoolhub/backend/internal/application/academic"
)

// LeaveHandler handles leave request endpoints
type LeaveHandler struct {
	BaseHandler
	leaveService *academicapp.LeaveService
}

// NewLeaveHandler creates a new leave handler
func NewLeaveHandler(leaveService *academicapp.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

// FileLeaveRequest is the body for filing a leave request
type FileLeaveRequest struct {
	RequesterType string `json:"requester_type" binding:"required,oneof=student staff"`
	RequesterID   string `json:"requester_id" binding:"required,uuid"`
	FromDate      string `json:"from_date" binding:"required,len=10"`
	ToDate        string `json:"to_date" binding:"required,len=10"`
	Reason        string `json:"reason" binding:"required,min=1,max=1000"`
}

// ReviewLeaveRequest is the body for approving or rejecting a request
type ReviewLeaveRequest struct {
	Approve bool   `json:"approve"`
	Remarks string `json:"remarks" binding:"omitempty,max=1000"`
}

// File files a new leave request in pending status
func (h *LeaveHandler) File(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}

	var req FileLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	requesterID, err := parseUUIDString(req.RequesterID)
	if err != nil {
		h.invalidField(c, "requester_id", "must be a valid UUID")
		return
	}
	from, err := parseDate(req.FromDate)
	if err != nil {
		h.invalidField(c, "from_date", "must be YYYY-MM-DD")
		return
	}
	to, err := parseDate(req.ToDate)
	if err != nil {
		h.invalidField(c, "to_date", "must be YYYY-MM-DD")
		return
	}

	request, err := h.leaveService.File(c.Request.Context(), tenantID, academicapp.FileLeaveInput{
		RequesterType: req.RequesterType,
		RequesterID:   requesterID,
		FromDate:      from,
		ToDate:        to,
		Reason:        req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, request)
}

// Get retrieves a leave request
func (h *LeaveHandler) Get(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	requestID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	request, err := h.leaveService.Get(c.Request.Context(), tenantID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// ListByRequester lists leave requests filed for one requester
func (h *LeaveHandler) ListByRequester(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	requesterID, err := parseUUIDQuery(c, "requester_id")
	if err != nil {
		h.BadRequest(c, "requester_id query parameter must be a valid UUID")
		return
	}
	listReq, err := listFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	requests, err := h.leaveService.ListByRequester(c.Request.Context(), tenantID, requesterID, academicapp.ListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		SortBy:   listReq.OrderBy,
		SortDir:  listReq.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, requests)
}

// ListPending lists requests still awaiting review
func (h *LeaveHandler) ListPending(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	listReq, err := listFilterFromQuery(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	requests, err := h.leaveService.ListPending(c.Request.Context(), tenantID, academicapp.ListFilter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		SortBy:   listReq.OrderBy,
		SortDir:  listReq.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, requests)
}

// Review approves or rejects a pending request. The reviewer identity
// is taken from the authenticated caller, never from the body.
func (h *LeaveHandler) Review(c *gin.Context) {
	access, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	requestID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req ReviewLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	request, err := h.leaveService.Review(c.Request.Context(), tenantID, academicapp.ReviewLeaveInput{
		RequestID:  requestID,
		ReviewerID: access.Principal.UserID,
		Approve:    req.Approve,
		Remarks:    req.Remarks,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Cancel cancels a request before its leave period begins
func (h *LeaveHandler) Cancel(c *gin.Context) {
	_, tenantID, ok := h.scoped(c)
	if !ok {
		return
	}
	requestID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	request, err := h.leaveService.Cancel(c.Request.Context(), tenantID, requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}
