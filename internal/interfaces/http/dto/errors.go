package dto

import (
	"net/http"
	"strings"
)

// Error code constants, organized by category.
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeRateLimited is used when a caller exceeds a request budget
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// errorCodeHTTPStatus maps the codes domain errors carry to HTTP status
// codes. Codes absent from this table are classified by ClassifyCode.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	// Domain codes emitted by the application services.
	"UNAUTHORIZED":           http.StatusUnauthorized,
	"INVALID_CREDENTIALS":    http.StatusUnauthorized,
	"INVALID_TOKEN":          http.StatusUnauthorized,
	"TOKEN_REVOKED":          http.StatusUnauthorized,
	"SESSION_EXPIRED":        http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":       http.StatusForbidden,
	"FORBIDDEN":              http.StatusForbidden,
	"TENANT_NOT_OPERATIONAL": http.StatusForbidden,

	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONFLICT":             http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	"INVALID_INPUT":  http.StatusBadRequest,
	"INVALID_STATE":  http.StatusUnprocessableEntity,
	"INTERNAL_ERROR": http.StatusInternalServerError,
}

// businessRuleCodes are domain codes that signal a state or rule
// violation on an otherwise well-formed request.
var businessRuleCodes = map[string]struct{}{
	"SECTION_FULL":              {},
	"CAPACITY_BELOW_ENROLLMENT": {},
	"STUDENT_NOT_ACTIVE":        {},
	"YEAR_CLOSED":               {},
	"YEAR_IS_CURRENT":           {},
	"NO_CURRENT_YEAR":           {},
	"ALREADY_ALLOCATED":         {},
	"ALREADY_PAID":              {},
	"ALLOCATION_WAIVED":         {},
	"CATEGORY_INACTIVE":         {},
	"TEACHER_DOUBLE_BOOKED":     {},
	"LEAVE_ALREADY_DECIDED":     {},
	"LEAVE_NOT_CANCELLABLE":     {},
	"LEAVE_IN_PROGRESS":         {},
	"TENANT_HAS_USERS":          {},
	"FREE_PLAN_NO_EXPIRY":       {},
	"SUBSCRIPTION_END_REQUIRED": {},
	"CORRUPT_PAYLOAD":           {},
}

// GetHTTPStatus returns the HTTP status for an error code. Unknown
// codes fall back to shape-based classification rather than always
// 500, so new domain codes behave reasonably without a table edit.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return ClassifyCode(code)
}

// ClassifyCode infers an HTTP status from a domain error code's shape:
// *_NOT_FOUND -> 404, *_EXISTS -> 409, INVALID_* -> 400, known
// business-rule codes -> 422, anything else -> 500.
func ClassifyCode(code string) int {
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_EXISTS"):
		return http.StatusConflict
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	}
	if _, ok := businessRuleCodes[code]; ok {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
