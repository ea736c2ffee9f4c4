package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// TenantSortFields contains allowed sort fields for tenants
var TenantSortFields = map[string]bool{
	"id":                   true,
	"created_at":           true,
	"updated_at":           true,
	"slug":                 true,
	"name":                 true,
	"status":               true,
	"plan":                 true,
	"subscription_ends_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// AcademicYearSortFields contains allowed sort fields for academic years
var AcademicYearSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"start_date": true,
	"end_date":   true,
	"status":     true,
}

// ClassSortFields contains allowed sort fields for classes
var ClassSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":          true,
	"numeric_level": true,
}

// StudentSortFields contains allowed sort fields for students
var StudentSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"admission_no": true,
	"first_name":   true,
	"last_name":    true,
	"status":       true,
	"admitted_at":  true,
	"section_id":   true,
}

// GuardianSortFields contains allowed sort fields for guardians
var GuardianSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"full_name":  true,
	"phone":      true,
	"email":      true,
}

// LeaveRequestSortFields contains allowed sort fields for leave requests
var LeaveRequestSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"from_date":      true,
	"to_date":        true,
	"status":         true,
	"requester_type": true,
}

// FeeStructureSortFields contains allowed sort fields for fee structures
var FeeStructureSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"amount":           true,
	"due_date":         true,
	"academic_year_id": true,
}

// AllocationSortFields contains allowed sort fields for fee allocations
var AllocationSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"student_id":  true,
	"status":      true,
	"net_amount":  true,
	"paid_amount": true,
	"due_amount":  true,
}

// PaymentSortFields contains allowed sort fields for fee payments
var PaymentSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"receipt_number": true,
	"amount":         true,
	"method":         true,
	"paid_at":        true,
}
