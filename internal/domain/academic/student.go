package academic

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolhub/backend/internal/domain/shared"
)

// StudentStatus represents the enrollment status of a student
type StudentStatus string

const (
	StudentStatusActive      StudentStatus = "active"
	StudentStatusTransferred StudentStatus = "transferred"
	StudentStatusGraduated   StudentStatus = "graduated"
	StudentStatusWithdrawn   StudentStatus = "withdrawn"
)

// IsValid checks if the status is a valid StudentStatus
func (s StudentStatus) IsValid() bool {
	switch s {
	case StudentStatusActive, StudentStatusTransferred, StudentStatusGraduated, StudentStatusWithdrawn:
		return true
	}
	return false
}

// Student is a learner's profile. Identity and authentication live on
// the linked User row; everything school-specific lives here. The
// admission number is unique per tenant.
type Student struct {
	shared.TenantAggregateRoot
	UserID         uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex"`
	ClassID        uuid.UUID     `gorm:"type:uuid;not null;index"`
	SectionID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	AcademicYearID uuid.UUID     `gorm:"type:uuid;not null;index"`
	AdmissionNo    string        `gorm:"type:varchar(50);not null"`
	FirstName      string        `gorm:"type:varchar(100);not null"`
	LastName       string        `gorm:"type:varchar(100);not null"`
	DateOfBirth    *time.Time
	Gender         string        `gorm:"type:varchar(20)"`
	Status         StudentStatus `gorm:"type:varchar(20);not null;default:'active'"`
	AdmittedAt     time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Student) TableName() string {
	return "students"
}

// NewStudent enrolls a student into a class section for an academic year
func NewStudent(tenantID, userID, classID, sectionID, academicYearID uuid.UUID, admissionNo, firstName, lastName string) (*Student, error) {
	admissionNo = strings.TrimSpace(admissionNo)
	if admissionNo == "" {
		return nil, shared.NewDomainError("INVALID_ADMISSION_NO", "Admission number cannot be empty")
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Student first and last name are required")
	}
	if userID == uuid.Nil || classID == uuid.Nil || sectionID == uuid.Nil || academicYearID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Student requires user, class, section and academic year")
	}
	return &Student{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		ClassID:             classID,
		SectionID:           sectionID,
		AcademicYearID:      academicYearID,
		AdmissionNo:         admissionNo,
		FirstName:           strings.TrimSpace(firstName),
		LastName:            strings.TrimSpace(lastName),
		Status:              StudentStatusActive,
		AdmittedAt:          time.Now(),
	}, nil
}

// FullName returns the display name
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// IsActive reports whether the student occupies a seat
func (s *Student) IsActive() bool {
	return s.Status == StudentStatusActive
}

// MoveToSection transfers the student to another section
func (s *Student) MoveToSection(classID, sectionID uuid.UUID) error {
	if classID == uuid.Nil || sectionID == uuid.Nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Class and section are required")
	}
	if !s.IsActive() {
		return shared.ErrInvalidState
	}
	s.ClassID = classID
	s.SectionID = sectionID
	s.Touch()
	s.IncrementVersion()
	return nil
}

// ChangeStatus transitions the enrollment status
func (s *Student) ChangeStatus(status StudentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid student status")
	}
	s.Status = status
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Guardian is a parent or caretaker. One guardian may be linked to many
// students, also across a family's siblings.
type Guardian struct {
	shared.TenantAggregateRoot
	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Phone     string `gorm:"type:varchar(50);not null"`
	Email     string `gorm:"type:varchar(200)"`
	Address   string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Guardian) TableName() string {
	return "guardians"
}

// NewGuardian creates a guardian for a tenant
func NewGuardian(tenantID uuid.UUID, firstName, lastName, phone string) (*Guardian, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Guardian first and last name are required")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Guardian phone is required")
	}
	return &Guardian{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		FirstName:           strings.TrimSpace(firstName),
		LastName:            strings.TrimSpace(lastName),
		Phone:               strings.TrimSpace(phone),
	}, nil
}

// StudentGuardian is the link between a student and a guardian, carrying
// the relationship metadata that belongs to the pair rather than to
// either side.
type StudentGuardian struct {
	StudentID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	GuardianID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Relationship     string    `gorm:"type:varchar(50);not null"`
	EmergencyContact bool      `gorm:"not null;default:false"`
	PickupPermitted  bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StudentGuardian) TableName() string {
	return "student_guardians"
}

// NewStudentGuardian links a guardian to a student
func NewStudentGuardian(tenantID, studentID, guardianID uuid.UUID, relationship string) (*StudentGuardian, error) {
	if studentID == uuid.Nil || guardianID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Student and guardian are required")
	}
	relationship = strings.TrimSpace(relationship)
	if relationship == "" {
		return nil, shared.NewDomainError("INVALID_RELATIONSHIP", "Relationship is required")
	}
	return &StudentGuardian{
		StudentID:    studentID,
		GuardianID:   guardianID,
		TenantID:     tenantID,
		Relationship: relationship,
		CreatedAt:    time.Now(),
	}, nil
}
