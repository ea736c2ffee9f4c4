package identity

// Role is the closed set of roles in the platform. Roles and their
// permission sets are fixed at compile time rather than seeded into the
// database, so an unknown role string can never grant access.
type Role string

const (
	// RoleSuperAdmin is the platform operator role. Only users with no
	// tenant may hold it; it is the sole role permitted to manage
	// tenants, platform users, subscriptions and global settings.
	RoleSuperAdmin Role = "super-admin"
	// RoleSchoolAdmin administers a single school.
	RoleSchoolAdmin Role = "school-admin"
	// RoleTeacher manages attendance, timetables and leave for their classes.
	RoleTeacher Role = "teacher"
	// RoleAccountant manages fee structures, allocations and payments.
	RoleAccountant Role = "accountant"
	// RoleStaff is a read-mostly school staff role.
	RoleStaff Role = "staff"
)

// IsValid checks if the role is a member of the closed set
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher, RoleAccountant, RoleStaff:
		return true
	}
	return false
}

// IsPlatform reports whether the role operates across tenants
func (r Role) IsPlatform() bool {
	return r == RoleSuperAdmin
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Permission identifies one guarded operation group
type Permission string

const (
	PermTenantsManage    Permission = "tenants:manage"    // platform only
	PermPlatformUsers    Permission = "platform:users"    // platform only
	PermSettingsManage   Permission = "settings:manage"   // platform only
	PermSchoolManage     Permission = "school:manage"     // users, classes, sections within a tenant
	PermStudentsRead     Permission = "students:read"
	PermStudentsWrite    Permission = "students:write"
	PermAttendanceRead   Permission = "attendance:read"
	PermAttendanceWrite  Permission = "attendance:write"
	PermFeesRead         Permission = "fees:read"
	PermFeesWrite        Permission = "fees:write"
	PermPaymentsRecord   Permission = "payments:record"
	PermTimetableManage  Permission = "timetable:manage"
	PermLeaveReview      Permission = "leave:review"
	PermAcademicsManage  Permission = "academics:manage" // academic years, current-year flip
)

// rolePermissions is the static permission set per role, built once at
// package initialization.
var rolePermissions = map[Role]map[Permission]struct{}{
	RoleSuperAdmin: permSet(
		PermTenantsManage, PermPlatformUsers, PermSettingsManage,
	),
	RoleSchoolAdmin: permSet(
		PermSchoolManage, PermAcademicsManage,
		PermStudentsRead, PermStudentsWrite,
		PermAttendanceRead, PermAttendanceWrite,
		PermFeesRead, PermFeesWrite, PermPaymentsRecord,
		PermTimetableManage, PermLeaveReview,
	),
	RoleTeacher: permSet(
		PermStudentsRead,
		PermAttendanceRead, PermAttendanceWrite,
		PermTimetableManage, PermLeaveReview,
	),
	RoleAccountant: permSet(
		PermStudentsRead,
		PermFeesRead, PermFeesWrite, PermPaymentsRecord,
	),
	RoleStaff: permSet(
		PermStudentsRead, PermAttendanceRead, PermFeesRead,
	),
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether the role carries the given permission
func (r Role) Has(p Permission) bool {
	perms, ok := rolePermissions[r]
	if !ok {
		return false
	}
	_, ok = perms[p]
	return ok
}

// Permissions returns the role's permission set as a slice
func (r Role) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, 0, len(perms))
	for p := range perms {
		out = append(out, p)
	}
	return out
}
