// Package rbac holds the closed role set, the static role -> capability table
// and the authorization gate every handler consults.
package rbac

import "strings"

// Role is one of the fixed portal roles. The zero value is not a valid role.
type Role string

const (
	RoleApplicant  Role = "applicant"
	RoleRecruiter  Role = "recruiter"
	RoleEmployee   Role = "employee"
	RoleManager    Role = "manager"
	RoleEmployer   Role = "employer"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
	// RoleSuperAdmin is the legacy spelling still present on older accounts.
	RoleSuperAdmin Role = "super_admin"
)

// AllRoles lists every valid role, least privileged first.
func AllRoles() []Role {
	return []Role{
		RoleApplicant,
		RoleRecruiter,
		RoleEmployee,
		RoleManager,
		RoleEmployer,
		RoleAdmin,
		RoleSuperadmin,
		RoleSuperAdmin,
	}
}

// ParseRole accepts a role string case-insensitively. Unknown values return false.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleCapabilities[r]; ok {
		return r, true
	}
	return "", false
}

// Valid reports whether r belongs to the role set.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// IsAdmin reports the unconditional administrative roles.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperadmin || r == RoleSuperAdmin
}

// IsCompanyScoped reports roles expected to carry a company.
func (r Role) IsCompanyScoped() bool {
	return r == RoleEmployee || r == RoleManager || r == RoleEmployer
}

func (r Role) String() string { return string(r) }
