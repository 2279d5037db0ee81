package entity

import (
	"time"

	"github.com/jhoicas/talent-api/internal/domain/rbac"
)

// User is a portal account. CompanyID, ManagerID and TeamID are empty when unset.
type User struct {
	ID            string
	Email         string
	PasswordHash  string // bcrypt hash, never plaintext after persistence
	Name          string
	Role          rbac.Role
	CompanyID     string
	ManagerID     string
	TeamID        string
	IsActive      bool
	DeactivatedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasCompany reports whether the user is affiliated with a tenant.
func (u *User) HasCompany() bool { return u.CompanyID != "" }

// Deactivate soft-deletes the user; history keeps referencing the row.
func (u *User) Deactivate(at time.Time) {
	u.IsActive = false
	u.DeactivatedAt = &at
	u.UpdatedAt = at
}
