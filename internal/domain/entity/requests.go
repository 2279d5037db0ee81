package entity

import (
	"time"

	"github.com/jhoicas/talent-api/internal/domain/rbac"
)

// EmployerApplication asks for a recruiter to be promoted to employer.
type EmployerApplication struct {
	ID          string
	RecruiterID string
	CompanyName string
	Reason      string
	Status      RequestStatus
	AdminNotes  string
	ReviewedBy  string
	ReviewedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserCreationRequest asks an admin to provision a manager or employee account
// inside the requesting employer's company.
type UserCreationRequest struct {
	ID              string
	CompanyID       string
	RequestedBy     string
	Name            string
	Email           string
	Role            rbac.Role
	ManagerID       string
	Status          RequestStatus
	RejectionReason string
	CreatedUserID   string
	ReviewedBy      string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EmployeeDeletionRequest asks an admin to deactivate a company employee.
type EmployeeDeletionRequest struct {
	ID          string
	CompanyID   string
	RequestedBy string
	EmployeeID  string
	Reason      string
	Status      RequestStatus
	AdminNotes  string
	ReviewedBy  string
	ReviewedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IssuedCredential is the generated password of an approved user-creation request,
// kept until an admin reveals it once.
type IssuedCredential struct {
	RequestID string
	UserID    string
	Password  string
	CreatedAt time.Time
}
