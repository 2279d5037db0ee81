package dto

import "time"

// ReviewRequest admin decision on a pending request.
type ReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Notes  string `json:"notes" validate:"omitempty,max=2000"`
}

// IDReviewRequest review body carrying the request id, as the admin queues submit it.
type IDReviewRequest struct {
	ID string `json:"id" validate:"required,uuid"`
	ReviewRequest
}

// EmployerAccessRequest recruiter application for employer access.
type EmployerAccessRequest struct {
	CompanyName string `json:"companyName" validate:"required,min=1,max=200"`
	Reason      string `json:"reason" validate:"omitempty,max=4000"`
}

// EmployerApplicationResponse an application with its requester.
type EmployerApplicationResponse struct {
	ID             string     `json:"id"`
	RecruiterID    string     `json:"recruiterId"`
	RecruiterName  string     `json:"recruiterName,omitempty"`
	RecruiterEmail string     `json:"recruiterEmail,omitempty"`
	CompanyName    string     `json:"companyName"`
	Reason         string     `json:"reason,omitempty"`
	Status         string     `json:"status"`
	AdminNotes     string     `json:"adminNotes,omitempty"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// UserCreationInput employer request to provision an account.
type UserCreationInput struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role" validate:"required,oneof=manager employee"`
	ManagerID string `json:"managerId" validate:"omitempty,uuid"`
}

// UserCreationResponse a user-creation request.
type UserCreationResponse struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"companyId"`
	RequestedBy     string     `json:"requestedBy"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	ManagerID       string     `json:"managerId,omitempty"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	CreatedUserID   string     `json:"createdUserId,omitempty"`
	CredentialReady bool       `json:"credentialReady,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// CredentialResponse the one-time reveal of a generated password.
type CredentialResponse struct {
	RequestID string `json:"requestId"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// EmployeeDeletionInput employer request to deactivate an employee.
type EmployeeDeletionInput struct {
	EmployeeID string `json:"employeeId" validate:"required,uuid"`
	Reason     string `json:"reason" validate:"required,min=1,max=2000"`
}

// EmployeeDeletionResponse an employee deletion request.
type EmployeeDeletionResponse struct {
	ID            string     `json:"id"`
	CompanyID     string     `json:"companyId"`
	RequestedBy   string     `json:"requestedBy"`
	EmployeeID    string     `json:"employeeId"`
	EmployeeName  string     `json:"employeeName,omitempty"`
	EmployeeEmail string     `json:"employeeEmail,omitempty"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	AdminNotes    string     `json:"adminNotes,omitempty"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// RequestListQuery filters for request queues.
type RequestListQuery struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
}
