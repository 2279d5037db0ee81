package dto

import "time"

// RegisterRequest self sign-up. Only applicant and recruiter can be self-assigned.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=applicant recruiter"`
}

// LoginRequest credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse a user without its password hash.
type UserResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	CompanyID     string     `json:"companyId,omitempty"`
	ManagerID     string     `json:"managerId,omitempty"`
	TeamID        string     `json:"teamId,omitempty"`
	IsActive      bool       `json:"isActive"`
	DeactivatedAt *time.Time `json:"deactivatedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// LoginResponse token plus user. The token is also set as an HTTP-only cookie.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// SessionResponse the verified caller and what it may do.
type SessionResponse struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CompanyID    string    `json:"companyId,omitempty"`
	IssuedAt     time.Time `json:"issuedAt"`
	Capabilities []string  `json:"capabilities"`
}

// CheckRoleResponse answers the session poll. When HasRoleChanged is true the
// client must sign out and authenticate again.
type CheckRoleResponse struct {
	HasRoleChanged bool       `json:"hasRoleChanged"`
	DatabaseRole   string     `json:"databaseRole"`
	SessionRole    string     `json:"sessionRole"`
	LastRoleChange *time.Time `json:"lastRoleChange,omitempty"`
}

// AssignRoleRequest admin role assignment.
type AssignRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// CompanyRoleRequest employer in-company role change.
type CompanyRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=employee manager"`
}

// UserListQuery admin user listing filters.
type UserListQuery struct {
	PageRequest
	Role      string `query:"role"`
	CompanyID string `query:"companyId" validate:"omitempty,uuid"`
}

// UpdateProfileRequest self-service profile edit. CurrentPassword is required
// when NewPassword is set.
type UpdateProfileRequest struct {
	Name            string `json:"name" validate:"omitempty,max=200"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"omitempty,min=8,max=72"`
}
