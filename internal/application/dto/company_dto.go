package dto

import "time"

// CompanyRequest create or update a company.
type CompanyRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Industry    string `json:"industry" validate:"omitempty,max=120"`
	Website     string `json:"website" validate:"omitempty,url"`
	Description string `json:"description" validate:"omitempty,max=4000"`
}

// CompanyResponse a company.
type CompanyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry,omitempty"`
	Website     string    `json:"website,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TeamRequest create or update a team.
type TeamRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	ManagerID   string `json:"managerId" validate:"omitempty,uuid"`
}

// TeamMemberRequest adds a user to a team.
type TeamMemberRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// TeamResponse a team and its members.
type TeamResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	ManagerID   string         `json:"managerId,omitempty"`
	Members     []UserResponse `json:"members"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// CompanyListResponse a page of companies.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
