package entity

import "time"

// Company is the tenant boundary.
type Company struct {
	ID          string
	Name        string
	Industry    string
	Website     string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Team groups users of one company under a manager.
type Team struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	ManagerID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
