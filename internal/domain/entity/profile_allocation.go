package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfileAllocation is an internal hiring brief that employees fill with candidates.
type ProfileAllocation struct {
	ID          string
	CompanyID   string
	CreatedBy   string
	JobTitle    string
	Description string
	Location    string
	Skills      []string
	BudgetMin   decimal.Decimal
	BudgetMax   decimal.Decimal
	Currency    string
	Priority    string // low, medium, high
	Deadline    *time.Time
	Status      string // active, closed
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
