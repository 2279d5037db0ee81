package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Job statuses.
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

// JobPosting is owned by the posting user; CompanyID is copied from the poster at creation.
type JobPosting struct {
	ID          string
	Title       string
	Description string
	Location    string
	JobType     string // full-time, part-time, contract, internship
	SalaryMin   decimal.Decimal
	SalaryMax   decimal.Decimal
	Currency    string
	Skills      []string
	Status      string
	PostedBy    string
	CompanyID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
