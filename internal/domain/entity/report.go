package entity

import "time"

// Report statuses.
const (
	ReportUnread = "unread"
	ReportRead   = "read"
)

// Report is a message from one company member to another.
type Report struct {
	ID          string
	AuthorID    string
	RecipientID string
	Title       string
	Content     string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
