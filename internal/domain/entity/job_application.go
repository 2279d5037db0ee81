package entity

import "time"

// Job application statuses. Withdrawal removes the row instead of setting a status.
const (
	JobApplicationPending     = "pending"
	JobApplicationReviewed    = "reviewed"
	JobApplicationInterviewed = "interviewed"
	JobApplicationOffered     = "offered"
	JobApplicationRejected    = "rejected"
)

// JobApplicationStatuses lists the statuses in pipeline order.
var JobApplicationStatuses = []string{
	JobApplicationPending,
	JobApplicationReviewed,
	JobApplicationInterviewed,
	JobApplicationOffered,
	JobApplicationRejected,
}

// JobApplication is an applicant's application to a job posting.
// JobOwnerID and CompanyID are copied from the job when the application is
// made, so tenant checks and removal never need the job row.
type JobApplication struct {
	ID          string
	JobID       string
	ApplicantID string
	JobOwnerID  string
	CompanyID   string
	Name        string
	Email       string
	Phone       string
	ResumeURL   string
	CoverLetter string
	Status      string
	AppliedAt   time.Time
	UpdatedAt   time.Time
}

// Final reports whether the application reached an outcome.
func (a *JobApplication) Final() bool {
	return a.Status == JobApplicationOffered || a.Status == JobApplicationRejected
}

// JobApplicationView joins an application with the job it targets.
type JobApplicationView struct {
	JobApplication
	JobTitle    string
	JobLocation string
}

// ValidJobApplicationStatus reports whether s is a known status.
func ValidJobApplicationStatus(s string) bool {
	for _, v := range JobApplicationStatuses {
		if v == s {
			return true
		}
	}
	return false
}
