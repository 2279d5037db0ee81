package entity

import "time"

// Candidate is a talent profile, usually built from a parsed resume.
type Candidate struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Skills     []string
	Education  string
	Experience string
	Location   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Submission statuses of a RecruiterCandidate.
const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// RecruiterCandidate links a candidate to the user who submitted it.
// CompanyID is the submitter's company at submission time.
type RecruiterCandidate struct {
	ID                  string
	CandidateID         string
	RecruiterID         string
	CompanyID           string
	ProfileAllocationID string
	Status              string
	Feedback            string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CandidateSubmission joins the association with its candidate for listings.
type CandidateSubmission struct {
	RecruiterCandidate
	Candidate Candidate
}
