package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobRequest create or update a job posting.
type JobRequest struct {
	Title       string          `json:"title" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"required,min=1"`
	Location    string          `json:"location" validate:"omitempty,max=200"`
	JobType     string          `json:"jobType" validate:"omitempty,oneof=full-time part-time contract internship"`
	SalaryMin   decimal.Decimal `json:"salaryMin"`
	SalaryMax   decimal.Decimal `json:"salaryMax"`
	Currency    string          `json:"currency" validate:"omitempty,len=3"`
	Skills      []string        `json:"skills" validate:"omitempty,max=50,dive,min=1,max=60"`
	Status      string          `json:"status" validate:"omitempty,oneof=open closed draft"`
}

// JobResponse a job posting.
type JobResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    string          `json:"location,omitempty"`
	JobType     string          `json:"jobType"`
	SalaryMin   decimal.Decimal `json:"salaryMin"`
	SalaryMax   decimal.Decimal `json:"salaryMax"`
	Currency    string          `json:"currency"`
	Skills      []string        `json:"skills"`
	Status      string          `json:"status"`
	PostedBy    string          `json:"postedBy"`
	CompanyID   string          `json:"companyId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// JobListQuery job listing filters.
type JobListQuery struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=open closed draft"`
	Search string `query:"q" validate:"omitempty,max=100"`
	Mine   bool   `query:"mine"`
}

// JobListResponse a page of jobs.
type JobListResponse struct {
	Items []JobResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// ImportRowError a spreadsheet row that could not be imported. Row is 1-based
// as shown by spreadsheet tools.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// JobImportResult outcome of a bulk import.
type JobImportResult struct {
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// SubmitCandidateRequest adds a candidate and links it to the submitter.
type SubmitCandidateRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	Email        string   `json:"email" validate:"required,email"`
	Phone        string   `json:"phone" validate:"omitempty,max=40"`
	Skills       []string `json:"skills" validate:"omitempty,max=100,dive,min=1,max=60"`
	Education    string   `json:"education" validate:"omitempty,max=4000"`
	Experience   string   `json:"experience" validate:"omitempty,max=8000"`
	Location     string   `json:"location" validate:"omitempty,max=200"`
	AllocationID string   `json:"allocationId" validate:"omitempty,uuid"`
}

// SubmissionResponse a candidate as submitted by one user.
type SubmissionResponse struct {
	ID           string    `json:"id"`
	CandidateID  string    `json:"candidateId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Skills       []string  `json:"skills"`
	Education    string    `json:"education,omitempty"`
	Experience   string    `json:"experience,omitempty"`
	Location     string    `json:"location,omitempty"`
	RecruiterID  string    `json:"recruiterId"`
	CompanyID    string    `json:"companyId,omitempty"`
	AllocationID string    `json:"allocationId,omitempty"`
	Status       string    `json:"status"`
	Feedback     string    `json:"feedback,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SubmissionStatusRequest review of a submitted candidate.
type SubmissionStatusRequest struct {
	Status   string `json:"status" validate:"required"`
	Feedback string `json:"feedback" validate:"omitempty,max=4000"`
}

// AllocationRequest creates a profile allocation.
type AllocationRequest struct {
	JobTitle    string          `json:"jobTitle" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"required,min=1"`
	Location    string          `json:"location" validate:"omitempty,max=200"`
	Skills      []string        `json:"skills" validate:"omitempty,max=50,dive,min=1,max=60"`
	BudgetMin   decimal.Decimal `json:"budgetMin"`
	BudgetMax   decimal.Decimal `json:"budgetMax"`
	Currency    string          `json:"currency" validate:"omitempty,len=3"`
	Priority    string          `json:"priority" validate:"omitempty,oneof=low medium high"`
	Deadline    *time.Time      `json:"deadline"`
}

// AllocationResponse a profile allocation.
type AllocationResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"companyId"`
	CreatedBy   string          `json:"createdBy"`
	JobTitle    string          `json:"jobTitle"`
	Description string          `json:"description"`
	Location    string          `json:"location,omitempty"`
	Skills      []string        `json:"skills"`
	BudgetMin   decimal.Decimal `json:"budgetMin"`
	BudgetMax   decimal.Decimal `json:"budgetMax"`
	Currency    string          `json:"currency"`
	Priority    string          `json:"priority"`
	Deadline    *time.Time      `json:"deadline,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// AllocationCandidatesResponse is always served with 200. On a denied or
// missing allocation Candidates is empty and Error carries the stable code.
type AllocationCandidatesResponse struct {
	Candidates []SubmissionResponse `json:"candidates"`
	Error      string               `json:"error,omitempty"`
	Message    string               `json:"message,omitempty"`
}

// ReportRequest sends a report to a colleague.
type ReportRequest struct {
	RecipientID string `json:"recipientId" validate:"required,uuid"`
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Content     string `json:"content" validate:"required,min=1,max=20000"`
}

// ReportResponse a report.
type ReportResponse struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"authorId"`
	RecipientID string    `json:"recipientId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReportListQuery box=inbox|outbox.
type ReportListQuery struct {
	PageRequest
	Box string `query:"box" validate:"omitempty,oneof=inbox outbox"`
}

// UnreadCountResponse unread report counter.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// SubmissionListQuery candidate listing filters. Mine restricts the listing to
// the caller's own submissions.
type SubmissionListQuery struct {
	PageRequest
	Status       string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
	AllocationID string `query:"allocationId" validate:"omitempty,uuid"`
	Mine         bool   `query:"mine"`
}

// AllocationListQuery allocation listing. CompanyID is honoured for admins only.
type AllocationListQuery struct {
	PageRequest
	CompanyID string `query:"companyId" validate:"omitempty,uuid"`
}

// JobImportRow one spreadsheet row decoded into a job request.
type JobImportRow struct {
	Row   int
	Job   JobRequest
	Error string
}

// JobApplyRequest an applicant's application. Name and email come from the account.
type JobApplyRequest struct {
	JobID       string `json:"jobId" validate:"required,uuid"`
	Phone       string `json:"phone" validate:"omitempty,max=40"`
	ResumeURL   string `json:"resumeUrl" validate:"omitempty,url,max=500"`
	CoverLetter string `json:"coverLetter" validate:"omitempty,max=8000"`
}

// JobApplicationStatusRequest the job owner's review of an application.
type JobApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed interviewed offered rejected"`
}

// JobApplicationListQuery filters a job's applications.
type JobApplicationListQuery struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=pending reviewed interviewed offered rejected"`
}

// JobApplicationResponse an application with the job it targets.
type JobApplicationResponse struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	JobTitle    string    `json:"jobTitle,omitempty"`
	JobLocation string    `json:"jobLocation,omitempty"`
	ApplicantID string    `json:"applicantId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	ResumeURL   string    `json:"resumeUrl,omitempty"`
	CoverLetter string    `json:"coverLetter,omitempty"`
	Status      string    `json:"status"`
	AppliedAt   time.Time `json:"appliedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
