package repository

import (
	"context"

	"github.com/jhoicas/talent-api/internal/domain/entity"
)

// JobFilter narrows job listings. Zero values are ignored.
type JobFilter struct {
	CompanyID string
	PostedBy  string
	Status    string
	Search    string
	Limit     int
	Offset    int
}

// JobRepository is the persistence port for JobPosting.
type JobRepository interface {
	Create(ctx context.Context, job *entity.JobPosting) error
	CreateBatch(ctx context.Context, jobs []*entity.JobPosting) error
	GetByID(ctx context.Context, id string) (*entity.JobPosting, error)
	Update(ctx context.Context, job *entity.JobPosting) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f JobFilter) ([]*entity.JobPosting, error)
	Count(ctx context.Context, f JobFilter) (int64, error)
}

// SubmissionFilter narrows candidate submission listings.
type SubmissionFilter struct {
	RecruiterID  string
	CompanyID    string
	AllocationID string
	Status       string
	Limit        int
	Offset       int
}

// CandidateRepository persists candidates and their submissions.
type CandidateRepository interface {
	Create(ctx context.Context, c *entity.Candidate) error
	GetByID(ctx context.Context, id string) (*entity.Candidate, error)
	GetByEmail(ctx context.Context, email string) (*entity.Candidate, error)
	CreateSubmission(ctx context.Context, rc *entity.RecruiterCandidate) error
	GetSubmission(ctx context.Context, id string) (*entity.RecruiterCandidate, error)
	UpdateSubmission(ctx context.Context, rc *entity.RecruiterCandidate) error
	ListSubmissions(ctx context.Context, f SubmissionFilter) ([]*entity.CandidateSubmission, error)
}

// AllocationRepository is the persistence port for ProfileAllocation.
type AllocationRepository interface {
	Create(ctx context.Context, a *entity.ProfileAllocation) error
	GetByID(ctx context.Context, id string) (*entity.ProfileAllocation, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.ProfileAllocation, error)
}

// ReportRepository is the persistence port for Report.
type ReportRepository interface {
	Create(ctx context.Context, r *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*entity.Report, error)
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*entity.Report, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

// JobApplicationFilter narrows application listings. Zero values are ignored.
type JobApplicationFilter struct {
	JobID       string
	ApplicantID string
	Status      string
	Limit       int
	Offset      int
}

// JobApplicationRepository is the persistence port for JobApplication.
// Create fails with domain.ErrConflict when the applicant already applied.
type JobApplicationRepository interface {
	Create(ctx context.Context, a *entity.JobApplication) error
	GetByID(ctx context.Context, id string) (*entity.JobApplication, error)
	List(ctx context.Context, f JobApplicationFilter) ([]*entity.JobApplicationView, error)
	UpdateStatus(ctx context.Context, a *entity.JobApplication) error
	Delete(ctx context.Context, id string) error
}
