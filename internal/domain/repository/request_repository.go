package repository

import (
	"context"

	"github.com/jhoicas/talent-api/internal/domain/entity"
)

// RequestFilter narrows request listings. Zero values are ignored.
type RequestFilter struct {
	CompanyID string
	Status    entity.RequestStatus
	Limit     int
	Offset    int
}

// EmployerApplicationRepository is the persistence port for EmployerApplication.
type EmployerApplicationRepository interface {
	Create(ctx context.Context, app *entity.EmployerApplication) error
	GetByID(ctx context.Context, id string) (*entity.EmployerApplication, error)
	// LatestByRecruiter returns the most recent application of a recruiter.
	LatestByRecruiter(ctx context.Context, recruiterID string) (*entity.EmployerApplication, error)
	List(ctx context.Context, f RequestFilter) ([]*entity.EmployerApplication, error)
	Update(ctx context.Context, app *entity.EmployerApplication) error
}

// UserCreationRequestRepository is the persistence port for UserCreationRequest.
type UserCreationRequestRepository interface {
	Create(ctx context.Context, req *entity.UserCreationRequest) error
	GetByID(ctx context.Context, id string) (*entity.UserCreationRequest, error)
	List(ctx context.Context, f RequestFilter) ([]*entity.UserCreationRequest, error)
	Update(ctx context.Context, req *entity.UserCreationRequest) error
}

// EmployeeDeletionRequestRepository is the persistence port for EmployeeDeletionRequest.
type EmployeeDeletionRequestRepository interface {
	Create(ctx context.Context, req *entity.EmployeeDeletionRequest) error
	GetByID(ctx context.Context, id string) (*entity.EmployeeDeletionRequest, error)
	PendingForEmployee(ctx context.Context, employeeID string) (*entity.EmployeeDeletionRequest, error)
	List(ctx context.Context, f RequestFilter) ([]*entity.EmployeeDeletionRequest, error)
	Update(ctx context.Context, req *entity.EmployeeDeletionRequest) error
}

// CredentialRepository is the durable store of generated passwords awaiting reveal.
type CredentialRepository interface {
	Save(ctx context.Context, c *entity.IssuedCredential) error
	// Take returns the credential and removes it in one statement, so only one
	// caller ever receives it. Returns (nil, nil) once taken.
	Take(ctx context.Context, requestID string) (*entity.IssuedCredential, error)
}

// StatsRepository aggregates counts for the admin dashboard.
type StatsRepository interface {
	AdminStats(ctx context.Context) (*entity.AdminStats, error)
}
