package repository

import (
	"context"
	"time"

	"github.com/jhoicas/talent-api/internal/domain/cascade"
	"github.com/jhoicas/talent-api/internal/domain/entity"
)

// RoleChangeRepository is the append-only role transition log.
type RoleChangeRepository interface {
	Insert(ctx context.Context, rc *entity.RoleChange) error
	ExistsSince(ctx context.Context, userID string, since time.Time) (bool, error)
	Latest(ctx context.Context, userID string) (*entity.RoleChange, error)
}

// DeletionAuditRepository stores the trace of completed cascades.
type DeletionAuditRepository interface {
	Save(ctx context.Context, a *entity.DeletionAudit) error
	GetByID(ctx context.Context, id string) (*entity.DeletionAudit, error)
	List(ctx context.Context, limit, offset int) ([]*entity.DeletionAudit, error)
}

// CascadeStore is the transaction-bound view the deletion orchestrator works on.
// Every call shares one transaction; nothing is visible outside until commit.
type CascadeStore interface {
	GetUser(ctx context.Context, id string) (*entity.User, error)
	GetCompany(ctx context.Context, id string) (*entity.Company, error)
	FirstEmployer(ctx context.Context, companyID string) (*entity.User, error)
	CompanyUserIDs(ctx context.Context, companyID string) ([]string, error)
	// LockCompany serializes concurrent cascades over the same tenant until commit.
	LockCompany(ctx context.Context, companyID string) error
	Apply(ctx context.Context, step cascade.Step) (int64, error)
	SaveAudit(ctx context.Context, a *entity.DeletionAudit) error
}
