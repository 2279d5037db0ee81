package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

var allocationColumns = []string{
	"id::text", "company_id::text", "created_by::text", "job_title", "description", "location", "skills",
	"budget_min", "budget_max", "currency", "priority", "deadline", "status", "created_at", "updated_at",
}

// AllocationRepo implements AllocationRepository on PostgreSQL.
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository builds the allocation adapter.
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

// Create inserts an allocation.
func (r *AllocationRepo) Create(ctx context.Context, a *entity.ProfileAllocation) error {
	_, err := execStmt(ctx, r.q, psql.Insert("profile_allocations").
		Columns("id", "company_id", "created_by", "job_title", "description", "location", "skills",
			"budget_min", "budget_max", "currency", "priority", "deadline", "status", "created_at", "updated_at").
		Values(a.ID, a.CompanyID, a.CreatedBy, a.JobTitle, a.Description, a.Location, skillsOrEmpty(a.Skills),
			a.BudgetMin, a.BudgetMax, a.Currency, a.Priority, a.Deadline, a.Status, a.CreatedAt, a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

// GetByID returns the allocation or (nil, nil).
func (r *AllocationRepo) GetByID(ctx context.Context, id string) (*entity.ProfileAllocation, error) {
	a, err := scanAllocation(queryRow(ctx, r.q, psql.Select(allocationColumns...).From("profile_allocations").Where(sq.Eq{"id": id})))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	return a, nil
}

// ListByCompany returns a company's allocations, most urgent deadline first.
func (r *AllocationRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.ProfileAllocation, error) {
	b := psql.Select(allocationColumns...).From("profile_allocations").
		Where(sq.Eq{"company_id": companyID}).
		OrderBy("deadline ASC NULLS LAST", "created_at DESC")
	rows, err := queryRows(ctx, r.q, page(b, limit, offset))
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()
	var out []*entity.ProfileAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAllocation(row pgx.Row) (*entity.ProfileAllocation, error) {
	var a entity.ProfileAllocation
	err := row.Scan(&a.ID, &a.CompanyID, &a.CreatedBy, &a.JobTitle, &a.Description, &a.Location, &a.Skills,
		&a.BudgetMin, &a.BudgetMax, &a.Currency, &a.Priority, &a.Deadline, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
