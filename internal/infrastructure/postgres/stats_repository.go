package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

var _ repository.StatsRepository = (*StatsRepo)(nil)

// StatsRepo aggregates the admin dashboard counters in one round trip.
type StatsRepo struct {
	q Querier
}

// NewStatsRepository builds the adapter.
func NewStatsRepository(q Querier) *StatsRepo {
	return &StatsRepo{q: q}
}

const adminStatsSQL = `
SELECT
	(SELECT count(*) FROM users),
	(SELECT count(*) FROM companies),
	(SELECT count(*) FROM jobs WHERE status = 'open'),
	(SELECT count(*) FROM employer_applications WHERE status = 'pending'),
	(SELECT count(*) FROM user_creation_requests WHERE status = 'pending'),
	(SELECT count(*) FROM employee_deletion_requests WHERE status = 'pending'),
	(SELECT count(*) FROM deletion_audits)`

// AdminStats returns platform-wide counters. UsersByRole is left to the user
// repository.
func (r *StatsRepo) AdminStats(ctx context.Context) (*entity.AdminStats, error) {
	var s entity.AdminStats
	err := r.q.QueryRow(ctx, adminStatsSQL).Scan(
		&s.TotalUsers, &s.Companies, &s.OpenJobs,
		&s.Pending.EmployerApplications, &s.Pending.UserCreation, &s.Pending.EmployeeDeletion,
		&s.Deletions,
	)
	if err != nil {
		return nil, fmt.Errorf("admin stats: %w", err)
	}
	return &s, nil
}
