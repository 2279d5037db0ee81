package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

// DashboardUseCase assembles the admin dashboard counters.
type DashboardUseCase struct {
	guard *Guard
	stats repository.StatsRepository
	users repository.UserRepository
}

// NewDashboardUseCase builds the use case.
func NewDashboardUseCase(guard *Guard, stats repository.StatsRepository, users repository.UserRepository) *DashboardUseCase {
	return &DashboardUseCase{guard: guard, stats: stats, users: users}
}

// AdminStats returns platform-wide counters. The aggregate counters and the
// per-role breakdown are independent queries and run concurrently.
func (uc *DashboardUseCase) AdminStats(ctx context.Context, actor *rbac.Identity) (*dto.AdminStatsResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapViewAdminDashboard); err != nil {
		return nil, err
	}

	type statsResult struct {
		stats *entity.AdminStats
		err   error
	}
	type rolesResult struct {
		byRole map[rbac.Role]int64
		err    error
	}
	statsChan := make(chan statsResult, 1)
	rolesChan := make(chan rolesResult, 1)

	go func() {
		s, err := uc.stats.AdminStats(ctx)
		statsChan <- statsResult{s, err}
	}()
	go func() {
		m, err := uc.users.CountByRole(ctx)
		rolesChan <- rolesResult{m, err}
	}()

	sRes := <-statsChan
	rRes := <-rolesChan
	if sRes.err != nil {
		return nil, fmt.Errorf("dashboard counters: %w", sRes.err)
	}
	if rRes.err != nil {
		return nil, fmt.Errorf("users by role: %w", rRes.err)
	}

	s := sRes.stats
	out := &dto.AdminStatsResponse{
		UsersByRole:      make(map[string]int64, len(rRes.byRole)),
		Companies:        s.Companies,
		OpenJobs:         s.OpenJobs,
		CompletedDeletes: s.Deletions,
		PendingRequests: dto.PendingResponse{
			EmployerApplications: s.Pending.EmployerApplications,
			UserCreation:         s.Pending.UserCreation,
			EmployeeDeletion:     s.Pending.EmployeeDeletion,
		},
	}
	for role, n := range rRes.byRole {
		out.UsersByRole[role.String()] = n
		out.TotalUsers += n
	}
	return out, nil
}
