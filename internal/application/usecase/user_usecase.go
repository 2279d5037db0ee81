package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/talent-api/internal/application/auth"
	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
	"github.com/jhoicas/talent-api/pkg/logger"
)

// UserUseCase covers admin user management and the employer's view of its staff.
// Every role mutation is followed by a role-change record.
type UserUseCase struct {
	guard   *Guard
	repo    repository.UserRepository
	tracker RoleRecorder
	log     *logger.Logger
}

// NewUserUseCase builds the use case.
func NewUserUseCase(guard *Guard, repo repository.UserRepository, tracker RoleRecorder, log *logger.Logger) *UserUseCase {
	return &UserUseCase{guard: guard, repo: repo, tracker: tracker, log: log.Named("users")}
}

// List returns users for admins, optionally by role or company.
func (uc *UserUseCase) List(ctx context.Context, actor *rbac.Identity, q dto.UserListQuery) ([]dto.UserResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapAssignRoles); err != nil {
		return nil, err
	}
	q.DefaultPage()
	f := repository.UserFilter{CompanyID: q.CompanyID, Limit: q.Limit, Offset: q.Offset}
	if q.Role != "" {
		role, ok := rbac.ParseRole(q.Role)
		if !ok {
			return nil, domain.Validationf("unknown role %q", q.Role)
		}
		f.Role = role
	}
	return uc.list(ctx, f)
}

// AssignRole sets any role on another user (admin).
func (uc *UserUseCase) AssignRole(ctx context.Context, actor *rbac.Identity, userID, roleName string) (*dto.UserResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapAssignRoles); err != nil {
		return nil, err
	}
	role, ok := rbac.ParseRole(roleName)
	if !ok {
		return nil, domain.Validationf("unknown role %q", roleName)
	}
	if userID == actor.UserID {
		return nil, fmt.Errorf("admins cannot change their own role: %w", domain.ErrInvalidTarget)
	}
	target, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.NotFoundf("user %s", userID)
	}
	if role.IsCompanyScoped() && !target.HasCompany() {
		uc.log.Warn().Str("user_id", userID).Str("role", role.String()).Msg("company role assigned to user without company")
	}
	return uc.setRole(ctx, actor, target, role)
}

// Employees lists the active employees and managers of the caller's company.
func (uc *UserUseCase) Employees(ctx context.Context, actor *rbac.Identity, page dto.PageRequest) ([]dto.UserResponse, error) {
	return uc.staff(ctx, actor, page, true)
}

// PastEmployees lists deactivated staff of the caller's company.
func (uc *UserUseCase) PastEmployees(ctx context.Context, actor *rbac.Identity, page dto.PageRequest) ([]dto.UserResponse, error) {
	return uc.staff(ctx, actor, page, false)
}

func (uc *UserUseCase) staff(ctx context.Context, actor *rbac.Identity, page dto.PageRequest, active bool) ([]dto.UserResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapChangeCompanyRoles); err != nil {
		return nil, err
	}
	fresh, err := uc.guard.CompanyOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	page.DefaultPage()
	return uc.list(ctx, repository.UserFilter{
		CompanyID: fresh.CompanyID,
		Roles:     []rbac.Role{rbac.RoleEmployee, rbac.RoleManager},
		Active:    &active,
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
}

// ChangeCompanyRole moves a colleague between employee and manager.
func (uc *UserUseCase) ChangeCompanyRole(ctx context.Context, actor *rbac.Identity, userID, roleName string) (*dto.UserResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapChangeCompanyRoles); err != nil {
		return nil, err
	}
	role, ok := rbac.ParseRole(roleName)
	if !ok || (role != rbac.RoleEmployee && role != rbac.RoleManager) {
		return nil, domain.Validationf("role must be employee or manager")
	}
	fresh, err := uc.guard.CompanyOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	target, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var owner *rbac.Owner
	if target != nil {
		owner = &rbac.Owner{CompanyID: target.CompanyID}
	}
	if err := uc.guard.AllowResource(fresh, rbac.CapChangeCompanyRoles, owner); err != nil {
		return nil, err
	}
	if target.Role != rbac.RoleEmployee && target.Role != rbac.RoleManager {
		return nil, fmt.Errorf("user %s is %s: %w", userID, target.Role, domain.ErrInvalidTarget)
	}
	if !target.IsActive {
		return nil, fmt.Errorf("user %s is deactivated: %w", userID, domain.ErrConflict)
	}
	return uc.setRole(ctx, actor, target, role)
}

func (uc *UserUseCase) setRole(ctx context.Context, actor *rbac.Identity, target *entity.User, role rbac.Role) (*dto.UserResponse, error) {
	if target.Role == role {
		return auth.ToUserResponse(target), nil
	}
	previous := target.Role
	if err := uc.repo.UpdateRole(ctx, target.ID, role); err != nil {
		return nil, err
	}
	target.Role = role
	target.UpdatedAt = time.Now().UTC()
	uc.log.Info().
		Str("user_id", target.ID).
		Str("from", previous.String()).
		Str("to", role.String()).
		Str("changed_by", actor.UserID).
		Msg("role changed")
	uc.tracker.Record(ctx, target.ID, role)
	return auth.ToUserResponse(target), nil
}

func (uc *UserUseCase) list(ctx context.Context, f repository.UserFilter) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}
