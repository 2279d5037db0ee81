package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/talent-api/internal/application/auth"
	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

// TeamUseCase groups a company's staff into teams.
type TeamUseCase struct {
	guard *Guard
	teams repository.TeamRepository
	users repository.UserRepository
}

// NewTeamUseCase builds the use case.
func NewTeamUseCase(guard *Guard, teams repository.TeamRepository, users repository.UserRepository) *TeamUseCase {
	return &TeamUseCase{guard: guard, teams: teams, users: users}
}

// Create adds a team to the caller's company.
func (uc *TeamUseCase) Create(ctx context.Context, actor *rbac.Identity, in dto.TeamRequest) (*dto.TeamResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapManageTeams); err != nil {
		return nil, err
	}
	fresh, err := uc.guard.CompanyOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := uc.checkManager(ctx, fresh.CompanyID, in.ManagerID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	team := &entity.Team{
		ID:          uuid.New().String(),
		CompanyID:   fresh.CompanyID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ManagerID:   in.ManagerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.teams.Create(ctx, team); err != nil {
		return nil, err
	}
	if team.ManagerID != "" {
		if err := uc.users.SetTeam(ctx, team.ManagerID, team.ID); err != nil {
			return nil, err
		}
	}
	return toTeamResponse(team, nil), nil
}

// List returns the caller company's teams with their active members.
func (uc *TeamUseCase) List(ctx context.Context, actor *rbac.Identity) ([]dto.TeamResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapManageTeams); err != nil {
		return nil, err
	}
	fresh, err := uc.guard.CompanyOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	teams, err := uc.teams.ListByCompany(ctx, fresh.CompanyID)
	if err != nil {
		return nil, err
	}
	active := true
	staff, err := uc.users.List(ctx, repository.UserFilter{CompanyID: fresh.CompanyID, Active: &active})
	if err != nil {
		return nil, err
	}
	byTeam := map[string][]*entity.User{}
	for _, u := range staff {
		if u.TeamID != "" {
			byTeam[u.TeamID] = append(byTeam[u.TeamID], u)
		}
	}
	out := make([]dto.TeamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, *toTeamResponse(t, byTeam[t.ID]))
	}
	return out, nil
}

// Update renames a team or changes its manager.
func (uc *TeamUseCase) Update(ctx context.Context, actor *rbac.Identity, id string, in dto.TeamRequest) (*dto.TeamResponse, error) {
	_, team, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.checkManager(ctx, team.CompanyID, in.ManagerID); err != nil {
		return nil, err
	}
	team.Name = strings.TrimSpace(in.Name)
	team.Description = in.Description
	team.ManagerID = in.ManagerID
	team.UpdatedAt = time.Now().UTC()
	if err := uc.teams.Update(ctx, team); err != nil {
		return nil, err
	}
	return toTeamResponse(team, nil), nil
}

// Delete removes a team; members keep their accounts and lose the team.
func (uc *TeamUseCase) Delete(ctx context.Context, actor *rbac.Identity, id string) error {
	if _, _, err := uc.load(ctx, actor, id); err != nil {
		return err
	}
	return uc.teams.Delete(ctx, id)
}

// AddMember moves a colleague into the team.
func (uc *TeamUseCase) AddMember(ctx context.Context, actor *rbac.Identity, teamID, userID string) error {
	fresh, team, err := uc.load(ctx, actor, teamID)
	if err != nil {
		return err
	}
	member, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	var owner *rbac.Owner
	if member != nil {
		owner = &rbac.Owner{CompanyID: member.CompanyID}
	}
	if err := uc.guard.AllowResource(fresh, rbac.CapManageTeams, owner); err != nil {
		return err
	}
	if member.CompanyID != team.CompanyID {
		return fmt.Errorf("user %s is not in the team's company: %w", userID, domain.ErrTenantMismatch)
	}
	if !member.IsActive {
		return fmt.Errorf("user %s is deactivated: %w", userID, domain.ErrConflict)
	}
	return uc.users.SetTeam(ctx, userID, teamID)
}

// RemoveMember detaches a colleague from the team.
func (uc *TeamUseCase) RemoveMember(ctx context.Context, actor *rbac.Identity, teamID, userID string) error {
	if _, _, err := uc.load(ctx, actor, teamID); err != nil {
		return err
	}
	member, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if member == nil || member.TeamID != teamID {
		return domain.NotFoundf("user %s in team %s", userID, teamID)
	}
	return uc.users.SetTeam(ctx, userID, "")
}

func (uc *TeamUseCase) load(ctx context.Context, actor *rbac.Identity, id string) (*rbac.Identity, *entity.Team, error) {
	if err := uc.guard.Allow(actor, rbac.CapManageTeams); err != nil {
		return nil, nil, err
	}
	fresh, _, err := uc.guard.Current(ctx, actor)
	if err != nil {
		return nil, nil, err
	}
	team, err := uc.teams.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	var owner *rbac.Owner
	if team != nil {
		owner = &rbac.Owner{CompanyID: team.CompanyID}
	}
	if err := uc.guard.AllowResource(fresh, rbac.CapManageTeams, owner); err != nil {
		return nil, nil, err
	}
	return fresh, team, nil
}

func (uc *TeamUseCase) checkManager(ctx context.Context, companyID, managerID string) error {
	if managerID == "" {
		return nil
	}
	m, err := uc.users.GetByID(ctx, managerID)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.NotFoundf("manager %s", managerID)
	}
	if m.CompanyID != companyID {
		return fmt.Errorf("manager belongs to another company: %w", domain.ErrTenantMismatch)
	}
	if m.Role != rbac.RoleManager {
		return domain.Validationf("user %s is not a manager", managerID)
	}
	return nil
}

func toTeamResponse(t *entity.Team, members []*entity.User) *dto.TeamResponse {
	out := &dto.TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		ManagerID:   t.ManagerID,
		Members:     make([]dto.UserResponse, 0, len(members)),
		CreatedAt:   t.CreatedAt,
	}
	for _, m := range members {
		out.Members = append(out.Members, *auth.ToUserResponse(m))
	}
	return out
}
