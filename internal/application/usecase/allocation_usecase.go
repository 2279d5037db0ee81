package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

const (
	allocationActive = "active"
	priorityMedium   = "medium"
)

// AllocationUseCase manages profile allocations, the internal hiring briefs.
type AllocationUseCase struct {
	guard       *Guard
	allocations repository.AllocationRepository
	candidates  repository.CandidateRepository
}

// NewAllocationUseCase builds the use case.
func NewAllocationUseCase(guard *Guard, allocations repository.AllocationRepository, candidates repository.CandidateRepository) *AllocationUseCase {
	return &AllocationUseCase{guard: guard, allocations: allocations, candidates: candidates}
}

// Create opens an allocation in the caller's company.
func (uc *AllocationUseCase) Create(ctx context.Context, actor *rbac.Identity, in dto.AllocationRequest) (*dto.AllocationResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapManageAllocations); err != nil {
		return nil, err
	}
	fresh, err := uc.guard.CompanyOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := checkRange(in.BudgetMin, in.BudgetMax, "budget"); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	a := &entity.ProfileAllocation{
		ID:          uuid.New().String(),
		CompanyID:   fresh.CompanyID,
		CreatedBy:   actor.UserID,
		JobTitle:    strings.TrimSpace(in.JobTitle),
		Description: in.Description,
		Location:    in.Location,
		Skills:      NormalizeSkills(in.Skills),
		BudgetMin:   in.BudgetMin,
		BudgetMax:   in.BudgetMax,
		Currency:    strings.ToUpper(orDefault(in.Currency, defaultCurrency)),
		Priority:    orDefault(in.Priority, priorityMedium),
		Deadline:    in.Deadline,
		Status:      allocationActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.allocations.Create(ctx, a); err != nil {
		return nil, err
	}
	return toAllocationResponse(a), nil
}

// List returns the allocations of the caller's company. Admins pick the
// company with CompanyID; a caller without company gets an empty list.
func (uc *AllocationUseCase) List(ctx context.Context, actor *rbac.Identity, q dto.AllocationListQuery) ([]dto.AllocationResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapViewAllocations); err != nil {
		return nil, err
	}
	q.DefaultPage()
	fresh, _, err := uc.guard.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	companyID := fresh.CompanyID
	if actor.Role.IsAdmin() && q.CompanyID != "" {
		companyID = q.CompanyID
	}
	if companyID == "" {
		return []dto.AllocationResponse{}, nil
	}
	list, err := uc.allocations.ListByCompany(ctx, companyID, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AllocationResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toAllocationResponse(a))
	}
	return out, nil
}

// Get returns one allocation of the caller's tenant.
func (uc *AllocationUseCase) Get(ctx context.Context, actor *rbac.Identity, id string) (*dto.AllocationResponse, error) {
	a, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toAllocationResponse(a), nil
}

// Candidates lists the submissions made against an allocation. Gate denials
// and a missing allocation do not fail the call: the response carries an
// empty list and the error code instead, so list views render without a
// special case. Storage failures are still returned as errors.
func (uc *AllocationUseCase) Candidates(ctx context.Context, actor *rbac.Identity, id string) (*dto.AllocationCandidatesResponse, error) {
	a, err := uc.load(ctx, actor, id)
	if err != nil {
		switch code := domain.Code(err); code {
		case domain.CodeRoleInsufficient, domain.CodeTenantMismatch, domain.CodeNotFound:
			return &dto.AllocationCandidatesResponse{
				Candidates: []dto.SubmissionResponse{},
				Error:      code,
				Message:    err.Error(),
			}, nil
		default:
			return nil, err
		}
	}
	subs, err := uc.candidates.ListSubmissions(ctx, repository.SubmissionFilter{AllocationID: a.ID})
	if err != nil {
		return nil, err
	}
	out := &dto.AllocationCandidatesResponse{Candidates: make([]dto.SubmissionResponse, 0, len(subs))}
	for _, s := range subs {
		out.Candidates = append(out.Candidates, *toSubmissionResponse(s))
	}
	return out, nil
}

func (uc *AllocationUseCase) load(ctx context.Context, actor *rbac.Identity, id string) (*entity.ProfileAllocation, error) {
	if err := uc.guard.Allow(actor, rbac.CapViewAllocations); err != nil {
		return nil, err
	}
	fresh, _, err := uc.guard.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	a, err := uc.allocations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var owner *rbac.Owner
	if a != nil {
		owner = &rbac.Owner{CompanyID: a.CompanyID, UserID: a.CreatedBy}
	}
	if err := uc.guard.AllowResource(fresh, rbac.CapViewAllocations, owner); err != nil {
		return nil, err
	}
	return a, nil
}

func toAllocationResponse(a *entity.ProfileAllocation) *dto.AllocationResponse {
	skills := a.Skills
	if skills == nil {
		skills = []string{}
	}
	return &dto.AllocationResponse{
		ID:          a.ID,
		CompanyID:   a.CompanyID,
		CreatedBy:   a.CreatedBy,
		JobTitle:    a.JobTitle,
		Description: a.Description,
		Location:    a.Location,
		Skills:      skills,
		BudgetMin:   a.BudgetMin,
		BudgetMax:   a.BudgetMax,
		Currency:    a.Currency,
		Priority:    a.Priority,
		Deadline:    a.Deadline,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
}
