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

// CandidateUseCase handles candidate submissions and their review.
type CandidateUseCase struct {
	guard       *Guard
	candidates  repository.CandidateRepository
	allocations repository.AllocationRepository
}

// NewCandidateUseCase builds the use case.
func NewCandidateUseCase(guard *Guard, candidates repository.CandidateRepository, allocations repository.AllocationRepository) *CandidateUseCase {
	return &CandidateUseCase{guard: guard, candidates: candidates, allocations: allocations}
}

// Submit records a candidate and links it to the caller. A candidate with the
// same email is reused. A submission against an allocation belongs to the
// allocation's company; otherwise to the submitter's.
func (uc *CandidateUseCase) Submit(ctx context.Context, actor *rbac.Identity, in dto.SubmitCandidateRequest) (*dto.SubmissionResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapSubmitCandidates); err != nil {
		return nil, err
	}
	fresh, _, err := uc.guard.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	companyID := fresh.CompanyID
	if in.AllocationID != "" {
		alloc, err := uc.allocations.GetByID(ctx, in.AllocationID)
		if err != nil {
			return nil, err
		}
		var owner *rbac.Owner
		if alloc != nil {
			owner = &rbac.Owner{CompanyID: alloc.CompanyID, UserID: alloc.CreatedBy}
		}
		if err := uc.guard.AllowResource(fresh, rbac.CapSubmitCandidates, owner); err != nil {
			return nil, err
		}
		companyID = alloc.CompanyID
	}

	now := time.Now().UTC()
	email := strings.ToLower(strings.TrimSpace(in.Email))
	cand, err := uc.candidates.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if cand == nil {
		cand = &entity.Candidate{
			ID:         uuid.New().String(),
			Name:       strings.TrimSpace(in.Name),
			Email:      email,
			Phone:      in.Phone,
			Skills:     NormalizeSkills(in.Skills),
			Education:  in.Education,
			Experience: in.Experience,
			Location:   in.Location,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := uc.candidates.Create(ctx, cand); err != nil {
			return nil, err
		}
	}
	sub := &entity.RecruiterCandidate{
		ID:                  uuid.New().String(),
		CandidateID:         cand.ID,
		RecruiterID:         actor.UserID,
		CompanyID:           companyID,
		ProfileAllocationID: in.AllocationID,
		Status:              entity.SubmissionPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.candidates.CreateSubmission(ctx, sub); err != nil {
		return nil, err
	}
	return toSubmissionResponse(&entity.CandidateSubmission{RecruiterCandidate: *sub, Candidate: *cand}), nil
}

// List returns submissions visible to the caller: reviewers see their
// company's, everyone else their own. Admins see all.
func (uc *CandidateUseCase) List(ctx context.Context, actor *rbac.Identity, q dto.SubmissionListQuery) ([]dto.SubmissionResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapSubmitCandidates); err != nil {
		return nil, err
	}
	q.DefaultPage()
	f := repository.SubmissionFilter{Status: q.Status, AllocationID: q.AllocationID, Limit: q.Limit, Offset: q.Offset}
	switch {
	case q.Mine:
		f.RecruiterID = actor.UserID
	case actor.Role.IsAdmin():
	case rbac.Has(actor.Role, rbac.CapUpdateCandidateStatus):
		fresh, _, err := uc.guard.Current(ctx, actor)
		if err != nil {
			return nil, err
		}
		if fresh.HasCompany() {
			f.CompanyID = fresh.CompanyID
		} else {
			f.RecruiterID = actor.UserID
		}
	default:
		f.RecruiterID = actor.UserID
	}
	return uc.list(ctx, f)
}

// UpdateStatus records the company's decision on a submission.
func (uc *CandidateUseCase) UpdateStatus(ctx context.Context, actor *rbac.Identity, id string, in dto.SubmissionStatusRequest) (*dto.SubmissionResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapUpdateCandidateStatus); err != nil {
		return nil, err
	}
	status := strings.ToLower(strings.TrimSpace(in.Status))
	switch status {
	case entity.SubmissionPending, entity.SubmissionApproved, entity.SubmissionRejected:
	default:
		return nil, domain.Validationf("unknown submission status %q", in.Status)
	}
	fresh, _, err := uc.guard.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	sub, err := uc.candidates.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	var owner *rbac.Owner
	if sub != nil {
		owner = &rbac.Owner{CompanyID: sub.CompanyID}
	}
	if err := uc.guard.AllowResource(fresh, rbac.CapUpdateCandidateStatus, owner); err != nil {
		return nil, err
	}
	sub.Status = status
	sub.Feedback = in.Feedback
	sub.UpdatedAt = time.Now().UTC()
	if err := uc.candidates.UpdateSubmission(ctx, sub); err != nil {
		return nil, err
	}
	cand, err := uc.candidates.GetByID(ctx, sub.CandidateID)
	if err != nil {
		return nil, err
	}
	view := &entity.CandidateSubmission{RecruiterCandidate: *sub}
	if cand != nil {
		view.Candidate = *cand
	}
	return toSubmissionResponse(view), nil
}

func (uc *CandidateUseCase) list(ctx context.Context, f repository.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	subs, err := uc.candidates.ListSubmissions(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubmissionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, *toSubmissionResponse(s))
	}
	return out, nil
}

func toSubmissionResponse(s *entity.CandidateSubmission) *dto.SubmissionResponse {
	skills := s.Candidate.Skills
	if skills == nil {
		skills = []string{}
	}
	return &dto.SubmissionResponse{
		ID:           s.ID,
		CandidateID:  s.CandidateID,
		Name:         s.Candidate.Name,
		Email:        s.Candidate.Email,
		Phone:        s.Candidate.Phone,
		Skills:       skills,
		Education:    s.Candidate.Education,
		Experience:   s.Candidate.Experience,
		Location:     s.Candidate.Location,
		RecruiterID:  s.RecruiterID,
		CompanyID:    s.CompanyID,
		AllocationID: s.ProfileAllocationID,
		Status:       s.Status,
		Feedback:     s.Feedback,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
