package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

// JobApplicationUseCase lets applicants apply to open jobs and lets the job's
// tenant review the applications.
type JobApplicationUseCase struct {
	guard *Guard
	apps  repository.JobApplicationRepository
	jobs  repository.JobRepository
}

// NewJobApplicationUseCase builds the use case.
func NewJobApplicationUseCase(guard *Guard, apps repository.JobApplicationRepository, jobs repository.JobRepository) *JobApplicationUseCase {
	return &JobApplicationUseCase{guard: guard, apps: apps, jobs: jobs}
}

// Apply records the caller's application to an open job. Drafts look missing,
// closed jobs and repeat applications conflict.
func (uc *JobApplicationUseCase) Apply(ctx context.Context, actor *rbac.Identity, in dto.JobApplyRequest) (*dto.JobApplicationResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapApplyJobs); err != nil {
		return nil, err
	}
	_, user, err := uc.guard.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	job, err := uc.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil || job.Status == entity.JobStatusDraft {
		return nil, domain.NotFoundf("job %s", in.JobID)
	}
	if job.Status != entity.JobStatusOpen {
		return nil, fmt.Errorf("job %s is no longer accepting applications: %w", job.ID, domain.ErrConflict)
	}

	now := time.Now().UTC()
	app := &entity.JobApplication{
		ID:          uuid.New().String(),
		JobID:       job.ID,
		ApplicantID: user.ID,
		JobOwnerID:  job.PostedBy,
		CompanyID:   job.CompanyID,
		Name:        user.Name,
		Email:       user.Email,
		Phone:       strings.TrimSpace(in.Phone),
		ResumeURL:   strings.TrimSpace(in.ResumeURL),
		CoverLetter: strings.TrimSpace(in.CoverLetter),
		Status:      entity.JobApplicationPending,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	return toJobApplicationResponse(&entity.JobApplicationView{
		JobApplication: *app,
		JobTitle:       job.Title,
		JobLocation:    job.Location,
	}), nil
}

// Mine lists the caller's own applications, newest first.
func (uc *JobApplicationUseCase) Mine(ctx context.Context, actor *rbac.Identity, q dto.PageRequest) ([]dto.JobApplicationResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapApplyJobs); err != nil {
		return nil, err
	}
	q.DefaultPage()
	return uc.list(ctx, repository.JobApplicationFilter{ApplicantID: actor.UserID, Limit: q.Limit, Offset: q.Offset})
}

// Withdraw removes one of the caller's applications while it is still open.
func (uc *JobApplicationUseCase) Withdraw(ctx context.Context, actor *rbac.Identity, id string) error {
	if err := uc.guard.Allow(actor, rbac.CapApplyJobs); err != nil {
		return err
	}
	app, err := uc.apps.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if app == nil || app.ApplicantID != actor.UserID {
		return domain.NotFoundf("job application %s", id)
	}
	if app.Final() {
		return fmt.Errorf("job application %s is already %s: %w", id, app.Status, domain.ErrConflict)
	}
	return uc.apps.Delete(ctx, id)
}

// ListByJob returns a job's applications to the job's poster and company.
func (uc *JobApplicationUseCase) ListByJob(ctx context.Context, actor *rbac.Identity, jobID string, q dto.JobApplicationListQuery) ([]dto.JobApplicationResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapReviewJobApplications); err != nil {
		return nil, err
	}
	fresh, _, err := uc.guard.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	job, err := uc.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	var owner *rbac.Owner
	if job != nil {
		owner = &rbac.Owner{CompanyID: job.CompanyID, UserID: job.PostedBy}
	}
	if err := uc.guard.AllowResource(fresh, rbac.CapReviewJobApplications, owner); err != nil {
		return nil, err
	}
	q.DefaultPage()
	return uc.list(ctx, repository.JobApplicationFilter{JobID: job.ID, Status: q.Status, Limit: q.Limit, Offset: q.Offset})
}

// UpdateStatus moves an application through the review pipeline.
func (uc *JobApplicationUseCase) UpdateStatus(ctx context.Context, actor *rbac.Identity, id string, in dto.JobApplicationStatusRequest) (*dto.JobApplicationResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapReviewJobApplications); err != nil {
		return nil, err
	}
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if !entity.ValidJobApplicationStatus(status) {
		return nil, domain.Validationf("unknown job application status %q", in.Status)
	}
	fresh, _, err := uc.guard.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	app, err := uc.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var owner *rbac.Owner
	if app != nil {
		owner = &rbac.Owner{CompanyID: app.CompanyID, UserID: app.JobOwnerID}
	}
	if err := uc.guard.AllowResource(fresh, rbac.CapReviewJobApplications, owner); err != nil {
		return nil, err
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()
	if err := uc.apps.UpdateStatus(ctx, app); err != nil {
		return nil, err
	}
	return toJobApplicationResponse(&entity.JobApplicationView{JobApplication: *app}), nil
}

func (uc *JobApplicationUseCase) list(ctx context.Context, f repository.JobApplicationFilter) ([]dto.JobApplicationResponse, error) {
	list, err := uc.apps.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.JobApplicationResponse, 0, len(list))
	for _, v := range list {
		out = append(out, *toJobApplicationResponse(v))
	}
	return out, nil
}

func toJobApplicationResponse(v *entity.JobApplicationView) *dto.JobApplicationResponse {
	return &dto.JobApplicationResponse{
		ID:          v.ID,
		JobID:       v.JobID,
		JobTitle:    v.JobTitle,
		JobLocation: v.JobLocation,
		ApplicantID: v.ApplicantID,
		Name:        v.Name,
		Email:       v.Email,
		Phone:       v.Phone,
		ResumeURL:   v.ResumeURL,
		CoverLetter: v.CoverLetter,
		Status:      v.Status,
		AppliedAt:   v.AppliedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}
