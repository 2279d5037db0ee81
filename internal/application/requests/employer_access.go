package requests

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

// RoleRecorder logs role transitions after they commit.
type RoleRecorder interface {
	Record(ctx context.Context, userID string, newRole rbac.Role)
}

// EmployerAccess handles recruiter applications for the employer role.
type EmployerAccess struct {
	base
	apps    repository.EmployerApplicationRepository
	tracker RoleRecorder
}

// NewEmployerAccess builds the workflow.
func NewEmployerAccess(d Deps, apps repository.EmployerApplicationRepository, tracker RoleRecorder) *EmployerAccess {
	return &EmployerAccess{base: newBase(d, "employer-access"), apps: apps, tracker: tracker}
}

// Apply files a new application. A recruiter may hold one pending application
// at a time; after a decision a fresh application is a new record.
func (s *EmployerAccess) Apply(ctx context.Context, actor *rbac.Identity, in dto.EmployerAccessRequest) (*entity.EmployerApplication, error) {
	if err := s.authorize(actor, rbac.CapApplyEmployerAccess); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.CompanyName) == "" {
		return nil, domain.Validationf("company name is required")
	}
	if _, err := s.requester(ctx, actor); err != nil {
		return nil, err
	}
	latest, err := s.apps.LatestByRecruiter(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Status == entity.RequestPending {
		return nil, fmt.Errorf("application %s is still pending: %w", latest.ID, domain.ErrConflict)
	}
	now := s.now().UTC()
	app := &entity.EmployerApplication{
		ID:          uuid.New().String(),
		RecruiterID: actor.UserID,
		CompanyName: strings.TrimSpace(in.CompanyName),
		Reason:      in.Reason,
		Status:      entity.RequestPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	s.log.Info().Str("application_id", app.ID).Str("recruiter_id", actor.UserID).Msg("employer access requested")
	return app, nil
}

// MyStatus returns the caller's latest application.
func (s *EmployerAccess) MyStatus(ctx context.Context, actor *rbac.Identity) (*entity.EmployerApplication, error) {
	if err := s.authorize(actor, rbac.CapApplyEmployerAccess); err != nil {
		return nil, err
	}
	app, err := s.apps.LatestByRecruiter(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, domain.NotFoundf("no employer application")
	}
	return app, nil
}

// ApplicationView pairs an application with its requester, who may be gone.
type ApplicationView struct {
	Application *entity.EmployerApplication
	Recruiter   *entity.User
}

// List returns applications for review.
func (s *EmployerAccess) List(ctx context.Context, actor *rbac.Identity, f repository.RequestFilter) ([]ApplicationView, error) {
	if err := s.authorize(actor, rbac.CapReviewEmployerAccess); err != nil {
		return nil, err
	}
	apps, err := s.apps.List(ctx, f)
	if err != nil {
		return nil, err
	}
	seen := map[string]*entity.User{}
	out := make([]ApplicationView, 0, len(apps))
	for _, a := range apps {
		u, ok := seen[a.RecruiterID]
		if !ok {
			if u, err = s.users.GetByID(ctx, a.RecruiterID); err != nil {
				return nil, err
			}
			seen[a.RecruiterID] = u
		}
		out = append(out, ApplicationView{Application: a, Recruiter: u})
	}
	return out, nil
}

// Review decides a pending application. Approval promotes the recruiter to
// employer in the same transaction as the status change; the role-change log
// entry is written after commit as a best-effort secondary write.
func (s *EmployerAccess) Review(ctx context.Context, actor *rbac.Identity, id string, status entity.RequestStatus, notes string) (*entity.EmployerApplication, error) {
	if err := s.authorize(actor, rbac.CapReviewEmployerAccess); err != nil {
		return nil, err
	}
	var reviewed *entity.EmployerApplication
	err := s.tx.RunRequests(ctx, func(r TxRepos) error {
		app, err := r.Applications.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if app == nil {
			return domain.NotFoundf("employer application %s", id)
		}
		if err := app.Status.TransitionTo(status); err != nil {
			return err
		}
		if status == entity.RequestApproved {
			user, err := r.Users.GetByID(ctx, app.RecruiterID)
			if err != nil {
				return err
			}
			if user == nil {
				return domain.NotFoundf("applicant %s", app.RecruiterID)
			}
			// only an active recruiter can be promoted
			if user.Role != rbac.RoleRecruiter || !user.IsActive {
				return fmt.Errorf("applicant %s is no longer an active recruiter: %w", user.ID, domain.ErrInvalidTarget)
			}
			if err := r.Users.UpdateRole(ctx, user.ID, rbac.RoleEmployer); err != nil {
				return err
			}
		}
		now := s.now().UTC()
		app.Status = status
		app.AdminNotes = notes
		app.ReviewedBy = actor.UserID
		app.ReviewedAt = &now
		app.UpdatedAt = now
		if err := r.Applications.Update(ctx, app); err != nil {
			return err
		}
		reviewed = app
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("application_id", id).Str("status", string(status)).Str("admin_id", actor.UserID).Msg("employer access reviewed")
	if status == entity.RequestApproved {
		s.tracker.Record(ctx, reviewed.RecruiterID, rbac.RoleEmployer)
	}
	s.notify(ctx, ports.Event{
		Type:    ports.EventEmployerAccessReview,
		Subject: reviewed.RecruiterID,
		ActorID: actor.UserID,
		Data:    map[string]any{"applicationId": id, "status": string(status)},
	})
	return reviewed, nil
}
