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

// EmployeeDeletion handles employer requests to remove an employee. Approval is
// a soft delete: the account is deactivated and its history stays in place.
type EmployeeDeletion struct {
	base
	deletions repository.EmployeeDeletionRequestRepository
}

// NewEmployeeDeletion builds the workflow.
func NewEmployeeDeletion(d Deps, deletions repository.EmployeeDeletionRequestRepository) *EmployeeDeletion {
	return &EmployeeDeletion{base: newBase(d, "employee-deletion"), deletions: deletions}
}

// DeletionView pairs a request with the employee it targets.
type DeletionView struct {
	Request  *entity.EmployeeDeletionRequest
	Employee *entity.User
}

// Create files a request for an active employee or manager of the caller's company.
func (s *EmployeeDeletion) Create(ctx context.Context, actor *rbac.Identity, in dto.EmployeeDeletionInput) (*entity.EmployeeDeletionRequest, error) {
	if err := s.authorize(actor, rbac.CapRequestEmployeeDeletion); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, domain.Validationf("reason is required")
	}
	requester, err := s.requester(ctx, actor)
	if err != nil {
		return nil, err
	}
	employee, err := s.users.GetByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.NotFoundf("employee %s", in.EmployeeID)
	}
	if !requester.HasCompany() || employee.CompanyID != requester.CompanyID {
		return nil, fmt.Errorf("employee outside requester company: %w", domain.ErrTenantMismatch)
	}
	if employee.Role != rbac.RoleEmployee && employee.Role != rbac.RoleManager {
		return nil, fmt.Errorf("only employees and managers can be removed this way: %w", domain.ErrInvalidTarget)
	}
	if !employee.IsActive {
		return nil, fmt.Errorf("employee already deactivated: %w", domain.ErrConflict)
	}
	pending, err := s.deletions.PendingForEmployee(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, fmt.Errorf("deletion request %s is still pending: %w", pending.ID, domain.ErrConflict)
	}

	now := s.now().UTC()
	req := &entity.EmployeeDeletionRequest{
		ID:          uuid.New().String(),
		CompanyID:   requester.CompanyID,
		RequestedBy: requester.ID,
		EmployeeID:  employee.ID,
		Reason:      strings.TrimSpace(in.Reason),
		Status:      entity.RequestPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.deletions.Create(ctx, req); err != nil {
		return nil, err
	}
	s.log.Info().Str("request_id", req.ID).Str("employee_id", employee.ID).Msg("employee deletion requested")
	return req, nil
}

// ListForCompany returns the caller company's requests.
func (s *EmployeeDeletion) ListForCompany(ctx context.Context, actor *rbac.Identity, f repository.RequestFilter) ([]DeletionView, error) {
	if err := s.authorize(actor, rbac.CapRequestEmployeeDeletion); err != nil {
		return nil, err
	}
	requester, err := s.requester(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !requester.HasCompany() {
		return []DeletionView{}, nil
	}
	f.CompanyID = requester.CompanyID
	return s.list(ctx, f)
}

// List returns requests for admin review.
func (s *EmployeeDeletion) List(ctx context.Context, actor *rbac.Identity, f repository.RequestFilter) ([]DeletionView, error) {
	if err := s.authorize(actor, rbac.CapReviewEmployeeDeletion); err != nil {
		return nil, err
	}
	return s.list(ctx, f)
}

func (s *EmployeeDeletion) list(ctx context.Context, f repository.RequestFilter) ([]DeletionView, error) {
	reqs, err := s.deletions.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]DeletionView, 0, len(reqs))
	for _, r := range reqs {
		emp, err := s.users.GetByID(ctx, r.EmployeeID)
		if err != nil {
			return nil, err
		}
		out = append(out, DeletionView{Request: r, Employee: emp})
	}
	return out, nil
}

// Review decides a pending request; approval deactivates the employee in the
// same transaction.
func (s *EmployeeDeletion) Review(ctx context.Context, actor *rbac.Identity, id string, status entity.RequestStatus, notes string) (*entity.EmployeeDeletionRequest, error) {
	if err := s.authorize(actor, rbac.CapReviewEmployeeDeletion); err != nil {
		return nil, err
	}
	var reviewed *entity.EmployeeDeletionRequest
	err := s.tx.RunRequests(ctx, func(r TxRepos) error {
		req, err := r.Deletions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.NotFoundf("employee deletion request %s", id)
		}
		if err := req.Status.TransitionTo(status); err != nil {
			return err
		}
		now := s.now().UTC()
		req.Status = status
		req.AdminNotes = notes
		req.ReviewedBy = actor.UserID
		req.ReviewedAt = &now
		req.UpdatedAt = now
		if status == entity.RequestApproved {
			emp, err := r.Users.GetByID(ctx, req.EmployeeID)
			if err != nil {
				return err
			}
			if emp == nil {
				return domain.NotFoundf("employee %s", req.EmployeeID)
			}
			emp.Deactivate(now)
			if err := r.Users.Update(ctx, emp); err != nil {
				return err
			}
		}
		reviewed = req
		return r.Deletions.Update(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("request_id", id).Str("status", string(status)).Str("admin_id", actor.UserID).Msg("employee deletion reviewed")
	if status == entity.RequestApproved {
		s.notify(ctx, ports.Event{
			Type:    ports.EventEmployeeDeactivated,
			Subject: reviewed.EmployeeID,
			ActorID: actor.UserID,
			Data:    map[string]any{"requestId": id, "companyId": reviewed.CompanyID},
		})
	}
	return reviewed, nil
}
