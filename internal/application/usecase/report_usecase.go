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

// ReportUseCase carries reports between members of one company.
type ReportUseCase struct {
	guard   *Guard
	reports repository.ReportRepository
	users   repository.UserRepository
}

// NewReportUseCase builds the use case.
func NewReportUseCase(guard *Guard, reports repository.ReportRepository, users repository.UserRepository) *ReportUseCase {
	return &ReportUseCase{guard: guard, reports: reports, users: users}
}

// Create sends a report to an active colleague.
func (uc *ReportUseCase) Create(ctx context.Context, actor *rbac.Identity, in dto.ReportRequest) (*dto.ReportResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapWriteReports); err != nil {
		return nil, err
	}
	fresh, err := uc.guard.CompanyOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	if in.RecipientID == actor.UserID {
		return nil, fmt.Errorf("cannot send a report to yourself: %w", domain.ErrInvalidTarget)
	}
	recipient, err := uc.users.GetByID(ctx, in.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil || !recipient.IsActive {
		return nil, domain.NotFoundf("recipient %s", in.RecipientID)
	}
	if recipient.CompanyID != fresh.CompanyID {
		return nil, fmt.Errorf("recipient outside the sender's company: %w", domain.ErrTenantMismatch)
	}
	now := time.Now().UTC()
	r := &entity.Report{
		ID:          uuid.New().String(),
		AuthorID:    actor.UserID,
		RecipientID: recipient.ID,
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		Status:      entity.ReportUnread,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.reports.Create(ctx, r); err != nil {
		return nil, err
	}
	return toReportResponse(r), nil
}

// List returns the caller's inbox (default) or outbox.
func (uc *ReportUseCase) List(ctx context.Context, actor *rbac.Identity, q dto.ReportListQuery) ([]dto.ReportResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapReadReports); err != nil {
		return nil, err
	}
	q.DefaultPage()
	var (
		list []*entity.Report
		err  error
	)
	if q.Box == "outbox" {
		list, err = uc.reports.ListByAuthor(ctx, actor.UserID, q.Limit, q.Offset)
	} else {
		list, err = uc.reports.ListByRecipient(ctx, actor.UserID, q.Limit, q.Offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReportResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toReportResponse(r))
	}
	return out, nil
}

// MarkRead flags a report of the caller's inbox as read. Reports addressed to
// someone else look missing.
func (uc *ReportUseCase) MarkRead(ctx context.Context, actor *rbac.Identity, id string) error {
	if err := uc.guard.Allow(actor, rbac.CapReadReports); err != nil {
		return err
	}
	r, err := uc.reports.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil || r.RecipientID != actor.UserID {
		return domain.NotFoundf("report %s", id)
	}
	if r.Status == entity.ReportRead {
		return nil
	}
	return uc.reports.MarkRead(ctx, id)
}

// UnreadCount counts the caller's unread reports.
func (uc *ReportUseCase) UnreadCount(ctx context.Context, actor *rbac.Identity) (*dto.UnreadCountResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapReadReports); err != nil {
		return nil, err
	}
	n, err := uc.reports.CountUnread(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{Count: n}, nil
}

func toReportResponse(r *entity.Report) *dto.ReportResponse {
	return &dto.ReportResponse{
		ID:          r.ID,
		AuthorID:    r.AuthorID,
		RecipientID: r.RecipientID,
		Title:       r.Title,
		Content:     r.Content,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
}
