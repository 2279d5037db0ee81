package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

var reportColumns = []string{
	"id::text", "author_id::text", "recipient_id::text", "title", "content", "status", "created_at", "updated_at",
}

// ReportRepo implements ReportRepository on PostgreSQL.
type ReportRepo struct {
	q Querier
}

// NewReportRepository builds the report adapter.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// Create inserts a report.
func (r *ReportRepo) Create(ctx context.Context, rep *entity.Report) error {
	_, err := execStmt(ctx, r.q, psql.Insert("reports").
		Columns("id", "author_id", "recipient_id", "title", "content", "status", "created_at", "updated_at").
		Values(rep.ID, rep.AuthorID, rep.RecipientID, rep.Title, rep.Content, rep.Status, rep.CreatedAt, rep.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetByID returns the report or (nil, nil).
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	rep, err := scanReport(queryRow(ctx, r.q, psql.Select(reportColumns...).From("reports").Where(sq.Eq{"id": id})))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return rep, nil
}

// ListByRecipient is the inbox.
func (r *ReportRepo) ListByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]*entity.Report, error) {
	return r.list(ctx, sq.Eq{"recipient_id": recipientID}, limit, offset)
}

// ListByAuthor is the outbox.
func (r *ReportRepo) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*entity.Report, error) {
	return r.list(ctx, sq.Eq{"author_id": authorID}, limit, offset)
}

// MarkRead flags a report as read.
func (r *ReportRepo) MarkRead(ctx context.Context, id string) error {
	_, err := execStmt(ctx, r.q, psql.Update("reports").
		Set("status", entity.ReportRead).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("mark report read: %w", err)
	}
	return nil
}

// CountUnread counts a recipient's unread reports.
func (r *ReportRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var n int64
	err := queryRow(ctx, r.q, psql.Select("count(*)").From("reports").
		Where(sq.Eq{"recipient_id": recipientID, "status": entity.ReportUnread})).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread reports: %w", err)
	}
	return n, nil
}

func (r *ReportRepo) list(ctx context.Context, where sq.Eq, limit, offset int) ([]*entity.Report, error) {
	b := psql.Select(reportColumns...).From("reports").Where(where).OrderBy("created_at DESC")
	rows, err := queryRows(ctx, r.q, page(b, limit, offset))
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()
	var out []*entity.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func scanReport(row pgx.Row) (*entity.Report, error) {
	var rep entity.Report
	err := row.Scan(&rep.ID, &rep.AuthorID, &rep.RecipientID, &rep.Title, &rep.Content, &rep.Status, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}
