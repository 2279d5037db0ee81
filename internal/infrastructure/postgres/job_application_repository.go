package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

var _ repository.JobApplicationRepository = (*JobApplicationRepo)(nil)

var jobApplicationColumns = []string{
	"id::text", "job_id::text", "applicant_id::text", "job_owner_id::text", text("company_id"),
	"name", "email", "phone", "resume_url", "cover_letter", "status", "applied_at", "updated_at",
}

// JobApplicationRepo implements JobApplicationRepository on PostgreSQL.
type JobApplicationRepo struct {
	q Querier
}

// NewJobApplicationRepository builds the job application adapter.
func NewJobApplicationRepository(q Querier) *JobApplicationRepo {
	return &JobApplicationRepo{q: q}
}

// Create inserts an application. A second application to the same job is a conflict.
func (r *JobApplicationRepo) Create(ctx context.Context, a *entity.JobApplication) error {
	_, err := execStmt(ctx, r.q, psql.Insert("job_applications").
		Columns("id", "job_id", "applicant_id", "job_owner_id", "company_id",
			"name", "email", "phone", "resume_url", "cover_letter", "status", "applied_at", "updated_at").
		Values(a.ID, a.JobID, a.ApplicantID, a.JobOwnerID, nullable(a.CompanyID),
			a.Name, a.Email, a.Phone, a.ResumeURL, a.CoverLetter, a.Status, a.AppliedAt, a.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("already applied to job %s: %w", a.JobID, domain.ErrConflict)
		}
		return fmt.Errorf("insert job application: %w", err)
	}
	return nil
}

// GetByID returns the application or (nil, nil).
func (r *JobApplicationRepo) GetByID(ctx context.Context, id string) (*entity.JobApplication, error) {
	var a entity.JobApplication
	err := scanJobApplication(queryRow(ctx, r.q,
		psql.Select(jobApplicationColumns...).From("job_applications").Where(sq.Eq{"id": id})), &a)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job application: %w", err)
	}
	return &a, nil
}

// List joins applications with their jobs, newest first.
func (r *JobApplicationRepo) List(ctx context.Context, f repository.JobApplicationFilter) ([]*entity.JobApplicationView, error) {
	rows, err := queryRows(ctx, r.q, jobApplicationQuery(f))
	if err != nil {
		return nil, fmt.Errorf("list job applications: %w", err)
	}
	defer rows.Close()
	var out []*entity.JobApplicationView
	for rows.Next() {
		var v entity.JobApplicationView
		if err := scanJobApplication(rows, &v.JobApplication, &v.JobTitle, &v.JobLocation); err != nil {
			return nil, fmt.Errorf("scan job application: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

// UpdateStatus stores the reviewed status.
func (r *JobApplicationRepo) UpdateStatus(ctx context.Context, a *entity.JobApplication) error {
	n, err := execStmt(ctx, r.q, psql.Update("job_applications").
		Set("status", a.Status).
		Set("updated_at", a.UpdatedAt).
		Where(sq.Eq{"id": a.ID}))
	if err != nil {
		return fmt.Errorf("update job application: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("job application %s", a.ID)
	}
	return nil
}

// Delete removes an application.
func (r *JobApplicationRepo) Delete(ctx context.Context, id string) error {
	n, err := execStmt(ctx, r.q, psql.Delete("job_applications").Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("delete job application: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("job application %s", id)
	}
	return nil
}

func jobApplicationQuery(f repository.JobApplicationFilter) sq.SelectBuilder {
	cols := make([]string, 0, len(jobApplicationColumns)+2)
	for _, c := range jobApplicationColumns {
		cols = append(cols, prefixed("ja", c))
	}
	cols = append(cols, "j.title", "j.location")
	b := psql.Select(cols...).From("job_applications ja").
		Join("jobs j ON j.id = ja.job_id").
		OrderBy("ja.applied_at DESC")
	if f.JobID != "" {
		b = b.Where(sq.Eq{"ja.job_id": f.JobID})
	}
	if f.ApplicantID != "" {
		b = b.Where(sq.Eq{"ja.applicant_id": f.ApplicantID})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"ja.status": f.Status})
	}
	return page(b, f.Limit, f.Offset)
}

func scanJobApplication(row pgx.Row, a *entity.JobApplication, extra ...any) error {
	dest := []any{&a.ID, &a.JobID, &a.ApplicantID, &a.JobOwnerID, &a.CompanyID,
		&a.Name, &a.Email, &a.Phone, &a.ResumeURL, &a.CoverLetter, &a.Status, &a.AppliedAt, &a.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}
