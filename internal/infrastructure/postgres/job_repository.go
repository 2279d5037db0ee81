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

var _ repository.JobRepository = (*JobRepo)(nil)

var jobColumns = []string{
	"id::text", "title", "description", "location", "job_type", "salary_min", "salary_max",
	"currency", "skills", "status", "posted_by::text", text("company_id"), "created_at", "updated_at",
}

var jobInsertColumns = []string{
	"id", "title", "description", "location", "job_type", "salary_min", "salary_max",
	"currency", "skills", "status", "posted_by", "company_id", "created_at", "updated_at",
}

// JobRepo implements JobRepository on PostgreSQL.
type JobRepo struct {
	q Querier
}

// NewJobRepository builds the job adapter.
func NewJobRepository(q Querier) *JobRepo {
	return &JobRepo{q: q}
}

// Create inserts one job.
func (r *JobRepo) Create(ctx context.Context, j *entity.JobPosting) error {
	return r.CreateBatch(ctx, []*entity.JobPosting{j})
}

// CreateBatch inserts all jobs in a single statement.
func (r *JobRepo) CreateBatch(ctx context.Context, jobs []*entity.JobPosting) error {
	if len(jobs) == 0 {
		return nil
	}
	b := psql.Insert("jobs").Columns(jobInsertColumns...)
	for _, j := range jobs {
		b = b.Values(j.ID, j.Title, j.Description, j.Location, j.JobType, j.SalaryMin, j.SalaryMax,
			j.Currency, skillsOrEmpty(j.Skills), j.Status, j.PostedBy, nullable(j.CompanyID), j.CreatedAt, j.UpdatedAt)
	}
	if _, err := execStmt(ctx, r.q, b); err != nil {
		return fmt.Errorf("insert jobs: %w", err)
	}
	return nil
}

// GetByID returns the job or (nil, nil).
func (r *JobRepo) GetByID(ctx context.Context, id string) (*entity.JobPosting, error) {
	j, err := scanJob(queryRow(ctx, r.q, psql.Select(jobColumns...).From("jobs").Where(sq.Eq{"id": id})))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

// Update rewrites the editable columns.
func (r *JobRepo) Update(ctx context.Context, j *entity.JobPosting) error {
	n, err := execStmt(ctx, r.q, psql.Update("jobs").SetMap(map[string]any{
		"title":       j.Title,
		"description": j.Description,
		"location":    j.Location,
		"job_type":    j.JobType,
		"salary_min":  j.SalaryMin,
		"salary_max":  j.SalaryMax,
		"currency":    j.Currency,
		"skills":      skillsOrEmpty(j.Skills),
		"status":      j.Status,
		"updated_at":  j.UpdatedAt,
	}).Where(sq.Eq{"id": j.ID}))
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("job %s", j.ID)
	}
	return nil
}

// Delete removes a job.
func (r *JobRepo) Delete(ctx context.Context, id string) error {
	if _, err := execStmt(ctx, r.q, psql.Delete("jobs").Where(sq.Eq{"id": id})); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

// List returns jobs matching f, newest first.
func (r *JobRepo) List(ctx context.Context, f repository.JobFilter) ([]*entity.JobPosting, error) {
	b := jobFilter(psql.Select(jobColumns...).From("jobs"), f).OrderBy("created_at DESC")
	rows, err := queryRows(ctx, r.q, page(b, f.Limit, f.Offset))
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	var out []*entity.JobPosting
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// Count returns the number of jobs matching f, ignoring paging.
func (r *JobRepo) Count(ctx context.Context, f repository.JobFilter) (int64, error) {
	var n int64
	if err := queryRow(ctx, r.q, jobFilter(psql.Select("count(*)").From("jobs"), f)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

func jobFilter(b sq.SelectBuilder, f repository.JobFilter) sq.SelectBuilder {
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": f.Status})
	}
	if f.CompanyID != "" {
		b = b.Where(sq.Eq{"company_id": f.CompanyID})
	}
	if f.PostedBy != "" {
		b = b.Where(sq.Eq{"posted_by": f.PostedBy})
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		b = b.Where(sq.Or{sq.ILike{"title": like}, sq.ILike{"description": like}, sq.Expr("? ILIKE ANY(skills)", f.Search)})
	}
	return b
}

func scanJob(row pgx.Row) (*entity.JobPosting, error) {
	var j entity.JobPosting
	err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Location, &j.JobType, &j.SalaryMin, &j.SalaryMax,
		&j.Currency, &j.Skills, &j.Status, &j.PostedBy, &j.CompanyID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func skillsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
