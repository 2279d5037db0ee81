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

var _ repository.CandidateRepository = (*CandidateRepo)(nil)

var candidateColumns = []string{
	"id::text", "name", "email", "phone", "skills", "education", "experience", "location", "created_at", "updated_at",
}

var submissionColumns = []string{
	"id::text", "candidate_id::text", "recruiter_id::text", text("company_id"), text("profile_allocation_id"),
	"status", "feedback", "created_at", "updated_at",
}

// CandidateRepo implements CandidateRepository on PostgreSQL.
type CandidateRepo struct {
	q Querier
}

// NewCandidateRepository builds the candidate adapter.
func NewCandidateRepository(q Querier) *CandidateRepo {
	return &CandidateRepo{q: q}
}

// Create inserts a candidate profile.
func (r *CandidateRepo) Create(ctx context.Context, c *entity.Candidate) error {
	_, err := execStmt(ctx, r.q, psql.Insert("candidates").
		Columns("id", "name", "email", "phone", "skills", "education", "experience", "location", "created_at", "updated_at").
		Values(c.ID, c.Name, c.Email, c.Phone, skillsOrEmpty(c.Skills), c.Education, c.Experience, c.Location, c.CreatedAt, c.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("candidate %s: %w", c.Email, domain.ErrConflict)
		}
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

// GetByID returns the candidate or (nil, nil).
func (r *CandidateRepo) GetByID(ctx context.Context, id string) (*entity.Candidate, error) {
	return r.get(ctx, sq.Eq{"id": id})
}

// GetByEmail returns the candidate or (nil, nil).
func (r *CandidateRepo) GetByEmail(ctx context.Context, email string) (*entity.Candidate, error) {
	return r.get(ctx, sq.Eq{"email": email})
}

func (r *CandidateRepo) get(ctx context.Context, where sq.Eq) (*entity.Candidate, error) {
	c, err := scanCandidate(queryRow(ctx, r.q, psql.Select(candidateColumns...).From("candidates").Where(where)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return c, nil
}

// CreateSubmission links a candidate to its submitter.
func (r *CandidateRepo) CreateSubmission(ctx context.Context, rc *entity.RecruiterCandidate) error {
	_, err := execStmt(ctx, r.q, psql.Insert("recruiter_candidates").
		Columns("id", "candidate_id", "recruiter_id", "company_id", "profile_allocation_id", "status", "feedback", "created_at", "updated_at").
		Values(rc.ID, rc.CandidateID, rc.RecruiterID, nullable(rc.CompanyID), nullable(rc.ProfileAllocationID),
			rc.Status, rc.Feedback, rc.CreatedAt, rc.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("candidate already submitted: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// GetSubmission returns the submission or (nil, nil).
func (r *CandidateRepo) GetSubmission(ctx context.Context, id string) (*entity.RecruiterCandidate, error) {
	rc, err := scanSubmission(queryRow(ctx, r.q, psql.Select(submissionColumns...).From("recruiter_candidates").Where(sq.Eq{"id": id})))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return rc, nil
}

// UpdateSubmission stores the review outcome.
func (r *CandidateRepo) UpdateSubmission(ctx context.Context, rc *entity.RecruiterCandidate) error {
	n, err := execStmt(ctx, r.q, psql.Update("recruiter_candidates").
		Set("status", rc.Status).
		Set("feedback", rc.Feedback).
		Set("updated_at", rc.UpdatedAt).
		Where(sq.Eq{"id": rc.ID}))
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("submission %s", rc.ID)
	}
	return nil
}

// ListSubmissions joins submissions with their candidates, newest first.
func (r *CandidateRepo) ListSubmissions(ctx context.Context, f repository.SubmissionFilter) ([]*entity.CandidateSubmission, error) {
	cols := make([]string, 0, len(submissionColumns)+len(candidateColumns))
	for _, c := range submissionColumns {
		cols = append(cols, prefixed("rc", c))
	}
	for _, c := range candidateColumns {
		cols = append(cols, prefixed("c", c))
	}
	b := psql.Select(cols...).From("recruiter_candidates rc").
		Join("candidates c ON c.id = rc.candidate_id").
		OrderBy("rc.created_at DESC")
	if f.RecruiterID != "" {
		b = b.Where(sq.Eq{"rc.recruiter_id": f.RecruiterID})
	}
	if f.CompanyID != "" {
		b = b.Where(sq.Eq{"rc.company_id": f.CompanyID})
	}
	if f.AllocationID != "" {
		b = b.Where(sq.Eq{"rc.profile_allocation_id": f.AllocationID})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"rc.status": f.Status})
	}
	rows, err := queryRows(ctx, r.q, page(b, f.Limit, f.Offset))
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()
	var out []*entity.CandidateSubmission
	for rows.Next() {
		var s entity.CandidateSubmission
		rc, c := &s.RecruiterCandidate, &s.Candidate
		err := rows.Scan(&rc.ID, &rc.CandidateID, &rc.RecruiterID, &rc.CompanyID, &rc.ProfileAllocationID,
			&rc.Status, &rc.Feedback, &rc.CreatedAt, &rc.UpdatedAt,
			&c.ID, &c.Name, &c.Email, &c.Phone, &c.Skills, &c.Education, &c.Experience, &c.Location, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func scanCandidate(row pgx.Row) (*entity.Candidate, error) {
	var c entity.Candidate
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Skills, &c.Education, &c.Experience, &c.Location, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanSubmission(row pgx.Row) (*entity.RecruiterCandidate, error) {
	var rc entity.RecruiterCandidate
	err := row.Scan(&rc.ID, &rc.CandidateID, &rc.RecruiterID, &rc.CompanyID, &rc.ProfileAllocationID,
		&rc.Status, &rc.Feedback, &rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}
