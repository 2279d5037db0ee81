package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/jhoicas/talent-api/internal/domain/cascade"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

var _ repository.CascadeStore = (*CascadeStore)(nil)

// CascadeStore executes cascade steps on one transaction.
type CascadeStore struct {
	q Querier
}

// NewCascadeStore binds the store to q, normally a pgx.Tx.
func NewCascadeStore(q Querier) *CascadeStore {
	return &CascadeStore{q: q}
}

// GetUser returns the user or (nil, nil).
func (s *CascadeStore) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return NewUserRepository(s.q).GetByID(ctx, id)
}

// GetCompany returns the company or (nil, nil).
func (s *CascadeStore) GetCompany(ctx context.Context, id string) (*entity.Company, error) {
	return getCompany(ctx, s.q, id)
}

// FirstEmployer returns the earliest employer of a company.
func (s *CascadeStore) FirstEmployer(ctx context.Context, companyID string) (*entity.User, error) {
	return firstEmployer(ctx, s.q, companyID)
}

// CompanyUserIDs lists every user of a company, active or not.
func (s *CascadeStore) CompanyUserIDs(ctx context.Context, companyID string) ([]string, error) {
	rows, err := s.q.Query(ctx, `SELECT id::text FROM users WHERE company_id = $1`, companyID)
	if err != nil {
		return nil, fmt.Errorf("company users: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LockCompany takes a transaction-scoped advisory lock keyed by the company.
func (s *CascadeStore) LockCompany(ctx context.Context, companyID string) error {
	if _, err := s.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, companyID); err != nil {
		return fmt.Errorf("lock company %s: %w", companyID, err)
	}
	return nil
}

// Apply runs one step and returns the rows it touched. A predicate that can
// select nothing is skipped without a round trip.
func (s *CascadeStore) Apply(ctx context.Context, step cascade.Step) (int64, error) {
	where, ok := predicateSQL(step.Where)
	if !ok {
		return 0, nil
	}
	var b sq.Sqlizer
	switch step.Action {
	case cascade.Nullify:
		b = psql.Update(step.Table).Set(step.Column, nil).Where(where)
	default:
		b = psql.Delete(step.Table).Where(where)
	}
	n, err := execStmt(ctx, s.q, b)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", step, err)
	}
	return n, nil
}

// SaveAudit writes the audit inside the cascade transaction.
func (s *CascadeStore) SaveAudit(ctx context.Context, a *entity.DeletionAudit) error {
	return saveAudit(ctx, s.q, a)
}

// predicateSQL renders AnyOf as OR-ed IN clauses and NoneOf as NOT IN
// clauses that let NULL through, matching cascade.Predicate.Matches.
func predicateSQL(p cascade.Predicate) (sq.Sqlizer, bool) {
	if p.Empty() {
		return nil, false
	}
	anyOf := sq.Or{}
	for _, in := range p.AnyOf {
		if len(in.Values) == 0 {
			continue
		}
		anyOf = append(anyOf, sq.Eq{in.Column: in.Values})
	}
	where := sq.And{anyOf}
	for _, in := range p.NoneOf {
		if len(in.Values) == 0 {
			continue
		}
		where = append(where, sq.Or{sq.Eq{in.Column: nil}, sq.NotEq{in.Column: in.Values}})
	}
	return where, true
}
