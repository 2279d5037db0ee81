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

var (
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.TeamRepository    = (*TeamRepo)(nil)
)

var companyColumns = []string{"id::text", "name", "industry", "website", "description", "created_at", "updated_at"}

// CompanyRepo implements CompanyRepository on PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository builds the company adapter.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create inserts a company.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	_, err := execStmt(ctx, r.q, psql.Insert("companies").
		Columns("id", "name", "industry", "website", "description", "created_at", "updated_at").
		Values(c.ID, c.Name, c.Industry, c.Website, c.Description, c.CreatedAt, c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID returns the company or (nil, nil).
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return getCompany(ctx, r.q, id)
}

// Update rewrites the profile columns.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	n, err := execStmt(ctx, r.q, psql.Update("companies").
		Set("name", c.Name).
		Set("industry", c.Industry).
		Set("website", c.Website).
		Set("description", c.Description).
		Set("updated_at", c.UpdatedAt).
		Where(sq.Eq{"id": c.ID}))
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("company %s", c.ID)
	}
	return nil
}

// List pages through companies by name.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	rows, err := queryRows(ctx, r.q, page(psql.Select(companyColumns...).From("companies").OrderBy("name"), limit, offset))
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var out []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func getCompany(ctx context.Context, q Querier, id string) (*entity.Company, error) {
	c, err := scanCompany(queryRow(ctx, q, psql.Select(companyColumns...).From("companies").Where(sq.Eq{"id": id})))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	if err := row.Scan(&c.ID, &c.Name, &c.Industry, &c.Website, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

var teamColumns = []string{"id::text", "company_id::text", "name", "description", text("manager_id"), "created_at", "updated_at"}

// TeamRepo implements TeamRepository on PostgreSQL.
type TeamRepo struct {
	q Querier
}

// NewTeamRepository builds the team adapter.
func NewTeamRepository(q Querier) *TeamRepo {
	return &TeamRepo{q: q}
}

// Create inserts a team.
func (r *TeamRepo) Create(ctx context.Context, t *entity.Team) error {
	_, err := execStmt(ctx, r.q, psql.Insert("teams").
		Columns("id", "company_id", "name", "description", "manager_id", "created_at", "updated_at").
		Values(t.ID, t.CompanyID, t.Name, t.Description, nullable(t.ManagerID), t.CreatedAt, t.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("team %q already exists: %w", t.Name, domain.ErrConflict)
		}
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

// GetByID returns the team or (nil, nil).
func (r *TeamRepo) GetByID(ctx context.Context, id string) (*entity.Team, error) {
	t, err := scanTeam(queryRow(ctx, r.q, psql.Select(teamColumns...).From("teams").Where(sq.Eq{"id": id})))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return t, nil
}

// Update rewrites name, description and manager.
func (r *TeamRepo) Update(ctx context.Context, t *entity.Team) error {
	n, err := execStmt(ctx, r.q, psql.Update("teams").
		Set("name", t.Name).
		Set("description", t.Description).
		Set("manager_id", nullable(t.ManagerID)).
		Set("updated_at", t.UpdatedAt).
		Where(sq.Eq{"id": t.ID}))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("team %q already exists: %w", t.Name, domain.ErrConflict)
		}
		return fmt.Errorf("update team: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("team %s", t.ID)
	}
	return nil
}

// Delete removes the team; users.team_id is cleared by the foreign key.
func (r *TeamRepo) Delete(ctx context.Context, id string) error {
	if _, err := execStmt(ctx, r.q, psql.Delete("teams").Where(sq.Eq{"id": id})); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}

// ListByCompany returns a company's teams by name.
func (r *TeamRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Team, error) {
	rows, err := queryRows(ctx, r.q, psql.Select(teamColumns...).From("teams").
		Where(sq.Eq{"company_id": companyID}).OrderBy("name"))
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()
	var out []*entity.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTeam(row pgx.Row) (*entity.Team, error) {
	var t entity.Team
	if err := row.Scan(&t.ID, &t.CompanyID, &t.Name, &t.Description, &t.ManagerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
