package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

var userColumns = []string{
	"id::text", "email", "password_hash", "name", "role",
	text("company_id"), text("manager_id"), text("team_id"),
	"is_active", "deactivated_at", "created_at", "updated_at",
}

// UserRepo implements UserRepository on PostgreSQL (pool or tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository builds the user adapter.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create inserts a user. A taken email maps to ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := execStmt(ctx, r.q, psql.Insert("users").
		Columns("id", "email", "password_hash", "name", "role", "company_id", "manager_id", "team_id",
			"is_active", "deactivated_at", "created_at", "updated_at").
		Values(u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role), nullable(u.CompanyID),
			nullable(u.ManagerID), nullable(u.TeamID), u.IsActive, u.DeactivatedAt, u.CreatedAt, u.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.NotFoundf("company, manager or team of user %s", u.ID)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID returns the user or (nil, nil).
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(queryRow(ctx, r.q, psql.Select(userColumns...).From("users").Where(sq.Eq{"id": id})))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail matches emails case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(queryRow(ctx, r.q, psql.Select(userColumns...).From("users").
		Where(sq.Eq{"lower(email)": strings.ToLower(email)}).Limit(1)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update writes every mutable column.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	n, err := execStmt(ctx, r.q, psql.Update("users").SetMap(map[string]any{
		"email":          u.Email,
		"password_hash":  u.PasswordHash,
		"name":           u.Name,
		"role":           string(u.Role),
		"company_id":     nullable(u.CompanyID),
		"manager_id":     nullable(u.ManagerID),
		"team_id":        nullable(u.TeamID),
		"is_active":      u.IsActive,
		"deactivated_at": u.DeactivatedAt,
		"updated_at":     u.UpdatedAt,
	}).Where(sq.Eq{"id": u.ID}))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.NotFoundf("company, manager or team of user %s", u.ID)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("user %s", u.ID)
	}
	return nil
}

// UpdateRole changes only the role column.
func (r *UserRepo) UpdateRole(ctx context.Context, id string, role rbac.Role) error {
	n, err := execStmt(ctx, r.q, psql.Update("users").
		Set("role", string(role)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("user %s", id)
	}
	return nil
}

// SetTeam moves a user into a team; an empty teamID clears it.
func (r *UserRepo) SetTeam(ctx context.Context, userID, teamID string) error {
	n, err := execStmt(ctx, r.q, psql.Update("users").
		Set("team_id", nullable(teamID)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": userID}))
	if err != nil {
		return fmt.Errorf("set team: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("user %s", userID)
	}
	return nil
}

// List returns users matching f, newest first.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, error) {
	b := psql.Select(userColumns...).From("users").OrderBy("created_at DESC")
	if f.Role != "" {
		b = b.Where(sq.Eq{"role": string(f.Role)})
	}
	if len(f.Roles) > 0 {
		roles := make([]string, 0, len(f.Roles))
		for _, role := range f.Roles {
			roles = append(roles, string(role))
		}
		b = b.Where(sq.Eq{"role": roles})
	}
	if f.CompanyID != "" {
		b = b.Where(sq.Eq{"company_id": f.CompanyID})
	}
	if f.Active != nil {
		b = b.Where(sq.Eq{"is_active": *f.Active})
	}
	rows, err := queryRows(ctx, r.q, page(b, f.Limit, f.Offset))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// FirstEmployer returns the earliest employer of a company.
func (r *UserRepo) FirstEmployer(ctx context.Context, companyID string) (*entity.User, error) {
	return firstEmployer(ctx, r.q, companyID)
}

// CountByRole counts users per role.
func (r *UserRepo) CountByRole(ctx context.Context) (map[rbac.Role]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT role, count(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	defer rows.Close()
	out := map[rbac.Role]int64{}
	for rows.Next() {
		var (
			role string
			n    int64
		)
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		out[rbac.Role(role)] = n
	}
	return out, rows.Err()
}

func firstEmployer(ctx context.Context, q Querier, companyID string) (*entity.User, error) {
	u, err := scanUser(queryRow(ctx, q, psql.Select(userColumns...).From("users").
		Where(sq.Eq{"company_id": companyID, "role": string(rbac.RoleEmployer)}).
		OrderBy("created_at ASC").Limit(1)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("first employer: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u    entity.User
		role string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role,
		&u.CompanyID, &u.ManagerID, &u.TeamID, &u.IsActive, &u.DeactivatedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = rbac.Role(role)
	return &u, nil
}
