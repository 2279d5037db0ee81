package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

var (
	_ repository.RoleChangeRepository    = (*RoleChangeRepo)(nil)
	_ repository.DeletionAuditRepository = (*DeletionAuditRepo)(nil)
)

// RoleChangeRepo implements the append-only role log on PostgreSQL.
type RoleChangeRepo struct {
	q Querier
}

// NewRoleChangeRepository builds the adapter.
func NewRoleChangeRepository(q Querier) *RoleChangeRepo {
	return &RoleChangeRepo{q: q}
}

// Insert appends a transition and fills rc.ID.
func (r *RoleChangeRepo) Insert(ctx context.Context, rc *entity.RoleChange) error {
	err := queryRow(ctx, r.q, psql.Insert("role_changes").
		Columns("user_id", "new_role", "changed_at").
		Values(rc.UserID, string(rc.NewRole), rc.ChangedAt).
		Suffix("RETURNING id")).Scan(&rc.ID)
	if err != nil {
		return fmt.Errorf("insert role change: %w", err)
	}
	return nil
}

// ExistsSince reports a transition strictly after since.
func (r *RoleChangeRepo) ExistsSince(ctx context.Context, userID string, since time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM role_changes WHERE user_id = $1 AND changed_at > $2)`,
		userID, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("role change since: %w", err)
	}
	return exists, nil
}

// Latest returns the newest transition or (nil, nil).
func (r *RoleChangeRepo) Latest(ctx context.Context, userID string) (*entity.RoleChange, error) {
	var (
		rc   entity.RoleChange
		role string
	)
	err := queryRow(ctx, r.q, psql.Select("id", "user_id::text", "new_role", "changed_at").
		From("role_changes").Where(sq.Eq{"user_id": userID}).
		OrderBy("changed_at DESC", "id DESC").Limit(1)).
		Scan(&rc.ID, &rc.UserID, &role, &rc.ChangedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest role change: %w", err)
	}
	rc.NewRole = rbac.Role(role)
	return &rc, nil
}

var auditColumns = []string{
	"id::text", "actor_id", "actor_email", "root_user_id", "root_email", "company_id", "company_name",
	"stats", "duration_ms", "created_at",
}

// DeletionAuditRepo stores cascade traces. The audit keeps plain text ids:
// the rows it describes no longer exist.
type DeletionAuditRepo struct {
	q Querier
}

// NewDeletionAuditRepository builds the adapter.
func NewDeletionAuditRepository(q Querier) *DeletionAuditRepo {
	return &DeletionAuditRepo{q: q}
}

// Save inserts an audit.
func (r *DeletionAuditRepo) Save(ctx context.Context, a *entity.DeletionAudit) error {
	return saveAudit(ctx, r.q, a)
}

// GetByID returns the audit or (nil, nil).
func (r *DeletionAuditRepo) GetByID(ctx context.Context, id string) (*entity.DeletionAudit, error) {
	a, err := scanAudit(queryRow(ctx, r.q, psql.Select(auditColumns...).From("deletion_audits").Where(sq.Eq{"id": id})))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deletion audit: %w", err)
	}
	return a, nil
}

// List returns audits newest first.
func (r *DeletionAuditRepo) List(ctx context.Context, limit, offset int) ([]*entity.DeletionAudit, error) {
	rows, err := queryRows(ctx, r.q, page(psql.Select(auditColumns...).From("deletion_audits").OrderBy("created_at DESC"), limit, offset))
	if err != nil {
		return nil, fmt.Errorf("list deletion audits: %w", err)
	}
	defer rows.Close()
	var out []*entity.DeletionAudit
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deletion audit: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func saveAudit(ctx context.Context, q Querier, a *entity.DeletionAudit) error {
	_, err := execStmt(ctx, q, psql.Insert("deletion_audits").
		Columns("id", "actor_id", "actor_email", "root_user_id", "root_email", "company_id", "company_name",
			"stats", "duration_ms", "created_at").
		Values(a.ID, a.ActorID, a.ActorEmail, a.RootUserID, a.RootEmail, a.CompanyID, a.CompanyName,
			a.Stats, a.Duration.Milliseconds(), a.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert deletion audit: %w", err)
	}
	return nil
}

func scanAudit(row pgx.Row) (*entity.DeletionAudit, error) {
	var (
		a  entity.DeletionAudit
		ms int64
	)
	err := row.Scan(&a.ID, &a.ActorID, &a.ActorEmail, &a.RootUserID, &a.RootEmail, &a.CompanyID, &a.CompanyName,
		&a.Stats, &ms, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Duration = time.Duration(ms) * time.Millisecond
	return &a, nil
}
