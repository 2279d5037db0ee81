package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

var (
	_ repository.EmployerApplicationRepository     = (*EmployerApplicationRepo)(nil)
	_ repository.UserCreationRequestRepository     = (*UserCreationRequestRepo)(nil)
	_ repository.EmployeeDeletionRequestRepository = (*EmployeeDeletionRequestRepo)(nil)
	_ repository.CredentialRepository              = (*CredentialRepo)(nil)
)

// forUpdate locks the selected row when the repository is bound to a
// transaction, so two reviewers of one request serialize.
func forUpdate(b sq.SelectBuilder, lock bool) sq.SelectBuilder {
	if lock {
		return b.Suffix("FOR UPDATE")
	}
	return b
}

func requestFilter(b sq.SelectBuilder, f repository.RequestFilter) sq.SelectBuilder {
	if f.CompanyID != "" {
		b = b.Where(sq.Eq{"company_id": f.CompanyID})
	}
	if f.Status != "" {
		b = b.Where(sq.Eq{"status": string(f.Status)})
	}
	return page(b.OrderBy("created_at DESC"), f.Limit, f.Offset)
}

// ──────────────────────────────────────────────────────────────────────────────
// employer applications
// ──────────────────────────────────────────────────────────────────────────────

var applicationColumns = []string{
	"id::text", "recruiter_id::text", "company_name", "reason", "status", "admin_notes",
	text("reviewed_by"), "reviewed_at", "created_at", "updated_at",
}

// EmployerApplicationRepo implements EmployerApplicationRepository on PostgreSQL.
type EmployerApplicationRepo struct {
	q    Querier
	lock bool
}

// NewEmployerApplicationRepository builds the adapter.
func NewEmployerApplicationRepository(q Querier) *EmployerApplicationRepo {
	return &EmployerApplicationRepo{q: q}
}

// Create inserts an application. A second pending application of the same
// recruiter hits the partial unique index and maps to ErrConflict.
func (r *EmployerApplicationRepo) Create(ctx context.Context, a *entity.EmployerApplication) error {
	_, err := execStmt(ctx, r.q, psql.Insert("employer_applications").
		Columns("id", "recruiter_id", "company_name", "reason", "status", "admin_notes", "reviewed_by", "reviewed_at", "created_at", "updated_at").
		Values(a.ID, a.RecruiterID, a.CompanyName, a.Reason, string(a.Status), a.AdminNotes, nullable(a.ReviewedBy), a.ReviewedAt, a.CreatedAt, a.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("an application is already pending: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert employer application: %w", err)
	}
	return nil
}

// GetByID returns the application or (nil, nil).
func (r *EmployerApplicationRepo) GetByID(ctx context.Context, id string) (*entity.EmployerApplication, error) {
	return r.one(ctx, forUpdate(psql.Select(applicationColumns...).From("employer_applications").Where(sq.Eq{"id": id}), r.lock))
}

// LatestByRecruiter returns the newest application of a recruiter.
func (r *EmployerApplicationRepo) LatestByRecruiter(ctx context.Context, recruiterID string) (*entity.EmployerApplication, error) {
	return r.one(ctx, psql.Select(applicationColumns...).From("employer_applications").
		Where(sq.Eq{"recruiter_id": recruiterID}).OrderBy("created_at DESC").Limit(1))
}

// List ignores f.CompanyID: applications predate any company.
func (r *EmployerApplicationRepo) List(ctx context.Context, f repository.RequestFilter) ([]*entity.EmployerApplication, error) {
	f.CompanyID = ""
	rows, err := queryRows(ctx, r.q, requestFilter(psql.Select(applicationColumns...).From("employer_applications"), f))
	if err != nil {
		return nil, fmt.Errorf("list employer applications: %w", err)
	}
	defer rows.Close()
	var out []*entity.EmployerApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employer application: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update stores the review outcome.
func (r *EmployerApplicationRepo) Update(ctx context.Context, a *entity.EmployerApplication) error {
	n, err := execStmt(ctx, r.q, psql.Update("employer_applications").
		Set("status", string(a.Status)).
		Set("admin_notes", a.AdminNotes).
		Set("reviewed_by", nullable(a.ReviewedBy)).
		Set("reviewed_at", a.ReviewedAt).
		Set("updated_at", a.UpdatedAt).
		Where(sq.Eq{"id": a.ID}))
	if err != nil {
		return fmt.Errorf("update employer application: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("employer application %s", a.ID)
	}
	return nil
}

func (r *EmployerApplicationRepo) one(ctx context.Context, b sq.SelectBuilder) (*entity.EmployerApplication, error) {
	a, err := scanApplication(queryRow(ctx, r.q, b))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employer application: %w", err)
	}
	return a, nil
}

func scanApplication(row pgx.Row) (*entity.EmployerApplication, error) {
	var (
		a      entity.EmployerApplication
		status string
	)
	err := row.Scan(&a.ID, &a.RecruiterID, &a.CompanyName, &a.Reason, &status, &a.AdminNotes,
		&a.ReviewedBy, &a.ReviewedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = entity.RequestStatus(status)
	return &a, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// user creation requests
// ──────────────────────────────────────────────────────────────────────────────

var creationColumns = []string{
	"id::text", "company_id::text", "requested_by::text", "name", "email", "role", text("manager_id"),
	"status", "rejection_reason", text("created_user_id"), text("reviewed_by"), "reviewed_at", "created_at", "updated_at",
}

// UserCreationRequestRepo implements UserCreationRequestRepository on PostgreSQL.
type UserCreationRequestRepo struct {
	q    Querier
	lock bool
}

// NewUserCreationRequestRepository builds the adapter.
func NewUserCreationRequestRepository(q Querier) *UserCreationRequestRepo {
	return &UserCreationRequestRepo{q: q}
}

// Create inserts a request.
func (r *UserCreationRequestRepo) Create(ctx context.Context, req *entity.UserCreationRequest) error {
	_, err := execStmt(ctx, r.q, psql.Insert("user_creation_requests").
		Columns("id", "company_id", "requested_by", "name", "email", "role", "manager_id", "status",
			"rejection_reason", "created_user_id", "reviewed_by", "reviewed_at", "created_at", "updated_at").
		Values(req.ID, req.CompanyID, req.RequestedBy, req.Name, req.Email, string(req.Role), nullable(req.ManagerID),
			string(req.Status), req.RejectionReason, nullable(req.CreatedUserID), nullable(req.ReviewedBy), req.ReviewedAt,
			req.CreatedAt, req.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("a request for %s is already pending: %w", req.Email, domain.ErrConflict)
		}
		return fmt.Errorf("insert user creation request: %w", err)
	}
	return nil
}

// GetByID returns the request or (nil, nil).
func (r *UserCreationRequestRepo) GetByID(ctx context.Context, id string) (*entity.UserCreationRequest, error) {
	req, err := scanCreation(queryRow(ctx, r.q,
		forUpdate(psql.Select(creationColumns...).From("user_creation_requests").Where(sq.Eq{"id": id}), r.lock)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user creation request: %w", err)
	}
	return req, nil
}

// List returns requests matching f, newest first.
func (r *UserCreationRequestRepo) List(ctx context.Context, f repository.RequestFilter) ([]*entity.UserCreationRequest, error) {
	rows, err := queryRows(ctx, r.q, requestFilter(psql.Select(creationColumns...).From("user_creation_requests"), f))
	if err != nil {
		return nil, fmt.Errorf("list user creation requests: %w", err)
	}
	defer rows.Close()
	var out []*entity.UserCreationRequest
	for rows.Next() {
		req, err := scanCreation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user creation request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Update stores the review outcome.
func (r *UserCreationRequestRepo) Update(ctx context.Context, req *entity.UserCreationRequest) error {
	n, err := execStmt(ctx, r.q, psql.Update("user_creation_requests").
		Set("status", string(req.Status)).
		Set("rejection_reason", req.RejectionReason).
		Set("created_user_id", nullable(req.CreatedUserID)).
		Set("reviewed_by", nullable(req.ReviewedBy)).
		Set("reviewed_at", req.ReviewedAt).
		Set("updated_at", req.UpdatedAt).
		Where(sq.Eq{"id": req.ID}))
	if err != nil {
		return fmt.Errorf("update user creation request: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("user creation request %s", req.ID)
	}
	return nil
}

func scanCreation(row pgx.Row) (*entity.UserCreationRequest, error) {
	var (
		req          entity.UserCreationRequest
		role, status string
	)
	err := row.Scan(&req.ID, &req.CompanyID, &req.RequestedBy, &req.Name, &req.Email, &role, &req.ManagerID,
		&status, &req.RejectionReason, &req.CreatedUserID, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	req.Role = rbac.Role(role)
	req.Status = entity.RequestStatus(status)
	return &req, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// employee deletion requests
// ──────────────────────────────────────────────────────────────────────────────

var deletionColumns = []string{
	"id::text", "company_id::text", "requested_by::text", "employee_id::text", "reason", "status",
	"admin_notes", text("reviewed_by"), "reviewed_at", "created_at", "updated_at",
}

// EmployeeDeletionRequestRepo implements EmployeeDeletionRequestRepository on PostgreSQL.
type EmployeeDeletionRequestRepo struct {
	q    Querier
	lock bool
}

// NewEmployeeDeletionRequestRepository builds the adapter.
func NewEmployeeDeletionRequestRepository(q Querier) *EmployeeDeletionRequestRepo {
	return &EmployeeDeletionRequestRepo{q: q}
}

// Create inserts a request; one pending request per employee.
func (r *EmployeeDeletionRequestRepo) Create(ctx context.Context, req *entity.EmployeeDeletionRequest) error {
	_, err := execStmt(ctx, r.q, psql.Insert("employee_deletion_requests").
		Columns("id", "company_id", "requested_by", "employee_id", "reason", "status", "admin_notes",
			"reviewed_by", "reviewed_at", "created_at", "updated_at").
		Values(req.ID, req.CompanyID, req.RequestedBy, req.EmployeeID, req.Reason, string(req.Status), req.AdminNotes,
			nullable(req.ReviewedBy), req.ReviewedAt, req.CreatedAt, req.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("a deletion request is already pending: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert employee deletion request: %w", err)
	}
	return nil
}

// GetByID returns the request or (nil, nil).
func (r *EmployeeDeletionRequestRepo) GetByID(ctx context.Context, id string) (*entity.EmployeeDeletionRequest, error) {
	return r.one(ctx, forUpdate(psql.Select(deletionColumns...).From("employee_deletion_requests").Where(sq.Eq{"id": id}), r.lock))
}

// PendingForEmployee returns the open request for an employee, if any.
func (r *EmployeeDeletionRequestRepo) PendingForEmployee(ctx context.Context, employeeID string) (*entity.EmployeeDeletionRequest, error) {
	return r.one(ctx, psql.Select(deletionColumns...).From("employee_deletion_requests").
		Where(sq.Eq{"employee_id": employeeID, "status": string(entity.RequestPending)}).Limit(1))
}

// List returns requests matching f, newest first.
func (r *EmployeeDeletionRequestRepo) List(ctx context.Context, f repository.RequestFilter) ([]*entity.EmployeeDeletionRequest, error) {
	rows, err := queryRows(ctx, r.q, requestFilter(psql.Select(deletionColumns...).From("employee_deletion_requests"), f))
	if err != nil {
		return nil, fmt.Errorf("list employee deletion requests: %w", err)
	}
	defer rows.Close()
	var out []*entity.EmployeeDeletionRequest
	for rows.Next() {
		req, err := scanDeletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee deletion request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Update stores the review outcome.
func (r *EmployeeDeletionRequestRepo) Update(ctx context.Context, req *entity.EmployeeDeletionRequest) error {
	n, err := execStmt(ctx, r.q, psql.Update("employee_deletion_requests").
		Set("status", string(req.Status)).
		Set("admin_notes", req.AdminNotes).
		Set("reviewed_by", nullable(req.ReviewedBy)).
		Set("reviewed_at", req.ReviewedAt).
		Set("updated_at", req.UpdatedAt).
		Where(sq.Eq{"id": req.ID}))
	if err != nil {
		return fmt.Errorf("update employee deletion request: %w", err)
	}
	if n == 0 {
		return domain.NotFoundf("employee deletion request %s", req.ID)
	}
	return nil
}

func (r *EmployeeDeletionRequestRepo) one(ctx context.Context, b sq.SelectBuilder) (*entity.EmployeeDeletionRequest, error) {
	req, err := scanDeletion(queryRow(ctx, r.q, b))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee deletion request: %w", err)
	}
	return req, nil
}

func scanDeletion(row pgx.Row) (*entity.EmployeeDeletionRequest, error) {
	var (
		req    entity.EmployeeDeletionRequest
		status string
	)
	err := row.Scan(&req.ID, &req.CompanyID, &req.RequestedBy, &req.EmployeeID, &req.Reason, &status,
		&req.AdminNotes, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	req.Status = entity.RequestStatus(status)
	return &req, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// issued credentials
// ──────────────────────────────────────────────────────────────────────────────

// CredentialRepo implements CredentialRepository on PostgreSQL.
type CredentialRepo struct {
	q Querier
}

// NewCredentialRepository builds the adapter.
func NewCredentialRepository(q Querier) *CredentialRepo {
	return &CredentialRepo{q: q}
}

// Save stores a generated password until it is revealed.
func (r *CredentialRepo) Save(ctx context.Context, c *entity.IssuedCredential) error {
	_, err := execStmt(ctx, r.q, psql.Insert("issued_credentials").
		Columns("request_id", "user_id", "password", "created_at").
		Values(c.RequestID, c.UserID, c.Password, c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert issued credential: %w", err)
	}
	return nil
}

// Take deletes and returns the credential in one statement.
func (r *CredentialRepo) Take(ctx context.Context, requestID string) (*entity.IssuedCredential, error) {
	var c entity.IssuedCredential
	err := queryRow(ctx, r.q, psql.Delete("issued_credentials").
		Where(sq.Eq{"request_id": requestID}).
		Suffix("RETURNING request_id::text, user_id::text, password, created_at")).
		Scan(&c.RequestID, &c.UserID, &c.Password, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("take issued credential: %w", err)
	}
	return &c, nil
}
