package requests_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/requests"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/pkg/logger"
)

const (
	companyA = "company-a"
	companyB = "company-b"
)

var (
	admin     = &rbac.Identity{UserID: "admin-1", Email: "admin@example.com", Role: rbac.RoleAdmin}
	recruiter = &rbac.Identity{UserID: "rec-1", Email: "rec@example.com", Role: rbac.RoleRecruiter}
	employer  = &rbac.Identity{UserID: "emp-a", Email: "boss@a.com", Role: rbac.RoleEmployer, CompanyID: companyA}
)

type fixture struct {
	store    *memStore
	tracker  *spyTracker
	notifier *spyNotifier
	cache    *memCache
	deps     requests.Deps
}

func newFixture() *fixture {
	f := &fixture{
		store:    newMemStore(),
		tracker:  &spyTracker{},
		notifier: &spyNotifier{},
		cache:    newMemCache(),
	}
	f.deps = requests.Deps{
		Tx:       f.store,
		Users:    memUsers{f.store},
		Gate:     rbac.NewGate(false),
		Notifier: f.notifier,
		Log:      logger.Nop(),
	}
	f.store.addUser(entity.User{ID: admin.UserID, Email: admin.Email, Role: rbac.RoleAdmin, IsActive: true})
	f.store.addUser(entity.User{ID: recruiter.UserID, Email: recruiter.Email, Role: rbac.RoleRecruiter, IsActive: true})
	f.store.addUser(entity.User{ID: employer.UserID, Email: employer.Email, Role: rbac.RoleEmployer, CompanyID: companyA, IsActive: true})
	f.store.addUser(entity.User{ID: "mgr-a", Email: "mgr@a.com", Role: rbac.RoleManager, CompanyID: companyA, TeamID: "team-a", IsActive: true})
	f.store.addUser(entity.User{ID: "worker-a", Email: "worker@a.com", Role: rbac.RoleEmployee, CompanyID: companyA, ManagerID: "mgr-a", IsActive: true})
	f.store.addUser(entity.User{ID: "mgr-b", Email: "mgr@b.com", Role: rbac.RoleManager, CompanyID: companyB, IsActive: true})
	f.store.addUser(entity.User{ID: "worker-b", Email: "worker@b.com", Role: rbac.RoleEmployee, CompanyID: companyB, IsActive: true})
	return f
}

// ──────────────────────────────────────────────────────────────────────────────
// Employer access
// ──────────────────────────────────────────────────────────────────────────────

func TestEmployerAccess_ApprovePromotesRecruiter(t *testing.T) {
	f := newFixture()
	svc := requests.NewEmployerAccess(f.deps, memApps{f.store}, f.tracker)
	ctx := context.Background()

	app, err := svc.Apply(ctx, recruiter, dto.EmployerAccessRequest{CompanyName: "Acme", Reason: "hiring"})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestPending, app.Status)

	_, err = svc.Apply(ctx, recruiter, dto.EmployerAccessRequest{CompanyName: "Acme"})
	assert.ErrorIs(t, err, domain.ErrConflict, "one pending application at a time")

	reviewed, err := svc.Review(ctx, admin, app.ID, entity.RequestApproved, "welcome")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, reviewed.Status)
	assert.Equal(t, admin.UserID, reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)

	assert.Equal(t, rbac.RoleEmployer, f.store.user(recruiter.UserID).Role)
	assert.Equal(t, []string{"rec-1->employer"}, f.tracker.calls)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, recruiter.UserID, f.notifier.events[0].Subject)
}

func TestEmployerAccess_ApproveRequiresActiveRecruiter(t *testing.T) {
	for name, change := range map[string]func(u *entity.User){
		"role reassigned": func(u *entity.User) { u.Role = rbac.RoleManager },
		"deactivated":     func(u *entity.User) { u.IsActive = false },
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			svc := requests.NewEmployerAccess(f.deps, memApps{f.store}, f.tracker)
			ctx := context.Background()

			app, err := svc.Apply(ctx, recruiter, dto.EmployerAccessRequest{CompanyName: "Acme"})
			require.NoError(t, err)

			u := f.store.user(recruiter.UserID)
			change(&u)
			f.store.addUser(u)

			_, err = svc.Review(ctx, admin, app.ID, entity.RequestApproved, "")
			assert.ErrorIs(t, err, domain.ErrInvalidTarget)
			assert.Equal(t, u.Role, f.store.user(recruiter.UserID).Role, "role untouched")
			assert.Equal(t, entity.RequestPending, f.store.apps[app.ID].Status, "application stays pending")
			assert.Empty(t, f.tracker.calls)

			reviewed, err := svc.Review(ctx, admin, app.ID, entity.RequestRejected, "role changed")
			require.NoError(t, err, "it can still be rejected")
			assert.Equal(t, entity.RequestRejected, reviewed.Status)
		})
	}
}

func TestEmployerAccess_TerminalRequestIsNotReopened(t *testing.T) {
	f := newFixture()
	svc := requests.NewEmployerAccess(f.deps, memApps{f.store}, f.tracker)
	ctx := context.Background()

	app, err := svc.Apply(ctx, recruiter, dto.EmployerAccessRequest{CompanyName: "Acme"})
	require.NoError(t, err)
	_, err = svc.Review(ctx, admin, app.ID, entity.RequestRejected, "not now")
	require.NoError(t, err)

	_, err = svc.Review(ctx, admin, app.ID, entity.RequestApproved, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrTerminalState)

	assert.Equal(t, rbac.RoleRecruiter, f.store.user(recruiter.UserID).Role)
	assert.Empty(t, f.tracker.calls)

	_, err = svc.Apply(ctx, recruiter, dto.EmployerAccessRequest{CompanyName: "Acme"})
	assert.NoError(t, err, "a decided application allows a fresh one")
}

func TestEmployerAccess_ReviewRequiresAdmin(t *testing.T) {
	f := newFixture()
	svc := requests.NewEmployerAccess(f.deps, memApps{f.store}, f.tracker)
	ctx := context.Background()

	app, err := svc.Apply(ctx, recruiter, dto.EmployerAccessRequest{CompanyName: "Acme"})
	require.NoError(t, err)

	_, err = svc.Review(ctx, employer, app.ID, entity.RequestApproved, "")
	assert.ErrorIs(t, err, domain.ErrRoleInsufficient)

	_, err = svc.Review(ctx, admin, "missing", entity.RequestApproved, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Review(ctx, admin, app.ID, entity.RequestPending, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEmployerAccess_MyStatus(t *testing.T) {
	f := newFixture()
	svc := requests.NewEmployerAccess(f.deps, memApps{f.store}, f.tracker)
	ctx := context.Background()

	_, err := svc.MyStatus(ctx, recruiter)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Apply(ctx, recruiter, dto.EmployerAccessRequest{CompanyName: "Acme"})
	require.NoError(t, err)

	app, err := svc.MyStatus(ctx, recruiter)
	require.NoError(t, err)
	assert.Equal(t, "Acme", app.CompanyName)

	views, err := svc.List(ctx, admin, repositoryFilter(entity.RequestPending))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, recruiter.Email, views[0].Recruiter.Email)
}

// ──────────────────────────────────────────────────────────────────────────────
// User creation
// ──────────────────────────────────────────────────────────────────────────────

func TestUserCreation_ApproveThenRevealOnce(t *testing.T) {
	f := newFixture()
	svc := requests.NewUserCreation(f.deps, memCreations{f.store}, f.cache)
	ctx := context.Background()

	req, err := svc.Create(ctx, employer, dto.UserCreationInput{
		Name: "New Hire", Email: "New.Hire@A.com", Role: "employee", ManagerID: "mgr-a",
	})
	require.NoError(t, err)
	assert.Equal(t, "new.hire@a.com", req.Email)
	assert.Equal(t, companyA, req.CompanyID)

	reviewed, err := svc.Review(ctx, admin, req.ID, entity.RequestApproved, "")
	require.NoError(t, err)
	require.NotEmpty(t, reviewed.CreatedUserID)

	created := f.store.user(reviewed.CreatedUserID)
	assert.Equal(t, rbac.RoleEmployee, created.Role)
	assert.Equal(t, companyA, created.CompanyID)
	assert.Equal(t, "team-a", created.TeamID, "team inherited from the manager")
	assert.True(t, created.IsActive)

	cred, err := svc.RevealCredential(ctx, employer, req.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, cred.UserID)
	assert.Len(t, cred.Password, requests.PasswordLength)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte(cred.Password)))

	_, err = svc.RevealCredential(ctx, employer, req.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "credential is revealed at most once")
	_, ok, _ := f.cache.Get(ctx, req.ID)
	assert.False(t, ok)
}

func TestUserCreation_RevealRestrictedToRequesterAndAdmins(t *testing.T) {
	f := newFixture()
	svc := requests.NewUserCreation(f.deps, memCreations{f.store}, nil)
	ctx := context.Background()

	req, err := svc.Create(ctx, employer, dto.UserCreationInput{Name: "N", Email: "n@a.com", Role: "manager"})
	require.NoError(t, err)

	_, err = svc.RevealCredential(ctx, admin, req.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "pending requests have no credential")

	_, err = svc.Review(ctx, admin, req.ID, entity.RequestApproved, "")
	require.NoError(t, err)

	other := &rbac.Identity{UserID: "mgr-a", Role: rbac.RoleManager, CompanyID: companyA}
	_, err = svc.RevealCredential(ctx, other, req.ID)
	assert.ErrorIs(t, err, domain.ErrRoleInsufficient)

	cred, err := svc.RevealCredential(ctx, admin, req.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, cred.Password)
}

func TestUserCreation_DuplicateEmailLeavesRequestPending(t *testing.T) {
	f := newFixture()
	svc := requests.NewUserCreation(f.deps, memCreations{f.store}, f.cache)
	ctx := context.Background()

	req, err := svc.Create(ctx, employer, dto.UserCreationInput{Name: "Dup", Email: "dup@a.com", Role: "employee"})
	require.NoError(t, err)

	f.store.addUser(entity.User{ID: "squatter", Email: "dup@a.com", Role: rbac.RoleApplicant, IsActive: true})

	_, err = svc.Review(ctx, admin, req.ID, entity.RequestApproved, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	stored, err := memCreations{f.store}.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestPending, stored.Status)
	assert.Empty(t, stored.CreatedUserID)
	assert.Empty(t, f.store.creds)
	assert.Empty(t, f.cache.m)
}

func TestUserCreation_CreateValidation(t *testing.T) {
	f := newFixture()
	svc := requests.NewUserCreation(f.deps, memCreations{f.store}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, employer, dto.UserCreationInput{Name: "X", Email: "x@a.com", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, employer, dto.UserCreationInput{Name: "X", Email: "x@a.com", Role: "employee", ManagerID: "mgr-b"})
	assert.ErrorIs(t, err, domain.ErrTenantMismatch)

	_, err = svc.Create(ctx, employer, dto.UserCreationInput{Name: "X", Email: "x@a.com", Role: "employee", ManagerID: "worker-a"})
	assert.ErrorIs(t, err, domain.ErrValidation, "manager must hold the manager role")

	_, err = svc.Create(ctx, employer, dto.UserCreationInput{Name: "X", Email: "worker@a.com", Role: "employee"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = svc.Create(ctx, recruiter, dto.UserCreationInput{Name: "X", Email: "x@a.com", Role: "employee"})
	assert.ErrorIs(t, err, domain.ErrRoleInsufficient)
}

func TestUserCreation_RejectKeepsReason(t *testing.T) {
	f := newFixture()
	svc := requests.NewUserCreation(f.deps, memCreations{f.store}, nil)
	ctx := context.Background()

	req, err := svc.Create(ctx, employer, dto.UserCreationInput{Name: "X", Email: "x@a.com", Role: "employee"})
	require.NoError(t, err)

	reviewed, err := svc.Review(ctx, admin, req.ID, entity.RequestRejected, "budget freeze")
	require.NoError(t, err)
	assert.Equal(t, "budget freeze", reviewed.RejectionReason)
	assert.Empty(t, reviewed.CreatedUserID)

	list, err := svc.ListForCompany(ctx, employer, repositoryFilter(""))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Employee deletion
// ──────────────────────────────────────────────────────────────────────────────

func TestEmployeeDeletion_ApproveDeactivates(t *testing.T) {
	f := newFixture()
	svc := requests.NewEmployeeDeletion(f.deps, memDeletions{f.store})
	ctx := context.Background()

	req, err := svc.Create(ctx, employer, dto.EmployeeDeletionInput{EmployeeID: "worker-a", Reason: "left"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, employer, dto.EmployeeDeletionInput{EmployeeID: "worker-a", Reason: "again"})
	assert.ErrorIs(t, err, domain.ErrConflict, "one pending request per employee")

	_, err = svc.Review(ctx, admin, req.ID, entity.RequestApproved, "ok")
	require.NoError(t, err)

	worker := f.store.user("worker-a")
	assert.False(t, worker.IsActive)
	require.NotNil(t, worker.DeactivatedAt)
	assert.Equal(t, "worker@a.com", worker.Email, "soft delete keeps the row")

	_, err = svc.Create(ctx, employer, dto.EmployeeDeletionInput{EmployeeID: "worker-a", Reason: "left"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Review(ctx, admin, req.ID, entity.RequestRejected, "")
	assert.ErrorIs(t, err, domain.ErrTerminalState)
}

func TestEmployeeDeletion_Scope(t *testing.T) {
	f := newFixture()
	svc := requests.NewEmployeeDeletion(f.deps, memDeletions{f.store})
	ctx := context.Background()

	_, err := svc.Create(ctx, employer, dto.EmployeeDeletionInput{EmployeeID: "worker-b", Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrTenantMismatch)

	_, err = svc.Create(ctx, employer, dto.EmployeeDeletionInput{EmployeeID: employer.UserID, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	_, err = svc.Create(ctx, employer, dto.EmployeeDeletionInput{EmployeeID: "ghost", Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Create(ctx, employer, dto.EmployeeDeletionInput{EmployeeID: "worker-a"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEmployeeDeletion_RejectLeavesEmployeeActive(t *testing.T) {
	f := newFixture()
	svc := requests.NewEmployeeDeletion(f.deps, memDeletions{f.store})
	ctx := context.Background()

	req, err := svc.Create(ctx, employer, dto.EmployeeDeletionInput{EmployeeID: "mgr-a", Reason: "restructure"})
	require.NoError(t, err)
	_, err = svc.Review(ctx, admin, req.ID, entity.RequestRejected, "keep")
	require.NoError(t, err)
	assert.True(t, f.store.user("mgr-a").IsActive)

	views, err := svc.ListForCompany(ctx, employer, repositoryFilter(""))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "mgr-a", views[0].Employee.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Password generation
// ──────────────────────────────────────────────────────────────────────────────

func TestGeneratePassword(t *testing.T) {
	for i := 0; i < 50; i++ {
		pw, err := requests.GeneratePassword(requests.PasswordLength)
		require.NoError(t, err)
		assert.Len(t, pw, requests.PasswordLength)
		assert.True(t, strings.ContainsAny(pw, "abcdefghijkmnopqrstuvwxyz"))
		assert.True(t, strings.ContainsAny(pw, "ABCDEFGHJKLMNPQRSTUVWXYZ"))
		assert.True(t, strings.ContainsAny(pw, "23456789"))
		assert.True(t, strings.ContainsAny(pw, "!@#$%*-_"))
		assert.False(t, strings.ContainsAny(pw, "0O1lI"))
	}

	short, err := requests.GeneratePassword(3)
	require.NoError(t, err)
	assert.Len(t, short, 8)
}
