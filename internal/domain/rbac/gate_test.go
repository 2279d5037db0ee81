package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
)

const (
	testCompanyA = "00000000-0000-0000-0000-00000000000a"
	testCompanyB = "00000000-0000-0000-0000-00000000000b"
)

func identity(role rbac.Role, companyID string) *rbac.Identity {
	return &rbac.Identity{UserID: "user-" + string(role), Email: string(role) + "@example.com", Role: role, CompanyID: companyID}
}

func TestParseRole(t *testing.T) {
	r, ok := rbac.ParseRole(" Employer ")
	require.True(t, ok)
	assert.Equal(t, rbac.RoleEmployer, r)

	r, ok = rbac.ParseRole("super_admin")
	require.True(t, ok)
	assert.True(t, r.IsAdmin())

	_, ok = rbac.ParseRole("root")
	assert.False(t, ok, "roles outside the closed set must be rejected")

	_, ok = rbac.ParseRole("")
	assert.False(t, ok)
}

func TestAdministrativeCapabilities_OnlyAdminRoles(t *testing.T) {
	g := rbac.NewGate(false)
	for _, role := range rbac.AllRoles() {
		for _, c := range rbac.AdministrativeCapabilities() {
			d := g.Authorize(identity(role, testCompanyA), c)
			if role.IsAdmin() {
				assert.True(t, d.Allowed, "%s must hold %s", role, c)
			} else {
				assert.False(t, d.Allowed, "%s must never hold %s", role, c)
				assert.Equal(t, rbac.ReasonRoleInsufficient, d.Reason)
			}
		}
	}
}

func TestAuthorize_IsDeterministic(t *testing.T) {
	g := rbac.NewGate(true)
	for _, role := range rbac.AllRoles() {
		for _, c := range rbac.CapabilitiesOf(rbac.RoleSuperadmin) {
			first := g.Authorize(identity(role, ""), c)
			for i := 0; i < 3; i++ {
				assert.Equal(t, first, g.Authorize(identity(role, ""), c))
			}
			assert.Equal(t, rbac.Has(role, c), first.Allowed)
		}
	}
}

func TestAuthorize_Unauthenticated(t *testing.T) {
	g := rbac.NewGate(false)
	d := g.Authorize(nil, rbac.CapViewJobs)
	assert.False(t, d.Allowed)
	assert.Equal(t, rbac.ReasonNotAuthenticated, d.Reason)
	assert.ErrorIs(t, d.Err(), domain.ErrNotAuthenticated)

	d = g.Authorize(&rbac.Identity{Role: rbac.RoleAdmin}, rbac.CapViewJobs)
	assert.Equal(t, rbac.ReasonNotAuthenticated, d.Reason, "identity without user id is unauthenticated")
}

func TestAuthorize_UnknownRoleHoldsNothing(t *testing.T) {
	g := rbac.NewGate(false)
	d := g.Authorize(&rbac.Identity{UserID: "u1", Role: rbac.Role("root")}, rbac.CapViewJobs)
	assert.False(t, d.Allowed)
	assert.ErrorIs(t, d.Err(), domain.ErrRoleInsufficient)
}

func TestAuthorizeResource(t *testing.T) {
	ownerA := &rbac.Owner{CompanyID: testCompanyA, UserID: "someone-else"}

	cases := []struct {
		name   string
		strict bool
		caller *rbac.Identity
		cap    rbac.Capability
		owner  *rbac.Owner
		want   rbac.Decision
	}{
		{"same company", false, identity(rbac.RoleEmployer, testCompanyA), rbac.CapUpdateCandidateStatus, ownerA, rbac.Permitted()},
		{"other company", false, identity(rbac.RoleEmployer, testCompanyB), rbac.CapUpdateCandidateStatus, ownerA, rbac.Denied(rbac.ReasonTenantMismatch)},
		{"admin bypasses tenant", true, identity(rbac.RoleAdmin, ""), rbac.CapUpdateCandidateStatus, ownerA, rbac.Permitted()},
		{"super_admin bypasses tenant", true, identity(rbac.RoleSuperAdmin, testCompanyB), rbac.CapManageJobs, ownerA, rbac.Permitted()},
		{"missing resource", false, identity(rbac.RoleEmployer, testCompanyA), rbac.CapManageJobs, nil, rbac.Denied(rbac.ReasonResourceNotFound)},
		{"role checked before resource", false, identity(rbac.RoleApplicant, testCompanyA), rbac.CapManageJobs, nil, rbac.Denied(rbac.ReasonRoleInsufficient)},
		{"null company lenient", false, identity(rbac.RoleEmployer, ""), rbac.CapManageJobs, ownerA, rbac.Permitted()},
		{"null company strict", true, identity(rbac.RoleEmployer, ""), rbac.CapManageJobs, ownerA, rbac.Denied(rbac.ReasonTenantMismatch)},
		{"owner without company strict", true, identity(rbac.RoleRecruiter, ""), rbac.CapManageJobs, &rbac.Owner{UserID: "user-recruiter"}, rbac.Permitted()},
		{"companyless resource from other tenant", false, identity(rbac.RoleManager, testCompanyA), rbac.CapManageJobs, &rbac.Owner{UserID: "x"}, rbac.Denied(rbac.ReasonTenantMismatch)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := rbac.NewGate(tc.strict)
			assert.Equal(t, tc.want, g.AuthorizeResource(tc.caller, tc.cap, tc.owner))
		})
	}
}

func TestJobApplicationCapabilities(t *testing.T) {
	assert.True(t, rbac.Has(rbac.RoleApplicant, rbac.CapApplyJobs))
	for _, r := range []rbac.Role{rbac.RoleRecruiter, rbac.RoleEmployee, rbac.RoleManager, rbac.RoleEmployer, rbac.RoleAdmin} {
		assert.False(t, rbac.Has(r, rbac.CapApplyJobs), "%s cannot apply", r)
	}
	for _, r := range []rbac.Role{rbac.RoleRecruiter, rbac.RoleManager, rbac.RoleEmployer, rbac.RoleAdmin, rbac.RoleSuperadmin} {
		assert.True(t, rbac.Has(r, rbac.CapReviewJobApplications), "%s reviews", r)
	}
	assert.False(t, rbac.Has(rbac.RoleEmployee, rbac.CapReviewJobApplications))
	assert.False(t, rbac.Has(rbac.RoleApplicant, rbac.CapReviewJobApplications))
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, rbac.Permitted().Err())
	assert.ErrorIs(t, rbac.Denied(rbac.ReasonTenantMismatch).Err(), domain.ErrTenantMismatch)
	assert.ErrorIs(t, rbac.Denied(rbac.ReasonResourceNotFound).Err(), domain.ErrNotFound)
	assert.ErrorIs(t, rbac.Denied(rbac.ReasonRoleInsufficient).Err(), domain.ErrRoleInsufficient)
}

func TestSameTenant(t *testing.T) {
	g := rbac.NewGate(true)
	assert.True(t, g.SameTenant(identity(rbac.RoleEmployee, testCompanyA), rbac.Owner{CompanyID: testCompanyA}))
	assert.False(t, g.SameTenant(identity(rbac.RoleEmployee, testCompanyA), rbac.Owner{CompanyID: testCompanyB}))
	assert.False(t, g.SameTenant(nil, rbac.Owner{CompanyID: testCompanyA}))
}
