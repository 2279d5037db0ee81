package rbac

// Capability names an operation the gate can permit.
type Capability string

// Administrative capabilities. Only admin roles hold these.
const (
	CapDeleteEmployers         Capability = "employers:delete"
	CapReviewEmployerAccess    Capability = "employer-applications:review"
	CapReviewUserCreation      Capability = "user-creation-requests:review"
	CapReviewEmployeeDeletion  Capability = "deletion-requests:review"
	CapAssignRoles             Capability = "roles:assign"
	CapManageCompanies         Capability = "companies:manage"
	CapViewAdminDashboard      Capability = "admin-dashboard:view"
	CapRevealIssuedCredentials Capability = "credentials:reveal"
)

// Tenant-scoped recruiting capabilities.
const (
	CapManageJobs              Capability = "jobs:manage"
	CapReviewJobApplications   Capability = "job-applications:review"
	CapSubmitCandidates        Capability = "candidates:submit"
	CapUpdateCandidateStatus   Capability = "candidates:update-status"
	CapViewAllocations         Capability = "allocations:view"
	CapManageAllocations       Capability = "allocations:manage"
	CapRequestUserCreation     Capability = "user-creation-requests:create"
	CapRequestEmployeeDeletion Capability = "deletion-requests:create"
	CapManageTeams             Capability = "teams:manage"
	CapChangeCompanyRoles      Capability = "company-roles:change"
	CapManageCompanyProfile    Capability = "company-profile:manage"
	CapWriteReports            Capability = "reports:write"
	CapReadReports             Capability = "reports:read"
)

// Self-service capabilities.
const (
	CapApplyEmployerAccess Capability = "employer-access:apply"
	CapManageProfile       Capability = "profile:manage"
	CapParseResume         Capability = "resume:parse"
	CapViewJobs            Capability = "jobs:view"
	CapApplyJobs           Capability = "jobs:apply"
)

var administrativeCapabilities = []Capability{
	CapDeleteEmployers,
	CapReviewEmployerAccess,
	CapReviewUserCreation,
	CapReviewEmployeeDeletion,
	CapAssignRoles,
	CapManageCompanies,
	CapViewAdminDashboard,
	CapRevealIssuedCredentials,
}

var selfService = []Capability{CapManageProfile, CapParseResume, CapViewJobs}

// roleCapabilities is the single source of truth for role -> capability.
// Every role must have an entry, including roles with only self-service rights.
var roleCapabilities = map[Role]capabilitySet{
	RoleApplicant: newSet(selfService, CapApplyJobs),
	RoleRecruiter: newSet(selfService,
		CapApplyEmployerAccess,
		CapSubmitCandidates,
		CapManageJobs,
		CapReviewJobApplications,
	),
	RoleEmployee: newSet(selfService,
		CapSubmitCandidates,
		CapViewAllocations,
		CapWriteReports,
		CapReadReports,
	),
	RoleManager: newSet(selfService,
		CapSubmitCandidates,
		CapUpdateCandidateStatus,
		CapViewAllocations,
		CapManageAllocations,
		CapManageJobs,
		CapReviewJobApplications,
		CapWriteReports,
		CapReadReports,
	),
	RoleEmployer: newSet(selfService,
		CapSubmitCandidates,
		CapUpdateCandidateStatus,
		CapViewAllocations,
		CapManageAllocations,
		CapManageJobs,
		CapReviewJobApplications,
		CapRequestUserCreation,
		CapRequestEmployeeDeletion,
		CapManageTeams,
		CapChangeCompanyRoles,
		CapManageCompanyProfile,
		CapWriteReports,
		CapReadReports,
	),
	RoleAdmin:      adminSet(),
	RoleSuperadmin: adminSet(),
	RoleSuperAdmin: adminSet(),
}

type capabilitySet map[Capability]struct{}

func newSet(base []Capability, extra ...Capability) capabilitySet {
	s := make(capabilitySet, len(base)+len(extra))
	for _, c := range base {
		s[c] = struct{}{}
	}
	for _, c := range extra {
		s[c] = struct{}{}
	}
	return s
}

// adminSet grants administrative capabilities plus the tenant ones, which
// admins exercise across every company.
func adminSet() capabilitySet {
	s := newSet(selfService, administrativeCapabilities...)
	for _, c := range []Capability{
		CapManageJobs,
		CapReviewJobApplications,
		CapSubmitCandidates,
		CapUpdateCandidateStatus,
		CapViewAllocations,
		CapManageAllocations,
		CapManageTeams,
		CapManageCompanyProfile,
		CapReadReports,
	} {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether role r holds capability c. Unknown roles hold nothing.
func Has(r Role, c Capability) bool {
	set, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	_, ok = set[c]
	return ok
}

// IsAdministrative reports whether c is reserved to admin roles.
func IsAdministrative(c Capability) bool {
	for _, a := range administrativeCapabilities {
		if a == c {
			return true
		}
	}
	return false
}

// AdministrativeCapabilities returns a copy of the admin-only capability list.
func AdministrativeCapabilities() []Capability {
	out := make([]Capability, len(administrativeCapabilities))
	copy(out, administrativeCapabilities)
	return out
}

// CapabilitiesOf returns the capabilities of r, for the session "me" payload.
func CapabilitiesOf(r Role) []Capability {
	set := roleCapabilities[r]
	out := make([]Capability, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}
