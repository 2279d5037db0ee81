package rbac

import (
	"time"

	"github.com/jhoicas/talent-api/internal/domain"
)

// Identity is the verified caller decoded from the session token.
type Identity struct {
	UserID    string
	Email     string
	Role      Role
	Name      string
	CompanyID string
	IssuedAt  time.Time
}

// HasCompany reports whether the caller carries a company affiliation.
func (i *Identity) HasCompany() bool { return i != nil && i.CompanyID != "" }

// Owner describes who a resource belongs to for tenant scoping.
// UserID is the creating/submitting user; CompanyID may be empty for
// resources created by users without a company.
type Owner struct {
	CompanyID string
	UserID    string
}

// DenyReason enumerates why the gate refused.
type DenyReason string

const (
	ReasonNone             DenyReason = ""
	ReasonNotAuthenticated DenyReason = "NotAuthenticated"
	ReasonRoleInsufficient DenyReason = "RoleInsufficient"
	ReasonTenantMismatch   DenyReason = "TenantMismatch"
	ReasonResourceNotFound DenyReason = "ResourceNotFound"
)

// Decision is the gate outcome: Permitted, or Denied with a reason.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Permitted is the allowing decision.
func Permitted() Decision { return Decision{Allowed: true} }

// Denied builds a refusing decision.
func Denied(reason DenyReason) Decision { return Decision{Reason: reason} }

// Err maps a denial onto the domain error taxonomy; nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonNotAuthenticated:
		return domain.ErrNotAuthenticated
	case ReasonTenantMismatch:
		return domain.ErrTenantMismatch
	case ReasonResourceNotFound:
		return domain.ErrNotFound
	default:
		return domain.ErrRoleInsufficient
	}
}

// Gate decides allow/deny from role, ownership and tenant. It has no side effects.
type Gate struct {
	// StrictTenantMode: when false, a caller whose own company is empty passes
	// the tenant comparison (single-tenant fallback). When true such callers
	// are denied with TenantMismatch on any resource they do not own.
	StrictTenantMode bool
}

// NewGate builds a gate with the given tenant policy.
func NewGate(strictTenantMode bool) *Gate {
	return &Gate{StrictTenantMode: strictTenantMode}
}

// Authorize checks the role -> capability table only.
func (g *Gate) Authorize(id *Identity, c Capability) Decision {
	if id == nil || id.UserID == "" {
		return Denied(ReasonNotAuthenticated)
	}
	if !Has(id.Role, c) {
		return Denied(ReasonRoleInsufficient)
	}
	return Permitted()
}

// AuthorizeResource checks the capability, then scopes it to the resource owner.
// A nil owner means the resource does not exist.
func (g *Gate) AuthorizeResource(id *Identity, c Capability, owner *Owner) Decision {
	if d := g.Authorize(id, c); !d.Allowed {
		return d
	}
	if owner == nil {
		return Denied(ReasonResourceNotFound)
	}
	if !g.tenantAllows(id, owner) {
		return Denied(ReasonTenantMismatch)
	}
	return Permitted()
}

// SameTenant is the tenant comparison alone, used to filter lists after the
// capability was checked once for the whole list.
func (g *Gate) SameTenant(id *Identity, owner Owner) bool {
	if id == nil || id.UserID == "" {
		return false
	}
	return g.tenantAllows(id, &owner)
}

func (g *Gate) tenantAllows(id *Identity, owner *Owner) bool {
	switch {
	case id.Role.IsAdmin():
		return true
	case owner.UserID != "" && owner.UserID == id.UserID:
		return true
	case !id.HasCompany():
		return !g.StrictTenantMode
	default:
		return owner.CompanyID == id.CompanyID
	}
}
