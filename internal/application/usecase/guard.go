package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
	"github.com/jhoicas/talent-api/pkg/logger"
)

// RoleRecorder logs committed role transitions.
type RoleRecorder interface {
	Record(ctx context.Context, userID string, newRole rbac.Role)
}

// Guard bundles the gate with the lookups every use case needs to scope a
// caller: the gate itself, the caller's current row and decision metrics.
type Guard struct {
	gate    *rbac.Gate
	users   repository.UserRepository
	metrics ports.Metrics
	log     *logger.Logger
}

// NewGuard builds a guard. metrics may be nil.
func NewGuard(gate *rbac.Gate, users repository.UserRepository, metrics ports.Metrics, log *logger.Logger) *Guard {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Guard{gate: gate, users: users, metrics: metrics, log: log.Named("authz")}
}

// Allow checks the role table.
func (g *Guard) Allow(actor *rbac.Identity, c rbac.Capability) error {
	return g.observe(actor, c, g.gate.Authorize(actor, c))
}

// AllowResource checks the role table and the owner's tenant. A nil owner is
// a missing resource.
func (g *Guard) AllowResource(actor *rbac.Identity, c rbac.Capability, owner *rbac.Owner) error {
	return g.observe(actor, c, g.gate.AuthorizeResource(actor, c, owner))
}

// SameTenant filters list rows once the capability was checked.
func (g *Guard) SameTenant(actor *rbac.Identity, owner rbac.Owner) bool {
	return g.gate.SameTenant(actor, owner)
}

func (g *Guard) observe(actor *rbac.Identity, c rbac.Capability, d rbac.Decision) error {
	g.metrics.AuthzDecision(c, d)
	if !d.Allowed {
		ev := g.log.Warn().Str("capability", string(c)).Str("reason", string(d.Reason))
		if actor != nil {
			ev = ev.Str("user_id", actor.UserID).Str("role", actor.Role.String()).Str("company_id", actor.CompanyID)
		}
		ev.Msg("access denied")
	}
	return d.Err()
}

// Current reloads the caller. Company affiliation can change after the token
// was issued, so tenant checks use the database value; the returned identity
// carries it.
func (g *Guard) Current(ctx context.Context, actor *rbac.Identity) (*rbac.Identity, *entity.User, error) {
	if actor == nil || actor.UserID == "" {
		return nil, nil, domain.ErrNotAuthenticated
	}
	u, err := g.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("load caller: %w", err)
	}
	if u == nil || !u.IsActive {
		return nil, nil, fmt.Errorf("caller %s is gone or inactive: %w", actor.UserID, domain.ErrNotAuthenticated)
	}
	fresh := *actor
	fresh.CompanyID = u.CompanyID
	return &fresh, u, nil
}

// CompanyOf is Current for operations that only make sense inside a company.
func (g *Guard) CompanyOf(ctx context.Context, actor *rbac.Identity) (*rbac.Identity, error) {
	fresh, _, err := g.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !fresh.HasCompany() {
		return nil, domain.Validationf("caller has no company")
	}
	return fresh, nil
}
