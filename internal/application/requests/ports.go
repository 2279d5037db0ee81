// Package requests implements the admin-reviewed workflows: employer access,
// user creation and employee deletion. Each request moves pending -> approved
// or rejected exactly once.
package requests

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
	"github.com/jhoicas/talent-api/pkg/logger"
)

// TxRepos are repositories bound to one transaction.
type TxRepos struct {
	Users        repository.UserRepository
	Applications repository.EmployerApplicationRepository
	Creations    repository.UserCreationRequestRepository
	Deletions    repository.EmployeeDeletionRequestRepository
	Credentials  repository.CredentialRepository
}

// TxRunner runs fn in one transaction; an error from fn rolls it back.
type TxRunner interface {
	RunRequests(ctx context.Context, fn func(repos TxRepos) error) error
}

// Deps are the collaborators shared by the three workflows.
type Deps struct {
	Tx       TxRunner
	Users    repository.UserRepository
	Gate     *rbac.Gate
	Notifier ports.Notifier
	Metrics  ports.Metrics
	Log      *logger.Logger
}

type base struct {
	tx       TxRunner
	users    repository.UserRepository
	gate     *rbac.Gate
	notifier ports.Notifier
	metrics  ports.Metrics
	log      *logger.Logger
	now      func() time.Time
}

func newBase(d Deps, component string) base {
	b := base{
		tx:       d.Tx,
		users:    d.Users,
		gate:     d.Gate,
		notifier: d.Notifier,
		metrics:  d.Metrics,
		log:      d.Log.Named(component),
		now:      time.Now,
	}
	if b.notifier == nil {
		b.notifier = ports.NopNotifier{}
	}
	if b.metrics == nil {
		b.metrics = ports.NopMetrics{}
	}
	return b
}

func (b *base) authorize(actor *rbac.Identity, c rbac.Capability) error {
	d := b.gate.Authorize(actor, c)
	b.metrics.AuthzDecision(c, d)
	if !d.Allowed {
		ev := b.log.Warn().Str("capability", string(c)).Str("reason", string(d.Reason))
		if actor != nil {
			ev = ev.Str("user_id", actor.UserID).Str("role", actor.Role.String())
		}
		ev.Msg("request denied")
	}
	return d.Err()
}

func (b *base) notify(ctx context.Context, e ports.Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = b.now().UTC()
	}
	if err := b.notifier.Notify(context.WithoutCancel(ctx), e); err != nil {
		b.log.Warn().Err(err).Str("event", e.Type).Str("subject", e.Subject).Msg("notification failed")
	}
}

// requester loads the caller's own row; the token may predate a company change.
func (b *base) requester(ctx context.Context, actor *rbac.Identity) (*entity.User, error) {
	u, err := b.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("load requester: %w", err)
	}
	if u == nil || !u.IsActive {
		return nil, fmt.Errorf("requester %s no longer active: %w", actor.UserID, domain.ErrNotAuthenticated)
	}
	return u, nil
}
