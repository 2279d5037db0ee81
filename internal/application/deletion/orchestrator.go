// Package deletion removes an employer, or a whole company, together with every
// dependent row, inside one transaction.
package deletion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/cascade"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
	"github.com/jhoicas/talent-api/pkg/logger"
)

// DefaultTimeout bounds a cascade when none is configured.
const DefaultTimeout = 30 * time.Second

// TxRunner runs fn inside one database transaction. fn returning an error
// rolls back everything it did.
type TxRunner interface {
	RunCascade(ctx context.Context, fn func(store repository.CascadeStore) error) error
}

// Orchestrator executes cascade plans. A failed cascade is never retried: the
// caller sees TransactionFailed and decides whether to invoke it again.
type Orchestrator struct {
	tx       TxRunner
	audits   repository.DeletionAuditRepository
	gate     *rbac.Gate
	receipts ports.ReceiptRenderer
	notifier ports.Notifier
	metrics  ports.Metrics
	timeout  time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// Options are the optional collaborators of the orchestrator.
type Options struct {
	Receipts ports.ReceiptRenderer
	Notifier ports.Notifier
	Metrics  ports.Metrics
	Timeout  time.Duration
}

// NewOrchestrator builds the orchestrator.
func NewOrchestrator(tx TxRunner, audits repository.DeletionAuditRepository, gate *rbac.Gate, log *logger.Logger, opts Options) *Orchestrator {
	o := &Orchestrator{
		tx:       tx,
		audits:   audits,
		gate:     gate,
		receipts: opts.Receipts,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		timeout:  opts.Timeout,
		log:      log.Named("deletion"),
		now:      time.Now,
	}
	if o.notifier == nil {
		o.notifier = ports.NopNotifier{}
	}
	if o.metrics == nil {
		o.metrics = ports.NopMetrics{}
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}
	return o
}

// DeleteEmployer removes employerID. Without a company only that user's rows
// go; with a company every user of the company and the company itself go.
func (o *Orchestrator) DeleteEmployer(ctx context.Context, actor *rbac.Identity, employerID string) (*entity.DeletionResult, error) {
	if err := o.authorize(actor, rbac.CapDeleteEmployers); err != nil {
		return nil, err
	}
	if employerID == "" {
		return nil, domain.Validationf("employer id is required")
	}

	return o.run(ctx, actor, "employer "+employerID, func(ctx context.Context, store repository.CascadeStore) (*plan, error) {
		user, err := store.GetUser(ctx, employerID)
		if err != nil {
			return nil, fmt.Errorf("load employer: %w", err)
		}
		if user == nil {
			return nil, domain.NotFoundf("employer %s", employerID)
		}
		if user.Role != rbac.RoleEmployer {
			return nil, fmt.Errorf("user %s has role %s, expected employer: %w", user.ID, user.Role, domain.ErrInvalidTarget)
		}
		if !user.HasCompany() {
			return &plan{root: user, steps: cascade.SingleUserPlan(user.ID)}, nil
		}
		return o.companyPlan(ctx, store, user, user.CompanyID)
	})
}

// DeleteCompany removes a company with all its users. The company's earliest
// employer is recorded as the root; a company without users is removed alone.
func (o *Orchestrator) DeleteCompany(ctx context.Context, actor *rbac.Identity, companyID string) (*entity.DeletionResult, error) {
	if err := o.authorize(actor, rbac.CapDeleteEmployers); err != nil {
		return nil, err
	}
	if companyID == "" {
		return nil, domain.Validationf("company id is required")
	}

	return o.run(ctx, actor, "company "+companyID, func(ctx context.Context, store repository.CascadeStore) (*plan, error) {
		root, err := store.FirstEmployer(ctx, companyID)
		if err != nil {
			return nil, fmt.Errorf("load company employer: %w", err)
		}
		return o.companyPlan(ctx, store, root, companyID)
	})
}

type plan struct {
	root    *entity.User
	company *entity.Company
	steps   []cascade.Step
}

func (o *Orchestrator) companyPlan(ctx context.Context, store repository.CascadeStore, root *entity.User, companyID string) (*plan, error) {
	if err := store.LockCompany(ctx, companyID); err != nil {
		return nil, fmt.Errorf("lock company: %w", err)
	}
	company, err := store.GetCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}
	if company == nil {
		return nil, domain.NotFoundf("company %s", companyID)
	}
	ids, err := store.CompanyUserIDs(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("collect company users: %w", err)
	}
	rootID := ""
	if root != nil {
		rootID = root.ID
	}
	return &plan{root: root, company: company, steps: cascade.CompanyPlan(rootID, companyID, ids)}, nil
}

func (o *Orchestrator) run(
	ctx context.Context,
	actor *rbac.Identity,
	target string,
	resolve func(ctx context.Context, store repository.CascadeStore) (*plan, error),
) (*entity.DeletionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := o.now()
	var result *entity.DeletionResult
	err := o.tx.RunCascade(ctx, func(store repository.CascadeStore) error {
		p, err := resolve(ctx, store)
		if err != nil {
			return err
		}
		stats, err := o.execute(ctx, store, p.steps)
		if err != nil {
			return err
		}
		audit := o.audit(actor, p, stats, o.now().Sub(start))
		if err := store.SaveAudit(ctx, audit); err != nil {
			return fmt.Errorf("save deletion audit: %w", err)
		}
		result = &entity.DeletionResult{
			AuditID:   audit.ID,
			RootID:    audit.RootUserID,
			RootEmail: audit.RootEmail,
			CompanyID: audit.CompanyID,
			Stats:     stats,
		}
		return nil
	})
	elapsed := o.now().Sub(start)
	if err != nil {
		err = o.classify(ctx, target, err)
		o.metrics.CascadeFailed(failureReason(err), elapsed)
		o.log.Error().Err(err).Str("target", target).Str("actor_id", actor.UserID).
			Dur("elapsed", elapsed).Msg("cascade rolled back")
		return nil, err
	}

	o.metrics.CascadeCompleted(result.Stats, elapsed)
	o.log.Info().Str("target", target).Str("actor_id", actor.UserID).Str("audit_id", result.AuditID).
		Int64("users", result.Stats.Users).Int64("jobs", result.Stats.Jobs).
		Int64("teams", result.Stats.Teams).Int64("reports", result.Stats.Reports).
		Dur("elapsed", elapsed).Msg("cascade committed")

	o.publish(ctx, actor, result)
	return result, nil
}

func (o *Orchestrator) execute(ctx context.Context, store repository.CascadeStore, steps []cascade.Step) (entity.DeletionStats, error) {
	var stats entity.DeletionStats
	for i, step := range steps {
		if step.Where.Empty() {
			continue
		}
		n, err := store.Apply(ctx, step)
		if err != nil {
			return stats, fmt.Errorf("step %d (%s): %w", i+1, step.Category, err)
		}
		cascade.Tally(&stats, step.Category, n)
		o.log.Debug().Int("step", i+1).Str("category", string(step.Category)).
			Str("action", step.Action.String()).Int64("rows", n).Msg("cascade step")
	}
	return stats, nil
}

func (o *Orchestrator) audit(actor *rbac.Identity, p *plan, stats entity.DeletionStats, elapsed time.Duration) *entity.DeletionAudit {
	a := &entity.DeletionAudit{
		ID:         uuid.New().String(),
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Stats:      stats,
		Duration:   elapsed,
		CreatedAt:  o.now().UTC(),
	}
	if p.root != nil {
		a.RootUserID = p.root.ID
		a.RootEmail = p.root.Email
	}
	if p.company != nil {
		a.CompanyID = p.company.ID
		a.CompanyName = p.company.Name
	}
	return a
}

// classify keeps NotFound and InvalidTarget as they are; everything else that
// aborted the transaction surfaces as TransactionFailed.
func (o *Orchestrator) classify(ctx context.Context, target string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidTarget):
		return err
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("delete %s: timed out after %s: %w", target, o.timeout, domain.ErrTransactionFailed)
	default:
		return fmt.Errorf("delete %s: %w: %w", target, domain.ErrTransactionFailed, err)
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidTarget):
		return "invalid_target"
	default:
		return "transaction_failed"
	}
}

func (o *Orchestrator) publish(ctx context.Context, actor *rbac.Identity, r *entity.DeletionResult) {
	err := o.notifier.Notify(context.WithoutCancel(ctx), ports.Event{
		Type:    ports.EventEmployerDeleted,
		Subject: r.RootID,
		ActorID: actor.UserID,
		Data: map[string]any{
			"auditId":   r.AuditID,
			"companyId": r.CompanyID,
			"stats":     r.Stats,
		},
		OccurredAt: o.now().UTC(),
	})
	if err != nil {
		o.log.Warn().Err(err).Str("audit_id", r.AuditID).Msg("deletion notification failed")
	}
}

func (o *Orchestrator) authorize(actor *rbac.Identity, c rbac.Capability) error {
	d := o.gate.Authorize(actor, c)
	o.metrics.AuthzDecision(c, d)
	if !d.Allowed {
		o.log.Warn().Str("capability", string(c)).Str("reason", string(d.Reason)).Msg("cascade denied")
	}
	return d.Err()
}

// ListAudits returns completed cascades, newest first.
func (o *Orchestrator) ListAudits(ctx context.Context, actor *rbac.Identity, limit, offset int) ([]*entity.DeletionAudit, error) {
	if err := o.authorize(actor, rbac.CapDeleteEmployers); err != nil {
		return nil, err
	}
	return o.audits.List(ctx, limit, offset)
}

// Receipt renders the audit of a completed cascade as a PDF.
func (o *Orchestrator) Receipt(ctx context.Context, actor *rbac.Identity, auditID string) ([]byte, error) {
	if err := o.authorize(actor, rbac.CapDeleteEmployers); err != nil {
		return nil, err
	}
	if o.receipts == nil {
		return nil, fmt.Errorf("receipt renderer not configured")
	}
	a, err := o.audits.GetByID(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.NotFoundf("deletion audit %s", auditID)
	}
	return o.receipts.RenderDeletionReceipt(a)
}
