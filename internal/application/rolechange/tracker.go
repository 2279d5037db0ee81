// Package rolechange keeps the append-only log of role transitions and answers
// whether a session's role has gone stale.
package rolechange

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
	"github.com/jhoicas/talent-api/pkg/logger"
)

// Tracker records role changes after the primary mutation has committed.
// Recording is a best-effort secondary write: a failure is logged and never
// undoes or blocks the role mutation itself.
type Tracker struct {
	repo     repository.RoleChangeRepository
	notifier ports.Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewTracker builds the tracker. notifier may be nil.
func NewTracker(repo repository.RoleChangeRepository, notifier ports.Notifier, log *logger.Logger) *Tracker {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &Tracker{repo: repo, notifier: notifier, log: log.Named("rolechange"), now: time.Now}
}

// Record appends a RoleChange for userID and publishes role.changed.
func (t *Tracker) Record(ctx context.Context, userID string, newRole rbac.Role) {
	rc := &entity.RoleChange{UserID: userID, NewRole: newRole, ChangedAt: t.now().UTC()}
	if err := t.repo.Insert(ctx, rc); err != nil {
		t.log.Error().Err(err).
			Str("user_id", userID).
			Str("new_role", newRole.String()).
			Msg("role change not recorded; sessions for this user will not be invalidated by the log")
		return
	}
	t.log.Info().Str("user_id", userID).Str("new_role", newRole.String()).Msg("role change recorded")

	err := t.notifier.Notify(ctx, ports.Event{
		Type:       ports.EventRoleChanged,
		Subject:    userID,
		Data:       map[string]any{"newRole": newRole.String()},
		OccurredAt: rc.ChangedAt,
	})
	if err != nil {
		t.log.Warn().Err(err).Str("user_id", userID).Msg("role change notification failed")
	}
}

// HasRoleChangedSince reports whether a change for userID was logged after since.
// role is the role the session was issued with; the log alone decides, the
// caller compares it with the current database role separately.
func (t *Tracker) HasRoleChangedSince(ctx context.Context, userID string, role rbac.Role, since time.Time) (bool, error) {
	changed, err := t.repo.ExistsSince(ctx, userID, since)
	if err != nil {
		return false, fmt.Errorf("check role change for %s (%s): %w", userID, role, err)
	}
	return changed, nil
}

// Latest returns the most recent change of userID, or nil.
func (t *Tracker) Latest(ctx context.Context, userID string) (*entity.RoleChange, error) {
	rc, err := t.repo.Latest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("latest role change: %w", err)
	}
	return rc, nil
}
