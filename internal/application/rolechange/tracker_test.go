package rolechange_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/application/rolechange"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/pkg/logger"
)

type memLog struct {
	mu      sync.Mutex
	rows    []entity.RoleChange
	failing bool
}

func (m *memLog) Insert(_ context.Context, rc *entity.RoleChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("connection reset")
	}
	rc.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *rc)
	return nil
}

func (m *memLog) ExistsSince(_ context.Context, userID string, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.UserID == userID && r.ChangedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memLog) Latest(_ context.Context, userID string) (*entity.RoleChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out *entity.RoleChange
	for i := range m.rows {
		if m.rows[i].UserID == userID {
			r := m.rows[i]
			out = &r
		}
	}
	return out, nil
}

type recordingNotifier struct{ events []ports.Event }

func (n *recordingNotifier) Notify(_ context.Context, e ports.Event) error {
	n.events = append(n.events, e)
	return nil
}

func TestTracker_HasRoleChangedSince(t *testing.T) {
	repo := &memLog{}
	tr := rolechange.NewTracker(repo, nil, logger.Nop())
	ctx := context.Background()

	before := time.Now().Add(-time.Minute)
	tr.Record(ctx, "r1", rbac.RoleEmployer)
	after := time.Now().Add(time.Minute)

	changed, err := tr.HasRoleChangedSince(ctx, "r1", rbac.RoleRecruiter, before)
	require.NoError(t, err)
	assert.True(t, changed, "a change after the session start must be reported")

	changed, err = tr.HasRoleChangedSince(ctx, "r1", rbac.RoleRecruiter, after)
	require.NoError(t, err)
	assert.False(t, changed, "sessions issued after the change are current")

	changed, err = tr.HasRoleChangedSince(ctx, "someone-else", rbac.RoleRecruiter, before)
	require.NoError(t, err)
	assert.False(t, changed)

	latest, err := tr.Latest(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, rbac.RoleEmployer, latest.NewRole)
}

func TestTracker_RecordFailureIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	repo := &memLog{failing: true}
	notifier := &recordingNotifier{}
	tr := rolechange.NewTracker(repo, notifier, logger.FromWriter(&buf))

	assert.NotPanics(t, func() { tr.Record(context.Background(), "u1", rbac.RoleManager) })
	assert.Contains(t, buf.String(), "role change not recorded")
	assert.Contains(t, buf.String(), `"user_id":"u1"`)
	assert.Empty(t, notifier.events, "no notification for an unrecorded change")
}

func TestTracker_RecordPublishesEvent(t *testing.T) {
	notifier := &recordingNotifier{}
	tr := rolechange.NewTracker(&memLog{}, notifier, logger.Nop())
	tr.Record(context.Background(), "u1", rbac.RoleEmployer)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, ports.EventRoleChanged, notifier.events[0].Type)
	assert.Equal(t, "u1", notifier.events[0].Subject)
}
