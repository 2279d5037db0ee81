package ports

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
)

// Event types published to the notifier.
const (
	EventRoleChanged          = "role.changed"
	EventEmployerDeleted      = "employer.deleted"
	EventEmployerAccessReview = "employer_access.reviewed"
	EventUserProvisioned      = "user.provisioned"
	EventEmployeeDeactivated  = "employee.deactivated"
)

// Event is an outbound notification.
type Event struct {
	Type       string         `json:"type"`
	Subject    string         `json:"subject"`
	ActorID    string         `json:"actorId,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Notifier publishes events. Delivery is best-effort: callers log failures and continue.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// CredentialCache is a local accelerator in front of the durable credential store.
type CredentialCache interface {
	Put(ctx context.Context, requestID, password string) error
	Get(ctx context.Context, requestID string) (string, bool, error)
	Delete(ctx context.Context, requestID string) error
}

// ReceiptRenderer renders a cascade audit as a printable document.
type ReceiptRenderer interface {
	RenderDeletionReceipt(a *entity.DeletionAudit) ([]byte, error)
}

// JobSheet reads and writes the job import spreadsheet.
type JobSheet interface {
	Template() ([]byte, error)
	// Read returns one entry per non-empty data row. Cells that cannot be
	// converted are reported in the row's Error instead of failing the file.
	Read(r io.Reader) ([]dto.JobImportRow, error)
}

// Metrics records authorization and cascade outcomes.
type Metrics interface {
	AuthzDecision(c rbac.Capability, d rbac.Decision)
	CascadeCompleted(stats entity.DeletionStats, elapsed time.Duration)
	CascadeFailed(reason string, elapsed time.Duration)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) AuthzDecision(rbac.Capability, rbac.Decision)          {}
func (NopMetrics) CascadeCompleted(entity.DeletionStats, time.Duration) {}
func (NopMetrics) CascadeFailed(string, time.Duration)                  {}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event) error { return nil }
