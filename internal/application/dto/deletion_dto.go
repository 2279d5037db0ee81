package dto

import (
	"time"

	"github.com/jhoicas/talent-api/internal/domain/entity"
)

// DeleteEmployerRequest admin cascade of an employer.
type DeleteEmployerRequest struct {
	EmployerID string `json:"employerId" validate:"required,uuid"`
}

// DeletionResponse summary returned after a cascade, e.g. "deleted 4 users, 2 jobs".
type DeletionResponse struct {
	Success   bool                 `json:"success"`
	Message   string               `json:"message"`
	AuditID   string               `json:"auditId"`
	CompanyID string               `json:"companyId,omitempty"`
	Stats     entity.DeletionStats `json:"stats"`
}

// DeletionAuditResponse one persisted cascade.
type DeletionAuditResponse struct {
	ID          string               `json:"id"`
	ActorEmail  string               `json:"actorEmail"`
	RootUserID  string               `json:"rootUserId,omitempty"`
	RootEmail   string               `json:"rootEmail,omitempty"`
	CompanyID   string               `json:"companyId,omitempty"`
	CompanyName string               `json:"companyName,omitempty"`
	Stats       entity.DeletionStats `json:"stats"`
	DurationMS  int64                `json:"durationMs"`
	CreatedAt   time.Time            `json:"createdAt"`
}
