package entity

import (
	"time"

	"github.com/jhoicas/talent-api/internal/domain/rbac"
)

// RoleChange is an append-only record of a role transition.
type RoleChange struct {
	ID        int64
	UserID    string
	NewRole   rbac.Role
	ChangedAt time.Time
}
