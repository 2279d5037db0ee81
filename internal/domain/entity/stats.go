package entity

import "github.com/jhoicas/talent-api/internal/domain/rbac"

// PendingCounts are the open review queues.
type PendingCounts struct {
	EmployerApplications int64
	UserCreation         int64
	EmployeeDeletion     int64
}

// AdminStats feeds the admin dashboard.
type AdminStats struct {
	UsersByRole map[rbac.Role]int64
	TotalUsers  int64
	Companies   int64
	OpenJobs    int64
	Pending     PendingCounts
	Deletions   int64
}
