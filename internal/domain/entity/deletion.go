package entity

import "time"

// DeletionStats counts removed rows per category.
type DeletionStats struct {
	Users                int64 `json:"users"`
	Jobs                 int64 `json:"jobs"`
	JobApplications      int64 `json:"jobApplications"`
	Teams                int64 `json:"teams"`
	CreationRequests     int64 `json:"userCreationRequests"`
	DeletionRequests     int64 `json:"employeeDeletionRequests"`
	EmployerApplications int64 `json:"employerApplications"`
	RecruiterCandidates  int64 `json:"recruiterCandidates"`
	ProfileAllocations   int64 `json:"profileAllocations"`
	Reports              int64 `json:"reports"`
	RoleChanges          int64 `json:"roleChanges"`
	DetachedUsers        int64 `json:"detachedUsers"`
	Companies            int64 `json:"companies"`
}

// DeletionResult is the outcome of a completed cascade.
type DeletionResult struct {
	AuditID   string
	RootID    string
	RootEmail string
	CompanyID string
	Stats     DeletionStats
}

// DeletionAudit is the persisted trace of a completed cascade.
type DeletionAudit struct {
	ID          string
	ActorID     string
	ActorEmail  string
	RootUserID  string
	RootEmail   string
	CompanyID   string
	CompanyName string
	Stats       DeletionStats
	Duration    time.Duration
	CreatedAt   time.Time
}
