package dto

// AdminStatsResponse admin dashboard counters.
type AdminStatsResponse struct {
	TotalUsers       int64            `json:"totalUsers"`
	UsersByRole      map[string]int64 `json:"usersByRole"`
	Companies        int64            `json:"companies"`
	OpenJobs         int64            `json:"openJobs"`
	PendingRequests  PendingResponse  `json:"pendingRequests"`
	CompletedDeletes int64            `json:"completedDeletions"`
}

// PendingResponse open review queues.
type PendingResponse struct {
	EmployerApplications int64 `json:"employerApplications"`
	UserCreation         int64 `json:"userCreation"`
	EmployeeDeletion     int64 `json:"employeeDeletion"`
}
