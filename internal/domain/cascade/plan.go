// Package cascade describes employer and company removal as an ordered list of
// declarative steps. Each step names a table, an action and a row predicate;
// executing the list front to back deletes children before their parents.
package cascade

import (
	"fmt"

	"github.com/jhoicas/talent-api/internal/domain/entity"
)

// Action is what a step does to the rows it selects.
type Action int

const (
	// Delete removes the selected rows.
	Delete Action = iota
	// Nullify sets Step.Column to NULL on the selected rows.
	Nullify
)

func (a Action) String() string {
	if a == Nullify {
		return "nullify"
	}
	return "delete"
}

// Category is the audit bucket a step's row count is added to.
type Category string

const (
	CategoryJobApplications      Category = "job_applications"
	CategoryJobs                 Category = "jobs"
	CategoryCreationRequests     Category = "user_creation_requests"
	CategoryDeletionRequests     Category = "employee_deletion_requests"
	CategoryTeams                Category = "teams"
	CategoryEmployerApplications Category = "employer_applications"
	CategoryRecruiterCandidates  Category = "recruiter_candidates"
	CategoryProfileAllocations   Category = "profile_allocations"
	CategoryReports              Category = "reports"
	CategoryRoleChanges          Category = "role_changes"
	CategoryDetachedUsers        Category = "detached_users"
	CategoryUsers                Category = "users"
	CategoryCompanies            Category = "companies"
)

// Tables touched by the plans.
const (
	TableJobApplications          = "job_applications"
	TableJobs                     = "jobs"
	TableUserCreationRequests     = "user_creation_requests"
	TableEmployeeDeletionRequests = "employee_deletion_requests"
	TableTeams                    = "teams"
	TableEmployerApplications     = "employer_applications"
	TableRecruiterCandidates      = "recruiter_candidates"
	TableProfileAllocations       = "profile_allocations"
	TableReports                  = "reports"
	TableRoleChanges              = "role_changes"
	TableUsers                    = "users"
	TableCompanies                = "companies"
)

// Step is one ordered unit of a cascade.
type Step struct {
	Category Category
	Table    string
	Action   Action
	// Column is the column set to NULL by a Nullify step.
	Column string
	Where  Predicate
}

func (s Step) String() string {
	if s.Action == Nullify {
		return fmt.Sprintf("nullify %s.%s where %s", s.Table, s.Column, s.Where)
	}
	return fmt.Sprintf("delete from %s where %s", s.Table, s.Where)
}

// SingleUserPlan removes an employer that has no company: only rows tied to
// that user are in scope.
func SingleUserPlan(userID string) []Step {
	ids := []string{userID}
	return []Step{
		{Category: CategoryJobApplications, Table: TableJobApplications, Where: Where("job_owner_id", ids...).Or("applicant_id", ids...)},
		{Category: CategoryJobs, Table: TableJobs, Where: Where("posted_by", ids...)},
		{Category: CategoryEmployerApplications, Table: TableEmployerApplications, Where: Where("recruiter_id", ids...)},
		{Category: CategoryRecruiterCandidates, Table: TableRecruiterCandidates, Where: Where("recruiter_id", ids...)},
		{Category: CategoryProfileAllocations, Table: TableProfileAllocations, Where: Where("created_by", ids...)},
		{Category: CategoryReports, Table: TableReports, Where: Where("author_id", ids...).Or("recipient_id", ids...)},
		{Category: CategoryRoleChanges, Table: TableRoleChanges, Where: Where("user_id", ids...)},
		{Category: CategoryDetachedUsers, Table: TableUsers, Action: Nullify, Column: "manager_id",
			Where: Where("manager_id", ids...).Except("id", ids...)},
		{Category: CategoryUsers, Table: TableUsers, Where: Where("id", ids...)},
	}
}

// CompanyPlan removes a company and every user in it. rootID is the employer
// that triggered the removal; it is added to userIDs when missing.
func CompanyPlan(rootID, companyID string, userIDs []string) []Step {
	ids := withRoot(rootID, userIDs)
	return []Step{
		{Category: CategoryJobApplications, Table: TableJobApplications,
			Where: Where("job_owner_id", ids...).Or("company_id", companyID).Or("applicant_id", ids...)},
		{Category: CategoryJobs, Table: TableJobs, Where: Where("posted_by", ids...).Or("company_id", companyID)},
		{Category: CategoryCreationRequests, Table: TableUserCreationRequests, Where: Where("company_id", companyID)},
		{Category: CategoryDeletionRequests, Table: TableEmployeeDeletionRequests, Where: Where("company_id", companyID)},
		{Category: CategoryTeams, Table: TableTeams, Where: Where("company_id", companyID)},
		{Category: CategoryEmployerApplications, Table: TableEmployerApplications, Where: Where("recruiter_id", ids...)},
		{Category: CategoryRecruiterCandidates, Table: TableRecruiterCandidates, Where: Where("recruiter_id", ids...).Or("company_id", companyID)},
		{Category: CategoryProfileAllocations, Table: TableProfileAllocations, Where: Where("created_by", ids...).Or("company_id", companyID)},
		{Category: CategoryReports, Table: TableReports, Where: Where("author_id", ids...).Or("recipient_id", ids...)},
		{Category: CategoryRoleChanges, Table: TableRoleChanges, Where: Where("user_id", ids...)},
		{Category: CategoryDetachedUsers, Table: TableUsers, Action: Nullify, Column: "manager_id",
			Where: Where("manager_id", ids...).Except("id", ids...)},
		{Category: CategoryUsers, Table: TableUsers, Where: Where("id", ids...)},
		{Category: CategoryCompanies, Table: TableCompanies, Where: Where("id", companyID)},
	}
}

func withRoot(rootID string, userIDs []string) []string {
	out := make([]string, 0, len(userIDs)+1)
	seen := make(map[string]struct{}, len(userIDs)+1)
	for _, id := range append([]string{rootID}, userIDs...) {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Tally adds n rows of category c to stats.
func Tally(stats *entity.DeletionStats, c Category, n int64) {
	switch c {
	case CategoryJobApplications:
		stats.JobApplications += n
	case CategoryJobs:
		stats.Jobs += n
	case CategoryCreationRequests:
		stats.CreationRequests += n
	case CategoryDeletionRequests:
		stats.DeletionRequests += n
	case CategoryTeams:
		stats.Teams += n
	case CategoryEmployerApplications:
		stats.EmployerApplications += n
	case CategoryRecruiterCandidates:
		stats.RecruiterCandidates += n
	case CategoryProfileAllocations:
		stats.ProfileAllocations += n
	case CategoryReports:
		stats.Reports += n
	case CategoryRoleChanges:
		stats.RoleChanges += n
	case CategoryDetachedUsers:
		stats.DetachedUsers += n
	case CategoryUsers:
		stats.Users += n
	case CategoryCompanies:
		stats.Companies += n
	}
}
