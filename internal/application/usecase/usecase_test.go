package usecase_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/usecase"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Users and roles
// ──────────────────────────────────────────────────────────────────────────────

func TestAssignRole_RecordsChange(t *testing.T) {
	w := newWorld(false)
	uc := usecase.NewUserUseCase(w.guard, w.users, w.tracker, logger.Nop())
	ctx := context.Background()

	res, err := uc.AssignRole(ctx, ident(w.admin), w.recruit.ID, "employer")
	require.NoError(t, err)
	assert.Equal(t, "employer", res.Role)
	assert.Equal(t, rbac.RoleEmployer, w.users.byID[w.recruit.ID].Role)
	assert.Equal(t, []string{"recruiter->employer"}, w.tracker.calls)

	_, err = uc.AssignRole(ctx, ident(w.admin), w.recruit.ID, "employer")
	require.NoError(t, err)
	assert.Len(t, w.tracker.calls, 1, "no-op assignment is not logged")

	_, err = uc.AssignRole(ctx, ident(w.admin), w.admin.ID, "applicant")
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	_, err = uc.AssignRole(ctx, ident(w.admin), w.recruit.ID, "root")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.AssignRole(ctx, ident(w.employer), w.worker.ID, "manager")
	assert.ErrorIs(t, err, domain.ErrRoleInsufficient)
}

func TestChangeCompanyRole(t *testing.T) {
	w := newWorld(false)
	uc := usecase.NewUserUseCase(w.guard, w.users, w.tracker, logger.Nop())
	ctx := context.Background()

	res, err := uc.ChangeCompanyRole(ctx, ident(w.employer), w.worker.ID, "manager")
	require.NoError(t, err)
	assert.Equal(t, "manager", res.Role)
	assert.Equal(t, []string{"worker-a->manager"}, w.tracker.calls)

	_, err = uc.ChangeCompanyRole(ctx, ident(w.employer), w.otherWkr.ID, "manager")
	assert.ErrorIs(t, err, domain.ErrTenantMismatch)

	_, err = uc.ChangeCompanyRole(ctx, ident(w.employer), w.employer.ID, "employee")
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	_, err = uc.ChangeCompanyRole(ctx, ident(w.employer), w.former.ID, "manager")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.ChangeCompanyRole(ctx, ident(w.employer), w.worker.ID, "admin")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.ChangeCompanyRole(ctx, ident(w.employer), "ghost", "manager")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmployeesAndPastEmployees(t *testing.T) {
	w := newWorld(false)
	uc := usecase.NewUserUseCase(w.guard, w.users, w.tracker, logger.Nop())
	ctx := context.Background()

	current, err := uc.Employees(ctx, ident(w.employer), dto.PageRequest{})
	require.NoError(t, err)
	ids := []string{}
	for _, u := range current {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []string{w.manager.ID, w.worker.ID}, ids)

	past, err := uc.PastEmployees(ctx, ident(w.employer), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, past, 1)
	assert.Equal(t, w.former.ID, past[0].ID)
}

func TestGuard_UsesDatabaseCompany(t *testing.T) {
	w := newWorld(false)
	uc := usecase.NewUserUseCase(w.guard, w.users, w.tracker, logger.Nop())

	// token still claims company A but the employer moved to B
	stale := ident(w.employer)
	w.users.byID[w.employer.ID].CompanyID = companyB
	_, err := uc.ChangeCompanyRole(context.Background(), stale, w.worker.ID, "manager")
	assert.ErrorIs(t, err, domain.ErrTenantMismatch)
}

// ──────────────────────────────────────────────────────────────────────────────
// Companies and teams
// ──────────────────────────────────────────────────────────────────────────────

func TestCompany_SaveMineCreatesAndAffiliates(t *testing.T) {
	w := newWorld(false)
	newEmployer := &entity.User{ID: "fresh-employer", Email: "n@x.io", Role: rbac.RoleEmployer, IsActive: true}
	w.users.byID[newEmployer.ID] = newEmployer
	companies := &fakeCompanies{byID: map[string]*entity.Company{}}
	uc := usecase.NewCompanyUseCase(w.guard, companies, w.users)
	ctx := context.Background()

	_, err := uc.Mine(ctx, ident(newEmployer))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	created, err := uc.SaveMine(ctx, ident(newEmployer), dto.CompanyRequest{Name: " Acme "})
	require.NoError(t, err)
	assert.Equal(t, "Acme", created.Name)
	assert.Equal(t, created.ID, w.users.byID[newEmployer.ID].CompanyID)

	updated, err := uc.SaveMine(ctx, ident(newEmployer), dto.CompanyRequest{Name: "Acme Ltd", Industry: "software"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Len(t, companies.byID, 1)

	_, err = uc.Create(ctx, ident(newEmployer), dto.CompanyRequest{Name: "Other"})
	assert.ErrorIs(t, err, domain.ErrRoleInsufficient)
}

func TestTeams_TenantScoped(t *testing.T) {
	w := newWorld(false)
	teams := &fakeTeams{byID: map[string]*entity.Team{}}
	uc := usecase.NewTeamUseCase(w.guard, teams, w.users)
	ctx := context.Background()

	team, err := uc.Create(ctx, ident(w.employer), dto.TeamRequest{Name: "Platform", ManagerID: w.manager.ID})
	require.NoError(t, err)
	assert.Equal(t, team.ID, w.users.byID[w.manager.ID].TeamID)

	require.NoError(t, uc.AddMember(ctx, ident(w.employer), team.ID, w.worker.ID))
	err = uc.AddMember(ctx, ident(w.employer), team.ID, w.otherWkr.ID)
	assert.ErrorIs(t, err, domain.ErrTenantMismatch)

	list, err := uc.List(ctx, ident(w.employer))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Members, 2)

	err = uc.Delete(ctx, ident(w.otherEmp), team.ID)
	assert.ErrorIs(t, err, domain.ErrTenantMismatch)

	_, err = uc.Create(ctx, ident(w.employer), dto.TeamRequest{Name: "X", ManagerID: w.worker.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, uc.RemoveMember(ctx, ident(w.employer), team.ID, w.worker.ID))
	assert.Empty(t, w.users.byID[w.worker.ID].TeamID)
	err = uc.RemoveMember(ctx, ident(w.employer), team.ID, w.worker.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Jobs
// ──────────────────────────────────────────────────────────────────────────────

func jobReq(title string) dto.JobRequest {
	return dto.JobRequest{
		Title:       title,
		Description: "build things",
		SalaryMin:   decimal.NewFromInt(1000),
		SalaryMax:   decimal.NewFromInt(2000),
		Skills:      []string{"Go", "go", "  PostgreSQL "},
	}
}

func TestJobs_TenantRules(t *testing.T) {
	w := newWorld(false)
	jobs := newFakeJobs()
	uc := usecase.NewJobUseCase(w.guard, jobs, nil, logger.Nop())
	ctx := context.Background()

	job, err := uc.Create(ctx, ident(w.employer), jobReq("Backend"))
	require.NoError(t, err)
	assert.Equal(t, companyA, job.CompanyID)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, job.Skills)
	assert.Equal(t, "open", job.Status)
	assert.Equal(t, "USD", job.Currency)

	upd := jobReq("Backend II")
	_, err = uc.Update(ctx, ident(w.manager), job.ID, upd)
	assert.NoError(t, err, "same company may edit")

	_, err = uc.Update(ctx, ident(w.otherEmp), job.ID, upd)
	assert.ErrorIs(t, err, domain.ErrTenantMismatch)

	err = uc.Delete(ctx, ident(w.appl), job.ID)
	assert.ErrorIs(t, err, domain.ErrRoleInsufficient)

	// a recruiter without company owns its own postings
	own, err := uc.Create(ctx, ident(w.recruit), jobReq("Contract"))
	require.NoError(t, err)
	assert.Empty(t, own.CompanyID)
	require.NoError(t, uc.Delete(ctx, ident(w.recruit), own.ID))

	bad := jobReq("Broken")
	bad.SalaryMin = decimal.NewFromInt(5000)
	_, err = uc.Create(ctx, ident(w.employer), bad)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestJobs_DraftsHiddenFromOutsiders(t *testing.T) {
	w := newWorld(false)
	jobs := newFakeJobs()
	uc := usecase.NewJobUseCase(w.guard, jobs, nil, logger.Nop())
	ctx := context.Background()

	draft := jobReq("Secret")
	draft.Status = "draft"
	d, err := uc.Create(ctx, ident(w.employer), draft)
	require.NoError(t, err)
	_, err = uc.Create(ctx, ident(w.employer), jobReq("Public"))
	require.NoError(t, err)

	list, err := uc.List(ctx, ident(w.appl), dto.JobListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Public", list.Items[0].Title)
	assert.EqualValues(t, 1, list.Page.Total)

	_, err = uc.Get(ctx, ident(w.appl), d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Get(ctx, ident(w.otherEmp), d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := uc.Get(ctx, ident(w.manager), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Secret", got.Title)

	own, err := uc.List(ctx, ident(w.otherEmp), dto.JobListQuery{})
	require.NoError(t, err)
	assert.Empty(t, own.Items, "other tenant sees neither draft nor, without status filter, company A's jobs")
}

func TestJobs_Import(t *testing.T) {
	w := newWorld(false)
	jobs := newFakeJobs()
	sheet := fakeSheet{rows: []dto.JobImportRow{
		{Row: 2, Job: jobReq("Row two")},
		{Row: 3, Error: "salaryMin: not a number"},
		{Row: 4, Job: dto.JobRequest{Title: "No description"}},
		{Row: 5, Job: jobReq("Row five")},
	}}
	uc := usecase.NewJobUseCase(w.guard, jobs, sheet, logger.Nop())

	res, err := uc.Import(context.Background(), ident(w.employer), bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Failed)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Equal(t, 4, res.Errors[1].Row)
	assert.Contains(t, res.Errors[1].Message, "description")
	assert.Equal(t, 1, jobs.batches)

	tpl, err := uc.ImportTemplate(ident(w.employer))
	require.NoError(t, err)
	assert.NotEmpty(t, tpl)
}

func TestNormalizeSkills(t *testing.T) {
	got := usecase.NormalizeSkills([]string{" Go", "GO", "machine   learning", "Machine Learning", "", "SQL", "sql"})
	assert.Equal(t, []string{"Go", "machine learning", "SQL"}, got)
	assert.Empty(t, usecase.NormalizeSkills(nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Job applications
// ──────────────────────────────────────────────────────────────────────────────

func jobWithStatus(t *testing.T, uc *usecase.JobUseCase, poster *entity.User, title, status string) string {
	t.Helper()
	req := jobReq(title)
	req.Status = status
	job, err := uc.Create(context.Background(), ident(poster), req)
	require.NoError(t, err)
	return job.ID
}

func TestJobApplications_ApplyAndReview(t *testing.T) {
	w := newWorld(false)
	jobs := newFakeJobs()
	jobUC := usecase.NewJobUseCase(w.guard, jobs, nil, logger.Nop())
	uc := usecase.NewJobApplicationUseCase(w.guard, newFakeJobApplications(jobs), jobs)
	ctx := context.Background()
	jobID := jobWithStatus(t, jobUC, w.employer, "Backend", "open")

	app, err := uc.Apply(ctx, ident(w.appl), dto.JobApplyRequest{JobID: jobID, Phone: " 555 ", ResumeURL: "https://cv.test/p.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "pending", app.Status)
	assert.Equal(t, w.appl.Email, app.Email)
	assert.Equal(t, "555", app.Phone)
	assert.Equal(t, "Backend", app.JobTitle)

	_, err = uc.Apply(ctx, ident(w.appl), dto.JobApplyRequest{JobID: jobID})
	assert.ErrorIs(t, err, domain.ErrConflict, "one application per job")

	_, err = uc.Apply(ctx, ident(w.worker), dto.JobApplyRequest{JobID: jobID})
	assert.ErrorIs(t, err, domain.ErrRoleInsufficient)

	mine, err := uc.Mine(ctx, ident(w.appl), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, app.ID, mine[0].ID)

	list, err := uc.ListByJob(ctx, ident(w.manager), jobID, dto.JobApplicationListQuery{})
	require.NoError(t, err, "same company reviews")
	require.Len(t, list, 1)

	_, err = uc.ListByJob(ctx, ident(w.otherEmp), jobID, dto.JobApplicationListQuery{})
	assert.ErrorIs(t, err, domain.ErrTenantMismatch)
	_, err = uc.ListByJob(ctx, ident(w.appl), jobID, dto.JobApplicationListQuery{})
	assert.ErrorIs(t, err, domain.ErrRoleInsufficient)
	_, err = uc.ListByJob(ctx, ident(w.employer), "missing", dto.JobApplicationListQuery{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.UpdateStatus(ctx, ident(w.otherEmp), app.ID, dto.JobApplicationStatusRequest{Status: "rejected"})
	assert.ErrorIs(t, err, domain.ErrTenantMismatch)
	_, err = uc.UpdateStatus(ctx, ident(w.employer), app.ID, dto.JobApplicationStatusRequest{Status: "hired"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.UpdateStatus(ctx, ident(w.employer), "missing", dto.JobApplicationStatusRequest{Status: "reviewed"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	upd, err := uc.UpdateStatus(ctx, ident(w.employer), app.ID, dto.JobApplicationStatusRequest{Status: "Interviewed"})
	require.NoError(t, err)
	assert.Equal(t, "interviewed", upd.Status)

	pending, err := uc.ListByJob(ctx, ident(w.admin), jobID, dto.JobApplicationListQuery{Status: "pending"})
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = uc.UpdateStatus(ctx, ident(w.employer), app.ID, dto.JobApplicationStatusRequest{Status: "offered"})
	require.NoError(t, err)
	err = uc.Withdraw(ctx, ident(w.appl), app.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "an offered application stays")
}

func TestJobApplications_OnlyOpenJobsAcceptApplications(t *testing.T) {
	w := newWorld(false)
	jobs := newFakeJobs()
	jobUC := usecase.NewJobUseCase(w.guard, jobs, nil, logger.Nop())
	uc := usecase.NewJobApplicationUseCase(w.guard, newFakeJobApplications(jobs), jobs)
	ctx := context.Background()

	draft := jobWithStatus(t, jobUC, w.employer, "Secret", "draft")
	closed := jobWithStatus(t, jobUC, w.employer, "Filled", "closed")

	_, err := uc.Apply(ctx, ident(w.appl), dto.JobApplyRequest{JobID: draft})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Apply(ctx, ident(w.appl), dto.JobApplyRequest{JobID: closed})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.Apply(ctx, ident(w.appl), dto.JobApplyRequest{JobID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobApplications_Withdraw(t *testing.T) {
	w := newWorld(false)
	jobs := newFakeJobs()
	jobUC := usecase.NewJobUseCase(w.guard, jobs, nil, logger.Nop())
	uc := usecase.NewJobApplicationUseCase(w.guard, newFakeJobApplications(jobs), jobs)
	ctx := context.Background()
	jobID := jobWithStatus(t, jobUC, w.recruit, "Contract", "open")

	app, err := uc.Apply(ctx, ident(w.appl), dto.JobApplyRequest{JobID: jobID})
	require.NoError(t, err)

	// a company-less recruiter reviews its own postings
	list, err := uc.ListByJob(ctx, ident(w.recruit), jobID, dto.JobApplicationListQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	err = uc.Withdraw(ctx, ident(w.recruit), app.ID)
	assert.ErrorIs(t, err, domain.ErrRoleInsufficient)

	require.NoError(t, uc.Withdraw(ctx, ident(w.appl), app.ID))
	mine, err := uc.Mine(ctx, ident(w.appl), dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, mine)

	err = uc.Withdraw(ctx, ident(w.appl), app.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Candidates and allocations
// ──────────────────────────────────────────────────────────────────────────────

func TestCandidates_SubmitAndReview(t *testing.T) {
	w := newWorld(false)
	cands := newFakeCandidates()
	allocs := &fakeAllocations{byID: map[string]*entity.ProfileAllocation{}}
	allocUC := usecase.NewAllocationUseCase(w.guard, allocs, cands)
	uc := usecase.NewCandidateUseCase(w.guard, cands, allocs)
	ctx := context.Background()

	alloc, err := allocUC.Create(ctx, ident(w.manager), dto.AllocationRequest{JobTitle: "SRE", Description: "on call"})
	require.NoError(t, err)
	assert.Equal(t, "medium", alloc.Priority)
	assert.Equal(t, "active", alloc.Status)

	sub, err := uc.Submit(ctx, ident(w.worker), dto.SubmitCandidateRequest{
		Name: "Ada", Email: " ADA@example.com ", AllocationID: alloc.ID, Skills: []string{"go", "Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, companyA, sub.CompanyID)
	assert.Equal(t, "pending", sub.Status)
	assert.Equal(t, "ada@example.com", sub.Email)
	assert.Equal(t, []string{"go"}, sub.Skills)

	again, err := uc.Submit(ctx, ident(w.manager), dto.SubmitCandidateRequest{Name: "Ada L.", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, sub.CandidateID, again.CandidateID, "same email reuses the candidate")
	assert.Len(t, cands.byID, 1)

	_, err = uc.Submit(ctx, ident(w.otherWkr), dto.SubmitCandidateRequest{Name: "Bob", Email: "bob@x.io", AllocationID: alloc.ID})
	assert.ErrorIs(t, err, domain.ErrTenantMismatch)

	_, err = uc.UpdateStatus(ctx, ident(w.otherEmp), sub.ID, dto.SubmissionStatusRequest{Status: "approved"})
	assert.ErrorIs(t, err, domain.ErrTenantMismatch)
	_, err = uc.UpdateStatus(ctx, ident(w.worker), sub.ID, dto.SubmissionStatusRequest{Status: "approved"})
	assert.ErrorIs(t, err, domain.ErrRoleInsufficient)
	_, err = uc.UpdateStatus(ctx, ident(w.employer), sub.ID, dto.SubmissionStatusRequest{Status: "hired"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	done, err := uc.UpdateStatus(ctx, ident(w.employer), sub.ID, dto.SubmissionStatusRequest{Status: "Approved", Feedback: "strong"})
	require.NoError(t, err)
	assert.Equal(t, "approved", done.Status)
	assert.Equal(t, "Ada", done.Name)

	mine, err := uc.List(ctx, ident(w.worker), dto.SubmissionListQuery{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	company, err := uc.List(ctx, ident(w.employer), dto.SubmissionListQuery{})
	require.NoError(t, err)
	assert.Len(t, company, 2)
	outside, err := uc.List(ctx, ident(w.otherEmp), dto.SubmissionListQuery{})
	require.NoError(t, err)
	assert.Empty(t, outside)
}

func TestAllocationCandidates_SoftErrors(t *testing.T) {
	w := newWorld(false)
	cands := newFakeCandidates()
	allocs := &fakeAllocations{byID: map[string]*entity.ProfileAllocation{}}
	uc := usecase.NewAllocationUseCase(w.guard, allocs, cands)
	ctx := context.Background()

	alloc, err := uc.Create(ctx, ident(w.employer), dto.AllocationRequest{JobTitle: "Data", Description: "d", Priority: "high"})
	require.NoError(t, err)

	res, err := uc.Candidates(ctx, ident(w.otherWkr), alloc.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Candidates)
	assert.Equal(t, domain.CodeTenantMismatch, res.Error)

	res, err = uc.Candidates(ctx, ident(w.worker), "missing")
	require.NoError(t, err)
	assert.Equal(t, domain.CodeNotFound, res.Error)

	res, err = uc.Candidates(ctx, ident(w.appl), alloc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CodeRoleInsufficient, res.Error)

	res, err = uc.Candidates(ctx, ident(w.worker), alloc.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Error)
	assert.NotNil(t, res.Candidates)

	_, err = uc.Create(ctx, ident(w.employer), dto.AllocationRequest{
		JobTitle: "x", Description: "y", BudgetMin: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Create(ctx, ident(w.recruit), dto.AllocationRequest{JobTitle: "x", Description: "y"})
	assert.ErrorIs(t, err, domain.ErrRoleInsufficient)

	list, err := uc.List(ctx, ident(w.otherEmp), dto.AllocationListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = uc.List(ctx, ident(w.admin), dto.AllocationListQuery{CompanyID: companyA})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reports
// ──────────────────────────────────────────────────────────────────────────────

func TestReports(t *testing.T) {
	w := newWorld(false)
	reports := &fakeReports{byID: map[string]*entity.Report{}}
	uc := usecase.NewReportUseCase(w.guard, reports, w.users)
	ctx := context.Background()

	r, err := uc.Create(ctx, ident(w.worker), dto.ReportRequest{RecipientID: w.manager.ID, Title: "Weekly", Content: "all good"})
	require.NoError(t, err)
	assert.Equal(t, "unread", r.Status)

	_, err = uc.Create(ctx, ident(w.worker), dto.ReportRequest{RecipientID: w.otherWkr.ID, Title: "t", Content: "c"})
	assert.ErrorIs(t, err, domain.ErrTenantMismatch)
	_, err = uc.Create(ctx, ident(w.worker), dto.ReportRequest{RecipientID: w.former.ID, Title: "t", Content: "c"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Create(ctx, ident(w.worker), dto.ReportRequest{RecipientID: w.worker.ID, Title: "t", Content: "c"})
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	n, err := uc.UnreadCount(ctx, ident(w.manager))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n.Count)

	err = uc.MarkRead(ctx, ident(w.worker), r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "only the recipient can mark read")

	require.NoError(t, uc.MarkRead(ctx, ident(w.manager), r.ID))
	require.NoError(t, uc.MarkRead(ctx, ident(w.manager), r.ID))
	n, err = uc.UnreadCount(ctx, ident(w.manager))
	require.NoError(t, err)
	assert.Zero(t, n.Count)

	out, err := uc.List(ctx, ident(w.worker), dto.ReportListQuery{Box: "outbox"})
	require.NoError(t, err)
	assert.Len(t, out, 1)
	in, err := uc.List(ctx, ident(w.worker), dto.ReportListQuery{})
	require.NoError(t, err)
	assert.Empty(t, in)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resume parsing and dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestResume_FallsBackWhenProviderFails(t *testing.T) {
	w := newWorld(false)
	uc := usecase.NewResumeUseCase(w.guard, textExtractor{},
		stubParser{name: "llm", err: errProviderDown}, stubParser{name: "heuristic"}, 1<<20, logger.Nop())
	ctx := context.Background()

	res, err := uc.Parse(ctx, ident(w.appl), "cv.txt", []byte("Jane Doe\nGo developer"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "heuristic", res.Parser)
	assert.Equal(t, "Jane Doe", res.Resume.Name)
	assert.Equal(t, []string{"Go", "SQL"}, res.Resume.Skills)
	assert.NotNil(t, res.Resume.Education)

	_, err = uc.Parse(ctx, ident(w.appl), "cv.docx", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Parse(ctx, ident(w.appl), "cv.pdf", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Parse(ctx, ident(w.appl), "cv.txt", []byte("   "))
	assert.ErrorIs(t, err, domain.ErrValidation)

	small := usecase.NewResumeUseCase(w.guard, textExtractor{}, stubParser{name: "llm"}, nil, 4, logger.Nop())
	_, err = small.Parse(ctx, ident(w.appl), "cv.txt", []byte("too long"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	broken := usecase.NewResumeUseCase(w.guard, textExtractor{}, stubParser{name: "llm", err: errProviderDown}, nil, 0, logger.Nop())
	_, err = broken.Parse(ctx, ident(w.appl), "cv.txt", []byte("x"))
	assert.ErrorIs(t, err, errProviderDown)
}

func TestDashboard_AdminStats(t *testing.T) {
	w := newWorld(false)
	stats := fakeStats{stats: entity.AdminStats{Companies: 2, OpenJobs: 5, Deletions: 1}}
	stats.stats.Pending.UserCreation = 3
	uc := usecase.NewDashboardUseCase(w.guard, stats, w.users)
	ctx := context.Background()

	res, err := uc.AdminStats(ctx, ident(w.admin))
	require.NoError(t, err)
	assert.EqualValues(t, 9, res.TotalUsers)
	assert.EqualValues(t, 3, res.UsersByRole["employee"])
	assert.EqualValues(t, 2, res.Companies)
	assert.EqualValues(t, 3, res.PendingRequests.UserCreation)

	_, err = uc.AdminStats(ctx, ident(w.employer))
	assert.ErrorIs(t, err, domain.ErrRoleInsufficient)
}
