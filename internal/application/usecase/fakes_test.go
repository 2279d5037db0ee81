package usecase_test

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/usecase"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
	"github.com/jhoicas/talent-api/pkg/logger"
)

const (
	companyA = "aaaaaaaa-0000-0000-0000-000000000001"
	companyB = "bbbbbbbb-0000-0000-0000-000000000002"
)

func ident(u *entity.User) *rbac.Identity {
	return &rbac.Identity{UserID: u.ID, Email: u.Email, Role: u.Role, CompanyID: u.CompanyID}
}

// ──────────────────────────────────────────────────────────────────────────────
// users
// ──────────────────────────────────────────────────────────────────────────────

type fakeUsers struct {
	byID map[string]*entity.User
}

func newFakeUsers(users ...*entity.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*entity.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Update(_ context.Context, u *entity.User) error {
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id string, role rbac.Role) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.NotFoundf("user %s", id)
	}
	u.Role = role
	return nil
}

func (f *fakeUsers) SetTeam(_ context.Context, userID, teamID string) error {
	u, ok := f.byID[userID]
	if !ok {
		return domain.NotFoundf("user %s", userID)
	}
	u.TeamID = teamID
	return nil
}

func (f *fakeUsers) List(_ context.Context, flt repository.UserFilter) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.byID {
		if flt.CompanyID != "" && u.CompanyID != flt.CompanyID {
			continue
		}
		if flt.Role != "" && u.Role != flt.Role {
			continue
		}
		if len(flt.Roles) > 0 && !containsRole(flt.Roles, u.Role) {
			continue
		}
		if flt.Active != nil && u.IsActive != *flt.Active {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) FirstEmployer(_ context.Context, companyID string) (*entity.User, error) {
	return nil, nil
}

func (f *fakeUsers) CountByRole(_ context.Context) (map[rbac.Role]int64, error) {
	out := map[rbac.Role]int64{}
	for _, u := range f.byID {
		out[u.Role]++
	}
	return out, nil
}

func containsRole(roles []rbac.Role, r rbac.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

type spyTracker struct{ calls []string }

func (s *spyTracker) Record(_ context.Context, userID string, role rbac.Role) {
	s.calls = append(s.calls, userID+"->"+role.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// companies and teams
// ──────────────────────────────────────────────────────────────────────────────

type fakeCompanies struct{ byID map[string]*entity.Company }

func (f *fakeCompanies) Create(_ context.Context, c *entity.Company) error {
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanies) Update(_ context.Context, c *entity.Company) error {
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCompanies) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

type fakeTeams struct{ byID map[string]*entity.Team }

func (f *fakeTeams) Create(_ context.Context, t *entity.Team) error {
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTeams) GetByID(_ context.Context, id string) (*entity.Team, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTeams) Update(_ context.Context, t *entity.Team) error {
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTeams) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeTeams) ListByCompany(_ context.Context, companyID string) ([]*entity.Team, error) {
	var out []*entity.Team
	for _, t := range f.byID {
		if t.CompanyID == companyID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// jobs
// ──────────────────────────────────────────────────────────────────────────────

type fakeJobs struct {
	byID    map[string]*entity.JobPosting
	batches int
}

func newFakeJobs() *fakeJobs { return &fakeJobs{byID: map[string]*entity.JobPosting{}} }

func (f *fakeJobs) Create(_ context.Context, j *entity.JobPosting) error {
	cp := *j
	f.byID[j.ID] = &cp
	return nil
}

func (f *fakeJobs) CreateBatch(ctx context.Context, jobs []*entity.JobPosting) error {
	f.batches++
	for _, j := range jobs {
		_ = f.Create(ctx, j)
	}
	return nil
}

func (f *fakeJobs) GetByID(_ context.Context, id string) (*entity.JobPosting, error) {
	j, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobs) Update(_ context.Context, j *entity.JobPosting) error {
	cp := *j
	f.byID[j.ID] = &cp
	return nil
}

func (f *fakeJobs) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeJobs) List(_ context.Context, flt repository.JobFilter) ([]*entity.JobPosting, error) {
	var out []*entity.JobPosting
	for _, j := range f.byID {
		if flt.Status != "" && j.Status != flt.Status {
			continue
		}
		if flt.CompanyID != "" && j.CompanyID != flt.CompanyID {
			continue
		}
		if flt.PostedBy != "" && j.PostedBy != flt.PostedBy {
			continue
		}
		if flt.Search != "" && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(flt.Search)) {
			continue
		}
		cp := *j
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Title < out[k].Title })
	return out, nil
}

func (f *fakeJobs) Count(ctx context.Context, flt repository.JobFilter) (int64, error) {
	l, _ := f.List(ctx, flt)
	return int64(len(l)), nil
}

type fakeSheet struct {
	rows []dto.JobImportRow
}

func (s fakeSheet) Template() ([]byte, error) { return []byte("xlsx"), nil }

func (s fakeSheet) Read(io.Reader) ([]dto.JobImportRow, error) { return s.rows, nil }

// ──────────────────────────────────────────────────────────────────────────────
// job applications
// ──────────────────────────────────────────────────────────────────────────────

type fakeJobApplications struct {
	byID map[string]*entity.JobApplication
	jobs *fakeJobs
}

func newFakeJobApplications(jobs *fakeJobs) *fakeJobApplications {
	return &fakeJobApplications{byID: map[string]*entity.JobApplication{}, jobs: jobs}
}

func (f *fakeJobApplications) Create(_ context.Context, a *entity.JobApplication) error {
	for _, x := range f.byID {
		if x.JobID == a.JobID && x.ApplicantID == a.ApplicantID {
			return domain.ErrConflict
		}
	}
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeJobApplications) GetByID(_ context.Context, id string) (*entity.JobApplication, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeJobApplications) List(_ context.Context, flt repository.JobApplicationFilter) ([]*entity.JobApplicationView, error) {
	var out []*entity.JobApplicationView
	for _, a := range f.byID {
		if flt.JobID != "" && a.JobID != flt.JobID {
			continue
		}
		if flt.ApplicantID != "" && a.ApplicantID != flt.ApplicantID {
			continue
		}
		if flt.Status != "" && a.Status != flt.Status {
			continue
		}
		v := &entity.JobApplicationView{JobApplication: *a}
		if j, ok := f.jobs.byID[a.JobID]; ok {
			v.JobTitle, v.JobLocation = j.Title, j.Location
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].JobTitle < out[k].JobTitle })
	return out, nil
}

func (f *fakeJobApplications) UpdateStatus(_ context.Context, a *entity.JobApplication) error {
	cur, ok := f.byID[a.ID]
	if !ok {
		return domain.NotFoundf("job application %s", a.ID)
	}
	cur.Status, cur.UpdatedAt = a.Status, a.UpdatedAt
	return nil
}

func (f *fakeJobApplications) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// candidates, allocations, reports
// ──────────────────────────────────────────────────────────────────────────────

type fakeCandidates struct {
	byID map[string]*entity.Candidate
	subs map[string]*entity.RecruiterCandidate
}

func newFakeCandidates() *fakeCandidates {
	return &fakeCandidates{byID: map[string]*entity.Candidate{}, subs: map[string]*entity.RecruiterCandidate{}}
}

func (f *fakeCandidates) Create(_ context.Context, c *entity.Candidate) error {
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCandidates) GetByID(_ context.Context, id string) (*entity.Candidate, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCandidates) GetByEmail(_ context.Context, email string) (*entity.Candidate, error) {
	for _, c := range f.byID {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCandidates) CreateSubmission(_ context.Context, rc *entity.RecruiterCandidate) error {
	cp := *rc
	f.subs[rc.ID] = &cp
	return nil
}

func (f *fakeCandidates) GetSubmission(_ context.Context, id string) (*entity.RecruiterCandidate, error) {
	s, ok := f.subs[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeCandidates) UpdateSubmission(_ context.Context, rc *entity.RecruiterCandidate) error {
	cp := *rc
	f.subs[rc.ID] = &cp
	return nil
}

func (f *fakeCandidates) ListSubmissions(_ context.Context, flt repository.SubmissionFilter) ([]*entity.CandidateSubmission, error) {
	var out []*entity.CandidateSubmission
	for _, s := range f.subs {
		if flt.RecruiterID != "" && s.RecruiterID != flt.RecruiterID {
			continue
		}
		if flt.CompanyID != "" && s.CompanyID != flt.CompanyID {
			continue
		}
		if flt.AllocationID != "" && s.ProfileAllocationID != flt.AllocationID {
			continue
		}
		out = append(out, &entity.CandidateSubmission{RecruiterCandidate: *s, Candidate: *f.byID[s.CandidateID]})
	}
	return out, nil
}

type fakeAllocations struct{ byID map[string]*entity.ProfileAllocation }

func (f *fakeAllocations) Create(_ context.Context, a *entity.ProfileAllocation) error {
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAllocations) GetByID(_ context.Context, id string) (*entity.ProfileAllocation, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAllocations) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.ProfileAllocation, error) {
	var out []*entity.ProfileAllocation
	for _, a := range f.byID {
		if a.CompanyID == companyID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeReports struct{ byID map[string]*entity.Report }

func (f *fakeReports) Create(_ context.Context, r *entity.Report) error {
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeReports) GetByID(_ context.Context, id string) (*entity.Report, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReports) ListByRecipient(_ context.Context, id string, limit, offset int) ([]*entity.Report, error) {
	var out []*entity.Report
	for _, r := range f.byID {
		if r.RecipientID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReports) ListByAuthor(_ context.Context, id string, limit, offset int) ([]*entity.Report, error) {
	var out []*entity.Report
	for _, r := range f.byID {
		if r.AuthorID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReports) MarkRead(_ context.Context, id string) error {
	f.byID[id].Status = entity.ReportRead
	return nil
}

func (f *fakeReports) CountUnread(_ context.Context, id string) (int64, error) {
	var n int64
	for _, r := range f.byID {
		if r.RecipientID == id && r.Status == entity.ReportUnread {
			n++
		}
	}
	return n, nil
}

type fakeStats struct{ stats entity.AdminStats }

func (f fakeStats) AdminStats(context.Context) (*entity.AdminStats, error) {
	s := f.stats
	return &s, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// resume
// ──────────────────────────────────────────────────────────────────────────────

type textExtractor struct{}

func (textExtractor) Extract(_ context.Context, _ string, data []byte) (string, error) {
	return string(data), nil
}

type stubParser struct {
	name string
	err  error
}

func (p stubParser) Name() string { return p.name }

func (p stubParser) Parse(_ context.Context, text string) (*dto.ParsedResume, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &dto.ParsedResume{Name: strings.SplitN(text, "\n", 2)[0], Skills: []string{"Go", " go ", "SQL"}}, nil
}

var errProviderDown = errors.New("provider down")

// ──────────────────────────────────────────────────────────────────────────────
// world
// ──────────────────────────────────────────────────────────────────────────────

// world is a two-company fixture: A has an employer, a manager and two
// employees (one deactivated); B has an employer and an employee. A recruiter
// and an applicant have no company.
type world struct {
	users    *fakeUsers
	guard    *usecase.Guard
	tracker  *spyTracker
	admin    *entity.User
	employer *entity.User
	manager  *entity.User
	worker   *entity.User
	former   *entity.User
	otherEmp *entity.User
	otherWkr *entity.User
	recruit  *entity.User
	appl     *entity.User
}

func newWorld(strict bool) *world {
	w := &world{
		admin:    &entity.User{ID: "admin", Email: "admin@x.io", Role: rbac.RoleAdmin, IsActive: true},
		employer: &entity.User{ID: "employer-a", Email: "boss@a.io", Role: rbac.RoleEmployer, CompanyID: companyA, IsActive: true},
		manager:  &entity.User{ID: "manager-a", Email: "mgr@a.io", Role: rbac.RoleManager, CompanyID: companyA, IsActive: true},
		worker:   &entity.User{ID: "worker-a", Email: "w@a.io", Role: rbac.RoleEmployee, CompanyID: companyA, IsActive: true},
		former:   &entity.User{ID: "former-a", Email: "f@a.io", Role: rbac.RoleEmployee, CompanyID: companyA, IsActive: false},
		otherEmp: &entity.User{ID: "employer-b", Email: "boss@b.io", Role: rbac.RoleEmployer, CompanyID: companyB, IsActive: true},
		otherWkr: &entity.User{ID: "worker-b", Email: "w@b.io", Role: rbac.RoleEmployee, CompanyID: companyB, IsActive: true},
		recruit:  &entity.User{ID: "recruiter", Email: "r@x.io", Role: rbac.RoleRecruiter, IsActive: true},
		appl:     &entity.User{ID: "applicant", Email: "p@x.io", Role: rbac.RoleApplicant, IsActive: true},
		tracker:  &spyTracker{},
	}
	w.users = newFakeUsers(w.admin, w.employer, w.manager, w.worker, w.former, w.otherEmp, w.otherWkr, w.recruit, w.appl)
	w.guard = usecase.NewGuard(rbac.NewGate(strict), w.users, nil, logger.Nop())
	return w
}
