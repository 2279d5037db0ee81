package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
	"github.com/jhoicas/talent-api/pkg/logger"
)

const defaultCurrency = "USD"

var rowValidator = validator.New()

// JobUseCase manages job postings. Anyone signed in can browse open jobs;
// editing is limited to the poster and the poster's company.
type JobUseCase struct {
	guard *Guard
	jobs  repository.JobRepository
	sheet ports.JobSheet
	log   *logger.Logger
}

// NewJobUseCase builds the use case. sheet may be nil when imports are disabled.
func NewJobUseCase(guard *Guard, jobs repository.JobRepository, sheet ports.JobSheet, log *logger.Logger) *JobUseCase {
	return &JobUseCase{guard: guard, jobs: jobs, sheet: sheet, log: log.Named("jobs")}
}

// Create posts a job under the caller and the caller's company.
func (uc *JobUseCase) Create(ctx context.Context, actor *rbac.Identity, in dto.JobRequest) (*dto.JobResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapManageJobs); err != nil {
		return nil, err
	}
	fresh, _, err := uc.guard.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	job, err := newJob(fresh, in)
	if err != nil {
		return nil, err
	}
	if err := uc.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// List pages through jobs. Callers that cannot manage jobs only see open ones;
// Mine restricts to the caller's postings.
func (uc *JobUseCase) List(ctx context.Context, actor *rbac.Identity, q dto.JobListQuery) (*dto.JobListResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapViewJobs); err != nil {
		return nil, err
	}
	q.DefaultPage()
	f := repository.JobFilter{Status: q.Status, Search: strings.TrimSpace(q.Search), Limit: q.Limit, Offset: q.Offset}
	switch {
	case q.Mine:
		f.PostedBy = actor.UserID
	case !rbac.Has(actor.Role, rbac.CapManageJobs):
		f.Status = entity.JobStatusOpen
	case !actor.Role.IsAdmin() && q.Status != entity.JobStatusOpen:
		// drafts and closed jobs of other tenants stay hidden
		fresh, _, err := uc.guard.Current(ctx, actor)
		if err != nil {
			return nil, err
		}
		if fresh.HasCompany() {
			f.CompanyID = fresh.CompanyID
		} else {
			f.PostedBy = actor.UserID
		}
	}
	list, err := uc.jobs.List(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := uc.jobs.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.JobResponse, 0, len(list))
	for _, j := range list {
		items = append(items, *toJobResponse(j))
	}
	return &dto.JobListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Get returns a job. Jobs that are not open are visible to their tenant only
// and look missing to everyone else.
func (uc *JobUseCase) Get(ctx context.Context, actor *rbac.Identity, id string) (*dto.JobResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapViewJobs); err != nil {
		return nil, err
	}
	job, err := uc.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.NotFoundf("job %s", id)
	}
	if job.Status != entity.JobStatusOpen {
		if _, err := uc.authorizeJob(ctx, actor, job); err != nil {
			if errors.Is(err, domain.ErrRoleInsufficient) || errors.Is(err, domain.ErrTenantMismatch) {
				return nil, domain.NotFoundf("job %s", id)
			}
			return nil, err
		}
	}
	return toJobResponse(job), nil
}

// Update edits a job of the caller's tenant.
func (uc *JobUseCase) Update(ctx context.Context, actor *rbac.Identity, id string, in dto.JobRequest) (*dto.JobResponse, error) {
	job, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := checkRange(in.SalaryMin, in.SalaryMax, "salary"); err != nil {
		return nil, err
	}
	job.Title = strings.TrimSpace(in.Title)
	job.Description = in.Description
	job.Location = in.Location
	job.JobType = orDefault(in.JobType, job.JobType)
	job.SalaryMin = in.SalaryMin
	job.SalaryMax = in.SalaryMax
	job.Currency = strings.ToUpper(orDefault(in.Currency, job.Currency))
	job.Skills = NormalizeSkills(in.Skills)
	job.Status = orDefault(in.Status, job.Status)
	job.UpdatedAt = time.Now().UTC()
	if err := uc.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return toJobResponse(job), nil
}

// Delete removes a job of the caller's tenant.
func (uc *JobUseCase) Delete(ctx context.Context, actor *rbac.Identity, id string) error {
	if _, err := uc.load(ctx, actor, id); err != nil {
		return err
	}
	return uc.jobs.Delete(ctx, id)
}

// ImportTemplate returns the empty spreadsheet to fill.
func (uc *JobUseCase) ImportTemplate(actor *rbac.Identity) ([]byte, error) {
	if err := uc.guard.Allow(actor, rbac.CapManageJobs); err != nil {
		return nil, err
	}
	if uc.sheet == nil {
		return nil, fmt.Errorf("job import is not configured")
	}
	return uc.sheet.Template()
}

// Import creates one job per valid spreadsheet row; invalid rows are reported
// and skipped. The valid rows are inserted together.
func (uc *JobUseCase) Import(ctx context.Context, actor *rbac.Identity, r io.Reader) (*dto.JobImportResult, error) {
	if err := uc.guard.Allow(actor, rbac.CapManageJobs); err != nil {
		return nil, err
	}
	if uc.sheet == nil {
		return nil, fmt.Errorf("job import is not configured")
	}
	fresh, _, err := uc.guard.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	rows, err := uc.sheet.Read(r)
	if err != nil {
		return nil, domain.Validationf("unreadable spreadsheet: %v", err)
	}
	if len(rows) == 0 {
		return nil, domain.Validationf("spreadsheet has no job rows")
	}

	res := &dto.JobImportResult{}
	jobs := make([]*entity.JobPosting, 0, len(rows))
	for _, row := range rows {
		if row.Error != "" {
			res.Errors = append(res.Errors, dto.ImportRowError{Row: row.Row, Message: row.Error})
			continue
		}
		if err := rowValidator.Struct(row.Job); err != nil {
			res.Errors = append(res.Errors, dto.ImportRowError{Row: row.Row, Message: firstFieldError(err)})
			continue
		}
		job, err := newJob(fresh, row.Job)
		if err != nil {
			res.Errors = append(res.Errors, dto.ImportRowError{Row: row.Row, Message: err.Error()})
			continue
		}
		jobs = append(jobs, job)
	}
	if len(jobs) > 0 {
		if err := uc.jobs.CreateBatch(ctx, jobs); err != nil {
			return nil, err
		}
	}
	res.Imported = len(jobs)
	res.Failed = len(res.Errors)
	uc.log.Info().Str("user_id", actor.UserID).Int("imported", res.Imported).Int("failed", res.Failed).Msg("jobs imported")
	return res, nil
}

func (uc *JobUseCase) load(ctx context.Context, actor *rbac.Identity, id string) (*entity.JobPosting, error) {
	if err := uc.guard.Allow(actor, rbac.CapManageJobs); err != nil {
		return nil, err
	}
	job, err := uc.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.authorizeJob(ctx, actor, job)
}

func (uc *JobUseCase) authorizeJob(ctx context.Context, actor *rbac.Identity, job *entity.JobPosting) (*entity.JobPosting, error) {
	fresh, _, err := uc.guard.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	var owner *rbac.Owner
	if job != nil {
		owner = &rbac.Owner{CompanyID: job.CompanyID, UserID: job.PostedBy}
	}
	if err := uc.guard.AllowResource(fresh, rbac.CapManageJobs, owner); err != nil {
		return nil, err
	}
	return job, nil
}

func newJob(poster *rbac.Identity, in dto.JobRequest) (*entity.JobPosting, error) {
	if err := checkRange(in.SalaryMin, in.SalaryMax, "salary"); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &entity.JobPosting{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Location:    in.Location,
		JobType:     orDefault(in.JobType, "full-time"),
		SalaryMin:   in.SalaryMin,
		SalaryMax:   in.SalaryMax,
		Currency:    strings.ToUpper(orDefault(in.Currency, defaultCurrency)),
		Skills:      NormalizeSkills(in.Skills),
		Status:      orDefault(in.Status, entity.JobStatusOpen),
		PostedBy:    poster.UserID,
		CompanyID:   poster.CompanyID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NormalizeSkills trims skills and drops case-insensitive duplicates, keeping
// the first spelling.
func NormalizeSkills(in []string) []string {
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			continue
		}
		key := fold.String(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func firstFieldError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return err.Error()
}

func checkRange(min, max decimal.Decimal, label string) error {
	if min.IsNegative() || max.IsNegative() {
		return domain.Validationf("%s cannot be negative", label)
	}
	if !max.IsZero() && min.GreaterThan(max) {
		return domain.Validationf("%s minimum exceeds maximum", label)
	}
	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func toJobResponse(j *entity.JobPosting) *dto.JobResponse {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	return &dto.JobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		JobType:     j.JobType,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
		Currency:    j.Currency,
		Skills:      skills,
		Status:      j.Status,
		PostedBy:    j.PostedBy,
		CompanyID:   j.CompanyID,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}
