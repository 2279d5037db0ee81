package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

// CompanyUseCase manages tenants: admin CRUD plus the employer's own profile.
type CompanyUseCase struct {
	guard *Guard
	repo  repository.CompanyRepository
	users repository.UserRepository
}

// NewCompanyUseCase builds the use case.
func NewCompanyUseCase(guard *Guard, repo repository.CompanyRepository, users repository.UserRepository) *CompanyUseCase {
	return &CompanyUseCase{guard: guard, repo: repo, users: users}
}

// Create adds a company (admin).
func (uc *CompanyUseCase) Create(ctx context.Context, actor *rbac.Identity, in dto.CompanyRequest) (*dto.CompanyResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapManageCompanies); err != nil {
		return nil, err
	}
	company := newCompany(in)
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// GetByID returns one company (admin).
func (uc *CompanyUseCase) GetByID(ctx context.Context, actor *rbac.Identity, id string) (*dto.CompanyResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapManageCompanies); err != nil {
		return nil, err
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NotFoundf("company %s", id)
	}
	return entityToCompanyResponse(company), nil
}

// List pages through companies (admin).
func (uc *CompanyUseCase) List(ctx context.Context, actor *rbac.Identity, page dto.PageRequest) (*dto.CompanyListResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapManageCompanies); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Mine returns the employer's company.
func (uc *CompanyUseCase) Mine(ctx context.Context, actor *rbac.Identity) (*dto.CompanyResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapManageCompanyProfile); err != nil {
		return nil, err
	}
	fresh, _, err := uc.guard.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !fresh.HasCompany() {
		return nil, domain.NotFoundf("no company profile yet")
	}
	company, err := uc.repo.GetByID(ctx, fresh.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.NotFoundf("company %s", fresh.CompanyID)
	}
	return entityToCompanyResponse(company), nil
}

// SaveMine updates the employer's company, creating it and affiliating the
// employer on first use.
func (uc *CompanyUseCase) SaveMine(ctx context.Context, actor *rbac.Identity, in dto.CompanyRequest) (*dto.CompanyResponse, error) {
	if err := uc.guard.Allow(actor, rbac.CapManageCompanyProfile); err != nil {
		return nil, err
	}
	fresh, user, err := uc.guard.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !fresh.HasCompany() {
		company := newCompany(in)
		if err := uc.repo.Create(ctx, company); err != nil {
			return nil, err
		}
		user.CompanyID = company.ID
		user.UpdatedAt = company.CreatedAt
		if err := uc.users.Update(ctx, user); err != nil {
			return nil, err
		}
		return entityToCompanyResponse(company), nil
	}

	company, err := uc.repo.GetByID(ctx, fresh.CompanyID)
	if err != nil {
		return nil, err
	}
	var owner *rbac.Owner
	if company != nil {
		owner = &rbac.Owner{CompanyID: company.ID}
	}
	if err := uc.guard.AllowResource(fresh, rbac.CapManageCompanyProfile, owner); err != nil {
		return nil, err
	}
	company.Name = strings.TrimSpace(in.Name)
	company.Industry = in.Industry
	company.Website = in.Website
	company.Description = in.Description
	company.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

func newCompany(in dto.CompanyRequest) *entity.Company {
	now := time.Now().UTC()
	return &entity.Company{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Industry:    in.Industry,
		Website:     in.Website,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Industry:    c.Industry,
		Website:     c.Website,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
