package repository

import (
	"context"

	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
)

// UserFilter narrows user listings. Zero values are ignored.
type UserFilter struct {
	Role      rbac.Role
	Roles     []rbac.Role
	CompanyID string
	Active    *bool
	Limit     int
	Offset    int
}

// UserRepository is the persistence port for User. Lookups return (nil, nil)
// when the row does not exist.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateRole(ctx context.Context, id string, role rbac.Role) error
	SetTeam(ctx context.Context, userID, teamID string) error
	List(ctx context.Context, f UserFilter) ([]*entity.User, error)
	// FirstEmployer returns the earliest employer of a company.
	FirstEmployer(ctx context.Context, companyID string) (*entity.User, error)
	CountByRole(ctx context.Context) (map[rbac.Role]int64, error)
}
