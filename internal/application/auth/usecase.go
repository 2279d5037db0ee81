// Package auth covers sign-up, login and session verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
	"github.com/jhoicas/talent-api/pkg/jwt"
	"github.com/jhoicas/talent-api/pkg/logger"
)

// JWTConfig token settings.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// RoleLog answers whether a role changed after a session was issued.
type RoleLog interface {
	HasRoleChangedSince(ctx context.Context, userID string, role rbac.Role, since time.Time) (bool, error)
	Latest(ctx context.Context, userID string) (*entity.RoleChange, error)
}

// AuthUseCase registration, login and session checks.
type AuthUseCase struct {
	userRepo repository.UserRepository
	roles    RoleLog
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase builds the use case.
func NewAuthUseCase(userRepo repository.UserRepository, roles RoleLog, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, roles: roles, jwtCfg: jwtCfg, log: log.Named("auth"), now: time.Now}
}

// Register creates a self-service account. Only applicant and recruiter can be
// chosen; every other role is granted through a reviewed path.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	role := rbac.RoleApplicant
	if in.Role != "" {
		r, ok := rbac.ParseRole(in.Role)
		if !ok || (r != rbac.RoleApplicant && r != rbac.RoleRecruiter) {
			return nil, domain.Validationf("role %q cannot be self-assigned", in.Role)
		}
		role = r
	}
	email := normalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := uc.now().UTC()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", role.String()).Msg("user registered")
	return ToUserResponse(user), nil
}

// Login checks the password and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		uc.log.Debug().Str("reason", "unknown email").Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Debug().Str("user_id", user.ID).Str("reason", "password mismatch").Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveAccount
	}
	if !user.Role.Valid() {
		return nil, fmt.Errorf("user %s has unknown role %q: %w", user.ID, user.Role, domain.ErrRoleInsufficient)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Subject{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role.String(),
		Name:      user.Name,
		CompanyID: user.CompanyID,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: uc.now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute).UTC(),
		User:      *ToUserResponse(user),
	}, nil
}

// Verify decodes a token into an Identity. Every failure is NotAuthenticated;
// the wrapped text keeps the cause for logs.
func (uc *AuthUseCase) Verify(token string) (*rbac.Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("missing token: %w", domain.ErrNotAuthenticated)
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("invalid token (%v): %w", err, domain.ErrNotAuthenticated)
	}
	role, ok := rbac.ParseRole(claims.Role)
	if !ok {
		return nil, fmt.Errorf("unknown role claim %q: %w", claims.Role, domain.ErrNotAuthenticated)
	}
	return &rbac.Identity{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      role,
		Name:      claims.Name,
		CompanyID: claims.CompanyID,
		IssuedAt:  claims.IssuedAtTime(),
	}, nil
}

// Session describes the verified caller.
func (uc *AuthUseCase) Session(id *rbac.Identity) (*dto.SessionResponse, error) {
	if id == nil || id.UserID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	caps := rbac.CapabilitiesOf(id.Role)
	names := make([]string, 0, len(caps))
	for _, c := range caps {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return &dto.SessionResponse{
		UserID:       id.UserID,
		Email:        id.Email,
		Name:         id.Name,
		Role:         id.Role.String(),
		CompanyID:    id.CompanyID,
		IssuedAt:     id.IssuedAt,
		Capabilities: names,
	}, nil
}

// Me returns the caller's current database row.
func (uc *AuthUseCase) Me(ctx context.Context, id *rbac.Identity) (*dto.UserResponse, error) {
	user, err := uc.activeUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// UpdateProfile changes the caller's display name and, optionally, password.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, id *rbac.Identity, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if !rbac.Has(id.Role, rbac.CapManageProfile) {
		return nil, domain.ErrRoleInsufficient
	}
	user, err := uc.activeUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if in.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
			return nil, domain.ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = uc.now().UTC()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// CheckRole compares the session role with the database and the role-change
// log. A change logged after the token was issued invalidates the session even
// when the role was later changed back.
func (uc *AuthUseCase) CheckRole(ctx context.Context, id *rbac.Identity) (*dto.CheckRoleResponse, error) {
	user, err := uc.activeUser(ctx, id)
	if err != nil {
		return nil, err
	}
	changed, err := uc.roles.HasRoleChangedSince(ctx, id.UserID, id.Role, id.IssuedAt)
	if err != nil {
		return nil, err
	}
	out := &dto.CheckRoleResponse{
		HasRoleChanged: changed || user.Role != id.Role,
		DatabaseRole:   user.Role.String(),
		SessionRole:    id.Role.String(),
	}
	latest, err := uc.roles.Latest(ctx, id.UserID)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", id.UserID).Msg("latest role change unavailable")
	} else if latest != nil {
		at := latest.ChangedAt
		out.LastRoleChange = &at
	}
	if out.HasRoleChanged {
		uc.log.Info().Str("user_id", id.UserID).Str("session_role", out.SessionRole).Str("database_role", out.DatabaseRole).Msg("stale session role")
	}
	return out, nil
}

// EnsureAdmin creates a super admin, or promotes and reactivates an existing
// account with that email. Used by the seed-admin command.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, email, password, name string) (*entity.User, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < 8 {
		return nil, domain.Validationf("admin email and a password of at least 8 characters are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := uc.now().UTC()
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		user.Role = rbac.RoleSuperadmin
		user.PasswordHash = string(hash)
		user.IsActive = true
		user.DeactivatedAt = nil
		user.UpdatedAt = now
		return user, uc.userRepo.Update(ctx, user)
	}
	if name == "" {
		name = "Administrator"
	}
	user = &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         rbac.RoleSuperadmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return user, uc.userRepo.Create(ctx, user)
}

func (uc *AuthUseCase) activeUser(ctx context.Context, id *rbac.Identity) (*entity.User, error) {
	if id == nil || id.UserID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	user, err := uc.userRepo.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s no longer exists: %w", id.UserID, domain.ErrNotAuthenticated)
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveAccount
	}
	return user, nil
}

// IsAuthFailure reports errors that should clear the session cookie.
func IsAuthFailure(err error) bool {
	return errors.Is(err, domain.ErrNotAuthenticated) || errors.Is(err, domain.ErrInactiveAccount)
}

// ToUserResponse maps a user without exposing the hash.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role.String(),
		CompanyID:     u.CompanyID,
		ManagerID:     u.ManagerID,
		TeamID:        u.TeamID,
		IsActive:      u.IsActive,
		DeactivatedAt: u.DeactivatedAt,
		CreatedAt:     u.CreatedAt,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
