package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/talent-api/internal/application/dto"
	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

// UserCreation handles employer requests to provision manager and employee accounts.
type UserCreation struct {
	base
	creations repository.UserCreationRequestRepository
	cache     ports.CredentialCache
}

// NewUserCreation builds the workflow. cache may be nil.
func NewUserCreation(d Deps, creations repository.UserCreationRequestRepository, cache ports.CredentialCache) *UserCreation {
	return &UserCreation{base: newBase(d, "user-creation"), creations: creations, cache: cache}
}

// Create files a request inside the caller's company.
func (s *UserCreation) Create(ctx context.Context, actor *rbac.Identity, in dto.UserCreationInput) (*entity.UserCreationRequest, error) {
	if err := s.authorize(actor, rbac.CapRequestUserCreation); err != nil {
		return nil, err
	}
	role, ok := rbac.ParseRole(in.Role)
	if !ok || (role != rbac.RoleEmployee && role != rbac.RoleManager) {
		return nil, domain.Validationf("role must be manager or employee")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.Validationf("name and email are required")
	}
	requester, err := s.requester(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !requester.HasCompany() {
		return nil, domain.Validationf("requester has no company")
	}
	if in.ManagerID != "" {
		manager, err := s.users.GetByID(ctx, in.ManagerID)
		if err != nil {
			return nil, err
		}
		if manager == nil {
			return nil, domain.NotFoundf("manager %s", in.ManagerID)
		}
		if manager.CompanyID != requester.CompanyID {
			return nil, fmt.Errorf("manager belongs to another company: %w", domain.ErrTenantMismatch)
		}
		if manager.Role != rbac.RoleManager {
			return nil, domain.Validationf("user %s is not a manager", manager.ID)
		}
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	now := s.now().UTC()
	req := &entity.UserCreationRequest{
		ID:          uuid.New().String(),
		CompanyID:   requester.CompanyID,
		RequestedBy: requester.ID,
		Name:        strings.TrimSpace(in.Name),
		Email:       email,
		Role:        role,
		ManagerID:   in.ManagerID,
		Status:      entity.RequestPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.creations.Create(ctx, req); err != nil {
		return nil, err
	}
	s.log.Info().Str("request_id", req.ID).Str("company_id", req.CompanyID).Str("role", role.String()).Msg("user creation requested")
	return req, nil
}

// ListForCompany returns the requests of the caller's company.
func (s *UserCreation) ListForCompany(ctx context.Context, actor *rbac.Identity, f repository.RequestFilter) ([]*entity.UserCreationRequest, error) {
	if err := s.authorize(actor, rbac.CapRequestUserCreation); err != nil {
		return nil, err
	}
	requester, err := s.requester(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !requester.HasCompany() {
		return []*entity.UserCreationRequest{}, nil
	}
	f.CompanyID = requester.CompanyID
	return s.creations.List(ctx, f)
}

// List returns requests for admin review.
func (s *UserCreation) List(ctx context.Context, actor *rbac.Identity, f repository.RequestFilter) ([]*entity.UserCreationRequest, error) {
	if err := s.authorize(actor, rbac.CapReviewUserCreation); err != nil {
		return nil, err
	}
	return s.creations.List(ctx, f)
}

// Review decides a pending request. Approval creates the account with a
// generated password, marks the request approved and stores the password for
// a one-time reveal, all in one transaction. A duplicate email aborts the
// transaction and leaves the request pending.
func (s *UserCreation) Review(ctx context.Context, actor *rbac.Identity, id string, status entity.RequestStatus, reason string) (*entity.UserCreationRequest, error) {
	if err := s.authorize(actor, rbac.CapReviewUserCreation); err != nil {
		return nil, err
	}

	var password, hash string
	if status == entity.RequestApproved {
		var err error
		if password, err = GeneratePassword(PasswordLength); err != nil {
			return nil, err
		}
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(h)
	}

	var reviewed *entity.UserCreationRequest
	err := s.tx.RunRequests(ctx, func(r TxRepos) error {
		req, err := r.Creations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.NotFoundf("user creation request %s", id)
		}
		if err := req.Status.TransitionTo(status); err != nil {
			return err
		}
		now := s.now().UTC()
		req.Status = status
		req.ReviewedBy = actor.UserID
		req.ReviewedAt = &now
		req.UpdatedAt = now
		if status == entity.RequestRejected {
			req.RejectionReason = reason
			reviewed = req
			return r.Creations.Update(ctx, req)
		}

		user, err := s.provision(ctx, r, req, hash)
		if err != nil {
			return err
		}
		req.CreatedUserID = user.ID
		if err := r.Creations.Update(ctx, req); err != nil {
			return err
		}
		if err := r.Credentials.Save(ctx, &entity.IssuedCredential{
			RequestID: req.ID,
			UserID:    user.ID,
			Password:  password,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("store issued credential: %w", err)
		}
		reviewed = req
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrTerminalState) {
			s.log.Warn().Err(err).Str("request_id", id).Msg("user creation left pending")
		}
		return nil, err
	}

	s.log.Info().Str("request_id", id).Str("status", string(status)).Str("admin_id", actor.UserID).Msg("user creation reviewed")
	if status == entity.RequestApproved {
		if s.cache != nil {
			if err := s.cache.Put(ctx, id, password); err != nil {
				s.log.Warn().Err(err).Str("request_id", id).Msg("credential cache write failed")
			}
		}
		s.notify(ctx, ports.Event{
			Type:    ports.EventUserProvisioned,
			Subject: reviewed.CreatedUserID,
			ActorID: actor.UserID,
			Data:    map[string]any{"requestId": id, "companyId": reviewed.CompanyID, "role": reviewed.Role.String()},
		})
	}
	return reviewed, nil
}

func (s *UserCreation) provision(ctx context.Context, r TxRepos, req *entity.UserCreationRequest, hash string) (*entity.User, error) {
	existing, err := r.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	teamID := ""
	if req.ManagerID != "" {
		manager, err := r.Users.GetByID(ctx, req.ManagerID)
		if err != nil {
			return nil, err
		}
		if manager != nil {
			teamID = manager.TeamID
		}
	}
	now := s.now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		CompanyID:    req.CompanyID,
		ManagerID:    req.ManagerID,
		TeamID:       teamID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Credential is a revealed one-time password.
type Credential struct {
	RequestID string
	UserID    string
	Email     string
	Password  string
}

// RevealCredential returns the generated password of an approved request
// exactly once. Admins and the employer who filed the request may reveal it.
// The durable store decides whether it is still available; the cache only
// saves reading the password back from it.
func (s *UserCreation) RevealCredential(ctx context.Context, actor *rbac.Identity, requestID string) (*Credential, error) {
	if actor == nil || actor.UserID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	var out *Credential
	err := s.tx.RunRequests(ctx, func(r TxRepos) error {
		req, err := r.Creations.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.NotFoundf("user creation request %s", requestID)
		}
		if req.RequestedBy != actor.UserID {
			if err := s.authorize(actor, rbac.CapRevealIssuedCredentials); err != nil {
				return err
			}
		}
		if req.Status != entity.RequestApproved {
			return fmt.Errorf("request %s is %s: %w", requestID, req.Status, domain.ErrConflict)
		}
		cred, err := r.Credentials.Take(ctx, requestID)
		if err != nil {
			return err
		}
		if cred == nil {
			return domain.NotFoundf("credential for %s was already revealed", requestID)
		}
		password := cred.Password
		if s.cache != nil {
			if cached, ok, err := s.cache.Get(ctx, requestID); err == nil && ok {
				password = cached
			}
		}
		out = &Credential{RequestID: requestID, UserID: cred.UserID, Email: req.Email, Password: password}
		return nil
	})
	if s.cache != nil && (err == nil || errors.Is(err, domain.ErrNotFound)) {
		if derr := s.cache.Delete(ctx, requestID); derr != nil {
			s.log.Warn().Err(derr).Str("request_id", requestID).Msg("credential cache purge failed")
		}
	}
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("request_id", requestID).Str("revealed_by", actor.UserID).Msg("issued credential revealed")
	return out, nil
}
