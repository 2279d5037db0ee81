package requests_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/application/requests"
	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
	"github.com/jhoicas/talent-api/internal/domain/repository"
)

// memStore is an in-memory database; RunRequests works on a copy and swaps it
// in on success, so a failing callback leaves no trace.
type memStore struct {
	mu        sync.Mutex
	users     map[string]entity.User
	apps      map[string]entity.EmployerApplication
	creations map[string]entity.UserCreationRequest
	deletions map[string]entity.EmployeeDeletionRequest
	creds     map[string]entity.IssuedCredential
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]entity.User{},
		apps:      map[string]entity.EmployerApplication{},
		creations: map[string]entity.UserCreationRequest{},
		deletions: map[string]entity.EmployeeDeletionRequest{},
		creds:     map[string]entity.IssuedCredential{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) RunRequests(_ context.Context, fn func(repos requests.TxRepos) error) error {
	s.mu.Lock()
	tx := &memStore{
		users:     cloneMap(s.users),
		apps:      cloneMap(s.apps),
		creations: cloneMap(s.creations),
		deletions: cloneMap(s.deletions),
		creds:     cloneMap(s.creds),
	}
	s.mu.Unlock()

	if err := fn(tx.repos()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.apps, s.creations, s.deletions, s.creds = tx.users, tx.apps, tx.creations, tx.deletions, tx.creds
	return nil
}

func (s *memStore) repos() requests.TxRepos {
	return requests.TxRepos{
		Users:        memUsers{s},
		Applications: memApps{s},
		Creations:    memCreations{s},
		Deletions:    memDeletions{s},
		Credentials:  memCreds{s},
	}
}

func (s *memStore) addUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users[u.ID] = u
}

func (s *memStore) user(id string) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r memUsers) Update(_ context.Context, u *entity.User) error {
	r.s.users[u.ID] = *u
	return nil
}

func (r memUsers) UpdateRole(_ context.Context, id string, role rbac.Role) error {
	u, ok := r.s.users[id]
	if !ok {
		return domain.NotFoundf("user %s", id)
	}
	u.Role = role
	r.s.users[id] = u
	return nil
}

func (r memUsers) SetTeam(_ context.Context, userID, teamID string) error {
	u := r.s.users[userID]
	u.TeamID = teamID
	r.s.users[userID] = u
	return nil
}

func (r memUsers) List(_ context.Context, f repository.UserFilter) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.s.users {
		if f.CompanyID != "" && u.CompanyID != f.CompanyID {
			continue
		}
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memUsers) FirstEmployer(_ context.Context, companyID string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.CompanyID == companyID && u.Role == rbac.RoleEmployer {
			return &u, nil
		}
	}
	return nil, nil
}

func (r memUsers) CountByRole(_ context.Context) (map[rbac.Role]int64, error) {
	out := map[rbac.Role]int64{}
	for _, u := range r.s.users {
		out[u.Role]++
	}
	return out, nil
}

type memApps struct{ s *memStore }

func (r memApps) Create(_ context.Context, a *entity.EmployerApplication) error {
	r.s.apps[a.ID] = *a
	return nil
}

func (r memApps) GetByID(_ context.Context, id string) (*entity.EmployerApplication, error) {
	a, ok := r.s.apps[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memApps) LatestByRecruiter(_ context.Context, recruiterID string) (*entity.EmployerApplication, error) {
	var latest *entity.EmployerApplication
	for _, a := range r.s.apps {
		if a.RecruiterID != recruiterID {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) {
			a := a
			latest = &a
		}
	}
	return latest, nil
}

func (r memApps) List(_ context.Context, f repository.RequestFilter) ([]*entity.EmployerApplication, error) {
	var out []*entity.EmployerApplication
	for _, a := range r.s.apps {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		a := a
		out = append(out, &a)
	}
	return out, nil
}

func (r memApps) Update(_ context.Context, a *entity.EmployerApplication) error {
	r.s.apps[a.ID] = *a
	return nil
}

type memCreations struct{ s *memStore }

func (r memCreations) Create(_ context.Context, req *entity.UserCreationRequest) error {
	r.s.creations[req.ID] = *req
	return nil
}

func (r memCreations) GetByID(_ context.Context, id string) (*entity.UserCreationRequest, error) {
	req, ok := r.s.creations[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r memCreations) List(_ context.Context, f repository.RequestFilter) ([]*entity.UserCreationRequest, error) {
	var out []*entity.UserCreationRequest
	for _, req := range r.s.creations {
		if f.CompanyID != "" && req.CompanyID != f.CompanyID {
			continue
		}
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		req := req
		out = append(out, &req)
	}
	return out, nil
}

func (r memCreations) Update(_ context.Context, req *entity.UserCreationRequest) error {
	r.s.creations[req.ID] = *req
	return nil
}

type memDeletions struct{ s *memStore }

func (r memDeletions) Create(_ context.Context, req *entity.EmployeeDeletionRequest) error {
	r.s.deletions[req.ID] = *req
	return nil
}

func (r memDeletions) GetByID(_ context.Context, id string) (*entity.EmployeeDeletionRequest, error) {
	req, ok := r.s.deletions[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r memDeletions) PendingForEmployee(_ context.Context, employeeID string) (*entity.EmployeeDeletionRequest, error) {
	for _, req := range r.s.deletions {
		if req.EmployeeID == employeeID && req.Status == entity.RequestPending {
			return &req, nil
		}
	}
	return nil, nil
}

func (r memDeletions) List(_ context.Context, f repository.RequestFilter) ([]*entity.EmployeeDeletionRequest, error) {
	var out []*entity.EmployeeDeletionRequest
	for _, req := range r.s.deletions {
		if f.CompanyID != "" && req.CompanyID != f.CompanyID {
			continue
		}
		req := req
		out = append(out, &req)
	}
	return out, nil
}

func (r memDeletions) Update(_ context.Context, req *entity.EmployeeDeletionRequest) error {
	r.s.deletions[req.ID] = *req
	return nil
}

type memCreds struct{ s *memStore }

func (r memCreds) Save(_ context.Context, c *entity.IssuedCredential) error {
	r.s.creds[c.RequestID] = *c
	return nil
}

func (r memCreds) Take(_ context.Context, requestID string) (*entity.IssuedCredential, error) {
	c, ok := r.s.creds[requestID]
	if !ok {
		return nil, nil
	}
	delete(r.s.creds, requestID)
	return &c, nil
}

type memCache struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemCache() *memCache { return &memCache{m: map[string]string{}} }

func (c *memCache) Put(_ context.Context, id, pw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[id] = pw
	return nil
}

func (c *memCache) Get(_ context.Context, id string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pw, ok := c.m[id]
	return pw, ok, nil
}

func (c *memCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, id)
	return nil
}

type spyTracker struct {
	calls []string
}

func (t *spyTracker) Record(_ context.Context, userID string, newRole rbac.Role) {
	t.calls = append(t.calls, userID+"->"+newRole.String())
}

type spyNotifier struct{ events []ports.Event }

func (n *spyNotifier) Notify(_ context.Context, e ports.Event) error {
	n.events = append(n.events, e)
	return nil
}

func repositoryFilter(status entity.RequestStatus) repository.RequestFilter {
	return repository.RequestFilter{Status: status}
}
