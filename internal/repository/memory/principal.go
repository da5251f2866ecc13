package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/internal/repository"
)

type principalRepository struct {
	mu   sync.RWMutex
	byID map[string]*model.Principal
}

func NewPrincipalRepository() repository.PrincipalRepository {
	return &principalRepository{byID: make(map[string]*model.Principal)}
}

func clonePrincipal(p *model.Principal) *model.Principal {
	c := *p
	return &c
}

// checkUnique must be called with the lock held.
func (r *principalRepository) checkUnique(p *model.Principal) error {
	for _, existing := range r.byID {
		if existing.ID == p.ID {
			continue
		}
		if existing.EmployeeNumber == p.EmployeeNumber {
			return &repository.DuplicateKeyError{Field: "employeeNumber"}
		}
		if strings.EqualFold(existing.Email, p.Email) {
			return &repository.DuplicateKeyError{Field: "email"}
		}
	}
	return nil
}

func (r *principalRepository) Create(_ context.Context, p *model.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, ok := r.byID[p.ID]; ok {
		return &repository.DuplicateKeyError{Field: "id"}
	}
	if err := r.checkUnique(p); err != nil {
		return err
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.byID[p.ID] = clonePrincipal(p)
	return nil
}

func (r *principalRepository) Get(_ context.Context, id string) (*model.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePrincipal(p), nil
}

func (r *principalRepository) find(match func(*model.Principal) bool) (*model.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if match(p) {
			return clonePrincipal(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *principalRepository) GetByEmployeeNumber(_ context.Context, employeeNumber string) (*model.Principal, error) {
	return r.find(func(p *model.Principal) bool { return p.EmployeeNumber == employeeNumber })
}

func (r *principalRepository) GetByEmail(_ context.Context, email string) (*model.Principal, error) {
	return r.find(func(p *model.Principal) bool { return strings.EqualFold(p.Email, email) })
}

func (r *principalRepository) Update(_ context.Context, p *model.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.checkUnique(p); err != nil {
		return err
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	r.byID[p.ID] = clonePrincipal(p)
	return nil
}

func (r *principalRepository) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsActive = active
	p.UpdatedAt = time.Now()
	return nil
}

func (r *principalRepository) DeactivateByEmployeeNumber(_ context.Context, employeeNumber string) (*model.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.byID {
		if p.EmployeeNumber == employeeNumber {
			p.IsActive = false
			p.UpdatedAt = time.Now()
			return clonePrincipal(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *principalRepository) UpdateCredits(_ context.Context, id string, points int) (*model.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.CreditPoints = points
	p.UpdatedAt = time.Now()
	return clonePrincipal(p), nil
}

func matchPrincipal(p *model.Principal, q model.PrincipalQuery) bool {
	if !q.IncludeInactive && !p.IsActive {
		return false
	}
	if len(q.Roles) > 0 {
		found := false
		for _, role := range q.Roles {
			if p.Role == role {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if model.IsFilter(q.Department) && p.Department != q.Department {
		return false
	}
	if q.Search != "" {
		return containsFold(p.Name, q.Search) ||
			containsFold(p.EmployeeNumber, q.Search) ||
			containsFold(p.Email, q.Search)
	}
	return true
}

func principalLess(field string) func(a, b *model.Principal) bool {
	switch field {
	case "creditPoints":
		return func(a, b *model.Principal) bool { return a.CreditPoints < b.CreditPoints }
	case "name":
		return func(a, b *model.Principal) bool { return a.Name < b.Name }
	case "employeeNumber":
		return func(a, b *model.Principal) bool { return a.EmployeeNumber < b.EmployeeNumber }
	case "email":
		return func(a, b *model.Principal) bool { return a.Email < b.Email }
	case "department":
		return func(a, b *model.Principal) bool { return a.Department < b.Department }
	case "designation":
		return func(a, b *model.Principal) bool { return a.Designation < b.Designation }
	case "role":
		return func(a, b *model.Principal) bool { return a.Role < b.Role }
	case "updatedAt":
		return func(a, b *model.Principal) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	default:
		return func(a, b *model.Principal) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

func (r *principalRepository) List(_ context.Context, q model.PrincipalQuery) ([]*model.Principal, int64, error) {
	r.mu.RLock()
	var matched []*model.Principal
	for _, p := range r.byID {
		if matchPrincipal(p, q) {
			matched = append(matched, clonePrincipal(p))
		}
	}
	r.mu.RUnlock()

	less := principalLess(q.Sort.Field)
	sort.SliceStable(matched, func(i, j int) bool {
		if q.Sort.Desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})
	return page(matched, q.Pagination.Skip(), q.Pagination.Limit), int64(len(matched)), nil
}

func (r *principalRepository) ListActiveByRoles(ctx context.Context, roles ...model.Role) ([]*model.Principal, error) {
	out, _, err := r.List(ctx, model.PrincipalQuery{Roles: roles, Sort: model.SortOrder{Field: "createdAt"}})
	return out, err
}

func (r *principalRepository) Departments(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{})
	for _, p := range r.byID {
		if p.IsActive {
			set[p.Department] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

func (r *principalRepository) Upsert(_ context.Context, p *model.Principal) (*model.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, existing := range r.byID {
		if existing.EmployeeNumber != p.EmployeeNumber {
			continue
		}
		updated := clonePrincipal(existing)
		updated.Name = p.Name
		updated.Email = p.Email
		updated.Department = p.Department
		updated.Designation = p.Designation
		updated.Role = p.Role
		updated.MobileNumber = p.MobileNumber
		updated.UpdatedAt = now
		if err := r.checkUnique(updated); err != nil {
			return nil, err
		}
		r.byID[updated.ID] = updated
		return clonePrincipal(updated), nil
	}

	created := clonePrincipal(p)
	created.ID = uuid.NewString()
	created.CreditPoints = 0
	created.IsActive = true
	created.CreatedAt = now
	created.UpdatedAt = now
	if err := r.checkUnique(created); err != nil {
		return nil, err
	}
	r.byID[created.ID] = created
	return clonePrincipal(created), nil
}
