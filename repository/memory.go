package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"statedash/auth"
	"statedash/models"
)

// MemoryProjectRepository is an in-memory ProjectRepository with the same
// semantics as the Postgres implementation. It backs tests and local
// development without a database.
type MemoryProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]models.Project
	roles    auth.RoleChecker
}

// NewMemoryProjectRepository creates an empty in-memory repository.
func NewMemoryProjectRepository(roles auth.RoleChecker) *MemoryProjectRepository {
	return &MemoryProjectRepository{
		projects: make(map[string]models.Project),
		roles:    roles,
	}
}

func (r *MemoryProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *MemoryProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	return r.ListFiltered(ctx, models.ProjectFilters{})
}

func (r *MemoryProjectRepository) ListFiltered(ctx context.Context, filters models.ProjectFilters) ([]models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Project{}
	for _, p := range r.projects {
		if matches(p, filters) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func matches(p models.Project, f models.ProjectFilters) bool {
	if f.StateID != "" && p.StateID != f.StateID {
		return false
	}
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.StartDateFrom != "" && p.StartDate < f.StartDateFrom {
		return false
	}
	if f.StartDateTo != "" && p.StartDate > f.StartDateTo {
		return false
	}
	if f.EndDateFrom != "" && (p.EndDate == "" || p.EndDate < f.EndDateFrom) {
		return false
	}
	if f.EndDateTo != "" && (p.EndDate == "" || p.EndDate > f.EndDateTo) {
		return false
	}
	return true
}

func (r *MemoryProjectRepository) Create(ctx context.Context, input ProjectInput, actingUserID string) (*models.Project, error) {
	if !r.roles.HasRole(actingUserID, auth.RoleAdmin) {
		return nil, ErrForbidden
	}
	if err := ValidateCreate(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := projectFromInput(input)
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID] = *p
	return p, nil
}

func (r *MemoryProjectRepository) Update(ctx context.Context, id string, input ProjectInput, actingUserID string) (*models.Project, error) {
	if !r.roles.HasRole(actingUserID, auth.RoleAdmin) {
		return nil, ErrForbidden
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	applyInput(&current, input)
	current.UpdatedAt = time.Now().UTC()
	r.projects[id] = current
	return &current, nil
}

func (r *MemoryProjectRepository) Delete(ctx context.Context, id string, actingUserID string) error {
	if !r.roles.HasRole(actingUserID, auth.RoleAdmin) {
		return ErrForbidden
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *MemoryProjectRepository) GetStatistics(ctx context.Context) (*models.AggregateStats, error) {
	projects, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return foldStatistics(projects), nil
}
