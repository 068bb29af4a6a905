package plan

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository, used in
// tests and local development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	plans map[string]*Plan
}

// NewInMemoryRepository creates a new in-memory plan repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{plans: make(map[string]*Plan)}
}

// Create stores a new plan.
func (r *InMemoryRepository) Create(_ context.Context, p *Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *p
	r.plans[p.ID] = &stored
	return nil
}

// GetByID retrieves a plan by ID, scoped to its owner.
func (r *InMemoryRepository) GetByID(_ context.Context, userID, planID string) (*Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plans[planID]
	if !ok || p.UserID != userID {
		return nil, ErrPlanNotFound
	}

	out := *p
	return &out, nil
}

// ListByUser returns the user's plans, newest first.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID string) ([]*Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var plans []*Plan
	for _, p := range r.plans {
		if p.UserID == userID {
			out := *p
			plans = append(plans, &out)
		}
	}

	sort.Slice(plans, func(i, j int) bool {
		if plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].ID < plans[j].ID
		}
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})

	return plans, nil
}

// Delete removes a plan, scoped to its owner.
func (r *InMemoryRepository) Delete(_ context.Context, userID, planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.plans[planID]
	if !ok || p.UserID != userID {
		return ErrPlanNotFound
	}

	delete(r.plans, planID)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
