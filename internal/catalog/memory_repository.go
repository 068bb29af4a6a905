package catalog

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing and for catalogs loaded from a JSON file.
// Production deployments backed by a database should use PostgresRepository.
type InMemoryRepository struct {
	mu         sync.RWMutex
	activities []Activity
	byID       map[string]Activity
}

// NewInMemoryRepository creates a new in-memory catalog repository.
func NewInMemoryRepository(activities []Activity) *InMemoryRepository {
	r := &InMemoryRepository{}
	r.replace(activities)
	return r
}

// List retrieves the full catalog in load order.
func (r *InMemoryRepository) List(_ context.Context) ([]Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Activity, len(r.activities))
	copy(out, r.activities)
	return out, nil
}

// Get retrieves an activity by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrActivityNotFound
	}
	return &a, nil
}

// ReplaceAll replaces the stored catalog.
func (r *InMemoryRepository) ReplaceAll(_ context.Context, activities []Activity) error {
	if err := Validate(activities); err != nil {
		return err
	}
	r.replace(activities)
	return nil
}

func (r *InMemoryRepository) replace(activities []Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activities = make([]Activity, len(activities))
	copy(r.activities, activities)
	r.byID = ByID(r.activities)
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
