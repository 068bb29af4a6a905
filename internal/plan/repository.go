package plan

import "context"

// Repository defines the persistence interface for saved plans.
type Repository interface {
	// Create stores a new plan.
	Create(ctx context.Context, p *Plan) error

	// GetByID retrieves a plan by ID, scoped to its owner.
	// Returns ErrPlanNotFound if absent or owned by another user.
	GetByID(ctx context.Context, userID, planID string) (*Plan, error)

	// ListByUser returns the user's plans, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Plan, error)

	// Delete removes a plan, scoped to its owner.
	// Returns ErrPlanNotFound if absent or owned by another user.
	Delete(ctx context.Context, userID, planID string) error
}
