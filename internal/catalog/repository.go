package catalog

import "context"

// Repository defines the interface for activity catalog persistence.
type Repository interface {
	// List retrieves the full catalog.
	List(ctx context.Context) ([]Activity, error)

	// Get retrieves an activity by ID.
	// Returns ErrActivityNotFound if the activity doesn't exist.
	Get(ctx context.Context, id string) (*Activity, error)

	// ReplaceAll replaces the stored catalog with the given activities.
	// Used by catalog import; the new set is validated before the swap.
	ReplaceAll(ctx context.Context, activities []Activity) error
}
