// Package plan persists computed itineraries per user.
package plan

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/visitroute/visitroute/internal/itinerary"
)

// Plan errors.
var (
	ErrPlanNotFound = errors.New("plan not found")
)

// Plan is a saved itinerary belonging to one user.
type Plan struct {
	// ID is the plan identifier ("itn_" + uuid).
	ID string `json:"id"`

	// UserID is the owning user.
	UserID string `json:"userId"`

	// Title is an optional user-supplied label.
	Title string `json:"title,omitempty"`

	// Itinerary is the stored day plan.
	Itinerary itinerary.Itinerary `json:"itinerary"`

	// CreatedAt is when the plan was saved.
	CreatedAt time.Time `json:"createdAt"`
}

// NewPlanID generates a new plan identifier.
func NewPlanID() string {
	return fmt.Sprintf("itn_%s", uuid.NewString())
}
