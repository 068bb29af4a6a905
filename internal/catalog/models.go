// Package catalog provides the activity catalog: the immutable set of
// points of interest inside the site, with opening hours, visit durations
// and thematic interest vectors.
package catalog

import (
	"errors"

	"github.com/visitroute/visitroute/internal/interest"
	"github.com/visitroute/visitroute/pkg/geo"
)

// Catalog errors.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrEmptyCatalog     = errors.New("catalog is empty")
)

// Activity represents a single visitable point of interest.
// Times are minutes from midnight, durations are minutes.
// Activities are immutable after load.
type Activity struct {
	ID          string
	Name        string
	SectionID   string
	OpeningTime float64
	ClosingTime float64
	Duration    float64
	Interests   interest.Vector
	Location    geo.Coordinate
}

// Swipe is a user's like/dislike signal on one activity.
type Swipe struct {
	ActivityID string `json:"activityId"`
	Liked      bool   `json:"like"`
}

// ByID builds an ID-keyed lookup over activities.
func ByID(activities []Activity) map[string]Activity {
	out := make(map[string]Activity, len(activities))
	for _, a := range activities {
		out[a.ID] = a
	}
	return out
}

// SectionOf builds a display-name keyed section lookup over activities.
// Display names double as travel graph node keys, so they must be unique
// (enforced at load time by Validate).
func SectionOf(activities []Activity) map[string]string {
	out := make(map[string]string, len(activities))
	for _, a := range activities {
		out[a.Name] = a.SectionID
	}
	return out
}
