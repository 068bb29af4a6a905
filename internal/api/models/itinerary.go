package models

// ScoreWeights blends the greedy planner's per-step composite score.
type ScoreWeights struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
	Delta float64 `json:"delta"`
}

// ItineraryComputeRequest is the request body for
// POST /v1/itineraries:compute. Times are local clock times ("HH:MM").
type ItineraryComputeRequest struct {
	Swipes        []SwipeInput `json:"swipes"`
	StartTime     string       `json:"startTime" validate:"required"`
	EndTime       string       `json:"endTime" validate:"required"`
	StartPoint    string       `json:"startPoint" validate:"required"`
	MaxActivities int          `json:"maxActivities" validate:"required,gt=0"`

	// SectionBias toggles the section-dwell graph adjustment. Defaults to
	// enabled when omitted.
	SectionBias *bool `json:"sectionBias,omitempty"`

	// Weights override the default composite-score weights.
	Weights *ScoreWeights `json:"weights,omitempty"`
}

// ItineraryVisit is one stop in a computed itinerary. The first and last
// visits are the start/return sentinels and carry no activity ID.
type ItineraryVisit struct {
	ActivityID      string  `json:"activityId,omitempty"`
	ActivityName    string  `json:"activityName"`
	SectionID       string  `json:"sectionId,omitempty"`
	Arrival         string  `json:"arrival"`
	Departure       string  `json:"departure"`
	DurationMinutes float64 `json:"durationMinutes,omitempty"`
	WaitMinutes     float64 `json:"waitMinutes,omitempty"`
	TravelMinutes   float64 `json:"travelMinutes,omitempty"`
	Score           float64 `json:"score,omitempty"`
}

// ItineraryStats aggregates a computed itinerary.
type ItineraryStats struct {
	TravelMinutes float64 `json:"travelMinutes"`
	VisitMinutes  float64 `json:"visitMinutes"`
	WaitMinutes   float64 `json:"waitMinutes"`
	Activities    int     `json:"activities"`
}

// Itinerary is the response body for POST /v1/itineraries:compute.
type Itinerary struct {
	Visits []ItineraryVisit `json:"visits"`
	Stats  ItineraryStats   `json:"stats"`
}

// RouteOptimizeRequest is the request body for POST /v1/itineraries:optimize.
// It orders a small, caller-chosen set of activities exhaustively instead of
// greedily; the candidate set is limited to eight activities.
type RouteOptimizeRequest struct {
	Swipes           []SwipeInput `json:"swipes"`
	ActivityIDs      []string     `json:"activityIds" validate:"required,min=1,max=8"`
	TravelCapMinutes float64      `json:"travelCapMinutes,omitempty"`
}

// OptimizedRoute is the response body for POST /v1/itineraries:optimize.
type OptimizedRoute struct {
	Order         []string `json:"order"`
	Score         float64  `json:"score"`
	TravelMinutes float64  `json:"travelMinutes"`
}
