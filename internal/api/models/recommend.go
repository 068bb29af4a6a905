package models

// RecommendationsComputeRequest is the request body for
// POST /v1/recommendations:compute.
type RecommendationsComputeRequest struct {
	Swipes []SwipeInput `json:"swipes"`

	// TopN limits the response to the N best-scored activities (0 = all).
	TopN int `json:"topN,omitempty"`

	// ExcludeSeen omits already-swiped activities from the response.
	ExcludeSeen bool `json:"excludeSeen,omitempty"`
}

// ScoredActivity is one catalog activity annotated with its recommendation
// score. Opening and closing times are local clock times ("HH:MM").
type ScoredActivity struct {
	ActivityID      string  `json:"activityId"`
	Name            string  `json:"name"`
	SectionID       string  `json:"sectionId"`
	OpeningTime     string  `json:"openingTime"`
	ClosingTime     string  `json:"closingTime"`
	DurationMinutes float64 `json:"durationMinutes"`
	Location        Point   `json:"location"`
	Score           float64 `json:"score"`
}

// RecommendationsResponse is the response body for
// POST /v1/recommendations:compute.
type RecommendationsResponse struct {
	Items []ScoredActivity `json:"items"`

	// Profile is the user's accumulated preference weight per theme.
	Profile map[string]float64 `json:"profile"`
}
