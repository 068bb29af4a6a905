package models

// PlanCreateRequest is the request body for POST /v1/me/itineraries. The
// itinerary is computed server-side from the embedded request, so a saved
// plan always carries consistent stats.
type PlanCreateRequest struct {
	Title string `json:"title,omitempty"`
	ItineraryComputeRequest
}

// Plan is one saved itinerary.
type Plan struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Itinerary Itinerary `json:"itinerary"`
	CreatedAt Timestamp `json:"createdAt"`
}

// PlanList is the response body for GET /v1/me/itineraries, newest first.
type PlanList struct {
	Items []Plan `json:"items"`
}
