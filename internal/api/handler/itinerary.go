package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/visitroute/visitroute/internal/api/models"
	"github.com/visitroute/visitroute/internal/api/response"
	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/internal/itinerary"
	"github.com/visitroute/visitroute/internal/recommend"
	"github.com/visitroute/visitroute/internal/travelgraph"
)

// ItineraryHandler handles itinerary computation endpoints.
type ItineraryHandler struct {
	catalog catalog.Repository
	graphs  *travelgraph.Service
	planner *itinerary.Planner
}

// NewItineraryHandler creates a new ItineraryHandler.
func NewItineraryHandler(cat catalog.Repository, graphs *travelgraph.Service, planner *itinerary.Planner) *ItineraryHandler {
	return &ItineraryHandler{
		catalog: cat,
		graphs:  graphs,
		planner: planner,
	}
}

// ComputeItinerary handles POST /v1/itineraries:compute - build a day
// itinerary from the user's swipes and time window.
func (h *ItineraryHandler) ComputeItinerary(w http.ResponseWriter, r *http.Request) {
	var input models.ItineraryComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	it, err := computeItinerary(r.Context(), h.catalog, h.graphs, h.planner, input)
	if err != nil {
		writeComputeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toItinerary(it))
}

// OptimizeRoute handles POST /v1/itineraries:optimize - exhaustively order a
// small caller-chosen candidate set instead of planning greedily.
func (h *ItineraryHandler) OptimizeRoute(w http.ResponseWriter, r *http.Request) {
	var input models.RouteOptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if len(input.ActivityIDs) == 0 {
		response.BadRequest(w, r, "activityIds is required", []models.FieldError{
			{Field: "activityIds", Message: "at least one activity is required"},
		})
		return
	}
	if len(input.ActivityIDs) > itinerary.MaxCandidates {
		response.BadRequest(w, r, "too many candidates for exhaustive ordering", []models.FieldError{
			{Field: "activityIds", Message: "at most 8 activities are supported"},
		})
		return
	}

	graph, err := h.graphs.Snapshot()
	if err != nil {
		writeComputeError(w, r, err)
		return
	}

	activities, err := h.catalog.List(r.Context())
	if err != nil {
		writeComputeError(w, r, err)
		return
	}

	scored, err := recommend.Recommend(toSwipes(input.Swipes), activities, recommend.DefaultOptions())
	if err != nil {
		writeComputeError(w, r, err)
		return
	}

	byID := make(map[string]recommend.ScoredActivity, len(scored))
	for _, s := range scored {
		byID[s.ID] = s
	}

	// Candidates keep the request order, which fixes the permutation
	// enumeration order and therefore the first-found-wins tie rule.
	candidates := make([]recommend.ScoredActivity, 0, len(input.ActivityIDs))
	for _, id := range input.ActivityIDs {
		s, ok := byID[id]
		if !ok {
			response.BadRequest(w, r, "unknown activity id: "+id, []models.FieldError{
				{Field: "activityIds", Message: "must reference catalog activities"},
			})
			return
		}
		candidates = append(candidates, s)
	}

	route, err := itinerary.OptimizeSmallSet(candidates, graph, input.TravelCapMinutes)
	if err != nil {
		if errors.Is(err, itinerary.ErrNoFeasibleRoute) {
			response.Conflict(w, r, "no ordering satisfies the travel cap")
			return
		}
		writeComputeError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.OptimizedRoute{
		Order:         route.Order,
		Score:         route.Score,
		TravelMinutes: route.TravelMinutes,
	})
}

// computeItinerary runs the planning pipeline for one request: catalog and
// graph snapshots in, itinerary out. Shared by the compute and saved-plan
// endpoints.
func computeItinerary(ctx context.Context, cat catalog.Repository, graphs *travelgraph.Service, planner *itinerary.Planner, input models.ItineraryComputeRequest) (*itinerary.Itinerary, error) {
	graph, err := graphs.Snapshot()
	if err != nil {
		return nil, err
	}

	activities, err := cat.List(ctx)
	if err != nil {
		return nil, err
	}

	weights := itinerary.DefaultWeights()
	if input.Weights != nil {
		weights = itinerary.Weights{
			Alpha: input.Weights.Alpha,
			Beta:  input.Weights.Beta,
			Gamma: input.Weights.Gamma,
			Delta: input.Weights.Delta,
		}
	}

	sectionBias := true
	if input.SectionBias != nil {
		sectionBias = *input.SectionBias
	}

	return planner.Build(ctx, itinerary.BuildRequest{
		Swipes:        toSwipes(input.Swipes),
		Activities:    activities,
		Graph:         graph,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		StartPoint:    input.StartPoint,
		MaxActivities: input.MaxActivities,
		Weights:       weights,
		SectionBias:   sectionBias,
	})
}

// writeComputeError maps planning-pipeline errors to problem responses.
func writeComputeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, itinerary.ErrInvalidClock):
		field := "startTime"
		if strings.HasPrefix(err.Error(), "end time") {
			field = "endTime"
		}
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: field, Message: "must be a valid HH:MM clock time"},
		})
	case errors.Is(err, itinerary.ErrInvalidTimeWindow):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "startTime", Message: "must be before endTime"},
		})
	case errors.Is(err, itinerary.ErrInvalidMaxActivities):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "maxActivities", Message: "must be positive"},
		})
	case errors.Is(err, itinerary.ErrNegativeWeight):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "weights", Message: "must be non-negative"},
		})
	case errors.Is(err, itinerary.ErrUnknownStartPoint):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "startPoint", Message: "must be a known location name"},
		})
	case errors.Is(err, travelgraph.ErrGraphNotReady):
		response.ServiceUnavailable(w, r, "travel-time graph is not built yet")
	case errors.Is(err, catalog.ErrEmptyCatalog):
		response.ServiceUnavailable(w, r, "activity catalog is not loaded")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.ServiceUnavailable(w, r, "itinerary computation timed out")
	default:
		response.InternalError(w, r, "failed to compute itinerary")
	}
}
