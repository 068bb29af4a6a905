package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/visitroute/visitroute/internal/api/models"
	"github.com/visitroute/visitroute/internal/api/response"
	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/internal/itinerary"
	"github.com/visitroute/visitroute/internal/plan"
	"github.com/visitroute/visitroute/internal/travelgraph"
)

// PlanHandler handles saved itinerary endpoints.
type PlanHandler struct {
	plans   *plan.Service
	catalog catalog.Repository
	graphs  *travelgraph.Service
	planner *itinerary.Planner
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(plans *plan.Service, cat catalog.Repository, graphs *travelgraph.Service, planner *itinerary.Planner) *PlanHandler {
	return &PlanHandler{
		plans:   plans,
		catalog: cat,
		graphs:  graphs,
		planner: planner,
	}
}

// CreatePlan handles POST /v1/me/itineraries - compute and save an itinerary.
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var input models.PlanCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	it, err := computeItinerary(r.Context(), h.catalog, h.graphs, h.planner, input.ItineraryComputeRequest)
	if err != nil {
		writeComputeError(w, r, err)
		return
	}

	saved, err := h.plans.Save(r.Context(), GetUserID(r.Context()), input.Title, *it)
	if err != nil {
		response.InternalError(w, r, "failed to save itinerary")
		return
	}

	location := fmt.Sprintf("/v1/me/itineraries/%s", saved.ID)
	response.Created(w, r, location, toPlan(saved))
}

// ListPlans handles GET /v1/me/itineraries - list saved itineraries, newest
// first.
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.plans.List(r.Context(), GetUserID(r.Context()))
	if err != nil {
		response.InternalError(w, r, "failed to list itineraries")
		return
	}

	items := make([]models.Plan, len(plans))
	for i, p := range plans {
		items[i] = toPlan(p)
	}
	response.JSON(w, r, http.StatusOK, models.PlanList{Items: items})
}

// GetPlan handles GET /v1/me/itineraries/{itineraryId} - get one saved
// itinerary.
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "itineraryId")
	if planID == "" {
		response.BadRequest(w, r, "itineraryId is required", nil)
		return
	}

	p, err := h.plans.Get(r.Context(), GetUserID(r.Context()), planID)
	if err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			response.NotFound(w, r, "itinerary not found")
			return
		}
		response.InternalError(w, r, "failed to load itinerary")
		return
	}

	response.JSON(w, r, http.StatusOK, toPlan(p))
}

// DeletePlan handles DELETE /v1/me/itineraries/{itineraryId} - delete one
// saved itinerary.
func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "itineraryId")
	if planID == "" {
		response.BadRequest(w, r, "itineraryId is required", nil)
		return
	}

	if err := h.plans.Delete(r.Context(), GetUserID(r.Context()), planID); err != nil {
		if errors.Is(err, plan.ErrPlanNotFound) {
			response.NotFound(w, r, "itinerary not found")
			return
		}
		response.InternalError(w, r, "failed to delete itinerary")
		return
	}

	response.NoContent(w, r)
}
