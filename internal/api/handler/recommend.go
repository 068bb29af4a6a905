package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/visitroute/visitroute/internal/api/models"
	"github.com/visitroute/visitroute/internal/api/response"
	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/internal/recommend"
)

// RecommendHandler handles recommendation endpoints.
type RecommendHandler struct {
	catalog catalog.Repository
}

// NewRecommendHandler creates a new RecommendHandler.
func NewRecommendHandler(cat catalog.Repository) *RecommendHandler {
	return &RecommendHandler{catalog: cat}
}

// ComputeRecommendations handles POST /v1/recommendations:compute - score
// every catalog activity against the user's swipes.
func (h *RecommendHandler) ComputeRecommendations(w http.ResponseWriter, r *http.Request) {
	var input models.RecommendationsComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.TopN < 0 {
		response.BadRequest(w, r, "topN must not be negative", []models.FieldError{
			{Field: "topN", Message: "must be zero or positive"},
		})
		return
	}

	activities, err := h.catalog.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to load activity catalog")
		return
	}

	swipes := toSwipes(input.Swipes)
	opts := recommend.DefaultOptions()
	opts.TopN = input.TopN
	opts.ExcludeSeen = input.ExcludeSeen

	scored, err := recommend.Recommend(swipes, activities, opts)
	if err != nil {
		if errors.Is(err, recommend.ErrEmptyCatalog) {
			response.ServiceUnavailable(w, r, "activity catalog is not loaded")
			return
		}
		response.InternalError(w, r, "failed to compute recommendations")
		return
	}

	items := make([]models.ScoredActivity, len(scored))
	for i, s := range scored {
		items[i] = toScoredActivity(s)
	}

	out := models.RecommendationsResponse{
		Items:   items,
		Profile: recommend.ProfileByTheme(swipes, activities),
	}
	response.JSON(w, r, http.StatusOK, out)
}
