package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitroute/visitroute/internal/api"
	"github.com/visitroute/visitroute/internal/api/models"
	"github.com/visitroute/visitroute/internal/auth"
	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/internal/interest"
	"github.com/visitroute/visitroute/internal/itinerary"
	"github.com/visitroute/visitroute/internal/plan"
	"github.com/visitroute/visitroute/internal/provider/resilience"
	"github.com/visitroute/visitroute/internal/travelgraph"
	"github.com/visitroute/visitroute/pkg/geo"
)

// testJWTService creates a JWT service for generating test tokens.
func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.visitroute.fr",
		Audience:   "visitroute-api",
	})
}

// generateTestToken generates a valid test token for a user.
func generateTestToken(t *testing.T) string {
	t.Helper()
	token, _, err := testJWTService().GenerateAccessToken("usr_testuser123")
	require.NoError(t, err)
	return token
}

func testActivities() []catalog.Activity {
	vec := func(theme string) interest.Vector {
		var v interest.Vector
		for i, name := range interest.Themes {
			if name == theme {
				v[i] = 1
			}
		}
		return v
	}

	return []catalog.Activity{
		{
			ID:          "gate",
			Name:        "Royal Gate",
			SectionID:   "0",
			OpeningTime: 0,
			ClosingTime: 1440,
			Location:    geo.Coordinate{Lat: 48.8040, Lon: 2.1230},
		},
		{
			ID:          "apartments",
			Name:        "Grand Apartments",
			SectionID:   "1",
			OpeningTime: 540,
			ClosingTime: 1080,
			Duration:    60,
			Interests:   vec("architecture"),
			Location:    geo.Coordinate{Lat: 48.8049, Lon: 2.1204},
		},
		{
			ID:          "gardens",
			Name:        "Orangery Gardens",
			SectionID:   "1",
			OpeningTime: 480,
			ClosingTime: 1140,
			Duration:    45,
			Interests:   vec("nature"),
			Location:    geo.Coordinate{Lat: 48.8036, Lon: 2.1197},
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterWithGraph(t, true)
}

func newTestRouterWithGraph(t *testing.T, buildGraph bool) http.Handler {
	t.Helper()

	logger := zerolog.New(io.Discard)
	activities := testActivities()

	graphs := travelgraph.NewService(travelgraph.ServiceConfig{
		Provider: &travelgraph.HaversineProvider{},
		Logger:   logger,
	})
	if buildGraph {
		require.NoError(t, graphs.Rebuild(context.Background(), activities))
	}

	return api.NewRouter(api.RouterConfig{
		Version:    "test",
		BuildTime:  "2026-01-01T00:00:00Z",
		Logger:     logger,
		JWTService: testJWTService(),
		Catalog:    catalog.NewInMemoryRepository(activities),
		Graphs:     graphs,
		Planner:    itinerary.NewPlanner(itinerary.PlannerConfig{Logger: logger}),
		Plans: plan.NewService(plan.ServiceConfig{
			Repository: plan.NewInMemoryRepository(),
			Logger:     logger,
		}),
		Providers: resilience.NewRegistry(),
	})
}

// addAuthHeader adds a valid Bearer token to the request.
func addAuthHeader(t *testing.T, req *http.Request) {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t))
}

func postJSON(t *testing.T, path string, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func computeRequest() models.ItineraryComputeRequest {
	return models.ItineraryComputeRequest{
		Swipes:        []models.SwipeInput{{ActivityID: "apartments", Like: true}},
		StartTime:     "09:00",
		EndTime:       "18:00",
		StartPoint:    "Royal Gate",
		MaxActivities: 2,
	}
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_ReadinessCheck_GraphNotBuilt(t *testing.T) {
	router := newTestRouterWithGraph(t, false)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusFail, health.Status)
}

func TestRouter_SystemStatus(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	err := json.Unmarshal(w.Body.Bytes(), &status)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, status.Status)
	require.NotEmpty(t, status.Subsystems)
	assert.Equal(t, "travel-graph", status.Subsystems[0].Name)
}

func TestRouter_SystemStatus_RequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ComputeRecommendations(t *testing.T) {
	router := newTestRouter(t)

	input := models.RecommendationsComputeRequest{
		Swipes: []models.SwipeInput{{ActivityID: "apartments", Like: true}},
	}
	req := postJSON(t, "/v1/recommendations:compute", input)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.RecommendationsResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.Len(t, resp.Items, 3)
	assert.Equal(t, "apartments", resp.Items[0].ActivityID)
	assert.Equal(t, "09:00", resp.Items[0].OpeningTime)
	assert.Equal(t, 1.0, resp.Profile["architecture"])
}

func TestRouter_ComputeRecommendations_TopN(t *testing.T) {
	router := newTestRouter(t)

	input := models.RecommendationsComputeRequest{
		Swipes: []models.SwipeInput{{ActivityID: "gardens", Like: true}},
		TopN:   1,
	}
	req := postJSON(t, "/v1/recommendations:compute", input)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.RecommendationsResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "gardens", resp.Items[0].ActivityID)
}

func TestRouter_ComputeRecommendations_InvalidBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/recommendations:compute", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_ComputeItinerary(t *testing.T) {
	router := newTestRouter(t)

	req := postJSON(t, "/v1/itineraries:compute", computeRequest())
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.Itinerary
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(resp.Visits), 2)
	assert.Equal(t, "Royal Gate", resp.Visits[0].ActivityName)
	assert.Equal(t, "Royal Gate", resp.Visits[len(resp.Visits)-1].ActivityName)
	assert.Equal(t, "09:00", resp.Visits[0].Arrival)
	assert.Equal(t, 2, resp.Stats.Activities)
}

func TestRouter_ComputeItinerary_InvalidClock(t *testing.T) {
	router := newTestRouter(t)

	input := computeRequest()
	input.StartTime = "9am"
	req := postJSON(t, "/v1/itineraries:compute", input)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	require.NotEmpty(t, problem.Errors)
	assert.Equal(t, "startTime", problem.Errors[0].Field)
}

func TestRouter_ComputeItinerary_UnknownStartPoint(t *testing.T) {
	router := newTestRouter(t)

	input := computeRequest()
	input.StartPoint = "Nowhere"
	req := postJSON(t, "/v1/itineraries:compute", input)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	require.NotEmpty(t, problem.Errors)
	assert.Equal(t, "startPoint", problem.Errors[0].Field)
}

func TestRouter_ComputeItinerary_GraphNotBuilt(t *testing.T) {
	router := newTestRouterWithGraph(t, false)

	req := postJSON(t, "/v1/itineraries:compute", computeRequest())
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_OptimizeRoute(t *testing.T) {
	router := newTestRouter(t)

	input := models.RouteOptimizeRequest{
		Swipes:      []models.SwipeInput{{ActivityID: "apartments", Like: true}},
		ActivityIDs: []string{"gardens", "apartments"},
	}
	req := postJSON(t, "/v1/itineraries:optimize", input)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var route models.OptimizedRoute
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &route))

	require.Len(t, route.Order, 2)
	assert.ElementsMatch(t, []string{"Grand Apartments", "Orangery Gardens"}, route.Order)
	assert.Greater(t, route.Score, 0.0)
}

func TestRouter_OptimizeRoute_UnknownActivity(t *testing.T) {
	router := newTestRouter(t)

	input := models.RouteOptimizeRequest{
		ActivityIDs: []string{"missing"},
	}
	req := postJSON(t, "/v1/itineraries:optimize", input)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	require.NotEmpty(t, problem.Errors)
	assert.Equal(t, "activityIds", problem.Errors[0].Field)
}

func TestRouter_OptimizeRoute_NoCandidates(t *testing.T) {
	router := newTestRouter(t)

	req := postJSON(t, "/v1/itineraries:optimize", models.RouteOptimizeRequest{})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_OptimizeRoute_CapExceeded(t *testing.T) {
	router := newTestRouter(t)

	input := models.RouteOptimizeRequest{
		ActivityIDs:      []string{"gardens", "apartments"},
		TravelCapMinutes: 0.001,
	}
	req := postJSON(t, "/v1/itineraries:optimize", input)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_SavedItineraries_RequireAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/me/itineraries", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_SavedItineraries_Lifecycle(t *testing.T) {
	router := newTestRouter(t)

	// Create
	create := models.PlanCreateRequest{
		Title:                   "Morning at the palace",
		ItineraryComputeRequest: computeRequest(),
	}
	req := postJSON(t, "/v1/me/itineraries", create)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("Location"))

	var created models.Plan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, strings.HasPrefix(created.ID, "itn_"))
	assert.Equal(t, "Morning at the palace", created.Title)
	assert.NotEmpty(t, created.Itinerary.Visits)

	// List
	req = httptest.NewRequest(http.MethodGet, "/v1/me/itineraries", http.NoBody)
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var list models.PlanList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)

	// Get
	req = httptest.NewRequest(http.MethodGet, "/v1/me/itineraries/"+created.ID, http.NoBody)
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Delete
	req = httptest.NewRequest(http.MethodDelete, "/v1/me/itineraries/"+created.ID, http.NoBody)
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Gone
	req = httptest.NewRequest(http.MethodGet, "/v1/me/itineraries/"+created.ID, http.NoBody)
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_SavedItineraries_GetUnknown(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/me/itineraries/itn_missing", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
