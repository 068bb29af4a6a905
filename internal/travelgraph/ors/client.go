// Package ors provides an OpenRouteService-backed duration provider using the
// matrix API with the foot-walking profile.
package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/visitroute/visitroute/internal/provider/resilience"
	"github.com/visitroute/visitroute/internal/travelgraph"
	"github.com/visitroute/visitroute/pkg/geo"
)

const (
	// ProviderName identifies this duration provider.
	ProviderName = "openrouteservice"

	// DefaultBaseURL is the OpenRouteService API base URL.
	DefaultBaseURL = "https://api.openrouteservice.org"

	// DefaultProfile is the routing profile used for in-site travel.
	DefaultProfile = "foot-walking"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OpenRouteService client.
type ClientConfig struct {
	// APIKey is the ORS API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the public API).
	BaseURL string

	// Profile is the routing profile (optional, defaults to foot-walking).
	Profile string

	// HTTPClient is the HTTP client to use (optional). If nil, uses a
	// resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenRouteService matrix API client. It satisfies
// travelgraph.DurationProvider.
type Client struct {
	apiKey     string
	baseURL    string
	profile    string
	httpClient HTTPDoer
	registry   *resilience.Registry
	logger     zerolog.Logger
}

var (
	_ travelgraph.DurationProvider = (*Client)(nil)
	_ travelgraph.RowProvider      = (*Client)(nil)
)

// NewClient creates a new OpenRouteService client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	profile := cfg.Profile
	if profile == "" {
		profile = DefaultProfile
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		resilient := resilience.NewClient(clientCfg)
		if cfg.Registry != nil {
			cfg.Registry.Register(ProviderName, resilient)
		}
		httpClient = resilient
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		profile:    profile,
		httpClient: httpClient,
		registry:   cfg.Registry,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

type matrixRequest struct {
	// ORS uses [lon, lat] order (GeoJSON).
	Locations [][]float64 `json:"locations"`
	Sources   []int       `json:"sources"`
	Metrics   []string    `json:"metrics"`
	Units     string      `json:"units"`
}

type matrixResponse struct {
	Durations [][]*float64 `json:"durations"`
}

type orsErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Duration returns the walking time in minutes from origin to destination,
// using a 2-point matrix request.
func (c *Client) Duration(ctx context.Context, origin, destination geo.Coordinate) (float64, error) {
	if !origin.Valid() || !destination.Valid() {
		return 0, fmt.Errorf("invalid coordinates: origin=%v destination=%v", origin, destination)
	}

	durations, err := c.matrixRow(ctx, origin, []geo.Coordinate{destination})
	if err != nil {
		return 0, err
	}
	return durations[0], nil
}

// MatrixRow returns the walking times in minutes from one origin to many
// destinations in a single API call. Rebuilds of the full travel-time matrix
// go through this to keep the request count linear in the activity count.
func (c *Client) MatrixRow(ctx context.Context, origin geo.Coordinate, destinations []geo.Coordinate) ([]float64, error) {
	if !origin.Valid() {
		return nil, fmt.Errorf("invalid origin: %v", origin)
	}
	for i, d := range destinations {
		if !d.Valid() {
			return nil, fmt.Errorf("invalid destination %d: %v", i, d)
		}
	}
	if len(destinations) == 0 {
		return nil, nil
	}
	return c.matrixRow(ctx, origin, destinations)
}

func (c *Client) matrixRow(ctx context.Context, origin geo.Coordinate, destinations []geo.Coordinate) ([]float64, error) {
	locations := make([][]float64, 0, 1+len(destinations))
	locations = append(locations, []float64{origin.Lon, origin.Lat})
	for _, d := range destinations {
		locations = append(locations, []float64{d.Lon, d.Lat})
	}

	body, err := json.Marshal(matrixRequest{
		Locations: locations,
		Sources:   []int{0},
		Metrics:   []string{"duration"},
		Units:     "m",
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/matrix/%s", c.baseURL, c.profile)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("profile", c.profile).
		Int("destinations", len(destinations)).
		Msg("requesting travel-time matrix row from ORS")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.recordFailure(err)
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return nil, travelgraph.ErrProviderUnavailable
		}
		return nil, fmt.Errorf("%w: %v", travelgraph.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure(err)
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := c.handleErrorResponse(resp.StatusCode, respBody)
		c.recordFailure(err)
		return nil, err
	}

	var mr matrixResponse
	if err := json.Unmarshal(respBody, &mr); err != nil {
		c.recordFailure(err)
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(mr.Durations) != 1 || len(mr.Durations[0]) != len(destinations) {
		err := fmt.Errorf("unexpected matrix shape: rows=%d", len(mr.Durations))
		c.recordFailure(err)
		return nil, err
	}

	out := make([]float64, len(destinations))
	for i, secondsPtr := range mr.Durations[0] {
		if secondsPtr == nil {
			// ORS returns null when no route reaches the destination.
			err := fmt.Errorf("%w: destination %d unreachable", travelgraph.ErrNoRouteFound, i)
			c.recordFailure(err)
			return nil, err
		}
		out[i] = *secondsPtr / 60
	}

	c.recordSuccess()
	return out, nil
}

// handleErrorResponse maps ORS error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var orsErr orsErrorResponse
	if err := json.Unmarshal(body, &orsErr); err != nil {
		return fmt.Errorf("%w: status %d", travelgraph.ErrProviderUnavailable, statusCode)
	}

	switch {
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", travelgraph.ErrNoRouteFound, orsErr.Error.Message)
	case statusCode == http.StatusBadRequest:
		return fmt.Errorf("matrix request rejected: %s", orsErr.Error.Message)
	case statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: API access denied, check API key", travelgraph.ErrProviderUnavailable)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limit exceeded", travelgraph.ErrProviderUnavailable)
	case statusCode >= 500:
		return fmt.Errorf("%w: status %d", travelgraph.ErrProviderUnavailable, statusCode)
	default:
		return fmt.Errorf("%w: status %d: %s", travelgraph.ErrProviderUnavailable, statusCode, orsErr.Error.Message)
	}
}

func (c *Client) recordSuccess() {
	if c.registry != nil {
		c.registry.RecordSuccess(ProviderName)
	}
}

func (c *Client) recordFailure(err error) {
	if c.registry != nil {
		c.registry.RecordFailure(ProviderName, err)
	}
}
