// Package geocode resolves free-text addresses into coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/mmynk/myfishingdiary/internal/geo"
)

// ErrNoResults is returned when the address could not be resolved.
var ErrNoResults = errors.New("no geocoding results")

// Geocoder resolves an address to a point.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Point, error)
}

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocoder calls the Google Geocoding API.
type GoogleGeocoder struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a GoogleGeocoder.
type Option func(*GoogleGeocoder)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(g *GoogleGeocoder) { g.baseURL = u }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(g *GoogleGeocoder) { g.client = c }
}

// WithRateLimit caps outgoing requests per second. Zero disables the limit.
func WithRateLimit(rps float64) Option {
	return func(g *GoogleGeocoder) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewGoogle creates a geocoder authenticated with apiKey.
func NewGoogle(apiKey string, opts ...Option) *GoogleGeocoder {
	g := &GoogleGeocoder{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(10), 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode returns the location of the first result for address.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (geo.Point, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return geo.Point{}, fmt.Errorf("geocoder rate limit: %w", err)
		}
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return geo.Point{}, fmt.Errorf("failed to build geocode request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Point{}, fmt.Errorf("geocode request failed: %s", resp.Status)
	}

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return geo.Point{}, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return geo.Point{}, ErrNoResults
	default:
		if body.ErrorMessage != "" {
			return geo.Point{}, fmt.Errorf("geocoder: %s: %s", body.Status, body.ErrorMessage)
		}
		return geo.Point{}, fmt.Errorf("geocoder: %s", body.Status)
	}
	if len(body.Results) == 0 {
		return geo.Point{}, ErrNoResults
	}

	loc := body.Results[0].Geometry.Location
	return geo.Point{Lng: loc.Lng, Lat: loc.Lat}, nil
}
