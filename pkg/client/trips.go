package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mmynk/myfishingdiary/internal/catch"
	"github.com/mmynk/myfishingdiary/internal/models"
)

// TripRequest is the body of create and update calls. Zero fields are omitted.
type TripRequest struct {
	Name        string     `json:"name,omitempty"`
	Time        *time.Time `json:"time,omitempty"`
	Type        string     `json:"type,omitempty"`
	Description string     `json:"description,omitempty"`
	Coordinates []float64  `json:"coordinates,omitempty"`
}

// TripPage is one page of trips.
type TripPage struct {
	Trips      []models.Trip `json:"trips"`
	TotalPages int64         `json:"totalPages"`
}

// FishRequest is the body of add and update fish calls.
type FishRequest struct {
	Species     string   `json:"species,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Description string   `json:"description,omitempty"`
}

// FishResult is a fish with the trip it belongs to.
type FishResult struct {
	Trip   models.TripRef `json:"trip"`
	Fish   models.Fish    `json:"fish"`
	Status string         `json:"status"`
}

// CommentResult is a comment with the trip it belongs to.
type CommentResult struct {
	Trip    models.TripRef `json:"trip"`
	Comment models.Comment `json:"comment"`
	Status  string         `json:"status"`
}

// ListTrips calls GET /api/trips.
func (c *Client) ListTrips(ctx context.Context) ([]models.Trip, error) {
	var out []models.Trip
	err := c.do(ctx, http.MethodGet, "/api/trips", nil, &out)
	return out, err
}

// ListTripsPage calls GET /api/trips-paginate.
func (c *Client) ListTripsPage(ctx context.Context, skip, take int) (*TripPage, error) {
	var out TripPage
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/trips-paginate?skip=%d&take=%d", skip, take), nil, &out)
	return &out, err
}

// NearTrips calls GET /api/trips/distance. Zero distanceKm or nResults use
// the server defaults.
func (c *Client) NearTrips(ctx context.Context, lng, lat, distanceKm float64, nResults int) ([]models.NearbyTrip, error) {
	q := url.Values{}
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))

	var out []models.NearbyTrip
	err := c.do(ctx, http.MethodGet, "/api/trips/distance?"+nearQuery(q, distanceKm, nResults), nil, &out)
	return out, err
}

// NearAddress calls GET /api/trips/address.
func (c *Client) NearAddress(ctx context.Context, address string, distanceKm float64, nResults int) ([]models.NearbyTrip, error) {
	q := url.Values{}
	q.Set("address", address)

	var out []models.NearbyTrip
	err := c.do(ctx, http.MethodGet, "/api/trips/address?"+nearQuery(q, distanceKm, nResults), nil, &out)
	return out, err
}

// CreateTrip calls POST /api/trips.
func (c *Client) CreateTrip(ctx context.Context, req TripRequest) (*models.Trip, error) {
	var out models.Trip
	err := c.do(ctx, http.MethodPost, "/api/trips", req, &out)
	return &out, err
}

// GetTrip calls GET /api/trips/{tripId}.
func (c *Client) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	var out models.Trip
	err := c.do(ctx, http.MethodGet, "/api/trips/"+url.PathEscape(tripID), nil, &out)
	return &out, err
}

// UpdateTrip calls PUT /api/trips/{tripId}.
func (c *Client) UpdateTrip(ctx context.Context, tripID string, req TripRequest) (*models.Trip, error) {
	var out models.Trip
	err := c.do(ctx, http.MethodPut, "/api/trips/"+url.PathEscape(tripID), req, &out)
	return &out, err
}

// DeleteTrip calls DELETE /api/trips/{tripId}.
func (c *Client) DeleteTrip(ctx context.Context, tripID string) error {
	return c.do(ctx, http.MethodDelete, "/api/trips/"+url.PathEscape(tripID), nil, nil)
}

func fishPath(tripID string) string {
	return "/api/trips/" + url.PathEscape(tripID) + "/fish"
}

// CatchSummary calls GET /api/trips/{tripId}/fish.
func (c *Client) CatchSummary(ctx context.Context, tripID string) (*catch.Summary, error) {
	var out catch.Summary
	err := c.do(ctx, http.MethodGet, fishPath(tripID), nil, &out)
	return &out, err
}

// AddFish calls POST /api/trips/{tripId}/fish.
func (c *Client) AddFish(ctx context.Context, tripID string, req FishRequest) (*models.Fish, error) {
	var out models.Fish
	err := c.do(ctx, http.MethodPost, fishPath(tripID), req, &out)
	return &out, err
}

// GetFish calls GET /api/trips/{tripId}/fish/{fishId}.
func (c *Client) GetFish(ctx context.Context, tripID, fishID string) (*FishResult, error) {
	var out FishResult
	err := c.do(ctx, http.MethodGet, fishPath(tripID)+"/"+url.PathEscape(fishID), nil, &out)
	return &out, err
}

// UpdateFish calls PUT /api/trips/{tripId}/fish/{fishId}.
func (c *Client) UpdateFish(ctx context.Context, tripID, fishID string, req FishRequest) (*models.Fish, error) {
	var out models.Fish
	err := c.do(ctx, http.MethodPut, fishPath(tripID)+"/"+url.PathEscape(fishID), req, &out)
	return &out, err
}

// DeleteFish calls DELETE /api/trips/{tripId}/fish/{fishId}.
func (c *Client) DeleteFish(ctx context.Context, tripID, fishID string) error {
	return c.do(ctx, http.MethodDelete, fishPath(tripID)+"/"+url.PathEscape(fishID), nil, nil)
}

func commentsPath(tripID string) string {
	return "/api/trips/" + url.PathEscape(tripID) + "/comments"
}

// AddComment calls POST /api/trips/{tripId}/comments.
func (c *Client) AddComment(ctx context.Context, tripID, text string) (*models.Comment, error) {
	var out models.Comment
	err := c.do(ctx, http.MethodPost, commentsPath(tripID), map[string]string{"comment": text}, &out)
	return &out, err
}

// GetComment calls GET /api/trips/{tripId}/comments/{commentId}.
func (c *Client) GetComment(ctx context.Context, tripID, commentID string) (*CommentResult, error) {
	var out CommentResult
	err := c.do(ctx, http.MethodGet, commentsPath(tripID)+"/"+url.PathEscape(commentID), nil, &out)
	return &out, err
}

// UpdateComment calls PUT /api/trips/{tripId}/comments/{commentId}.
func (c *Client) UpdateComment(ctx context.Context, tripID, commentID, text string) (*models.Comment, error) {
	var out models.Comment
	err := c.do(ctx, http.MethodPut, commentsPath(tripID)+"/"+url.PathEscape(commentID), map[string]string{"comment": text}, &out)
	return &out, err
}

// DeleteComment calls DELETE /api/trips/{tripId}/comments/{commentId}.
func (c *Client) DeleteComment(ctx context.Context, tripID, commentID string) error {
	return c.do(ctx, http.MethodDelete, commentsPath(tripID)+"/"+url.PathEscape(commentID), nil, nil)
}
