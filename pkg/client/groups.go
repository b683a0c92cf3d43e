package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mmynk/myfishingdiary/internal/models"
)

// GroupRequest is the body of create and update group calls.
type GroupRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

func groupPath(groupID string) string {
	return "/api/fishing-group/" + url.PathEscape(groupID)
}

// ListGroups calls GET /api/fishing-group.
func (c *Client) ListGroups(ctx context.Context) ([]models.FishingGroup, error) {
	var out []models.FishingGroup
	err := c.do(ctx, http.MethodGet, "/api/fishing-group", nil, &out)
	return out, err
}

// CreateGroup calls POST /api/fishing-group.
func (c *Client) CreateGroup(ctx context.Context, req GroupRequest) (*models.FishingGroup, error) {
	var out models.FishingGroup
	err := c.do(ctx, http.MethodPost, "/api/fishing-group", req, &out)
	return &out, err
}

// UpdateGroup calls PUT /api/fishing-group/{fishingGroupId}.
func (c *Client) UpdateGroup(ctx context.Context, groupID string, req GroupRequest) (*models.FishingGroup, error) {
	var out models.FishingGroup
	err := c.do(ctx, http.MethodPut, groupPath(groupID), req, &out)
	return &out, err
}

// AddGroupUsers calls PUT /api/fishing-group/{fishingGroupId}/users.
func (c *Client) AddGroupUsers(ctx context.Context, groupID string, emails []string) (*models.FishingGroup, error) {
	var out models.FishingGroup
	err := c.do(ctx, http.MethodPut, groupPath(groupID)+"/users", map[string][]string{"users": emails}, &out)
	return &out, err
}

// RemoveGroupUsers calls PUT /api/fishing-group/{fishingGroupId}/users-remove.
func (c *Client) RemoveGroupUsers(ctx context.Context, groupID string, emails []string) (*models.FishingGroup, error) {
	var out models.FishingGroup
	err := c.do(ctx, http.MethodPut, groupPath(groupID)+"/users-remove", map[string][]string{"users": emails}, &out)
	return &out, err
}

// DeleteGroup calls DELETE /api/fishing-group/{fishingGroupId}.
func (c *Client) DeleteGroup(ctx context.Context, groupID string) error {
	return c.do(ctx, http.MethodDelete, groupPath(groupID), nil, nil)
}
