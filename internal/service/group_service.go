package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/storage"
)

// GroupService manages fishing groups and the memberships recorded on users.
type GroupService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: loggerOrDefault(logger)}
}

// GroupInput carries the user-editable fields of a fishing group.
type GroupInput struct {
	Name        string
	Description string
}

// ListGroups returns all fishing groups.
func (s *GroupService) ListGroups(ctx context.Context) ([]models.FishingGroup, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, errNotFound("No fishing groups found.")
	}
	return groups, nil
}

// CreateGroup creates a group with the author as creator and only member.
func (s *GroupService) CreateGroup(ctx context.Context, authorEmail string, in GroupInput) (*models.FishingGroup, error) {
	author, err := resolveAuthor(ctx, s.store, authorEmail)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, errValidation("Parameter 'name' is required.")
	}

	group := &models.FishingGroup{
		Name:        in.Name,
		Creator:     author.Email,
		Users:       []string{author.Email},
		Description: in.Description,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	if err := s.store.AddUserGroup(ctx, author.Email, group.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Fishing group created", "group_id", group.ID.Hex(), "creator", author.Email)
	return group, nil
}

// UpdateGroup changes the name and/or description of a group.
func (s *GroupService) UpdateGroup(ctx context.Context, authorEmail, groupID string, in GroupInput) (*models.FishingGroup, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if in.Name == "" && in.Description == "" {
		return nil, errValidation("At least one of the body parameters is required.")
	}
	author, err := resolveAuthor(ctx, s.store, authorEmail)
	if err != nil {
		return nil, err
	}
	if !author.CanModify(group.Creator) {
		return nil, errAccessDenied("Not authorized to update this fishing group.")
	}

	var patch storage.GroupPatch
	if in.Name != "" {
		patch.Name = &in.Name
	}
	if in.Description != "" {
		patch.Description = &in.Description
	}
	updated, err := s.store.UpdateGroup(ctx, group.ID, patch)
	if err != nil {
		return nil, notFoundAs(err, "Fishing group with id '%s' not found.", groupID)
	}

	s.logger.Info("Fishing group updated", "group_id", groupID)
	return updated, nil
}

// AddUsers adds registered users to a group. Unknown emails are skipped.
func (s *GroupService) AddUsers(ctx context.Context, authorEmail, groupID string, emails []string) (*models.FishingGroup, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	emails = cleanEmails(emails)
	if len(emails) == 0 {
		return nil, errValidation("Body parameter 'users' is required.")
	}
	author, err := resolveAuthor(ctx, s.store, authorEmail)
	if err != nil {
		return nil, err
	}
	if !author.CanModify(group.Creator) {
		return nil, errAccessDenied("Not authorized to add users to this fishing group.")
	}

	registered := make([]string, 0, len(emails))
	for _, email := range emails {
		err := s.store.AddUserGroup(ctx, email, group.ID)
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("Skipping unknown user", "group_id", groupID, "email", email)
			continue
		}
		if err != nil {
			return nil, err
		}
		registered = append(registered, email)
	}
	if len(registered) == 0 {
		return group, nil
	}

	updated, err := s.store.AddGroupMembers(ctx, group.ID, registered)
	if err != nil {
		return nil, notFoundAs(err, "Fishing group with id '%s' not found.", groupID)
	}
	s.logger.Info("Users added to fishing group", "group_id", groupID, "members_count", len(updated.Users))
	return updated, nil
}

// RemoveUsers removes users from a group. The creator always stays.
func (s *GroupService) RemoveUsers(ctx context.Context, authorEmail, groupID string, emails []string) (*models.FishingGroup, error) {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	emails = cleanEmails(emails)
	if len(emails) == 0 {
		return nil, errValidation("Body parameter 'users' is required.")
	}
	author, err := resolveAuthor(ctx, s.store, authorEmail)
	if err != nil {
		return nil, err
	}
	if !author.CanModify(group.Creator) {
		return nil, errAccessDenied("Not authorized to delete users from this fishing group.")
	}

	remove := make([]string, 0, len(emails))
	for _, email := range emails {
		if email == group.Creator {
			continue
		}
		remove = append(remove, email)
		if err := s.store.RemoveUserGroup(ctx, email, group.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}
	if len(remove) == 0 {
		return group, nil
	}

	updated, err := s.store.RemoveGroupMembers(ctx, group.ID, remove)
	if err != nil {
		return nil, notFoundAs(err, "Fishing group with id '%s' not found.", groupID)
	}
	s.logger.Info("Users removed from fishing group", "group_id", groupID, "members_count", len(updated.Users))
	return updated, nil
}

// DeleteGroup deletes a group and drops it from every member's memberships.
func (s *GroupService) DeleteGroup(ctx context.Context, authorEmail, groupID string) error {
	group, err := s.getGroup(ctx, groupID)
	if err != nil {
		return err
	}
	author, err := resolveAuthor(ctx, s.store, authorEmail)
	if err != nil {
		return err
	}
	if !author.CanModify(group.Creator) {
		return errAccessDenied("Not authorized to delete this fishing group.")
	}

	for _, email := range group.Users {
		if err := s.store.RemoveUserGroup(ctx, email, group.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	}
	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errNotFound("Fishing group with id '%s' not found.", groupID)
		}
		return err
	}

	s.logger.Info("Fishing group deleted", "group_id", groupID)
	return nil
}

func (s *GroupService) getGroup(ctx context.Context, groupID string) (*models.FishingGroup, error) {
	id, err := parseID("fishing group", groupID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errNotFound("Fishing group with id '%s' not found.", groupID)
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

// cleanEmails trims entries, drops empty ones and removes duplicates while
// keeping the first occurrence.
func cleanEmails(emails []string) []string {
	seen := make(map[string]bool, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
