package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/storage"
)

// CreateGroup persists a new fishing group and its member list.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.FishingGroup) error {
	if group.ID.IsZero() {
		group.ID = primitive.NewObjectID()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO fishing_groups (id, name, creator, description) VALUES (?, ?, ?, ?)",
		group.ID.Hex(), group.Name, group.Creator, nullable(group.Description),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("fishing group %s: %w", group.ID.Hex(), storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert fishing group: %w", err)
	}

	if err := insertMembers(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a fishing group by ID, including members.
func (s *SQLiteStore) GetGroup(ctx context.Context, id primitive.ObjectID) (*models.FishingGroup, error) {
	var description sql.NullString
	group := &models.FishingGroup{ID: id}
	err := s.db.QueryRowContext(ctx,
		"SELECT name, creator, description FROM fishing_groups WHERE id = ?",
		id.Hex(),
	).Scan(&group.Name, &group.Creator, &description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fishing group: %w", err)
	}
	group.Description = description.String

	if group.Users, err = s.groupMembers(ctx, id.Hex()); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups retrieves all fishing groups in insertion order.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]models.FishingGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, creator, description FROM fishing_groups ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fishing groups: %w", err)
	}

	groups := []models.FishingGroup{}
	for rows.Next() {
		var id string
		var description sql.NullString
		var group models.FishingGroup
		if err := rows.Scan(&id, &group.Name, &group.Creator, &description); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan fishing group: %w", err)
		}
		if group.ID, err = primitive.ObjectIDFromHex(id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("corrupt group id %q: %w", id, err)
		}
		group.Description = description.String
		groups = append(groups, group)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fishing groups: %w", err)
	}

	// Members are loaded after the cursor is closed; the store holds one connection.
	for i := range groups {
		if groups[i].Users, err = s.groupMembers(ctx, groups[i].ID.Hex()); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// UpdateGroup applies patch to the group's name and description.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, id primitive.ObjectID, patch storage.GroupPatch) (*models.FishingGroup, error) {
	var name, description any
	setDescription := 0
	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.Description != nil {
		description = nullable(*patch.Description)
		setDescription = 1
	}

	// COALESCE keeps the stored value for fields the patch leaves nil.
	res, err := s.db.ExecContext(ctx, `
		UPDATE fishing_groups
		SET name = COALESCE(?, name),
		    description = CASE WHEN ? THEN ? ELSE description END
		WHERE id = ?`,
		name, setDescription, description, id.Hex(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update fishing group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, storage.ErrNotFound
	}
	return s.GetGroup(ctx, id)
}

// AddGroupMembers appends the emails that are not members yet, after the
// current last member.
func (s *SQLiteStore) AddGroupMembers(ctx context.Context, id primitive.ObjectID, emails []string) (*models.FishingGroup, error) {
	err := s.changeMembers(ctx, id, emails, `
		INSERT OR IGNORE INTO group_members (group_id, email, position)
		VALUES (?, ?, COALESCE((SELECT MAX(position) + 1 FROM group_members WHERE group_id = ?), 0))`,
		func(email string) []any { return []any{id.Hex(), email, id.Hex()} },
	)
	if err != nil {
		return nil, err
	}
	return s.GetGroup(ctx, id)
}

// RemoveGroupMembers drops the emails from the member list.
func (s *SQLiteStore) RemoveGroupMembers(ctx context.Context, id primitive.ObjectID, emails []string) (*models.FishingGroup, error) {
	err := s.changeMembers(ctx, id, emails,
		"DELETE FROM group_members WHERE group_id = ? AND email = ?",
		func(email string) []any { return []any{id.Hex(), email} },
	)
	if err != nil {
		return nil, err
	}
	return s.GetGroup(ctx, id)
}

// changeMembers runs stmt once per email in one transaction.
func (s *SQLiteStore) changeMembers(ctx context.Context, id primitive.ObjectID, emails []string, stmt string, args func(email string) []any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM fishing_groups WHERE id = ?", id.Hex()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get fishing group: %w", err)
	}

	for _, email := range emails {
		if _, err := tx.ExecContext(ctx, stmt, args(email)...); err != nil {
			return fmt.Errorf("failed to change members: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteGroup removes a fishing group; members cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM fishing_groups WHERE id = ?", id.Hex())
	if err != nil {
		return fmt.Errorf("failed to delete fishing group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) groupMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT email FROM group_members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, group *models.FishingGroup) error {
	for i, email := range group.Users {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_members (group_id, email, position) VALUES (?, ?, ?)",
			group.ID.Hex(), email, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
