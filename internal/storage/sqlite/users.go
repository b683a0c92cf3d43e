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

// CreateUser inserts a new user and its group memberships.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, role) VALUES (?, ?, ?, ?, ?)`,
		user.ID.Hex(), user.Email, user.Name, user.PasswordHash, user.Role,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", user.Email, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	for i, groupID := range user.FishingGroups {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO user_groups (user_id, group_id, position) VALUES (?, ?, ?)",
			user.ID.Hex(), groupID.Hex(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert membership: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id.Hex())
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, email, name, password_hash, role
		FROM users
		WHERE ` + where

	var id string
	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&id,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", id, err)
	}

	groups, err := s.userGroups(ctx, id)
	if err != nil {
		return nil, err
	}
	user.FishingGroups = groups

	return user, nil
}

func (s *SQLiteStore) userGroups(ctx context.Context, userID string) ([]primitive.ObjectID, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id FROM user_groups WHERE user_id = ? ORDER BY position",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}
	defer rows.Close()

	groups := []primitive.ObjectID{}
	for rows.Next() {
		var hex string
		if err := rows.Scan(&hex); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, fmt.Errorf("corrupt group id %q: %w", hex, err)
		}
		groups = append(groups, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}
	return groups, nil
}

// AddUserGroup records a group membership on the user's side.
func (s *SQLiteStore) AddUserGroup(ctx context.Context, email string, groupID primitive.ObjectID) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_groups (user_id, group_id, position)
		SELECT u.id, ?, COALESCE((SELECT MAX(position) + 1 FROM user_groups WHERE user_id = u.id), 0)
		FROM users u WHERE u.email = ?`,
		groupID.Hex(), email,
	)
	if err != nil {
		return fmt.Errorf("failed to add membership: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the user is missing or the membership already exists.
		if _, err := s.GetUserByEmail(ctx, email); err != nil {
			return err
		}
	}
	return nil
}

// RemoveUserGroup drops a group membership on the user's side.
func (s *SQLiteStore) RemoveUserGroup(ctx context.Context, email string, groupID primitive.ObjectID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM user_groups
		WHERE group_id = ? AND user_id = (SELECT id FROM users WHERE email = ?)`,
		groupID.Hex(), email,
	)
	if err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	return nil
}
