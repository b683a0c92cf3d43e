package service

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/myfishingdiary/internal/auth"
	"github.com/mmynk/myfishingdiary/internal/models"
	"github.com/mmynk/myfishingdiary/internal/storage"
)

//go:embed seeddata/*.json
var seedFS embed.FS

// seedUser is a demo account with its plain-text password.
type seedUser struct {
	ID           primitive.ObjectID   `json:"_id"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Password     string               `json:"password"`
	Role         string               `json:"role"`
	FishingGroup []primitive.ObjectID `json:"fishingGroup"`
}

// SeedService loads and removes the demo data set.
type SeedService struct {
	store  storage.Store
	cost   int
	logger *slog.Logger
}

// NewSeedService creates a SeedService. Passwords are hashed with bcrypt's default cost.
func NewSeedService(store storage.Store, logger *slog.Logger) *SeedService {
	return &SeedService{store: store, cost: bcrypt.DefaultCost, logger: loggerOrDefault(logger)}
}

// WithCost sets the bcrypt cost used for demo passwords.
func (s *SeedService) WithCost(cost int) *SeedService {
	s.cost = cost
	return s
}

// Seed inserts every demo document whose id is not yet taken and ensures
// indexes exist. The returned message has one "Saved ..." line per insert.
func (s *SeedService) Seed(ctx context.Context) (string, error) {
	var users []seedUser
	var trips []models.Trip
	var groups []models.FishingGroup
	if err := loadSeed("users.json", &users); err != nil {
		return "", err
	}
	if err := loadSeed("trips.json", &trips); err != nil {
		return "", err
	}
	if err := loadSeed("fishing-groups.json", &groups); err != nil {
		return "", err
	}

	var msg strings.Builder

	for _, u := range users {
		_, err := s.store.GetUserByID(ctx, u.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return msg.String(), err
		}
		hash, err := auth.HashPassword(u.Password, s.cost)
		if err != nil {
			return msg.String(), err
		}
		user := &models.User{
			ID:            u.ID,
			Email:         u.Email,
			Name:          u.Name,
			PasswordHash:  hash,
			Role:          u.Role,
			FishingGroups: u.FishingGroup,
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			return msg.String(), fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
		fmt.Fprintf(&msg, "Saved user: %s\n", user.Name)
	}

	for i := range trips {
		trip := &trips[i]
		_, err := s.store.GetTrip(ctx, trip.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return msg.String(), err
		}
		if err := s.store.CreateTrip(ctx, trip); err != nil {
			return msg.String(), fmt.Errorf("failed to seed trip %s: %w", trip.Name, err)
		}
		fmt.Fprintf(&msg, "Saved trip: %s\n", trip.Name)
	}

	if err := s.store.EnsureIndexes(ctx); err != nil {
		return msg.String(), err
	}

	for i := range groups {
		group := &groups[i]
		_, err := s.store.GetGroup(ctx, group.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return msg.String(), err
		}
		if err := s.store.CreateGroup(ctx, group); err != nil {
			return msg.String(), fmt.Errorf("failed to seed fishing group %s: %w", group.Name, err)
		}
		fmt.Fprintf(&msg, "Saved fishing group: %s\n", group.Name)
	}

	s.logger.Info("Database seeded", "users", len(users), "trips", len(trips), "fishing_groups", len(groups))
	return msg.String(), nil
}

// Drop removes every non-empty collection.
func (s *SeedService) Drop(ctx context.Context) (string, error) {
	var msg strings.Builder
	for _, name := range []string{storage.UsersCollection, storage.TripsCollection, storage.FishingGroupsCollection} {
		n, err := s.store.Count(ctx, name)
		if err != nil {
			return msg.String(), err
		}
		if n == 0 {
			continue
		}
		if err := s.store.Drop(ctx, name); err != nil {
			return msg.String(), err
		}
		fmt.Fprintf(&msg, "'%s' successfully deleted.\n", name)
		s.logger.Info("Collection dropped", "collection", name, "documents", n)
	}
	return msg.String(), nil
}

func loadSeed(name string, v interface{}) error {
	data, err := seedFS.ReadFile("seeddata/" + name)
	if err != nil {
		return fmt.Errorf("failed to read seed file %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", name, err)
	}
	return nil
}
