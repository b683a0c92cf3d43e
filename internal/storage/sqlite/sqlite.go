// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
// It is meant for local development and tests; production deployments use MongoDB.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/myfishingdiary/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// tables maps collection names onto the tables holding their documents.
var tables = map[string][]string{
	storage.UsersCollection:         {"user_groups", "users"},
	storage.TripsCollection:         {"trips"},
	storage.FishingGroupsCollection: {"group_members", "fishing_groups"},
}

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps PRAGMAs in effect and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// EnsureIndexes is a no-op: the schema migration creates every index.
func (s *SQLiteStore) EnsureIndexes(ctx context.Context) error {
	return nil
}

// Count returns the number of documents in a collection.
func (s *SQLiteStore) Count(ctx context.Context, collection string) (int64, error) {
	tbls, ok := tables[collection]
	if !ok {
		return 0, fmt.Errorf("unknown collection: %s", collection)
	}
	// The last table holds the documents themselves.
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+tbls[len(tbls)-1]).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}
	return n, nil
}

// Drop deletes every document of a collection. The tables themselves are kept.
func (s *SQLiteStore) Drop(ctx context.Context, collection string) error {
	tbls, ok := tables[collection]
	if !ok {
		return fmt.Errorf("unknown collection: %s", collection)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tbls {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("failed to drop %s: %w", collection, err)
		}
	}
	// Memberships pointing at dropped groups go with them.
	if collection == storage.FishingGroupsCollection {
		if _, err := tx.ExecContext(ctx, "DELETE FROM user_groups"); err != nil {
			return fmt.Errorf("failed to clear memberships: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
