// Package identity keeps what a visitor told us about themselves (name,
// email) and their session id in a small sqlite key-value store, so forms
// can be prefilled and schedule links personalised across visits.
package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Well-known keys.
const (
	KeySessionID = "vf_sid"
	KeyName      = "vf_name"
	KeyEmail     = "vf_email"
)

var (
	// ErrNotFound is returned by Get for keys that were never set.
	ErrNotFound = errors.New("identity: key not found")
	// ErrInvalidEmail is returned by Remember for malformed addresses.
	ErrInvalidEmail = errors.New("identity: invalid email")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether v looks like an email address.
func ValidEmail(v string) bool {
	return emailPattern.MatchString(v)
}

const schema = `
CREATE TABLE IF NOT EXISTS identity (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Store is a persisted key-value store.
type Store struct {
	db *sql.DB
}

// Open opens (creating when needed) the store at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("identity: path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("identity: open %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("identity: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM identity WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("identity: get %s: %w", key, err)
	}
	return value, nil
}

// Lookup returns the value for key, or "" when it is not set.
func (s *Store) Lookup(ctx context.Context, key string) (string, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO identity (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	if err != nil {
		return fmt.Errorf("identity: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM identity WHERE key = ?", key); err != nil {
		return fmt.Errorf("identity: delete %s: %w", key, err)
	}
	return nil
}

// Clear removes every key.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM identity"); err != nil {
		return fmt.Errorf("identity: clear: %w", err)
	}
	return nil
}

// SessionID returns the stored session id, generating and persisting one
// on first use.
func (s *Store) SessionID(ctx context.Context) (string, error) {
	id, err := s.Lookup(ctx, KeySessionID)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id = uuid.NewString()
	if err := s.Set(ctx, KeySessionID, id); err != nil {
		return "", err
	}
	return id, nil
}

// Remember stores the visitor's name and email. Empty values leave the
// stored ones untouched; a non-empty email must be valid.
func (s *Store) Remember(ctx context.Context, name, email string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if email != "" && !ValidEmail(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if name != "" {
		if err := s.Set(ctx, KeyName, name); err != nil {
			return err
		}
	}
	if email != "" {
		if err := s.Set(ctx, KeyEmail, email); err != nil {
			return err
		}
	}
	return nil
}

// Visitor is the remembered identity.
type Visitor struct {
	Name  string
	Email string
}

// Visitor returns the remembered name and email.
func (s *Store) Visitor(ctx context.Context) (Visitor, error) {
	name, err := s.Lookup(ctx, KeyName)
	if err != nil {
		return Visitor{}, err
	}
	email, err := s.Lookup(ctx, KeyEmail)
	if err != nil {
		return Visitor{}, err
	}
	return Visitor{Name: name, Email: email}, nil
}
