package user

import (
	"context"
	"errors"
)

var (
	// ErrNotFound keeps storage-specific 404s consistent across
	// implementations.
	ErrNotFound = errors.New("user not found")
	// ErrEmailExists maps the unique-email constraint.
	ErrEmailExists = errors.New("email already exists")
)

// Store is the persistence boundary. Implementations: PostgresStore and
// MemoryStore, selected at construction time.
type Store interface {
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id int64) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	// Create persists u (Name, Email and optionally PasswordHash are read)
	// and returns the stored record with id and timestamps assigned.
	Create(ctx context.Context, u User) (User, error)
	// Delete removes the user and returns the deleted record, so callers can
	// build the deletion event from the final snapshot.
	Delete(ctx context.Context, id int64) (User, error)
}
