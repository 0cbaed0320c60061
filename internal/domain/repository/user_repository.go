// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"bookbridge/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user profile persistence.
// The application layer depends on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// ListAll retrieves every user profile, newest first.
	ListAll(ctx context.Context) ([]*entity.User, error)

	// SearchByNameEmailPhone retrieves users whose name, email or phone
	// contains the query, case-insensitively, newest first.
	SearchByNameEmailPhone(ctx context.Context, query string) ([]*entity.User, error)

	// CountByRole returns the number of users holding the given role.
	CountByRole(ctx context.Context, role entity.Role) (int64, error)

	// Create persists a new user profile.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user profile.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes a user profile. Only administrators reach this path.
	Delete(ctx context.Context, id uuid.UUID) error
}
