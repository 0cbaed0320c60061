// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"bookbridge/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for authentication persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrAuthNotFound is returned when an authentication method is not found.
	ErrAuthNotFound = errors.New("authentication method not found")
	// ErrTokenNotFound is returned when a refresh token is not found.
	ErrTokenNotFound = errors.New("refresh token not found")
)

// AuthRepository defines the standard operations for credential and session persistence.
type AuthRepository interface {
	// CreateAuthentication persists a new login credential.
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error

	// FindAuthenticationByEmail retrieves the email/password credential for an address.
	FindAuthenticationByEmail(ctx context.Context, email string) (*entity.Authentication, error)

	// UpdatePasswordHash replaces the stored password hash for a credential.
	UpdatePasswordHash(ctx context.Context, authID uuid.UUID, passwordHash string) error

	// CreateRefreshToken persists a new refresh token, representing a sign-in session.
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByHash retrieves a refresh token record by its stored hash.
	FindRefreshTokenByHash(ctx context.Context, hash string) (*entity.RefreshToken, error)

	// DeleteRefreshTokenByHash deletes a refresh token by its hash, ending one session.
	DeleteRefreshTokenByHash(ctx context.Context, hash string) error

	// DeleteRefreshTokensByUserID deletes every session for a user. This is
	// the auth-residue purge run before sign-in, sign-up and admin seeding,
	// and the all-sessions sign-out scope.
	DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error
}
