// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"bookbridge/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// Name, email, password and role are mandatory; the role must be one a user
// may self-assign (donor, seeker or both).
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
	Phone    *string
	Location *string
}

// LoginInput defines the data required to sign in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshTokenInput carries the refresh token presented for renewal.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token of the session being ended.
type LogoutInput struct {
	RefreshToken string
}

// ChangePasswordInput defines a password change for a signed-in account.
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateProfileInput defines the self-service profile fields. Role and status
// are deliberately absent; only administrators change those.
type UpdateProfileInput struct {
	Name     string
	Phone    *string
	Location *string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account, already signed in.
type RegisterOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns the renewed access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// UserUsecase defines the interface for account-related business operations.
type UserUsecase interface {
	// Register creates the profile and credential atomically and signs the
	// account in. Any stale sessions recorded for the email are purged first.
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)

	// Login authenticates an email/password pair. Stale sessions for the
	// account are purged before the new one is recorded. Blocked accounts
	// cannot sign in.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// RefreshToken issues a new access token; the refresh token is unchanged.
	RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenOutput, error)

	// Logout ends the session identified by the refresh token.
	Logout(ctx context.Context, input LogoutInput) error

	// LogoutAllDevices ends every session for the account.
	LogoutAllDevices(ctx context.Context, userID uuid.UUID) error

	// ChangePassword verifies the old password and stores a new hash.
	ChangePassword(ctx context.Context, input ChangePasswordInput) error

	// GetProfile returns the account's profile record.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// UpdateProfile modifies the account's self-service fields.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.User, error)
}
