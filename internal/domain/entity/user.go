// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus represents the moderation state of an account.
type UserStatus string

const (
	// UserStatusActive indicates a usable account.
	UserStatusActive UserStatus = "active"
	// UserStatusBlocked indicates an account suspended by an administrator.
	// Blocked accounts cannot sign in and are policy-equivalent to anonymous.
	UserStatusBlocked UserStatus = "blocked"
)

// IsValid checks if the UserStatus is a valid value.
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusBlocked
}

// User is the profile record of an account. It shares its ID with the
// credential record (see Authentication) but is a separate row; the role is
// always read from here, never from a token claim.
type User struct {
	ID             uuid.UUID  // Shared with the authentication identity.
	Name           string     // Display name.
	Email          string     // Primary contact email, also the login identifier.
	Phone          *string    // Optional contact phone.
	Role           Role       // Self-declared at signup; changed only by an administrator.
	Location       *string    // Optional free-text home location, e.g. "Pune, Maharashtra, India".
	Status         UserStatus // active or blocked.
	DonationsCount int        // Aggregate counter of donations made.
	RequestsCount  int        // Aggregate counter of requests made.
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Authentication represents a single login credential for an account.
type Authentication struct {
	ID           uuid.UUID // The unique ID for this credential record itself.
	UserID       uuid.UUID // Links this credential to the User it belongs to.
	Provider     string    // The authentication provider, e.g. "email".
	ProviderID   string    // The login identifier within the provider; the email address for "email".
	PasswordHash string    // Bcrypt-hashed password, used when the Provider is "email".
	CreatedAt    time.Time
}

// ProviderTypeEmail is the password-based credential provider.
const ProviderTypeEmail = "email"

// RefreshToken represents a long-lived, authorized sign-in session.
// Purging a user's refresh tokens is how stale auth residue is cleared.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // SHA-256 hash of the raw refresh token.
	ExpiresAt time.Time // When this session becomes invalid.
	CreatedAt time.Time // When the user signed in.
}
