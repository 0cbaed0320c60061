// Package entity contains the core business objects of the project.
package entity

import "github.com/google/uuid"

// Session is the per-request authentication context. It is constructed
// explicitly by the delivery layer and passed to every component that needs
// it; there is no process-wide mutable session state.
//
// A nil UserID means the caller is anonymous. The Role is re-derived from the
// profile record on every request; when that lookup fails, or the account is
// blocked, Role stays nil and the session is treated as anonymous-equivalent
// for policy purposes.
type Session struct {
	UserID *uuid.UUID
	Role   *Role
}

// AnonymousSession returns a session with no identity.
func AnonymousSession() Session {
	return Session{}
}

// AuthenticatedSession returns a session for a resolved identity and role.
func AuthenticatedSession(userID uuid.UUID, role Role) Session {
	return Session{UserID: &userID, Role: &role}
}

// IdentifiedSession returns a session with an identity but no resolved role,
// e.g. when the profile lookup failed after token validation.
func IdentifiedSession(userID uuid.UUID) Session {
	return Session{UserID: &userID}
}

// IsAuthenticated reports whether the session carries an identity.
func (s Session) IsAuthenticated() bool {
	return s.UserID != nil
}

// HasRole reports whether the session resolved to the given role.
func (s Session) HasRole(role Role) bool {
	return s.Role != nil && *s.Role == role
}
