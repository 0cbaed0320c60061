// Package policy holds the role-gated visibility and route authorization
// rules. These are pure functions over the request session; they issue no
// queries and carry no state.
package policy

import "bookbridge/internal/domain/entity"

// contactRoles are the roles allowed to see donor contact details.
// A donor-only account cannot, which nudges donors to register as seekers
// before requesting books themselves.
var contactRoles = entity.Roles{entity.RoleSeeker, entity.RoleBoth, entity.RoleAdmin}

// CanViewContact decides whether the caller may see a donation's donor
// contact details. Contact information is visible iff it was explicitly
// requested, the session carries an identity, and the resolved role is
// seeker, both, or admin. An anonymous session or a donor-only role yields
// false regardless of the request flag.
func CanViewContact(session entity.Session, showRequested bool) bool {
	if !showRequested || !session.IsAuthenticated() {
		return false
	}
	if session.Role == nil {
		return false
	}

	return contactRoles.Contains(*session.Role)
}

// Decision is the outcome of a route authorization check.
type Decision int

const (
	// Allow grants access to the route.
	Allow Decision = iota
	// RedirectAuth sends the caller to the sign-in flow.
	RedirectAuth
	// RedirectHome sends an authenticated caller with the wrong role home.
	RedirectHome
)

// String returns a readable name for the decision.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectAuth:
		return "redirect_auth"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Authorize evaluates a route guard for the given session.
// No identity yields RedirectAuth. When allowedRoles is non-empty and the
// resolved role is not in the set, the caller is sent home. An identity
// whose role could not be resolved is only allowed onto routes with no role
// requirement.
func Authorize(session entity.Session, allowedRoles entity.Roles) Decision {
	if !session.IsAuthenticated() {
		return RedirectAuth
	}
	if len(allowedRoles) == 0 {
		return Allow
	}
	if session.Role == nil || !allowedRoles.Contains(*session.Role) {
		return RedirectHome
	}

	return Allow
}
