// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents what a person signed up to do on the platform.
// It is self-declared at registration, except for RoleAdmin which can only
// be provisioned out of band or granted by an existing administrator.
type Role string

const (
	// RoleDonor indicates an account that lists books for donation.
	RoleDonor Role = "donor"
	// RoleSeeker indicates an account that searches for and requests books.
	RoleSeeker Role = "seeker"
	// RoleBoth indicates an account acting as both donor and seeker.
	RoleBoth Role = "both"
	// RoleAdmin indicates an administrator reviewing submissions.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleDonor, RoleSeeker, RoleBoth, RoleAdmin:
		return true
	default:
		return false
	}
}

// SelfAssignable reports whether the role may be chosen through the public
// signup path. The admin role is excluded; see cmd/seed.
func (r Role) SelfAssignable() bool {
	switch r {
	case RoleDonor, RoleSeeker, RoleBoth:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string for transport compatibility.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// RolesFromStrings converts []string to Roles, filtering out invalid role strings.
func RolesFromStrings(ss []string) Roles {
	result := make(Roles, 0, len(ss))
	for _, s := range ss {
		role := Role(s)
		if role.IsValid() {
			result = append(result, role)
		}
	}

	return result
}
