package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRole_SelfAssignable(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleDonor.SelfAssignable())
	assert.True(t, RoleSeeker.SelfAssignable())
	assert.True(t, RoleBoth.SelfAssignable())
	assert.False(t, RoleAdmin.SelfAssignable())
	assert.False(t, Role("moderator").SelfAssignable())
}

func TestRolesFromStrings_FiltersInvalid(t *testing.T) {
	t.Parallel()

	roles := RolesFromStrings([]string{"donor", "moderator", "admin", ""})
	assert.Equal(t, Roles{RoleDonor, RoleAdmin}, roles)
}

func TestSessionHelpers(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	anonymous := AnonymousSession()
	assert.False(t, anonymous.IsAuthenticated())
	assert.False(t, anonymous.HasRole(RoleAdmin))

	identified := IdentifiedSession(userID)
	assert.True(t, identified.IsAuthenticated())
	assert.False(t, identified.HasRole(RoleSeeker), "an unresolved role matches nothing")

	authenticated := AuthenticatedSession(userID, RoleSeeker)
	assert.True(t, authenticated.IsAuthenticated())
	assert.True(t, authenticated.HasRole(RoleSeeker))
	assert.False(t, authenticated.HasRole(RoleAdmin))
}
