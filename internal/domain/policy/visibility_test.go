package policy

import (
	"testing"

	"bookbridge/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanViewContact(t *testing.T) {
	t.Parallel()

	seeker := entity.AuthenticatedSession(uuid.New(), entity.RoleSeeker)
	donor := entity.AuthenticatedSession(uuid.New(), entity.RoleDonor)
	both := entity.AuthenticatedSession(uuid.New(), entity.RoleBoth)
	admin := entity.AuthenticatedSession(uuid.New(), entity.RoleAdmin)
	anonymous := entity.AnonymousSession()
	roleless := entity.IdentifiedSession(uuid.New())

	tests := []struct {
		name          string
		session       entity.Session
		showRequested bool
		want          bool
	}{
		{name: "seeker with request", session: seeker, showRequested: true, want: true},
		{name: "both with request", session: both, showRequested: true, want: true},
		{name: "admin with request", session: admin, showRequested: true, want: true},
		{name: "donor-only never sees contact", session: donor, showRequested: true, want: false},
		{name: "anonymous never sees contact", session: anonymous, showRequested: true, want: false},
		{name: "identity without role", session: roleless, showRequested: true, want: false},
		{name: "seeker without request", session: seeker, showRequested: false, want: false},
		{name: "admin without request", session: admin, showRequested: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, CanViewContact(tt.session, tt.showRequested))
		})
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	donor := entity.AuthenticatedSession(uuid.New(), entity.RoleDonor)
	admin := entity.AuthenticatedSession(uuid.New(), entity.RoleAdmin)
	roleless := entity.IdentifiedSession(uuid.New())

	tests := []struct {
		name    string
		session entity.Session
		allowed entity.Roles
		want    Decision
	}{
		{name: "anonymous goes to sign-in", session: entity.AnonymousSession(), allowed: entity.Roles{entity.RoleAdmin}, want: RedirectAuth},
		{name: "wrong role goes home", session: donor, allowed: entity.Roles{entity.RoleAdmin}, want: RedirectHome},
		{name: "matching role allowed", session: admin, allowed: entity.Roles{entity.RoleAdmin}, want: Allow},
		{name: "no role requirement allows any identity", session: roleless, allowed: nil, want: Allow},
		{name: "unresolved role fails a role requirement", session: roleless, allowed: entity.Roles{entity.RoleDonor}, want: RedirectHome},
		{name: "anonymous fails even without role requirement", session: entity.AnonymousSession(), allowed: nil, want: RedirectAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Authorize(tt.session, tt.allowed))
		})
	}
}

func TestDecisionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "redirect_auth", RedirectAuth.String())
	assert.Equal(t, "redirect_home", RedirectHome.String())
}
