// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"bookbridge/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// ReviewDonationInput defines an admin review decision for one donation.
type ReviewDonationInput struct {
	DonationID uuid.UUID
	Approve    bool
}

// SeedAdminInput defines the out-of-band provisioning of an administrator
// account. It is reachable only from the seed command, never over HTTP.
type SeedAdminInput struct {
	Name     string
	Email    string
	Password string
}

// --- Output DTOs ---

// ReviewDonationOutput returns the reviewed donation together with the
// refreshed review queue and public listing, so the caller renders the
// post-decision state without issuing stale follow-up reads.
type ReviewDonationOutput struct {
	Donation *entity.Donation
	Pending  []*entity.Donation
	Approved []*entity.Donation
}

// PlatformReport aggregates the counters shown on the admin dashboard.
type PlatformReport struct {
	PendingDonations  int64
	ApprovedDonations int64
	DeclinedDonations int64
	Donors            int64
	Seekers           int64
	DualRole          int64
}

// AdminUsecase defines the interface for administrator-only operations.
// Route-level authorization is the delivery layer's job; these methods assume
// the caller has already been established as an administrator.
type AdminUsecase interface {
	// ReviewQueue returns donations in every status, newest first.
	ReviewQueue(ctx context.Context) ([]*entity.Donation, error)

	// ReviewDonation applies an approve or decline decision. Only pending
	// donations can be reviewed; both outcomes are terminal.
	ReviewDonation(ctx context.Context, input ReviewDonationInput) (*ReviewDonationOutput, error)

	// ListUsers returns every account, newest first.
	ListUsers(ctx context.Context) ([]*entity.User, error)

	// SearchUsers returns accounts matching the query by name, email or phone.
	SearchUsers(ctx context.Context, query string) ([]*entity.User, error)

	// SetUserStatus blocks or unblocks an account. Blocking also ends every
	// session the account holds.
	SetUserStatus(ctx context.Context, userID uuid.UUID, status entity.UserStatus) (*entity.User, error)

	// SetUserRole changes an account's role, including granting admin.
	SetUserRole(ctx context.Context, userID uuid.UUID, role entity.Role) (*entity.User, error)

	// DeleteUser removes an account and everything attached to it.
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	// Report returns the dashboard counters.
	Report(ctx context.Context) (*PlatformReport, error)

	// SeedAdmin provisions an administrator account, or updates the password
	// and role of an existing account with the same email. Stale sessions for
	// the account are purged.
	SeedAdmin(ctx context.Context, input SeedAdminInput) (*entity.User, error)
}
