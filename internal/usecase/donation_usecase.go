// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"bookbridge/internal/domain/entity"
	"bookbridge/internal/domain/repository"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SubmitDonationInput defines the data required to list a book for donation.
type SubmitDonationInput struct {
	Title      string
	Category   entity.Category
	Subject    *string
	Condition  entity.Condition
	Grade      *int
	Board      *entity.Board
	Medium     entity.Medium
	DonorName  string
	DonorEmail string
	DonorPhone string
	Location   entity.Location
}

// SearchDonationsInput defines a seeker-facing donation query.
type SearchDonationsInput struct {
	Term         string
	Field        repository.SearchField
	LocationText string
	// ShowContact requests donor contact disclosure; it is honored only when
	// the session's role permits it.
	ShowContact bool
}

// MapViewInput defines a geographic browse query. Donations whose pickup
// point lies within RadiusKm of the center are returned.
type MapViewInput struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// --- Output DTOs ---

// DonationView is a donation prepared for display. Contact fields are blanked
// unless the visibility policy granted disclosure; ContactVisible tells the
// caller which case it is in.
type DonationView struct {
	Donation       *entity.Donation
	ContactVisible bool
}

// DonationPin is a single marker for the map view.
type DonationPin struct {
	ID         uuid.UUID
	Title      string
	Category   entity.Category
	Location   entity.Location
	DistanceKm float64
}

// DonationUsecase defines the interface for donation-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type DonationUsecase interface {
	// Submit lists a new book. The resulting donation is always pending,
	// whatever the caller supplied.
	Submit(ctx context.Context, input SubmitDonationInput) (*entity.Donation, error)

	// Browse returns all approved donations for the given session, with
	// contact details disclosed or withheld per the visibility policy.
	Browse(ctx context.Context, session entity.Session, showContact bool) ([]*DonationView, error)

	// Search returns approved donations matching the query for the given session.
	Search(ctx context.Context, session entity.Session, input SearchDonationsInput) ([]*DonationView, error)

	// Get returns one donation for the given session. Non-approved donations
	// are visible only to administrators and their own donor.
	Get(ctx context.Context, session entity.Session, id uuid.UUID, showContact bool) (*DonationView, error)

	// MapView returns approved donations within a radius of a point.
	MapView(ctx context.Context, input MapViewInput) ([]*DonationPin, error)

	// ListByDonor returns a donor's own submissions in every status.
	ListByDonor(ctx context.Context, donorEmail string) ([]*entity.Donation, error)
}
