// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"bookbridge/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrDonationNotFound is a domain-specific error returned when a donation is not found.
var ErrDonationNotFound = errors.New("donation not found")

// SearchField selects which single column a search term is matched against.
// No multi-field OR is supported.
type SearchField string

const (
	SearchFieldTitle    SearchField = "title"
	SearchFieldCategory SearchField = "category"
	SearchFieldSubject  SearchField = "subject"
)

// IsValid checks if the SearchField is a valid value.
func (f SearchField) IsValid() bool {
	switch f {
	case SearchFieldTitle, SearchFieldCategory, SearchFieldSubject:
		return true
	default:
		return false
	}
}

// SearchFilter describes a seeker-facing donation query. The approved-status
// base predicate is implied and always applied by the implementation.
type SearchFilter struct {
	// Term is matched case-insensitively as a substring against Field.
	// Empty means no term filter.
	Term string
	// Field names the single column Term is matched against.
	Field SearchField
	// LocationText, when non-empty, is an independent full-text predicate
	// against the stored location, ANDed with the term filter.
	LocationText string
}

// DonationRepository defines the persistence operations for donations.
// Implementations must return only canonical donations: the location decoded
// and the medium defaulted, never the raw stored shape.
type DonationRepository interface {
	// FindByID retrieves a single donation by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error)

	// Create persists a new donation. The status the entity carries is
	// written as-is; forcing pending is the caller's contract (NewDonation).
	Create(ctx context.Context, donation *entity.Donation) error

	// UpdateStatus writes a reviewed status for a donation.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.DonationStatus) error

	// ListApproved retrieves all approved donations.
	ListApproved(ctx context.Context) ([]*entity.Donation, error)

	// ListAll retrieves donations in every status, newest first.
	// This is the admin review queue read.
	ListAll(ctx context.Context) ([]*entity.Donation, error)

	// ListByDonorEmail retrieves a donor's own submissions, newest first.
	ListByDonorEmail(ctx context.Context, email string) ([]*entity.Donation, error)

	// Search retrieves approved donations matching the filter.
	Search(ctx context.Context, filter SearchFilter) ([]*entity.Donation, error)

	// CountByStatus returns the number of donations in the given status.
	CountByStatus(ctx context.Context, status entity.DonationStatus) (int64, error)
}
