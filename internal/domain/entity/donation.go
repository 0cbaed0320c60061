// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Category distinguishes school-curriculum books from everything else.
type Category string

const (
	// CategoryCurriculum is a school textbook tied to a grade and board.
	CategoryCurriculum Category = "CURRICULUM"
	// CategoryNonCurriculum is any other kind of book.
	CategoryNonCurriculum Category = "NON_CURRICULUM"
)

// IsValid checks if the Category is a valid value.
func (c Category) IsValid() bool {
	return c == CategoryCurriculum || c == CategoryNonCurriculum
}

// Condition describes the physical state of a donated book.
type Condition string

const (
	ConditionNew  Condition = "NEW"
	ConditionGood Condition = "GOOD"
	ConditionFair Condition = "FAIR"
)

// IsValid checks if the Condition is a valid value.
func (c Condition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionGood, ConditionFair:
		return true
	default:
		return false
	}
}

// Board is the education board a curriculum book belongs to.
type Board string

const (
	BoardCBSE  Board = "CBSE"
	BoardICSE  Board = "ICSE"
	BoardState Board = "STATE"
	BoardIGCSE Board = "IGCSE"
)

// IsValid checks if the Board is a valid value.
func (b Board) IsValid() bool {
	switch b {
	case BoardCBSE, BoardICSE, BoardState, BoardIGCSE:
		return true
	default:
		return false
	}
}

// Medium is the language the book is written in. Historical records do not
// carry this column, so reads default it to MediumEnglish.
type Medium string

const (
	MediumEnglish Medium = "ENGLISH"
	MediumHindi   Medium = "HINDI"
	MediumMarathi Medium = "MARATHI"
)

// DefaultMedium is substituted when the store does not carry a medium.
const DefaultMedium = MediumEnglish

// IsValid checks if the Medium is a valid value.
func (m Medium) IsValid() bool {
	switch m {
	case MediumEnglish, MediumHindi, MediumMarathi:
		return true
	default:
		return false
	}
}

// DonationStatus is the review state of a donation.
// Lifecycle: pending -> approved | declined; both outcomes are terminal.
type DonationStatus string

const (
	DonationStatusPending  DonationStatus = "pending"
	DonationStatusApproved DonationStatus = "approved"
	DonationStatusDeclined DonationStatus = "declined"
)

// IsValid checks if the DonationStatus is a valid value.
func (s DonationStatus) IsValid() bool {
	switch s {
	case DonationStatusPending, DonationStatusApproved, DonationStatusDeclined:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed from this state.
func (s DonationStatus) IsTerminal() bool {
	return s == DonationStatusApproved || s == DonationStatusDeclined
}

// ErrInvalidTransition is returned when a status change violates the
// donation lifecycle.
var ErrInvalidTransition = errors.New("invalid donation status transition")

// Donation is a single donated-book listing. A donation is publicly
// searchable only while Status is approved; contact fields are disclosed
// subject to the visibility policy, never unconditionally.
type Donation struct {
	ID         uuid.UUID
	Title      string
	Category   Category
	Subject    *string // Subject for curriculum books, non-curriculum type otherwise.
	Condition  Condition
	Grade      *int   // 1-12, curriculum only.
	Board      *Board // Curriculum only.
	Medium     Medium // Defaulted to DefaultMedium when absent from storage.
	DonorName  string
	DonorEmail string
	DonorPhone string
	Status     DonationStatus
	Location   Location // Always canonical after decoding.
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewDonation builds a donation from a submission. Status is forced to
// pending regardless of what the caller supplied, grade and board are
// dropped for non-curriculum books, and the location is normalized through
// the codec so the entity never carries a raw payload.
func NewDonation(title string, category Category, subject *string, condition Condition,
	grade *int, board *Board, medium Medium, donorName, donorEmail, donorPhone string,
	location Location) *Donation {

	if category != CategoryCurriculum {
		grade = nil
		board = nil
	}
	if !medium.IsValid() {
		medium = DefaultMedium
	}

	return &Donation{
		Title:      title,
		Category:   category,
		Subject:    subject,
		Condition:  condition,
		Grade:      grade,
		Board:      board,
		Medium:     medium,
		DonorName:  donorName,
		DonorEmail: donorEmail,
		DonorPhone: donorPhone,
		Status:     DonationStatusPending,
		Location:   DecodeLocation(location),
	}
}

// TransitionTo applies an admin review decision. Only pending -> approved and
// pending -> declined are valid; terminal states never change and a state
// never transitions to itself.
func (d *Donation) TransitionTo(target DonationStatus) error {
	if target != DonationStatusApproved && target != DonationStatusDeclined {
		return errors.Wrapf(ErrInvalidTransition, "target %q is not a review outcome", target)
	}
	if d.Status != DonationStatusPending {
		return errors.Wrapf(ErrInvalidTransition, "donation is already %s", d.Status)
	}

	d.Status = target

	return nil
}

// IsCurriculum reports whether grade and board carry meaning for this donation.
func (d *Donation) IsCurriculum() bool {
	return d.Category == CategoryCurriculum
}
