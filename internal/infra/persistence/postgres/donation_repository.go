// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"

	"bookbridge/internal/domain/entity"
	domainerrors "bookbridge/internal/domain/errors"
	"bookbridge/internal/domain/repository"
	"bookbridge/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// donationRepository implements the repository.DonationRepository interface.
type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository is the constructor for donationRepository.
func NewDonationRepository(db *gorm.DB) repository.DonationRepository {
	return &donationRepository{
		db: db,
	}
}

// FindByID retrieves a donation by its unique ID.
func (repo *donationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	var donationM model.DonationModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&donationM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDonationNotFound
		}

		return nil, errors.Wrap(err, "failed to find donation by ID")
	}

	return toDonationDomain(&donationM), nil
}

// Create persists a new donation listing.
func (repo *donationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	donationM := fromDonationDomain(donation)

	if err := repo.db.WithContext(ctx).Create(donationM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required donation information")
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid donation information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create donation")
	}

	// Update the entity with generated values
	donation.ID = donationM.ID
	donation.CreatedAt = donationM.CreatedAt
	donation.UpdatedAt = donationM.UpdatedAt

	return nil
}

// UpdateStatus writes a reviewed status for a donation.
func (repo *donationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.DonationStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.DonationModel{}).
		Where("id = ?", id).
		Update("status", string(status))

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update donation status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrDonationNotFound
	}

	return nil
}

// ListApproved retrieves all approved donations, newest first.
func (repo *donationRepository) ListApproved(ctx context.Context) ([]*entity.Donation, error) {
	return repo.list(ctx, repo.db.WithContext(ctx).
		Where("status = ?", string(entity.DonationStatusApproved)))
}

// ListAll retrieves donations in every status, newest first.
func (repo *donationRepository) ListAll(ctx context.Context) ([]*entity.Donation, error) {
	return repo.list(ctx, repo.db.WithContext(ctx))
}

// ListByDonorEmail retrieves a donor's own submissions, newest first.
func (repo *donationRepository) ListByDonorEmail(ctx context.Context, email string) ([]*entity.Donation, error) {
	return repo.list(ctx, repo.db.WithContext(ctx).
		Where("donor_email = ?", email))
}

// Search retrieves approved donations matching the filter. Every query starts
// from the approved-status base predicate; the term filter matches a single
// column as a case-insensitive substring and the location filter is an
// independent full-text predicate ANDed on top.
func (repo *donationRepository) Search(ctx context.Context, filter repository.SearchFilter) ([]*entity.Donation, error) {
	tx := repo.db.WithContext(ctx).
		Where("status = ?", string(entity.DonationStatusApproved))

	if filter.Term != "" {
		field := filter.Field
		if !field.IsValid() {
			field = repository.SearchFieldTitle
		}
		tx = tx.Where(string(field)+" ILIKE ?", "%"+filter.Term+"%")
	}

	if filter.LocationText != "" {
		tx = tx.Where(
			"to_tsvector('english', coalesce(location->>'address', '')) @@ websearch_to_tsquery('english', ?)",
			filter.LocationText,
		)
	}

	return repo.list(ctx, tx)
}

// CountByStatus returns the number of donations in the given status.
func (repo *donationRepository) CountByStatus(ctx context.Context, status entity.DonationStatus) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.DonationModel{}).
		Where("status = ?", string(status)).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count donations by status")
	}

	return count, nil
}

func (repo *donationRepository) list(_ context.Context, tx *gorm.DB) ([]*entity.Donation, error) {
	var donationModels []*model.DonationModel

	if err := tx.
		Order("created_at DESC").
		Find(&donationModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list donations")
	}

	donations := make([]*entity.Donation, 0, len(donationModels))
	for _, donationM := range donationModels {
		donations = append(donations, toDonationDomain(donationM))
	}

	return donations, nil
}

// --- Mapper Functions ---

// toDonationDomain converts a GORM DonationModel to a domain Donation entity.
// This is the single point where the stored location payload is decoded and
// the missing medium column is defaulted.
func toDonationDomain(data *model.DonationModel) *entity.Donation {
	if data == nil {
		return nil
	}

	var board *entity.Board
	if data.Board != nil {
		b := entity.Board(*data.Board)
		board = &b
	}

	return &entity.Donation{
		ID:         data.ID,
		Title:      data.Title,
		Category:   entity.Category(data.Category),
		Subject:    data.Subject,
		Condition:  entity.Condition(data.Condition),
		Grade:      data.Grade,
		Board:      board,
		Medium:     entity.DefaultMedium,
		DonorName:  data.DonorName,
		DonorEmail: data.DonorEmail,
		DonorPhone: data.DonorPhone,
		Status:     entity.DonationStatus(data.Status),
		Location:   entity.DecodeLocation([]byte(data.Location)),
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

// fromDonationDomain converts a domain Donation entity to a GORM DonationModel.
func fromDonationDomain(data *entity.Donation) *model.DonationModel {
	if data == nil {
		return nil
	}

	var board *string
	if data.Board != nil {
		b := string(*data.Board)
		board = &b
	}

	// The canonical location always marshals cleanly; the zero value falls
	// back to the unknown-location shape rather than empty JSON.
	locationJSON, err := json.Marshal(entity.DecodeLocation(data.Location))
	if err != nil {
		locationJSON, _ = json.Marshal(entity.FallbackLocation())
	}

	return &model.DonationModel{
		ID:         data.ID,
		Title:      data.Title,
		Category:   string(data.Category),
		Subject:    data.Subject,
		Grade:      data.Grade,
		Board:      board,
		Condition:  string(data.Condition),
		DonorName:  data.DonorName,
		DonorEmail: data.DonorEmail,
		DonorPhone: data.DonorPhone,
		Location:   datatypes.JSON(locationJSON),
		Status:     string(data.Status),
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
