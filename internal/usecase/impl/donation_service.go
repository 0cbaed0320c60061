// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"bookbridge/config"
	deliverycontext "bookbridge/internal/delivery/context"
	"bookbridge/internal/domain/entity"
	domainerrors "bookbridge/internal/domain/errors"
	"bookbridge/internal/domain/policy"
	"bookbridge/internal/domain/repository"
	"bookbridge/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// donationService implements the DonationUsecase interface.
type donationService struct {
	donationRepo    repository.DonationRepository
	readRetries     int
	retryBackoff    time.Duration
	defaultRadiusKm float64
	maxRadiusKm     float64
	logger          *slog.Logger
}

// DonationServiceParams holds dependencies for donationService, injected by Fx.
type DonationServiceParams struct {
	fx.In

	DonationRepo repository.DonationRepository
	Config       *config.Config
	Logger       *slog.Logger
}

// NewDonationService is the constructor for donationService.
func NewDonationService(params DonationServiceParams) usecase.DonationUsecase {
	srv := &donationService{
		donationRepo: params.DonationRepo,
		logger:       params.Logger,
	}
	if params.Config != nil && params.Config.Search != nil {
		srv.readRetries = params.Config.Search.ReadRetries
		srv.retryBackoff = params.Config.Search.RetryBackoff
	}
	if params.Config != nil && params.Config.Map != nil {
		srv.defaultRadiusKm = params.Config.Map.DefaultRadiusKm
		srv.maxRadiusKm = params.Config.Map.MaxRadiusKm
	}

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *donationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// withReadRetries runs a read, retrying transient failures a configured
// number of times. Mutations never go through here.
func withReadRetries[T any](ctx context.Context, srv *donationService, name string, read func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; ; attempt++ {
		result, err = read()
		if err == nil {
			return result, nil
		}
		if attempt >= srv.readRetries {
			break
		}

		srv.log(ctx).Warn("Retrying donation read",
			slog.String("operation", name),
			slog.Int("attempt", attempt+1),
			slog.Any("error", err))

		select {
		case <-ctx.Done():
			return result, errors.Wrap(ctx.Err(), "donation read canceled")
		case <-time.After(srv.retryBackoff):
		}
	}

	return result, err
}

// Submit lists a new book for donation.
func (srv *donationService) Submit(ctx context.Context, input usecase.SubmitDonationInput) (*entity.Donation, error) {
	if err := validateSubmission(input); err != nil {
		srv.log(ctx).Warn("Donation submission rejected", slog.String("title", input.Title), slog.Any("error", err))

		return nil, err
	}

	donation := entity.NewDonation(
		input.Title, input.Category, input.Subject, input.Condition,
		input.Grade, input.Board, input.Medium,
		input.DonorName, input.DonorEmail, input.DonorPhone,
		input.Location,
	)

	if err := srv.donationRepo.Create(ctx, donation); err != nil {
		srv.log(ctx).Error("Failed to create donation", slog.String("title", input.Title), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create donation")
	}

	srv.log(ctx).Info("Donation submitted", slog.Any("donationID", donation.ID), slog.String("title", donation.Title))

	return donation, nil
}

func validateSubmission(input usecase.SubmitDonationInput) error {
	if input.Title == "" || input.DonorName == "" || input.DonorEmail == "" {
		return domainerrors.ErrValidationFailed.WithDetails("title, donor name and donor email are required")
	}
	if !input.Category.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("unknown category")
	}
	if !input.Condition.IsValid() {
		return domainerrors.ErrValidationFailed.WithDetails("unknown condition")
	}
	if input.Category == entity.CategoryCurriculum {
		if input.Grade != nil && (*input.Grade < 1 || *input.Grade > 12) {
			return domainerrors.ErrValidationFailed.WithDetails("grade must be between 1 and 12")
		}
		if input.Board != nil && !input.Board.IsValid() {
			return domainerrors.ErrValidationFailed.WithDetails("unknown education board")
		}
	}

	return nil
}

// Browse returns all approved donations, redacted for the session.
func (srv *donationService) Browse(ctx context.Context, session entity.Session, showContact bool) ([]*usecase.DonationView, error) {
	donations, err := withReadRetries(ctx, srv, "browse", func() ([]*entity.Donation, error) {
		return srv.donationRepo.ListApproved(ctx)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list approved donations", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list approved donations")
	}

	return redactAll(donations, session, showContact), nil
}

// Search returns approved donations matching the query, redacted for the session.
func (srv *donationService) Search(ctx context.Context, session entity.Session, input usecase.SearchDonationsInput) ([]*usecase.DonationView, error) {
	filter := repository.SearchFilter{
		Term:         input.Term,
		Field:        input.Field,
		LocationText: input.LocationText,
	}
	if filter.Term != "" && !filter.Field.IsValid() {
		filter.Field = repository.SearchFieldTitle
	}

	donations, err := withReadRetries(ctx, srv, "search", func() ([]*entity.Donation, error) {
		return srv.donationRepo.Search(ctx, filter)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to search donations", slog.String("term", input.Term), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to search donations")
	}

	return redactAll(donations, session, input.ShowContact), nil
}

// Get returns one donation, redacted for the session. Listings that are not
// approved stay hidden from everyone except administrators and the donor who
// submitted them.
func (srv *donationService) Get(ctx context.Context, session entity.Session, id uuid.UUID, showContact bool) (*usecase.DonationView, error) {
	donation, err := withReadRetries(ctx, srv, "get", func() (*entity.Donation, error) {
		return srv.donationRepo.FindByID(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDonationNotFound) {
			return nil, domainerrors.ErrDonationNotFound
		}

		return nil, errors.Wrap(err, "failed to find donation")
	}

	if donation.Status != entity.DonationStatusApproved && !session.HasRole(entity.RoleAdmin) {
		return nil, domainerrors.ErrDonationNotFound
	}

	return redact(donation, session, showContact), nil
}

// MapView returns approved donations within a radius of a point. Donations
// whose location decoded to the unknown fallback sit at the zero coordinate
// and naturally fall outside any realistic radius.
func (srv *donationService) MapView(ctx context.Context, input usecase.MapViewInput) ([]*usecase.DonationPin, error) {
	radius := input.RadiusKm
	if radius <= 0 {
		radius = srv.defaultRadiusKm
	}
	if srv.maxRadiusKm > 0 && radius > srv.maxRadiusKm {
		radius = srv.maxRadiusKm
	}

	donations, err := withReadRetries(ctx, srv, "map_view", func() ([]*entity.Donation, error) {
		return srv.donationRepo.ListApproved(ctx)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to load donations for map view", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load donations for map view")
	}

	center := orb.Point{input.Lng, input.Lat}
	pins := make([]*usecase.DonationPin, 0, len(donations))
	for _, donation := range donations {
		point := orb.Point{donation.Location.Lng, donation.Location.Lat}
		distanceKm := geo.Distance(center, point) / 1000
		if distanceKm > radius {
			continue
		}

		pins = append(pins, &usecase.DonationPin{
			ID:         donation.ID,
			Title:      donation.Title,
			Category:   donation.Category,
			Location:   donation.Location,
			DistanceKm: distanceKm,
		})
	}

	return pins, nil
}

// ListByDonor returns a donor's own submissions in every status.
func (srv *donationService) ListByDonor(ctx context.Context, donorEmail string) ([]*entity.Donation, error) {
	donations, err := withReadRetries(ctx, srv, "list_by_donor", func() ([]*entity.Donation, error) {
		return srv.donationRepo.ListByDonorEmail(ctx, donorEmail)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list donor donations", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list donor donations")
	}

	return donations, nil
}

// --- Redaction ---

// redact applies the contact visibility policy to a single donation. The
// entity is copied before contact fields are cleared so repository results
// are never mutated.
func redact(donation *entity.Donation, session entity.Session, showContact bool) *usecase.DonationView {
	visible := policy.CanViewContact(session, showContact)
	if visible {
		return &usecase.DonationView{Donation: donation, ContactVisible: true}
	}

	clone := *donation
	clone.DonorEmail = ""
	clone.DonorPhone = ""

	return &usecase.DonationView{Donation: &clone, ContactVisible: false}
}

func redactAll(donations []*entity.Donation, session entity.Session, showContact bool) []*usecase.DonationView {
	views := make([]*usecase.DonationView, 0, len(donations))
	for _, donation := range donations {
		views = append(views, redact(donation, session, showContact))
	}

	return views
}
