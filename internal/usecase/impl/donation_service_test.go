package impl

import (
	"context"
	"testing"
	"time"

	"bookbridge/config"
	"bookbridge/internal/domain/entity"
	domainerrors "bookbridge/internal/domain/errors"
	"bookbridge/internal/domain/repository"
	"bookbridge/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDonationService(repo *memDonationRepo) usecase.DonationUsecase {
	cfg := &config.Config{
		Search: &config.SearchConfig{ReadRetries: 2, RetryBackoff: time.Millisecond},
		Map:    &config.MapConfig{DefaultRadiusKm: 25, MaxRadiusKm: 200},
	}

	return NewDonationService(DonationServiceParams{
		DonationRepo: repo,
		Config:       cfg,
		Logger:       newDiscardLogger(),
	})
}

func requireAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.ErrorCode())
}

func approvedDonation(title, donorEmail string, loc entity.Location) *entity.Donation {
	return &entity.Donation{
		ID:         uuid.New(),
		Title:      title,
		Category:   entity.CategoryNonCurriculum,
		Condition:  entity.ConditionGood,
		Medium:     entity.DefaultMedium,
		DonorName:  "Donor",
		DonorEmail: donorEmail,
		DonorPhone: "5550000",
		Status:     entity.DonationStatusApproved,
		Location:   entity.DecodeLocation(loc),
	}
}

func TestDonationService_Submit_ForcesPending(t *testing.T) {
	repo := newMemDonationRepo()
	srv := newTestDonationService(repo)

	donation, err := srv.Submit(context.Background(), usecase.SubmitDonationInput{
		Title:      "NCERT Science Class 8",
		Category:   entity.CategoryCurriculum,
		Subject:    strPtr("Science"),
		Condition:  entity.ConditionGood,
		Grade:      intPtr(8),
		Board:      boardPtr(entity.BoardCBSE),
		Medium:     entity.Medium("FRENCH"),
		DonorName:  "Asha",
		DonorEmail: "asha@example.com",
		Location:   entity.Location{Lat: 18.52, Lng: 73.85, Address: "Pune"},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.DonationStatusPending, donation.Status)
	assert.Equal(t, entity.DefaultMedium, donation.Medium)
	require.Len(t, repo.donations, 1)
	assert.Equal(t, entity.DonationStatusPending, repo.donations[0].Status)
}

func TestDonationService_Submit_Validation(t *testing.T) {
	srv := newTestDonationService(newMemDonationRepo())
	ctx := context.Background()

	valid := usecase.SubmitDonationInput{
		Title:      "Algebra",
		Category:   entity.CategoryCurriculum,
		Condition:  entity.ConditionNew,
		DonorName:  "Ravi",
		DonorEmail: "ravi@example.com",
	}

	tests := []struct {
		name   string
		mutate func(*usecase.SubmitDonationInput)
	}{
		{name: "missing title", mutate: func(in *usecase.SubmitDonationInput) { in.Title = "" }},
		{name: "missing donor email", mutate: func(in *usecase.SubmitDonationInput) { in.DonorEmail = "" }},
		{name: "unknown category", mutate: func(in *usecase.SubmitDonationInput) { in.Category = "FICTION" }},
		{name: "unknown condition", mutate: func(in *usecase.SubmitDonationInput) { in.Condition = "TORN" }},
		{name: "grade out of range", mutate: func(in *usecase.SubmitDonationInput) { in.Grade = intPtr(13) }},
		{name: "unknown board", mutate: func(in *usecase.SubmitDonationInput) { in.Board = boardPtr("IB") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			_, err := srv.Submit(ctx, input)
			requireAppErrorCode(t, err, "VALIDATION_FAILED")
		})
	}
}

func TestDonationService_Browse_Redaction(t *testing.T) {
	repo := newMemDonationRepo()
	repo.donations = []*entity.Donation{
		approvedDonation("Wings of Fire", "donor@example.com", entity.Location{Address: "Pune"}),
	}
	srv := newTestDonationService(repo)
	ctx := context.Background()

	seeker := entity.AuthenticatedSession(uuid.New(), entity.RoleSeeker)
	donor := entity.AuthenticatedSession(uuid.New(), entity.RoleDonor)

	tests := []struct {
		name        string
		session     entity.Session
		showContact bool
		visible     bool
	}{
		{name: "seeker requesting contact", session: seeker, showContact: true, visible: true},
		{name: "seeker without request", session: seeker, showContact: false, visible: false},
		{name: "donor-only requesting contact", session: donor, showContact: true, visible: false},
		{name: "anonymous requesting contact", session: entity.AnonymousSession(), showContact: true, visible: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := srv.Browse(ctx, tt.session, tt.showContact)

			require.NoError(t, err)
			require.Len(t, views, 1)
			assert.Equal(t, tt.visible, views[0].ContactVisible)
			if tt.visible {
				assert.Equal(t, "donor@example.com", views[0].Donation.DonorEmail)
			} else {
				assert.Empty(t, views[0].Donation.DonorEmail)
				assert.Empty(t, views[0].Donation.DonorPhone)
			}
		})
	}

	// The stored entity must never lose its contact fields to redaction.
	assert.Equal(t, "donor@example.com", repo.donations[0].DonorEmail)
	assert.Equal(t, "5550000", repo.donations[0].DonorPhone)
}

func TestDonationService_Search_InvalidFieldFallsBackToTitle(t *testing.T) {
	repo := newMemDonationRepo()
	repo.donations = []*entity.Donation{
		approvedDonation("Wings of Fire", "donor@example.com", entity.Location{Address: "Pune"}),
	}
	srv := newTestDonationService(repo)

	views, err := srv.Search(context.Background(), entity.AnonymousSession(), usecase.SearchDonationsInput{
		Term:  "wings",
		Field: repository.SearchField("donor_email"),
	})

	require.NoError(t, err)
	assert.Equal(t, repository.SearchFieldTitle, repo.lastFilter.Field)
	assert.Len(t, views, 1)
}

func TestDonationService_Search_LocationPredicate(t *testing.T) {
	repo := newMemDonationRepo()
	repo.donations = []*entity.Donation{
		approvedDonation("Wings of Fire", "a@example.com", entity.Location{Address: "Pune"}),
		approvedDonation("Wings of Time", "b@example.com", entity.Location{Address: "Mumbai"}),
	}
	srv := newTestDonationService(repo)

	views, err := srv.Search(context.Background(), entity.AnonymousSession(), usecase.SearchDonationsInput{
		Term:         "wings",
		Field:        repository.SearchFieldTitle,
		LocationText: "pune",
	})

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Wings of Fire", views[0].Donation.Title)
}

func TestDonationService_ReadRetries(t *testing.T) {
	t.Run("transient failure recovers", func(t *testing.T) {
		repo := newMemDonationRepo()
		repo.readFailures = 1
		srv := newTestDonationService(repo)

		_, err := srv.Browse(context.Background(), entity.AnonymousSession(), false)

		require.NoError(t, err)
		assert.Equal(t, 2, repo.readCalls)
	})

	t.Run("persistent failure gives up after the budget", func(t *testing.T) {
		repo := newMemDonationRepo()
		repo.readFailures = 10
		srv := newTestDonationService(repo)

		_, err := srv.Browse(context.Background(), entity.AnonymousSession(), false)

		require.Error(t, err)
		assert.Equal(t, 3, repo.readCalls)
	})

	t.Run("mutations are never retried", func(t *testing.T) {
		repo := newMemDonationRepo()
		srv := newTestDonationService(repo)

		_, err := srv.Submit(context.Background(), usecase.SubmitDonationInput{
			Title:      "Algebra",
			Category:   entity.CategoryNonCurriculum,
			Condition:  entity.ConditionGood,
			DonorName:  "Ravi",
			DonorEmail: "ravi@example.com",
		})

		require.NoError(t, err)
		assert.Zero(t, repo.readCalls)
	})
}

func TestDonationService_Get_HidesUnapprovedFromNonAdmins(t *testing.T) {
	repo := newMemDonationRepo()
	pending := approvedDonation("Pending Book", "donor@example.com", entity.Location{Address: "Pune"})
	pending.Status = entity.DonationStatusPending
	repo.donations = []*entity.Donation{pending}
	srv := newTestDonationService(repo)
	ctx := context.Background()

	_, err := srv.Get(ctx, entity.AuthenticatedSession(uuid.New(), entity.RoleSeeker), pending.ID, false)
	assert.ErrorIs(t, err, domainerrors.ErrDonationNotFound)

	_, err = srv.Get(ctx, entity.AnonymousSession(), pending.ID, false)
	assert.ErrorIs(t, err, domainerrors.ErrDonationNotFound)

	view, err := srv.Get(ctx, entity.AuthenticatedSession(uuid.New(), entity.RoleAdmin), pending.ID, false)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, view.Donation.ID)
}

func TestDonationService_Get_NotFound(t *testing.T) {
	srv := newTestDonationService(newMemDonationRepo())

	_, err := srv.Get(context.Background(), entity.AnonymousSession(), uuid.New(), false)
	assert.ErrorIs(t, err, domainerrors.ErrDonationNotFound)
}

func TestDonationService_MapView(t *testing.T) {
	puneCenter := usecase.MapViewInput{Lat: 18.5204, Lng: 73.8567}

	repo := newMemDonationRepo()
	repo.donations = []*entity.Donation{
		approvedDonation("Nearby", "a@example.com", entity.Location{Lat: 18.53, Lng: 73.85, Address: "Pune"}),
		approvedDonation("Mumbai", "b@example.com", entity.Location{Lat: 19.0760, Lng: 72.8777, Address: "Mumbai"}),
		approvedDonation("Unknown", "c@example.com", entity.Location{}),
	}
	srv := newTestDonationService(repo)
	ctx := context.Background()

	t.Run("default radius keeps only nearby pins", func(t *testing.T) {
		pins, err := srv.MapView(ctx, puneCenter)

		require.NoError(t, err)
		require.Len(t, pins, 1)
		assert.Equal(t, "Nearby", pins[0].Title)
		assert.Less(t, pins[0].DistanceKm, 25.0)
	})

	t.Run("wider radius reaches the next city", func(t *testing.T) {
		input := puneCenter
		input.RadiusKm = 150

		pins, err := srv.MapView(ctx, input)

		require.NoError(t, err)
		assert.Len(t, pins, 2)
	})

	t.Run("radius is clamped to the maximum", func(t *testing.T) {
		input := puneCenter
		input.RadiusKm = 100000

		pins, err := srv.MapView(ctx, input)

		require.NoError(t, err)
		// The unknown-location pin sits at the zero coordinate, far outside
		// the 200km clamp.
		assert.Len(t, pins, 2)
	})
}

func TestDonationService_ListByDonor(t *testing.T) {
	repo := newMemDonationRepo()
	mine := approvedDonation("Mine", "donor@example.com", entity.Location{Address: "Pune"})
	mine.Status = entity.DonationStatusPending
	repo.donations = []*entity.Donation{
		mine,
		approvedDonation("Someone else's", "other@example.com", entity.Location{Address: "Pune"}),
	}
	srv := newTestDonationService(repo)

	donations, err := srv.ListByDonor(context.Background(), "donor@example.com")

	require.NoError(t, err)
	require.Len(t, donations, 1)
	assert.Equal(t, "Mine", donations[0].Title)
	assert.Equal(t, entity.DonationStatusPending, donations[0].Status, "a donor sees their own pending submissions")
}
