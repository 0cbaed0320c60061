// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "bookbridge/internal/delivery/context"
	"bookbridge/internal/domain/entity"
	domainerrors "bookbridge/internal/domain/errors"
	"bookbridge/internal/domain/repository"
	"bookbridge/internal/domain/service"
	"bookbridge/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// adminService implements the AdminUsecase interface.
type adminService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	authRepo     repository.AuthRepository
	donationRepo repository.DonationRepository
	hasher       service.PasswordHasher
	logger       *slog.Logger
}

// AdminServiceParams holds dependencies for adminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	AuthRepo     repository.AuthRepository
	DonationRepo repository.DonationRepository
	Hasher       service.PasswordHasher
	Logger       *slog.Logger
}

// NewAdminService is the constructor for adminService.
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		authRepo:     params.AuthRepo,
		donationRepo: params.DonationRepo,
		hasher:       params.Hasher,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *adminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ReviewQueue returns donations in every status, newest first.
func (srv *adminService) ReviewQueue(ctx context.Context) ([]*entity.Donation, error) {
	donations, err := srv.donationRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load review queue")
	}

	return donations, nil
}

// ReviewDonation applies an approve or decline decision inside a transaction,
// then re-reads the review queue and public listing so the caller renders the
// post-decision state directly.
func (srv *adminService) ReviewDonation(ctx context.Context, input usecase.ReviewDonationInput) (*usecase.ReviewDonationOutput, error) {
	target := entity.DonationStatusDeclined
	if input.Approve {
		target = entity.DonationStatusApproved
	}

	srv.log(ctx).Info("Reviewing donation", slog.Any("donationID", input.DonationID), slog.Any("decision", target))

	var reviewed *entity.Donation
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		donationRepo := repoFactory.DonationRepo()

		donation, err := donationRepo.FindByID(ctx, input.DonationID)
		if err != nil {
			if errors.Is(err, repository.ErrDonationNotFound) {
				return domainerrors.ErrDonationNotFound
			}

			return errors.Wrap(err, "failed to load donation for review")
		}

		if err := donation.TransitionTo(target); err != nil {
			return domainerrors.ErrDonationTransition.WrapMessage(err.Error())
		}

		if err := donationRepo.UpdateStatus(ctx, donation.ID, donation.Status); err != nil {
			return errors.Wrap(err, "failed to persist review decision")
		}

		reviewed = donation

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Review failed", slog.Any("donationID", input.DonationID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute review transaction")
	}

	pending, err := srv.pendingDonations(ctx)
	if err != nil {
		return nil, err
	}
	approved, err := srv.donationRepo.ListApproved(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload approved donations after review")
	}

	srv.log(ctx).Info("Donation reviewed", slog.Any("donationID", reviewed.ID), slog.Any("status", reviewed.Status))

	return &usecase.ReviewDonationOutput{
		Donation: reviewed,
		Pending:  pending,
		Approved: approved,
	}, nil
}

func (srv *adminService) pendingDonations(ctx context.Context) ([]*entity.Donation, error) {
	all, err := srv.donationRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload review queue")
	}

	pending := make([]*entity.Donation, 0, len(all))
	for _, donation := range all {
		if donation.Status == entity.DonationStatusPending {
			pending = append(pending, donation)
		}
	}

	return pending, nil
}

// ListUsers returns every account, newest first.
func (srv *adminService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// SearchUsers returns accounts matching the query by name, email or phone.
func (srv *adminService) SearchUsers(ctx context.Context, query string) ([]*entity.User, error) {
	if query == "" {
		return srv.ListUsers(ctx)
	}

	users, err := srv.userRepo.SearchByNameEmailPhone(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search users")
	}

	return users, nil
}

// SetUserStatus blocks or unblocks an account. Blocking ends every session
// the account holds, so a blocked user cannot keep acting on a live token pair.
func (srv *adminService) SetUserStatus(ctx context.Context, userID uuid.UUID, status entity.UserStatus) (*entity.User, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown account status")
	}

	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load user for status change")
		}

		user.Status = status
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update user status")
		}

		if status == entity.UserStatusBlocked {
			if err := authRepo.DeleteRefreshTokensByUserID(ctx, userID); err != nil {
				return errors.Wrap(err, "failed to end sessions for blocked user")
			}
		}

		updated = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Status change failed", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute status change transaction")
	}

	srv.log(ctx).Info("User status changed", slog.Any("userID", userID), slog.Any("status", status))

	return updated, nil
}

// SetUserRole changes an account's role. This is the only path that grants
// admin after the initial seed.
func (srv *adminService) SetUserRole(ctx context.Context, userID uuid.UUID, role entity.Role) (*entity.User, error) {
	if !role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown role")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user for role change")
	}

	user.Role = role
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, domainerrors.ErrUserUpdateFailed.WrapMessage("failed to update user role")
	}

	srv.log(ctx).Info("User role changed", slog.Any("userID", userID), slog.Any("role", role))

	return user, nil
}

// DeleteUser removes an account. Credentials and sessions go with it through
// the cascade on the user row.
func (srv *adminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := srv.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to delete user")
	}

	srv.log(ctx).Info("User deleted", slog.Any("userID", userID))

	return nil
}

// Report returns the dashboard counters.
func (srv *adminService) Report(ctx context.Context) (*usecase.PlatformReport, error) {
	report := &usecase.PlatformReport{}

	var err error
	if report.PendingDonations, err = srv.donationRepo.CountByStatus(ctx, entity.DonationStatusPending); err != nil {
		return nil, errors.Wrap(err, "failed to count pending donations")
	}
	if report.ApprovedDonations, err = srv.donationRepo.CountByStatus(ctx, entity.DonationStatusApproved); err != nil {
		return nil, errors.Wrap(err, "failed to count approved donations")
	}
	if report.DeclinedDonations, err = srv.donationRepo.CountByStatus(ctx, entity.DonationStatusDeclined); err != nil {
		return nil, errors.Wrap(err, "failed to count declined donations")
	}
	if report.Donors, err = srv.userRepo.CountByRole(ctx, entity.RoleDonor); err != nil {
		return nil, errors.Wrap(err, "failed to count donors")
	}
	if report.Seekers, err = srv.userRepo.CountByRole(ctx, entity.RoleSeeker); err != nil {
		return nil, errors.Wrap(err, "failed to count seekers")
	}
	if report.DualRole, err = srv.userRepo.CountByRole(ctx, entity.RoleBoth); err != nil {
		return nil, errors.Wrap(err, "failed to count dual-role users")
	}

	return report, nil
}

// SeedAdmin provisions an administrator account out of band. If the email is
// already registered, the existing account is promoted to admin and its
// password replaced. Every session for the account is purged either way.
func (srv *adminService) SeedAdmin(ctx context.Context, input usecase.SeedAdminInput) (*entity.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name, email and password are required")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash admin password")
	}

	var admin *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		authRecord, err := authRepo.FindAuthenticationByEmail(ctx, input.Email)
		if errors.Is(err, repository.ErrAuthNotFound) {
			newUser := &entity.User{
				Name:   input.Name,
				Email:  input.Email,
				Role:   entity.RoleAdmin,
				Status: entity.UserStatusActive,
			}
			if err := userRepo.Create(ctx, newUser); err != nil {
				return errors.Wrap(err, "failed to create admin user")
			}

			newAuth := &entity.Authentication{
				UserID:       newUser.ID,
				Provider:     entity.ProviderTypeEmail,
				ProviderID:   input.Email,
				PasswordHash: hashedPassword,
			}
			if err := authRepo.CreateAuthentication(ctx, newAuth); err != nil {
				return errors.Wrap(err, "failed to create admin credential")
			}

			admin = newUser

			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to check existing admin credential")
		}

		user, err := userRepo.FindByID(ctx, authRecord.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to load existing account for admin seed")
		}

		user.Role = entity.RoleAdmin
		user.Status = entity.UserStatusActive
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to promote account to admin")
		}
		if err := authRepo.UpdatePasswordHash(ctx, authRecord.ID, hashedPassword); err != nil {
			return errors.Wrap(err, "failed to replace admin password")
		}
		if err := authRepo.DeleteRefreshTokensByUserID(ctx, user.ID); err != nil {
			return errors.Wrap(err, "failed to purge sessions during admin seed")
		}

		admin = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Admin seed failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute admin seed transaction")
	}

	srv.log(ctx).Info("Admin account provisioned", slog.Any("userID", admin.ID))

	return admin, nil
}
