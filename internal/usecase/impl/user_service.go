// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

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

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	authRepo     repository.AuthRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	AuthRepo     repository.AuthRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		authRepo:     params.AuthRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates the profile and credential in one transaction, then signs
// the new account in. There is no partial-account state: if any step fails,
// nothing is persisted.
func (srv *userService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email), slog.Any("role", input.Role))

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("name, email and password are required")
	}
	if !input.Role.SelfAssignable() {
		srv.log(ctx).Warn("Rejected non-assignable role at signup", slog.Any("role", input.Role))

		return nil, domainerrors.ErrRoleNotAssignable
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during registration")
	}

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		_, err := authRepo.FindAuthenticationByEmail(ctx, input.Email)
		if err == nil {
			return domainerrors.ErrUserAlreadyExists
		}
		if !errors.Is(err, repository.ErrAuthNotFound) {
			return errors.Wrap(err, "failed to check existing authentication")
		}

		newUser := &entity.User{
			Name:     input.Name,
			Email:    input.Email,
			Phone:    input.Phone,
			Role:     input.Role,
			Location: input.Location,
			Status:   entity.UserStatusActive,
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		newAuth := &entity.Authentication{
			UserID:       newUser.ID,
			Provider:     entity.ProviderTypeEmail,
			ProviderID:   input.Email,
			PasswordHash: hashedPassword,
		}
		if err := authRepo.CreateAuthentication(ctx, newAuth); err != nil {
			return errors.Wrap(err, "failed to create authentication during registration")
		}

		registeredUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	accessToken, refreshToken, err := srv.startSession(ctx, registeredUser)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Registration completed", slog.Any("userID", registeredUser.ID), slog.Any("role", registeredUser.Role))

	return &usecase.RegisterOutput{
		User:         registeredUser,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Login authenticates an email/password pair and starts a fresh session.
func (srv *userService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	authRecord, err := srv.authRepo.FindAuthenticationByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAuthNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find authentication")
	}

	// bcrypt is CPU-bound; check outside any transaction.
	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials
	}

	loggedInUser, err := srv.userRepo.FindByID(ctx, authRecord.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user during login")
	}
	if loggedInUser.Status == entity.UserStatusBlocked {
		srv.log(ctx).Warn("Blocked account attempted login", slog.Any("userID", loggedInUser.ID))

		return nil, domainerrors.ErrUserBlocked
	}

	accessToken, refreshToken, err := srv.startSession(ctx, loggedInUser)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Login completed", slog.Any("userID", loggedInUser.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         loggedInUser,
	}, nil
}

// startSession purges any sessions still recorded for the account, then
// generates and stores a fresh token pair. The purge runs unconditionally:
// most of the time it removes nothing, but it guarantees no stale session
// residue survives a new sign-in.
func (srv *userService) startSession(ctx context.Context, user *entity.User) (string, string, error) {
	if err := srv.authRepo.DeleteRefreshTokensByUserID(ctx, user.ID); err != nil {
		srv.log(ctx).Error("Failed to purge stale sessions", slog.Any("userID", user.ID), slog.Any("error", err))

		return "", "", errors.Wrap(err, "failed to purge stale sessions")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Role.String())
	if err != nil {
		return "", "", errors.Wrap(err, "failed to generate tokens")
	}

	newRefreshToken := &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: srv.tokenService.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}
	if err := srv.authRepo.CreateRefreshToken(ctx, newRefreshToken); err != nil {
		return "", "", errors.Wrap(err, "failed to store refresh token")
	}

	return accessToken, refreshToken, nil
}

// RefreshToken issues a new access token using a refresh token.
// The refresh token itself remains unchanged.
func (srv *userService) RefreshToken(ctx context.Context, input usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token validation failed")
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)
	storedToken, err := srv.authRepo.FindRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to look up refresh token")
	}
	if time.Now().After(storedToken.ExpiresAt) {
		// Expired rows are purged on the next sign-in; reject now regardless.
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	// Re-derive the role from the profile record; the token's role claim is
	// never trusted for a fresh access token.
	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user during token refresh")
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, domainerrors.ErrUserBlocked
	}

	newAccessToken, _, err := srv.tokenService.GenerateTokens(user.ID, user.Role.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.RefreshTokenOutput{AccessToken: newAccessToken}, nil
}

// Logout ends the session identified by the refresh token. Sign-out is best
// effort: an already-ended session and a store failure both leave the caller
// signed out, so neither is surfaced as an error.
func (srv *userService) Logout(ctx context.Context, input usecase.LogoutInput) error {
	tokenHash := srv.tokenService.HashToken(input.RefreshToken)

	err := srv.authRepo.DeleteRefreshTokenByHash(ctx, tokenHash)
	if err != nil && !errors.Is(err, repository.ErrTokenNotFound) {
		srv.log(ctx).Error("Failed to delete refresh token", slog.Any("error", err))
	}

	return nil
}

// LogoutAllDevices ends every session for the account.
func (srv *userService) LogoutAllDevices(ctx context.Context, userID uuid.UUID) error {
	srv.log(ctx).Info("Logging out all devices", slog.Any("userID", userID))

	if err := srv.authRepo.DeleteRefreshTokensByUserID(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to delete all refresh tokens")
	}

	return nil
}

// ChangePassword verifies the old password and stores a new hash. Every
// session is ended afterwards; the caller signs in again with the new password.
func (srv *userService) ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) error {
	user, err := srv.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to load user for password change")
	}

	authRecord, err := srv.authRepo.FindAuthenticationByEmail(ctx, user.Email)
	if err != nil {
		return errors.Wrap(err, "failed to load credential for password change")
	}
	if !srv.hasher.Check(input.OldPassword, authRecord.PasswordHash) {
		return domainerrors.ErrInvalidCredentials
	}

	newHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash new password")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		authRepo := repoFactory.AuthRepo()

		if err := authRepo.UpdatePasswordHash(ctx, authRecord.ID, newHash); err != nil {
			return errors.Wrap(err, "failed to update password hash")
		}

		return authRepo.DeleteRefreshTokensByUserID(ctx, user.ID)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to change password", slog.Any("userID", user.ID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute password change transaction")
	}

	srv.log(ctx).Info("Password changed", slog.Any("userID", user.ID))

	return nil
}

// GetProfile returns the account's profile record.
func (srv *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return user, nil
}

// UpdateProfile modifies the self-service profile fields.
func (srv *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input usecase.UpdateProfileInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load profile for update")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Location != nil {
		user.Location = input.Location
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to update profile", slog.Any("userID", userID), slog.Any("error", err))

		return nil, domainerrors.ErrUserUpdateFailed.WrapMessage("failed to update profile")
	}

	return user, nil
}
