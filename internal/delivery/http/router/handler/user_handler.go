// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	deliverycontext "bookbridge/internal/delivery/context"
	"bookbridge/internal/delivery/http/response"
	"bookbridge/internal/domain/entity"
	"bookbridge/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for account-related handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

type registerRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role" validate:"required"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type updateProfileRequest struct {
	Name     string  `json:"name"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
}

// userJSON is the wire shape of a profile record. The credential is never
// part of it.
type userJSON struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone,omitempty"`
	Role           string    `json:"role"`
	Location       *string   `json:"location,omitempty"`
	Status         string    `json:"status"`
	DonationsCount int       `json:"donationsCount"`
	RequestsCount  int       `json:"requestsCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toUserJSON(u *entity.User) userJSON {
	return userJSON{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		Role:           u.Role.String(),
		Location:       u.Location,
		Status:         string(u.Status),
		DonationsCount: u.DonationsCount,
		RequestsCount:  u.RequestsCount,
		CreatedAt:      u.CreatedAt,
	}
}

type sessionJSON struct {
	User         userJSON `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

// Register handles the account registration request.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, sessionJSON{
		User:         toUserJSON(output.User),
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	}, "Account registered successfully")
}

// Login handles the sign-in request.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sessionJSON{
		User:         toUserJSON(output.User),
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	}, "Login successful")
}

// RefreshToken handles the token renewal request.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh token input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.RefreshToken(c.Request().Context(), usecase.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Token refreshed successfully")
}

// Logout handles the sign-out request for one session.
func (h *UserHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid logout input")
	}

	if err := h.uc.Logout(c.Request().Context(), usecase.LogoutInput{
		RefreshToken: req.RefreshToken,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// LogoutAllDevices handles the sign-out-everywhere request.
func (h *UserHandler) LogoutAllDevices(c echo.Context) error {
	session := deliverycontext.GetSession(c)
	if session.UserID == nil {
		return response.Unauthorized(c, "SIGN_IN_REQUIRED", "Please sign in")
	}

	if err := h.uc.LogoutAllDevices(c.Request().Context(), *session.UserID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "All sessions ended")
}

// ChangePassword handles the password change request.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	session := deliverycontext.GetSession(c)
	if session.UserID == nil {
		return response.Unauthorized(c, "SIGN_IN_REQUIRED", "Please sign in")
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password change input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.ChangePassword(c.Request().Context(), usecase.ChangePasswordInput{
		UserID:      *session.UserID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password changed; please sign in again")
}

// GetProfile handles the request for the signed-in account's profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	session := deliverycontext.GetSession(c)
	if session.UserID == nil {
		return response.Unauthorized(c, "SIGN_IN_REQUIRED", "Please sign in")
	}

	user, err := h.uc.GetProfile(c.Request().Context(), *session.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserJSON(user), "")
}

// UpdateProfile handles the self-service profile update.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	session := deliverycontext.GetSession(c)
	if session.UserID == nil {
		return response.Unauthorized(c, "SIGN_IN_REQUIRED", "Please sign in")
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), *session.UserID, usecase.UpdateProfileInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserJSON(user), "Profile updated")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
