// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"bookbridge/internal/delivery/http/response"
	"bookbridge/internal/domain/entity"
	"bookbridge/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AdminHandler holds dependencies for administrator-only handlers. Route
// guards run in middleware; by the time these execute the caller is an admin.
type AdminHandler struct {
	uc     usecase.AdminUsecase
	logger *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(uc usecase.AdminUsecase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		uc:     uc,
		logger: logger,
	}
}

type reviewRequest struct {
	Action string `json:"action" validate:"required,oneof=approve decline"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ReviewQueue handles the admin listing of donations in every status.
func (h *AdminHandler) ReviewQueue(c echo.Context) error {
	donations, err := h.uc.ReviewQueue(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*usecase.DonationView, 0, len(donations))
	for _, donation := range donations {
		views = append(views, &usecase.DonationView{Donation: donation, ContactVisible: true})
	}

	return response.Success(c, http.StatusOK, toDonationJSONList(views), "")
}

// Review handles an approve/decline decision for one donation.
func (h *AdminHandler) Review(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid donation ID")
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.ReviewDonation(c.Request().Context(), usecase.ReviewDonationInput{
		DonationID: id,
		Approve:    req.Action == "approve",
	})
	if err != nil {
		return errors.WithStack(err)
	}

	toViews := func(donations []*entity.Donation) []donationJSON {
		views := make([]*usecase.DonationView, 0, len(donations))
		for _, donation := range donations {
			views = append(views, &usecase.DonationView{Donation: donation, ContactVisible: true})
		}

		return toDonationJSONList(views)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"donation": toDonationJSON(&usecase.DonationView{Donation: output.Donation, ContactVisible: true}),
		"pending":  toViews(output.Pending),
		"approved": toViews(output.Approved),
	}, "Donation reviewed")
}

// ListUsers handles the admin account listing, optionally filtered by a query.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	query := c.QueryParam("q")

	users, err := h.uc.SearchUsers(c.Request().Context(), query)
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]userJSON, 0, len(users))
	for _, user := range users {
		out = append(out, toUserJSON(user))
	}

	return response.Success(c, http.StatusOK, out, "")
}

// SetUserStatus handles blocking and unblocking an account.
func (h *AdminHandler) SetUserStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.SetUserStatus(c.Request().Context(), id, entity.UserStatus(req.Status))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserJSON(user), "User status updated")
}

// SetUserRole handles changing an account's role.
func (h *AdminHandler) SetUserRole(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid role input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.uc.SetUserRole(c.Request().Context(), id, entity.Role(req.Role))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toUserJSON(user), "User role updated")
}

// DeleteUser handles removing an account.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user ID")
	}

	if err := h.uc.DeleteUser(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User deleted")
}

// Report handles the dashboard counters.
func (h *AdminHandler) Report(c echo.Context) error {
	report, err := h.uc.Report(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, report, "")
}
