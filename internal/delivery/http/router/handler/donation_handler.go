// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	deliverycontext "bookbridge/internal/delivery/context"
	"bookbridge/internal/delivery/http/response"
	"bookbridge/internal/domain/entity"
	"bookbridge/internal/domain/repository"
	"bookbridge/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DonationHandler holds dependencies for donation-related handlers.
type DonationHandler struct {
	donations usecase.DonationUsecase
	users     usecase.UserUsecase
	logger    *slog.Logger
}

// NewDonationHandler is the constructor for DonationHandler, injected by Fx.
func NewDonationHandler(donations usecase.DonationUsecase, users usecase.UserUsecase, logger *slog.Logger) *DonationHandler {
	return &DonationHandler{
		donations: donations,
		users:     users,
		logger:    logger,
	}
}

// submitDonationRequest is the wire shape of a donation submission. A status
// field is deliberately absent; whatever the client sends, listings start out
// pending review.
type submitDonationRequest struct {
	Title      string           `json:"title" validate:"required"`
	Category   string           `json:"category" validate:"required"`
	Subject    *string          `json:"subject"`
	Condition  string           `json:"condition" validate:"required"`
	Grade      *int             `json:"grade"`
	Board      *string          `json:"board"`
	Medium     string           `json:"medium"`
	DonorName  string           `json:"donorName" validate:"required"`
	DonorEmail string           `json:"donorEmail" validate:"required,email"`
	DonorPhone string           `json:"donorPhone"`
	Location   *locationPayload `json:"location"`
}

type locationPayload struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// donationJSON is the wire shape of a donation. Contact fields are omitted
// entirely when the visibility policy withheld them.
type donationJSON struct {
	ID             uuid.UUID        `json:"id"`
	Title          string           `json:"title"`
	Category       entity.Category  `json:"category"`
	Subject        *string          `json:"subject,omitempty"`
	Condition      entity.Condition `json:"condition"`
	Grade          *int             `json:"grade,omitempty"`
	Board          *entity.Board    `json:"board,omitempty"`
	Medium         entity.Medium    `json:"medium"`
	DonorName      string           `json:"donorName"`
	DonorEmail     string           `json:"donorEmail,omitempty"`
	DonorPhone     string           `json:"donorPhone,omitempty"`
	Status         string           `json:"status"`
	Location       entity.Location  `json:"location"`
	ContactVisible bool             `json:"contactVisible"`
	CreatedAt      time.Time        `json:"createdAt"`
}

func toDonationJSON(view *usecase.DonationView) donationJSON {
	d := view.Donation

	return donationJSON{
		ID:             d.ID,
		Title:          d.Title,
		Category:       d.Category,
		Subject:        d.Subject,
		Condition:      d.Condition,
		Grade:          d.Grade,
		Board:          d.Board,
		Medium:         d.Medium,
		DonorName:      d.DonorName,
		DonorEmail:     d.DonorEmail,
		DonorPhone:     d.DonorPhone,
		Status:         string(d.Status),
		Location:       d.Location,
		ContactVisible: view.ContactVisible,
		CreatedAt:      d.CreatedAt,
	}
}

func toDonationJSONList(views []*usecase.DonationView) []donationJSON {
	out := make([]donationJSON, 0, len(views))
	for _, view := range views {
		out = append(out, toDonationJSON(view))
	}

	return out
}

// Submit handles a new donation listing.
func (h *DonationHandler) Submit(c echo.Context) error {
	var req submitDonationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid donation input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	input := usecase.SubmitDonationInput{
		Title:      req.Title,
		Category:   entity.Category(req.Category),
		Subject:    req.Subject,
		Condition:  entity.Condition(req.Condition),
		Grade:      req.Grade,
		Medium:     entity.Medium(req.Medium),
		DonorName:  req.DonorName,
		DonorEmail: req.DonorEmail,
		DonorPhone: req.DonorPhone,
	}
	if req.Board != nil {
		board := entity.Board(*req.Board)
		input.Board = &board
	}
	if req.Location != nil {
		input.Location = entity.Location{
			Lat:     req.Location.Lat,
			Lng:     req.Location.Lng,
			Address: req.Location.Address,
		}
	}

	donation, err := h.donations.Submit(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	view := &usecase.DonationView{Donation: donation, ContactVisible: true}

	return response.Success(c, http.StatusCreated, toDonationJSON(view), "Donation submitted for review")
}

// Browse handles the public listing and search. With no query parameters it
// returns every approved donation; term/field/location narrow it down.
func (h *DonationHandler) Browse(c echo.Context) error {
	session := deliverycontext.GetSession(c)
	showContact := c.QueryParam("showContact") == "true"

	term := c.QueryParam("term")
	locationText := c.QueryParam("location")

	var views []*usecase.DonationView
	var err error
	if term == "" && locationText == "" {
		views, err = h.donations.Browse(c.Request().Context(), session, showContact)
	} else {
		views, err = h.donations.Search(c.Request().Context(), session, usecase.SearchDonationsInput{
			Term:         term,
			Field:        repository.SearchField(c.QueryParam("field")),
			LocationText: locationText,
			ShowContact:  showContact,
		})
	}
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDonationJSONList(views), "")
}

// Get handles a single donation read.
func (h *DonationHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid donation ID")
	}

	session := deliverycontext.GetSession(c)
	showContact := c.QueryParam("showContact") == "true"

	view, err := h.donations.Get(c.Request().Context(), session, id, showContact)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toDonationJSON(view), "")
}

// MapView handles the geographic browse.
func (h *DonationHandler) MapView(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "lat is required")
	}
	lng, err := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "lng is required")
	}
	radiusKm, _ := strconv.ParseFloat(c.QueryParam("radiusKm"), 64)

	pins, err := h.donations.MapView(c.Request().Context(), usecase.MapViewInput{
		Lat:      lat,
		Lng:      lng,
		RadiusKm: radiusKm,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, pins, "")
}

// Mine handles a donor's own submissions, looked up by the signed-in
// account's email.
func (h *DonationHandler) Mine(c echo.Context) error {
	session := deliverycontext.GetSession(c)
	if session.UserID == nil {
		return response.Unauthorized(c, "SIGN_IN_REQUIRED", "Please sign in")
	}

	profile, err := h.users.GetProfile(c.Request().Context(), *session.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	donations, err := h.donations.ListByDonor(c.Request().Context(), profile.Email)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*usecase.DonationView, 0, len(donations))
	for _, donation := range donations {
		views = append(views, &usecase.DonationView{Donation: donation, ContactVisible: true})
	}

	return response.Success(c, http.StatusOK, toDonationJSONList(views), "")
}
