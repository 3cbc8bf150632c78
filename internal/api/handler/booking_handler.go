package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskconnect/marketplace-api/internal/api/metrics"
	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type transitionFunc func(ctx context.Context, id string, actor ports.Actor) (*domain.BookingView, error)

// Create handles POST /api/bookings. The booking is made for the caller.
//
// @Summary      Book a service provider
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Booking details (date YYYY-MM-DD, time HH:MM)"
// @Success      201   {object}  bookingEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.service.Create(c.Request().Context(), ports.CreateBookingInput{
		UserID:     actor.ID,
		ProviderID: req.ProviderID,
		Service:    req.Service,
		Location:   req.Location,
		Date:       req.Date,
		Time:       req.Time,
	})
	metrics.BookingTransitionsTotal.WithLabelValues("create", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, bookingEnvelope{
		Message: "Booking created successfully",
		Booking: toBookingResponse(view),
	})
}

// List handles GET /api/bookings. Users and providers only see their own
// bookings; admins may filter by user_id and provider_id.
//
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        user_id      query     string  false  "Filter by user id (admin only)"
// @Param        provider_id  query     string  false  "Filter by provider id (admin only)"
// @Success      200          {object}  bookingListResponse
// @Failure      401          {object}  errorResponse
// @Router       /api/bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	views, err := h.service.List(c.Request().Context(), ports.ListBookingsInput{
		Actor:      actor,
		UserID:     c.QueryParam("user_id"),
		ProviderID: c.QueryParam("provider_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookingList(views))
}

// Get handles GET /api/bookings/:id.
//
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  bookingEnvelope
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	view, err := h.service.Get(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingEnvelope{Booking: toBookingResponse(view)})
}

// Accept handles POST /api/bookings/:id/accept.
//
// @Summary      Accept a pending booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  bookingEnvelope
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/bookings/{id}/accept [post]
func (h *BookingHandler) Accept(c echo.Context) error {
	return h.transition(c, "accept", "Booking accepted", h.service.Accept)
}

// Decline handles POST /api/bookings/:id/decline.
//
// @Summary      Decline a pending booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  bookingEnvelope
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/bookings/{id}/decline [post]
func (h *BookingHandler) Decline(c echo.Context) error {
	return h.transition(c, "decline", "Booking declined", h.service.Decline)
}

// Complete handles POST /api/bookings/:id/complete. Both sides move to
// completed together.
//
// @Summary      Complete an accepted booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  bookingEnvelope
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c echo.Context) error {
	return h.transition(c, "complete", "Booking completed", h.service.Complete)
}

// Cancel handles POST /api/bookings/:id/cancel.
//
// @Summary      Cancel a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  bookingEnvelope
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	return h.transition(c, "cancel", "Booking cancelled", h.service.Cancel)
}

// Delete handles DELETE /api/bookings/:id.
//
// @Summary      Delete a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/bookings/{id} [delete]
func (h *BookingHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	err = h.service.Destroy(c.Request().Context(), c.Param("id"), actor)
	metrics.BookingTransitionsTotal.WithLabelValues("delete", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Booking deleted successfully"})
}

func (h *BookingHandler) transition(c echo.Context, name, msg string, fn transitionFunc) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	view, err := fn(c.Request().Context(), c.Param("id"), actor)
	metrics.BookingTransitionsTotal.WithLabelValues(name, metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingEnvelope{Message: msg, Booking: toBookingResponse(view)})
}
