package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roomy-lb/roomy-api/internal/dto"
	"github.com/roomy-lb/roomy-api/internal/models"
	"github.com/roomy-lb/roomy-api/internal/service"
	appErrors "github.com/roomy-lb/roomy-api/pkg/errors"
	"github.com/roomy-lb/roomy-api/pkg/response"
)

// BookingHandler exposes availability and reservation endpoints.
type BookingHandler struct {
	service *service.BookingService
}

// NewBookingHandler creates a new handler.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{service: svc}
}

// Availability godoc
// @Summary Apartment availability
// @Description Computed availability state and human readable summary
// @Tags Bookings
// @Produce json
// @Param id path string true "Apartment id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /apartments/{id}/availability [get]
func (h *BookingHandler) Availability(c *gin.Context) {
	state, summary, err := h.service.Availability(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.AvailabilityResponse{State: *state, Summary: *summary}, nil)
}

// Check godoc
// @Summary Check reservation permission
// @Description Evaluates whether a reservation at the given level is allowed
// @Tags Bookings
// @Produce json
// @Param id path string true "Apartment id"
// @Param level query string true "Reservation level" Enums(apartment, bedroom, bed)
// @Param targetId query string false "Bedroom or bed id"
// @Success 200 {object} response.Envelope
// @Router /apartments/{id}/availability/check [get]
func (h *BookingHandler) Check(c *gin.Context) {
	level := models.ReservationLevel(c.Query("level"))
	check, err := h.service.Check(c.Request.Context(), c.Param("id"), level, c.Query("targetId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, check, nil)
}

// Create godoc
// @Summary Create reservation
// @Description Places a pending reservation after re-checking availability
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateReservationRequest true "Reservation payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reservations [post]
func (h *BookingHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reservation payload"))
		return
	}

	reservation, err := h.service.Create(c.Request.Context(), claims.UserID, req.ApartmentID, models.ReservationLevel(req.Level), req.TargetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reservation)
}

// ListMine godoc
// @Summary List own reservations
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /reservations [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	reservations, err := h.service.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, nil)
}

// Cancel godoc
// @Summary Cancel reservation
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation id"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reservations/{id} [delete]
func (h *BookingHandler) Cancel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Cancel(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportCSV godoc
// @Summary Export apartment bookings
// @Description Owner back-office CSV export of an apartment's reservations
// @Tags Bookings
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Apartment id"
// @Success 200 {string} string "CSV payload"
// @Failure 403 {object} response.Envelope
// @Router /apartments/{id}/bookings/export [get]
func (h *BookingHandler) ExportCSV(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	payload, err := h.service.ExportApartmentCSV(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "bookings-" + time.Now().UTC().Format("20060102") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", payload)
}
