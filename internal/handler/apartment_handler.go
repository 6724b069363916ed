package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomy-lb/roomy-api/internal/dto"
	"github.com/roomy-lb/roomy-api/internal/service"
	appErrors "github.com/roomy-lb/roomy-api/pkg/errors"
	"github.com/roomy-lb/roomy-api/pkg/response"
)

// ApartmentHandler exposes the owner apartment endpoints.
type ApartmentHandler struct {
	service *service.ApartmentService
}

// NewApartmentHandler creates a new handler.
func NewApartmentHandler(svc *service.ApartmentService) *ApartmentHandler {
	return &ApartmentHandler{service: svc}
}

// Create godoc
// @Summary Create apartment
// @Description List a new apartment with its bedrooms and beds
// @Tags Apartments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateApartmentRequest true "Apartment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /apartments [post]
func (h *ApartmentHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid apartment payload"))
		return
	}

	apartment, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, apartment)
}

// Get godoc
// @Summary Get apartment
// @Tags Apartments
// @Produce json
// @Param id path string true "Apartment id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /apartments/{id} [get]
func (h *ApartmentHandler) Get(c *gin.Context) {
	apartment, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apartment, nil)
}

// ListMine godoc
// @Summary List own apartments
// @Tags Apartments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /apartments [get]
func (h *ApartmentHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	apartments, err := h.service.ListByOwner(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apartments, nil)
}

// UpdateFlags godoc
// @Summary Update reservation flags
// @Description Change which reservation levels the apartment offers
// @Tags Apartments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Apartment id"
// @Param payload body dto.UpdateApartmentFlagsRequest true "Flags payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /apartments/{id}/flags [put]
func (h *ApartmentHandler) UpdateFlags(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateApartmentFlagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid flags payload"))
		return
	}

	apartment, err := h.service.UpdateFlags(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apartment, nil)
}

// SetBedAvailability godoc
// @Summary Set bed availability
// @Tags Apartments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Apartment id"
// @Param bedId path string true "Bed id"
// @Param payload body dto.SetBedAvailabilityRequest true "Availability payload"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /apartments/{id}/beds/{bedId} [put]
func (h *ApartmentHandler) SetBedAvailability(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SetBedAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}

	if err := h.service.SetBedAvailability(c.Request.Context(), claims.UserID, c.Param("id"), c.Param("bedId"), req.Available); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
