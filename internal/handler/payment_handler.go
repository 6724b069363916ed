package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomy-lb/roomy-api/internal/dto"
	"github.com/roomy-lb/roomy-api/internal/service"
	appErrors "github.com/roomy-lb/roomy-api/pkg/errors"
	"github.com/roomy-lb/roomy-api/pkg/response"
)

// PaymentHandler exposes the mocked payment gateway endpoints.
type PaymentHandler struct {
	service *service.PaymentService
}

// NewPaymentHandler creates a new handler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// Create godoc
// @Summary Create payment intent
// @Description Opens a mocked payment for a pending reservation; settlement is asynchronous
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreatePaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	payment, err := h.service.CreateIntent(c.Request.Context(), claims.UserID, req.ReservationID, req.AmountUSD, req.CardNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// Status godoc
// @Summary Poll payment status
// @Description Returns the payment state and a signed receipt link once settled
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments/{id} [get]
func (h *PaymentHandler) Status(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Receipt godoc
// @Summary Download receipt
// @Description Serves the receipt PDF referenced by a signed token
// @Tags Payments
// @Produce application/pdf
// @Param token query string true "Signed receipt token"
// @Success 200 {string} string "PDF payload"
// @Failure 404 {object} response.Envelope
// @Router /payments/receipt [get]
func (h *PaymentHandler) Receipt(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	pdf, err := h.service.OpenReceipt(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="receipt.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
