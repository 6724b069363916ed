package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomy-lb/roomy-api/internal/dto"
	"github.com/roomy-lb/roomy-api/internal/service"
	appErrors "github.com/roomy-lb/roomy-api/pkg/errors"
	"github.com/roomy-lb/roomy-api/pkg/response"
)

// QuestionnaireHandler exposes the compatibility questionnaire endpoints.
type QuestionnaireHandler struct {
	service *service.QuestionnaireService
}

// NewQuestionnaireHandler creates a new handler.
func NewQuestionnaireHandler(svc *service.QuestionnaireService) *QuestionnaireHandler {
	return &QuestionnaireHandler{service: svc}
}

// Catalog godoc
// @Summary List questionnaire items
// @Description Returns the fixed 35-item compatibility questionnaire
// @Tags Questionnaire
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /questionnaire [get]
func (h *QuestionnaireHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Catalog(), nil)
}

// MyResponses godoc
// @Summary Get own questionnaire answers
// @Tags Questionnaire
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /questionnaire/responses [get]
func (h *QuestionnaireHandler) MyResponses(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	responses, err := h.service.GetResponses(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, responses, nil)
}

// Submit godoc
// @Summary Submit questionnaire answers
// @Description Replaces the user's answer set and recomputes completion state
// @Tags Questionnaire
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SubmitQuestionnaireRequest true "Answers payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /questionnaire/responses [put]
func (h *QuestionnaireHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SubmitQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid questionnaire payload"))
		return
	}

	if err := h.service.Submit(c.Request.Context(), claims.UserID, req.Answers, req.AdvancedOptIn); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
