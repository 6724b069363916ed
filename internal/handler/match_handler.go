package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomy-lb/roomy-api/internal/service"
	appErrors "github.com/roomy-lb/roomy-api/pkg/errors"
	"github.com/roomy-lb/roomy-api/pkg/response"
)

// MatchHandler exposes the roommate matching endpoint.
type MatchHandler struct {
	service *service.MatchService
}

// NewMatchHandler creates a new handler.
func NewMatchHandler(svc *service.MatchService) *MatchHandler {
	return &MatchHandler{service: svc}
}

// List godoc
// @Summary List roommate matches
// @Description Ranked compatibility matches for the current student
// @Tags Matches
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /matches [get]
func (h *MatchHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	matches, cacheHit, err := h.service.FindMatches(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, matches, nil, map[string]interface{}{"cache_hit": cacheHit})
}
