package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/creatorlinkhq/creatorlink-backend/internal/http/response"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
	"github.com/creatorlinkhq/creatorlink-backend/internal/services"
)

type RatingHandler struct {
	ratings services.RatingService
}

func NewRatingHandler(ratings services.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

type rateApplicationReq struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// POST /api/applications/:id/rating
func (h *RatingHandler) RateApplication(c *gin.Context) {
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_application_id", err)
		return
	}
	var req rateApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	rating, err := h.ratings.RateApplication(dbc, applicationID, req.Score, req.Feedback)
	if err != nil {
		response.RespondServiceError(c, err, http.StatusBadGateway, "rate_application_failed")
		return
	}
	response.RespondOK(c, gin.H{"rating": rating})
}
