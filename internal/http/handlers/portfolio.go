package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/creatorlinkhq/creatorlink-backend/internal/http/response"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/ctxutil"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
	"github.com/creatorlinkhq/creatorlink-backend/internal/services"
)

type PortfolioHandler struct {
	portfolio services.PortfolioService
}

func NewPortfolioHandler(portfolio services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio}
}

// GET /api/portfolio/images
func (h *PortfolioHandler) ListImages(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing actor"))
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	images, err := h.portfolio.List(dbc, rd.UserID)
	if err != nil {
		response.RespondServiceError(c, err, http.StatusBadGateway, "list_images_failed")
		return
	}
	response.RespondOK(c, gin.H{"images": images})
}

type reorderImagesReq struct {
	OrderedIDs []uuid.UUID `json:"ordered_ids"`
}

// PUT /api/portfolio/images/order
//
// The new order is applied in one batched write; on failure nothing moved,
// and any optimistic ordering the client already shows is its own to undo.
func (h *PortfolioHandler) ReorderImages(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing actor"))
		return
	}
	var req reorderImagesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if err := h.portfolio.Reorder(dbc, rd.UserID, req.OrderedIDs); err != nil {
		response.RespondServiceError(c, err, http.StatusBadGateway, "reorder_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
