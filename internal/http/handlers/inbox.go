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

type InboxHandler struct {
	inbox services.InboxService
}

func NewInboxHandler(inbox services.InboxService) *InboxHandler {
	return &InboxHandler{inbox: inbox}
}

// GET /api/inbox/projects
func (h *InboxHandler) ListProjectThreads(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing actor"))
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	threads, err := h.inbox.ListProjectThreads(dbc, rd.UserID, rd.Role)
	if err != nil {
		response.RespondServiceError(c, err, http.StatusBadGateway, "list_project_threads_failed")
		return
	}
	response.RespondOK(c, gin.H{"project_threads": threads})
}

// POST /api/inbox/conversations/:id/read
func (h *InboxHandler) MarkConversationRead(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing actor"))
		return
	}
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
		return
	}
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	if err := h.inbox.MarkConversationRead(dbc, rd.UserID, conversationID); err != nil {
		response.RespondServiceError(c, err, http.StatusBadGateway, "mark_read_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
