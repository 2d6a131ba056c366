// Message HTTP handlers.
//
// This file exposes the REST endpoints for chat messages:
//   - POST /messages          (create a message; sentiment classified inline)
//   - GET  /messages?limit=N  (list recent messages, ascending by time)
//
// Handlers are transport-thin: they validate input, delegate to
// MessageService, and translate service errors into HTTP responses. The
// enriched message shape {id, userId, userNickname, text, sentimentLabel,
// sentimentScore, createdAt} is serialized verbatim from the service result.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stajtalk/chat-backend/internal/services"
	"github.com/stajtalk/chat-backend/internal/utils"
)

//
// DTOs
//

// CreateMessageRequest is the JSON payload for sending a message.
type CreateMessageRequest struct {
	// UserID identifies the author. It must reference an existing user.
	UserID string `json:"userId" binding:"required"`
	// Text is the message body. It must be non-empty after trimming.
	Text string `json:"text" binding:"required"`
}

//
// Handlers
//

// CreateMessage persists a message and returns it enriched with the
// author's nickname and the sentiment outcome.
//
// Responses:
//   - 200 with the enriched message
//   - 400 when fields are blank, the text is too long, or the user is unknown
//   - 500 on storage failures
//
// A classifier outage never surfaces here: the service degrades the message
// to sentiment "unknown" and creation still succeeds.
func (h *Handlers) CreateMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "userId and text are required")
		return
	}

	m, err := h.msgSvc.Create(ctx, req.UserID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyUserID), errors.Is(err, services.ErrEmptyText):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "userId and text are required")
		case errors.Is(err, services.ErrTextTooLong):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message text too long")
		case errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not create message")
		}
		return
	}

	ok(c, http.StatusOK, m)
}

// ListMessages returns the most recent messages in ascending chronological
// order. The limit query parameter is clamped by the service; invalid or
// missing values fall back to the default page size.
//
// Responses:
//   - 200 with an array of enriched messages
//   - 500 when even the degraded read path fails
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	limit := utils.AtoiDefault(c.Query("limit"), 0)

	items, err := h.msgSvc.ListRecent(ctx, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list messages")
		return
	}

	ok(c, http.StatusOK, items)
}
