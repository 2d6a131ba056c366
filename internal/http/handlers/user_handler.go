// User HTTP handlers.
//
// This file exposes the REST endpoint for chat participants:
//   - POST /users   (create a participant from a nickname)
//
// Handlers are transport-thin: they validate input, delegate to the
// application services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stajtalk/chat-backend/internal/domain"
	"github.com/stajtalk/chat-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// UserService defines the participant lifecycle operations consumed by the
// HTTP handlers. Implementations must be safe for concurrent use and must
// honor the provided context.
type UserService interface {
	// Create registers a new participant with the given nickname.
	Create(ctx context.Context, nickname string) (*domain.User, error)
}

// MessageService defines message creation and listing operations.
//
// Implementations must be safe for concurrent use and must honor the
// provided context.
type MessageService interface {
	// Create persists a message for userID, classified best-effort.
	Create(ctx context.Context, userID, text string) (*domain.EnrichedMessage, error)
	// ListRecent returns up to limit messages in ascending time order.
	ListRecent(ctx context.Context, limit int) ([]domain.EnrichedMessage, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for users and messages. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	userSvc UserService
	msgSvc  MessageService
}

// New constructs a Handlers instance bound to the given services.
func New(userSvc UserService, msgSvc MessageService) *Handlers {
	return &Handlers{userSvc: userSvc, msgSvc: msgSvc}
}

//
// DTOs
//

// CreateUserRequest is the JSON payload for registering a participant.
type CreateUserRequest struct {
	// Nickname is the display name. It must be non-empty after trimming.
	Nickname string `json:"nickname" binding:"required"`
}

//
// Handlers
//

// CreateUser registers a new chat participant.
//
// Responses:
//   - 201 with the created user {id, nickname, createdAt}
//   - 400 when the nickname is blank or too long
//   - 500 on storage failures
func (h *Handlers) CreateUser(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "nickname is required")
		return
	}

	u, err := h.userSvc.Create(ctx, req.Nickname)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyNickname):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "nickname is required")
		case errors.Is(err, services.ErrNicknameTooLong):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "nickname too long")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not create user")
		}
		return
	}

	ok(c, http.StatusCreated, u)
}
