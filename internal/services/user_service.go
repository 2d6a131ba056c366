// Package services – UserService
//
// This file implements the UserService, which owns the creation of chat
// participants. Nicknames are trimmed and validated here; persistence is
// delegated to the repo layer. Nicknames carry no uniqueness constraint,
// two participants may pick the same display name.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"

	"github.com/stajtalk/chat-backend/internal/domain"
	"github.com/stajtalk/chat-backend/internal/repo"
)

// UserService implements the use-cases around chat participants.
type UserService struct {
	DB *gorm.DB

	// MaxNicknameRunes caps the nickname length when > 0.
	MaxNicknameRunes int
}

// Create validates the nickname and persists a new user.
//
// Semantics:
//   - nickname is trimmed of surrounding whitespace before any check.
//   - An empty result yields ErrEmptyNickname.
//   - A result longer than MaxNicknameRunes (when configured) yields
//     ErrNicknameTooLong.
//   - On success the created record is returned with a fresh UUID and a
//     current UTC timestamp.
func (s *UserService) Create(ctx context.Context, nickname string) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, ErrEmptyNickname
	}
	if s.MaxNicknameRunes > 0 && utf8.RuneCountInString(nickname) > s.MaxNicknameRunes {
		return nil, ErrNicknameTooLong
	}

	return repo.CreateUser(s.DB.WithContext(ctx), nickname)
}
