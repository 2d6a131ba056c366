// Package services – MessageService
//
// This file implements MessageService, the application-level component that
// owns the lifecycle of chat messages. It validates inputs, verifies the
// author exists, invokes the external sentiment classifier once per created
// message, and persists the result.
//
// The classifier call is strictly best-effort: any failure (network error,
// non-success status, malformed body, timeout) downgrades the message to
// label "unknown" with no score, and creation proceeds. The call is never
// retried.
//
// The read path degrades rather than fails: when the author-resolution join
// errors, listing falls back to the raw message query with a placeholder
// nickname.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// user identifiers and limits where applicable.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/rs/zerolog/log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stajtalk/chat-backend/internal/domain"
	"github.com/stajtalk/chat-backend/internal/repo"
	"github.com/stajtalk/chat-backend/internal/sentiment"
)

const (
	// DefaultListLimit applies when the caller passes a non-positive limit.
	DefaultListLimit = 50
	// MaxListLimit caps how many messages a single listing may return.
	MaxListLimit = 200

	// placeholderMissingAuthor is shown when a message's author row no
	// longer resolves during the joined query.
	placeholderMissingAuthor = "unknown user"
	// placeholderDegraded is shown on the fallback read path, where no
	// author resolution is attempted at all.
	placeholderDegraded = "unknown"
)

// MessageService coordinates message persistence and sentiment enrichment.
type MessageService struct {
	DB         *gorm.DB
	Classifier sentiment.Classifier

	// MaxTextRunes caps the message length when > 0.
	MaxTextRunes int
}

// Create validates the request, classifies the text best-effort, persists
// the message, and returns it enriched with the author's current nickname.
//
// Semantics:
//   - userID and text are trimmed; blanks yield ErrEmptyUserID / ErrEmptyText.
//   - A text longer than MaxTextRunes (when configured) yields ErrTextTooLong.
//   - An unknown author yields ErrUserNotFound.
//   - Exactly one classifier call is made. On success the raw label is
//     normalized (prefix match) and the score captured verbatim; on any
//     failure the message is still created with label "unknown" and no score.
func (s *MessageService) Create(ctx context.Context, userID, text string) (*domain.EnrichedMessage, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	userID = strings.TrimSpace(userID)
	text = strings.TrimSpace(text)
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if text == "" {
		return nil, ErrEmptyText
	}
	if s.MaxTextRunes > 0 && utf8.RuneCountInString(text) > s.MaxTextRunes {
		return nil, ErrTextTooLong
	}

	user, err := repo.GetUser(s.DB.WithContext(ctx), userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	label, score := s.classify(ctx, text)

	m, err := repo.CreateMessage(s.DB.WithContext(ctx), user.ID, text, label, score)
	if err != nil {
		return nil, err
	}

	return &domain.EnrichedMessage{
		ID:             m.ID,
		UserID:         m.UserID,
		UserNickname:   user.Nickname,
		Text:           m.Text,
		SentimentLabel: m.SentimentLabel,
		SentimentScore: m.SentimentScore,
		CreatedAt:      m.CreatedAt,
	}, nil
}

// ListRecent returns up to limit messages in ascending chronological order,
// each enriched with the author's nickname or a placeholder.
//
// limit is clamped to [1, MaxListLimit]; non-positive values fall back to
// DefaultListLimit. When the joined query fails for any reason, the method
// retries without author resolution and substitutes a distinct placeholder
// nickname instead of propagating the error. Only a failure of that fallback
// query itself is returned to the caller.
func (s *MessageService) ListRecent(ctx context.Context, limit int) ([]domain.EnrichedMessage, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ListRecent",
		trace.WithAttributes(attribute.Int("limit", limit)),
	)
	defer span.End()

	limit = clampLimit(limit)

	items, err := repo.ListRecentEnriched(s.DB.WithContext(ctx), limit, placeholderMissingAuthor)
	if err != nil {
		log.Error().Err(err).Msg("listing messages with author join failed, falling back without join")
		raw, ferr := repo.ListRecent(s.DB.WithContext(ctx), limit)
		if ferr != nil {
			return nil, ferr
		}
		items = make([]domain.EnrichedMessage, 0, len(raw))
		for _, m := range raw {
			items = append(items, domain.EnrichedMessage{
				ID:             m.ID,
				UserID:         m.UserID,
				UserNickname:   placeholderDegraded,
				Text:           m.Text,
				SentimentLabel: m.SentimentLabel,
				SentimentScore: m.SentimentScore,
				CreatedAt:      m.CreatedAt,
			})
		}
	}

	// The store returns the page newest-first; flip it into ascending
	// chronological order for the client.
	reverse(items)

	// An empty page must still serialize as a JSON array, never null.
	if items == nil {
		items = []domain.EnrichedMessage{}
	}
	return items, nil
}

// classify performs the single best-effort classifier call.
func (s *MessageService) classify(ctx context.Context, text string) (string, *float64) {
	if s.Classifier == nil {
		return domain.SentimentUnknown, nil
	}
	raw, score, err := s.Classifier.Classify(ctx, text)
	if err != nil {
		log.Warn().Err(err).Msg("sentiment classification unavailable, defaulting to unknown")
		return domain.SentimentUnknown, nil
	}
	return domain.NormalizeSentimentLabel(raw), score
}

// clampLimit maps any requested page size into [1, MaxListLimit], defaulting
// non-positive requests to DefaultListLimit.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func reverse(items []domain.EnrichedMessage) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
