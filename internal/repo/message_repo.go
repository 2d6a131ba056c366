// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message model.
package repo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stajtalk/chat-backend/internal/domain"
)

// CreateMessage inserts a new message row with the given sentiment outcome.
func CreateMessage(db *gorm.DB, userID, text, sentimentLabel string, sentimentScore *float64) (*domain.Message, error) {
	m := &domain.Message{
		ID:             uuid.NewString(),
		UserID:         userID,
		Text:           text,
		SentimentLabel: sentimentLabel,
		SentimentScore: sentimentScore,
		CreatedAt:      time.Now().UTC(),
	}
	return m, db.Create(m).Error
}

// ListRecentEnriched returns the newest limit messages joined with their
// authors, ordered newest first (CreatedAt DESC, ID DESC as tiebreaker).
// The author link is soft: a missing user row does not drop the message,
// its nickname is replaced by placeholder via COALESCE.
func ListRecentEnriched(db *gorm.DB, limit int, placeholder string) ([]domain.EnrichedMessage, error) {
	var out []domain.EnrichedMessage
	err := db.Model(&domain.Message{}).
		Select("messages.id, messages.user_id, COALESCE(users.nickname, ?) AS user_nickname, messages.text, messages.sentiment_label, messages.sentiment_score, messages.created_at", placeholder).
		Joins("LEFT JOIN users ON users.id = messages.user_id").
		Order("messages.created_at DESC, messages.id DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// ListRecent returns the newest limit messages without author resolution,
// ordered newest first. It backs the degraded read path when the joined
// query fails.
func ListRecent(db *gorm.DB, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := db.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Raw("SELECT COUNT(*) FROM messages").Scan(&total).Error
	return total, err
}
