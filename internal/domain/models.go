// Package domain defines the persistence models for users and messages.
// These types are mapped with GORM and form the core data layer of the
// chat application.
package domain

import (
	"strings"
	"time"
)

// Sentiment labels attached to messages. A message starts as
// SentimentUnknown and is upgraded only when classification succeeds.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentUnknown  = "unknown"
)

// NormalizeSentimentLabel maps a raw classifier label onto the canonical
// label set using a case-insensitive prefix match. Classifier models emit
// variants such as "POSITIVE" or "neg"; anything unrecognized collapses to
// SentimentUnknown.
func NormalizeSentimentLabel(raw string) string {
	l := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(l, "pos"):
		return SentimentPositive
	case strings.HasPrefix(l, "neg"):
		return SentimentNegative
	case strings.HasPrefix(l, "neu"):
		return SentimentNeutral
	default:
		return SentimentUnknown
	}
}

// User represents a chat participant. Users are created once with a
// nickname and are never updated or deleted.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Nickname: display name, trimmed, non-empty. No uniqueness constraint.
//   - CreatedAt: UTC creation timestamp.
type User struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Nickname  string    `json:"nickname"  gorm:"type:varchar(64);not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Message represents a single chat message. The link to its author is a
// soft relationship: UserID is indexed but deliberately not declared as a
// foreign key, so a message stays readable even when its author row is
// gone. Readers substitute a placeholder nickname in that case.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: id of the authoring user (indexed, no FK constraint).
//   - Text: trimmed, non-empty message body.
//   - SentimentLabel: one of the Sentiment* constants; "unknown" until
//     classification succeeds.
//   - SentimentScore: optional confidence in [0,1]; nil when the classifier
//     was unavailable.
//   - CreatedAt: UTC creation timestamp, the sole ordering key.
type Message struct {
	ID             string    `json:"id"             gorm:"type:char(36);primaryKey"`
	UserID         string    `json:"userId"         gorm:"type:char(36);not null;index:idx_msg_user"`
	Text           string    `json:"text"           gorm:"type:text;not null"`
	SentimentLabel string    `json:"sentimentLabel" gorm:"type:varchar(16);not null;default:'unknown'"`
	SentimentScore *float64  `json:"sentimentScore"`
	CreatedAt      time.Time `json:"createdAt"      gorm:"index:idx_msg_created"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// EnrichedMessage is a Message joined with its author's display nickname at
// read or creation time. It is the wire shape returned by the messages API.
type EnrichedMessage struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	UserNickname   string    `json:"userNickname"`
	Text           string    `json:"text"`
	SentimentLabel string    `json:"sentimentLabel"`
	SentimentScore *float64  `json:"sentimentScore"`
	CreatedAt      time.Time `json:"createdAt"`
}
