package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNormalizeSentimentLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"positive", SentimentPositive},
		{"POSITIVE", SentimentPositive},
		{"Pos", SentimentPositive},
		{"  negative ", SentimentNegative},
		{"NEG", SentimentNegative},
		{"neutral", SentimentNeutral},
		{"Neu", SentimentNeutral},
		{"", SentimentUnknown},
		{"happy", SentimentUnknown},
		{"unknown", SentimentUnknown},
		{"postive-ish", SentimentPositive}, // prefix match, not spelling
	}
	for _, c := range cases {
		if got := NormalizeSentimentLabel(c.in); got != c.want {
			t.Errorf("NormalizeSentimentLabel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTableNames(t *testing.T) {
	if got := (User{}).TableName(); got != "users" {
		t.Errorf("User table = %q", got)
	}
	if got := (Message{}).TableName(); got != "messages" {
		t.Errorf("Message table = %q", got)
	}
}

func TestEnrichedMessage_JSONShape(t *testing.T) {
	score := 0.92
	m := EnrichedMessage{
		ID:             "m1",
		UserID:         "u1",
		UserNickname:   "Ada",
		Text:           "great product",
		SentimentLabel: SentimentPositive,
		SentimentScore: &score,
		CreatedAt:      time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"id"`, `"userId"`, `"userNickname"`, `"text"`, `"sentimentLabel"`, `"sentimentScore"`, `"createdAt"`} {
		if !strings.Contains(string(b), key) {
			t.Errorf("JSON missing field %s: %s", key, b)
		}
	}
}

func TestEnrichedMessage_NullScore(t *testing.T) {
	b, err := json.Marshal(EnrichedMessage{ID: "m1", SentimentLabel: SentimentUnknown})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"sentimentScore":null`) {
		t.Errorf("absent score must serialize as null: %s", b)
	}
}
