package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stajtalk/chat-backend/internal/domain"
	"github.com/stajtalk/chat-backend/internal/services"
)

func ptr(f float64) *float64 { return &f }

func TestCreateMessage_ReturnsEnrichedMessage(t *testing.T) {
	svc := &fakeMsgSvc{msg: &domain.EnrichedMessage{
		ID:             "m1",
		UserID:         "u1",
		UserNickname:   "Ada",
		Text:           "great product",
		SentimentLabel: domain.SentimentPositive,
		SentimentScore: ptr(0.92),
		CreatedAt:      time.Now().UTC(),
	}}
	r := newTestRouter(&fakeUserSvc{}, svc)

	w := doJSON(t, r, http.MethodPost, "/api/messages", `{"userId":"u1","text":"great product"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", w.Code, w.Body)
	}
	if svc.gotUser != "u1" || svc.gotText != "great product" {
		t.Errorf("service received (%q, %q)", svc.gotUser, svc.gotText)
	}

	var m domain.EnrichedMessage
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.UserNickname != "Ada" || m.SentimentLabel != domain.SentimentPositive {
		t.Errorf("unexpected body: %+v", m)
	}
	if m.SentimentScore == nil || *m.SentimentScore != 0.92 {
		t.Errorf("score = %v", m.SentimentScore)
	}
}

func TestCreateMessage_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
		wantErr  string
	}{
		{"missing fields", `{}`, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"malformed json", `{`, nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"blank text", `{"userId":"u1","text":"  "}`, services.ErrEmptyText, http.StatusBadRequest, ErrCodeBadRequest},
		{"text too long", `{"userId":"u1","text":"x"}`, services.ErrTextTooLong, http.StatusBadRequest, ErrCodeBadRequest},
		{"unknown user", `{"userId":"ghost","text":"hi"}`, services.ErrUserNotFound, http.StatusBadRequest, ErrCodeBadRequest},
		{"storage down", `{"userId":"u1","text":"hi"}`, errors.New("db locked"), http.StatusInternalServerError, ErrCodeCreateFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&fakeUserSvc{}, &fakeMsgSvc{err: tc.svcErr})
			w := doJSON(t, r, http.MethodPost, "/api/messages", tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d; body=%s", w.Code, tc.wantCode, w.Body)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tc.wantErr {
				t.Errorf("code = %q, want %q", resp.Code, tc.wantErr)
			}
		})
	}
}

func TestListMessages_PassesLimitThrough(t *testing.T) {
	svc := &fakeMsgSvc{list: []domain.EnrichedMessage{
		{ID: "m1", UserNickname: "Ada", Text: "hi", SentimentLabel: domain.SentimentNeutral},
		{ID: "m2", UserNickname: "unknown user", Text: "yo", SentimentLabel: domain.SentimentUnknown},
	}}
	r := newTestRouter(&fakeUserSvc{}, svc)

	w := doJSON(t, r, http.MethodGet, "/api/messages?limit=10", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body=%s", w.Code, w.Body)
	}
	if svc.gotLimit != 10 {
		t.Errorf("limit = %d, want 10", svc.gotLimit)
	}

	var items []domain.EnrichedMessage
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 || items[1].UserNickname != "unknown user" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestListMessages_InvalidLimitFallsBack(t *testing.T) {
	svc := &fakeMsgSvc{}
	r := newTestRouter(&fakeUserSvc{}, svc)

	w := doJSON(t, r, http.MethodGet, "/api/messages?limit=abc", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.gotLimit != 0 {
		t.Errorf("limit = %d, want 0 (service default)", svc.gotLimit)
	}
}

func TestListMessages_StorageFailure(t *testing.T) {
	r := newTestRouter(&fakeUserSvc{}, &fakeMsgSvc{err: errors.New("no such table")})

	w := doJSON(t, r, http.MethodGet, "/api/messages", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != ErrCodeListFailed {
		t.Errorf("code = %q", resp.Code)
	}
}
