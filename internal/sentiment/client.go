// Package sentiment provides a client for the external sentiment
// classification service. The service is consumed as a black box: a single
// POST /predict round-trip per text, with an explicit timeout. Callers are
// expected to treat any error as "classification unavailable" and continue
// with defaults.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stajtalk/chat-backend/internal/config"
)

// Classifier labels a text with a sentiment. Implementations must be safe
// for concurrent use and must honor the provided context.
type Classifier interface {
	// Classify returns a canonical sentiment label and an optional
	// confidence score for text. Any transport or protocol failure is
	// returned as an error; no retry is performed.
	Classify(ctx context.Context, text string) (label string, score *float64, err error)
}

// HTTPClassifier calls a sentiment HTTP service exposing POST {base}/predict
// with body {"text": ...} and response {"label": ..., "score": ...}.
type HTTPClassifier struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClassifier builds a classifier from configuration. The configured
// timeout bounds the whole round-trip, so a hanging classifier cannot stall
// message creation indefinitely.
func NewHTTPClassifier(cfg config.SentimentConfig) *HTTPClassifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClassifier{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// Classify performs one synchronous prediction call.
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (string, *float64, error) {
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return "", nil, fmt.Errorf("marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("call sentiment service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Str("status", resp.Status).Msg("sentiment service returned non-success status")
		return "", nil, fmt.Errorf("sentiment service status: %s", resp.Status)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("decode predict response: %w", err)
	}
	return out.Label, out.Score, nil
}
