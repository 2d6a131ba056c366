// Package client implements the chat client used by terminal frontends. It
// bundles a thin HTTP API client, a file-backed identity store, and a
// polling controller that mirrors the server's message log into memory.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stajtalk/chat-backend/internal/domain"
)

// ErrNoBaseURL is returned when the API base URL is missing. A controller
// built without one stays permanently disabled instead of issuing requests
// against an undefined target.
var ErrNoBaseURL = errors.New("api base url is not configured")

// Client is a minimal HTTP client for the chat API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client for the API at baseURL. The base URL is required.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// CreateUser registers a participant and returns the created record.
func (c *Client) CreateUser(ctx context.Context, nickname string) (*domain.User, error) {
	var u domain.User
	err := c.post(ctx, "/api/users", map[string]string{"nickname": nickname}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateMessage sends a message and returns the enriched result.
func (c *Client) CreateMessage(ctx context.Context, userID, text string) (*domain.EnrichedMessage, error) {
	var m domain.EnrichedMessage
	err := c.post(ctx, "/api/messages", map[string]string{"userId": userID, "text": text}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessages fetches up to limit recent messages, ascending by time.
func (c *Client) ListMessages(ctx context.Context, limit int) ([]domain.EnrichedMessage, error) {
	url := c.baseURL + "/api/messages"
	if limit > 0 {
		url += "?limit=" + strconv.Itoa(limit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("list messages", resp)
	}

	var out []domain.EnrichedMessage
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode message list: %w", err)
	}
	return out, nil
}

// post issues a JSON POST and decodes a 2xx response body into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError("post "+path, resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// apiError extracts the server's error envelope when present, falling back
// to the bare status.
func apiError(op string, resp *http.Response) error {
	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
		return fmt.Errorf("%s: %s (%s)", op, envelope.Message, resp.Status)
	}
	return fmt.Errorf("%s: unexpected status %s", op, resp.Status)
}
