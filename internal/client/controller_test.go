package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stajtalk/chat-backend/internal/domain"
)

// fakeServer is a minimal in-memory chat API for controller tests.
type fakeServer struct {
	mu       sync.Mutex
	users    map[string]string // id -> nickname
	messages []domain.EnrichedMessage
	failList bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{users: map[string]string{}}
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Nickname string `json:"nickname"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		id := "u-" + in.Nickname
		f.users[id] = in.Nickname
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.User{ID: id, Nickname: in.Nickname, CreatedAt: time.Now().UTC()})
	})
	mux.HandleFunc("POST /api/messages", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			UserID string `json:"userId"`
			Text   string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		nick, ok := f.users[in.UserID]
		if !ok {
			f.mu.Unlock()
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"code": "bad_request", "message": "user not found"})
			return
		}
		m := domain.EnrichedMessage{
			ID: "m-" + in.Text, UserID: in.UserID, UserNickname: nick,
			Text: in.Text, SentimentLabel: domain.SentimentNeutral, CreatedAt: time.Now().UTC(),
		}
		f.messages = append(f.messages, m)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(m)
	})
	mux.HandleFunc("GET /api/messages", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failList {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"code": "list_failed", "message": "boom"})
			return
		}
		_ = json.NewEncoder(w).Encode(f.messages)
	})
	return mux
}

func (f *fakeServer) setFailList(v bool) {
	f.mu.Lock()
	f.failList = v
	f.mu.Unlock()
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestController(t *testing.T, baseURL, identityPath string) *Controller {
	t.Helper()
	api, err := New(baseURL, 2*time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c := NewController(api, NewIdentityStore(identityPath), 20*time.Millisecond)
	t.Cleanup(c.Close)
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New("   ", 0); !errors.Is(err, ErrNoBaseURL) {
		t.Fatalf("err = %v, want ErrNoBaseURL", err)
	}
}

func TestController_DisabledWithoutBaseURL(t *testing.T) {
	c := NewController(nil, NewIdentityStore(filepath.Join(t.TempDir(), "id")), 0)

	if c.State() != StateDisabled {
		t.Fatalf("state = %v, want disabled", c.State())
	}
	if c.DisabledReason() == "" {
		t.Fatal("disabled controller must carry a diagnostic")
	}

	// Start and Send must be harmless no-ops.
	c.Start(context.Background())
	if c.State() != StateDisabled {
		t.Fatalf("state after Start = %v, want disabled", c.State())
	}
	if err := c.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send on disabled controller: %v", err)
	}
}

func TestController_NoIdentityAsksForNickname(t *testing.T) {
	srv := httptest.NewServer(newFakeServer().handler())
	defer srv.Close()

	c := newTestController(t, srv.URL, filepath.Join(t.TempDir(), "id"))
	c.Start(context.Background())

	if got := c.State(); got != StateAwaitingNickname {
		t.Fatalf("state = %v, want awaiting-nickname", got)
	}
}

func TestController_PersistedIdentityGoesStraightToReady(t *testing.T) {
	fs := newFakeServer()
	fs.users["u-Ada"] = "Ada"
	srv := httptest.NewServer(fs.handler())
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "id")
	if err := NewIdentityStore(path).Save("u-Ada"); err != nil {
		t.Fatalf("seed identity: %v", err)
	}

	c := newTestController(t, srv.URL, path)
	c.Start(context.Background())

	if got := c.State(); got != StateReady {
		t.Fatalf("state = %v, want ready", got)
	}
	if c.UserID() != "u-Ada" {
		t.Fatalf("userID = %q", c.UserID())
	}
}

func TestController_SetNicknameCreatesAndPersists(t *testing.T) {
	srv := httptest.NewServer(newFakeServer().handler())
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "id")
	c := newTestController(t, srv.URL, path)
	c.Start(context.Background())

	if err := c.SetNickname(context.Background(), "Ada"); err != nil {
		t.Fatalf("SetNickname: %v", err)
	}
	if c.State() != StateReady {
		t.Fatalf("state = %v, want ready", c.State())
	}

	id, err := NewIdentityStore(path).Load()
	if err != nil || id != "u-Ada" {
		t.Fatalf("persisted id = %q (%v), want u-Ada", id, err)
	}

	// Repeated calls after ready are no-ops.
	if err := c.SetNickname(context.Background(), "Eve"); err != nil {
		t.Fatalf("SetNickname when ready: %v", err)
	}
	if c.UserID() != "u-Ada" {
		t.Fatalf("identity changed by no-op call: %q", c.UserID())
	}
}

func TestController_PollReplacesSnapshot(t *testing.T) {
	fs := newFakeServer()
	fs.users["u-Ada"] = "Ada"
	fs.messages = []domain.EnrichedMessage{{ID: "m1", UserID: "u-Ada", UserNickname: "Ada", Text: "hi", SentimentLabel: domain.SentimentNeutral}}
	srv := httptest.NewServer(fs.handler())
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "id")
	_ = NewIdentityStore(path).Save("u-Ada")

	c := newTestController(t, srv.URL, path)
	c.Start(context.Background())

	waitFor(t, func() bool { return len(c.Messages()) == 1 }, "first poll")

	fs.mu.Lock()
	fs.messages = append(fs.messages, domain.EnrichedMessage{ID: "m2", UserID: "u-Ada", UserNickname: "Ada", Text: "again"})
	fs.mu.Unlock()

	waitFor(t, func() bool { return len(c.Messages()) == 2 }, "snapshot replacement")
}

func TestController_PollErrorSetsBannerAndRecovers(t *testing.T) {
	fs := newFakeServer()
	fs.users["u-Ada"] = "Ada"
	srv := httptest.NewServer(fs.handler())
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "id")
	_ = NewIdentityStore(path).Save("u-Ada")

	c := newTestController(t, srv.URL, path)
	fs.setFailList(true)
	c.Start(context.Background())

	waitFor(t, func() bool { return c.Banner() != "" }, "error banner")
	if c.State() != StateReady {
		t.Fatalf("poll errors must not change state, got %v", c.State())
	}

	// The timer keeps firing; once the server recovers the banner clears.
	fs.setFailList(false)
	waitFor(t, func() bool { return c.Banner() == "" }, "banner cleared")
}

func TestController_SendAppendsOptimistically(t *testing.T) {
	fs := newFakeServer()
	fs.users["u-Ada"] = "Ada"
	srv := httptest.NewServer(fs.handler())
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "id")
	_ = NewIdentityStore(path).Save("u-Ada")

	c := newTestController(t, srv.URL, path)
	c.Start(context.Background())

	if err := c.Send(context.Background(), "  hello  "); err != nil {
		t.Fatalf("Send: %v", err)
	}
	msgs := c.Messages()
	found := false
	for _, m := range msgs {
		if m.Text == "hello" && m.UserNickname == "Ada" {
			found = true
		}
	}
	if !found {
		t.Fatalf("sent message not in snapshot: %+v", msgs)
	}

	// Blank sends are silent no-ops.
	if err := c.Send(context.Background(), "   "); err != nil {
		t.Fatalf("blank Send: %v", err)
	}
}

func TestController_SendFailureLeavesSnapshotUntouched(t *testing.T) {
	fs := newFakeServer()
	srv := httptest.NewServer(fs.handler())
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "id")
	_ = NewIdentityStore(path).Save("u-ghost") // unknown to the server

	c := newTestController(t, srv.URL, path)
	c.Start(context.Background())
	before := len(c.Messages())

	if err := c.Send(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for unknown user")
	}
	if got := len(c.Messages()); got != before {
		t.Fatalf("snapshot changed on failed send: %d -> %d", before, got)
	}
}
