package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stajtalk/chat-backend/internal/domain"
)

// State is the lifecycle phase of a Controller.
type State int

const (
	// StateDisabled means required configuration (the API base URL) is
	// missing; no network call will ever be made.
	StateDisabled State = iota
	// StateNoIdentity is the initial phase, before the persisted identity
	// has been resolved.
	StateNoIdentity
	// StateAwaitingNickname means no identity was found and a nickname is
	// needed to create one.
	StateAwaitingNickname
	// StateReady means an identity exists and the poll loop is running.
	StateReady
)

// String returns a short name for the state.
func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateNoIdentity:
		return "no-identity"
	case StateAwaitingNickname:
		return "awaiting-nickname"
	case StateReady:
		return "ready"
	default:
		return "invalid"
	}
}

// DefaultPollInterval is how often the controller refreshes the message
// list while ready.
const DefaultPollInterval = 1500 * time.Millisecond

// defaultPollLimit is the page size requested on each poll.
const defaultPollLimit = 50

// Controller drives the client state machine: it resolves the persisted
// identity once at startup, creates one on demand, polls the server on a
// fixed interval while ready, and reconciles optimistic sends into the
// local snapshot. Poll failures surface as a non-fatal banner and never
// stop the timer.
//
// All exported methods are safe for concurrent use.
type Controller struct {
	api      *Client
	ids      *IdentityStore
	interval time.Duration

	// OnUpdate, when set before Start, is invoked after every snapshot
	// change (poll result, optimistic append, banner change). It runs on
	// the caller's or the poll goroutine and must not block.
	OnUpdate func()

	mu             sync.Mutex
	state          State
	userID         string
	messages       []domain.EnrichedMessage
	banner         string
	disabledReason string

	cancel context.CancelFunc
	done   chan struct{}
}

// NewController builds a controller over the given API client and identity
// store. A nil api yields a permanently disabled controller with a
// diagnostic reason instead of one that would call an undefined target.
func NewController(api *Client, ids *IdentityStore, interval time.Duration) *Controller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	c := &Controller{
		api:      api,
		ids:      ids,
		interval: interval,
		state:    StateNoIdentity,
	}
	if api == nil {
		c.state = StateDisabled
		c.disabledReason = ErrNoBaseURL.Error()
	}
	return c
}

// Start resolves the persisted identity and launches the poll loop. It is a
// no-op on a disabled controller. The loop stops when ctx is cancelled or
// Close is called.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.state == StateDisabled || c.cancel != nil {
		c.mu.Unlock()
		return
	}

	id, err := c.ids.Load()
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("could not read persisted identity, asking for a nickname")
		c.state = StateAwaitingNickname
	case id != "":
		c.userID = id
		c.state = StateReady
	default:
		c.state = StateAwaitingNickname
	}

	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.pollLoop(ctx)
	c.notify()
}

// Close stops the poll loop and waits for it to exit. Safe to call more
// than once and on a controller that never started.
func (c *Controller) Close() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UserID returns the resolved participant id, or "" before one exists.
func (c *Controller) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// Messages returns a copy of the current message snapshot, ascending by time.
func (c *Controller) Messages() []domain.EnrichedMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.EnrichedMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Banner returns the current non-fatal error banner, or "" when the last
// poll succeeded.
func (c *Controller) Banner() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.banner
}

// DisabledReason returns the diagnostic for a disabled controller.
func (c *Controller) DisabledReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabledReason
}

// SetNickname creates the participant and moves the controller to ready.
// It only acts in the awaiting-nickname phase; elsewhere it is a no-op.
// The returned user id is persisted before the state flips, so a crash
// between the two cannot lose the identity.
func (c *Controller) SetNickname(ctx context.Context, nickname string) error {
	c.mu.Lock()
	if c.state != StateAwaitingNickname {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil
	}

	u, err := c.api.CreateUser(ctx, nickname)
	if err != nil {
		return err
	}
	if err := c.ids.Save(u.ID); err != nil {
		log.Warn().Err(err).Msg("could not persist identity, it will be lost on restart")
	}

	c.mu.Lock()
	c.userID = u.ID
	c.state = StateReady
	c.mu.Unlock()
	c.notify()
	return nil
}

// Send posts a message and appends the enriched result to the local
// snapshot. Blank text or a controller that is not ready make it a silent
// no-op. On failure the local snapshot is left untouched and the error is
// returned for the caller to surface.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	ready := c.state == StateReady
	userID := c.userID
	c.mu.Unlock()

	if text == "" || !ready {
		return nil
	}

	m, err := c.api.CreateMessage(ctx, userID, text)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.messages = append(c.messages, *m)
	c.mu.Unlock()
	c.notify()
	return nil
}

// pollLoop refreshes the snapshot on a fixed interval while the controller
// is ready. A poll overlapping with a send is not coordinated further: the
// last write to the snapshot wins.
func (c *Controller) pollLoop(ctx context.Context) {
	defer close(c.done)

	// First refresh without waiting for the ticker.
	c.pollOnce(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.pollOnce(ctx)
		}
	}
}

// pollOnce fetches the server snapshot and replaces the local one. Errors
// only update the banner.
func (c *Controller) pollOnce(ctx context.Context) {
	c.mu.Lock()
	ready := c.state == StateReady
	c.mu.Unlock()
	if !ready {
		return
	}

	items, err := c.api.ListMessages(ctx, defaultPollLimit)

	c.mu.Lock()
	if err != nil {
		if ctx.Err() != nil {
			c.mu.Unlock()
			return
		}
		c.banner = err.Error()
	} else {
		c.messages = items
		c.banner = ""
	}
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) notify() {
	if c.OnUpdate != nil {
		c.OnUpdate()
	}
}
