// Command chat is a small terminal client for the chat backend.
//
// It keeps a local identity file so the same participant is reused across
// runs, polls the API for the latest messages, and sends lines typed on
// stdin. Configure it with:
//
//	CHAT_API_URL       base URL of the backend, e.g. http://localhost:8080
//	CHAT_IDENTITY_FILE where to persist the user id (default: ~/.config/chat/identity)
//	CHAT_POLL_INTERVAL poll period, e.g. 1.5s
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/stajtalk/chat-backend/internal/client"
	"github.com/stajtalk/chat-backend/internal/domain"
	"github.com/stajtalk/chat-backend/internal/sysutil"
)

func main() {
	_ = godotenv.Load()

	baseURL := strings.TrimSpace(os.Getenv("CHAT_API_URL"))
	if baseURL == "" {
		fmt.Fprintln(os.Stderr, "chat is unavailable: CHAT_API_URL is not set")
		os.Exit(1)
	}

	api, err := client.New(baseURL, 10*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat is unavailable: %v\n", err)
		os.Exit(1)
	}

	interval := client.DefaultPollInterval
	if v := os.Getenv("CHAT_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}

	ids := client.NewIdentityStore(identityPath())
	ctrl := client.NewController(api, ids, interval)

	printer := &messagePrinter{seen: make(map[string]bool)}
	ctrl.OnUpdate = func() { printer.render(ctrl) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl.Start(ctx)
	defer ctrl.Close()

	// Ctrl-C closes the poll loop and exits cleanly.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
		fmt.Println()
		os.Exit(0)
	}()

	if ctrl.State() == client.StateAwaitingNickname {
		if err := promptNickname(ctx, ctrl); err != nil {
			fmt.Fprintf(os.Stderr, "could not register: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("connected to %s (type a message and press enter, Ctrl-C to quit)\n", baseURL)

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if err := ctrl.Send(ctx, text); err != nil {
			fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
		}
	}
}

// promptNickname reads nicknames from stdin until one is accepted.
func promptNickname(ctx context.Context, ctrl *client.Controller) error {
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("choose a nickname: ")
		if !sc.Scan() {
			return fmt.Errorf("stdin closed")
		}
		nickname := strings.TrimSpace(sc.Text())
		if nickname == "" {
			continue
		}
		if err := ctrl.SetNickname(ctx, nickname); err != nil {
			fmt.Fprintf(os.Stderr, "nickname rejected: %v\n", err)
			continue
		}
		return nil
	}
}

// messagePrinter renders only messages it has not shown before, so the
// replace-the-snapshot polling model still produces an append-style log.
// render is called from both the poll goroutine and the send path.
type messagePrinter struct {
	mu         sync.Mutex
	seen       map[string]bool
	lastBanner string
}

func (p *messagePrinter) render(ctrl *client.Controller) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if b := ctrl.Banner(); b != p.lastBanner {
		p.lastBanner = b
		if b != "" {
			fmt.Fprintf(os.Stderr, "! %s\n", b)
		}
	}
	for _, m := range ctrl.Messages() {
		if p.seen[m.ID] {
			continue
		}
		p.seen[m.ID] = true
		fmt.Println(formatMessage(m))
	}
}

func formatMessage(m domain.EnrichedMessage) string {
	score := ""
	if m.SentimentScore != nil {
		score = fmt.Sprintf(" %.2f", *m.SentimentScore)
	}
	return fmt.Sprintf("[%s] %s: %s (%s%s)",
		m.CreatedAt.Local().Format("15:04:05"), m.UserNickname, m.Text, m.SentimentLabel, score)
}

func identityPath() string {
	if p := strings.TrimSpace(os.Getenv("CHAT_IDENTITY_FILE")); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	base := sysutil.FirstNonEmpty(dir, ".")
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "chat", "identity")
}
