// Package relay forwards visitor messages to a chat webhook
package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"
)

const (
	DefaultUsername  = "Tsumu's Universe"
	DefaultAvatarURL = "https://cdn-icons-png.flaticon.com/512/3112/3112946.png"
	DefaultDevDelay  = time.Second

	// DevWarning is returned alongside a simulated success
	DevWarning = "Webhook not configured"
)

var (
	ErrEmptyMessage  = errors.New("message is required")
	ErrNotConfigured = errors.New("webhook not configured")
	ErrDownstream    = errors.New("webhook rejected message")
)

// Config for the relay
type Config struct {
	WebhookURL string
	Username   string
	AvatarURL  string
	// DevMode simulates success when no webhook is configured
	DevMode  bool
	DevDelay time.Duration
}

// Result of a delivered (or simulated) message
type Result struct {
	Warning string
}

type payload struct {
	Content   string `json:"content"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Relay posts messages to the configured webhook
type Relay struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

func New(cfg Config, client *http.Client, logger *zap.Logger) *Relay {
	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}
	if cfg.AvatarURL == "" {
		cfg.AvatarURL = DefaultAvatarURL
	}
	if cfg.DevDelay < 0 {
		cfg.DevDelay = 0
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{cfg: cfg, client: client, logger: logger.Named("relay")}
}

// Content formats the message body posted to the webhook
func Content(message string) string {
	return "🌠 **New Message from the Universe**\n\n\"" + message + "\""
}

// Send delivers message. Without a webhook it succeeds with a warning in dev mode
// and fails with ErrNotConfigured otherwise
func (r *Relay) Send(ctx context.Context, message string) (Result, error) {
	if strings.TrimSpace(message) == "" {
		return Result{}, ErrEmptyMessage
	}

	if r.cfg.WebhookURL == "" {
		r.logger.Error("webhook url is not defined")
		if !r.cfg.DevMode {
			return Result{}, ErrNotConfigured
		}
		t := time.NewTimer(r.cfg.DevDelay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
		return Result{Warning: DevWarning}, nil
	}

	body, err := json.Marshal(payload{
		Content:   Content(message),
		Username:  r.cfg.Username,
		AvatarURL: r.cfg.AvatarURL,
	})
	if err != nil {
		return Result{}, fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("%w: status %d", ErrDownstream, resp.StatusCode)
	}
	r.logger.Info("message relayed", zap.Int("length", len(message)))
	return Result{}, nil
}
