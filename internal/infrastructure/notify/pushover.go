// Package notify delivers probe notifications.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/ports"
)

// DefaultPushoverEndpoint is the Pushover message API.
const DefaultPushoverEndpoint = "https://api.pushover.net/1/messages.json"

// Pushover sends notifications through the Pushover API.
type Pushover struct {
	cfg        domain.PushoverConfig
	endpoint   string
	httpClient *http.Client
}

// Option customises a Pushover notifier.
type Option func(*Pushover)

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(p *Pushover) { p.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Pushover) { p.httpClient = client }
}

// NewPushover creates a Pushover notifier.
func NewPushover(cfg domain.PushoverConfig, opts ...Option) *Pushover {
	p := &Pushover{
		cfg:        cfg,
		endpoint:   DefaultPushoverEndpoint,
		httpClient: &http.Client{Timeout: domain.DefaultHTTPClientTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pushover) Name() string {
	return "pushover"
}

// Notify posts n as a monospace message.
func (p *Pushover) Notify(ctx context.Context, n ports.Notification) error {
	form := url.Values{}
	form.Set("user", p.cfg.User)
	form.Set("token", p.cfg.Token)
	form.Set("monospace", "1")
	form.Set("title", truncate(n.Title, domain.MaxNotificationTitle))
	form.Set("message", truncate(n.Message, domain.MaxNotificationMessage))
	if p.cfg.URL != "" {
		form.Set("url", p.cfg.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pushover request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body bytes.Buffer
		_, _ = body.ReadFrom(resp.Body)
		return fmt.Errorf("pushover HTTP %d: %s", resp.StatusCode, strings.TrimSpace(body.String()))
	}
	return nil
}

// truncate keeps the first max characters of s.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

var _ ports.Notifier = (*Pushover)(nil)
