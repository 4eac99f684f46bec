package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/taskboardhq/taskboard/pkg/interfaces/logger"
)

// Webhook posts notices to an HTTP endpoint.
type Webhook struct {
	cfg    Config
	client *http.Client
	logger logger.Logger
}

// Config configures the webhook sink.
type Config struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration
}

type Option func(*Webhook)

// WithConfig sets the sink configuration.
func WithConfig(cfg Config) Option {
	return func(w *Webhook) {
		w.cfg = cfg
	}
}

// WithClient allows injecting a custom HTTP client.
func WithClient(c *http.Client) Option {
	return func(w *Webhook) {
		if c != nil {
			w.client = c
		}
	}
}

var _ Sink = (*Webhook)(nil)

// NewWebhook constructs the webhook sink.
func NewWebhook(lgr logger.Logger, opts ...Option) *Webhook {
	if lgr == nil {
		lgr = &logger.Nop{}
	}
	hook := &Webhook{
		cfg:    Config{Timeout: 5 * time.Second},
		logger: lgr,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(hook)
		}
	}
	if hook.cfg.Timeout <= 0 {
		hook.cfg.Timeout = 5 * time.Second
	}
	if hook.client == nil {
		hook.client = &http.Client{Timeout: hook.cfg.Timeout}
	}
	return hook
}

// Send posts the notice. The response body is discarded; any non-2xx status
// is an error for the caller to log.
func (w *Webhook) Send(ctx context.Context, notice Notice) error {
	if strings.TrimSpace(w.cfg.URL) == "" {
		return fmt.Errorf("sink: url is required")
	}

	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("sink: encode notice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sink: build request: %w", err)
	}
	for k, v := range w.cfg.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sink: request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sink: unexpected status %d", resp.StatusCode)
	}

	w.logger.Debug("notice forwarded",
		logger.Field{Key: "user_id", Value: notice.UserID},
		logger.Field{Key: "severity", Value: notice.Severity},
	)
	return nil
}
