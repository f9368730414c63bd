package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	domain "github.com/flowmatic-labs/platform/internal/app/domain/automation"
	"github.com/flowmatic-labs/platform/pkg/logger"
)

// Dispatcher delivers a trigger to a service's webhook and returns the
// remote acknowledgement message.
type Dispatcher interface {
	Dispatch(ctx context.Context, def domain.ServiceDefinition, userID string, details map[string]string) (string, error)
}

// WebhookDispatcher posts trigger payloads to per-service webhook endpoints
// under a common base URL.
type WebhookDispatcher struct {
	client     *http.Client
	baseURL    *url.URL
	apiKey     string
	maxRetries int
	log        *logger.Logger
}

var _ Dispatcher = (*WebhookDispatcher)(nil)

// NewWebhookDispatcher constructs a dispatcher for the given base URL.
func NewWebhookDispatcher(client *http.Client, baseURL, apiKey string, log *logger.Logger) (*WebhookDispatcher, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("webhook base url required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse webhook base url: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.NewDefault("webhook-dispatcher")
	}
	return &WebhookDispatcher{
		client:     client,
		baseURL:    parsed,
		apiKey:     strings.TrimSpace(apiKey),
		maxRetries: 2,
		log:        log,
	}, nil
}

// WithMaxRetries overrides how many times a retryable failure is retried
// after the first attempt. Zero disables retries; negative values are
// ignored. Call before the first Dispatch.
func (d *WebhookDispatcher) WithMaxRetries(n int) *WebhookDispatcher {
	if n >= 0 {
		d.maxRetries = n
	}
	return d
}

// Dispatch posts the trigger payload to the service webhook. Transport
// errors retry on server-side failures; any non-2xx final status is an
// error. The optional "message" field of the response body is returned as
// the acknowledgement.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, def domain.ServiceDefinition, userID string, details map[string]string) (string, error) {
	body, err := json.Marshal(struct {
		Trigger string            `json:"trigger"`
		Details map[string]string `json:"details,omitempty"`
		User    string            `json:"user,omitempty"`
	}{
		Trigger: def.Tag,
		Details: details,
		User:    userID,
	})
	if err != nil {
		return "", fmt.Errorf("encode trigger payload: %w", err)
	}

	endpoint := d.baseURL.String() + "/" + def.WebhookPath

	var lastErr error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		msg, retryable, err := d.post(ctx, endpoint, body)
		if err == nil {
			return msg, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		d.log.WithError(err).
			WithField("service", def.Tag).
			WithField("attempt", attempt+1).
			Warn("webhook dispatch retrying")
	}
	return "", lastErr
}

func (d *WebhookDispatcher) post(ctx context.Context, endpoint string, body []byte) (msg string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", false, fmt.Errorf("read webhook response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", resp.StatusCode >= 500, fmt.Errorf("webhook status %d", resp.StatusCode)
	}

	// Responders may include status/message fields; anything else is
	// treated as a bare acknowledgement.
	if status := gjson.GetBytes(raw, "status").String(); status != "" && status != "ok" && status != "success" {
		return "", false, fmt.Errorf("webhook reported status %q", status)
	}
	return gjson.GetBytes(raw, "message").String(), false, nil
}
