package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/inmeta/pitwall/internal/domain/milestone"
	"github.com/inmeta/pitwall/pkg/metrics"
)

const defaultTimeout = 10 * time.Second

// SlackWebhook posts milestone messages to an incoming-webhook URL.
type SlackWebhook struct {
	webhookURL string
	client     *http.Client
}

// SlackOption configures a SlackWebhook.
type SlackOption func(*SlackWebhook)

// WithHTTPClient overrides the HTTP client used for webhook posts.
func WithHTTPClient(client *http.Client) SlackOption {
	return func(s *SlackWebhook) {
		if client != nil {
			s.client = client
		}
	}
}

// NewSlackWebhook builds a webhook notifier. The URL is a secret read
// from configuration; an empty value is a configuration error.
func NewSlackWebhook(webhookURL string, opts ...SlackOption) (*SlackWebhook, error) {
	if webhookURL == "" {
		return nil, ErrNotConfigured
	}

	s := &SlackWebhook{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NotifyMilestone implements Notifier.
func (s *SlackWebhook) NotifyMilestone(ctx context.Context, m milestone.Milestone) error {
	start := time.Now()

	body, err := json.Marshal(BuildMilestoneMessage(m))
	if err != nil {
		return fmt.Errorf("failed to encode milestone message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.RecordNotificationFailure()
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordNotificationFailure()
		return fmt.Errorf("%w: unexpected status %d", ErrDeliveryFailed, resp.StatusCode)
	}

	metrics.RecordNotificationDelivered()
	metrics.RecordNotificationLatency(float64(time.Since(start).Milliseconds()))
	return nil
}
