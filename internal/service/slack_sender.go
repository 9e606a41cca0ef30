package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/supportdesk/hub/internal/models"
)

const (
	slackSendTimeout = 5 * time.Second
	// slackRateLimit keeps flushes within Slack's one-message-per-second
	// incoming-webhook guidance.
	slackRateLimit = rate.Limit(1)
	slackRateBurst = 1
)

// SlackSender delivers alerts to a Slack incoming webhook.
type SlackSender struct {
	webhookURL string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSlackSender creates a sender for the given incoming-webhook URL.
// HTTP client uses a 5s timeout and does not follow redirects.
func NewSlackSender(webhookURL string) *SlackSender {
	client := &http.Client{
		Timeout: slackSendTimeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &SlackSender{
		webhookURL: webhookURL,
		httpClient: client,
		limiter:    rate.NewLimiter(slackRateLimit, slackRateBurst),
	}
}

// slackMessage is the incoming-webhook payload.
type slackMessage struct {
	Text string `json:"text"`
}

// Send posts the alert text to the webhook. A non-2xx response is a failed
// delivery; the caller keeps the alert queued.
func (s *SlackSender) Send(ctx context.Context, alert models.Alert) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	text := fmt.Sprintf("[%s] %s", alert.Timestamp.Format(time.RFC3339), alert.Message)

	body, err := json.Marshal(slackMessage{Text: text})
	if err != nil {
		return fmt.Errorf("marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send slack message: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("failed to close slack response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("slack returned non-2xx status: %d", resp.StatusCode)
	}

	return nil
}

var _ NotificationSink = (*SlackSender)(nil)
