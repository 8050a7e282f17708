// Package notify reports pipeline run failures to Slack.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/slack-go/slack"
)

const (
	maxRetries = 3
	baseDelay  = time.Second
)

// Notifier is a mockable interface over the Slack webhook so failure reporting
// can be exercised in tests and disabled when no webhook is configured.
type Notifier interface {
	RunFailed(ctx context.Context, job string, runErr error) error
}

// SlackNotifier posts run failures to an incoming webhook.
type SlackNotifier struct {
	webhookURL string
	channel    string
	httpClient *http.Client
}

func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		httpClient: http.DefaultClient,
	}
}

// RunFailed posts the failed job and its error to the configured channel.
func (n *SlackNotifier) RunFailed(ctx context.Context, job string, runErr error) error {
	msg := &slack.WebhookMessage{
		Channel: n.channel,
		Text:    fmt.Sprintf("regional games %s job failed: %v", job, runErr),
	}
	return n.doWithRetry(func() error {
		return slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg)
	})
}

// doWithRetry retries the provided function with exponential backoff
func (n *SlackNotifier) doWithRetry(fn func() error) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		time.Sleep(baseDelay * (1 << i))
	}
	return fmt.Errorf("after %d retries, last error: %w", maxRetries, err)
}

// NopNotifier is used when no webhook is configured.
type NopNotifier struct{}

func (NopNotifier) RunFailed(context.Context, string, error) error { return nil }

// ReportedFailure records a failure reported through the MockNotifier.
type ReportedFailure struct {
	Job string
	Err error
}

// MockNotifier implements the Notifier interface for testing
type MockNotifier struct {
	NotifyError error
	Reported    []ReportedFailure
}

func (m *MockNotifier) RunFailed(_ context.Context, job string, runErr error) error {
	if m.NotifyError != nil {
		return m.NotifyError
	}
	m.Reported = append(m.Reported, ReportedFailure{Job: job, Err: runErr})
	return nil
}
