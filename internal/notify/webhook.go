package notify

import (
	"context"
	"time"

	"github.com/vk/taskgraph/internal/ctxlog"
	"resty.dev/v3"
)

// Webhook posts a JSON completion report to a configured URL once a graph
// finishes. It is deliberately not a taskgraph.Observer: a webhook fires
// once, after WaitAll returns, not on every scheduling event.
type Webhook struct {
	client *resty.Client
	url    string
}

// Report is the JSON body posted to the webhook URL.
type Report struct {
	TaskCount int           `json:"task_count"`
	Duration  time.Duration `json:"duration_ns"`
	Succeeded bool          `json:"succeeded"`
	Error     string        `json:"error,omitempty"`
}

// NewWebhook creates a Webhook that posts to url with the given timeout.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	client := resty.New().SetTimeout(timeout)
	return &Webhook{client: client, url: url}
}

// Close releases the underlying HTTP transport's idle connections.
func (w *Webhook) Close() error {
	return w.client.Close()
}

// Notify posts report to the webhook URL. A non-2xx response or transport
// error is logged and swallowed — a completion notification failing must
// never be mistaken for the graph run itself having failed.
func (w *Webhook) Notify(ctx context.Context, report Report) {
	logger := ctxlog.FromContext(ctx).With("webhook_url", w.url)

	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(report).
		Post(w.url)
	if err != nil {
		logger.Warn("completion webhook request failed", "error", err)
		return
	}
	if resp.IsError() {
		logger.Warn("completion webhook returned an error status", "status", resp.Status())
		return
	}
	logger.Debug("completion webhook delivered", "status", resp.Status())
}
