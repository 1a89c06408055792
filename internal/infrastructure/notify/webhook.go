package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// UnknownStatus is the marker used when an order carries no status
const UnknownStatus = "Unknown"

// Notifier delivers order notifications. Implementations are best-effort;
// failures must never propagate to callers.
type Notifier interface {
	NotifyOrderReceived(ctx context.Context, orderID string, orderStatus *string)
}

// WebhookNotifier posts order notifications to a Slack-compatible webhook.
// With no URL configured every call is a no-op.
type WebhookNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWebhookNotifier creates a notifier for the given destination. An
// empty URL disables delivery.
func NewWebhookNotifier(webhookURL string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// NotifyOrderReceived sends a single fire-and-forget notification for a
// newly created order. Any failure is logged and swallowed.
func (n *WebhookNotifier) NotifyOrderReceived(ctx context.Context, orderID string, orderStatus *string) {
	if n.webhookURL == "" {
		return
	}

	status := UnknownStatus
	if orderStatus != nil && *orderStatus != "" {
		status = *orderStatus
	}
	message := fmt.Sprintf("[Amazon Sandbox Order Received] order: %s status: %s", orderID, status)

	payload, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		n.logger.Warn("Failed to encode webhook payload",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		n.logger.Warn("Failed to build webhook request",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("Failed to deliver order notification",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn("Order notification rejected by webhook",
			zap.String("order_id", orderID),
			zap.Int("status", resp.StatusCode),
		)
	}
}

var _ Notifier = (*WebhookNotifier)(nil)
