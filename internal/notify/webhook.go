package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prestimate/prestimate/internal/domain"
)

// =============================================================================
// Webhook Sender Implementation
// =============================================================================

// WebhookSender posts the estimate summary as JSON to a configured
// endpoint, mirroring what the hosted form relay used to receive.
type WebhookSender struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewWebhookSender creates a webhook sender. A zero timeout defaults to
// 10 seconds.
func NewWebhookSender(url string, timeout time.Duration, logger *slog.Logger) *WebhookSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookSender{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// SendEstimateCreated posts one estimate summary. Redacted estimates
// serialize without the address field.
func (s *WebhookSender) SendEstimateCreated(ctx context.Context, n domain.EstimateNotification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode estimate notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	s.logger.Info("estimate webhook delivered", "service_key", n.ServiceKey, "status", resp.StatusCode)
	return nil
}
