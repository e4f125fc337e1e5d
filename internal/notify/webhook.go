package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mixlab/internal/config"
	"mixlab/internal/models"

	"github.com/rs/zerolog"
)

// WebhookNotifier posts booking notifications to the mail gateway. The
// gateway owns templating and actual delivery; we only hand over the
// template parameters.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *zerolog.Logger
}

func NewWebhookNotifier(cfg config.NotifyConfig, logger *zerolog.Logger) *WebhookNotifier {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url:    cfg.GatewayURL,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (n *WebhookNotifier) Send(ctx context.Context, notification models.Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification gateway returned %d", resp.StatusCode)
	}

	n.logger.Debug().
		Str("type", notification.Type).
		Str("sequence_id", notification.SequenceID).
		Msg("notification delivered")
	return nil
}

// NopNotifier is used when notifications are disabled in config.
type NopNotifier struct{}

func (NopNotifier) Send(context.Context, models.Notification) error { return nil }
