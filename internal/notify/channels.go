package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mxcd/gardener/internal/configuration"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogChannel writes events to the structured log.
type LogChannel struct{}

func (c *LogChannel) Name() string {
	return "log"
}

func (c *LogChannel) Send(event *Event) error {
	log.WithLevel(zerologLevel(event.Level)).
		Str("title", event.Title).
		Str("repository", event.Repository).
		Msg(event.Message)
	return nil
}

func zerologLevel(level configuration.NotificationLevel) zerolog.Level {
	switch level {
	case configuration.NotificationLevelWarning:
		return zerolog.WarnLevel
	case configuration.NotificationLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WebhookChannel posts events as JSON to a configured URL. A per-webhook
// minimum level filters events before delivery.
type WebhookChannel struct {
	url      string
	minLevel configuration.NotificationLevel
	client   *http.Client
}

func NewWebhookChannel(config *configuration.Webhook) *WebhookChannel {
	minLevel := config.MinLevel
	if minLevel == "" {
		minLevel = configuration.NotificationLevelInfo
	}
	return &WebhookChannel{
		url:      config.URL,
		minLevel: minLevel,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *WebhookChannel) Name() string {
	return "webhook"
}

func (c *WebhookChannel) Send(event *Event) error {
	if levelRank(event.Level) < levelRank(c.minLevel) {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	request, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("webhook returned HTTP %d", response.StatusCode)
	}

	return nil
}
