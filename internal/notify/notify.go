package notify

import (
	"time"

	"github.com/mxcd/gardener/internal/configuration"
	"github.com/rs/zerolog/log"
)

// Event is a leveled notification about a run, a repository, or a failure.
type Event struct {
	Level      configuration.NotificationLevel `json:"level"`
	Title      string                          `json:"title"`
	Message    string                          `json:"message"`
	Repository string                          `json:"repository,omitempty"`
	Time       time.Time                       `json:"time"`
}

// Channel delivers events to one destination.
type Channel interface {
	Name() string
	Send(event *Event) error
}

// Manager fans events out to all channels whose minimum level the event
// meets. Delivery failures are logged, never propagated: notifications must
// not break a contribution run.
type Manager struct {
	minLevel configuration.NotificationLevel
	channels []Channel
	now      func() time.Time
}

// NewManager builds the notification manager from configuration. The log
// channel is always present; webhook channels are added per configured hook.
func NewManager(config *configuration.Notifications) *Manager {
	manager := &Manager{
		minLevel: configuration.NotificationLevelInfo,
		channels: []Channel{&LogChannel{}},
		now:      time.Now,
	}

	if config == nil {
		return manager
	}

	if config.MinLevel != "" {
		manager.minLevel = config.MinLevel
	}
	for _, webhook := range config.Webhooks {
		manager.channels = append(manager.channels, NewWebhookChannel(webhook))
	}

	return manager
}

// Publish delivers the event to all eligible channels.
func (m *Manager) Publish(event *Event) {
	if event.Time.IsZero() {
		event.Time = m.now()
	}
	if levelRank(event.Level) < levelRank(m.minLevel) {
		return
	}

	for _, channel := range m.channels {
		if err := channel.Send(event); err != nil {
			log.Warn().
				Err(err).
				Str("channel", channel.Name()).
				Str("title", event.Title).
				Msg("Failed to deliver notification")
		}
	}
}

// Info publishes an info level event.
func (m *Manager) Info(title, message, repository string) {
	m.Publish(&Event{Level: configuration.NotificationLevelInfo, Title: title, Message: message, Repository: repository})
}

// Warning publishes a warning level event.
func (m *Manager) Warning(title, message, repository string) {
	m.Publish(&Event{Level: configuration.NotificationLevelWarning, Title: title, Message: message, Repository: repository})
}

// Error publishes an error level event.
func (m *Manager) Error(title, message, repository string) {
	m.Publish(&Event{Level: configuration.NotificationLevelError, Title: title, Message: message, Repository: repository})
}

func levelRank(level configuration.NotificationLevel) int {
	switch level {
	case configuration.NotificationLevelWarning:
		return 1
	case configuration.NotificationLevelError:
		return 2
	default:
		return 0
	}
}
