package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mxcd/gardener/internal/configuration"
)

type recordingChannel struct {
	mu     sync.Mutex
	events []*Event
}

func (c *recordingChannel) Name() string { return "recording" }

func (c *recordingChannel) Send(event *Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *recordingChannel) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestManagerMinLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		minLevel configuration.NotificationLevel
		level    configuration.NotificationLevel
		wantSent bool
	}{
		{name: "info passes info threshold", minLevel: configuration.NotificationLevelInfo, level: configuration.NotificationLevelInfo, wantSent: true},
		{name: "info blocked by warning threshold", minLevel: configuration.NotificationLevelWarning, level: configuration.NotificationLevelInfo, wantSent: false},
		{name: "warning passes warning threshold", minLevel: configuration.NotificationLevelWarning, level: configuration.NotificationLevelWarning, wantSent: true},
		{name: "error passes warning threshold", minLevel: configuration.NotificationLevelWarning, level: configuration.NotificationLevelError, wantSent: true},
		{name: "warning blocked by error threshold", minLevel: configuration.NotificationLevelError, level: configuration.NotificationLevelWarning, wantSent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &recordingChannel{}
			manager := NewManager(&configuration.Notifications{MinLevel: tt.minLevel})
			manager.channels = []Channel{recorder}

			manager.Publish(&Event{Level: tt.level, Title: "test", Message: "test"})

			sent := recorder.count() == 1
			if sent != tt.wantSent {
				t.Errorf("expected sent=%v, got %v", tt.wantSent, sent)
			}
		})
	}
}

func TestManagerSetsEventTime(t *testing.T) {
	recorder := &recordingChannel{}
	manager := NewManager(nil)
	manager.channels = []Channel{recorder}

	manager.Info("test", "message", "octocat/hello-world")

	if recorder.count() != 1 {
		t.Fatal("expected event to be delivered")
	}
	if recorder.events[0].Time.IsZero() {
		t.Error("expected event time to be set")
	}
	if recorder.events[0].Repository != "octocat/hello-world" {
		t.Errorf("unexpected repository: %s", recorder.events[0].Repository)
	}
}

func TestWebhookChannelDelivery(t *testing.T) {
	var received *Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type: %s", r.Header.Get("Content-Type"))
		}
		received = &Event{}
		if err := json.NewDecoder(r.Body).Decode(received); err != nil {
			t.Errorf("failed to decode event: %v", err)
		}
	}))
	defer server.Close()

	channel := NewWebhookChannel(&configuration.Webhook{URL: server.URL})

	err := channel.Send(&Event{
		Level:      configuration.NotificationLevelWarning,
		Title:      "Push failed",
		Message:    "push rejected",
		Repository: "octocat/hello-world",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received == nil {
		t.Fatal("expected webhook to receive the event")
	}
	if received.Title != "Push failed" || received.Level != configuration.NotificationLevelWarning {
		t.Errorf("unexpected event: %+v", received)
	}
}

func TestWebhookChannelPerHookMinLevel(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	channel := NewWebhookChannel(&configuration.Webhook{
		URL:      server.URL,
		MinLevel: configuration.NotificationLevelError,
	})

	if err := channel.Send(&Event{Level: configuration.NotificationLevelInfo}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests != 0 {
		t.Error("expected info event to be filtered out")
	}

	if err := channel.Send(&Event{Level: configuration.NotificationLevelError}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests != 1 {
		t.Error("expected error event to be delivered")
	}
}

func TestWebhookChannelServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	channel := NewWebhookChannel(&configuration.Webhook{URL: server.URL})

	if err := channel.Send(&Event{Level: configuration.NotificationLevelInfo}); err == nil {
		t.Fatal("expected an error for HTTP 500")
	}
}

func TestPublishAbsorbsChannelFailures(t *testing.T) {
	manager := NewManager(&configuration.Notifications{
		Webhooks: []*configuration.Webhook{{URL: "http://127.0.0.1:1/unreachable"}},
	})

	// Must not panic or propagate the delivery failure.
	manager.Error("test", "message", "octocat/hello-world")
}
