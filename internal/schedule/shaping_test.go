package schedule

import (
	"testing"
	"time"

	"github.com/mxcd/gardener/internal/configuration"
)

func factorPtr(v float64) *float64 { return &v }

func TestShapePassthrough(t *testing.T) {
	tests := []struct {
		name   string
		config *configuration.Schedule
	}{
		{name: "nil schedule", config: nil},
		{name: "no shaping configured", config: &configuration.Schedule{WeekendActivityFactor: factorPtr(1.0)}},
		{name: "unset weekend factor", config: &configuration.Schedule{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shaper := NewShaper(tt.config)
			now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC) // a Tuesday

			if shaped := shaper.Shape(4*time.Hour, now); shaped != 4*time.Hour {
				t.Errorf("expected interval unchanged, got %v", shaped)
			}
		})
	}
}

func TestShapeWeekendStretch(t *testing.T) {
	shaper := NewShaper(&configuration.Schedule{WeekendActivityFactor: factorPtr(0.5)})

	// Friday 22:00, a 4h interval targets Saturday 02:00.
	now := time.Date(2026, 3, 13, 22, 0, 0, 0, time.UTC)

	shaped := shaper.Shape(4*time.Hour, now)
	if shaped != 8*time.Hour {
		t.Fatalf("expected interval stretched to 8h, got %v", shaped)
	}
}

func TestShapeWorkingHours(t *testing.T) {
	shaper := NewShaper(&configuration.Schedule{
		WeekendActivityFactor: factorPtr(1.0),
		WorkingHours: &configuration.WorkingHours{
			Enabled:   true,
			StartHour: 9,
			EndHour:   17,
		},
	})

	tests := []struct {
		name     string
		now      time.Time
		interval time.Duration
		want     time.Duration
	}{
		{
			name:     "target inside window is unchanged",
			now:      time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			interval: 2 * time.Hour,
			want:     2 * time.Hour,
		},
		{
			name:     "target before window waits for window start",
			now:      time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC),
			interval: 2 * time.Hour,
			want:     5 * time.Hour, // 04:00 + 5h = 09:00
		},
		{
			name:     "target after window waits for next day",
			now:      time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC),
			interval: 2 * time.Hour,
			want:     17 * time.Hour, // 16:00 + 17h = 09:00 next day
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if shaped := shaper.Shape(tt.interval, tt.now); shaped != tt.want {
				t.Errorf("expected %v, got %v", tt.want, shaped)
			}
		})
	}
}
