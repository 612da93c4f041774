package schedule

import (
	"math/rand"
	"testing"
	"time"

	"github.com/mxcd/gardener/internal/configuration"
)

func testBounds() configuration.CommitBounds {
	return configuration.CommitBounds{
		MinCommits:       1,
		MaxCommits:       5,
		MinIntervalHours: 12,
		MaxIntervalHours: 24,
	}
}

func TestDrawIntervalWithinBounds(t *testing.T) {
	tests := []struct {
		name         string
		distribution configuration.ScheduleDistribution
	}{
		{name: "uniform distribution", distribution: configuration.ScheduleDistributionUniform},
		{name: "poisson distribution", distribution: configuration.ScheduleDistributionPoisson},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := NewScheduler(
				&configuration.Schedule{Distribution: tt.distribution},
				rand.New(rand.NewSource(42)),
			)
			bounds := testBounds()

			min := time.Duration(bounds.MinIntervalHours * float64(time.Hour))
			max := time.Duration(bounds.MaxIntervalHours * float64(time.Hour))

			for i := 0; i < 1000; i++ {
				interval := scheduler.DrawInterval(bounds)
				if interval < min || interval > max {
					t.Fatalf("draw %d: interval %v outside [%v, %v]", i, interval, min, max)
				}
			}
		})
	}
}

func TestDrawIntervalEqualBounds(t *testing.T) {
	scheduler := NewScheduler(&configuration.Schedule{}, rand.New(rand.NewSource(1)))
	bounds := configuration.CommitBounds{
		MinCommits:       1,
		MaxCommits:       1,
		MinIntervalHours: 6,
		MaxIntervalHours: 6,
	}

	for i := 0; i < 100; i++ {
		if interval := scheduler.DrawInterval(bounds); interval != 6*time.Hour {
			t.Fatalf("expected exactly 6h, got %v", interval)
		}
	}
}

func TestDrawCommitCountWithinBounds(t *testing.T) {
	scheduler := NewScheduler(&configuration.Schedule{}, rand.New(rand.NewSource(7)))
	bounds := testBounds()

	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		count := scheduler.DrawCommitCount(bounds)
		if count < bounds.MinCommits || count > bounds.MaxCommits {
			t.Fatalf("commit count %d outside [%d, %d]", count, bounds.MinCommits, bounds.MaxCommits)
		}
		seen[count] = true
	}

	// Both bounds are inclusive and must be reachable.
	if !seen[bounds.MinCommits] {
		t.Errorf("minimum commit count %d never drawn", bounds.MinCommits)
	}
	if !seen[bounds.MaxCommits] {
		t.Errorf("maximum commit count %d never drawn", bounds.MaxCommits)
	}
}

func TestDecide(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	longAgo := now.Add(-48 * time.Hour)
	justNow := now.Add(-time.Minute)

	tests := []struct {
		name             string
		lastContribution *time.Time
		wantContribute   bool
	}{
		{name: "never contributed", lastContribution: nil, wantContribute: true},
		{name: "interval elapsed", lastContribution: &longAgo, wantContribute: true},
		{name: "interval not elapsed", lastContribution: &justNow, wantContribute: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := NewScheduler(&configuration.Schedule{}, rand.New(rand.NewSource(3)))

			decision := scheduler.Decide(tt.lastContribution, now, testBounds())

			if decision.Contribute != tt.wantContribute {
				t.Fatalf("expected contribute=%v, got %v", tt.wantContribute, decision.Contribute)
			}
			if decision.Contribute && decision.CommitCount < 1 {
				t.Errorf("expected at least 1 commit, got %d", decision.CommitCount)
			}
			if !decision.Contribute && decision.Reason == "" {
				t.Error("expected a skip reason")
			}
		})
	}
}
