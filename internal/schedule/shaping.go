package schedule

import (
	"time"

	"github.com/mxcd/gardener/internal/configuration"
)

// Shaper applies working-hours and weekend shaping to a drawn interval.
//
// Shaping modulates the interval draw only, never the commit-count draw:
// an interval whose projected contribution time lands outside the configured
// working window is stretched forward to the next window start, and one that
// lands on a weekend is scaled by the inverse of the weekend activity factor.
type Shaper struct {
	config *configuration.Schedule
}

func NewShaper(config *configuration.Schedule) *Shaper {
	return &Shaper{config: config}
}

// Shape returns the shaped interval given the time the draw is made.
// With no schedule section configured, the interval passes through unchanged.
func (s *Shaper) Shape(interval time.Duration, now time.Time) time.Duration {
	if s.config == nil {
		return interval
	}

	shaped := interval
	target := now.Add(shaped)

	if factor := s.config.WeekendActivityFactor; factor != nil && *factor > 0 && *factor < 1 && isWeekend(target) {
		shaped = time.Duration(float64(shaped) / *factor)
		target = now.Add(shaped)
	}

	if workingHours := s.config.WorkingHours; workingHours != nil && workingHours.Enabled {
		shaped += untilWorkingWindow(target, workingHours)
	}

	return shaped
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// untilWorkingWindow returns how much longer to wait from the target time
// until it falls inside [startHour, endHour). Zero when already inside.
func untilWorkingWindow(target time.Time, workingHours *configuration.WorkingHours) time.Duration {
	hour := target.Hour()
	if hour >= workingHours.StartHour && hour < workingHours.EndHour {
		return 0
	}

	windowStart := time.Date(target.Year(), target.Month(), target.Day(), workingHours.StartHour, 0, 0, 0, target.Location())
	if hour >= workingHours.EndHour {
		windowStart = windowStart.Add(24 * time.Hour)
	}

	return windowStart.Sub(target)
}
