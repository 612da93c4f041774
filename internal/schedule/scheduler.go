package schedule

import (
	"math"
	"math/rand"
	"time"

	"github.com/mxcd/gardener/internal/configuration"
	"github.com/rs/zerolog/log"
)

// Decision is the outcome of asking the scheduler whether a repository is due
// for a contribution run. It carries no side effects; the caller updates the
// last-contribution timestamp only after a successful push.
type Decision struct {
	Contribute  bool
	CommitCount int
	// Interval is the drawn (and shaped) interval the decision was based on.
	Interval time.Duration
	// Reason explains a skip for logging and run summaries.
	Reason string
}

// Scheduler draws contribution intervals and commit counts from configured
// bounds. The random source is injectable for deterministic tests.
type Scheduler struct {
	rng    *rand.Rand
	config *configuration.Schedule
	shaper *Shaper
}

func NewScheduler(config *configuration.Schedule, rng *rand.Rand) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scheduler{
		rng:    rng,
		config: config,
		shaper: NewShaper(config),
	}
}

// Decide determines whether a contribution should happen now for a repository
// with the given bounds, and how many commits it should produce.
// A nil lastContribution means the repository has never been contributed to
// and is always due.
func (s *Scheduler) Decide(lastContribution *time.Time, now time.Time, bounds configuration.CommitBounds) Decision {
	interval := s.shaper.Shape(s.DrawInterval(bounds), now)

	if lastContribution != nil {
		elapsed := now.Sub(*lastContribution)
		if elapsed < interval {
			log.Debug().
				Dur("elapsed", elapsed).
				Dur("interval", interval).
				Msg("Repository not due yet")
			return Decision{
				Contribute: false,
				Interval:   interval,
				Reason:     "interval not elapsed",
			}
		}
	}

	return Decision{
		Contribute:  true,
		CommitCount: s.DrawCommitCount(bounds),
		Interval:    interval,
	}
}

// DrawInterval draws an interval within [minIntervalHours, maxIntervalHours].
// The uniform distribution samples the range directly; the poisson
// distribution samples exponential inter-arrival times around the range
// midpoint, clamped back into the configured bounds.
func (s *Scheduler) DrawInterval(bounds configuration.CommitBounds) time.Duration {
	min := bounds.MinIntervalHours
	max := bounds.MaxIntervalHours

	var hours float64
	if s.config != nil && s.config.Distribution == configuration.ScheduleDistributionPoisson {
		mean := (min + max) / 2
		if mean <= 0 {
			hours = min
		} else {
			hours = s.drawExponential(mean)
			hours = math.Min(math.Max(hours, min), max)
		}
	} else {
		hours = min + s.rng.Float64()*(max-min)
	}

	return time.Duration(hours * float64(time.Hour))
}

// DrawCommitCount draws a commit count uniformly within [minCommits, maxCommits].
func (s *Scheduler) DrawCommitCount(bounds configuration.CommitBounds) int {
	if bounds.MaxCommits <= bounds.MinCommits {
		return bounds.MinCommits
	}
	return bounds.MinCommits + s.rng.Intn(bounds.MaxCommits-bounds.MinCommits+1)
}

// drawExponential samples an exponentially distributed value with the given
// mean, the inter-arrival time of a Poisson process.
func (s *Scheduler) drawExponential(mean float64) float64 {
	u := s.rng.Float64()
	for u == 0 {
		u = s.rng.Float64()
	}
	return -mean * math.Log(u)
}
