package runner

import (
	"context"
	"sync"
	"time"

	"github.com/mxcd/gardener/internal/configuration"
	"github.com/rs/zerolog/log"
)

// runParallel processes repositories with a bounded worker pool. Results keep
// the configuration order so run summaries are stable.
func (r *Runner) runParallel(ctx context.Context, lastContributions map[string]time.Time) []*RepositoryResult {
	workers := r.config.Parallel.Workers
	if workers > len(r.config.Repositories) {
		workers = len(r.config.Repositories)
	}
	if workers < 1 {
		workers = 1
	}

	log.Debug().Int("workers", workers).Msg("Processing repositories in parallel")

	type job struct {
		index      int
		repository *configuration.Repository
	}

	jobs := make(chan job)
	results := make([]*RepositoryResult, len(r.config.Repositories))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = r.processRepository(ctx, j.repository, lastContributions)
			}
		}()
	}

	for index, repository := range r.config.Repositories {
		jobs <- job{index: index, repository: repository}
	}
	close(jobs)

	wg.Wait()

	return results
}
