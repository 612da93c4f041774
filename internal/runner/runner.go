package runner

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mxcd/gardener/internal/analytics"
	"github.com/mxcd/gardener/internal/configuration"
	"github.com/mxcd/gardener/internal/content"
	"github.com/mxcd/gardener/internal/gitops"
	"github.com/mxcd/gardener/internal/notify"
	"github.com/mxcd/gardener/internal/schedule"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

type Outcome string

const (
	OutcomeContributed Outcome = "contributed"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeFailed      Outcome = "failed"
)

// RepositoryResult is the outcome of processing one repository during a run.
type RepositoryResult struct {
	Repository  string
	Outcome     Outcome
	CommitCount int
	Files       []string
	Strategy    string
	Reason      string
	Err         error
}

// RunResult aggregates the outcomes of one run over all repositories.
type RunResult struct {
	Results     []*RepositoryResult
	Contributed int
	Skipped     int
	Failed      int
}

func (r *RunResult) HasFailures() bool {
	return r.Failed > 0
}

// Runner drives one contribution run: it asks the scheduler which
// repositories are due, generates content for them, commits and pushes, and
// records the outcome. A failure in one repository never aborts the others.
type Runner struct {
	config    *configuration.Config
	scheduler *schedule.Scheduler
	chain     *content.Chain
	committer *gitops.Committer
	store     *analytics.Store
	notifier  *notify.Manager
	rng       *rand.Rand
	now       func() time.Time
}

// lockedSource serializes access to the random source. The scheduler, the
// content chain, and buildRequest all share one generator, and parallel
// workers draw from it concurrently.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

func NewRunner(config *configuration.Config) *Runner {
	rng := rand.New(&lockedSource{src: rand.NewSource(time.Now().UnixNano())})

	runner := &Runner{
		config:    config,
		scheduler: schedule.NewScheduler(config.Schedule, rng),
		chain:     content.NewChain(config.Content, rng),
		committer: gitops.NewCommitter(config.SplitCommits, config.Push),
		notifier:  notify.NewManager(config.Notifications),
		rng:       rng,
		now:       time.Now,
	}

	if config.Analytics != nil && config.Analytics.Enabled {
		runner.store = analytics.NewStore(config.Analytics.Path)
	}

	return runner
}

// Run processes all configured repositories once.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	log.Debug().Int("count", len(r.config.Repositories)).Msg("Starting contribution run")

	lastContributions, err := r.lastContributions()
	if err != nil {
		return nil, err
	}

	var results []*RepositoryResult
	if r.config.Parallel != nil && r.config.Parallel.Enabled {
		results = r.runParallel(ctx, lastContributions)
	} else {
		results = r.runSequential(ctx, lastContributions)
	}

	result := &RunResult{Results: results}
	for _, repositoryResult := range results {
		switch repositoryResult.Outcome {
		case OutcomeContributed:
			result.Contributed++
		case OutcomeSkipped:
			result.Skipped++
		case OutcomeFailed:
			result.Failed++
		}
	}

	summary := fmt.Sprintf("%d contributed, %d skipped, %d failed", result.Contributed, result.Skipped, result.Failed)
	if result.HasFailures() {
		r.notifier.Warning("Contribution run completed", summary, "")
	} else {
		r.notifier.Info("Contribution run completed", summary, "")
	}

	return result, nil
}

func (r *Runner) runSequential(ctx context.Context, lastContributions map[string]time.Time) []*RepositoryResult {
	bar := progressbar.NewOptions(len(r.config.Repositories),
		progressbar.OptionSetDescription("Processing repositories:"),
		progressbar.OptionSetItsString("repo"),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	results := make([]*RepositoryResult, 0, len(r.config.Repositories))
	for _, repository := range r.config.Repositories {
		bar.Add(1)
		results = append(results, r.processRepository(ctx, repository, lastContributions))
	}

	bar.Finish()
	fmt.Printf("\n")

	return results
}

// processRepository runs the full pipeline for one repository: schedule
// decision, working copy sync, content generation, commits, push, record.
func (r *Runner) processRepository(ctx context.Context, repository *configuration.Repository, lastContributions map[string]time.Time) *RepositoryResult {
	now := r.now()
	bounds := r.config.BoundsFor(repository)

	var last *time.Time
	if timestamp, ok := lastContributions[repository.Name]; ok {
		last = &timestamp
	}

	decision := r.scheduler.Decide(last, now, bounds)
	if !decision.Contribute {
		log.Debug().
			Str("repository", repository.Name).
			Str("reason", decision.Reason).
			Msg("Skipping repository")
		r.notifier.Info("Repository skipped", decision.Reason, repository.Name)
		return &RepositoryResult{
			Repository: repository.Name,
			Outcome:    OutcomeSkipped,
			Reason:     decision.Reason,
		}
	}

	gitRepository := gitops.NewRepository(repository, r.config.Actor)
	if err := gitRepository.Ensure(); err != nil {
		return r.failed(repository.Name, fmt.Errorf("failed to prepare working copy: %w", err))
	}

	profile := r.analyzeRepository(repository)

	artifacts := make([]*content.Artifact, 0, decision.CommitCount)
	strategies := make(map[string]bool)
	aiFellBack := false

	for i := 0; i < decision.CommitCount; i++ {
		request := r.buildRequest(repository.Name, profile)
		generated := r.chain.Generate(ctx, request)

		artifacts = append(artifacts, generated.Artifact)
		strategies[generated.Strategy] = true
		if generated.FellBack && r.aiConfigured() {
			aiFellBack = true
		}
	}

	if aiFellBack {
		r.notifier.Error(
			"AI content generation fell back",
			"AI service unavailable, used local generation instead",
			repository.Name,
		)
	}

	commitResult, err := r.committer.Contribute(gitRepository, artifacts)
	if err != nil {
		r.notifier.Error("Contribution failed", err.Error(), repository.Name)
		return r.failed(repository.Name, err)
	}

	if len(commitResult.Hashes) == 0 {
		return &RepositoryResult{
			Repository: repository.Name,
			Outcome:    OutcomeSkipped,
			Reason:     "no changes to commit",
		}
	}

	result := &RepositoryResult{
		Repository:  repository.Name,
		Outcome:     OutcomeContributed,
		CommitCount: len(commitResult.Hashes),
		Files:       commitResult.Files,
		Strategy:    joinStrategies(strategies),
	}

	if r.store != nil {
		record := &analytics.Record{
			Repository:  repository.Name,
			Timestamp:   now,
			CommitCount: len(commitResult.Hashes),
			Hashes:      commitResult.Hashes,
			Files:       commitResult.Files,
			Strategy:    result.Strategy,
		}
		if err := r.store.Append(record); err != nil {
			log.Warn().Err(err).Str("repository", repository.Name).Msg("Failed to record contribution")
		}
	}

	log.Info().
		Str("repository", repository.Name).
		Int("commits", result.CommitCount).
		Str("strategy", result.Strategy).
		Msg("Contribution pushed")

	return result
}

// buildRequest picks the content type and language for one artifact. The
// language is biased towards the repository's dominant language when the
// working copy analysis found one among the configured languages.
func (r *Runner) buildRequest(repository string, profile *content.RepositoryProfile) *content.Request {
	contentConfig := r.config.Content

	contentType := contentConfig.Types[r.rng.Intn(len(contentConfig.Types))]
	language := contentConfig.Languages[r.rng.Intn(len(contentConfig.Languages))]

	if profile != nil && profile.DominantLanguage != "" {
		for _, candidate := range contentConfig.Languages {
			if strings.EqualFold(candidate, profile.DominantLanguage) {
				language = candidate
				break
			}
		}
	}

	return &content.Request{
		Repository: repository,
		Type:       contentType,
		Language:   language,
		Complexity: contentConfig.Complexity,
		Analysis:   profile,
	}
}

// analyzeRepository profiles the working copy when analysis is enabled.
// Analysis failures only cost the generation bias, never the contribution.
func (r *Runner) analyzeRepository(repository *configuration.Repository) *content.RepositoryProfile {
	if r.config.Content.Analysis == nil || !r.config.Content.Analysis.Enabled {
		return nil
	}

	profile, err := content.AnalyzeWorkingCopy(repository.Path)
	if err != nil {
		log.Warn().Err(err).Str("repository", repository.Name).Msg("Failed to analyze working copy")
		return nil
	}

	return profile
}

func (r *Runner) lastContributions() (map[string]time.Time, error) {
	if r.store == nil {
		return map[string]time.Time{}, nil
	}

	lastContributions, err := r.store.LastContributions()
	if err != nil {
		return nil, fmt.Errorf("failed to read contribution history: %w", err)
	}

	return lastContributions, nil
}

func (r *Runner) aiConfigured() bool {
	return r.config.Content.AI != nil && r.config.Content.AI.Enabled
}

func (r *Runner) failed(repository string, err error) *RepositoryResult {
	log.Error().Err(err).Str("repository", repository).Msg("Failed to process repository")
	return &RepositoryResult{
		Repository: repository,
		Outcome:    OutcomeFailed,
		Err:        err,
	}
}

func joinStrategies(strategies map[string]bool) string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
