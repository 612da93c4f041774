package configuration

import (
	"path/filepath"
	"strings"
)

const (
	DefaultMinCommits       = 1
	DefaultMaxCommits       = 3
	DefaultMinIntervalHours = 12.0
	DefaultMaxIntervalHours = 24.0

	DefaultAIMaxRetries     = 3
	DefaultAITimeoutSeconds = 15
	DefaultMarkovWeight     = 0.3
	DefaultPullRetries      = 2
	DefaultParallelWorkers  = 4
	DefaultAnalyticsPath    = "contributions.jsonl"
	DefaultRepositoryDir    = "repos"
)

// ApplyDefaults fills unset optional sections and fields with documented
// defaults. It is called by LoadConfiguration after parsing and substitution,
// so the rest of the program can treat the configuration as fully populated.
func ApplyDefaults(config *Config) {
	if config.Commits == nil {
		config.Commits = &CommitBounds{
			MinCommits:       DefaultMinCommits,
			MaxCommits:       DefaultMaxCommits,
			MinIntervalHours: DefaultMinIntervalHours,
			MaxIntervalHours: DefaultMaxIntervalHours,
		}
	}

	if config.Schedule == nil {
		config.Schedule = &Schedule{}
	}
	if config.Schedule.Distribution == "" {
		config.Schedule.Distribution = ScheduleDistributionUniform
	}
	if config.Schedule.WeekendActivityFactor == nil {
		factor := 1.0
		config.Schedule.WeekendActivityFactor = &factor
	}

	if config.Content == nil {
		config.Content = &Content{}
	}
	if len(config.Content.Types) == 0 {
		config.Content.Types = []ContentType{ContentTypeCode, ContentTypeDocs}
	}
	if len(config.Content.Languages) == 0 {
		config.Content.Languages = []string{"go", "python", "markdown"}
	}
	if config.Content.Complexity == "" {
		config.Content.Complexity = ContentComplexityLow
	}
	if config.Content.Markov != nil && config.Content.Markov.Weight == 0 {
		config.Content.Markov.Weight = DefaultMarkovWeight
	}
	if config.Content.AI != nil {
		if config.Content.AI.MaxRetries == nil {
			retries := DefaultAIMaxRetries
			config.Content.AI.MaxRetries = &retries
		}
		if config.Content.AI.TimeoutSeconds == 0 {
			config.Content.AI.TimeoutSeconds = DefaultAITimeoutSeconds
		}
	}

	if config.Push == nil {
		config.Push = &Push{PullRetries: DefaultPullRetries}
	}

	if config.Parallel == nil {
		config.Parallel = &Parallel{}
	}
	if config.Parallel.Workers == 0 {
		config.Parallel.Workers = DefaultParallelWorkers
	}

	if config.Analytics == nil {
		config.Analytics = &Analytics{}
	}
	if config.Analytics.Path == "" {
		config.Analytics.Path = DefaultAnalyticsPath
	}

	if config.Notifications == nil {
		config.Notifications = &Notifications{}
	}
	if config.Notifications.MinLevel == "" {
		config.Notifications.MinLevel = NotificationLevelInfo
	}

	for _, repository := range config.Repositories {
		if repository.Branch == "" {
			repository.Branch = "main"
		}
		if repository.Path == "" {
			repository.Path = filepath.Join(DefaultRepositoryDir, strings.ReplaceAll(repository.Name, "/", "_"))
		}
	}
}

// BoundsFor resolves the effective commit and interval bounds for a
// repository, applying per-repository overrides over the global section.
func (c *Config) BoundsFor(repository *Repository) CommitBounds {
	bounds := *c.Commits

	if repository.MinCommits != nil {
		bounds.MinCommits = *repository.MinCommits
	}
	if repository.MaxCommits != nil {
		bounds.MaxCommits = *repository.MaxCommits
	}
	if repository.MinIntervalHours != nil {
		bounds.MinIntervalHours = *repository.MinIntervalHours
	}
	if repository.MaxIntervalHours != nil {
		bounds.MaxIntervalHours = *repository.MaxIntervalHours
	}

	return bounds
}
