package configuration

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains the results of configuration validation
type ValidationResult struct {
	Valid  bool
	Errors []*ValidationError
}

// AddError adds a validation error to the result
func (r *ValidationResult) AddError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{
		Field:   field,
		Message: message,
	})
}

// ValidateConfiguration performs validation on the configuration. It must be
// called (and pass) before any repository is processed: invalid bounds are a
// fatal configuration error, not a per-repository one.
func ValidateConfiguration(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: make([]*ValidationError, 0),
	}

	// Validate actor
	if config.Actor == nil {
		result.AddError("actor", "actor section is required")
	} else {
		if strings.TrimSpace(config.Actor.Name) == "" {
			result.AddError("actor.name", "actor name cannot be empty")
		}
		if strings.TrimSpace(config.Actor.Email) == "" {
			result.AddError("actor.email", "actor email cannot be empty")
		}
	}

	// Validate repositories
	if len(config.Repositories) == 0 {
		result.AddError("repositories", "at least one repository is required")
	}

	repositoryNames := make(map[string]bool)
	for i, repository := range config.Repositories {
		fieldPrefix := fmt.Sprintf("repositories[%d]", i)

		if strings.TrimSpace(repository.Name) == "" {
			result.AddError(fmt.Sprintf("%s.name", fieldPrefix), "repository name cannot be empty")
		} else {
			if len(strings.Split(repository.Name, "/")) != 2 {
				result.AddError(fmt.Sprintf("%s.name", fieldPrefix), fmt.Sprintf("repository name must be in owner/repo format: %s", repository.Name))
			}
			if repositoryNames[repository.Name] {
				result.AddError(fmt.Sprintf("%s.name", fieldPrefix), fmt.Sprintf("duplicate repository name: %s", repository.Name))
			}
			repositoryNames[repository.Name] = true
		}

		if config.Commits != nil {
			validateBounds(result, fieldPrefix, config.BoundsFor(repository))
		}
	}

	// Validate global bounds
	if config.Commits == nil {
		result.AddError("commits", "commits section is required")
	} else {
		validateBounds(result, "commits", *config.Commits)
	}

	// Validate schedule
	if config.Schedule != nil {
		if !isValidDistribution(config.Schedule.Distribution) {
			result.AddError("schedule.distribution", fmt.Sprintf("invalid distribution: %s", config.Schedule.Distribution))
		}
		if factor := config.Schedule.WeekendActivityFactor; factor != nil && *factor < 0 {
			result.AddError("schedule.weekendActivityFactor", "weekend activity factor cannot be negative")
		}
		if workingHours := config.Schedule.WorkingHours; workingHours != nil && workingHours.Enabled {
			if workingHours.StartHour < 0 || workingHours.StartHour > 23 {
				result.AddError("schedule.workingHours.startHour", "start hour must be between 0 and 23")
			}
			if workingHours.EndHour < 1 || workingHours.EndHour > 24 {
				result.AddError("schedule.workingHours.endHour", "end hour must be between 1 and 24")
			}
			if workingHours.StartHour >= workingHours.EndHour {
				result.AddError("schedule.workingHours", "start hour must be before end hour")
			}
		}
	}

	// Validate content generation
	if config.Content != nil {
		for j, contentType := range config.Content.Types {
			if !isValidContentType(contentType) {
				result.AddError(fmt.Sprintf("content.types[%d]", j), fmt.Sprintf("invalid content type: %s", contentType))
			}
		}
		if config.Content.Complexity != "" && !isValidComplexity(config.Content.Complexity) {
			result.AddError("content.complexity", fmt.Sprintf("invalid complexity: %s", config.Content.Complexity))
		}
		if markov := config.Content.Markov; markov != nil {
			if markov.Weight < 0 || markov.Weight > 1 {
				result.AddError("content.markov.weight", "markov weight must be between 0 and 1")
			}
			if strings.TrimSpace(markov.CorpusPath) == "" {
				result.AddError("content.markov.corpusPath", "corpusPath is required when markov generation is configured")
			}
		}
		if ai := config.Content.AI; ai != nil && ai.Enabled {
			if strings.TrimSpace(ai.Endpoint) == "" {
				result.AddError("content.ai.endpoint", "endpoint is required when AI generation is enabled")
			}
			if ai.MaxRetries != nil && *ai.MaxRetries < 0 {
				result.AddError("content.ai.maxRetries", "maxRetries cannot be negative")
			}
			if ai.TimeoutSeconds < 1 {
				result.AddError("content.ai.timeoutSeconds", "timeoutSeconds must be at least 1")
			}
		}
	}

	// Validate split commits
	if config.SplitCommits != nil && config.SplitCommits.Enabled {
		if config.SplitCommits.MaxLinesPerCommit < 1 {
			result.AddError("splitCommits.maxLinesPerCommit", "maxLinesPerCommit must be at least 1")
		}
	}

	// Validate push handling
	if config.Push != nil && config.Push.PullRetries < 0 {
		result.AddError("push.pullRetries", "pullRetries cannot be negative")
	}

	// Validate parallel fan-out
	if config.Parallel != nil && config.Parallel.Enabled && config.Parallel.Workers < 1 {
		result.AddError("parallel.workers", "workers must be at least 1 when parallel processing is enabled")
	}

	// Validate notifications
	if config.Notifications != nil {
		if config.Notifications.MinLevel != "" && !isValidNotificationLevel(config.Notifications.MinLevel) {
			result.AddError("notifications.minLevel", fmt.Sprintf("invalid notification level: %s", config.Notifications.MinLevel))
		}
		for j, webhook := range config.Notifications.Webhooks {
			fieldPrefix := fmt.Sprintf("notifications.webhooks[%d]", j)
			if strings.TrimSpace(webhook.URL) == "" {
				result.AddError(fmt.Sprintf("%s.url", fieldPrefix), "webhook URL cannot be empty")
			}
			if webhook.MinLevel != "" && !isValidNotificationLevel(webhook.MinLevel) {
				result.AddError(fmt.Sprintf("%s.minLevel", fieldPrefix), fmt.Sprintf("invalid notification level: %s", webhook.MinLevel))
			}
		}
	}

	return result
}

// validateBounds checks the commit count and interval bounds for a repository
// or for the global commits section.
func validateBounds(result *ValidationResult, fieldPrefix string, bounds CommitBounds) {
	if bounds.MinCommits < 1 {
		result.AddError(fmt.Sprintf("%s.minCommits", fieldPrefix), "minCommits must be at least 1")
	}
	if bounds.MaxCommits < bounds.MinCommits {
		result.AddError(fmt.Sprintf("%s.maxCommits", fieldPrefix), fmt.Sprintf("maxCommits (%d) must not be less than minCommits (%d)", bounds.MaxCommits, bounds.MinCommits))
	}
	if bounds.MinIntervalHours < 0 {
		result.AddError(fmt.Sprintf("%s.minIntervalHours", fieldPrefix), "minIntervalHours cannot be negative")
	}
	if bounds.MaxIntervalHours < bounds.MinIntervalHours {
		result.AddError(fmt.Sprintf("%s.maxIntervalHours", fieldPrefix), fmt.Sprintf("maxIntervalHours (%g) must not be less than minIntervalHours (%g)", bounds.MaxIntervalHours, bounds.MinIntervalHours))
	}
}

// isValidDistribution checks if the schedule distribution is valid
func isValidDistribution(distribution ScheduleDistribution) bool {
	switch distribution {
	case ScheduleDistributionUniform, ScheduleDistributionPoisson:
		return true
	default:
		return false
	}
}

// isValidContentType checks if the content type is valid
func isValidContentType(contentType ContentType) bool {
	switch contentType {
	case ContentTypeCode, ContentTypeDocs, ContentTypeConfig:
		return true
	default:
		return false
	}
}

// isValidComplexity checks if the complexity tier is valid
func isValidComplexity(complexity ContentComplexity) bool {
	switch complexity {
	case ContentComplexityLow, ContentComplexityMedium, ContentComplexityHigh:
		return true
	default:
		return false
	}
}

// isValidNotificationLevel checks if the notification level is valid
func isValidNotificationLevel(level NotificationLevel) bool {
	switch level {
	case NotificationLevelInfo, NotificationLevelWarning, NotificationLevelError:
		return true
	default:
		return false
	}
}
