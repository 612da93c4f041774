package configuration

type Config struct {
	Actor         *Actor         `yaml:"actor"`
	Repositories  []*Repository  `yaml:"repositories"`
	Commits       *CommitBounds  `yaml:"commits,omitempty"`
	Schedule      *Schedule      `yaml:"schedule,omitempty"`
	Content       *Content       `yaml:"content,omitempty"`
	SplitCommits  *SplitCommits  `yaml:"splitCommits,omitempty"`
	Push          *Push          `yaml:"push,omitempty"`
	Parallel      *Parallel      `yaml:"parallel,omitempty"`
	Analytics     *Analytics     `yaml:"analytics,omitempty"`
	Notifications *Notifications `yaml:"notifications,omitempty"`
}

// Actor is the identity used for commits and for authenticating pushes.
type Actor struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Token string `yaml:"token,omitempty"`
}

// Repository is a contribution target. Commit and interval bounds default to
// the global commits section and may be overridden per repository.
type Repository struct {
	Name             string   `yaml:"name"` // owner/repo
	Path             string   `yaml:"path,omitempty"`
	Branch           string   `yaml:"branch,omitempty"`
	MinCommits       *int     `yaml:"minCommits,omitempty"`
	MaxCommits       *int     `yaml:"maxCommits,omitempty"`
	MinIntervalHours *float64 `yaml:"minIntervalHours,omitempty"`
	MaxIntervalHours *float64 `yaml:"maxIntervalHours,omitempty"`
}

type CommitBounds struct {
	MinCommits       int     `yaml:"minCommits"`
	MaxCommits       int     `yaml:"maxCommits"`
	MinIntervalHours float64 `yaml:"minIntervalHours"`
	MaxIntervalHours float64 `yaml:"maxIntervalHours"`
}

type ScheduleDistribution string

const (
	ScheduleDistributionUniform ScheduleDistribution = "uniform"
	ScheduleDistributionPoisson ScheduleDistribution = "poisson"
)

// Schedule shapes interval draws. WeekendActivityFactor is a pointer so an
// explicit 0 (no weekend activity) is distinguishable from unset.
type Schedule struct {
	Distribution          ScheduleDistribution `yaml:"distribution,omitempty"`
	WorkingHours          *WorkingHours        `yaml:"workingHours,omitempty"`
	WeekendActivityFactor *float64             `yaml:"weekendActivityFactor,omitempty"`
}

type WorkingHours struct {
	Enabled   bool `yaml:"enabled"`
	StartHour int  `yaml:"startHour"`
	EndHour   int  `yaml:"endHour"`
}

type ContentType string

const (
	ContentTypeCode   ContentType = "code"
	ContentTypeDocs   ContentType = "docs"
	ContentTypeConfig ContentType = "config"
)

type ContentComplexity string

const (
	ContentComplexityLow    ContentComplexity = "low"
	ContentComplexityMedium ContentComplexity = "medium"
	ContentComplexityHigh   ContentComplexity = "high"
)

type Content struct {
	Types      []ContentType     `yaml:"types,omitempty"`
	Languages  []string          `yaml:"languages,omitempty"`
	Complexity ContentComplexity `yaml:"complexity,omitempty"`
	Markov     *Markov           `yaml:"markov,omitempty"`
	AI         *AIService        `yaml:"ai,omitempty"`
	Analysis   *Analysis         `yaml:"analysis,omitempty"`
}

// Markov configures the local Markov-chain text generator. Weight is the
// probability of preferring it over templates when the AI service is not used.
type Markov struct {
	Weight     float64 `yaml:"weight,omitempty"`
	CorpusPath string  `yaml:"corpusPath,omitempty"`
}

// AIService configures the remote content service. MaxRetries is a pointer so
// an explicit 0 (fail straight to fallback) is distinguishable from unset.
type AIService struct {
	Enabled        bool   `yaml:"enabled"`
	Endpoint       string `yaml:"endpoint,omitempty"`
	APIKey         string `yaml:"apiKey,omitempty"`
	MaxRetries     *int   `yaml:"maxRetries,omitempty"`
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"`
}

type Analysis struct {
	Enabled bool `yaml:"enabled"`
}

type SplitCommits struct {
	Enabled           bool   `yaml:"enabled"`
	MaxLinesPerCommit int    `yaml:"maxLinesPerCommit,omitempty"`
	MessagePrefix     string `yaml:"messagePrefix,omitempty"`
}

// Push controls push failure handling. PullRetries is the number of
// pull-and-retry attempts after a rejected push.
type Push struct {
	PullRetries int `yaml:"pullRetries,omitempty"`
}

type Parallel struct {
	Enabled bool `yaml:"enabled"`
	Workers int  `yaml:"workers,omitempty"`
}

type Analytics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

type NotificationLevel string

const (
	NotificationLevelInfo    NotificationLevel = "info"
	NotificationLevelWarning NotificationLevel = "warning"
	NotificationLevelError   NotificationLevel = "error"
)

type Notifications struct {
	MinLevel NotificationLevel `yaml:"minLevel,omitempty"`
	Webhooks []*Webhook        `yaml:"webhooks,omitempty"`
}

type Webhook struct {
	URL      string            `yaml:"url"`
	MinLevel NotificationLevel `yaml:"minLevel,omitempty"`
}
