package analytics

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RepositoryActivity summarizes contributions for one repository.
type RepositoryActivity struct {
	Repository       string    `json:"repository" yaml:"repository"`
	Contributions    int       `json:"contributions" yaml:"contributions"`
	Commits          int       `json:"commits" yaml:"commits"`
	LastContribution time.Time `json:"lastContribution" yaml:"lastContribution"`
}

// Report aggregates the analytics store into contribution statistics.
type Report struct {
	TotalContributions int                   `json:"totalContributions" yaml:"totalContributions"`
	TotalCommits       int                   `json:"totalCommits" yaml:"totalCommits"`
	ActiveDays         int                   `json:"activeDays" yaml:"activeDays"`
	CurrentStreakDays  int                   `json:"currentStreakDays" yaml:"currentStreakDays"`
	DailyAverage       float64               `json:"dailyAverage" yaml:"dailyAverage"`
	Repositories       []*RepositoryActivity `json:"repositories" yaml:"repositories"`
}

// BuildReport computes contribution statistics from the given records.
func BuildReport(records []*Record, now time.Time) *Report {
	report := &Report{}
	if len(records) == 0 {
		return report
	}

	activity := make(map[string]*RepositoryActivity)
	days := make(map[string]bool)
	first := records[0].Timestamp

	for _, record := range records {
		report.TotalContributions++
		report.TotalCommits += record.CommitCount
		days[record.Timestamp.Format("2006-01-02")] = true

		if record.Timestamp.Before(first) {
			first = record.Timestamp
		}

		entry, ok := activity[record.Repository]
		if !ok {
			entry = &RepositoryActivity{Repository: record.Repository}
			activity[record.Repository] = entry
		}
		entry.Contributions++
		entry.Commits += record.CommitCount
		if record.Timestamp.After(entry.LastContribution) {
			entry.LastContribution = record.Timestamp
		}
	}

	report.ActiveDays = len(days)
	report.CurrentStreakDays = currentStreak(days, now)

	elapsedDays := int(now.Sub(first).Hours()/24) + 1
	if elapsedDays < 1 {
		elapsedDays = 1
	}
	report.DailyAverage = float64(report.TotalCommits) / float64(elapsedDays)

	for _, entry := range activity {
		report.Repositories = append(report.Repositories, entry)
	}
	sort.Slice(report.Repositories, func(i, j int) bool {
		return report.Repositories[i].Repository < report.Repositories[j].Repository
	})

	return report
}

// currentStreak counts consecutive active days ending today, or ending
// yesterday when today has no contribution yet.
func currentStreak(days map[string]bool, now time.Time) int {
	day := now
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for days[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak
}

// OutputTable renders the report as tables on stdout.
func (r *Report) OutputTable() {
	fmt.Println()
	fmt.Printf("🌱 Contribution Report\n")
	fmt.Printf("   Contributions: %d\n", r.TotalContributions)
	fmt.Printf("   Commits: %d\n", r.TotalCommits)
	fmt.Printf("   Active days: %d\n", r.ActiveDays)
	fmt.Printf("   Current streak: %d day(s)\n", r.CurrentStreakDays)
	fmt.Printf("   Daily average: %.2f commit(s)\n\n", r.DailyAverage)

	if len(r.Repositories) == 0 {
		fmt.Println("No contributions recorded yet")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("📊 Repository Activity")
	t.AppendHeader(table.Row{"Repository", "Contributions", "Commits", "Last Contribution"})

	for _, entry := range r.Repositories {
		t.AppendRow(table.Row{
			entry.Repository,
			entry.Contributions,
			entry.Commits,
			entry.LastContribution.Format("2006-01-02 15:04"),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
	fmt.Println()
}
