package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/mxcd/gardener/internal/analytics"
	"github.com/mxcd/gardener/internal/configuration"
	"github.com/mxcd/gardener/internal/runner"
	"github.com/mxcd/gardener/internal/schedule"
	"github.com/mxcd/gardener/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

var version = "development"

func main() {

	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{},
		Usage:   "print only the version",
	}

	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   ".gardenerconfig.yml",
		Sources: cli.EnvVars("GARDENER_CONFIG"),
	}

	cmd := &cli.Command{
		Name:    "gardener",
		Version: version,
		Usage:   "Keeps repositories green with scheduled contributions",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug output",
				Sources: cli.EnvVars("GARDENER_VERBOSE"),
			},
			&cli.BoolFlag{
				Name:    "very-verbose",
				Aliases: []string{"vv"},
				Usage:   "trace output",
				Sources: cli.EnvVars("GARDENER_VERY_VERBOSE"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return initCli(ctx, cmd)
		},
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate configuration",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output format: table, json, yaml",
						Value: "table",
					},
				},
				Action: validateCommand,
			},
			{
				Name:   "run",
				Usage:  "Process all repositories once",
				Flags:  []cli.Flag{configFlag},
				Action: runCommand,
			},
			{
				Name:   "daemon",
				Usage:  "Run continuously on a randomized cadence",
				Flags:  []cli.Flag{configFlag},
				Action: daemonCommand,
			},
			{
				Name:  "report",
				Usage: "Show contribution statistics",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output format: table, json, yaml",
						Value: "table",
					},
				},
				Action: reportCommand,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("command terminated with error")
	}
}

func initCli(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	godotenv.Load()
	util.SetCliLoggerDefaults()
	util.SetCliLogLevel(cmd)
	log.Trace().Msg("Trace logging enabled")
	log.Debug().Msg("Debug logging enabled")
	log.Info().Msg("Info logging enabled")

	return ctx, nil
}

// loadValidConfiguration loads the configuration and fails on validation
// errors. All commands that act on repositories go through this path.
func loadValidConfiguration(configPath string) (*configuration.Config, error) {
	config, err := configuration.LoadConfiguration(configPath)
	if err != nil {
		return nil, fmt.Errorf("configuration load error: %w", err)
	}

	validationResult := configuration.ValidateConfiguration(config)
	if !validationResult.Valid {
		for _, validationErr := range validationResult.Errors {
			log.Error().Str("field", validationErr.Field).Msg(validationErr.Message)
		}
		return nil, fmt.Errorf("configuration validation failed")
	}

	if config.Actor != nil && config.Actor.Token == "" {
		config.Actor.Token = os.Getenv("GITHUB_TOKEN")
	}

	return config, nil
}

func validateCommand(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	outputFormat := cmd.String("output")

	log.Info().Str("config", configPath).Msg("Loading configuration...")

	config, err := configuration.LoadConfiguration(configPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return cli.Exit(fmt.Sprintf("Configuration load error: %v", err), 3)
	}

	log.Debug().Msg("Configuration loaded successfully")

	validationResult := configuration.ValidateConfiguration(config)

	if err := outputValidationResult(validationResult, outputFormat); err != nil {
		log.Error().Err(err).Msg("Failed to output validation results")
		return cli.Exit(fmt.Sprintf("Output error: %v", err), 1)
	}

	if !validationResult.Valid {
		return cli.Exit("Configuration validation failed", 3)
	}

	log.Info().Msg("Configuration is valid")
	return nil
}

func outputValidationResult(result *configuration.ValidationResult, format string) error {
	switch format {
	case "table":
		return outputValidationTable(result)
	case "json":
		return outputValidationJSON(result)
	case "yaml":
		return outputValidationYAML(result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func outputValidationTable(result *configuration.ValidationResult) error {
	if result.Valid {
		fmt.Println("✓ Configuration is valid")
		return nil
	}

	fmt.Println("✗ Configuration validation failed:")
	fmt.Println()
	for _, err := range result.Errors {
		fmt.Printf("  • %s\n", err.Error())
	}
	fmt.Printf("\nTotal errors: %d\n", len(result.Errors))
	return nil
}

func outputValidationJSON(result *configuration.ValidationResult) error {
	output := map[string]interface{}{
		"valid":      result.Valid,
		"errorCount": len(result.Errors),
		"errors":     result.Errors,
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputValidationYAML(result *configuration.ValidationResult) error {
	output := map[string]interface{}{
		"valid":      result.Valid,
		"errorCount": len(result.Errors),
		"errors":     result.Errors,
	}
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	return encoder.Encode(output)
}

func runCommand(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	log.Info().Str("config", configPath).Msg("Loading configuration...")

	config, err := loadValidConfiguration(configPath)
	if err != nil {
		return cli.Exit(err.Error(), 3)
	}

	log.Info().Msg("Configuration is valid")

	runResult, err := runner.NewRunner(config).Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Contribution run failed")
		return cli.Exit(fmt.Sprintf("Run error: %v", err), 1)
	}

	outputRunTable(runResult)

	log.Info().
		Int("contributed", runResult.Contributed).
		Int("skipped", runResult.Skipped).
		Int("failed", runResult.Failed).
		Msg("Contribution run completed")

	if runResult.HasFailures() {
		return cli.Exit("Some repositories failed", 1)
	}

	return nil
}

func outputRunTable(result *runner.RunResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("🌱 Contribution Run")
	t.AppendHeader(table.Row{"Repository", "Status", "Commits", "Strategy", "Details"})

	for _, repositoryResult := range result.Results {
		var status, details string
		switch repositoryResult.Outcome {
		case runner.OutcomeContributed:
			status = "✅ Contributed"
		case runner.OutcomeSkipped:
			status = "⏭️  Skipped"
			details = repositoryResult.Reason
		case runner.OutcomeFailed:
			status = "❌ Failed"
			details = repositoryResult.Err.Error()
		}

		commits := "-"
		if repositoryResult.CommitCount > 0 {
			commits = fmt.Sprintf("%d", repositoryResult.CommitCount)
		}
		strategy := repositoryResult.Strategy
		if strategy == "" {
			strategy = "-"
		}

		t.AppendRow(table.Row{
			repositoryResult.Repository,
			status,
			commits,
			strategy,
			details,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
	fmt.Println()
}

func daemonCommand(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("config", configPath).Msg("Starting daemon")

	for {
		// The configuration is re-read every cycle so edits take effect
		// without a restart.
		config, err := loadValidConfiguration(configPath)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load configuration, retrying next cycle")
		} else {
			if _, err := runner.NewRunner(config).Run(ctx); err != nil {
				log.Error().Err(err).Msg("Contribution run failed")
			}
		}

		sleep := nextCycleInterval(config)
		log.Info().
			Dur("sleep", sleep).
			Time("nextRun", time.Now().Add(sleep)).
			Msg("Sleeping until next cycle")

		select {
		case <-ctx.Done():
			log.Info().Msg("Daemon stopped")
			return nil
		case <-time.After(sleep):
		}
	}
}

// nextCycleInterval draws the sleep duration until the next daemon cycle from
// the global interval bounds. A broken configuration falls back to an hourly
// retry so the daemon can pick up a fix.
func nextCycleInterval(config *configuration.Config) time.Duration {
	if config == nil || config.Commits == nil {
		return time.Hour
	}

	scheduler := schedule.NewScheduler(config.Schedule, nil)
	return scheduler.DrawInterval(*config.Commits)
}

func reportCommand(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	outputFormat := cmd.String("output")

	config, err := configuration.LoadConfiguration(configPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return cli.Exit(fmt.Sprintf("Configuration load error: %v", err), 3)
	}

	store := analytics.NewStore(config.Analytics.Path)
	records, err := store.Records()
	if err != nil {
		log.Error().Err(err).Msg("Failed to read contribution history")
		return cli.Exit(fmt.Sprintf("Analytics error: %v", err), 1)
	}

	report := analytics.BuildReport(records, time.Now())

	switch outputFormat {
	case "table":
		report.OutputTable()
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		return encoder.Encode(report)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}

	return nil
}
