package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// LoadConfiguration reads and parses the configuration from the given path.
// If the path is a directory, it loads all .yml files within it and merges them.
// It also performs environment variable and SOPS substitution and fills defaults.
func LoadConfiguration(configPath string) (*Config, error) {
	fileInfo, err := os.Stat(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access configuration path: %w", err)
	}

	var config *Config
	if fileInfo.IsDir() {
		config, err = loadConfigurationFromDirectory(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		config, err = loadSingleConfigurationFile(configPath)
		if err != nil {
			return nil, err
		}
	}

	// Perform variable substitution
	ctx := NewSubstitutionContext()
	if err := ctx.SubstituteInConfig(config); err != nil {
		return nil, fmt.Errorf("failed to substitute variables: %w", err)
	}

	ApplyDefaults(config)

	return config, nil
}

// loadSingleConfigurationFile reads and parses a single configuration file
func loadSingleConfigurationFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration YAML: %w", err)
	}

	return &config, nil
}

// loadConfigurationFromDirectory loads all .yml files from a directory and merges them
func loadConfigurationFromDirectory(dirPath string) (*Config, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration directory: %w", err)
	}

	var configFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml") {
			configFiles = append(configFiles, filepath.Join(dirPath, name))
		}
	}

	if len(configFiles) == 0 {
		return nil, fmt.Errorf("no .yml or .yaml files found in directory: %s", dirPath)
	}

	log.Debug().
		Str("directory", dirPath).
		Int("fileCount", len(configFiles)).
		Msg("Loading configuration from directory")

	var configs []*Config
	for _, filePath := range configFiles {
		config, err := loadSingleConfigurationFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filePath, err)
		}
		configs = append(configs, config)
	}

	mergedConfig, err := mergeConfigurations(configs)
	if err != nil {
		return nil, fmt.Errorf("failed to merge configurations: %w", err)
	}

	return mergedConfig, nil
}

// mergeConfigurations merges multiple Config objects into a single Config.
// Repository lists are concatenated with duplicate detection; for the scalar
// sections the last file that sets a section wins.
func mergeConfigurations(configs []*Config) (*Config, error) {
	if len(configs) == 0 {
		return &Config{}, nil
	}

	if len(configs) == 1 {
		return configs[0], nil
	}

	merged := &Config{
		Repositories: make([]*Repository, 0),
	}

	repositoryNames := make(map[string]bool)

	for _, config := range configs {
		for _, repository := range config.Repositories {
			if repositoryNames[repository.Name] {
				return nil, fmt.Errorf("duplicate repository name: %s", repository.Name)
			}
			repositoryNames[repository.Name] = true
			merged.Repositories = append(merged.Repositories, repository)
		}

		if config.Actor != nil {
			merged.Actor = config.Actor
		}
		if config.Commits != nil {
			merged.Commits = config.Commits
		}
		if config.Schedule != nil {
			merged.Schedule = config.Schedule
		}
		if config.Content != nil {
			merged.Content = config.Content
		}
		if config.SplitCommits != nil {
			merged.SplitCommits = config.SplitCommits
		}
		if config.Push != nil {
			merged.Push = config.Push
		}
		if config.Parallel != nil {
			merged.Parallel = config.Parallel
		}
		if config.Analytics != nil {
			merged.Analytics = config.Analytics
		}
		if config.Notifications != nil {
			merged.Notifications = config.Notifications
		}
	}

	return merged, nil
}
