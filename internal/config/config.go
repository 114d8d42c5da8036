// Package config resolves options for the github-to-linear CLI using an
// explicit ordered lookup: command-line flag, then environment variable,
// then config file, then built-in default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// EnvAPIKey is the environment variable holding the Linear API key
	EnvAPIKey = "LINEAR_API_KEY"

	// EnvConfigPath overrides the default config file location
	EnvConfigPath = "GH2LINEAR_CONFIG"

	// DefaultPriority is the Linear issue priority used when none is given (0-4)
	DefaultPriority = 3
)

// ErrMissingCredential indicates that no Linear API key was supplied via
// flag, environment, or config file.
var ErrMissingCredential = errors.New("no Linear API key found: pass --api-key, set " + EnvAPIKey + ", or add api_key to the config file")

// Flags carries the values parsed from the command line. PrioritySet must be
// true only when --priority was given explicitly, so the file-level default
// is not shadowed by the flag's zero value.
type Flags struct {
	APIKey      string
	Team        string
	Priority    int
	PrioritySet bool
}

// fileConfig mirrors the YAML config file layout.
type fileConfig struct {
	APIKey   string `yaml:"api_key"`
	Team     string `yaml:"team"`
	Priority *int   `yaml:"priority"`
}

// Config holds the fully resolved options
type Config struct {
	// APIKey is the Linear API key
	APIKey string

	// Team is the default team key to import into; may be empty if neither
	// flag nor config file supplies one (the import command requires it)
	Team string

	// Priority is the Linear issue priority (0-4)
	Priority int
}

// Load resolves the configuration from flags, environment, and config file.
func Load(flags Flags) (*Config, error) {
	file, err := loadFile(configPath())
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	cfg.APIKey = firstNonEmpty(flags.APIKey, os.Getenv(EnvAPIKey), file.APIKey)
	if cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}

	cfg.Team = firstNonEmpty(flags.Team, file.Team)

	switch {
	case flags.PrioritySet:
		cfg.Priority = flags.Priority
	case file.Priority != nil:
		cfg.Priority = *file.Priority
	default:
		cfg.Priority = DefaultPriority
	}
	if cfg.Priority < 0 || cfg.Priority > 4 {
		return nil, fmt.Errorf("priority must be between 0 and 4, got: %d", cfg.Priority)
	}

	return cfg, nil
}

// configPath returns the config file location. GH2LINEAR_CONFIG wins;
// otherwise ~/.config/github-to-linear/config.yml.
func configPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "github-to-linear", "config.yml")
}

// loadFile reads and parses the YAML config file. A missing file is not an
// error; a malformed one is.
func loadFile(path string) (*fileConfig, error) {
	file := &fileConfig{}
	if path == "" {
		return file, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return file, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return file, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
