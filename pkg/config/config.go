// Package config loads maestro's configuration from a JSON file with
// MAESTRO_* environment variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// RoutingConfig tunes the command routing engine.
type RoutingConfig struct {
	MaxConcurrentCommands int `json:"max_concurrent_commands" env:"MAESTRO_ROUTING_MAX_CONCURRENT"`
	DefaultTimeoutMs      int `json:"default_timeout_ms" env:"MAESTRO_ROUTING_DEFAULT_TIMEOUT_MS"`
	RatePerMinute         int `json:"rate_per_minute" env:"MAESTRO_ROUTING_RATE_PER_MINUTE"`
}

// SelectionConfig tunes the persona selection engine.
type SelectionConfig struct {
	Strategy          string  `json:"strategy" env:"MAESTRO_SELECTION_STRATEGY"`
	MinConfidence     float64 `json:"min_confidence" env:"MAESTRO_SELECTION_MIN_CONFIDENCE"`
	MaxCandidates     int     `json:"max_candidates" env:"MAESTRO_SELECTION_MAX_CANDIDATES"`
	FallbackEnabled   bool    `json:"fallback_enabled" env:"MAESTRO_SELECTION_FALLBACK_ENABLED"`
	FallbackPersonaID string  `json:"fallback_persona_id" env:"MAESTRO_SELECTION_FALLBACK_PERSONA"`
	WeightTechnology  float64 `json:"weight_technology" env:"MAESTRO_SELECTION_WEIGHT_TECHNOLOGY"`
	WeightExpertise   float64 `json:"weight_expertise" env:"MAESTRO_SELECTION_WEIGHT_EXPERTISE"`
	WeightPerformance float64 `json:"weight_performance" env:"MAESTRO_SELECTION_WEIGHT_PERFORMANCE"`
	WeightPreference  float64 `json:"weight_preference" env:"MAESTRO_SELECTION_WEIGHT_PREFERENCE"`
	WeightProjectType float64 `json:"weight_project_type" env:"MAESTRO_SELECTION_WEIGHT_PROJECT_TYPE"`
	WeightTimeOfDay   float64 `json:"weight_time_of_day" env:"MAESTRO_SELECTION_WEIGHT_TIME_OF_DAY"`
}

// WorkspaceConfig controls the filesystem sandbox and change watcher.
type WorkspaceConfig struct {
	Path     string `json:"path" env:"MAESTRO_WORKSPACE_PATH"`
	Restrict bool   `json:"restrict" env:"MAESTRO_WORKSPACE_RESTRICT"`
	Watch    bool   `json:"watch" env:"MAESTRO_WORKSPACE_WATCH"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	DatabasePath string `json:"database_path" env:"MAESTRO_STORAGE_DATABASE_PATH"`
}

// LoggingConfig controls log verbosity and the file sink.
type LoggingConfig struct {
	Level string `json:"level" env:"MAESTRO_LOG_LEVEL"`
	File  string `json:"file" env:"MAESTRO_LOG_FILE"`
}

// Config is the top-level configuration.
type Config struct {
	Routing   RoutingConfig   `json:"routing"`
	Selection SelectionConfig `json:"selection"`
	Workspace WorkspaceConfig `json:"workspace"`
	Storage   StorageConfig   `json:"storage"`
	Logging   LoggingConfig   `json:"logging"`
}

// DefaultConfigPath returns ~/.maestro/config.json.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(home, ".maestro", "config.json")
}

// Load reads the config file at path (missing file means defaults), then
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}
	return cfg, nil
}

// Save writes the config as indented JSON, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
