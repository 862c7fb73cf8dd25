package config

import (
	"os"
	"path/filepath"
)

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".maestro")
	cwd, _ := os.Getwd()

	return &Config{
		Routing: RoutingConfig{
			MaxConcurrentCommands: 10,
			DefaultTimeoutMs:      30_000,
			RatePerMinute:         0, // disabled
		},
		Selection: SelectionConfig{
			Strategy:          "confidence_based",
			MinConfidence:     0.7,
			MaxCandidates:     5,
			FallbackEnabled:   true,
			WeightTechnology:  0.30,
			WeightExpertise:   0.25,
			WeightPerformance: 0.20,
			WeightPreference:  0.15,
			WeightProjectType: 0.07,
			WeightTimeOfDay:   0.03,
		},
		Workspace: WorkspaceConfig{
			Path:     cwd,
			Restrict: true,
			Watch:    true,
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(base, "maestro.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
