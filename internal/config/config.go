// Package config loads and saves engram's local workspace configuration,
// stored at .engram/config.yaml inside the host repository. It mirrors the
// defaults-then-overlay-then-env-override pattern used throughout engram's
// ambient stack: DefaultConfig builds a zero-value-free baseline, Load
// overlays whatever is on disk, and applyEnvOverrides lets operators bend
// individual fields for a single invocation without touching the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoggingConfig controls the internal/logging package.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// IndexConfig tunes the bleve full-text index.
type IndexConfig struct {
	// Path is relative to the .engram directory unless absolute.
	Path        string `yaml:"path"`
	RAMBudgetMB int    `yaml:"ram_budget_mb"`
	AutoRebuild bool   `yaml:"auto_rebuild"`
}

// CaptureConfig tunes the PTY capture pipeline.
type CaptureConfig struct {
	AutoCapture    bool     `yaml:"auto_capture"`
	DefaultAgent   string   `yaml:"default_agent"`
	IgnorePatterns []string `yaml:"ignore_patterns,omitempty"`
	MaxFileBytes   int64    `yaml:"max_file_bytes"`
}

// SyncConfig tunes push/fetch/hooks behavior.
type SyncConfig struct {
	PushOnCommit bool `yaml:"push_on_commit"`
}

// SummaryConfig selects which optional LLM backend, if any, produces
// human-readable session summaries. Never required for correctness.
type SummaryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider"` // "anthropic", "openai", "bedrock", or "" (disabled)
	Model    string `yaml:"model,omitempty"`
}

// Config is the full .engram/config.yaml document.
type Config struct {
	Version int           `yaml:"version"`
	Logging LoggingConfig `yaml:"logging"`
	Index   IndexConfig   `yaml:"index"`
	Capture CaptureConfig `yaml:"capture"`
	Sync    SyncConfig    `yaml:"sync"`
	Summary SummaryConfig `yaml:"summary"`
}

// DefaultConfig returns the baseline configuration used when no
// .engram/config.yaml exists yet, and as the starting point Load overlays
// onto.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Logging: LoggingConfig{
			DebugMode:  false,
			Level:      "info",
			JSONFormat: false,
		},
		Index: IndexConfig{
			Path:        "index.bleve",
			RAMBudgetMB: 64,
			AutoRebuild: true,
		},
		Capture: CaptureConfig{
			AutoCapture:  false,
			DefaultAgent: "unknown",
			MaxFileBytes: 10 * 1024 * 1024,
		},
		Sync: SyncConfig{
			PushOnCommit: false,
		},
		Summary: SummaryConfig{
			Enabled: false,
		},
	}
}

// ConfigPath returns the canonical config file location for a workspace.
func ConfigPath(workspace string) string {
	return filepath.Join(workspace, ".engram", "config.yaml")
}

// Load reads .engram/config.yaml under workspace, overlaying it onto
// DefaultConfig(). A missing file is not an error; it yields the defaults.
// Environment overrides are always applied last.
func Load(workspace string) (*Config, error) {
	cfg := DefaultConfig()

	path := ConfigPath(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes cfg to .engram/config.yaml under workspace, creating the
// .engram directory if necessary.
func Save(workspace string, cfg *Config) error {
	dir := filepath.Join(workspace, ".engram")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("config: create %s: %w", dir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	path := ConfigPath(workspace)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides lets ENGRAM_* environment variables bend individual
// fields for a single invocation without persisting the change to disk.
func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("ENGRAM_DEBUG"); ok {
		cfg.Logging.DebugMode = parseBool(v, cfg.Logging.DebugMode)
	}
	if v, ok := os.LookupEnv("ENGRAM_LOG_LEVEL"); ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := os.LookupEnv("ENGRAM_LOG_JSON"); ok {
		cfg.Logging.JSONFormat = parseBool(v, cfg.Logging.JSONFormat)
	}
	if v, ok := os.LookupEnv("ENGRAM_INDEX_RAM_MB"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Index.RAMBudgetMB = n
		}
	}
	if v, ok := os.LookupEnv("ENGRAM_AUTO_CAPTURE"); ok {
		cfg.Capture.AutoCapture = parseBool(v, cfg.Capture.AutoCapture)
	}
	if v, ok := os.LookupEnv("ENGRAM_DEFAULT_AGENT"); ok && v != "" {
		cfg.Capture.DefaultAgent = v
	}
	if v, ok := os.LookupEnv("ENGRAM_PUSH_ON_COMMIT"); ok {
		cfg.Sync.PushOnCommit = parseBool(v, cfg.Sync.PushOnCommit)
	}
	if v, ok := os.LookupEnv("ENGRAM_SUMMARY_PROVIDER"); ok && v != "" {
		cfg.Summary.Provider = strings.ToLower(v)
		cfg.Summary.Enabled = cfg.Summary.Provider != ""
	}
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
