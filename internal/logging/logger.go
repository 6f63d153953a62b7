// Package logging provides config-driven categorized file-based logging for
// engram. Logs are written to .engram/logs/ with one file per category.
// Logging is controlled by debug_mode in .engram/config.yaml - when false,
// no logs are written, matching the zero-overhead-by-default stance the
// storage, capture, and query packages all rely on.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Category names one of engram's logical subsystems.
type Category string

const (
	CategoryBoot    Category = "boot"
	CategoryStorage Category = "storage"
	CategoryCapture Category = "capture"
	CategoryImport  Category = "import"
	CategoryHooks   Category = "hooks"
	CategoryIndex   Category = "index"
	CategoryQuery   Category = "query"
	CategorySync    Category = "sync"
	CategoryMCP     Category = "mcp"
	CategoryCLI     Category = "cli"
)

// StructuredLogEntry is the JSON shape written to each category's log file
// when JSON formatting is enabled.
type StructuredLogEntry struct {
	Timestamp int64                  `json:"ts"`
	Category  string                 `json:"category"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

type loggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
}

type configFile struct {
	Logging loggingConfig `yaml:"logging"`
}

// Log levels, ordered for comparison.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Logger wraps a standard logger scoped to one category, writing to both a
// category-specific file (when enabled) and nowhere otherwise.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers      = make(map[Category]*Logger)
	loggersMu    sync.RWMutex
	logsDir      string
	workspace    string
	cfg          loggingConfig
	configLoaded bool
	configMu     sync.RWMutex
	logLevel     = LevelInfo
)

// Initialize sets up the logging directory and loads config from
// <workspace>/.engram/config.yaml. Safe to call more than once; safe to
// call with debug mode disabled (it becomes a no-op).
func Initialize(ws string) error {
	if ws == "" {
		return fmt.Errorf("logging: workspace path required")
	}
	workspace = ws
	logsDir = filepath.Join(workspace, ".engram", "logs")

	if err := loadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] warning: could not load config: %v\n", err)
		cfg.DebugMode = false
	}

	if !cfg.DebugMode {
		return nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("logging: create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== engram logging initialized ===")
	boot.Info("workspace: %s", workspace)
	boot.Info("debug mode: %v", cfg.DebugMode)
	return nil
}

func loadConfig() error {
	configMu.Lock()
	defer configMu.Unlock()

	configPath := filepath.Join(workspace, ".engram", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.DebugMode = false
			configLoaded = true
			return nil
		}
		return err
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("logging: parse config: %w", err)
	}
	cfg = cf.Logging
	configLoaded = true

	switch cfg.Level {
	case "debug":
		logLevel = LevelDebug
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	return nil
}

// ReloadConfig re-reads the on-disk config; call after the caller changes it.
func ReloadConfig() error {
	return loadConfig()
}

// IsDebugMode reports whether file logging is currently active.
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return cfg.DebugMode
}

func isCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()
	if !cfg.DebugMode {
		return false
	}
	if cfg.Categories == nil {
		return true
	}
	enabled, exists := cfg.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or lazily creates) the logger for category. The returned
// logger is a safe no-op when debug mode or the category is disabled.
func Get(category Category) *Logger {
	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	l := &Logger{category: category}
	if IsDebugMode() && isCategoryEnabled(category) && logsDir != "" {
		path := filepath.Join(logsDir, string(category)+".log")
		if f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			l.file = f
			l.logger = log.New(f, "", 0)
		}
	}
	loggers[category] = l
	return l
}

func (l *Logger) write(level int, levelName, format string, args ...interface{}) {
	if l.logger == nil || level < logLevel {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if cfg.JSONFormat {
		enc, err := json.Marshal(StructuredLogEntry{
			Timestamp: time.Now().UnixMilli(),
			Category:  string(l.category),
			Level:     levelName,
			Message:   msg,
		})
		if err == nil {
			l.logger.Println(string(enc))
			return
		}
	}
	l.logger.Printf("%s [%s] %s", time.Now().UTC().Format(time.RFC3339), levelName, msg)
}

func (l *Logger) Debug(format string, args ...interface{}) { l.write(LevelDebug, "DEBUG", format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.write(LevelInfo, "INFO", format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.write(LevelWarn, "WARN", format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.write(LevelError, "ERROR", format, args...) }

// CloseAll closes every open category log file. Call once at process exit.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
	}
}

// Convenience package-level helpers for the boot category, used by early
// startup code (config loading) before a caller has a logger handle.
func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }
