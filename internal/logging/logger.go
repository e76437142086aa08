// Package logging provides config-driven categorized file-based logging
// for the mock server runtime. Logs are written to a configured
// directory with one file per category; logging is a silent no-op
// unless debug mode is enabled via config (Config.DebugMode).
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category identifies a log subsystem.
type Category string

const (
	CategoryBoot         Category = "boot"
	CategoryConfig       Category = "config"
	CategoryWorkspace    Category = "workspace"
	CategoryRoute        Category = "route"
	CategoryPersona      Category = "persona"
	CategoryDataGen      Category = "datagen"
	CategoryRAG          Category = "rag"
	CategoryVDB          Category = "vdb"
	CategoryWS           Category = "ws"
	CategoryChaos        Category = "chaos"
	CategoryPlugin       Category = "plugin"
	CategoryAccessReview Category = "access_review"
	CategoryEncryption   Category = "encryption"
	CategoryImport       Category = "import"
)

// Config mirrors the relevant subset of config.LoggingConfig, duplicated
// here to avoid an import cycle between internal/config and internal/logging.
type Config struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"`
	JSONFormat bool            `yaml:"json_format"`
	Dir        string          `yaml:"dir"`
}

// StructuredLogEntry is the JSON shape written when JSONFormat is enabled.
type StructuredLogEntry struct {
	Timestamp int64                  `json:"ts"`
	Category  string                 `json:"cat"`
	Level     string                 `json:"lvl"`
	Message   string                 `json:"msg"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger wraps a standard logger with category and file output. The zero
// value (no underlying file) is a safe no-op logger.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	cfg       Config
	cfgMu     sync.RWMutex
	logLevel  = LevelInfo
)

const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize configures the logging subsystem. It is a silent no-op
// (no directory created, no files opened) unless cfg.DebugMode is set.
func Initialize(c Config) error {
	cfgMu.Lock()
	cfg = c
	switch c.Level {
	case "debug":
		logLevel = LevelDebug
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	cfgMu.Unlock()

	if !c.DebugMode {
		return nil
	}

	logsDir = c.Dir
	if logsDir == "" {
		logsDir = "mockforge-logs"
	}
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("logging: create log dir: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("logging initialized, dir=%s debug=%v level=%s", logsDir, c.DebugMode, c.Level)
	return nil
}

// IsDebugMode reports whether debug logging is currently enabled.
func IsDebugMode() bool {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return cfg.DebugMode
}

// IsCategoryEnabled reports whether a category should emit log lines.
func IsCategoryEnabled(category Category) bool {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
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

// Get returns (creating if needed) the logger for a category. Returns a
// no-op logger when the category or debug mode is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) || logsDir == "" {
		return &Logger{category: category}
	}

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

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] could not open %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

func (l *Logger) emit(level string, format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	cfgMu.RLock()
	jsonFormat := cfg.JSONFormat
	cfgMu.RUnlock()
	if jsonFormat {
		entry := StructuredLogEntry{Timestamp: time.Now().UnixMilli(), Category: string(l.category), Level: level, Message: msg}
		if data, err := json.Marshal(entry); err == nil {
			l.logger.Printf("%s", data)
			return
		}
	}
	l.logger.Printf("[%s] %s", level, msg)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if logLevel > LevelDebug {
		return
	}
	l.emit("DEBUG", format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	if logLevel > LevelInfo {
		return
	}
	l.emit("INFO", format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if logLevel > LevelWarn {
		return
	}
	l.emit("WARN", format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.emit("ERROR", format, args...)
}

// CloseAll closes all open log files; call at shutdown.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Timer measures operation duration and logs it at Stop.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation in the given category.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs elapsed time at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs at warn level if elapsed exceeds threshold.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
