// Package logging provides the process-wide structured logger for ruleforge.
// Output goes to stderr at warn level by default; debug mode lowers the level and
// reports callers. An optional log file is rotated with lumberjack.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Debug bool
	File  string // Optional path of a rotated log file
	// Writer overrides stderr. Used by tests.
	Writer io.Writer
}

var (
	mu     sync.RWMutex
	logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel, Prefix: "ruleforge"})
	// rotator is the open log file, if any. It is owned by the current logger.
	rotator *lumberjack.Logger

	// closeRotator is swapped in tests.
	closeRotator = (*lumberjack.Logger).Close
)

// Init replaces the global logger according to cfg. A log file opened by a
// previous Init is closed.
func Init(cfg Config) {
	var writer io.Writer = os.Stderr
	if cfg.Writer != nil {
		writer = cfg.Writer
	}
	var file *lumberjack.Logger
	if cfg.File != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		writer = io.MultiWriter(writer, file)
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	l := log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "ruleforge",
	})

	mu.Lock()
	prev := rotator
	logger, rotator = l, file
	mu.Unlock()

	if prev != nil {
		_ = closeRotator(prev)
	}
}

// Close closes the log file, if one is open, and logs to stderr from then on.
func Close() error {
	mu.Lock()
	prev := rotator
	if prev != nil {
		rotator = nil
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: logger.GetLevel(), Prefix: "ruleforge"})
	}
	mu.Unlock()

	if prev == nil {
		return nil
	}
	return closeRotator(prev)
}

// Logger returns the current global logger.
func Logger() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a debug message
func Debug(msg string, keyvals ...any) {
	Logger().Debug(msg, keyvals...)
}

// Info logs an info message
func Info(msg string, keyvals ...any) {
	Logger().Info(msg, keyvals...)
}

// Warn logs a warning message
func Warn(msg string, keyvals ...any) {
	Logger().Warn(msg, keyvals...)
}

// Error logs an error message
func Error(msg string, keyvals ...any) {
	Logger().Error(msg, keyvals...)
}
