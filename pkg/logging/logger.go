/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger.go
Description: Logging for tabby runs. Wraps logrus with a validated configuration,
text/json/custom formats, an optional timestamped log file next to the console
stream, and run-scoped helpers that tag every entry with a run identifier.
*/

package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warn"
	LogLevelError   LogLevel = "error"
	LogLevelFatal   LogLevel = "fatal"
)

// LogFormat represents the logging format
type LogFormat string

const (
	LogFormatJSON   LogFormat = "json"
	LogFormatText   LogFormat = "text"
	LogFormatCustom LogFormat = "custom"
)

const logFilePattern = "tabby_*.log"

// LoggerConfig holds the configuration for the logger
type LoggerConfig struct {
	Level  LogLevel  `json:"level" mapstructure:"level"`
	Format LogFormat `json:"format" mapstructure:"format"`
	// OutputDir, when set, receives a timestamped copy of the log
	OutputDir string `json:"output_dir" mapstructure:"output_dir"`
	// MaxFiles bounds the log files kept in OutputDir; zero keeps all
	MaxFiles  int  `json:"max_files" mapstructure:"max_files"`
	Timestamp bool `json:"timestamp" mapstructure:"timestamp"`
	Caller    bool `json:"caller" mapstructure:"caller"`
	Colors    bool `json:"colors" mapstructure:"colors"`
}

// DefaultConfig returns the configuration used when none is given
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatText,
		MaxFiles:  10,
		Timestamp: true,
	}
}

// Validate checks the LoggerConfig for invalid or missing values.
// Returns an error if the config is invalid, or nil if valid.
func (c *LoggerConfig) Validate() error {
	if c.MaxFiles < 0 {
		return fmt.Errorf("max_files must not be negative")
	}
	switch c.Format {
	case LogFormatJSON, LogFormatText, LogFormatCustom:
		// ok
	default:
		return fmt.Errorf("unsupported log format: %s", c.Format)
	}
	switch c.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError, LogLevelFatal:
		// ok
	default:
		return fmt.Errorf("unsupported log level: %s", c.Level)
	}
	return nil
}

// Logger writes structured run logs. Entries are written synchronously so
// nothing is lost when the process exits right after a failure.
type Logger struct {
	config     *LoggerConfig
	logger     *logrus.Logger
	fileHandle *os.File
	logFile    string
	runID      string
	startTime  time.Time
}

// NewLogger creates a logger writing to console. A nil config selects
// DefaultConfig; a nil console selects os.Stderr so that stdout carries only
// generated output.
func NewLogger(config *LoggerConfig, console io.Writer) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}
	if console == nil {
		console = os.Stderr
	}

	l := &Logger{
		config:    config,
		logger:    logrus.New(),
		runID:     uuid.New().String(),
		startTime: time.Now(),
	}

	if err := l.setup(console); err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	return l, nil
}

// setup configures the logger with the given configuration
func (l *Logger) setup(console io.Writer) error {
	level, err := logrus.ParseLevel(string(l.config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.logger.SetLevel(level)
	l.logger.SetReportCaller(l.config.Caller)

	if err := l.setFormatter(); err != nil {
		return err
	}

	l.logger.SetOutput(console)
	return l.setupFileOutput(console)
}

// setFormatter configures the log formatter
func (l *Logger) setFormatter() error {
	switch l.config.Format {
	case LogFormatJSON:
		l.logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat:  time.RFC3339,
			DisableTimestamp: !l.config.Timestamp,
			CallerPrettyfier: shortCaller,
		})

	case LogFormatText:
		l.logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    l.config.Timestamp,
			DisableTimestamp: !l.config.Timestamp,
			TimestampFormat:  time.RFC3339,
			ForceColors:      l.config.Colors,
			DisableColors:    !l.config.Colors,
			CallerPrettyfier: shortCaller,
		})

	case LogFormatCustom:
		l.logger.SetFormatter(&CustomFormatter{
			Timestamp: l.config.Timestamp,
			Caller:    l.config.Caller,
			Colors:    l.config.Colors,
		})

	default:
		return fmt.Errorf("unsupported log format: %s", l.config.Format)
	}

	return nil
}

func shortCaller(f *runtime.Frame) (string, string) {
	return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
}

// setupFileOutput adds a timestamped log file when OutputDir is set
func (l *Logger) setupFileOutput(console io.Writer) error {
	if l.config.OutputDir == "" {
		return nil
	}

	if err := os.MkdirAll(l.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := l.startTime.Format("2006-01-02_15-04-05")
	name := fmt.Sprintf("tabby_%s_%s.log", timestamp, l.runID[:8])
	path := filepath.Join(l.config.OutputDir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.fileHandle = file
	l.logFile = path
	l.logger.SetOutput(io.MultiWriter(console, file))
	return nil
}

// cleanup removes the oldest log files beyond MaxFiles
func (l *Logger) cleanup() error {
	if l.config.OutputDir == "" || l.config.MaxFiles == 0 {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(l.config.OutputDir, logFilePattern))
	if err != nil {
		return err
	}
	if len(files) <= l.config.MaxFiles {
		return nil
	}

	// File names start with a sortable timestamp, oldest first
	sort.Strings(files)

	for _, f := range files[:len(files)-l.config.MaxFiles] {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// RunID returns the identifier attached to every run-scoped entry
func (l *Logger) RunID() string {
	return l.runID
}

// LogFile returns the path of the log file, or "" when logging to console only
func (l *Logger) LogFile() string {
	return l.logFile
}

// GetLogger returns the underlying logrus logger
func (l *Logger) GetLogger() *logrus.Logger {
	return l.logger
}

// Run returns an entry tagged with the run identifier
func (l *Logger) Run() *logrus.Entry {
	return l.logger.WithField("run_id", l.runID)
}

// Run-scoped logging methods

// LogStart logs the beginning of a run
func (l *Logger) LogStart(command string, source string, format string) {
	l.Run().WithFields(logrus.Fields{
		"phase":   "start",
		"command": command,
		"source":  source,
		"format":  format,
	}).Info("Run started")
}

// LogRecords logs the outcome of reading input
func (l *Logger) LogRecords(count int, duration time.Duration) {
	l.Run().WithFields(logrus.Fields{
		"phase":    "read",
		"records":  count,
		"duration": duration,
	}).Info("Records read")
}

// LogInference logs the outcome of folding records into a descriptor
func (l *Logger) LogInference(records int, fields int, duration time.Duration) {
	l.Run().WithFields(logrus.Fields{
		"phase":    "infer",
		"records":  records,
		"fields":   fields,
		"duration": duration,
	}).Info("Descriptor inferred")
}

// LogOutput logs the generated document
func (l *Logger) LogOutput(format string, destination string, size int) {
	l.Run().WithFields(logrus.Fields{
		"phase":       "emit",
		"format":      format,
		"destination": destination,
		"bytes":       size,
	}).Info("Schema written")
}

// LogDrift logs a schema comparison
func (l *Logger) LogDrift(added int, removed int) {
	entry := l.Run().WithFields(logrus.Fields{
		"phase":   "drift",
		"added":   added,
		"removed": removed,
	})
	if added+removed > 0 {
		entry.Warning("Schema drift detected")
		return
	}
	entry.Info("Schema unchanged")
}

// LogFinish logs the end of a run with its total duration
func (l *Logger) LogFinish(err error) {
	entry := l.Run().WithFields(logrus.Fields{
		"phase":  "finish",
		"uptime": time.Since(l.startTime),
	})
	if err != nil {
		entry.WithError(err).Error("Run failed")
		return
	}
	entry.Info("Run finished")
}

// Close closes the log file and prunes old ones
func (l *Logger) Close() error {
	var errs []error
	if l.fileHandle != nil {
		if err := l.fileHandle.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
		}
		l.fileHandle = nil
	}

	if err := l.cleanup(); err != nil {
		errs = append(errs, fmt.Errorf("failed to cleanup log files: %w", err))
	}
	return errors.Join(errs...)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.Run().WithFields(fields).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.Run().WithFields(fields).Info(msg)
}

// Warning logs a warning message
func (l *Logger) Warning(msg string, fields map[string]interface{}) {
	l.Run().WithFields(fields).Warning(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.Run().WithFields(fields).Error(msg)
}
