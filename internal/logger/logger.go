// Package logger wraps logrus behind the ExtendedLogger interface used
// across every package in this module, so handlers and managers never
// depend on logrus directly.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ExtendedLogger is the logging boundary every component consumes.
type ExtendedLogger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	WithField(key string, value interface{}) ExtendedLogger
	WithFields(fields map[string]interface{}) ExtendedLogger
}

// Logger implements ExtendedLogger on top of logrus.
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

var _ ExtendedLogger = (*Logger)(nil)

// Config controls logger construction.
type Config struct {
	LogFile      string
	Level        string
	Format       string // "text" or "json"
	EnableStdout bool
}

// New creates a Logger per Config: file path, level, format, and
// whether to also mirror output to stdout.
func New(cfg Config) (*Logger, error) {
	base := logrus.New()

	level, err := logrus.ParseLevel(defaultString(cfg.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	base.SetLevel(level)

	switch strings.ToLower(defaultString(cfg.Format, "text")) {
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	case "text":
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}

	var file *os.File
	var writers []io.Writer

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		writers = append(writers, f)
	}
	if cfg.EnableStdout || cfg.LogFile == "" {
		writers = append(writers, os.Stdout)
	}

	switch len(writers) {
	case 0:
		base.SetOutput(io.Discard)
	case 1:
		base.SetOutput(writers[0])
	default:
		base.SetOutput(io.MultiWriter(writers...))
	}

	return &Logger{entry: logrus.NewEntry(base), file: file}, nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *Logger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

func (l *Logger) WithField(key string, value interface{}) ExtendedLogger {
	return &Logger{entry: l.entry.WithField(key, value), file: l.file}
}

func (l *Logger) WithFields(fields map[string]interface{}) ExtendedLogger {
	return &Logger{entry: l.entry.WithFields(fields), file: l.file}
}

// Close closes the backing log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Noop returns a logger that discards everything, useful for tests.
func Noop() *Logger {
	l, _ := New(Config{Level: "fatal", EnableStdout: false})
	l.entry.Logger.SetOutput(io.Discard)
	return l
}
