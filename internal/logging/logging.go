// Package logging builds the process logger: leveled console output through
// charmbracelet/log, optionally fanned out to a JSONL file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	slogmulti "github.com/samber/slog-multi"
)

// Options holds configuration for logging.
type Options struct {
	Level      string
	Format     string
	File       string
	Timestamps bool
	Prefix     string
}

// Logger is a slog logger plus the file it may hold open.
type Logger struct {
	*slog.Logger
	file *os.File
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// New builds a logger writing console output to w. When opts.File is set,
// records are also appended to that file as JSON lines.
func New(w io.Writer, opts Options) (*Logger, error) {
	level := ParseLogLevel(opts.Level)
	console := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       ParseLogFormatter(opts.Format),
		ReportTimestamp: opts.Timestamps,
		Prefix:          opts.Prefix,
	})

	if opts.File == "" {
		return &Logger{Logger: slog.New(console)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	jsonl := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.Level(level)})

	return &Logger{
		Logger: slog.New(slogmulti.Fanout(console, jsonl)),
		file:   f,
	}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// ParseLogLevel parses a string log level to a charmbracelet/log Level.
func ParseLogLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseLogFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseLogFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
