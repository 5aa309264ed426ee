package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format represents the log output format.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds logging configuration. Level and Format are plain strings
// so the struct can be embedded into a YAML or JSON configuration file.
type Config struct {
	// Level is the minimum level to output: "debug", "info", "warn" or
	// "error". Empty means "info".
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is the output format. Empty means text.
	Format Format `json:"format,omitempty" yaml:"format,omitempty"`

	// AddSource adds source file and line to log entries.
	AddSource bool `json:"addSource,omitempty" yaml:"addSource,omitempty"`

	// Output is the writer to send logs to. Defaults to os.Stderr.
	Output io.Writer `json:"-" yaml:"-"`
}

// New creates a slog.Logger from the configuration.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(out, opts)
	default:
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

// Nop returns a no-op logger that discards all output.
// Use this when a logger is required but logging is disabled.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel parses a log level string. Valid values: "debug", "info",
// "warn", "error". Unrecognized values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
