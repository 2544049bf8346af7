// Package logging configures the process-wide slog logger. The console front
// end and the dispatcher both log through slog.Default, so Init is called
// once at startup before any command is registered.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Format selects the handler encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Sink selects where log records are written.
type Sink string

const (
	SinkStderr Sink = "stderr"
	SinkFile   Sink = "file"
	SinkNone   Sink = "none"
)

// Environment overrides. Each one, when set, takes precedence over the
// corresponding config file value.
const (
	EnvLogLevel      = "HERALD_LOG_LEVEL"
	EnvLogFormat     = "HERALD_LOG_FORMAT"
	EnvLogSink       = "HERALD_LOG_SINK"
	EnvLogFile       = "HERALD_LOG_FILE"
	EnvLogAddSource  = "HERALD_LOG_ADD_SOURCE"
	EnvLogMaxSizeMB  = "HERALD_LOG_MAX_SIZE_MB"
	EnvLogMaxBackups = "HERALD_LOG_MAX_BACKUPS"
	EnvLogMaxAgeDays = "HERALD_LOG_MAX_AGE_DAYS"
	EnvLogCompress   = "HERALD_LOG_COMPRESS"
)

// Config holds the logging section of the application configuration.
type Config struct {
	Level     string `toml:"level"`
	Format    string `toml:"format"`
	Sink      string `toml:"sink"`
	File      string `toml:"file"`
	AddSource bool   `toml:"add_source"`

	MaxSizeMB  int  `toml:"max_size_mb"`
	MaxBackups int  `toml:"max_backups"`
	MaxAgeDays int  `toml:"max_age_days"`
	Compress   bool `toml:"compress"`
}

// DefaultConfig returns the defaults used when the config file has no
// logging section: info-level text logs on stderr, with rotation settings
// preset for when a file sink is selected.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     string(FormatText),
		Sink:       string(SinkStderr),
		MaxSizeMB:  20,
		MaxBackups: 5,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// WithEnv returns a copy of the config with HERALD_LOG_* environment
// overrides applied. Unset or malformed variables leave the field unchanged.
func (c Config) WithEnv() Config {
	applyString := func(dst *string, env string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}
	applyBool := func(dst *bool, env string) {
		raw := strings.TrimSpace(os.Getenv(env))
		if raw == "" {
			return
		}
		*dst = !isDisabledString(raw)
	}
	applyInt := func(dst *int, env string) {
		raw := strings.TrimSpace(os.Getenv(env))
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return
		}
		*dst = n
	}

	applyString(&c.Level, EnvLogLevel)
	applyString(&c.Format, EnvLogFormat)
	applyString(&c.Sink, EnvLogSink)
	applyString(&c.File, EnvLogFile)
	applyBool(&c.AddSource, EnvLogAddSource)
	applyInt(&c.MaxSizeMB, EnvLogMaxSizeMB)
	applyInt(&c.MaxBackups, EnvLogMaxBackups)
	applyInt(&c.MaxAgeDays, EnvLogMaxAgeDays)
	applyBool(&c.Compress, EnvLogCompress)
	return c
}

// Validate checks the enumerated fields.
func (c Config) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: invalid %q", c.Level)
	}
	switch Format(strings.ToLower(c.Format)) {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("logging.format: invalid %q", c.Format)
	}
	switch Sink(strings.ToLower(c.Sink)) {
	case "", SinkStderr, SinkFile, SinkNone:
	default:
		return fmt.Errorf("logging.sink: invalid %q", c.Sink)
	}
	if Sink(strings.ToLower(c.Sink)) == SinkFile && strings.TrimSpace(c.File) == "" {
		return fmt.Errorf("logging.file: required when sink is %q", SinkFile)
	}
	return nil
}

// InitOptions identify the running process in every log record.
type InitOptions struct {
	App     string
	Version string
}

// Init applies environment overrides, validates the config, builds the
// logger, and installs it as slog.Default. The returned close function
// flushes and closes a file sink; for other sinks it is a no-op.
func Init(cfg Config, opts InitOptions) (func() error, error) {
	if opts.App == "" {
		opts.App = "herald"
	}

	cfg = cfg.WithEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	writer, closeFn, err := resolveWriter(cfg)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}
	var handler slog.Handler
	switch Format(strings.ToLower(cfg.Format)) {
	case FormatJSON:
		handler = slog.NewJSONHandler(writer, handlerOpts)
	default:
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	logger := slog.New(handler).With(
		slog.String("app", opts.App),
		slog.String("version", opts.Version),
	)
	slog.SetDefault(logger)
	return closeFn, nil
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
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

func resolveWriter(cfg Config) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch Sink(strings.ToLower(cfg.Sink)) {
	case SinkNone:
		return io.Discard, noop, nil
	case SinkFile:
		path := strings.TrimSpace(cfg.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: creating log directory: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		return rot, rot.Close, nil
	default:
		return os.Stderr, noop, nil
	}
}

func isDisabledString(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "false", "no", "off":
		return true
	default:
		return false
	}
}
