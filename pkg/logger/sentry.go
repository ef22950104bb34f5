package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
	// MinLevel is the lowest level forwarded to Sentry. Errors always create issues.
	MinLevel slog.Level `mapstructure:"-"`
}

// NewWithSentry returns a logger writing to base and, when a DSN is configured,
// to Sentry as well. Without a DSN, or if Sentry fails to initialise, only base
// is used.
func NewWithSentry(cfg SentryConfig, base slog.Handler, extractors ...ContextExtractor) *slog.Logger {
	if cfg.DSN == "" {
		return slog.New(Decorate(base, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(base).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(Decorate(base, extractors...))
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel >= slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return slog.New(Decorate(fanout{base, sentryHandler}, extractors...))
}

// FlushSentry waits up to timeout for buffered Sentry events to be sent.
// Safe to call when Sentry was never initialised.
func FlushSentry(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
