// Package logger builds the slog loggers used by the mail client, the sandbox
// and the command line tool.
//
// Every logger is a plain *slog.Logger. Two additions sit on top of log/slog:
//
//   - context extractors that copy dispatch-scoped values (the dispatch id,
//     the messenger being processed) from the context into every record
//   - optional Sentry fan-out for warnings and errors
//
// # Usage
//
//	log := logger.New(logger.WithLevel(slog.LevelDebug))
//
//	ctx := logger.WithDispatchID(ctx, "0190c1f8-...")
//	log.InfoContext(ctx, "dispatching", slog.Int("messengers", 2))
//	// {"level":"INFO","msg":"dispatching","messengers":2,"dispatch_id":"0190c1f8-..."}
//
// Libraries default to [NewNope] so nothing is written unless the caller
// passes a logger in.
//
// # Sentry
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//		MinLevel:    slog.LevelWarn,
//	}, handler)
//
// An empty DSN or a failed Sentry init falls back to the base handler only.
package logger
