package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls a single attribute out of a context.
// Returning false skips the attribute for that record.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type (
	dispatchIDKey struct{}
	messengerKey  struct{}
)

// WithDispatchID stores the dispatch id in ctx.
func WithDispatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, dispatchIDKey{}, id)
}

// DispatchID returns the dispatch id stored in ctx, if any.
func DispatchID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(dispatchIDKey{}).(string)
	return v, ok && v != ""
}

// WithMessenger stores the name of the messenger being processed in ctx.
func WithMessenger(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, messengerKey{}, name)
}

// DispatchIDExtractor adds "dispatch_id".
func DispatchIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if v, ok := DispatchID(ctx); ok {
		return slog.String("dispatch_id", v), true
	}
	return slog.Attr{}, false
}

// MessengerExtractor adds "messenger".
func MessengerExtractor(ctx context.Context) (slog.Attr, bool) {
	if v, ok := ctx.Value(messengerKey{}).(string); ok && v != "" {
		return slog.String("messenger", v), true
	}
	return slog.Attr{}, false
}
