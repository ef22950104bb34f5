package logger

import (
	"io"
	"log/slog"
	"os"
)

// Format selects the output encoding of loggers built by New.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

type options struct {
	writer     io.Writer
	format     Format
	level      slog.Leveler
	extractors []ContextExtractor
}

// Option configures New.
type Option func(*options)

// WithWriter sets the output destination. Defaults to os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithFormat sets the output format. Defaults to FormatJSON.
func WithFormat(f Format) Option {
	return func(o *options) {
		if f != "" {
			o.format = f
		}
	}
}

// WithLevel sets the minimum level. Defaults to slog.LevelInfo.
func WithLevel(l slog.Leveler) Option {
	return func(o *options) {
		if l != nil {
			o.level = l
		}
	}
}

// WithExtractors adds context extractors on top of the dispatch defaults.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// New creates a logger writing JSON (or text) records. Dispatch id and messenger
// name are always extracted from the context.
func New(opts ...Option) *slog.Logger {
	o := newOptions(opts)
	return slog.New(Decorate(o.handler(), o.extractors...))
}

// NewHandler returns the undecorated handler New would wrap. Extractors are
// ignored; pass the handler to NewWithSentry or Decorate.
func NewHandler(opts ...Option) slog.Handler {
	return newOptions(opts).handler()
}

func newOptions(opts []Option) *options {
	o := &options{
		writer: os.Stdout,
		format: FormatJSON,
		level:  slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) handler() slog.Handler {
	hopts := &slog.HandlerOptions{Level: o.level}
	if o.format == FormatText {
		return slog.NewTextHandler(o.writer, hopts)
	}
	return slog.NewJSONHandler(o.writer, hopts)
}

// NewNope creates a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
