package service

import (
	"log/slog"
	"time"

	"docvault/internal/events"
	"docvault/internal/thumbnail"
)

type options struct {
	logger *slog.Logger
	cache  *thumbnail.Cache
	events events.Publisher
	now    func() time.Time
}

// Option configures a service constructor.
type Option func(*options)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithThumbnailCache enables the on-disk preview cache.
func WithThumbnailCache(c *thumbnail.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithEvents publishes lifecycle events to p.
func WithEvents(p events.Publisher) Option {
	return func(o *options) {
		if p != nil {
			o.events = p
		}
	}
}

// WithClock overrides the time source used for new records.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		events: events.Noop{},
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
