package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"docvault/internal/resilience"
)

// NATSOptions tunes the connection. Zero values pick defaults.
type NATSOptions struct {
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
	Executor       *resilience.Executor
	Logger         *slog.Logger
}

// NATSPublisher publishes events on <prefix>.<type> subjects.
type NATSPublisher struct {
	conn     *nats.Conn
	prefix   string
	executor *resilience.Executor
}

// NewNATSPublisher connects to url. The connection retries in the background
// if the server is not reachable yet.
func NewNATSPublisher(url, prefix string, opts NATSOptions) (*NATSPublisher, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 2 * time.Second
	}
	if opts.ReconnectWait <= 0 {
		opts.ReconnectWait = 2 * time.Second
	}
	if opts.MaxReconnects <= 0 {
		opts.MaxReconnects = 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(
		url,
		nats.Name("docvault"),
		nats.Timeout(opts.ConnectTimeout),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{conn: conn, prefix: prefix, executor: opts.Executor}, nil
}

// Close closes the underlying connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	subject, data, err := encode(p.prefix, e)
	if err != nil {
		return err
	}

	call := func(context.Context) error {
		if err := p.conn.Publish(subject, data); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}
	if p.executor == nil {
		return call(ctx)
	}
	return p.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
}

// Subject returns the subject an event of type t is published on.
func Subject(prefix string, t Type) string {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		return string(t)
	}
	return prefix + "." + string(t)
}

func encode(prefix string, e Event) (string, []byte, error) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return "", nil, fmt.Errorf("encode event: %w", err)
	}
	return Subject(prefix, e.Type), data, nil
}

func classifyNATSError(err error) resilience.Classification {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.Classification{}
	case errors.Is(err, nats.ErrBadSubject), errors.Is(err, nats.ErrMaxPayload):
		return resilience.Classification{RecordFailure: true}
	}
	return resilience.Classification{Retryable: true, RecordFailure: true}
}
