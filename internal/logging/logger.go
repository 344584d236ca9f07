package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// NewJSONLogger returns a JSON logger writing one object per line to stdout.
// Timestamps are emitted under "ts" in RFC3339Nano using loc.
func NewJSONLogger(service, level string, loc *time.Location) *slog.Logger {
	return NewJSONLoggerWithWriter(os.Stdout, service, level, loc)
}

// NewJSONLoggerWithWriter is NewJSONLogger with an explicit destination.
func NewJSONLoggerWithWriter(w io.Writer, service, level string, loc *time.Location) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: timestampAttr(loc),
	})
	return slog.New(handler).With("service", service)
}

// ParseLevel maps a textual level to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// LoadLocation resolves an IANA zone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func timestampAttr(loc *time.Location) func([]string, slog.Attr) slog.Attr {
	if loc == nil {
		loc = time.UTC
	}
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.TimeKey {
			return slog.String("ts", a.Value.Time().In(loc).Format(time.RFC3339Nano))
		}
		return a
	}
}
