// Package logger builds the scheduler's log/slog.Logger: the config's
// logging.sink selects the durable destination (rotating file or
// syslog), always teed to the console so a foreground run stays visible,
// wrapped in a handler that redacts credentials before they reach any of
// them.
package logger

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace is one step below slog.LevelDebug, for the "trace" level
// named in the config schema.
const LevelTrace = slog.Level(-8)

// Options configures New. Sink selects the destination; the file and syslog
// sinks also write to the console. Env controls the console handler's
// time-format choice.
type Options struct {
	Env   string
	Level string // error|warn|info|debug|trace, default info
	Sink  string // stdout|file|syslog, default stdout
	File  string
	App   string
}

var closers sync.Map

// sensitiveKeys are redacted by exact (case-insensitive) attribute key
// match, so credentials never reach a log sink.
var sensitiveKeys = []string{"smtp_password", "smtp_username", "password", "token", "secret"}

// New builds the configured slog.Logger. Errors constructing the syslog
// sink fall back to stdout with a warning logged through the fallback
// handler itself, so New never fails.
func New(o Options) *slog.Logger {
	level := levelFromString(o.Level)

	var handler slog.Handler
	var closer func() error

	switch o.Sink {
	case "file":
		if o.File == "" {
			handler = consoleHandler(o.Env, level)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   o.File,
				MaxSize:    5,
				MaxBackups: 3,
				MaxAge:     28,
				Compress:   true,
			}
			closer = fileWriter.Close
			handler = NewMultiHandler(
				slog.NewJSONHandler(fileWriter, &slog.HandlerOptions{Level: level}),
				consoleHandler(o.Env, level),
			)
		}
	case "syslog":
		sh, sc, err := newSyslogHandler(level)
		if err != nil {
			fallback := NewRedactingHandler(consoleHandler(o.Env, level), sensitiveKeys)
			slog.New(fallback).Warn("syslog unavailable, falling back to stdout", "err", err)
		} else {
			handler, closer = NewMultiHandler(sh, consoleHandler(o.Env, level)), sc
		}
	default:
		handler = consoleHandler(o.Env, level)
	}

	if handler == nil {
		handler = consoleHandler(o.Env, level)
	}

	handler = NewRedactingHandler(handler, sensitiveKeys)

	l := slog.New(handler).With(
		slog.String("app", o.App),
		slog.String("env", o.Env),
	)

	if closer != nil {
		closers.Store(l, closer)
	}

	return l
}

func consoleHandler(env string, level slog.Level) slog.Handler {
	if env == "dev" {
		return tint.NewHandler(os.Stdout, &tint.Options{Level: level, TimeFormat: time.Kitchen})
	}
	return tint.NewHandler(os.Stdout, &tint.Options{Level: level, TimeFormat: time.RFC3339})
}

// Close releases the file or syslog handle underlying logger, if any.
func Close(logger *slog.Logger) error {
	if c, ok := closers.Load(logger); ok {
		closers.Delete(logger)
		return c.(func() error)()
	}
	return nil
}

func levelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RedactingHandler masks sensitive log attributes before they reach inner.
type RedactingHandler struct {
	inner slog.Handler
	keys  map[string]struct{}
}

// NewRedactingHandler wraps handler, redacting any attribute whose key
// (case-insensitive) is in sensitive, or whose string value looks like a
// bearer token or secret.
func NewRedactingHandler(inner slog.Handler, sensitive []string) *RedactingHandler {
	m := make(map[string]struct{}, len(sensitive))
	for _, k := range sensitive {
		m[strings.ToLower(k)] = struct{}{}
	}
	return &RedactingHandler{inner: inner, keys: m}
}

func (h *RedactingHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.inner.Enabled(ctx, l)
}

func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	nr := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	var attrs []slog.Attr
	r.Attrs(func(a slog.Attr) bool { attrs = append(attrs, a); return true })
	nr.AddAttrs(h.sanitize(attrs...)...)
	return h.inner.Handle(ctx, nr)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RedactingHandler{inner: h.inner.WithAttrs(h.sanitize(attrs...)), keys: h.keys}
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{inner: h.inner.WithGroup(name), keys: h.keys}
}

func (h *RedactingHandler) sanitize(attrs ...slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		k := strings.ToLower(a.Key)
		if _, ok := h.keys[k]; ok {
			out = append(out, slog.String(a.Key, "[REDACTED]"))
			continue
		}
		if tokenLikeKey.MatchString(a.Key) {
			out = append(out, slog.String(a.Key, "[REDACTED]"))
			continue
		}
		if s, ok := a.Value.Any().(string); ok && looksSensitive(s) {
			out = append(out, slog.String(a.Key, "[REDACTED]"))
			continue
		}
		out = append(out, a)
	}
	return out
}

// tokenLikeKey matches env-var-style keys such as SMTP_PASSWORD,
// API_TOKEN, WEBHOOK_SECRET surfaced from a task's env map.
var tokenLikeKey = regexp.MustCompile(`(?i)(_token|_secret|_password)$`)

func looksSensitive(s string) bool {
	if len(s) > 12 && (strings.Contains(s, "sk-") || strings.Contains(strings.ToLower(s), "bearer ")) {
		return true
	}
	return false
}

// MultiHandler fans a record out to every handler that has it enabled.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler combines handlers into one.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: handlers}
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &MultiHandler{handlers: handlers}
}
