// Package logger configures the process-wide slog logger.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type Config struct {
	Level  string
	Format string // "console", "text" or "json"
	Output io.Writer
	// Color styles console level tags.
	Color bool
}

var (
	once sync.Once
	lg   *slog.Logger
)

// Init installs the logger built from cfg as the default. Only the first call
// has any effect.
func Init(cfg Config) {
	once.Do(func() {
		lg = New(cfg)
		slog.SetDefault(lg)
	})
}

// L returns the process logger, installing a console default on first use.
func L() *slog.Logger {
	Init(Config{Level: "info", Format: "console"})
	return lg
}

func New(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	level := parseLevel(cfg.Level)
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(cfg.Output, &slog.HandlerOptions{Level: level})
	case "text":
		handler = slog.NewTextHandler(cfg.Output, &slog.HandlerOptions{Level: level})
	default:
		handler = &consoleHandler{w: cfg.Output, level: level, color: cfg.Color, mu: &sync.Mutex{}}
	}
	return slog.New(handler)
}

func parseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var levelStyles = map[string]lipgloss.Style{
	"ERROR": lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true),
	"WARN ": lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F")),
	"INFO ": lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD7FF")),
	"DEBUG": lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
}

// consoleHandler writes one short line per record:
//
//	12:00:00 INFO  run saved  id=default_1700000000000 ticks=300
type consoleHandler struct {
	w     io.Writer
	level slog.Level
	color bool
	attrs []slog.Attr
	group string
	mu    *sync.Mutex
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.Format(time.TimeOnly)
	lvl := levelTag(r.Level)
	if h.color {
		lvl = levelStyles[lvl].Render(lvl)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", ts, lvl, r.Message)
	for _, a := range h.attrs {
		b.WriteString(formatAttr(h.group, a))
	}
	r.Attrs(func(a slog.Attr) bool {
		b.WriteString(formatAttr(h.group, a))
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		w:     h.w,
		level: h.level,
		color: h.color,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
		group: h.group,
		mu:    h.mu,
	}
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	prefix := name
	if h.group != "" {
		prefix = h.group + "." + name
	}
	return &consoleHandler{
		w:     h.w,
		level: h.level,
		color: h.color,
		attrs: append([]slog.Attr{}, h.attrs...),
		group: prefix,
		mu:    h.mu,
	}
}

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN "
	case l >= slog.LevelInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}

func formatAttr(group string, a slog.Attr) string {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	return fmt.Sprintf("  %s=%v", key, a.Value)
}
