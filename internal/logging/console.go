package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// ConsoleHandler prints one colored line per record for local development.
type ConsoleHandler struct {
	mu    *sync.Mutex
	l     *log.Logger
	level slog.Leveler
	attrs []slog.Attr
	group string
}

func NewConsoleHandler(out io.Writer, level slog.Leveler) *ConsoleHandler {
	return &ConsoleHandler{
		mu:    &sync.Mutex{},
		l:     log.New(out, "", 0),
		level: level,
	}
}

func (c *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

func (c *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"

	switch {
	case r.Level >= slog.LevelError:
		level = color.RedString(level)
	case r.Level >= slog.LevelWarn:
		level = color.YellowString(level)
	case r.Level >= slog.LevelInfo:
		level = color.HiBlueString(level)
	default:
		level = color.MagentaString(level)
	}

	var b strings.Builder
	write := func(a slog.Attr) {
		fmt.Fprintf(&b, "%s=%v ", color.GreenString(a.Key), a.Value.Resolve().Any())
	}
	for _, a := range c.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(c.qualify(a))
		return true
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.l.Println(
		r.Time.Format("15:04:05.000"),
		level,
		r.Message,
		strings.TrimSpace(b.String()),
	)
	return nil
}

func (c *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h := *c
	h.attrs = append([]slog.Attr{}, c.attrs...)
	for _, a := range attrs {
		h.attrs = append(h.attrs, c.qualify(a))
	}
	return &h
}

func (c *ConsoleHandler) WithGroup(name string) slog.Handler {
	h := *c
	if h.group != "" {
		name = h.group + "." + name
	}
	h.group = name
	return &h
}

func (c *ConsoleHandler) qualify(a slog.Attr) slog.Attr {
	if c.group != "" {
		a.Key = c.group + "." + a.Key
	}
	return a
}
