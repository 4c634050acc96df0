// Package logging builds the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging: level %q: %w", s, err)
	}
	return l, nil
}

// New returns a JSON logger for format "json" and a colored console logger
// for "console" or an empty format.
func New(out io.Writer, c Config) (*slog.Logger, error) {
	level := slog.LevelInfo
	if c.Level != "" {
		var err error
		if level, err = ParseLevel(c.Level); err != nil {
			return nil, err
		}
	}

	switch strings.ToLower(c.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})), nil
	case "", "console", "text":
		return slog.New(NewConsoleHandler(out, level)), nil
	default:
		return nil, fmt.Errorf("logging: unsupported format %q (expected json|console)", c.Format)
	}
}
