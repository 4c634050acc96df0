package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/mind-engage/quizsystem/internal/config"
	"github.com/mind-engage/quizsystem/internal/logging"
	"github.com/mind-engage/quizsystem/internal/server"
)

func main() {
	flagConfig := pflag.String("config", "", "path to the YAML config file (default $CONFIG_PATH)")
	pflag.Parse()

	c, err := loadConfig(*flagConfig)
	if err != nil {
		log.Fatalf("Load config failed: %v", err)
	}

	logger, err := logging.New(os.Stderr, c.Log)
	if err != nil {
		log.Fatalf("Init logger failed: %v", err)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	s, err := server.Init(c)
	if err != nil {
		slog.Error("main: init server failed", "error", err)
		os.Exit(1)
	}

	err = s.Start(ctx)
	s.Shutdown()
	if err != nil {
		slog.Error("main: server stopped", "error", err)
		os.Exit(1)
	}
}

// loadConfig layers the file (flag, then CONFIG_PATH) and env over the
// defaults. Without a file only defaults and env apply.
func loadConfig(path string) (server.Config, error) {
	c := server.DefaultConfig()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if err := config.Load(path, &c); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}
