package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/penguin-paradise/common"
	"github.com/Carmen-Shannon/penguin-paradise/config"
	"github.com/Carmen-Shannon/penguin-paradise/logging"
	"github.com/Carmen-Shannon/penguin-paradise/server"
)

func main() {
	configPath := flag.String("config", "penguins.toml", "path to the TOML config file")
	port := flag.Int("port", 0, "listen port (overrides config)")
	root := flag.String("root", "", "directory to serve (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port, *root); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, port int, root string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	srv := server.NewServer(
		server.WithRoot(common.Coalesce(root, cfg.Server.Root)),
		server.WithPort(common.Coalesce(port, cfg.Server.Port)),
		server.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx)
}
