// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chuteworks/chute/lib/clock"
	"github.com/chuteworks/chute/lib/ingest"
	"github.com/chuteworks/chute/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "",
		"path to the unit configuration file (required)")
	listenAddress := flag.String("listen", ":8931",
		"TCP listen address")
	shutdownTimeout := flag.Duration("shutdown-timeout", 10*time.Second,
		"maximum time to wait for in-flight captures on shutdown")
	showVersion := flag.Bool("version", false,
		"print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("chute-server %s\n", version.Info())
		return nil
	}
	if *configPath == "" {
		return fmt.Errorf("--config is required")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	config, err := ingest.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	// Opening the handler claims every append unit's spool lock, so a
	// second server instance on the same spools fails here, before the
	// listener binds.
	handler, err := ingest.NewHandler(config, clock.Real(), logger)
	if err != nil {
		return err
	}
	defer handler.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := ingest.NewServer(ingest.ServerConfig{
		Address:         *listenAddress,
		Handler:         handler,
		ShutdownTimeout: *shutdownTimeout,
		Logger:          logger,
	})

	logger.Info("chute-server starting",
		"version", version.Short(),
		"config", *configPath,
		"units", len(config.Units),
	)

	return server.Serve(ctx)
}
