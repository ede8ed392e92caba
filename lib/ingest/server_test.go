// Copyright 2026 The Chute Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chuteworks/chute/lib/clock"
	"github.com/chuteworks/chute/lib/testutil"
)

func TestServerLifecycle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	config := &Config{Units: []UnitConfig{{
		Name:   "logs",
		Secret: "swordfish",
		Out:    filepath.Join(dir, "logs.spool"),
		Append: true,
	}}}
	handler, err := NewHandler(config, clock.Fake(captureTime), logger)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	defer handler.Close()

	server := NewServer(ServerConfig{
		Address:         "127.0.0.1:0", // OS-assigned port
		Handler:         handler,
		ShutdownTimeout: 2 * time.Second,
		Logger:          logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- server.Serve(ctx)
	}()

	testutil.RequireClosed(t, server.Ready(), 5*time.Second, "server ready")

	// Run one capture through the live listener.
	address := server.Addr().String()
	response, err := http.Post(
		"http://"+address+"/capture/swordfish?d=logs",
		"text/plain",
		strings.NewReader("over the wire"),
	)
	if err != nil {
		t.Fatalf("POST capture: %v", err)
	}
	response.Body.Close()
	if response.StatusCode != http.StatusNoContent {
		t.Errorf("capture status = %d, want 204", response.StatusCode)
	}

	records := scanSpool(t, filepath.Join(dir, "logs.spool"))
	if len(records) != 1 {
		t.Fatalf("spool has %d records, want 1", len(records))
	}

	// Cancel the context to trigger graceful shutdown.
	cancel()

	if err := testutil.RequireReceive(t, serveDone, 5*time.Second, "server shutdown"); err != nil {
		t.Errorf("Serve() = %v, want nil", err)
	}
}

func TestNewServerPanicsOnMissingConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	tests := []struct {
		name   string
		config ServerConfig
	}{
		{
			name:   "missing_address",
			config: ServerConfig{Handler: handler, Logger: logger},
		},
		{
			name:   "missing_handler",
			config: ServerConfig{Address: ":0", Logger: logger},
		},
		{
			name:   "missing_logger",
			config: ServerConfig{Address: ":0", Handler: handler},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("NewServer did not panic")
				}
			}()
			NewServer(tt.config)
		})
	}
}
