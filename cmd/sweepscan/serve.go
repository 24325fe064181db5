package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sweepscan/internal/slogx"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the watchlist and scan summary HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// The addr flag rides the normal SERVER_ADDR override.
	if serveAddr != "" {
		os.Setenv("SERVER_ADDR", serveAddr)
	}

	sa, err := InitializeServer(configPath)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	cfg := sa.Config
	slog.SetDefault(slogx.New(cfg.LogLevel, cfg.LogFormat))

	errCh := make(chan error, 1)
	go func() {
		errCh <- sa.Server.Start()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-signals:
		slog.Info("received signal, shutting down", "sig", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return sa.Server.Shutdown(ctx)
	}
}
