// Package main implements the entry point for pvgql, the GraphQL gateway
// that fronts the PatchyVideo REST backend.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/gateway/graphql"
	"github.com/PatchyVideo/pvgql/metric"
	"github.com/PatchyVideo/pvgql/resolvers"
)

// Build information constants
const (
	Version   = "1.0.0"
	BuildTime = "dev"
	appName   = "pvgql"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	cfg := graphql.Config{
		BindAddress:      cliCfg.BindAddress,
		Path:             cliCfg.Path,
		BackendURL:       cliCfg.BackendURL,
		EnablePlayground: cliCfg.Playground,
		EnableCORS:       cliCfg.CORS,
		CORSOrigins:      splitOrigins(cliCfg.CORSOrigins),
		TimeoutStr:       cliCfg.Timeout,
		MaxQueryDepth:    cliCfg.MaxQueryDepth,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	slog.Info("Starting pvgql",
		"version", Version,
		"build_time", BuildTime,
		"backend", cfg.BackendURL)

	metrics := metric.NewMetrics()

	client := backend.NewClient(cfg.BackendURL,
		backend.WithLogger(logger),
		backend.WithMetrics(metrics),
	)

	schema, err := graphql.ParseSchema(resolvers.New(client, logger), cfg.MaxQueryDepth)
	if err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	server, err := graphql.NewServer(cfg, schema, metrics, logger)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	if err := server.Setup(); err != nil {
		return fmt.Errorf("setup server: %w", err)
	}

	return runWithSignalHandling(server, cliCfg, logger)
}

// runWithSignalHandling starts the server and blocks until SIGINT/SIGTERM,
// then shuts down within the configured timeout.
func runWithSignalHandling(server *graphql.Server, cliCfg *CLIConfig, logger *slog.Logger) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ready := make(chan struct{})
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background(), ready)
	}()

	select {
	case <-ready:
		logger.Info("Gateway ready", "address", cliCfg.BindAddress, "path", cliCfg.Path)
	case err := <-errChan:
		return err
	}

	select {
	case <-sigCtx.Done():
		logger.Info("Shutdown signal received")
		return server.Stop(cliCfg.ShutdownTimeout)
	case err := <-errChan:
		return err
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
