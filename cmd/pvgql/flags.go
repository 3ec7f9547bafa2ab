package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	BindAddress     string
	Path            string
	BackendURL      string
	Timeout         string
	MaxQueryDepth   int
	Playground      bool
	CORS            bool
	CORSOrigins     string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	ShowVersion     bool
	ShowHelp        bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.BindAddress, "bind",
		getEnv("PVGQL_BIND", ":8080"),
		"HTTP bind address (env: PVGQL_BIND)")

	flag.StringVar(&cfg.Path, "path",
		getEnv("PVGQL_PATH", "/graphql"),
		"GraphQL endpoint path (env: PVGQL_PATH)")

	flag.StringVar(&cfg.BackendURL, "backend",
		getEnv("PVGQL_BACKEND", ""),
		"REST backend base URL (env: PVGQL_BACKEND)")

	flag.StringVar(&cfg.Timeout, "timeout",
		getEnv("PVGQL_TIMEOUT", "30s"),
		"Per-request timeout (env: PVGQL_TIMEOUT)")

	flag.IntVar(&cfg.MaxQueryDepth, "max-query-depth",
		getEnvInt("PVGQL_MAX_QUERY_DEPTH", 10),
		"Maximum GraphQL query nesting depth (env: PVGQL_MAX_QUERY_DEPTH)")

	flag.BoolVar(&cfg.Playground, "playground",
		getEnvBool("PVGQL_PLAYGROUND", true),
		"Serve the GraphQL Playground UI at / (env: PVGQL_PLAYGROUND)")

	flag.BoolVar(&cfg.CORS, "cors",
		getEnvBool("PVGQL_CORS", true),
		"Enable CORS headers (env: PVGQL_CORS)")

	flag.StringVar(&cfg.CORSOrigins, "cors-origins",
		getEnv("PVGQL_CORS_ORIGINS", "*"),
		"Comma-separated allowed CORS origins (env: PVGQL_CORS_ORIGINS)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("PVGQL_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: PVGQL_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("PVGQL_LOG_FORMAT", "json"),
		"Log format: json, text (env: PVGQL_LOG_FORMAT)")

	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("PVGQL_SHUTDOWN_TIMEOUT", 30*time.Second),
		"Graceful shutdown timeout (env: PVGQL_SHUTDOWN_TIMEOUT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %s", cfg.ShutdownTimeout)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - GraphQL gateway for the PatchyVideo backend

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Run against a local backend
  %s --backend=http://localhost:5000/

  # Run with debug logging
  %s --log-level=debug --log-format=text

  # Run with environment variables
  export PVGQL_BACKEND=https://thvideo.tv/be/
  export PVGQL_LOG_LEVEL=debug
  %s

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
