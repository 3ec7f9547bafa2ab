package graphql

import (
	"strings"
	"time"

	"github.com/PatchyVideo/pvgql/backend"
	"github.com/PatchyVideo/pvgql/errors"
)

// Config holds configuration for the GraphQL gateway server
type Config struct {
	// BindAddress is the HTTP bind address (default: ":8080")
	BindAddress string `json:"bind_address"`

	// Path is the GraphQL endpoint path (default: "/graphql")
	Path string `json:"path"`

	// BackendURL is the base URL of the REST backend (default: backend.DefaultBaseURL)
	BackendURL string `json:"backend_url"`

	// EnablePlayground enables the GraphQL Playground UI at / (default: true)
	EnablePlayground bool `json:"enable_playground"`

	// EnableCORS enables CORS headers (default: true)
	EnableCORS bool `json:"enable_cors"`

	// CORSOrigins lists allowed CORS origins (default: ["*"])
	CORSOrigins []string `json:"cors_origins,omitempty"`

	// TimeoutStr is the per-request timeout (default: "30s")
	TimeoutStr string `json:"timeout,omitempty"`

	// MaxQueryDepth limits GraphQL query nesting depth (default: 10)
	MaxQueryDepth int `json:"max_query_depth,omitempty"`

	// timeout is the parsed duration (internal use)
	timeout time.Duration
}

// DefaultConfig returns a Config populated with defaults
func DefaultConfig() Config {
	c := Config{EnablePlayground: true, EnableCORS: true}
	// Validate on a default struct only fills defaults, it cannot fail
	_ = c.Validate()
	return c
}

// Validate ensures the configuration is valid, filling defaults in place
func (c *Config) Validate() error {
	if c.BindAddress == "" {
		c.BindAddress = ":8080"
	}

	if c.Path == "" {
		c.Path = "/graphql"
	}
	if !strings.HasPrefix(c.Path, "/") {
		return errors.NewInvalid("path must start with /")
	}

	if c.BackendURL == "" {
		c.BackendURL = backend.DefaultBaseURL
	}

	if c.TimeoutStr == "" {
		c.timeout = 30 * time.Second
	} else {
		timeout, err := time.ParseDuration(c.TimeoutStr)
		if err != nil {
			return errors.NewInvalid("invalid timeout %q: %v", c.TimeoutStr, err)
		}
		if timeout < 100*time.Millisecond {
			return errors.NewInvalid("timeout must be at least 100ms")
		}
		if timeout > 5*time.Minute {
			return errors.NewInvalid("timeout must not exceed 5 minutes")
		}
		c.timeout = timeout
	}

	if c.MaxQueryDepth == 0 {
		c.MaxQueryDepth = 10
	}
	if c.MaxQueryDepth < 1 || c.MaxQueryDepth > 50 {
		return errors.NewInvalid("max_query_depth must be between 1 and 50")
	}

	if c.EnableCORS && len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}

	return nil
}

// Timeout returns the parsed per-request timeout
func (c *Config) Timeout() time.Duration {
	if c.timeout == 0 {
		return 30 * time.Second
	}
	return c.timeout
}
