package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/google/uuid"
	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PatchyVideo/pvgql/auth"
	"github.com/PatchyVideo/pvgql/errors"
	"github.com/PatchyVideo/pvgql/metric"
)

// Server manages the HTTP server for the GraphQL endpoint
type Server struct {
	config     Config
	schema     *graphqlgo.Schema
	metrics    *metric.Metrics
	logger     *slog.Logger
	httpServer *http.Server
	mux        *http.ServeMux

	// Lifecycle
	running  bool
	mu       sync.RWMutex
	stopChan chan struct{}
	stopOnce sync.Once // Ensures stopChan is closed exactly once
}

// NewServer creates a new GraphQL HTTP server
func NewServer(config Config, schema *graphqlgo.Schema, metrics *metric.Metrics, logger *slog.Logger) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if schema == nil {
		return nil, errors.NewInvalid("schema is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		config:   config,
		schema:   schema,
		metrics:  metrics,
		logger:   logger.With("component", "graphql-server"),
		mux:      http.NewServeMux(),
		stopChan: make(chan struct{}),
	}, nil
}

// Setup configures the HTTP server and routes
func (s *Server) Setup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mux.HandleFunc(s.config.Path, s.handleGraphQL)

	// Health check endpoint
	s.mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics endpoint
	reg := prometheus.NewRegistry()
	if s.metrics != nil {
		if err := s.metrics.Register(reg); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}
	s.mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// GraphQL Playground (if enabled)
	if s.config.EnablePlayground {
		s.mux.Handle("/", playground.Handler("PatchyVideo GraphQL", s.config.Path))
		s.logger.Info("GraphQL Playground enabled",
			"url", fmt.Sprintf("http://%s/", s.config.BindAddress))
	}

	// CORS middleware wrapper
	var handler http.Handler = s.mux
	if s.config.EnableCORS {
		handler = s.corsMiddleware(handler)
	}

	s.httpServer = &http.Server{
		Addr:         s.config.BindAddress,
		Handler:      handler,
		ReadTimeout:  s.config.Timeout(),
		WriteTimeout: s.config.Timeout(),
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Server configured",
		"address", s.config.BindAddress,
		"path", s.config.Path,
		"backend", s.config.BackendURL,
		"timeout", s.config.Timeout())

	return nil
}

// Start starts the HTTP server
// The ready channel is closed when the server is ready to accept connections
func (s *Server) Start(ctx context.Context, ready chan<- struct{}) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.NewInvalid("server already running")
	}
	s.running = true
	server := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		s.logger.Info("Server starting", "address", s.config.BindAddress)

		// ListenAndServe blocks after binding the socket, so signal ready
		// immediately before the call
		if ready != nil {
			close(ready)
		}

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
			select {
			case errChan <- err:
			case <-ctx.Done():
			case <-s.stopChan:
			}
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Server context cancelled, shutting down")
		return s.Stop(30 * time.Second)

	case <-s.stopChan:
		s.logger.Info("Server stop requested")
		return nil

	case err := <-errChan:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("HTTP server failed: %w", err)
	}
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil // Already stopped
	}
	server := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Server stopping")

	s.stopOnce.Do(func() {
		close(s.stopChan)
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shutdown server gracefully", "error", err)
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Server stopped")
	return nil
}

// graphqlRequest is the standard GraphQL-over-HTTP request body
type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// handleGraphQL executes a GraphQL request. GET requests carry the query in
// URL parameters, POST requests carry a JSON body. The session cookie and
// Authorization header travel to resolvers through the context; the gateway
// never inspects them itself.
func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()

	var req graphqlRequest
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if raw := q.Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				s.writeError(w, http.StatusBadRequest, "variables must be a JSON object")
				return
			}
		}
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if req.Query == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.Timeout())
	defer cancel()
	ctx = auth.WithCredentials(ctx, auth.FromRequest(r))

	response := s.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)

	operation := req.OperationName
	if operation == "" {
		operation = "unnamed"
	}
	status := "ok"
	if len(response.Errors) > 0 {
		status = "error"
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordRequest(operation, status)
		s.metrics.RecordRequestDuration(operation, elapsed)
	}
	s.logger.Debug("GraphQL request",
		"request_id", requestID,
		"operation", operation,
		"status", status,
		"errors", len(response.Errors),
		"duration", elapsed)

	body, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("Failed to marshal response", "request_id", requestID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (s *Server) writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]string{{"message": message}},
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	running := s.running
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if !running {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range s.config.CORSOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			} else {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
