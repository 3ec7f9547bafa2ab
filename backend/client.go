// Package backend talks to the PatchyVideo REST backend. All calls are
// JSON-over-POST against a single base URL; the response envelope carries a
// status string, an optional data payload, and an optional error body.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PatchyVideo/pvgql/auth"
	"github.com/PatchyVideo/pvgql/errors"
	"github.com/PatchyVideo/pvgql/metric"
)

// DefaultBaseURL is the production REST backend.
const DefaultBaseURL = "https://thvideo.tv/be/"

// StatusSucceed is the envelope status for a successful backend call.
const StatusSucceed = "SUCCEED"

// Client is a shared handle on the REST backend. It is safe for concurrent
// use and should be constructed once per process.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
	metrics *metric.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default pooled HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics enables per-call counters and duration histograms.
func WithMetrics(m *metric.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a backend client for the given base URL. An empty base
// URL selects the production backend.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	// Paths are joined by plain concatenation.
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		logger:  slog.Default().With("component", "backend"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the wire response format shared by every backend endpoint.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *errorBody      `json:"error"`
}

type errorBody struct {
	Reason string  `json:"reason"`
	Aux    *string `json:"aux"`
}

// Post sends a JSON POST to path and decodes the enveloped response into T.
// Credentials found on ctx are attached: a session token becomes the session
// cookie, an authorization value becomes the Authorization header. Both are
// optional and independent.
//
// Failures map onto the error taxonomy: network, non-2xx, and undecodable
// responses become TransportError (detail logged, never surfaced);
// a non-SUCCEED status becomes BackendError; a SUCCEED envelope with no
// data is MalformedPayload.
func Post[T any](ctx context.Context, c *Client, path string, payload any) (*T, error) {
	start := time.Now()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewTransport(err, path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewTransport(err, path)
	}
	req.Header.Set("Content-Type", "application/json")

	creds := auth.FromContext(ctx)
	if creds.Session != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: creds.Session})
	}
	if creds.Authorization != "" {
		req.Header.Set("Authorization", creds.Authorization)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.observe(path, "transport_error", start)
		c.logger.Error("backend request failed", "path", path, "error", err)
		return nil, errors.NewTransport(err, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.observe(path, "http_error", start)
		c.logger.Error("backend returned non-2xx", "path", path, "status", resp.StatusCode)
		return nil, errors.NewTransport(fmt.Errorf("unexpected status %d", resp.StatusCode), path)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		c.observe(path, "decode_error", start)
		c.logger.Error("backend response undecodable", "path", path, "error", err)
		return nil, errors.NewTransport(err, path)
	}
	c.observe(path, env.Status, start)

	if env.Status != StatusSucceed {
		code := env.Status
		reason := env.Status
		var aux *string
		if env.Error != nil {
			reason = env.Error.Reason
			aux = env.Error.Aux
		}
		c.logger.Warn("backend call rejected", "path", path, "status", env.Status, "reason", reason)
		return nil, errors.NewBackend(code, reason, aux)
	}

	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil, errors.NewMalformed(path, "SUCCEED envelope without data")
	}

	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, errors.NewMalformed(path, "data payload does not match expected shape: %v", err)
	}
	return &out, nil
}

// PostStatus is Post for endpoints whose success carries no data payload.
// Only the envelope status is inspected.
func PostStatus(ctx context.Context, c *Client, path string, payload any) error {
	type ignored struct{}
	_, err := Post[ignored](ctx, c, path, payload)
	if errors.IsMalformed(err) {
		// A SUCCEED envelope without data is fine here.
		return nil
	}
	return err
}

func (c *Client) observe(path, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordBackendCall(path, status)
	c.metrics.RecordBackendDuration(path, time.Since(start))
}
