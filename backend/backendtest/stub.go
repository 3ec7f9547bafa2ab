// Package backendtest provides an in-process stub of the REST backend for
// resolver and client tests.
package backendtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Call records one request received by the stub.
type Call struct {
	Path   string
	Body   json.RawMessage
	Header http.Header
	Cookie string
}

// Response is a canned backend reply for one endpoint path.
type Response struct {
	// Status defaults to "SUCCEED" when empty.
	Status string
	// Data is marshalled into the envelope's data field.
	Data any
	// Reason and Aux populate the envelope's error body when Status is
	// not a success.
	Reason string
	Aux    *string
	// HTTPStatus overrides the 200 default.
	HTTPStatus int
}

// Stub is a fake REST backend over httptest. Endpoints are registered with
// On; every received call is recorded for later assertions.
type Stub struct {
	t   *testing.T
	srv *httptest.Server

	mu        sync.Mutex
	responses map[string]Response
	calls     []Call
}

// New starts a stub backend. It shuts down with the test.
func New(t *testing.T) *Stub {
	t.Helper()
	s := &Stub{
		t:         t,
		responses: make(map[string]Response),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the stub's base URL with a trailing slash, suitable for
// backend.NewClient.
func (s *Stub) URL() string {
	return s.srv.URL + "/"
}

// On registers a canned response for an endpoint path.
func (s *Stub) On(path string, resp Response) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = resp
	return s
}

// Calls returns all recorded calls in arrival order.
func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns the recorded calls for one endpoint path.
func (s *Stub) CallsTo(path string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (s *Stub) handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.t.Errorf("backendtest: reading body for %s: %v", r.URL.Path, err)
	}
	path := r.URL.Path[1:] // endpoints are registered without leading slash

	var cookie string
	if c, err := r.Cookie("session"); err == nil {
		cookie = c.Value
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Path:   path,
		Body:   json.RawMessage(body),
		Header: r.Header.Clone(),
		Cookie: cookie,
	})
	resp, ok := s.responses[path]
	s.mu.Unlock()

	if !ok {
		s.t.Errorf("backendtest: unexpected call to %q", path)
		http.NotFound(w, r)
		return
	}

	status := resp.Status
	if status == "" {
		status = "SUCCEED"
	}
	envelope := map[string]any{"status": status}
	if resp.Data != nil {
		envelope["data"] = resp.Data
	}
	if status != "SUCCEED" {
		envelope["error"] = map[string]any{"reason": resp.Reason, "aux": resp.Aux}
	}

	httpStatus := resp.HTTPStatus
	if httpStatus == 0 {
		httpStatus = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		s.t.Errorf("backendtest: encoding response for %q: %v", path, err)
	}
}
