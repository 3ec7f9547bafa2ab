// Package auth carries request-scoped credentials through resolver calls.
// The gateway never validates credentials itself; it forwards them verbatim
// to the backend, which is the sole authority on auth validity. Credentials
// are immutable after construction, so resolvers sharing one request context
// are safe to run concurrently.
package auth

import (
	"context"
	"net/http"
)

// SessionCookie is the inbound cookie holding the opaque session token.
const SessionCookie = "session"

// Credentials holds the optional opaque tokens attached to one request.
// Zero values mean anonymous; both tokens may be present simultaneously.
type Credentials struct {
	// Session is the opaque session token from the inbound session cookie
	Session string
	// Authorization is the verbatim inbound Authorization header value
	Authorization string
}

// Anonymous reports whether the request carries no credentials at all
func (c Credentials) Anonymous() bool {
	return c.Session == "" && c.Authorization == ""
}

type contextKey struct{}

// WithCredentials returns a context carrying the given credentials
func WithCredentials(ctx context.Context, c Credentials) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext extracts credentials from ctx. A context without credentials
// yields the anonymous zero value.
func FromContext(ctx context.Context) Credentials {
	c, _ := ctx.Value(contextKey{}).(Credentials)
	return c
}

// FromRequest extracts credentials from an inbound HTTP request: the session
// cookie and the Authorization header, both optional.
func FromRequest(r *http.Request) Credentials {
	var c Credentials
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		c.Session = cookie.Value
	}
	c.Authorization = r.Header.Get("Authorization")
	return c
}
