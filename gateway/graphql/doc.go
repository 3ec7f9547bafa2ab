// Package graphql serves the gateway's GraphQL API over HTTP.
//
// The schema is embedded at build time and executed by graph-gophers against
// the resolver tree in the resolvers package. The server handles the
// GraphQL endpoint itself plus the operational surface around it: health
// checks, Prometheus metrics, CORS and an optional playground UI. Inbound
// credentials (session cookie, Authorization header) are lifted into the
// request context and forwarded verbatim to the REST backend.
package graphql
