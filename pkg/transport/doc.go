// Package transport provides the HTTP-facing plumbing shared by the
// storefront's endpoints: error-to-status mapping, JSON error responses,
// and the middleware chain.
//
// The middleware operates at the http.Handler level. Built-in middleware
// provides panic recovery, request ID assignment (X-Request-ID), and
// structured request logging via log/slog. The HTTP adapter in
// transport/http composes them with the route handlers.
package transport
