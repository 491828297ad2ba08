// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as CORS headers, request ids, request logging, tracing
// and panic recovery, plus the global error handler.
package middleware
