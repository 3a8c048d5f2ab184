// Package middleware wraps the handlers of the console's ops endpoint.
package middleware

import (
	"log/slog"
	"net/http"
)

// Middleware is a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain combines mws into one Middleware; the first runs outermost.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}

// Standard is the ops endpoint stack: panic recovery, request ids, then
// access logging.
func Standard(log *slog.Logger) Middleware {
	return Chain(Recovery(log), RequestID(), Logger(log))
}
