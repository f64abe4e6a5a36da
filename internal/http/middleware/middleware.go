// Package middleware holds the HTTP middleware shared by every route:
// request logging and CORS. Each middleware is a function that wraps an
// http.Handler and returns a new one, so they chain naturally in main:
//
//	handler := middleware.CORS()(middleware.Logger(log)(router))
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
)

// Logger returns a middleware that writes one structured log line per
// handled request: method, path, status, and how long the handler took.
func Logger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// http.ResponseWriter has no way to ask "what status was
			// written?", so we wrap it and remember the code ourselves.
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			log.Info("request handled",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter captures the status code a handler writes. The default
// is 200 because a handler that writes the body without ever calling
// WriteHeader gets an implicit 200 from net/http.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// CORS returns a middleware permitting cross-origin requests from ANY
// origin, with any method and any header, credentials included.
//
// SECURITY NOTE: this is an allow-everything policy kept for
// compatibility with the existing browser clients. Allowing credentials
// together with every origin defeats the point of the same-origin
// policy — a deployment facing the open internet should pin
// AllowOriginFunc to a real origin list.
func CORS() func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		// AllowOriginFunc (rather than AllowedOrigins: ["*"]) makes the
		// library echo the caller's Origin back, which is the only form
		// browsers accept when credentials are allowed.
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler
}
