// Package health contains the service banner and liveness endpoints.
//
// These are the endpoints load balancers and uptime monitors hit, so
// they follow two rules the student handlers don't need:
//
//   - The probe gets its own short deadline. A health check that hangs
//     for thirty seconds is worse than one that fails fast — the caller
//     wants to know NOW whether to route traffic here.
//
//   - Failure detail stays in the logs. The 503 body says only
//     "service unavailable"; connection strings and driver errors are
//     not something to hand to whoever is polling a public endpoint.
package health

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/school-mis-api/internal/utils/response"
)

// Pinger is the one sliver of the storage contract this package needs.
// Accepting the small interface instead of the full storage.Storage
// keeps the probe decoupled from every CRUD method it will never call.
type Pinger interface {
	Ping(ctx context.Context) error
}

// pingTimeout bounds the store round trip for one liveness probe.
const pingTimeout = 5 * time.Second

// Version reported by the banner endpoint.
const Version = "1.0"

// Banner handles GET /api/
// Returns the service identity — a cheap way for a client (or a human
// with curl) to confirm they reached the right API.
func Banner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "Smart School Management System API",
			"version": Version,
		})
	}
}

// Check handles GET /api/health
// Pings the document store and reports the result.
//
// Success response (200 OK):
//
//	{ "status": "healthy", "timestamp": "...", "database": "connected" }
//
// Failure response (503 Service Unavailable): a generic
// "service unavailable" — the underlying ping error is logged, never
// exposed to the caller.
func Check(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusServiceUnavailable,
				response.GeneralError(errors.New("service unavailable")))
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"database":  "connected",
		})
	}
}
