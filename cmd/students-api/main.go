// main is the entry point of the school MIS students API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (YAML file and/or environment variables)
//  2. Initialise the logger
//  3. Connect to MongoDB and ensure the collection's indexes
//  4. Register all HTTP routes and wrap them in middleware
//  5. Start the HTTP server in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, disconnect the
//     store, then exit
//
// RUNNING THE SERVER:
//
//	MONGO_URL=mongodb://localhost:27017 DB_NAME=school_mis \
//	    go run ./cmd/students-api
//
// or with a config file:
//
//	go run ./cmd/students-api --config=config/local.yaml
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/school-mis-api/internal/config"
	"github.com/aanand-mishra/school-mis-api/internal/http/handlers/health"
	"github.com/aanand-mishra/school-mis-api/internal/http/handlers/student"
	"github.com/aanand-mishra/school-mis-api/internal/http/middleware"
	"github.com/aanand-mishra/school-mis-api/internal/storage/mongodb"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad fails the process if MONGO_URL or DB_NAME is missing.
	// The name "Must" signals: if this returns, config is guaranteed valid.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// slog is Go's structured logger (stdlib since Go 1.21).
	// Structured logging writes key=value pairs rather than plain strings,
	// making logs easy to filter/search in tools like Loki or Datadog.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("version", health.Version),
	)

	// ── 3. Initialise Storage (Document Store) ────────────────────────────
	// mongodb.New connects, pings, and ensures indexes. The deadline keeps
	// a wrong MONGO_URL from hanging the boot indefinitely.
	// We store the result as the storage.Storage INTERFACE where it is
	// consumed — the handlers only ever see the interface, so swapping the
	// backend later only requires changing this one call.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := mongodb.New(startupCtx, cfg)
	cancelStartup()
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1) // non-zero exit code signals failure to the OS / CI system
	}

	log.Info("storage initialised",
		slog.String("database", cfg.DBName))

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	// http.NewServeMux() creates an empty router. HandleFunc maps a
	// METHOD+PATTERN to a handler; the handler factories receive `store`
	// and close over it (dependency injection via closures).
	//
	// Route table (all under the /api prefix):
	//   POST   /api/students                    → create a new student
	//   GET    /api/students                    → list all students
	//   GET    /api/students/{id}               → get one student by id
	//   PUT    /api/students/{id}               → partial update
	//   DELETE /api/students/{id}               → delete a student
	//   GET    /api/students/class/{class_name} → filter by class
	//   GET    /api/                            → service banner
	//   GET    /api/health                      → store liveness probe
	//
	// The class route cannot collide with the {id} route: {id} matches a
	// single path segment, and /students/class/10A has two. The banner
	// uses {$} so it matches /api/ exactly rather than every /api/* path.
	router := http.NewServeMux()

	router.HandleFunc("POST /api/students", student.New(store))
	router.HandleFunc("GET /api/students", student.GetList(store))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(store))
	router.HandleFunc("PUT /api/students/{id}", student.Update(store))
	router.HandleFunc("DELETE /api/students/{id}", student.Delete(store))
	router.HandleFunc("GET /api/students/class/{class_name}", student.GetByClass(store))
	router.HandleFunc("GET /api/{$}", health.Banner())
	router.HandleFunc("GET /api/health", health.Check(store))

	// Middleware wraps outside-in: CORS must run first so even an error
	// response from deep inside carries the CORS headers a browser needs.
	handler := middleware.CORS()(middleware.Logger(log)(router))

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: handler,

		// Production hardening — timeouts prevent slow-client attacks.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks forever, so it runs in its own goroutine and
	// main stays free to wait for the shutdown signal below.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown() is
		// called. That's expected — we don't want to log it as an error.
		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	// Buffered channel of size 1 so the signal isn't missed if main is
	// briefly busy. os.Interrupt = Ctrl+C; SIGTERM comes from `kill` and
	// container orchestrators.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	// Shutdown stops accepting new connections and waits (up to the ctx
	// deadline) for in-flight requests to complete. Only after the
	// server is quiet do we disconnect the store — requests may still be
	// using it until then.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
	}

	if err := store.Close(ctx); err != nil {
		log.Error("failed to disconnect storage",
			slog.String("error", err.Error()))
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
//
//	JSON logs are easy to ingest by log aggregators (Loki, CloudWatch, etc.)
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo, // INFO and above in production
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug, // more verbose in staging
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug, // all levels in development
			}),
		)
	}
}
