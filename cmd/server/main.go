/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the workload allocation engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Configure zerolog
  3. Initialize SQLite store
  4. Create API handler with engine settings
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port       HTTP server port (default: 8080)
  -db         SQLite database path (default: workload.db)
              Use ":memory:" for in-memory database
  -hours      Standard working hours per business day (default: 7.5)
  -quantum    Allocation rounding unit in hours, 0 disables (default: 0.25)
  -demand     Per-day demand mode: total or daily_rate (default: total)
  -log-level  zerolog level: debug, info, warn, error (default: info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/workload.db"

  # Run with 8h standard days and no quantization
  ./server -hours=8 -quantum=0

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/workload-engine/api"
	"github.com/warp/workload-engine/store/sqlite"
	"github.com/warp/workload-engine/workload"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "workload.db", "SQLite database path")
	stdHours := flag.Float64("hours", 7.5, "standard working hours per business day")
	quantum := flag.Float64("quantum", 0.25, "allocation rounding unit in hours (0 disables)")
	demand := flag.String("demand", string(workload.DemandTotal), "per-day demand mode: total or daily_rate")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	// Logging
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	// Validate the demand mode up front so a typo fails at startup, not
	// on the first workload request.
	if _, err := workload.NewCalculator(workload.DemandMode(*demand)); err != nil {
		log.Fatal().Err(err).Msg("invalid -demand flag")
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	// Initialize handler and router
	handler := api.NewHandler(store, *stdHours, *quantum, workload.DemandMode(*demand), log)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", *port).Float64("standard_hours", *stdHours).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
