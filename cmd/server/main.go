/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the extra-duty roster server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (optional) and parse command-line flags
  2. Initialize SQLite store
  3. Load the configuration file (authored tables), if any
  4. Create API handler with dependencies
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: escala.db)
           Use ":memory:" for an in-memory database
  -config  Optional JSON configuration file (tables, capacities, cap)

ENVIRONMENT:
  PORT, DB_PATH, CONFIG_PATH, LOG_LEVEL override the flag defaults.
  A .env file in the working directory is loaded when present.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/escala.db"

  # Run with authored configuration
  ./server -config="./config/company.json"

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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/escala/duty-engine/api"
	"github.com/escala/duty-engine/corps"
	"github.com/escala/duty-engine/factory"
	"github.com/escala/duty-engine/roster"
	"github.com/escala/duty-engine/store/sqlite"
)

func main() {
	// .env is optional; flags and environment win over defaults.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "escala.db"), "SQLite database path")
	configPath := flag.String("config", envStr("CONFIG_PATH", ""), "JSON configuration file")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(envStr("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "duty-engine").Logger()

	// Configuration: production defaults, overridden by the authored file.
	cfg := roster.DefaultConfig()
	tables := corps.DefaultTables()
	var parsed *factory.Result
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("failed to read config")
		}
		parsed, err = factory.NewConfigFactory().Parse(data)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to parse config")
		}
		cfg = parsed.Config
		tables = parsed.Tables
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	// Seed authored calendars from the config file, if any.
	if parsed != nil {
		for key, calendar := range parsed.Calendars {
			if err := store.PutOrdinaryCalendar(context.Background(), key, calendar); err != nil {
				logger.Warn().Err(err).Str("month", key.String()).Msg("failed to seed calendar")
			}
		}
	}

	handler := api.NewHandler(cfg, tables, store, store, logger)
	router := api.NewRouter(handler, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Int("port", *port).Msg("server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}
