/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the absence ledger server: configuration,
  logging, schema bootstrap, dependency wiring, graceful shutdown.

STARTUP SEQUENCE:
  1. Load env config (LEDGER_*), apply flag overrides
  2. Configure logrus
  3. Open SQLite store and run the explicit schema migration
  4. Wire handlers and the chi router
  5. Serve with graceful shutdown on SIGINT/SIGTERM

CONFIGURATION:
  LEDGER_PORT          HTTP port (default 8080)
  LEDGER_DB            SQLite database path (default ledger.db,
                       ":memory:" for in-memory)
  LEDGER_CORS_ORIGINS  comma-separated allowed origins
  LEDGER_LOG_LEVEL     logrus level (default info)

  Flags -port and -db override the environment.

SEE ALSO:
  - api/server.go: router configuration
  - store/sqlite/sqlite.go: database implementation
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

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/warp/absence-ledger/api"
	"github.com/warp/absence-ledger/store/sqlite"
)

// Config is loaded from LEDGER_* environment variables.
type Config struct {
	Port        int      `default:"8080"`
	DB          string   `default:"ledger.db"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("ledger", &cfg); err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DB, "SQLite database path")
	flag.Parse()

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Open store and bootstrap the schema up front; request handling
	// never checks schema readiness.
	store, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(context.Background()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	handler := api.NewHandler(store, store, log)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": *port, "db": *dbPath}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("server stopped")
}
