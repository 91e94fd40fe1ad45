// Package main initializes and starts the snapshot relay server,
// setting up configuration, logging, the database connection,
// repositories, services and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/klinikapp/klinikd/internal/config"
	"github.com/klinikapp/klinikd/internal/db"
	"github.com/klinikapp/klinikd/internal/logger"
	"github.com/klinikapp/klinikd/internal/repository"
	"github.com/klinikapp/klinikd/internal/server/handler/http"
	"github.com/klinikapp/klinikd/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port
	dsn := options.DatabaseDSN

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(dsn)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Reap documents nobody has replaced within the retention window.
	if options.RetentionHours > 0 {
		db.StartExpiredDocCleaner(context.Background(), postgresDB,
			time.Hour,
			time.Duration(options.RetentionHours)*time.Hour,
			zapLogger,
		)
	}

	// Wire repository, service and handler for snapshot documents.
	docRepo := repository.NewPostgresDocumentRepository(postgresDB)
	docService := service.NewDocumentService(docRepo)
	docHandler := &http.DocumentHandler{DocumentService: docService}

	// Build the router with middleware and routes.
	router := http.NewRouter(docHandler, zapLogger)

	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
