package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "video-rental-store/internal/api/http"
	"video-rental-store/internal/config"
	"video-rental-store/internal/logger"
	"video-rental-store/internal/repository"
	"video-rental-store/internal/repository/memory"
	"video-rental-store/internal/repository/postgres"
	"video-rental-store/internal/security"
	"video-rental-store/internal/service"
)

// store is what both backends offer besides their repositories.
type store interface {
	repository.TxRunner
	Ping(ctx context.Context) error
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Video Rental Store backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Rental policy", "period_days", cfg.Rental.PeriodDays, "late_fee", cfg.Rental.LateFee)

	ctx := context.Background()
	repos, st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "driver", cfg.Database.Driver, "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.TokenExpiry())

	// Initialize Services
	services := httpapi.Services{
		Genres:    service.NewGenreService(repos.Genres),
		Movies:    service.NewMovieService(repos.Movies, repos.Genres),
		Customers: service.NewCustomerService(repos.Customers),
		Rentals:   service.NewRentalService(repos, st, cfg.RentalPolicy()),
		Auth:      service.NewAuthService(repos.Users, tokenManager),
		Users:     service.NewUserService(repos.Users),
	}

	router := httpapi.NewRouter(httpapi.NewHandler(services, tokenManager, st))
	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

// openStore connects the configured backend. Postgres is migrated before use.
func openStore(ctx context.Context, cfg *config.Config) (repository.Repositories, store, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using in-memory store, data will not survive a restart")
		s := memory.NewStore()
		return s.Repositories, s, func() {}, nil
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return repository.Repositories{}, nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return repository.Repositories{}, nil, nil, err
	}
	logger.Info("Database connection established")

	if err := postgres.RunMigrations(ctx, db); err != nil {
		db.Close()
		return repository.Repositories{}, nil, nil, err
	}

	s := postgres.NewStore(db)
	return s.Repositories, s, func() { db.Close() }, nil
}
