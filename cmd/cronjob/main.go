package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"video-rental-store/internal/config"
	"video-rental-store/internal/jobs"
	"video-rental-store/internal/logger"
	"video-rental-store/internal/repository"
	"video-rental-store/internal/repository/memory"
	"video-rental-store/internal/repository/postgres"
	"video-rental-store/internal/scheduler"
	"video-rental-store/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'overdue-report', 'all-daily')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Video Rental Store cronjob runner...", "log_level", cfg.Log.Level)

	repos, tx, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to open store", "driver", cfg.Database.Driver, "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	// Initialize Services
	var emailService service.EmailService
	if cfg.Notification.SendGridAPIKey != "" {
		emailService = service.NewSendGridEmailService(
			cfg.Notification.SendGridAPIKey,
			cfg.Notification.FromEmail,
			cfg.Notification.FromName,
		)
	} else {
		logger.Warn("SendGrid API key not set, overdue reports will only be logged")
		emailService = service.NewLogEmailService()
	}

	jobServices := &jobs.Services{
		Email:  emailService,
		Rental: service.NewRentalService(repos, tx, cfg.RentalPolicy()),
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to register jobs", "error", err)
		log.Fatalf("Failed to register jobs: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "next_run", cronScheduler.NextRun())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "overdue-report":
		jobRunner.SendOverdueReport()
	case "all-daily":
		jobRunner.RunAllDailyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - overdue-report\n")
		fmt.Printf("  - all-daily\n")
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Repositories, repository.TxRunner, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using in-memory store, reports will only see rentals made by this process")
		s := memory.NewStore()
		return s.Repositories, s, func() {}, nil
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return repository.Repositories{}, nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return repository.Repositories{}, nil, nil, err
	}
	logger.Info("Database connection established")

	s := postgres.NewStore(db)
	return s.Repositories, s, func() { db.Close() }, nil
}
