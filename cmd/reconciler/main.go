package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"wholesale-market-backend/internal/config"
	"wholesale-market-backend/internal/jobs"
	"wholesale-market-backend/internal/logger"
	"wholesale-market-backend/internal/repository/postgres"
	"wholesale-market-backend/internal/scheduler"
	"wholesale-market-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ('reconcile-aggregates', 'sync-ledgers', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting reconciliation runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories and Services
	store := postgres.NewStore(db)
	customerSvc := service.NewCustomerService(store, store.Repos)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(customerSvc, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	sched.Stop()
}

func runJobOnce(jobRunner *jobs.JobRunner, job string) {
	switch job {
	case "reconcile-aggregates":
		jobRunner.ReconcileAllAggregates()
	case "sync-ledgers":
		jobRunner.SyncAllManualLedgers()
	case "all":
		jobRunner.RunAllSweeps()
	default:
		logger.Error("Unknown job", "job", job)
	}
}
