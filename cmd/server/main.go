package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	api "wholesale-market-backend/internal/api/http"
	"wholesale-market-backend/internal/config"
	"wholesale-market-backend/internal/domain"
	"wholesale-market-backend/internal/logger"
	"wholesale-market-backend/internal/repository/postgres"
	"wholesale-market-backend/internal/service"
)

// The engine tolerates missing optional ledger objects, but these tables are
// not optional.
var requiredTables = []string{"orders", "order_line_items", "customers", "payments"}

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
	logger.Info("Starting Wholesale Market Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
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

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Verify the non-optional schema before serving
	if err := checkRequiredSchema(store); err != nil {
		logger.Error("Schema check failed", "error", err)
		log.Fatalf("Schema check failed: %v", err)
	}

	// Probe optional ledger capabilities once at startup for visibility
	caps, err := store.Schema.Probe(context.Background())
	if err != nil {
		logger.Error("Failed to probe schema capabilities", "error", err)
		log.Fatalf("Failed to probe schema capabilities: %v", err)
	}
	logger.Info("Schema capabilities",
		"manual_credit", caps.LedgerSyncable(domain.LedgerKindCredit),
		"manual_profit", caps.LedgerSyncable(domain.LedgerKindProfit),
		"manual_loss", caps.LedgerSyncable(domain.LedgerKindLoss))

	// Initialize Services
	lifecycleSvc := service.NewOrderLifecycleService(store)
	paymentSvc := service.NewPaymentService(store, store.Repos)
	customerSvc := service.NewCustomerService(store, store.Repos)

	// Initialize HTTP API
	handler := api.NewHandler(lifecycleSvc, paymentSvc, customerSvc)
	router := api.NewRouter(handler)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server stopped", "error", err)
		log.Fatalf("HTTP server stopped: %v", err)
	}
}

func checkRequiredSchema(store *postgres.Store) error {
	ctx := context.Background()
	for _, table := range requiredTables {
		exists, err := store.Schema.TableExists(ctx, table)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: required table %s is missing", domain.ErrSchemaUnavailable, table)
		}
	}
	return nil
}
