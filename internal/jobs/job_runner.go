package jobs

import (
	"wholesale-market-backend/internal/config"
	"wholesale-market-backend/internal/logger"
	"wholesale-market-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	customers service.CustomerService
	config    *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(customers service.CustomerService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		customers: customers,
		config:    cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllSweeps runs every reconciliation sweep once (for manual execution)
func (jr *JobRunner) RunAllSweeps() {
	jr.SyncAllManualLedgers()
	jr.ReconcileAllAggregates()
}
