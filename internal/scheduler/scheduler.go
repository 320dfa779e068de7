package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"wholesale-market-backend/internal/jobs"
	"wholesale-market-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	// Ledger sync runs first so the aggregate sweep sees fresh manual credit.
	_, err := s.cron.AddFunc(cfg.SyncManualLedgers, s.jobs.SyncAllManualLedgers)
	if err != nil {
		logger.Error("Failed to register SyncAllManualLedgers job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.ReconcileAggregates, s.jobs.ReconcileAllAggregates)
	if err != nil {
		logger.Error("Failed to register ReconcileAllAggregates job", "error", err)
	}

	logger.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}
