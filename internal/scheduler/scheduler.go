package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"vehicle-rental-backend/internal/jobs"
	"vehicle-rental-backend/internal/logger"
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

	// Hourly sweep of rentals past their end date
	_, err := s.cron.AddFunc(cfg.CompleteExpiredRentals, s.jobs.CompleteExpiredRentals)
	if err != nil {
		logger.Error("Failed to register CompleteExpiredRentals job", "error", err)
	}

	// Daily promotion of approved rentals reaching their start date
	_, err = s.cron.AddFunc(cfg.ActivateDueRentals, s.jobs.ActivateDueRentals)
	if err != nil {
		logger.Error("Failed to register ActivateDueRentals job", "error", err)
	}

	// Periodic gateway reconciliation for payments stuck in pending
	_, err = s.cron.AddFunc(cfg.SyncPendingPayments, s.jobs.SyncPendingPayments)
	if err != nil {
		logger.Error("Failed to register SyncPendingPayments job", "error", err)
	}

	logger.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler. An initial expiry sweep runs shortly
// after startup so a long downtime does not wait for the next tick.
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()

	time.AfterFunc(5*time.Second, s.jobs.CompleteExpiredRentals)

	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
