// Package scheduler drives the scan, reconcile and evaluate cycles on a cron
// cadence.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-scout/internal/service"
)

// Scheduler manages the engine's scheduled jobs
type Scheduler struct {
	cron         *cron.Cron
	scanSvc      *service.ScanService
	reconcileSvc *service.ReconcileService
	evalSvc      *service.EvaluationService
	logger       *logrus.Logger

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler
func NewScheduler(
	scanSvc *service.ScanService,
	reconcileSvc *service.ReconcileService,
	evalSvc *service.EvaluationService,
	logger *logrus.Logger,
) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithLocation(time.UTC)),
		scanSvc:      scanSvc,
		reconcileSvc: reconcileSvc,
		evalSvc:      evalSvc,
		logger:       logger,
		jobIDs:       make([]cron.EntryID, 0),
	}
}

// ScheduleScan schedules the daily scoring cycle
func (s *Scheduler) ScheduleScan(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
		defer cancel()

		scanMetrics, err := s.scanSvc.Run(ctx, time.Now().UTC())
		if err != nil {
			s.logger.WithError(err).Error("Scheduled scan cycle failed")
			return
		}
		s.logger.Infof("Scheduled scan complete: %s", scanMetrics.String())
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add scan job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Infof("Scheduled scan job with cron expression: %s", cronExpression)

	return nil
}

// ScheduleReconcile schedules periodic outcome reconciliation
func (s *Scheduler) ScheduleReconcile(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if interval < time.Minute {
		interval = time.Minute
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()

		updated, err := s.reconcileSvc.ReconcilePending(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled reconciliation failed")
			return
		}
		if updated > 0 {
			s.logger.Infof("Scheduled reconciliation updated %d predictions", updated)
		}
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add reconcile job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Infof("Scheduled reconciliation job with interval: %s", interval)

	return nil
}

// ScheduleEvaluate schedules periodic model performance evaluation over a
// trailing lookback window
func (s *Scheduler) ScheduleEvaluate(cronExpression, modelVersion string, lookbackDays int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		periodEnd := time.Now().UTC().Truncate(24 * time.Hour)
		periodStart := periodEnd.AddDate(0, 0, -lookbackDays)

		if err := s.evalSvc.EvaluateAll(ctx, modelVersion, periodStart, periodEnd); err != nil {
			s.logger.WithError(err).Error("Scheduled evaluation failed")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add evaluate job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Infof("Scheduled evaluation job with cron expression: %s", cronExpression)

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Infof("Scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}
	return nextRun
}
