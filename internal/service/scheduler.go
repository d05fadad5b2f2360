package service

import (
	"context"
	"time"

	"ransomsim/internal/constants"

	"github.com/sirupsen/logrus"
)

// Cleaner prunes expired rows from the message log.
type Cleaner interface {
	CleanupOldMessages(ctx context.Context, retentionDays int) error
}

// Scheduler runs retention cleanup on a fixed interval.
type Scheduler struct {
	cleaner       Cleaner
	retentionDays int
	intervalHours int
	logger        *logrus.Logger
	stopCh        chan struct{}
}

func NewScheduler(cleaner Cleaner, retentionDays, intervalHours int, logger *logrus.Logger) *Scheduler {
	if intervalHours <= 0 {
		intervalHours = constants.DefaultCleanupSchedulerIntervalHrs
	}
	return &Scheduler{
		cleaner:       cleaner,
		retentionDays: retentionDays,
		intervalHours: intervalHours,
		logger:        logger,
		stopCh:        make(chan struct{}),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(s.intervalHours) * time.Hour)
	defer ticker.Stop()

	s.logger.Info("Starting cleanup scheduler")

	s.runCleanup(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler context cancelled, stopping")
			return
		case <-s.stopCh:
			s.logger.Info("Scheduler stop signal received, stopping")
			return
		case <-ticker.C:
			s.runCleanup(ctx)
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.stopCh)
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	s.logger.WithField("retentionDays", s.retentionDays).Info("Running scheduled message cleanup")

	if err := s.cleaner.CleanupOldMessages(ctx, s.retentionDays); err != nil {
		s.logger.WithError(err).Error("Failed to cleanup old messages")
	} else {
		s.logger.Info("Successfully completed cleanup")
	}
}
