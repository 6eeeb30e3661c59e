package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Evictor drops screen state idle since cutoff.
type Evictor interface {
	EvictIdle(cutoff time.Time) int
}

// Pruner deletes audit history older than the retention window.
type Pruner interface {
	Prune(ctx context.Context, retention time.Duration) (int, error)
}

// Scheduler handles scheduled housekeeping
type Scheduler struct {
	cron      *cron.Cron
	evictor   Evictor
	pruner    Pruner
	idleTTL   time.Duration
	retention time.Duration
	logger    *logrus.Entry
	now       func() time.Time
}

// NewScheduler creates a scheduler. A zero retention disables audit pruning.
func NewScheduler(evictor Evictor, pruner Pruner, idleTTL time.Duration, retentionDays int, logger *logrus.Entry) *Scheduler {
	if logger == nil {
		logger = logrus.WithField("component", "cron")
	}
	return &Scheduler{
		cron:      cron.New(),
		evictor:   evictor,
		pruner:    pruner,
		idleTTL:   idleTTL,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the jobs and starts the scheduler
func (s *Scheduler) Start() error {
	// Evict idle screens - every 10 minutes
	if _, err := s.cron.AddFunc("*/10 * * * *", s.evictIdleScreens); err != nil {
		return err
	}

	// Prune audit history - every day at 3 AM
	if s.retention > 0 && s.pruner != nil {
		if _, err := s.cron.AddFunc("0 3 * * *", s.pruneAudit); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("[Cron] Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("[Cron] Scheduler stopped")
}

func (s *Scheduler) evictIdleScreens() {
	n := s.evictor.EvictIdle(s.now().Add(-s.idleTTL))
	if n > 0 {
		s.logger.WithField("evicted", n).Info("[Cron] Evicted idle screens")
	}
}

func (s *Scheduler) pruneAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.pruner.Prune(ctx, s.retention)
	if err != nil {
		s.logger.WithError(err).Error("[Cron] Audit pruning failed")
		return
	}
	s.logger.WithField("deleted", n).Info("[Cron] Pruned audit history")
}
