// Package scheduler re-runs the batch on a timetable so a long-lived process
// picks up workbooks dropped into the input directory after startup.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"nflstats/analyzer/internal/config"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// BatchFunc runs one full analysis pass over the input directory.
type BatchFunc func(ctx context.Context) error

// Scheduler manages background re-runs of the analysis batch:
// - a cron expression for the regular rescan (nightly by default)
// - an optional fixed interval for tighter loops during backfills
type Scheduler struct {
	cfg      *config.Config
	run      BatchFunc
	cron     *cron.Cron
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, run BatchFunc) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		run:      run,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.RescanCron, func() {
		log.Info().Msg("Running scheduled rescan...")
		if err := s.run(ctx); err != nil {
			log.Error().Err(err).Msg("Scheduled rescan failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule rescan: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.RescanCron).
		Msg("Rescan scheduled")

	// The interval ticker is opt-in; the cron schedule alone covers the
	// normal nightly cadence.
	if s.cfg.RescanInterval > 0 {
		interval := time.Duration(s.cfg.RescanInterval) * time.Second
		s.ticker = time.NewTicker(interval)
		log.Info().
			Dur("interval", interval).
			Msg("Interval rescan started")

		go s.pollRescan(ctx)
	}

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// pollRescan re-runs the batch on every tick until stopped
func (s *Scheduler) pollRescan(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping interval rescan")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping interval rescan")
			return
		case <-s.ticker.C:
			start := time.Now()
			if err := s.run(ctx); err != nil {
				log.Error().Err(err).Msg("Interval rescan failed")
				continue
			}
			log.Info().
				Dur("duration", time.Since(start)).
				Msg("Interval rescan complete")
		}
	}
}
