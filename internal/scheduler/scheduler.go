// Package scheduler triggers recurring generation on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ledgerd/internal/generator"
)

// Runner executes one generation run.
type Runner interface {
	Run(ctx context.Context, today time.Time, includeOverdue bool) (*generator.RunResult, error)
}

// ClaimPurger drops expired generation claims.
type ClaimPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Config controls when and how runs are triggered.
type Config struct {
	Schedule       string
	Location       *time.Location
	IncludeOverdue bool
	RunTimeout     time.Duration
}

// Scheduler owns the cron instance driving generation runs.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	purger ClaimPurger
	config Config
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewScheduler creates a scheduler. purger may be nil.
func NewScheduler(runner Runner, purger ClaimPurger, cfg Config, logger *zap.SugaredLogger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger.Desugar()))
	c := cron.New(
		cron.WithLocation(cfg.Location),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	return &Scheduler{
		cron:   c,
		runner: runner,
		purger: purger,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Start registers the generation job and starts the cron scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.config.Schedule, s.job); err != nil {
		return fmt.Errorf("scheduling recurring generation %q: %w", s.config.Schedule, err)
	}
	s.logger.Infow("scheduled recurring generation", "schedule", s.config.Schedule, "timezone", s.config.Location.String())
	s.cron.Start()
	return nil
}

// Stop gracefully stops the cron scheduler. The returned context is done
// once a running job has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Today returns the current calendar date in the scheduler's timezone.
func (s *Scheduler) Today() time.Time {
	local := s.now().In(s.config.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// RunOnce performs a single run for today.
func (s *Scheduler) RunOnce(ctx context.Context) (*generator.RunResult, error) {
	if s.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RunTimeout)
		defer cancel()
	}

	result, err := s.runner.Run(ctx, s.Today(), s.config.IncludeOverdue)
	if err != nil {
		return nil, err
	}

	if s.purger != nil {
		if n, err := s.purger.PurgeExpired(ctx, s.now()); err != nil {
			s.logger.Warnw("failed to purge expired claims", "error", err)
		} else if n > 0 {
			s.logger.Infow("purged expired claims", "count", n)
		}
	}
	return result, nil
}

func (s *Scheduler) job() {
	result, err := s.RunOnce(context.Background())
	if err != nil {
		s.logger.Errorw("recurring generation run failed", "error", err)
		return
	}
	s.logger.Infow("recurring generation run completed",
		"run_id", result.RunID,
		"today", result.Today,
		"generated", result.GeneratedCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
	)
}
