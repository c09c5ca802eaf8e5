package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ledgerd/internal/app"
	"ledgerd/internal/config"
	"ledgerd/internal/database"
	"ledgerd/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Scheduler error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("closing database", "error", err)
		}
	}()

	holidays, err := app.NewHolidayChecker(cfg, log)
	if err != nil {
		return err
	}

	svcs := app.NewServices(dbManager.DB(), cfg)
	sched := app.NewScheduler(cfg, app.NewGenerator(cfg, svcs, holidays, log), svcs, log)

	if err := sched.Start(); err != nil {
		return err
	}
	log.Infow("scheduler started",
		"schedule", cfg.GenerationSchedule,
		"timezone", cfg.GenerationTimezone.String(),
		"include_overdue", cfg.IncludeOverdue,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("stopping scheduler, waiting for the running job")
	<-sched.Stop().Done()
	return nil
}
