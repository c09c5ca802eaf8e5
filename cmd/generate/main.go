package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledgerd/internal/app"
	"ledgerd/internal/config"
	"ledgerd/internal/database"
	"ledgerd/internal/logger"
	"ledgerd/internal/recurrence"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Generation error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dateFlag := flag.String("date", "", "generation date (YYYY-MM-DD, default today in GENERATION_TIMEZONE)")
	overdue := flag.Bool("include-overdue", cfg.IncludeOverdue, "also generate templates whose next date has passed")
	flag.Parse()

	today := cfg.Today(time.Now())
	if *dateFlag != "" {
		today, err = recurrence.ParseDate(*dateFlag)
		if err != nil {
			return fmt.Errorf("invalid -date %q: %w", *dateFlag, err)
		}
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
	gen := app.NewGenerator(cfg, svcs, holidays, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := gen.Run(ctx, today, *overdue)
	if err != nil {
		return err
	}
	if _, err := svcs.Claims.PurgeExpired(ctx, time.Now()); err != nil {
		log.Warnw("purging expired claims", "error", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if result.FailedCount > 0 {
		return fmt.Errorf("%d of %d templates failed", result.FailedCount, result.Selected)
	}
	return nil
}
