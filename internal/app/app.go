// Package app wires configuration, storage and the holiday oracle into the
// services and generator shared by the ledgerd binaries.
package app

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ledgerd/internal/config"
	"ledgerd/internal/generator"
	"ledgerd/internal/holiday"
	"ledgerd/internal/scheduler"
	"ledgerd/internal/services"
)

const holidayCacheYears = 8

// Services groups the database-backed services.
type Services struct {
	Templates    services.RecurringTemplateServicer
	Logs         services.GenerationLogServicer
	Claims       services.GenerationClaimServicer
	Transactions services.TransactionServicer
	Audit        services.AuditServicer
}

// NewServices builds every service on top of db.
func NewServices(db *gorm.DB, cfg *config.Config) *Services {
	return &Services{
		Templates:    services.NewRecurringTemplateService(db, cfg.DefaultCurrency),
		Logs:         services.NewGenerationLogService(db),
		Claims:       services.NewGenerationClaimService(db),
		Transactions: services.NewTransactionService(db),
		Audit:        services.NewAuditService(db),
	}
}

// NewHolidayChecker combines the static HOLIDAY_DATES calendar with the
// public holiday provider for HOLIDAY_COUNTRY. Either may be absent.
func NewHolidayChecker(cfg *config.Config, log *zap.SugaredLogger) (holiday.Checker, error) {
	var checkers holiday.Multi

	if len(cfg.HolidayDates) > 0 || cfg.HolidayWeekends {
		dates, err := holiday.ParseDates(cfg.HolidayDates)
		if err != nil {
			return nil, fmt.Errorf("parsing HOLIDAY_DATES: %w", err)
		}
		checkers = append(checkers, holiday.NewCalendar(dates, cfg.HolidayWeekends))
	}

	if cfg.HolidayCountry != "" && cfg.HolidayProviderURL != "" {
		client := &http.Client{Timeout: cfg.RequestTimeout}
		provider := holiday.NewNagerProvider(client, cfg.HolidayProviderURL, cfg.HolidayCountry)
		cache := holiday.NewCache(holidayCacheYears, cfg.HolidayCacheTTL)
		checkers = append(checkers, holiday.NewOracle(provider, cache, log.Named("holiday"), cfg.RequestTimeout))
	}

	switch len(checkers) {
	case 0:
		return holiday.None, nil
	case 1:
		return checkers[0], nil
	}
	return checkers, nil
}

// NewGenerator builds the generator with cross-run claims enabled.
func NewGenerator(cfg *config.Config, svcs *Services, holidays holiday.Checker, log *zap.SugaredLogger) *generator.Generator {
	return generator.NewGenerator(
		svcs.Templates,
		svcs.Logs,
		svcs.Claims,
		svcs.Transactions,
		holidays,
		generator.Config{
			Workers:         cfg.GenerationWorkers,
			ClaimTTL:        cfg.ClaimTTL,
			DefaultCurrency: cfg.DefaultCurrency,
		},
		log.Named("generator"),
	)
}

// NewScheduler builds the cron scheduler for gen. Runs are bounded by the
// claim TTL so a stuck run releases its claims before the next one starts.
func NewScheduler(cfg *config.Config, gen *generator.Generator, svcs *Services, log *zap.SugaredLogger) *scheduler.Scheduler {
	return scheduler.NewScheduler(gen, svcs.Claims, scheduler.Config{
		Schedule:       cfg.GenerationSchedule,
		Location:       cfg.GenerationTimezone,
		IncludeOverdue: cfg.IncludeOverdue,
		RunTimeout:     cfg.ClaimTTL,
	}, log.Named("scheduler"))
}
