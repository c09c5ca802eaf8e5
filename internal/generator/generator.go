// Package generator materializes due recurring templates into transactions.
package generator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ledgerd/internal/holiday"
	"ledgerd/internal/models"
	"ledgerd/internal/recurrence"
	"ledgerd/internal/services"
)

// MaxHolidaySkips bounds the reschedule loop when today is a holiday, so a
// calendar that reports every date as a holiday cannot stall a run.
const MaxHolidaySkips = 31

// NotePrefix marks transactions created by the generator.
const NotePrefix = "[recurring]"

// TemplateStore selects due templates and writes back their schedule.
type TemplateStore interface {
	FindDueTemplates(ctx context.Context, today time.Time, includeOverdue bool) ([]models.RecurringTemplate, error)
	UpdateTemplate(ctx context.Context, templateID string, update services.TemplateUpdate) error
}

// AuditLog is the append-only record of generation attempts.
type AuditLog interface {
	HasSuccessfulGeneration(ctx context.Context, templateID string, date time.Time) (bool, error)
	AppendEntry(ctx context.Context, entry *models.RecurringGenerationLog) error
}

// ClaimStore reserves a (template, date) pair for one run.
type ClaimStore interface {
	Claim(ctx context.Context, templateID string, date time.Time, runID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, templateID string, date time.Time, runID string) error
}

// TransactionCreator creates the generated ledger entries and finds ones an
// earlier run already created.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, in services.NewTransaction) (*models.Transaction, error)
	FindGeneratedTransaction(ctx context.Context, templateID string, date time.Time) (*models.Transaction, error)
}

// Config tunes a Generator.
type Config struct {
	// Workers is the number of templates processed concurrently.
	Workers int
	// ClaimTTL is how long a claim blocks other runs.
	ClaimTTL time.Duration
	// DefaultCurrency applies to templates without one.
	DefaultCurrency string
}

// Outcome is the result of processing one template.
type Outcome struct {
	TemplateID    string                  `json:"template_id"`
	Status        models.GenerationStatus `json:"status"`
	Reason        string                  `json:"reason,omitempty"`
	TransactionID string                  `json:"transaction_id,omitempty"`
	NextGenerate  string                  `json:"next_generate,omitempty"`
	Holiday       string                  `json:"holiday,omitempty"`
}

// RunResult contains the outcome of a generation run.
type RunResult struct {
	RunID          string        `json:"run_id"`
	Today          string        `json:"today"`
	Selected       int           `json:"selected"`
	GeneratedCount int           `json:"generated_count"`
	SkippedCount   int           `json:"skipped_count"`
	FailedCount    int           `json:"failed_count"`
	Errors         []string      `json:"errors"`
	Outcomes       []Outcome     `json:"outcomes"`
	Duration       time.Duration `json:"duration_ns"`
}

// Generator runs the recurring generation batch.
type Generator struct {
	templates    TemplateStore
	logs         AuditLog
	claims       ClaimStore
	transactions TransactionCreator
	holidays     holiday.Checker
	config       Config
	logger       *zap.SugaredLogger
	newRunID     func() string
}

// NewGenerator creates a Generator. claims may be nil, in which case
// overlapping runs are only guarded by the audit log check.
func NewGenerator(
	templates TemplateStore,
	logs AuditLog,
	claims ClaimStore,
	transactions TransactionCreator,
	holidays holiday.Checker,
	cfg Config,
	logger *zap.SugaredLogger,
) *Generator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.ClaimTTL <= 0 {
		cfg.ClaimTTL = 15 * time.Minute
	}
	if holidays == nil {
		holidays = holiday.None
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Generator{
		templates:    templates,
		logs:         logs,
		claims:       claims,
		transactions: transactions,
		holidays:     holidays,
		config:       cfg,
		logger:       logger,
		newRunID:     uuid.NewString,
	}
}

// Run processes every template due on today. Per-template failures are
// recorded in the audit log and the result; only a selection failure makes
// Run return an error.
func (g *Generator) Run(ctx context.Context, today time.Time, includeOverdue bool) (*RunResult, error) {
	start := time.Now()
	today = recurrence.DateOf(today)
	result := &RunResult{
		RunID:    g.newRunID(),
		Today:    today.Format(recurrence.DateLayout),
		Errors:   []string{},
		Outcomes: []Outcome{},
	}
	log := g.logger.With("run_id", result.RunID, "today", result.Today)

	templates, err := g.templates.FindDueTemplates(ctx, today, includeOverdue)
	if err != nil {
		return nil, fmt.Errorf("selecting due templates: %w", err)
	}
	result.Selected = len(templates)

	if len(templates) == 0 {
		log.Info("no recurring templates due")
		result.Duration = time.Since(start)
		return result, nil
	}
	log.Infow("processing recurring templates", "count", len(templates), "workers", g.config.Workers)

	outcomes := make([]Outcome, len(templates))
	var (
		mu   sync.Mutex
		errs []string
	)
	addError := func(msg string) {
		mu.Lock()
		errs = append(errs, msg)
		mu.Unlock()
	}

	var eg errgroup.Group
	eg.SetLimit(g.config.Workers)
	for i := range templates {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				addError(fmt.Sprintf("template %s: %v", templates[i].ID, err))
				outcomes[i] = g.record(context.WithoutCancel(ctx), templates[i].ID, today, models.GenerationStatusFailed, err.Error(), "", addError)
				return nil
			}
			outcomes[i] = g.processSafe(ctx, result.RunID, &templates[i], today, addError)
			return nil
		})
	}
	_ = eg.Wait()

	for _, o := range outcomes {
		switch o.Status {
		case models.GenerationStatusSuccess:
			result.GeneratedCount++
		case models.GenerationStatusSkipped:
			result.SkippedCount++
		case models.GenerationStatusFailed:
			result.FailedCount++
		}
	}
	result.Outcomes = outcomes
	if errs != nil {
		result.Errors = errs
	}
	result.Duration = time.Since(start)

	log.Infow("recurring generation finished",
		"selected", result.Selected,
		"generated", result.GeneratedCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
		"duration", result.Duration,
	)
	return result, nil
}

// processSafe isolates a panicking template from the rest of the batch.
func (g *Generator) processSafe(ctx context.Context, runID string, tmpl *models.RecurringTemplate, today time.Time, addError func(string)) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprintf("panic: %v", r)
			g.logger.Errorw("recurring template panicked", "template_id", tmpl.ID, "panic", r)
			addError(fmt.Sprintf("template %s: %s", tmpl.ID, reason))
			out = g.record(ctx, tmpl.ID, today, models.GenerationStatusFailed, reason, "", addError)
		}
	}()
	return g.process(ctx, runID, tmpl, today, addError)
}
