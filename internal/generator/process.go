package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"ledgerd/internal/holiday"
	"ledgerd/internal/models"
	"ledgerd/internal/recurrence"
	"ledgerd/internal/services"
)

// process runs the decision procedure for one template. The first matching
// branch wins: already generated, claimed elsewhere, transaction already
// present, holiday skip, generate.
func (g *Generator) process(ctx context.Context, runID string, tmpl *models.RecurringTemplate, today time.Time, addError func(string)) Outcome {
	log := g.logger.With("run_id", runID, "template_id", tmpl.ID)
	fail := func(reason string) Outcome {
		addError(fmt.Sprintf("template %s: %s", tmpl.ID, reason))
		return g.record(ctx, tmpl.ID, today, models.GenerationStatusFailed, reason, "", addError)
	}

	done, err := g.logs.HasSuccessfulGeneration(ctx, tmpl.ID, today)
	if err != nil {
		log.Errorw("idempotency check failed", "error", err)
		return fail(err.Error())
	}
	if done {
		log.Debug("already generated today")
		return g.record(ctx, tmpl.ID, today, models.GenerationStatusSkipped, models.ReasonDuplicate, "", addError)
	}

	claimed := false
	if g.claims != nil {
		ok, err := g.claims.Claim(ctx, tmpl.ID, today, runID, g.config.ClaimTTL)
		if err != nil {
			log.Errorw("claim failed", "error", err)
			return fail(err.Error())
		}
		if !ok {
			log.Info("template claimed by another run")
			return g.record(ctx, tmpl.ID, today, models.GenerationStatusSkipped, models.ReasonDuplicate, "", addError)
		}
		claimed = true
	}
	release := func() {
		if !claimed {
			return
		}
		if err := g.claims.Release(ctx, tmpl.ID, today, runID); err != nil {
			log.Warnw("failed to release claim", "error", err)
		}
	}

	// A transaction from an earlier run whose schedule update failed settles
	// today's occurrence even after that run's claim expired.
	existing, err := g.transactions.FindGeneratedTransaction(ctx, tmpl.ID, today)
	if err != nil {
		release()
		log.Errorw("failed to look up generated transaction", "error", err)
		return fail(err.Error())
	}
	if existing != nil {
		log.Infow("transaction already generated, advancing schedule", "transaction_id", existing.ID)
		return g.advance(ctx, log, tmpl, today, existing, addError)
	}

	if tmpl.SkipHolidays && g.holidays.IsHoliday(ctx, today) {
		next := g.nextWorkingOccurrence(ctx, tmpl, today)
		if err := g.templates.UpdateTemplate(ctx, tmpl.ID, services.TemplateUpdate{NextGenerate: next}); err != nil {
			release()
			log.Errorw("failed to reschedule after holiday", "error", err)
			return fail(err.Error())
		}
		// The claim is kept: today's occurrence is settled.
		name := holiday.NameOf(ctx, g.holidays, today)
		log.Infow("holiday, rescheduled", "holiday", name, "next_generate", next.Format(recurrence.DateLayout))
		out := g.record(ctx, tmpl.ID, today, models.GenerationStatusSkipped, models.ReasonHoliday, "", addError)
		out.NextGenerate = next.Format(recurrence.DateLayout)
		out.Holiday = name
		return out
	}

	tx, err := g.transactions.CreateTransaction(ctx, services.NewTransaction{
		UserID:              tmpl.UserID,
		Type:                models.TransactionTypeExpense,
		Category:            tmpl.Category,
		Amount:              tmpl.Amount,
		Currency:            g.currency(tmpl),
		Note:                note(tmpl),
		Date:                today,
		RecurringTemplateID: &tmpl.ID,
	})
	if err != nil {
		release()
		log.Errorw("failed to create transaction", "error", err)
		return fail(err.Error())
	}

	log.Infow("generated transaction", "transaction_id", tx.ID)
	return g.advance(ctx, log, tmpl, today, tx, addError)
}

// advance moves the template past today once tx exists and records the
// success. The claim is never released here: the transaction blocks any
// second one.
func (g *Generator) advance(ctx context.Context, log *zap.SugaredLogger, tmpl *models.RecurringTemplate, today time.Time, tx *models.Transaction, addError func(string)) Outcome {
	next := tmpl.Next(today)
	if err := g.templates.UpdateTemplate(ctx, tmpl.ID, services.TemplateUpdate{LastGenerated: &today, NextGenerate: next}); err != nil {
		log.Errorw("transaction created but template not advanced", "transaction_id", tx.ID, "error", err)
		reason := fmt.Sprintf("transaction %s created but template update failed: %v", tx.ID, err)
		addError(fmt.Sprintf("template %s: %s", tmpl.ID, reason))
		out := g.record(ctx, tmpl.ID, today, models.GenerationStatusFailed, reason, "", addError)
		out.TransactionID = tx.ID
		return out
	}

	out := g.record(ctx, tmpl.ID, today, models.GenerationStatusSuccess, "", tx.ID, addError)
	out.NextGenerate = next.Format(recurrence.DateLayout)
	return out
}

// nextWorkingOccurrence advances from today one occurrence at a time until
// the holiday checker reports a working day, giving up after MaxHolidaySkips
// steps. The result is always after today.
func (g *Generator) nextWorkingOccurrence(ctx context.Context, tmpl *models.RecurringTemplate, today time.Time) time.Time {
	next := tmpl.Next(today)
	for i := 1; i < MaxHolidaySkips && g.holidays.IsHoliday(ctx, next); i++ {
		next = tmpl.Next(next)
	}
	return next
}

// record appends an audit entry and returns the matching outcome. A failed
// append is logged and reported but does not change the outcome.
func (g *Generator) record(ctx context.Context, templateID string, today time.Time, status models.GenerationStatus, reason, txID string, addError func(string)) Outcome {
	entry := &models.RecurringGenerationLog{
		RecurringTemplateID: &templateID,
		GenerationDate:      today,
		Status:              status,
		Reason:              reason,
	}
	if txID != "" {
		entry.GeneratedTransactionID = &txID
	}
	if err := g.logs.AppendEntry(ctx, entry); err != nil {
		g.logger.Errorw("failed to append generation log", "template_id", templateID, "status", status, "error", err)
		addError(fmt.Sprintf("template %s: audit log: %v", templateID, err))
	}
	return Outcome{TemplateID: templateID, Status: status, Reason: reason, TransactionID: txID}
}

func (g *Generator) currency(tmpl *models.RecurringTemplate) string {
	if tmpl.Currency != "" {
		return tmpl.Currency
	}
	return g.config.DefaultCurrency
}

func note(tmpl *models.RecurringTemplate) string {
	parts := []string{NotePrefix, tmpl.Name}
	if n := strings.TrimSpace(tmpl.Note); n != "" {
		parts = append(parts, "-", n)
	}
	return strings.Join(parts, " ")
}
