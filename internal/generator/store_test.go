package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"ledgerd/internal/models"
	"ledgerd/internal/recurrence"
	"ledgerd/internal/services"
	"ledgerd/internal/testutil"
)

func newDBGenerator(db *gorm.DB, holidays ...time.Time) *Generator {
	return NewGenerator(
		services.NewRecurringTemplateService(db, "USD"),
		services.NewGenerationLogService(db),
		services.NewGenerationClaimService(db),
		services.NewTransactionService(db),
		holidaysOn(holidays...),
		Config{Workers: 4},
		nil,
	)
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestRun_Database(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	today := date(2024, 1, 1)
	g := newDBGenerator(db, today)

	user := testutil.NewUserID()
	holidayTmpl := testutil.CreateTestTemplate(t, db, user, today, testutil.WithSkipHolidays(true))
	weekly := testutil.CreateTestTemplate(t, db, user, today,
		testutil.WithFrequency(recurrence.KindWeekly, recurrence.WeeklyConfig{
			Weekdays: []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		}))
	testutil.CreateTestTemplate(t, db, user, today, testutil.WithInactive())

	result, err := g.Run(ctx, today, false)
	testutil.AssertNoError(t, err)
	if result.Selected != 2 || result.GeneratedCount != 1 || result.SkippedCount != 1 {
		t.Fatalf("unexpected counts %+v", result)
	}

	// Holiday: no transaction, one skipped/holiday entry, rescheduled.
	if n := countRows(t, db, &models.Transaction{}, "recurring_template_id = ?", holidayTmpl.ID); n != 0 {
		t.Errorf("expected no transaction for the holiday template, got %d", n)
	}
	var entries []models.RecurringGenerationLog
	if err := db.Where("recurring_template_id = ?", holidayTmpl.ID).Find(&entries).Error; err != nil {
		t.Fatalf("load entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != models.GenerationStatusSkipped || entries[0].Reason != models.ReasonHoliday {
		t.Errorf("unexpected holiday entries %+v", entries)
	}
	reloaded := testutil.ReloadTemplate(t, db, holidayTmpl.ID)
	testutil.AssertDate(t, "next_generate", reloaded.NextGenerate, date(2024, 1, 2))
	if reloaded.LastGenerated != nil {
		t.Errorf("last_generated should be untouched, got %v", reloaded.LastGenerated)
	}

	// Weekly Mon/Wed/Fri from Monday 2024-01-01 advances to Wednesday.
	reloaded = testutil.ReloadTemplate(t, db, weekly.ID)
	testutil.AssertDate(t, "next_generate", reloaded.NextGenerate, date(2024, 1, 3))
	if reloaded.LastGenerated == nil {
		t.Fatal("last_generated should be set")
	}
	testutil.AssertDate(t, "last_generated", *reloaded.LastGenerated, today)

	var tx models.Transaction
	if err := db.Where("recurring_template_id = ?", weekly.ID).First(&tx).Error; err != nil {
		t.Fatalf("generated transaction not found: %v", err)
	}
	testutil.AssertDate(t, "transaction date", tx.Date, today)

	// Running the same day again creates nothing.
	second, err := g.Run(ctx, today, false)
	testutil.AssertNoError(t, err)
	if second.GeneratedCount != 0 {
		t.Errorf("second run generated %d", second.GeneratedCount)
	}
	if n := countRows(t, db, &models.Transaction{}, "1 = 1"); n != 1 {
		t.Errorf("expected exactly 1 transaction, got %d", n)
	}
	if n := countRows(t, db, &models.RecurringGenerationLog{}, "recurring_template_id = ? AND status = ?", weekly.ID, models.GenerationStatusSuccess); n != 1 {
		t.Errorf("expected exactly 1 success entry, got %d", n)
	}

	// The rescheduled template is generated the next day.
	next, err := g.Run(ctx, date(2024, 1, 2), false)
	testutil.AssertNoError(t, err)
	if next.GeneratedCount != 1 || next.Outcomes[0].TemplateID != holidayTmpl.ID {
		t.Errorf("expected the holiday template to generate on 2024-01-02, got %+v", next)
	}
}

func TestRun_DatabaseExistingSuccessIsDuplicate(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	today := date(2024, 2, 1)
	g := newDBGenerator(db)
	tmpl := testutil.CreateTestTemplate(t, db, testutil.NewUserID(), today)
	testutil.CreateTestGenerationLog(t, db, tmpl.ID, today, models.GenerationStatusSuccess)

	result, err := g.Run(ctx, today, false)
	testutil.AssertNoError(t, err)
	if result.SkippedCount != 1 || result.Outcomes[0].Reason != models.ReasonDuplicate {
		t.Fatalf("expected skipped/duplicate, got %+v", result)
	}
	if n := countRows(t, db, &models.Transaction{}, "1 = 1"); n != 0 {
		t.Errorf("expected no transaction, got %d", n)
	}
	reloaded := testutil.ReloadTemplate(t, db, tmpl.ID)
	testutil.AssertDate(t, "next_generate", reloaded.NextGenerate, today)
}

func TestRun_DatabaseClaimBlocksOverlappingRun(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	today := date(2024, 2, 1)
	tmpl := testutil.CreateTestTemplate(t, db, testutil.NewUserID(), today)

	ok, err := services.NewGenerationClaimService(db).Claim(ctx, tmpl.ID, today, "other-run", time.Hour)
	testutil.AssertNoError(t, err)
	if !ok {
		t.Fatal("setup claim should be acquired")
	}

	result, err := newDBGenerator(db).Run(ctx, today, false)
	testutil.AssertNoError(t, err)
	if result.SkippedCount != 1 || result.Outcomes[0].Reason != models.ReasonDuplicate {
		t.Fatalf("expected skipped/duplicate, got %+v", result)
	}
	if n := countRows(t, db, &models.Transaction{}, "1 = 1"); n != 0 {
		t.Errorf("expected no transaction, got %d", n)
	}
}

// flakyTemplates fails the first failures schedule updates.
type flakyTemplates struct {
	services.RecurringTemplateServicer
	failures int
}

func (f *flakyTemplates) UpdateTemplate(ctx context.Context, id string, update services.TemplateUpdate) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("connection reset")
	}
	return f.RecurringTemplateServicer.UpdateTemplate(ctx, id, update)
}

func TestRun_DatabaseExpiredClaimDoesNotDuplicate(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	today := date(2024, 1, 1)
	tmpl := testutil.CreateTestTemplate(t, db, testutil.NewUserID(), today)

	templates := &flakyTemplates{RecurringTemplateServicer: services.NewRecurringTemplateService(db, "USD"), failures: 1}
	g := NewGenerator(
		templates,
		services.NewGenerationLogService(db),
		services.NewGenerationClaimService(db),
		services.NewTransactionService(db),
		nil,
		Config{Workers: 1, ClaimTTL: time.Millisecond},
		nil,
	)

	first, err := g.Run(ctx, today, false)
	testutil.AssertNoError(t, err)
	if first.FailedCount != 1 || first.Outcomes[0].TransactionID == "" {
		t.Fatalf("expected a failed run that created a transaction, got %+v", first)
	}
	created := first.Outcomes[0].TransactionID

	// Let the claim expire before the rerun.
	time.Sleep(5 * time.Millisecond)

	second, err := g.Run(ctx, today, false)
	testutil.AssertNoError(t, err)
	if second.GeneratedCount != 1 {
		t.Fatalf("expected the rerun to settle the occurrence, got %+v", second)
	}
	if got := second.Outcomes[0].TransactionID; got != created {
		t.Errorf("rerun transaction = %q, want the existing %q", got, created)
	}
	if n := countRows(t, db, &models.Transaction{}, "recurring_template_id = ? AND date = ?", tmpl.ID, today); n != 1 {
		t.Fatalf("expected 1 transaction for the occurrence, got %d", n)
	}

	reloaded := testutil.ReloadTemplate(t, db, tmpl.ID)
	testutil.AssertDate(t, "next_generate", reloaded.NextGenerate, date(2024, 1, 2))
	if n := countRows(t, db, &models.RecurringGenerationLog{}, "recurring_template_id = ? AND status = ?", tmpl.ID, models.GenerationStatusSuccess); n != 1 {
		t.Errorf("expected 1 success entry, got %d", n)
	}

	// Later runs for the same date short-circuit on the success entry.
	third, err := g.Run(ctx, today, true)
	testutil.AssertNoError(t, err)
	if third.GeneratedCount != 0 {
		t.Errorf("expected no further generation, got %+v", third)
	}
}
