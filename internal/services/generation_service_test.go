package services

import (
	"context"
	"testing"
	"time"

	"ledgerd/internal/models"
	"ledgerd/internal/pagination"
	"ledgerd/internal/testutil"
)

func TestHasSuccessfulGeneration(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewGenerationLogService(db)

	day := testutil.Date(2024, 1, 1)
	tmpl := testutil.CreateTestTemplate(t, db, testutil.NewUserID(), day)

	ok, err := svc.HasSuccessfulGeneration(ctx, tmpl.ID, day)
	testutil.AssertNoError(t, err)
	if ok {
		t.Fatal("expected no success on an empty log")
	}

	testutil.CreateTestGenerationLog(t, db, tmpl.ID, day, models.GenerationStatusSkipped)
	testutil.CreateTestGenerationLog(t, db, tmpl.ID, day, models.GenerationStatusFailed)
	ok, err = svc.HasSuccessfulGeneration(ctx, tmpl.ID, day)
	testutil.AssertNoError(t, err)
	if ok {
		t.Fatal("skipped and failed entries are not successes")
	}

	testutil.CreateTestGenerationLog(t, db, tmpl.ID, day, models.GenerationStatusSuccess)
	ok, err = svc.HasSuccessfulGeneration(ctx, tmpl.ID, day)
	testutil.AssertNoError(t, err)
	if !ok {
		t.Fatal("expected success to be found")
	}

	ok, err = svc.HasSuccessfulGeneration(ctx, tmpl.ID, day.AddDate(0, 0, 1))
	testutil.AssertNoError(t, err)
	if ok {
		t.Error("success on another date must not count")
	}
}

func TestAppendEntryAndGetTemplateLogs(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewGenerationLogService(db)

	owner := testutil.NewUserID()
	tmpl := testutil.CreateTestTemplate(t, db, owner, testutil.Date(2024, 1, 1))

	for i := 0; i < 3; i++ {
		entry := &models.RecurringGenerationLog{
			RecurringTemplateID: &tmpl.ID,
			// Time of day is dropped.
			GenerationDate: time.Date(2024, 1, 1+i, 13, 30, 0, 0, time.UTC),
			Status:         models.GenerationStatusSkipped,
			Reason:         models.ReasonHoliday,
		}
		testutil.AssertNoError(t, svc.AppendEntry(ctx, entry))
		if entry.ID == "" {
			t.Fatal("expected entry ID")
		}
	}

	page, err := svc.GetTemplateLogs(ctx, owner, tmpl.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 3 {
		t.Fatalf("expected 3 entries, got %d", page.TotalItems)
	}
	testutil.AssertDate(t, "newest generation_date", page.Data[0].GenerationDate, testutil.Date(2024, 1, 3))
	if page.Data[0].Reason != models.ReasonHoliday {
		t.Errorf("expected reason holiday, got %q", page.Data[0].Reason)
	}

	_, err = svc.GetTemplateLogs(ctx, testutil.NewUserID(), tmpl.ID, pagination.PageRequest{})
	testutil.AssertAppError(t, err, "RECURRING_TEMPLATE_NOT_FOUND")
}

func TestGenerationClaims(t *testing.T) {
	ctx := context.Background()
	day := testutil.Date(2024, 1, 1)

	t.Run("second_claim_fails_until_released", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGenerationClaimService(db)
		templateID := testutil.NewUserID()

		ok, err := svc.Claim(ctx, templateID, day, "run-a", time.Hour)
		testutil.AssertNoError(t, err)
		if !ok {
			t.Fatal("first claim should be acquired")
		}

		ok, err = svc.Claim(ctx, templateID, day, "run-b", time.Hour)
		testutil.AssertNoError(t, err)
		if ok {
			t.Fatal("second claim should not be acquired")
		}

		// Releasing another run's claim is a no-op.
		testutil.AssertNoError(t, svc.Release(ctx, templateID, day, "run-b"))
		ok, err = svc.Claim(ctx, templateID, day, "run-b", time.Hour)
		testutil.AssertNoError(t, err)
		if ok {
			t.Fatal("claim held by run-a should survive run-b's release")
		}

		testutil.AssertNoError(t, svc.Release(ctx, templateID, day, "run-a"))
		ok, err = svc.Claim(ctx, templateID, day, "run-b", time.Hour)
		testutil.AssertNoError(t, err)
		if !ok {
			t.Fatal("claim should be acquired after release")
		}
	})

	t.Run("distinct_dates_are_independent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGenerationClaimService(db)
		templateID := testutil.NewUserID()

		for _, d := range []time.Time{day, day.AddDate(0, 0, 1)} {
			ok, err := svc.Claim(ctx, templateID, d, "run-a", time.Hour)
			testutil.AssertNoError(t, err)
			if !ok {
				t.Errorf("claim for %s should be acquired", d.Format("2006-01-02"))
			}
		}
	})

	t.Run("expired_claim_is_taken_over", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGenerationClaimService(db).(*generationClaimService)
		templateID := testutil.NewUserID()

		base := time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)
		svc.now = func() time.Time { return base }
		ok, err := svc.Claim(ctx, templateID, day, "run-a", time.Minute)
		testutil.AssertNoError(t, err)
		if !ok {
			t.Fatal("first claim should be acquired")
		}

		svc.now = func() time.Time { return base.Add(time.Hour) }
		ok, err = svc.Claim(ctx, templateID, day, "run-b", time.Minute)
		testutil.AssertNoError(t, err)
		if !ok {
			t.Fatal("expired claim should be taken over")
		}

		var claim models.RecurringGenerationClaim
		if err := db.First(&claim, "recurring_template_id = ?", templateID).Error; err != nil {
			t.Fatalf("load claim: %v", err)
		}
		if claim.RunID != "run-b" {
			t.Errorf("expected run-b to hold the claim, got %s", claim.RunID)
		}
	})

	t.Run("purge_expired", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGenerationClaimService(db).(*generationClaimService)

		base := time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)
		svc.now = func() time.Time { return base }
		for i := 0; i < 3; i++ {
			_, err := svc.Claim(ctx, testutil.NewUserID(), day, "run-a", time.Duration(i+1)*time.Hour)
			testutil.AssertNoError(t, err)
		}

		n, err := svc.PurgeExpired(ctx, base.Add(90*time.Minute))
		testutil.AssertNoError(t, err)
		if n != 1 {
			t.Errorf("expected 1 purged claim, got %d", n)
		}
	})
}
