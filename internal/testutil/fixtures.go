package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"ledgerd/internal/models"
	"ledgerd/internal/recurrence"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns the civil date y-m-d.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewUserID returns a random user id. Users live in the identity provider,
// so tests only need an id to scope rows by.
func NewUserID() string {
	return uuid.NewString()
}

// TemplateOption customizes a fixture template before it is saved.
type TemplateOption func(*models.RecurringTemplate)

// WithFrequency sets the template's frequency.
func WithFrequency(kind recurrence.Kind, cfg recurrence.Config) TemplateOption {
	return func(t *models.RecurringTemplate) {
		t.FrequencyKind = kind
		t.FrequencyConfig = models.FrequencyConfig{Config: cfg}
	}
}

// WithNextGenerate sets next_generate.
func WithNextGenerate(d time.Time) TemplateOption {
	return func(t *models.RecurringTemplate) { t.NextGenerate = d }
}

// WithStartDate sets start_date.
func WithStartDate(d time.Time) TemplateOption {
	return func(t *models.RecurringTemplate) { t.StartDate = d }
}

// WithEndDate sets end_date.
func WithEndDate(d time.Time) TemplateOption {
	return func(t *models.RecurringTemplate) { t.EndDate = &d }
}

// WithSkipHolidays sets skip_holidays.
func WithSkipHolidays(skip bool) TemplateOption {
	return func(t *models.RecurringTemplate) { t.SkipHolidays = skip }
}

// WithInactive deactivates the template.
func WithInactive() TemplateOption {
	return func(t *models.RecurringTemplate) { t.IsActive = false }
}

// CreateTestTemplate creates an active daily template due on next. The
// start date defaults to next.
func CreateTestTemplate(t *testing.T, db *gorm.DB, userID string, next time.Time, opts ...TemplateOption) *models.RecurringTemplate {
	t.Helper()

	tmpl := &models.RecurringTemplate{
		UserID:          userID,
		Name:            fmt.Sprintf("Template %d", nextID()),
		Amount:          decimal.RequireFromString("12.50"),
		Category:        "subscriptions",
		Currency:        "USD",
		FrequencyKind:   recurrence.KindDaily,
		FrequencyConfig: models.FrequencyConfig{Config: recurrence.DailyConfig{}},
		StartDate:       next,
		IsActive:        true,
		NextGenerate:    next,
	}
	for _, opt := range opts {
		opt(tmpl)
	}
	if err := db.Create(tmpl).Error; err != nil {
		t.Fatalf("failed to create test template: %v", err)
	}
	return tmpl
}

// CreateTestTransaction creates an expense dated date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:   userID,
		Type:     models.TransactionTypeExpense,
		Category: "misc",
		Amount:   decimal.RequireFromString("1.00"),
		Currency: "USD",
		Date:     date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestGenerationLog appends a generation log entry.
func CreateTestGenerationLog(t *testing.T, db *gorm.DB, templateID string, date time.Time, status models.GenerationStatus) *models.RecurringGenerationLog {
	t.Helper()

	entry := &models.RecurringGenerationLog{
		RecurringTemplateID: &templateID,
		GenerationDate:      date,
		Status:              status,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test generation log: %v", err)
	}
	return entry
}

// ReloadTemplate reads a template back from the database.
func ReloadTemplate(t *testing.T, db *gorm.DB, id string) *models.RecurringTemplate {
	t.Helper()

	var tmpl models.RecurringTemplate
	if err := db.First(&tmpl, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload template %s: %v", id, err)
	}
	return &tmpl
}
