package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ledgerd/internal/models"
	"ledgerd/internal/pagination"
	"ledgerd/internal/recurrence"
)

// CreateTemplateInput carries the user-supplied fields of a new template.
type CreateTemplateInput struct {
	Name          string
	Amount        decimal.Decimal
	Category      string
	Currency      string
	Note          string
	FrequencyKind recurrence.Kind
	Frequency     recurrence.Params
	StartDate     time.Time
	EndDate       *time.Time
	SkipHolidays  bool
}

// TemplateUpdate is the scheduling state written back after a generation
// attempt. LastGenerated is left untouched when nil.
type TemplateUpdate struct {
	LastGenerated *time.Time
	NextGenerate  time.Time
}

// RecurringTemplateServicer defines the contract for recurring template business logic.
type RecurringTemplateServicer interface {
	CreateTemplate(ctx context.Context, userID string, in CreateTemplateInput) (*models.RecurringTemplate, error)
	GetUserTemplates(ctx context.Context, userID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.RecurringTemplate], error)
	GetTemplateByID(ctx context.Context, userID, templateID string) (*models.RecurringTemplate, error)
	DeactivateTemplate(ctx context.Context, userID, templateID string) error
	UpcomingOccurrences(ctx context.Context, userID, templateID string, count int) ([]time.Time, error)

	FindDueTemplates(ctx context.Context, today time.Time, includeOverdue bool) ([]models.RecurringTemplate, error)
	UpdateTemplate(ctx context.Context, templateID string, update TemplateUpdate) error
}

// GenerationLogServicer defines the contract for the append-only generation audit trail.
type GenerationLogServicer interface {
	HasSuccessfulGeneration(ctx context.Context, templateID string, date time.Time) (bool, error)
	AppendEntry(ctx context.Context, entry *models.RecurringGenerationLog) error
	GetTemplateLogs(ctx context.Context, userID, templateID string, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringGenerationLog], error)
}

// GenerationClaimServicer defines the contract for per-template generation claims.
type GenerationClaimServicer interface {
	Claim(ctx context.Context, templateID string, date time.Time, runID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, templateID string, date time.Time, runID string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// NewTransaction carries the fields of a transaction to create.
type NewTransaction struct {
	UserID              string
	Type                models.TransactionType
	Category            string
	Amount              decimal.Decimal
	Currency            string
	Note                string
	Date                time.Time
	RecurringTemplateID *string
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Category   *string
	TemplateID *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, in NewTransaction) (*models.Transaction, error)
	FindGeneratedTransaction(ctx context.Context, templateID string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, entry AuditEntry)
}
