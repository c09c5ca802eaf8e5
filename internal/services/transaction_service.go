package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "ledgerd/internal/errors"
	"ledgerd/internal/models"
	"ledgerd/internal/pagination"
	"ledgerd/internal/recurrence"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction stores a ledger entry. The type defaults to expense.
func (s *transactionService) CreateTransaction(ctx context.Context, in NewTransaction) (*models.Transaction, error) {
	if !in.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if in.UserID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user ID is required")
	}
	if in.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	txType := in.Type
	if txType == "" {
		txType = models.TransactionTypeExpense
	}
	if txType != models.TransactionTypeExpense && txType != models.TransactionTypeIncome {
		return nil, apperrors.ErrInvalidTransactionType
	}

	transaction := &models.Transaction{
		UserID:              in.UserID,
		Type:                txType,
		Category:            in.Category,
		Amount:              in.Amount,
		Currency:            strings.ToUpper(in.Currency),
		Note:                in.Note,
		Date:                recurrence.DateOf(in.Date),
		RecurringTemplateID: in.RecurringTemplateID,
	}

	if err := s.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// FindGeneratedTransaction returns the transaction generated from a template
// on date, or nil when there is none.
func (s *transactionService) FindGeneratedTransaction(ctx context.Context, templateID string, date time.Time) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.WithContext(ctx).
		Where("recurring_template_id = ? AND date = ?", templateID, recurrence.DateOf(date)).
		Order("created_at ASC").
		First(&transaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of a user's transactions.
func (s *transactionService) GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", recurrence.DateOf(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", recurrence.DateOf(*f.ToDate))
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.TemplateID != nil {
		q = q.Where("recurring_template_id = ?", *f.TemplateID)
	}
	return q
}
