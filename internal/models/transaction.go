package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction is a ledger entry. Entries created by the recurring generator
// carry a back-reference to their template.
type Transaction struct {
	Base
	UserID              string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type                TransactionType `gorm:"not null" json:"type"`
	Category            string          `gorm:"not null" json:"category"`
	Amount              decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency            string          `gorm:"size:3;not null" json:"currency"`
	Note                string          `json:"note"`
	Date                time.Time       `gorm:"type:date;not null;index" json:"date"`
	RecurringTemplateID *string         `gorm:"type:uuid;index" json:"recurring_template_id,omitempty"`
}
