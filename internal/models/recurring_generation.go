package models

import (
	"time"

	"gorm.io/gorm"
)

// GenerationStatus is the outcome of one generation attempt.
type GenerationStatus string

const (
	GenerationStatusSuccess GenerationStatus = "success"
	GenerationStatusSkipped GenerationStatus = "skipped"
	GenerationStatusFailed  GenerationStatus = "failed"
)

// Skip reasons recorded on skipped attempts.
const (
	ReasonDuplicate = "duplicate"
	ReasonHoliday   = "holiday"
)

// RecurringGenerationLog is the append-only audit trail of generation
// attempts. Rows are never updated or deleted; there is at most one success
// per template and generation date.
type RecurringGenerationLog struct {
	ID                     string           `gorm:"type:uuid;primaryKey" json:"id"`
	RecurringTemplateID    *string          `gorm:"type:uuid;index:idx_generation_logs_template_date,priority:1" json:"recurring_template_id,omitempty"`
	GenerationDate         time.Time        `gorm:"type:date;not null;index:idx_generation_logs_template_date,priority:2" json:"generation_date"`
	GeneratedTransactionID *string          `gorm:"type:uuid" json:"generated_transaction_id,omitempty"`
	Status                 GenerationStatus `gorm:"not null" json:"status"`
	Reason                 string           `json:"reason,omitempty"`
	CreatedAt              time.Time        `json:"created_at"`
}

// BeforeCreate assigns an ID to new entries.
func (l *RecurringGenerationLog) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		id, err := NewID()
		if err != nil {
			return err
		}
		l.ID = id
	}
	return nil
}

// RecurringGenerationClaim reserves a (template, generation date) pair for a
// single run. The composite primary key makes a second claim for the same
// pair fail until the first one is released or expires.
type RecurringGenerationClaim struct {
	RecurringTemplateID string    `gorm:"type:uuid;primaryKey" json:"recurring_template_id"`
	GenerationDate      time.Time `gorm:"type:date;primaryKey" json:"generation_date"`
	RunID               string    `gorm:"not null" json:"run_id"`
	ClaimedAt           time.Time `gorm:"not null" json:"claimed_at"`
	ExpiresAt           time.Time `gorm:"not null;index" json:"expires_at"`
}
