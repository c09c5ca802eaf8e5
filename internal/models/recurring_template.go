package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ledgerd/internal/recurrence"
)

// RecurringTemplate is a user-defined periodic expense. The generator
// materializes it into a Transaction on every occurrence date.
type RecurringTemplate struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name            string          `gorm:"not null" json:"name"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Category        string          `gorm:"not null" json:"category"`
	Currency        string          `gorm:"size:3;not null" json:"currency"`
	Note            string          `json:"note,omitempty"`
	FrequencyKind   recurrence.Kind `gorm:"not null" json:"frequency_kind"`
	FrequencyConfig FrequencyConfig `gorm:"type:text" json:"frequency_config"`
	StartDate       time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate         *time.Time      `gorm:"type:date" json:"end_date,omitempty"`
	SkipHolidays    bool            `gorm:"not null" json:"skip_holidays"`
	IsActive        bool            `gorm:"not null;index" json:"is_active"`
	LastGenerated   *time.Time      `gorm:"type:date" json:"last_generated,omitempty"`
	NextGenerate    time.Time       `gorm:"type:date;not null;index" json:"next_generate"`
}

// Next returns the occurrence following from under the template's frequency.
func (t *RecurringTemplate) Next(from time.Time) time.Time {
	return recurrence.Next(t.FrequencyKind, t.FrequencyConfig.Config, from)
}

// FrequencyConfig stores a recurrence.Config as self-describing JSON text.
// A missing or unreadable value scans to a nil Config, which the calculator
// replaces with the defaults of the template's kind.
type FrequencyConfig struct {
	recurrence.Config
}

// Value implements driver.Valuer.
func (f FrequencyConfig) Value() (driver.Value, error) {
	if f.Config == nil {
		return nil, nil
	}
	data, err := recurrence.Encode(f.Config)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (f *FrequencyConfig) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		f.Config = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into FrequencyConfig", src)
	}

	cfg, err := recurrence.Decode(data)
	if err != nil {
		f.Config = nil
		return nil
	}
	f.Config = cfg
	return nil
}

// MarshalJSON renders the configuration in its tagged form.
func (f FrequencyConfig) MarshalJSON() ([]byte, error) {
	if f.Config == nil {
		return []byte("null"), nil
	}
	return recurrence.Encode(f.Config)
}

// UnmarshalJSON parses the tagged form produced by MarshalJSON.
func (f *FrequencyConfig) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		f.Config = nil
		return nil
	}
	cfg, err := recurrence.Decode(data)
	if err != nil {
		return err
	}
	f.Config = cfg
	return nil
}
