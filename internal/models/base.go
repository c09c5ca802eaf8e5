package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for mutable tables.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a time-ordered UUIDv7 to new records.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		id, err := NewID()
		if err != nil {
			return err
		}
		b.ID = id
	}
	return nil
}

// NewID returns a UUIDv7 string. UUIDv7 sorts by creation time, which keeps
// primary key indexes append-friendly.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
