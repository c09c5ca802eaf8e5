package services

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "ledgerd/internal/errors"
	"ledgerd/internal/models"
	"ledgerd/internal/recurrence"
)

// generationClaimService reserves (template, date) pairs so that two
// overlapping runs cannot both generate the same occurrence.
type generationClaimService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGenerationClaimService creates a new GenerationClaimServicer.
func NewGenerationClaimService(db *gorm.DB) GenerationClaimServicer {
	return &generationClaimService{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Claim reserves the pair for runID. It returns false when another run holds
// an unexpired claim. Expired claims are taken over.
func (s *generationClaimService) Claim(ctx context.Context, templateID string, date time.Time, runID string, ttl time.Duration) (bool, error) {
	now := s.now()
	date = recurrence.DateOf(date)
	db := s.db.WithContext(ctx)

	if err := db.Where("recurring_template_id = ? AND generation_date = ? AND expires_at <= ?", templateID, date, now).
		Delete(&models.RecurringGenerationClaim{}).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	claim := &models.RecurringGenerationClaim{
		RecurringTemplateID: templateID,
		GenerationDate:      date,
		RunID:               runID,
		ClaimedAt:           now,
		ExpiresAt:           now.Add(ttl),
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(claim)
	if res.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Release drops a claim held by runID.
func (s *generationClaimService) Release(ctx context.Context, templateID string, date time.Time, runID string) error {
	err := s.db.WithContext(ctx).
		Where("recurring_template_id = ? AND generation_date = ? AND run_id = ?", templateID, recurrence.DateOf(date), runID).
		Delete(&models.RecurringGenerationClaim{}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// PurgeExpired deletes claims that expired before now.
func (s *generationClaimService) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&models.RecurringGenerationClaim{})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected, nil
}
