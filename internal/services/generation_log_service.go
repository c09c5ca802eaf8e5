package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "ledgerd/internal/errors"
	"ledgerd/internal/models"
	"ledgerd/internal/pagination"
	"ledgerd/internal/recurrence"
)

// generationLogService reads and appends generation audit entries.
type generationLogService struct {
	db *gorm.DB
}

// NewGenerationLogService creates a new GenerationLogServicer.
func NewGenerationLogService(db *gorm.DB) GenerationLogServicer {
	return &generationLogService{db: db}
}

// HasSuccessfulGeneration reports whether a success entry exists for the
// template on date.
func (s *generationLogService) HasSuccessfulGeneration(ctx context.Context, templateID string, date time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.RecurringGenerationLog{}).
		Where("recurring_template_id = ? AND generation_date = ? AND status = ?",
			templateID, recurrence.DateOf(date), models.GenerationStatusSuccess).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// AppendEntry inserts an audit entry. Entries are never updated.
func (s *generationLogService) AppendEntry(ctx context.Context, entry *models.RecurringGenerationLog) error {
	entry.GenerationDate = recurrence.DateOf(entry.GenerationDate)
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetTemplateLogs lists the audit trail of a user's template, newest first.
func (s *generationLogService) GetTemplateLogs(ctx context.Context, userID, templateID string, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringGenerationLog], error) {
	page.Defaults()

	var owned int64
	if err := s.db.WithContext(ctx).Model(&models.RecurringTemplate{}).
		Where("id = ? AND user_id = ?", templateID, userID).
		Count(&owned).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if owned == 0 {
		return nil, apperrors.ErrRecurringTemplateNotFound
	}

	base := s.db.WithContext(ctx).Model(&models.RecurringGenerationLog{}).
		Where("recurring_template_id = ?", templateID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.RecurringGenerationLog
	if err := base.Scopes(pagination.Paginate(page)).
		Order("generation_date DESC, created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}
