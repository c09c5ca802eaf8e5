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

// MaxUpcoming bounds the occurrence preview.
const MaxUpcoming = 52

// recurringTemplateService handles recurring template business logic.
type recurringTemplateService struct {
	db              *gorm.DB
	defaultCurrency string
}

// NewRecurringTemplateService creates a new RecurringTemplateServicer.
// Templates created without a currency use defaultCurrency.
func NewRecurringTemplateService(db *gorm.DB, defaultCurrency string) RecurringTemplateServicer {
	return &recurringTemplateService{
		db:              db,
		defaultCurrency: strings.ToUpper(defaultCurrency),
	}
}

// CreateTemplate validates the input and stores an active template whose
// next_generate is the first occurrence on or after the start date.
func (s *recurringTemplateService) CreateTemplate(ctx context.Context, userID string, in CreateTemplateInput) (*models.RecurringTemplate, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !in.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if in.StartDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start date is required")
	}

	start := recurrence.DateOf(in.StartDate)
	var end *time.Time
	if in.EndDate != nil {
		d := recurrence.DateOf(*in.EndDate)
		if d.Before(start) {
			return nil, apperrors.ErrInvalidDateRange
		}
		end = &d
	}

	cfg, err := recurrence.Build(in.FrequencyKind, in.Frequency, start)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidFrequency, err.Error())
	}

	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = s.defaultCurrency
	}

	tmpl := &models.RecurringTemplate{
		UserID:          userID,
		Name:            strings.TrimSpace(in.Name),
		Amount:          in.Amount,
		Category:        in.Category,
		Currency:        currency,
		Note:            in.Note,
		FrequencyKind:   in.FrequencyKind,
		FrequencyConfig: models.FrequencyConfig{Config: cfg},
		StartDate:       start,
		EndDate:         end,
		SkipHolidays:    in.SkipHolidays,
		IsActive:        true,
		NextGenerate:    recurrence.First(in.FrequencyKind, cfg, start),
	}

	if err := s.db.WithContext(ctx).Create(tmpl).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tmpl, nil
}

// GetUserTemplates retrieves a paginated list of templates for a user,
// optionally filtered by active state.
func (s *recurringTemplateService) GetUserTemplates(ctx context.Context, userID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.RecurringTemplate], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.RecurringTemplate{}).Where("user_id = ?", userID)
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var templates []models.RecurringTemplate
	if err := base.Scopes(pagination.Paginate(page)).
		Order("next_generate ASC, id ASC").
		Find(&templates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(templates, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTemplateByID retrieves a template by ID for a specific user.
func (s *recurringTemplateService) GetTemplateByID(ctx context.Context, userID, templateID string) (*models.RecurringTemplate, error) {
	var tmpl models.RecurringTemplate
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", templateID, userID).First(&tmpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurringTemplateNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tmpl, nil
}

// DeactivateTemplate stops future generation for a template. Its history
// and generated transactions are kept.
func (s *recurringTemplateService) DeactivateTemplate(ctx context.Context, userID, templateID string) error {
	tmpl, err := s.GetTemplateByID(ctx, userID, templateID)
	if err != nil {
		return err
	}
	if !tmpl.IsActive {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(tmpl).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// UpcomingOccurrences previews the next count occurrences starting with the
// template's next_generate. Dates past end_date are dropped.
func (s *recurringTemplateService) UpcomingOccurrences(ctx context.Context, userID, templateID string, count int) ([]time.Time, error) {
	if count < 1 || count > MaxUpcoming {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "count must be between 1 and 52")
	}

	tmpl, err := s.GetTemplateByID(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, count)
	first := recurrence.DateOf(tmpl.NextGenerate)
	for _, d := range append([]time.Time{first}, recurrence.Upcoming(tmpl.FrequencyKind, tmpl.FrequencyConfig.Config, first, count-1)...) {
		if tmpl.EndDate != nil && d.After(recurrence.DateOf(*tmpl.EndDate)) {
			break
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// FindDueTemplates selects the active templates to generate for today:
// those inside their validity window whose next_generate is today, or is
// today or earlier when includeOverdue is set.
func (s *recurringTemplateService) FindDueTemplates(ctx context.Context, today time.Time, includeOverdue bool) ([]models.RecurringTemplate, error) {
	today = recurrence.DateOf(today)

	q := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("start_date <= ?", today).
		Where("end_date IS NULL OR end_date >= ?", today).
		Where("end_date IS NULL OR next_generate <= end_date")
	if includeOverdue {
		q = q.Where("next_generate <= ?", today)
	} else {
		q = q.Where("next_generate = ?", today)
	}

	var templates []models.RecurringTemplate
	if err := q.Order("next_generate ASC, id ASC").Find(&templates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return templates, nil
}

// UpdateTemplate writes the scheduling state of a template.
func (s *recurringTemplateService) UpdateTemplate(ctx context.Context, templateID string, update TemplateUpdate) error {
	fields := map[string]any{
		"next_generate": recurrence.DateOf(update.NextGenerate),
	}
	if update.LastGenerated != nil {
		fields["last_generated"] = recurrence.DateOf(*update.LastGenerated)
	}

	res := s.db.WithContext(ctx).Model(&models.RecurringTemplate{}).
		Where("id = ?", templateID).
		Updates(fields)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrRecurringTemplateNotFound
	}
	return nil
}
