package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "ledgerd/internal/errors"
	"ledgerd/internal/pagination"
	"ledgerd/internal/recurrence"
	"ledgerd/internal/services"
)

const defaultUpcomingCount = 5

// RecurringHandler handles recurring template requests.
type RecurringHandler struct {
	templateService services.RecurringTemplateServicer
	logService      services.GenerationLogServicer
	auditService    services.AuditServicer
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(
	templateService services.RecurringTemplateServicer,
	logService services.GenerationLogServicer,
	auditService services.AuditServicer,
) *RecurringHandler {
	return &RecurringHandler{
		templateService: templateService,
		logService:      logService,
		auditService:    auditService,
	}
}

// CreateRecurringTemplateRequest represents the request payload for creating a recurring template
type CreateRecurringTemplateRequest struct {
	Name          string            `json:"name" binding:"required,max=255"`
	Amount        decimal.Decimal   `json:"amount" swaggertype:"string" example:"12.50"`
	Category      string            `json:"category" binding:"required,max=100"`
	Currency      string            `json:"currency" binding:"omitempty,iso4217"`
	Note          string            `json:"note" binding:"max=500"`
	FrequencyKind string            `json:"frequency_kind" binding:"required,frequency_kind"`
	Frequency     recurrence.Params `json:"frequency"`
	StartDate     string            `json:"start_date" binding:"required,civil_date" example:"2024-01-01"`
	EndDate       *string           `json:"end_date" binding:"omitempty,civil_date" example:"2024-12-31"`
	SkipHolidays  bool              `json:"skip_holidays"`
}

// UpcomingResponse lists the next occurrence dates of a template.
type UpcomingResponse struct {
	TemplateID string   `json:"template_id"`
	Dates      []string `json:"dates"`
}

// CreateTemplate handles the creation of a new recurring template
// @Summary     Create a recurring template
// @Description Create a periodic expense that is materialized into a transaction on every occurrence
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRecurringTemplateRequest true "Template details"
// @Success     201 {object} models.RecurringTemplate "Template created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring [post]
func (h *RecurringHandler) CreateTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecurringTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	// Both dates were checked by the civil_date binding.
	start, _ := recurrence.ParseDate(req.StartDate)
	var end *time.Time
	if req.EndDate != nil {
		d, _ := recurrence.ParseDate(*req.EndDate)
		end = &d
	}

	tmpl, err := h.templateService.CreateTemplate(c.Request.Context(), userID, services.CreateTemplateInput{
		Name:          req.Name,
		Amount:        req.Amount,
		Category:      req.Category,
		Currency:      req.Currency,
		Note:          req.Note,
		FrequencyKind: recurrence.Kind(req.FrequencyKind),
		Frequency:     req.Frequency,
		StartDate:     start,
		EndDate:       end,
		SkipHolidays:  req.SkipHolidays,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), services.AuditEntry{
		UserID:       userID,
		Action:       services.AuditActionCreateTemplate,
		ResourceType: services.AuditResourceRecurringTemplate,
		ResourceID:   tmpl.ID,
		IPAddress:    c.ClientIP(),
		Changes: map[string]any{
			"name":           tmpl.Name,
			"amount":         tmpl.Amount.String(),
			"frequency_kind": tmpl.FrequencyKind,
			"next_generate":  tmpl.NextGenerate.Format(recurrence.DateLayout),
		},
	})

	c.JSON(http.StatusCreated, gin.H{"recurring_template": tmpl})
}

// ListTemplates handles listing the authenticated user's recurring templates
// @Summary     List recurring templates
// @Description Get a paginated list of recurring templates ordered by next occurrence
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int  false "Page number (default 1)"
// @Param       page_size query int  false "Items per page (default 20, max 100)"
// @Param       is_active query bool false "Filter by active state"
// @Success     200 {object} pagination.PageResponse[models.RecurringTemplate] "Paginated templates"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring [get]
func (h *RecurringHandler) ListTemplates(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	isActive, err := parseBoolQuery(c, "is_active")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.templateService.GetUserTemplates(c.Request.Context(), userID, page, isActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTemplate handles retrieving a single recurring template
// @Summary     Get a recurring template
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Template ID"
// @Success     200 {object} models.RecurringTemplate "Template"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Router      /recurring/{id} [get]
func (h *RecurringHandler) GetTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	tmpl, err := h.templateService.GetTemplateByID(c.Request.Context(), userID, templateID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring_template": tmpl})
}

// DeactivateTemplate handles stopping a recurring template
// @Summary     Deactivate a recurring template
// @Description Stop future generation. The template's history and generated transactions are kept.
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Template ID"
// @Success     200 {object} map[string]string "Template deactivated"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Router      /recurring/{id} [delete]
func (h *RecurringHandler) DeactivateTemplate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.templateService.DeactivateTemplate(c.Request.Context(), userID, templateID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), services.AuditEntry{
		UserID:       userID,
		Action:       services.AuditActionDeactivateTemplate,
		ResourceType: services.AuditResourceRecurringTemplate,
		ResourceID:   templateID,
		IPAddress:    c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Recurring template deactivated"})
}

// UpcomingOccurrences handles previewing the next occurrence dates
// @Summary     Preview upcoming occurrences
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Template ID"
// @Param       count query int    false "Number of dates (default 5, max 52)"
// @Success     200 {object} UpcomingResponse "Upcoming dates"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Router      /recurring/{id}/upcoming [get]
func (h *RecurringHandler) UpcomingOccurrences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	count := defaultUpcomingCount
	if v := c.Query("count"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid count"))
			return
		}
		count = n
	}

	dates, err := h.templateService.UpcomingOccurrences(c.Request.Context(), userID, templateID, count)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := UpcomingResponse{TemplateID: templateID, Dates: make([]string, 0, len(dates))}
	for _, d := range dates {
		resp.Dates = append(resp.Dates, d.Format(recurrence.DateLayout))
	}
	c.JSON(http.StatusOK, resp)
}

// GetTemplateLogs handles listing the generation audit trail of a template
// @Summary     List generation attempts
// @Description Get the append-only generation log of a template, newest first
// @Tags        recurring
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Template ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.RecurringGenerationLog] "Paginated log entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Template not found"
// @Router      /recurring/{id}/logs [get]
func (h *RecurringHandler) GetTemplateLogs(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	templateID, err := parseUUIDParam(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.logService.GetTemplateLogs(c.Request.Context(), userID, templateID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
