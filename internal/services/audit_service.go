package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"ledgerd/internal/logger"
	"ledgerd/internal/models"
)

// Audit actions and resource types recorded for API operations.
const (
	AuditActionCreateTemplate     = "CREATE_RECURRING_TEMPLATE"
	AuditActionDeactivateTemplate = "DEACTIVATE_RECURRING_TEMPLATE"

	AuditResourceRecurringTemplate = "recurring_template"
)

// AuditEntry describes one user operation to record.
type AuditEntry struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	Changes      map[string]any
}

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged but never propagate
// to avoid disrupting the main operation.
func (s *auditService) Log(ctx context.Context, e AuditEntry) {
	log := logger.Named("audit")

	var changesJSON string
	if e.Changes != nil {
		data, err := json.Marshal(e.Changes)
		if err != nil {
			log.Errorw("failed to marshal audit log changes", "error", err, "action", e.Action)
			changesJSON = "{}"
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       e.UserID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		IPAddress:    e.IPAddress,
		Changes:      changesJSON,
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		log.Errorw("failed to create audit log entry",
			"error", err,
			"user_id", e.UserID,
			"action", e.Action,
			"resource_type", e.ResourceType,
			"resource_id", e.ResourceID,
		)
	}
}
