package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ledgerd/internal/generator"
	"ledgerd/internal/logger"
	"ledgerd/internal/middleware"
	"ledgerd/internal/models"
	"ledgerd/internal/pagination"
	"ledgerd/internal/services"
	"ledgerd/internal/validator"
)

const testUserID = "0190f5d2-5c2e-7a3b-9a51-1c2d3e4f5a6b"

// --- mock services ---

type mockTemplateService struct {
	createTemplateFn      func(ctx context.Context, userID string, in services.CreateTemplateInput) (*models.RecurringTemplate, error)
	getUserTemplatesFn    func(ctx context.Context, userID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.RecurringTemplate], error)
	getTemplateByIDFn     func(ctx context.Context, userID, templateID string) (*models.RecurringTemplate, error)
	deactivateTemplateFn  func(ctx context.Context, userID, templateID string) error
	upcomingOccurrencesFn func(ctx context.Context, userID, templateID string, count int) ([]time.Time, error)
}

func (m *mockTemplateService) CreateTemplate(ctx context.Context, userID string, in services.CreateTemplateInput) (*models.RecurringTemplate, error) {
	if m.createTemplateFn != nil {
		return m.createTemplateFn(ctx, userID, in)
	}
	return &models.RecurringTemplate{}, nil
}

func (m *mockTemplateService) GetUserTemplates(ctx context.Context, userID string, page pagination.PageRequest, isActive *bool) (*pagination.PageResponse[models.RecurringTemplate], error) {
	if m.getUserTemplatesFn != nil {
		return m.getUserTemplatesFn(ctx, userID, page, isActive)
	}
	resp := pagination.NewPageResponse([]models.RecurringTemplate{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTemplateService) GetTemplateByID(ctx context.Context, userID, templateID string) (*models.RecurringTemplate, error) {
	if m.getTemplateByIDFn != nil {
		return m.getTemplateByIDFn(ctx, userID, templateID)
	}
	return &models.RecurringTemplate{}, nil
}

func (m *mockTemplateService) DeactivateTemplate(ctx context.Context, userID, templateID string) error {
	if m.deactivateTemplateFn != nil {
		return m.deactivateTemplateFn(ctx, userID, templateID)
	}
	return nil
}

func (m *mockTemplateService) UpcomingOccurrences(ctx context.Context, userID, templateID string, count int) ([]time.Time, error) {
	if m.upcomingOccurrencesFn != nil {
		return m.upcomingOccurrencesFn(ctx, userID, templateID, count)
	}
	return nil, nil
}

func (m *mockTemplateService) FindDueTemplates(context.Context, time.Time, bool) ([]models.RecurringTemplate, error) {
	return nil, nil
}

func (m *mockTemplateService) UpdateTemplate(context.Context, string, services.TemplateUpdate) error {
	return nil
}

var _ services.RecurringTemplateServicer = (*mockTemplateService)(nil)

type mockLogService struct {
	getTemplateLogsFn func(ctx context.Context, userID, templateID string, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringGenerationLog], error)
}

func (m *mockLogService) HasSuccessfulGeneration(context.Context, string, time.Time) (bool, error) {
	return false, nil
}

func (m *mockLogService) AppendEntry(context.Context, *models.RecurringGenerationLog) error {
	return nil
}

func (m *mockLogService) GetTemplateLogs(ctx context.Context, userID, templateID string, page pagination.PageRequest) (*pagination.PageResponse[models.RecurringGenerationLog], error) {
	if m.getTemplateLogsFn != nil {
		return m.getTemplateLogsFn(ctx, userID, templateID, page)
	}
	resp := pagination.NewPageResponse([]models.RecurringGenerationLog{}, 1, 20, 0)
	return &resp, nil
}

var _ services.GenerationLogServicer = (*mockLogService)(nil)

type mockTransactionService struct {
	getUserTransactionsFn func(ctx context.Context, userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

func (m *mockTransactionService) CreateTransaction(context.Context, services.NewTransaction) (*models.Transaction, error) {
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) FindGeneratedTransaction(context.Context, string, time.Time) (*models.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionService) GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(ctx, userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

type mockAuditService struct {
	mu      sync.Mutex
	entries []services.AuditEntry
}

func (m *mockAuditService) Log(_ context.Context, e services.AuditEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

type mockRunner struct {
	runFn func(ctx context.Context, today time.Time, includeOverdue bool) (*generator.RunResult, error)
}

func (m *mockRunner) Run(ctx context.Context, today time.Time, includeOverdue bool) (*generator.RunResult, error) {
	if m.runFn != nil {
		return m.runFn(ctx, today, includeOverdue)
	}
	return &generator.RunResult{Today: today.Format("2006-01-02"), Errors: []string{}}, nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	logger.Init("test")
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
