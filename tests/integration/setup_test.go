package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ledgerd/internal/app"
	"ledgerd/internal/config"
	"ledgerd/internal/generator"
	"ledgerd/internal/handlers"
	"ledgerd/internal/holiday"
	"ledgerd/internal/logger"
	"ledgerd/internal/middleware"
	"ledgerd/internal/testutil"
	"ledgerd/internal/validator"
)

const (
	testJWTSecret   = "integration-secret"
	testPipelineKey = "integration-pipeline-key"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Generator *generator.Generator
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite. holidays are the civil dates treated as public holidays.
func setupApp(t *testing.T, holidays ...time.Time) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := &config.Config{
		JWTSecret:          testJWTSecret,
		PipelineAPIKey:     testPipelineKey,
		DefaultCurrency:    "USD",
		GenerationTimezone: time.UTC,
		GenerationWorkers:  4,
		ClaimTTL:           time.Minute,
	}

	svcs := app.NewServices(db, cfg)
	gen := app.NewGenerator(cfg, svcs, holiday.NewCalendar(holidays, false), zap.NewNop().Sugar())

	recurringHandler := handlers.NewRecurringHandler(svcs.Templates, svcs.Logs, svcs.Audit)
	transactionHandler := handlers.NewTransactionHandler(svcs.Transactions)
	generationHandler := handlers.NewGenerationHandler(gen, cfg.Today, cfg.IncludeOverdue)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/recurring/generate", generationHandler.Generate)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	recurring := protected.Group("/recurring")
	recurring.POST("", recurringHandler.CreateTemplate)
	recurring.GET("", recurringHandler.ListTemplates)
	recurring.GET("/:id", recurringHandler.GetTemplate)
	recurring.DELETE("/:id", recurringHandler.DeactivateTemplate)
	recurring.GET("/:id/upcoming", recurringHandler.UpcomingOccurrences)
	recurring.GET("/:id/logs", recurringHandler.GetTemplateLogs)

	protected.GET("/transactions", transactionHandler.GetUserTransactions)

	return &testApp{DB: db, Router: router, Generator: gen}
}

// request makes an HTTP request to the test router and returns the recorder.
func (a *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

// generate triggers a pipeline run for date and returns the decoded summary.
func (a *testApp) generate(t *testing.T, date string) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/recurring/generate",
		strings.NewReader(fmt.Sprintf(`{"date":%q}`, date)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testPipelineKey)
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate %s failed: %d %s", date, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

// newUser returns a fresh user ID and an access token for it.
func newUser(t *testing.T) (userID, token string) {
	t.Helper()
	userID = testutil.NewUserID()
	token, err := middleware.GenerateAccessToken(testJWTSecret, userID, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return userID, token
}

// createTemplate posts body and returns the created template.
func (a *testApp) createTemplate(t *testing.T, token, body string) map[string]interface{} {
	t.Helper()
	rec := a.request(http.MethodPost, "/api/v1/recurring", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create template failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["recurring_template"].(map[string]interface{})
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func count(t *testing.T, result map[string]interface{}, key string) int {
	t.Helper()
	v, ok := result[key].(float64)
	if !ok {
		t.Fatalf("missing %s in %v", key, result)
	}
	return int(v)
}
