package generator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"ledgerd/internal/models"
	"ledgerd/internal/recurrence"
	"ledgerd/internal/services"
)

// fakeStore is an in-memory implementation of every generator dependency.
// The *Fn fields override individual operations.
type fakeStore struct {
	mu           sync.Mutex
	templates    map[string]*models.RecurringTemplate
	due          []models.RecurringTemplate // returned by FindDueTemplates when set
	entries      []models.RecurringGenerationLog
	transactions []models.Transaction
	claims       map[string]string
	updates      int

	findFn     func(ctx context.Context, today time.Time, includeOverdue bool) ([]models.RecurringTemplate, error)
	updateFn   func(ctx context.Context, id string, update services.TemplateUpdate) error
	hasFn      func(ctx context.Context, id string, date time.Time) (bool, error)
	appendFn   func(ctx context.Context, entry *models.RecurringGenerationLog) error
	claimFn    func(ctx context.Context, id string, date time.Time, runID string) (bool, error)
	releaseFn  func(ctx context.Context, id string, date time.Time, runID string) error
	createTxFn func(ctx context.Context, in services.NewTransaction) (*models.Transaction, error)
	findTxFn   func(ctx context.Context, id string, date time.Time) (*models.Transaction, error)
}

func newFakeStore(templates ...*models.RecurringTemplate) *fakeStore {
	s := &fakeStore{
		templates: make(map[string]*models.RecurringTemplate),
		claims:    make(map[string]string),
	}
	for _, t := range templates {
		s.templates[t.ID] = t
	}
	return s
}

func claimKey(id string, date time.Time) string {
	return id + "/" + date.Format(recurrence.DateLayout)
}

func (s *fakeStore) FindDueTemplates(ctx context.Context, today time.Time, includeOverdue bool) ([]models.RecurringTemplate, error) {
	if s.findFn != nil {
		return s.findFn(ctx, today, includeOverdue)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.due != nil {
		out := make([]models.RecurringTemplate, len(s.due))
		copy(out, s.due)
		return out, nil
	}
	var out []models.RecurringTemplate
	for _, t := range s.templates {
		if !t.IsActive || t.StartDate.After(today) {
			continue
		}
		if t.NextGenerate.Equal(today) || (includeOverdue && t.NextGenerate.Before(today)) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateTemplate(ctx context.Context, id string, update services.TemplateUpdate) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, update)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return errors.New("template not found")
	}
	s.updates++
	t.NextGenerate = update.NextGenerate
	if update.LastGenerated != nil {
		d := *update.LastGenerated
		t.LastGenerated = &d
	}
	return nil
}

func (s *fakeStore) HasSuccessfulGeneration(ctx context.Context, id string, date time.Time) (bool, error) {
	if s.hasFn != nil {
		return s.hasFn(ctx, id, date)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.RecurringTemplateID != nil && *e.RecurringTemplateID == id && e.GenerationDate.Equal(date) && e.Status == models.GenerationStatusSuccess {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) AppendEntry(ctx context.Context, entry *models.RecurringGenerationLog) error {
	if s.appendFn != nil {
		return s.appendFn(ctx, entry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *fakeStore) Claim(ctx context.Context, id string, date time.Time, runID string, _ time.Duration) (bool, error) {
	if s.claimFn != nil {
		return s.claimFn(ctx, id, date, runID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := claimKey(id, date)
	if _, held := s.claims[key]; held {
		return false, nil
	}
	s.claims[key] = runID
	return true, nil
}

func (s *fakeStore) Release(ctx context.Context, id string, date time.Time, runID string) error {
	if s.releaseFn != nil {
		return s.releaseFn(ctx, id, date, runID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := claimKey(id, date)
	if s.claims[key] == runID {
		delete(s.claims, key)
	}
	return nil
}

func (s *fakeStore) CreateTransaction(ctx context.Context, in services.NewTransaction) (*models.Transaction, error) {
	if s.createTxFn != nil {
		return s.createTxFn(ctx, in)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := models.Transaction{
		UserID:              in.UserID,
		Type:                in.Type,
		Category:            in.Category,
		Amount:              in.Amount,
		Currency:            in.Currency,
		Note:                in.Note,
		Date:                in.Date,
		RecurringTemplateID: in.RecurringTemplateID,
	}
	tx.ID = "tx-" + in.Date.Format(recurrence.DateLayout) + "-" + *in.RecurringTemplateID
	s.transactions = append(s.transactions, tx)
	return &tx, nil
}

func (s *fakeStore) FindGeneratedTransaction(ctx context.Context, id string, date time.Time) (*models.Transaction, error) {
	if s.findTxFn != nil {
		return s.findTxFn(ctx, id, date)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		tx := s.transactions[i]
		if tx.RecurringTemplateID != nil && *tx.RecurringTemplateID == id && tx.Date.Equal(date) {
			return &tx, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) entriesFor(id string) []models.RecurringGenerationLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RecurringGenerationLog
	for _, e := range s.entries {
		if e.RecurringTemplateID != nil && *e.RecurringTemplateID == id {
			out = append(out, e)
		}
	}
	return out
}

var (
	_ TemplateStore      = (*fakeStore)(nil)
	_ AuditLog           = (*fakeStore)(nil)
	_ ClaimStore         = (*fakeStore)(nil)
	_ TransactionCreator = (*fakeStore)(nil)
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dailyTemplate(id string, next time.Time) *models.RecurringTemplate {
	t := &models.RecurringTemplate{
		UserID:          "user-1",
		Name:            "Commute",
		Amount:          decimal.RequireFromString("2.75"),
		Category:        "transport",
		Currency:        "USD",
		FrequencyKind:   recurrence.KindDaily,
		FrequencyConfig: models.FrequencyConfig{Config: recurrence.DailyConfig{}},
		StartDate:       next,
		IsActive:        true,
		NextGenerate:    next,
	}
	t.ID = id
	return t
}
