package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"stocksense-api/internal/api/dto"
	"stocksense-api/internal/entity"
	"stocksense-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAnalysisRepo struct {
	records   map[string]*entity.StockAnalysis
	order     []string
	createErr error
	updateErr error
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{records: map[string]*entity.StockAnalysis{}}
}

func (r *fakeAnalysisRepo) Create(_ context.Context, analysis *entity.StockAnalysis) error {
	if r.createErr != nil {
		return r.createErr
	}
	if analysis.ID == "" {
		analysis.ID = fmt.Sprintf("analysis-%d", len(r.records)+1)
	}
	analysis.CreatedAt = time.Now()
	copied := *analysis
	r.records[analysis.ID] = &copied
	r.order = append(r.order, analysis.ID)
	return nil
}

func (r *fakeAnalysisRepo) FindByID(_ context.Context, id string) (*entity.StockAnalysis, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakeAnalysisRepo) FindByIDForUser(_ context.Context, id, userID string) (*entity.StockAnalysis, error) {
	record, ok := r.records[id]
	if !ok || record.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakeAnalysisRepo) FindRecentByUser(_ context.Context, userID string, limit int) ([]entity.StockAnalysis, error) {
	var out []entity.StockAnalysis
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		if record := r.records[r.order[i]]; record.UserID == userID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (r *fakeAnalysisRepo) Update(_ context.Context, analysis *entity.StockAnalysis) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	copied := *analysis
	r.records[analysis.ID] = &copied
	return nil
}

func (r *fakeAnalysisRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, record := range r.records {
		if record.CreatedAt.Before(cutoff) {
			delete(r.records, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeProfileRepo struct {
	profiles map[string]*entity.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*entity.UserProfile{}}
}

func (r *fakeProfileRepo) FindByUserID(_ context.Context, userID string) (*entity.UserProfile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *entity.UserProfile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

type fakeNotifier struct {
	notifyErr  error
	status     entity.AnalysisStatus
	needsURL   bool
	calledWith []*dto.AnalysisJob
	calledURLs []string
}

func (n *fakeNotifier) Notify(_ context.Context, webhookURL string, job *dto.AnalysisJob) error {
	n.calledWith = append(n.calledWith, job)
	n.calledURLs = append(n.calledURLs, webhookURL)
	return n.notifyErr
}

func (n *fakeNotifier) GetType() string                      { return "fake" }
func (n *fakeNotifier) InitialStatus() entity.AnalysisStatus { return n.status }
func (n *fakeNotifier) RequiresWebhook() bool                { return n.needsURL }

type fakeTelegram struct {
	mu       sync.Mutex
	panicMsg string
	chatIDs  []int64
	messages []string
}

func (t *fakeTelegram) SendMessage(chatID int64, text string) error {
	t.mu.Lock()
	t.chatIDs = append(t.chatIDs, chatID)
	t.messages = append(t.messages, text)
	t.mu.Unlock()
	if t.panicMsg != "" {
		panic(t.panicMsg)
	}
	return nil
}

func (t *fakeTelegram) sent() ([]int64, []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int64(nil), t.chatIDs...), append([]string(nil), t.messages...)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func newTestService(t *testing.T, repo *fakeAnalysisRepo, profiles *fakeProfileRepo, notifier *fakeNotifier, tg *fakeTelegram) AnalysisService {
	t.Helper()
	if tg == nil {
		return NewAnalysisService(repo, profiles, notifier, nil, 10, testLogger(t))
	}
	return NewAnalysisService(repo, profiles, notifier, tg, 10, testLogger(t))
}

func webhookProfile(userID string) *entity.UserProfile {
	return &entity.UserProfile{UserID: userID, WebhookURL: "https://n8n.example.com/hook"}
}

func TestSubmit_Unauthenticated(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := newTestService(t, repo, newFakeProfileRepo(), &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}, nil)

	_, err := svc.Submit(context.Background(), "AAPL chart", "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Empty(t, repo.records)
}

func TestSubmit_MissingSymbol(t *testing.T) {
	repo := newFakeAnalysisRepo()
	profiles := newFakeProfileRepo()
	profiles.profiles["user-1"] = webhookProfile("user-1")
	svc := newTestService(t, repo, profiles, &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}, nil)

	_, err := svc.Submit(context.Background(), "show me a chart analysis", "user-1")
	assert.ErrorIs(t, err, ErrMissingSymbol)
	assert.Empty(t, repo.records, "no record may be created when parsing fails")
}

func TestSubmit_NoWebhookConfigured(t *testing.T) {
	repo := newFakeAnalysisRepo()
	profiles := newFakeProfileRepo()
	svc := newTestService(t, repo, profiles, &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}, nil)

	// No profile at all.
	_, err := svc.Submit(context.Background(), "AAPL chart", "user-1")
	assert.ErrorIs(t, err, ErrNoWebhookConfigured)
	assert.Empty(t, repo.records)

	// Profile exists but the URL is empty.
	profiles.profiles["user-1"] = &entity.UserProfile{UserID: "user-1"}
	_, err = svc.Submit(context.Background(), "AAPL chart", "user-1")
	assert.ErrorIs(t, err, ErrNoWebhookConfigured)
	assert.Empty(t, repo.records, "no dangling record when the destination is missing")
}

func TestSubmit_Success(t *testing.T) {
	repo := newFakeAnalysisRepo()
	profiles := newFakeProfileRepo()
	profiles.profiles["user-1"] = webhookProfile("user-1")
	notifier := &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}
	svc := newTestService(t, repo, profiles, notifier, nil)

	resp, err := svc.Submit(context.Background(), "Tesla chart analysis", "user-1")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.AnalysisID)
	assert.Equal(t, "Analysis started successfully", resp.Message)

	record := repo.records[resp.AnalysisID]
	require.NotNil(t, record)
	assert.Equal(t, "TSLA", record.Symbol)
	assert.Equal(t, entity.AnalysisTypeChart, record.AnalysisType)
	assert.Equal(t, "Tesla chart analysis", record.CommandText)
	assert.Equal(t, entity.AnalysisStatusProcessing, record.Status)
	assert.Nil(t, record.CompletedAt)

	require.Len(t, notifier.calledWith, 1)
	job := notifier.calledWith[0]
	assert.Equal(t, resp.AnalysisID, job.AnalysisID)
	assert.Equal(t, "TSLA", job.Symbol)
	assert.Equal(t, "chart", job.AnalysisType)
	assert.Equal(t, "Tesla chart analysis", job.CommandText)
	assert.Equal(t, "user-1", job.UserID)
	assert.False(t, job.Timestamp.IsZero())
	assert.Equal(t, "https://n8n.example.com/hook", notifier.calledURLs[0])
}

func TestSubmit_NotifyFailureMarksRecordFailed(t *testing.T) {
	repo := newFakeAnalysisRepo()
	profiles := newFakeProfileRepo()
	profiles.profiles["user-1"] = webhookProfile("user-1")
	notifier := &fakeNotifier{
		status:    entity.AnalysisStatusProcessing,
		needsURL:  true,
		notifyErr: errors.New("Webhook failed: 502"),
	}
	svc := newTestService(t, repo, profiles, notifier, nil)

	_, err := svc.Submit(context.Background(), "AAPL chart", "user-1")
	assert.ErrorIs(t, err, ErrWebhookDelivery)

	// Exactly one record exists for the attempt and it is terminal.
	require.Len(t, repo.records, 1)
	for _, record := range repo.records {
		assert.Equal(t, entity.AnalysisStatusFailed, record.Status)
		assert.Equal(t, "Webhook failed: 502", record.ErrorMessage)
		require.NotNil(t, record.CompletedAt)
	}
}

func TestSubmit_QueueStrategySkipsWebhookLookup(t *testing.T) {
	repo := newFakeAnalysisRepo()
	notifier := &fakeNotifier{status: entity.AnalysisStatusPending, needsURL: false}
	svc := newTestService(t, repo, newFakeProfileRepo(), notifier, nil)

	resp, err := svc.Submit(context.Background(), "NVDA news sentiment", "user-1")
	require.NoError(t, err)

	record := repo.records[resp.AnalysisID]
	require.NotNil(t, record)
	assert.Equal(t, entity.AnalysisStatusPending, record.Status)
	assert.Empty(t, notifier.calledURLs[0])
}

func TestApplyCallback_Completed(t *testing.T) {
	repo := newFakeAnalysisRepo()
	profiles := newFakeProfileRepo()
	svc := newTestService(t, repo, profiles, &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}, nil)

	record := &entity.StockAnalysis{
		UserID:       "user-1",
		Symbol:       "TSLA",
		AnalysisType: entity.AnalysisTypeChart,
		CommandText:  "Tesla chart analysis",
		Status:       entity.AnalysisStatusProcessing,
	}
	require.NoError(t, repo.Create(context.Background(), record))

	err := svc.ApplyCallback(context.Background(), &dto.CallbackRequest{
		AnalysisID: record.ID,
		Status:     "completed",
		ResultData: []byte(`{"analysis":"bullish momentum on the daily chart"}`),
	})
	require.NoError(t, err)

	updated := repo.records[record.ID]
	assert.Equal(t, entity.AnalysisStatusCompleted, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
	assert.NotEmpty(t, updated.ResultData)
	assert.Empty(t, updated.ErrorMessage)
}

func TestApplyCallback_Failed(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := newTestService(t, repo, newFakeProfileRepo(), &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}, nil)

	record := &entity.StockAnalysis{
		UserID: "user-1",
		Symbol: "TSLA",
		Status: entity.AnalysisStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), record))

	err := svc.ApplyCallback(context.Background(), &dto.CallbackRequest{
		AnalysisID:   record.ID,
		Status:       "failed",
		ErrorMessage: "upstream model unavailable",
	})
	require.NoError(t, err)

	updated := repo.records[record.ID]
	assert.Equal(t, entity.AnalysisStatusFailed, updated.Status)
	assert.Equal(t, "upstream model unavailable", updated.ErrorMessage)
	assert.Empty(t, updated.ResultData)
	assert.NotNil(t, updated.CompletedAt)
}

func TestApplyCallback_UnknownRecord(t *testing.T) {
	svc := newTestService(t, newFakeAnalysisRepo(), newFakeProfileRepo(), &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}, nil)

	err := svc.ApplyCallback(context.Background(), &dto.CallbackRequest{AnalysisID: "missing", Status: "completed"})
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}

func TestApplyCallback_TerminalRecordIsImmutable(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := newTestService(t, repo, newFakeProfileRepo(), &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}, nil)

	completedAt := time.Now().Add(-time.Hour)
	record := &entity.StockAnalysis{
		UserID:      "user-1",
		Symbol:      "TSLA",
		Status:      entity.AnalysisStatusCompleted,
		ResultData:  []byte(`{"analysis":"done"}`),
		CompletedAt: &completedAt,
	}
	require.NoError(t, repo.Create(context.Background(), record))

	err := svc.ApplyCallback(context.Background(), &dto.CallbackRequest{
		AnalysisID:   record.ID,
		Status:       "failed",
		ErrorMessage: "late failure",
	})
	assert.ErrorIs(t, err, ErrAnalysisFinalized)

	unchanged := repo.records[record.ID]
	assert.Equal(t, entity.AnalysisStatusCompleted, unchanged.Status)
	assert.Empty(t, unchanged.ErrorMessage)
}

func TestApplyCallback_NonTerminalStatusRejected(t *testing.T) {
	svc := newTestService(t, newFakeAnalysisRepo(), newFakeProfileRepo(), &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}, nil)

	err := svc.ApplyCallback(context.Background(), &dto.CallbackRequest{AnalysisID: "x", Status: "processing"})
	assert.ErrorIs(t, err, ErrInvalidCallbackStatus)
}

func TestApplyCallback_SendsTelegramNotification(t *testing.T) {
	repo := newFakeAnalysisRepo()
	profiles := newFakeProfileRepo()
	profiles.profiles["user-1"] = &entity.UserProfile{UserID: "user-1", WebhookURL: "https://x", TelegramChatID: 42}
	tg := &fakeTelegram{}
	svc := NewAnalysisService(repo, profiles, &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}, tg, 10, testLogger(t))

	record := &entity.StockAnalysis{UserID: "user-1", Symbol: "TSLA", Status: entity.AnalysisStatusProcessing}
	require.NoError(t, repo.Create(context.Background(), record))

	err := svc.ApplyCallback(context.Background(), &dto.CallbackRequest{
		AnalysisID: record.ID,
		Status:     "completed",
		ResultData: []byte(`{"analysis":"bullish setup"}`),
	})
	require.NoError(t, err)

	// The notification runs on its own goroutine.
	require.Eventually(t, func() bool {
		chatIDs, _ := tg.sent()
		return len(chatIDs) == 1
	}, time.Second, 10*time.Millisecond)

	chatIDs, messages := tg.sent()
	assert.Equal(t, int64(42), chatIDs[0])
	assert.Contains(t, messages[0], "TSLA")
}

func TestApplyCallback_NotificationPanicIsContained(t *testing.T) {
	repo := newFakeAnalysisRepo()
	profiles := newFakeProfileRepo()
	profiles.profiles["user-1"] = &entity.UserProfile{UserID: "user-1", WebhookURL: "https://x", TelegramChatID: 42}
	tg := &fakeTelegram{panicMsg: "telegram send blew up"}
	svc := NewAnalysisService(repo, profiles, &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}, tg, 10, testLogger(t))

	record := &entity.StockAnalysis{UserID: "user-1", Symbol: "TSLA", Status: entity.AnalysisStatusProcessing}
	require.NoError(t, repo.Create(context.Background(), record))

	err := svc.ApplyCallback(context.Background(), &dto.CallbackRequest{
		AnalysisID: record.ID,
		Status:     "completed",
		ResultData: []byte(`{"analysis":"done"}`),
	})
	require.NoError(t, err)

	// A panicking send is recovered on its goroutine; an escaped panic would
	// kill the test process.
	require.Eventually(t, func() bool {
		chatIDs, _ := tg.sent()
		return len(chatIDs) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, entity.AnalysisStatusCompleted, repo.records[record.ID].Status)
}

func TestList_EnrichesCompletedRecords(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := newTestService(t, repo, newFakeProfileRepo(), &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}, nil)

	completedAt := time.Now()
	completed := &entity.StockAnalysis{
		UserID:       "user-1",
		Symbol:       "TSLA",
		AnalysisType: entity.AnalysisTypeFundamental,
		Status:       entity.AnalysisStatusCompleted,
		ResultData:   []byte(`{"analysis":"KGV von 24. Solides Wachstum, bullish outlook.\nMore detail below."}`),
		CompletedAt:  &completedAt,
	}
	failed := &entity.StockAnalysis{
		UserID:       "user-1",
		Symbol:       "AAPL",
		AnalysisType: entity.AnalysisTypeChart,
		Status:       entity.AnalysisStatusFailed,
		ErrorMessage: "Webhook failed: 502",
		CompletedAt:  &completedAt,
	}
	require.NoError(t, repo.Create(context.Background(), completed))
	require.NoError(t, repo.Create(context.Background(), failed))

	results, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Newest first: the failed record was created last.
	assert.Equal(t, "AAPL", results[0].Symbol)
	assert.Equal(t, "failed", results[0].Status)
	assert.Equal(t, "Webhook failed: 502", results[0].ErrorMessage)
	assert.Nil(t, results[0].Summary)

	require.NotNil(t, results[1].Summary)
	assert.Equal(t, "KGV von 24. Solides Wachstum, bullish outlook.", results[1].Summary.Summary)
	assert.NotEmpty(t, results[1].Summary.Insights)
	assert.NotEmpty(t, results[1].Summary.Metrics)
}

func TestGet_ScopedToOwner(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := newTestService(t, repo, newFakeProfileRepo(), &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}, nil)

	record := &entity.StockAnalysis{UserID: "user-1", Symbol: "TSLA", Status: entity.AnalysisStatusProcessing}
	require.NoError(t, repo.Create(context.Background(), record))

	got, err := svc.Get(context.Background(), record.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	_, err = svc.Get(context.Background(), record.ID, "someone-else")
	assert.ErrorIs(t, err, ErrAnalysisNotFound)
}

func TestSubmitThenCallback_EndToEnd(t *testing.T) {
	repo := newFakeAnalysisRepo()
	profiles := newFakeProfileRepo()
	profiles.profiles["user-1"] = webhookProfile("user-1")
	svc := newTestService(t, repo, profiles, &fakeNotifier{status: entity.AnalysisStatusProcessing, needsURL: true}, nil)

	resp, err := svc.Submit(context.Background(), "Tesla chart analysis", "user-1")
	require.NoError(t, err)

	err = svc.ApplyCallback(context.Background(), &dto.CallbackRequest{
		AnalysisID: resp.AnalysisID,
		Status:     "completed",
		ResultData: []byte(`{"analysis":"Strong bullish continuation pattern forming."}`),
	})
	require.NoError(t, err)

	results, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "TSLA", results[0].Symbol)
	assert.Equal(t, "chart", results[0].AnalysisType)
	assert.Equal(t, "completed", results[0].Status)
	require.NotNil(t, results[0].Summary)
	assert.NotEmpty(t, results[0].Summary.Summary)
}
