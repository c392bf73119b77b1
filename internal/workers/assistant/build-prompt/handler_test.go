// internal/workers/assistant/build-prompt/handler_test.go
package buildprompt

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "dealer-assistant/internal/common/errors"
	"dealer-assistant/internal/common/llm"
	"dealer-assistant/internal/common/store"
	"dealer-assistant/internal/common/turnlog"
	"dealer-assistant/internal/models"
	retrieverecords "dealer-assistant/internal/workers/assistant/retrieve-records"
)

// ==========================
// Test Logger Implementation
// ==========================

type TestLogger struct {
	t      *testing.T
	fields map[string]interface{}
}

func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{
		t:      t,
		fields: make(map[string]interface{}),
	}
}

func (l *TestLogger) Debug(msg string, fields map[string]interface{}) {
	l.t.Logf("DEBUG: %s %v", msg, l.mergeFields(fields))
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, l.mergeFields(fields))
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v", msg, l.mergeFields(fields))
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, l.mergeFields(fields))
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	return &TestLogger{t: l.t, fields: l.mergeFields(fields)}
}

func (l *TestLogger) mergeFields(fields map[string]interface{}) map[string]interface{} {
	all := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		all[k] = v
	}
	for k, v := range fields {
		all[k] = v
	}
	return all
}

// BenchmarkLogger is a minimal logger for benchmarks
type BenchmarkLogger struct{}

func (b *BenchmarkLogger) Debug(msg string, fields map[string]interface{}) {}
func (b *BenchmarkLogger) Info(msg string, fields map[string]interface{})  {}
func (b *BenchmarkLogger) Warn(msg string, fields map[string]interface{})  {}
func (b *BenchmarkLogger) Error(msg string, fields map[string]interface{}) {}
func (b *BenchmarkLogger) With(fields map[string]interface{}) Logger       { return b }

// ==========================
// Test Doubles
// ==========================

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Complete(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

// blockingGateway waits for the context to finish.
type blockingGateway struct{}

func (blockingGateway) Complete(ctx context.Context, system, user string) (string, error) {
	<-ctx.Done()
	return "", fmt.Errorf("%w: %v", llm.ErrTimeout, ctx.Err())
}

// echoGateway returns the user message it received.
type echoGateway struct{}

func (echoGateway) Complete(_ context.Context, _, user string) (string, error) {
	return "echo: " + user, nil
}

type failingTurnLog struct {
	turnlog.MemoryLog
}

func (f *failingTurnLog) Append(context.Context, models.TurnLogEntry) error {
	return errors.New("disk full")
}

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2024, 3, 5, 14, 30, 0, 0, time.Local)

func fixedClock() time.Time { return testNow }

func createTestConfig() *Config {
	return &Config{
		SystemInstruction: DefaultSystemInstruction,
		FallbackMessage:   DefaultFallbackMessage,
		Timeout:           2 * time.Second,
		CacheSize:         16,
	}
}

func createTestStore() *store.Store {
	today := "2024-03-05"
	yesterday := "2024-03-04"
	return store.New([]models.Lead{
		{Name: "Ana", LeadSource: "Walk-in", CarInterest: "BMW X5", Timestamp: today + "T09:00:00"},
		{Name: "Ben", LeadSource: "Phone Call", CarInterest: "Toyota Camry", Timestamp: today + "T10:00:00"},
		{Name: "Cy", LeadSource: "WALK-IN", CarInterest: "Honda Civic", Timestamp: today + "T11:00:00"},
		{Name: "Dee", LeadSource: "Web Form", CarInterest: "bmw i4", Timestamp: yesterday + "T12:00:00"},
		{Name: "Eve", LeadSource: "Walk-in referral", CarInterest: "Kia Niro", Timestamp: yesterday + "T13:00:00"},
	}, []models.Inquiry{
		{Name: "Gus", Timestamp: today + "T08:00:00", Fields: models.Record{{Key: "vehicle", Value: "Ford F-150"}}},
	})
}

func newTestHandler(t *testing.T, gateway llm.Gateway, turns turnlog.Log) *Handler {
	return NewHandler(createTestConfig(), createTestStore(), gateway, turns, NewTestLogger(t)).
		WithClock(fixedClock)
}

var entryPattern = regexp.MustCompile(`(?m)^\d+\. Name: `)

func countEntries(text string) int {
	return len(entryPattern.FindAllString(text, -1))
}

// ==========================
// Prompt Tests
// ==========================

func TestBuildPrompt_TodayLeadsCount(t *testing.T) {
	h := newTestHandler(t, echoGateway{}, turnlog.NewMemoryLog())

	p := h.BuildPrompt("how many leads today")

	assert.Equal(t, models.DataTypeLeads, p.Intent.DataType)
	assert.Equal(t, models.DateFilterToday, p.Intent.DateFilter)
	assert.Equal(t, models.QueryTypeCount, p.Intent.LastQueryType)
	assert.Equal(t, retrieverecords.KindTodayLeads, p.Retrieval)
	assert.Equal(t, 3, countEntries(p.Context))
	assert.Equal(t, "how many leads today\n\n"+p.Context, p.User)
	assert.Equal(t, DefaultSystemInstruction, p.System)
}

func TestBuildPrompt_BrandLeads(t *testing.T) {
	h := newTestHandler(t, echoGateway{}, turnlog.NewMemoryLog())

	p := h.BuildPrompt("show me BMW leads")

	assert.Equal(t, retrieverecords.KindBrandLeads, p.Retrieval)
	assert.True(t, strings.HasPrefix(p.Context, "Bmw Leads: 2\n"))
	assert.Equal(t, 2, countEntries(p.Context))
}

func TestBuildPrompt_SourceLeadsExactMatch(t *testing.T) {
	h := newTestHandler(t, echoGateway{}, turnlog.NewMemoryLog())

	p := h.BuildPrompt("walk-in leads")

	assert.Equal(t, retrieverecords.KindSourceLeads, p.Retrieval)
	assert.Equal(t, 2, countEntries(p.Context))
	assert.Contains(t, p.Context, "Name: Ana")
	assert.Contains(t, p.Context, "Name: Cy")
	assert.NotContains(t, p.Context, "Name: Eve")
}

func TestBuildPrompt_NoIntentLeavesTextUnchanged(t *testing.T) {
	h := newTestHandler(t, echoGateway{}, turnlog.NewMemoryLog())

	p := h.BuildPrompt("tell me about the weather")

	assert.Equal(t, models.NewQueryIntent(), p.Intent)
	assert.Equal(t, retrieverecords.KindEmpty, p.Retrieval)
	assert.Equal(t, "tell me about the weather", p.User)
	assert.Empty(t, p.Context)
}

func TestBuildPrompt_DatePrecedenceOverBrand(t *testing.T) {
	h := newTestHandler(t, echoGateway{}, turnlog.NewMemoryLog())

	p := h.BuildPrompt("show today's BMW leads")

	assert.Equal(t, models.BrandFocus("bmw"), p.Intent.LeadTypeFocus)
	assert.Equal(t, retrieverecords.KindTodayLeads, p.Retrieval)
}

func TestBuildPrompt_EmptyStore(t *testing.T) {
	h := NewHandler(createTestConfig(), store.Empty(), echoGateway{}, turnlog.NewMemoryLog(), NewTestLogger(t)).
		WithClock(fixedClock)

	p := h.BuildPrompt("how many leads today")

	assert.Contains(t, p.Context, "No leads found for today.")
	assert.NotEqual(t, "how many leads today", p.User)
}

// ==========================
// Cache Tests
// ==========================

func TestBuildPrompt_CacheKeyedByDate(t *testing.T) {
	now := testNow
	h := newTestHandler(t, echoGateway{}, turnlog.NewMemoryLog()).
		WithClock(func() time.Time { return now })

	first := h.BuildPrompt("how many leads today")
	again := h.BuildPrompt("count leads for today")
	assert.Equal(t, first.Context, again.Context)
	assert.Equal(t, 1, h.cache.Len())

	now = now.Add(24 * time.Hour)
	nextDay := h.BuildPrompt("how many leads today")
	assert.Contains(t, nextDay.Context, "No leads found for today.")
	assert.Equal(t, 2, h.cache.Len())
}

func TestBuildPrompt_CacheDisabled(t *testing.T) {
	cfg := createTestConfig()
	cfg.CacheSize = 0
	h := NewHandler(cfg, createTestStore(), echoGateway{}, turnlog.NewMemoryLog(), NewTestLogger(t)).
		WithClock(fixedClock)

	assert.Nil(t, h.cache)
	p := h.BuildPrompt("show me BMW leads")
	assert.Equal(t, 2, countEntries(p.Context))
}

// ==========================
// Turn Tests
// ==========================

func TestExecute_Success(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Complete", mock.Anything, DefaultSystemInstruction, mock.MatchedBy(func(user string) bool {
		return strings.HasPrefix(user, "show me BMW leads\n\nBmw Leads: 2")
	})).Return("You have two BMW leads.", nil).Once()

	turns := turnlog.NewMemoryLog()
	h := newTestHandler(t, gw, turns)

	out := h.Execute(context.Background(), &Input{Message: "show me BMW leads"})

	assert.Equal(t, "You have two BMW leads.", out.Reply)
	assert.False(t, out.Fallback)
	assert.Empty(t, out.ErrorCode)

	entries, err := turns.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "show me BMW leads", entries[0].UserText)
	assert.Equal(t, "You have two BMW leads.", entries[0].AssistantText)
	gw.AssertExpectations(t)
}

func TestExecute_GatewayFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected apperrors.ErrorCode
	}{
		{"transport", fmt.Errorf("%w: connection refused", llm.ErrTransport), apperrors.ErrCodeLLMTransportFailed},
		{"rate limited", fmt.Errorf("%w: status 429", llm.ErrRateLimited), apperrors.ErrCodeLLMRateLimited},
		{"timeout", fmt.Errorf("%w: deadline", llm.ErrTimeout), apperrors.ErrCodeLLMTimeout},
		{"empty response", llm.ErrEmptyResponse, apperrors.ErrCodeLLMEmptyResponse},
		{"unknown", errors.New("boom"), apperrors.ErrCodeLLMTransportFailed},
		{"raw deadline", context.DeadlineExceeded, apperrors.ErrCodeLLMTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := new(MockGateway)
			gw.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", tt.err).Once()

			turns := turnlog.NewMemoryLog()
			h := newTestHandler(t, gw, turns)

			out := h.Execute(context.Background(), &Input{Message: "how many leads today"})

			assert.Equal(t, DefaultFallbackMessage, out.Reply)
			assert.True(t, out.Fallback)
			assert.Equal(t, string(tt.expected), out.ErrorCode)

			n, _ := turns.Len(context.Background())
			assert.Zero(t, n, "failed turns must not be logged")
			gw.AssertNumberOfCalls(t, "Complete", 1)
		})
	}
}

func TestExecute_Timeout(t *testing.T) {
	cfg := createTestConfig()
	cfg.Timeout = 30 * time.Millisecond
	turns := turnlog.NewMemoryLog()
	h := NewHandler(cfg, createTestStore(), blockingGateway{}, turns, NewTestLogger(t)).WithClock(fixedClock)

	out := h.Execute(context.Background(), &Input{Message: "show me BMW leads"})

	assert.True(t, out.Fallback)
	assert.Equal(t, string(apperrors.ErrCodeLLMTimeout), out.ErrorCode)
	n, _ := turns.Len(context.Background())
	assert.Zero(t, n)
}

func TestExecute_CallerCancellation(t *testing.T) {
	turns := turnlog.NewMemoryLog()
	h := newTestHandler(t, blockingGateway{}, turns)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reply := h.Respond(ctx, "show me BMW leads")

	assert.Equal(t, DefaultFallbackMessage, reply)
	n, _ := turns.Len(context.Background())
	assert.Zero(t, n)
}

func TestExecute_TurnLogFailureKeepsReply(t *testing.T) {
	h := newTestHandler(t, echoGateway{}, &failingTurnLog{})

	out := h.Execute(context.Background(), &Input{Message: "tell me about the weather"})

	assert.False(t, out.Fallback)
	assert.Equal(t, "echo: tell me about the weather", out.Reply)
}

func TestExecute_ConcurrentTurnsKeepOwnIntent(t *testing.T) {
	turns := turnlog.NewMemoryLog()
	h := newTestHandler(t, echoGateway{}, turns)

	messages := []string{
		"how many leads today",
		"show me BMW leads",
		"walk-in leads",
		"tell me about the weather",
		"any inquiries today",
	}
	expected := make(map[string]string, len(messages))
	for _, m := range messages {
		expected[m] = "echo: " + h.BuildPrompt(m).User
	}

	var wg sync.WaitGroup
	errs := make(chan string, 100)
	for i := 0; i < 20; i++ {
		for _, m := range messages {
			wg.Add(1)
			go func(msg string) {
				defer wg.Done()
				if got := h.Respond(context.Background(), msg); got != expected[msg] {
					errs <- msg
				}
			}(m)
		}
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Errorf("reply for %q was built from another turn's context", msg)
	}
	n, _ := turns.Len(context.Background())
	assert.Equal(t, 20*len(messages), n)
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkBuildPrompt(b *testing.B) {
	cfg := createTestConfig()
	cfg.CacheSize = 0
	h := NewHandler(cfg, createTestStore(), echoGateway{}, turnlog.NewMemoryLog(), &BenchmarkLogger{}).
		WithClock(fixedClock)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.BuildPrompt("how many leads today")
	}
}
