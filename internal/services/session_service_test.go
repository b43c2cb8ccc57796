package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/quality-service/internal/cache"
	"github.com/SAP-F-2025/quality-service/internal/events"
	"github.com/SAP-F-2025/quality-service/internal/metrics"
	"github.com/SAP-F-2025/quality-service/internal/models"
	"github.com/SAP-F-2025/quality-service/internal/quality"
	"github.com/SAP-F-2025/quality-service/internal/repositories"
	"github.com/SAP-F-2025/quality-service/internal/validator"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

const goodFeedback = "Love it, but the checkout button crashed after I clicked pay at step 2."

// MockCampaignRepository is a mock implementation of CampaignRepository
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Campaign), args.Error(1)
}

// memoryCheckpoints keeps checkpoints in a map, like Redis would
type memoryCheckpoints struct {
	mu      sync.Mutex
	stored  map[string]models.SessionCheckpoint
	loadErr error
	saveErr error

	// when set, the next Save closes saveEntered and waits for saveRelease
	saveEntered chan struct{}
	saveRelease chan struct{}
}

func newMemoryCheckpoints() *memoryCheckpoints {
	return &memoryCheckpoints{stored: make(map[string]models.SessionCheckpoint)}
}

func (m *memoryCheckpoints) Save(ctx context.Context, checkpoint *models.SessionCheckpoint) error {
	m.mu.Lock()
	entered, release := m.saveEntered, m.saveRelease
	m.saveEntered, m.saveRelease = nil, nil
	m.mu.Unlock()
	if release != nil {
		close(entered)
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored[checkpoint.SessionID] = *checkpoint
	return nil
}

func (m *memoryCheckpoints) Load(ctx context.Context, sessionID string) (*models.SessionCheckpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	checkpoint, ok := m.stored[sessionID]
	if !ok {
		return nil, cache.ErrCheckpointNotFound
	}
	return &checkpoint, nil
}

func (m *memoryCheckpoints) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stored, sessionID)
	return nil
}

// holdNextSave makes the next Save block until release is closed
func (m *memoryCheckpoints) holdNextSave() (entered, release chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveEntered = make(chan struct{})
	m.saveRelease = make(chan struct{})
	return m.saveEntered, m.saveRelease
}

func (m *memoryCheckpoints) get(sessionID string) (models.SessionCheckpoint, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	checkpoint, ok := m.stored[sessionID]
	return checkpoint, ok
}

type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

type sessionFixture struct {
	service     *sessionService
	campaigns   *MockCampaignRepository
	checkpoints *memoryCheckpoints
	publisher   *events.MockEventPublisher
	clock       *clock.Mock
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		campaigns:   new(MockCampaignRepository),
		checkpoints: newMemoryCheckpoints(),
		publisher:   events.NewMockEventPublisher(testLogger()),
		clock:       clock.NewMock(),
	}
	f.service = f.build()
	t.Cleanup(f.service.Close)
	return f
}

func (f *sessionFixture) build() *sessionService {
	return NewSessionService(
		SessionServiceConfig{
			Quality:     quality.DefaultConfig(),
			IdleTimeout: 10 * time.Minute,
			Clock:       f.clock,
			Rand:        fixedRand(0),
		},
		f.campaigns,
		f.checkpoints,
		f.publisher,
		metrics.New(),
		validator.New(),
		testLogger(),
	).(*sessionService)
}

func surveyCampaign() *models.Campaign {
	return &models.Campaign{
		ID:                   "camp-1",
		Title:                "Checkout feedback",
		MinimumActiveSeconds: 30,
		Questions: []models.CampaignQuestion{
			{ID: "rating", CampaignID: "camp-1", Position: 0, Kind: models.KindScale, Text: "Rate the checkout",
				Options: datatypes.JSON(`["1","2","3","4","5"]`)},
			{ID: "feedback", CampaignID: "camp-1", Position: 1, Kind: models.KindText, Text: "What happened?"},
			{ID: "platform", CampaignID: "camp-1", Position: 2, Kind: models.KindMultipleChoice, Text: "Which device?",
				Options: datatypes.JSON(`["Phone","Desktop"]`)},
		},
	}
}

func startRequest() *StartSessionRequest {
	return &StartSessionRequest{TaskID: "task-1", CampaignID: "camp-1"}
}

// decoyID finds the injected attention check through the stored checkpoint,
// since the public view hides it.
func (f *sessionFixture) decoyID(t *testing.T, sessionID string) string {
	t.Helper()
	checkpoint, ok := f.checkpoints.get(sessionID)
	require.True(t, ok)
	for _, q := range checkpoint.Questions {
		if q.IsAttentionCheck {
			return q.ID
		}
	}
	t.Fatal("no attention check in session")
	return ""
}

func (f *sessionFixture) goodResponses(t *testing.T, sessionID string) models.ResponseMap {
	responses := models.ResponseMap{
		"rating":   models.NumberValue(4),
		"feedback": models.StringValue(goodFeedback),
		"platform": models.StringValue("Phone"),
	}
	responses[f.decoyID(t, sessionID)] = models.StringValue("Blue")
	return responses
}

func TestSessionService_Start(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.campaigns.On("GetByID", ctx, "camp-1").Return(surveyCampaign(), nil)

	view, err := f.service.Start(ctx, startRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, view.SessionID)
	assert.False(t, view.Resumed)
	assert.Equal(t, quality.HoneypotField, view.HoneypotField)
	require.Len(t, view.Questions, 4)
	assert.Equal(t, "rating", view.Questions[0].ID)
	assert.Equal(t, "platform", view.Questions[3].ID)
	for _, q := range view.Questions {
		assert.Nil(t, q.CorrectAnswer)
		assert.False(t, q.IsAttentionCheck)
	}
	assert.Equal(t, models.TimeGateSnapshot{MinimumRequiredSeconds: 30}, view.Time)

	checkpoint, ok := f.checkpoints.get(view.SessionID)
	require.True(t, ok)
	assert.Equal(t, "task-1", checkpoint.TaskID)
	assert.True(t, checkpoint.Questions[1].IsAttentionCheck)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSessionStarted, published[0].Type)
	assert.Equal(t, 1, f.service.ActiveSessions())
	f.campaigns.AssertExpectations(t)
}

func TestSessionService_SubmitForwardsEnvelope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.campaigns.On("GetByID", ctx, "camp-1").Return(surveyCampaign(), nil)

	view, err := f.service.Start(ctx, startRequest())
	require.NoError(t, err)
	responses := f.goodResponses(t, view.SessionID)
	f.publisher.ClearEvents()

	f.clock.Add(20 * time.Second)
	_, err = f.service.ReportVisibility(ctx, view.SessionID, false)
	require.NoError(t, err)
	f.clock.Add(60 * time.Second)
	_, err = f.service.ReportVisibility(ctx, view.SessionID, true)
	require.NoError(t, err)
	f.clock.Add(15 * time.Second)

	result, err := f.service.Submit(ctx, view.SessionID, &SubmitRequest{Responses: responses})
	require.NoError(t, err)

	assert.True(t, result.Forwarded)
	assert.True(t, result.Result.Passed)
	assert.InDelta(t, 0.9, result.Result.Score, 1e-9)
	assert.Empty(t, result.Result.Flags)
	assert.Equal(t, models.TimeGateSnapshot{
		TotalElapsedSeconds:    95,
		ActiveSeconds:          35,
		MinimumRequiredSeconds: 30,
		Passed:                 true,
	}, result.TimeMetadata)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSubmissionEvaluated, published[0].Type)
	envelope, ok := published[0].Data.(models.SubmissionEnvelope)
	require.True(t, ok)
	assert.Equal(t, "task-1", envelope.TaskID)
	assert.Equal(t, "camp-1", envelope.CampaignID)
	assert.Equal(t, result.Result, envelope.ClientQuality)
	assert.Equal(t, result.TimeMetadata, envelope.TimeMetadata)
	assert.Equal(t, responses, envelope.Responses)

	_, ok = f.checkpoints.get(view.SessionID)
	assert.False(t, ok)
	assert.Equal(t, 0, f.service.ActiveSessions())

	_, err = f.service.Submit(ctx, view.SessionID, &SubmitRequest{Responses: responses})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_SubmitTooFastAndHoneypot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.campaigns.On("GetByID", ctx, "camp-1").Return(surveyCampaign(), nil)

	fast, err := f.service.Start(ctx, startRequest())
	require.NoError(t, err)
	f.clock.Add(10 * time.Second)

	result, err := f.service.Submit(ctx, fast.SessionID, &SubmitRequest{Responses: f.goodResponses(t, fast.SessionID)})
	require.NoError(t, err)
	assert.True(t, result.Result.Passed)
	assert.Equal(t, []string{models.FlagTooFast}, result.Result.Flags)
	assert.InDelta(t, 0.7, result.Result.Score, 1e-9)

	bot, err := f.service.Start(ctx, &StartSessionRequest{TaskID: "task-2", CampaignID: "camp-1"})
	require.NoError(t, err)
	f.clock.Add(time.Minute)

	result, err = f.service.Submit(ctx, bot.SessionID, &SubmitRequest{
		Responses: f.goodResponses(t, bot.SessionID),
		Honeypot:  "http://spam.example",
	})
	require.NoError(t, err)
	assert.False(t, result.Result.Passed)
	assert.Equal(t, models.ReasonBotDetected, result.Result.Reason)
	assert.Equal(t, []string{models.FlagBot}, result.Result.Flags)
}

func TestSessionService_SubmitWithoutResponses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.campaigns.On("GetByID", ctx, "camp-1").Return(surveyCampaign(), nil)

	view, err := f.service.Start(ctx, startRequest())
	require.NoError(t, err)
	f.clock.Add(time.Minute)

	result, err := f.service.Submit(ctx, view.SessionID, &SubmitRequest{})
	require.NoError(t, err)
	assert.False(t, result.Result.Passed)
	assert.Equal(t, models.FlagAttentionFailed, result.Result.Reason)

	envelope := f.publisher.GetPublishedEvents()[1].Data.(models.SubmissionEnvelope)
	assert.NotNil(t, envelope.Responses)
}

func TestSessionService_PublishFailureStillReturnsVerdict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.campaigns.On("GetByID", ctx, "camp-1").Return(surveyCampaign(), nil)

	view, err := f.service.Start(ctx, startRequest())
	require.NoError(t, err)
	f.publisher.Err = errors.New("kafka unavailable")
	f.clock.Add(time.Minute)

	result, err := f.service.Submit(ctx, view.SessionID, &SubmitRequest{Responses: f.goodResponses(t, view.SessionID)})
	require.NoError(t, err)
	assert.False(t, result.Forwarded)
	assert.True(t, result.Result.Passed)
	assert.Equal(t, 0, f.service.ActiveSessions())
}

func TestSessionService_ResumeAfterRestart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.campaigns.On("GetByID", ctx, "camp-1").Return(surveyCampaign(), nil).Once()

	view, err := f.service.Start(ctx, startRequest())
	require.NoError(t, err)
	f.clock.Add(20 * time.Second)
	_, err = f.service.Snapshot(ctx, view.SessionID)
	require.NoError(t, err)

	// Same instance: the live session is returned as is.
	again, err := f.service.Start(ctx, &StartSessionRequest{TaskID: "task-1", CampaignID: "camp-1", SessionID: view.SessionID})
	require.NoError(t, err)
	assert.True(t, again.Resumed)
	assert.Equal(t, 20, again.Time.ActiveSeconds)

	// A fresh instance resumes from the checkpoint.
	f.service.Close()
	restarted := f.build()
	defer restarted.Close()

	resumed, err := restarted.Start(ctx, &StartSessionRequest{TaskID: "task-1", CampaignID: "camp-1", SessionID: view.SessionID})
	require.NoError(t, err)
	assert.True(t, resumed.Resumed)
	assert.Equal(t, view.SessionID, resumed.SessionID)
	assert.Equal(t, view.Questions, resumed.Questions)
	assert.Equal(t, 20, resumed.Time.ActiveSeconds)

	f.clock.Add(10 * time.Second)
	snapshot, err := restarted.Snapshot(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 30, snapshot.ActiveSeconds)
	assert.True(t, snapshot.Passed)

	f.campaigns.AssertExpectations(t)
}

func TestSessionService_ResumeMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.campaigns.On("GetByID", ctx, "camp-1").Return(surveyCampaign(), nil)

	view, err := f.service.Start(ctx, startRequest())
	require.NoError(t, err)

	_, err = f.service.Start(ctx, &StartSessionRequest{TaskID: "task-9", CampaignID: "camp-1", SessionID: view.SessionID})
	assert.ErrorIs(t, err, ErrSessionMismatch)
	assert.True(t, IsConflict(err))

	restarted := f.build()
	defer restarted.Close()
	_, err = restarted.Start(ctx, &StartSessionRequest{TaskID: "task-9", CampaignID: "camp-1", SessionID: view.SessionID})
	assert.ErrorIs(t, err, ErrSessionMismatch)
}

func TestSessionService_UnknownOrBrokenCheckpointStartsFresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.campaigns.On("GetByID", ctx, "camp-1").Return(surveyCampaign(), nil)

	view, err := f.service.Start(ctx, &StartSessionRequest{TaskID: "task-1", CampaignID: "camp-1", SessionID: "stale"})
	require.NoError(t, err)
	assert.False(t, view.Resumed)
	assert.NotEqual(t, "stale", view.SessionID)

	f.checkpoints.loadErr = errors.New("redis: connection refused")
	f.checkpoints.saveErr = errors.New("redis: connection refused")
	view, err = f.service.Start(ctx, &StartSessionRequest{TaskID: "task-2", CampaignID: "camp-1", SessionID: "whatever"})
	require.NoError(t, err)
	assert.False(t, view.Resumed)
}

func TestSessionService_StartErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Start(ctx, &StartSessionRequest{CampaignID: "camp-1"})
	assert.True(t, IsValidation(err))

	f.campaigns.On("GetByID", ctx, "missing").Return(nil, repositories.ErrCampaignNotFound)
	_, err = f.service.Start(ctx, &StartSessionRequest{TaskID: "task-1", CampaignID: "missing"})
	assert.True(t, IsNotFound(err))

	broken := surveyCampaign()
	broken.ID = "broken"
	broken.Questions[2].Options = datatypes.JSON(`["Phone"]`)
	f.campaigns.On("GetByID", ctx, "broken").Return(broken, nil)
	_, err = f.service.Start(ctx, &StartSessionRequest{TaskID: "task-1", CampaignID: "broken"})
	assert.ErrorIs(t, err, ErrCampaignInvalid)
	assert.Contains(t, err.Error(), "must have at least 2 options")

	assert.Equal(t, 0, f.service.ActiveSessions())
}

func TestSessionService_Abandon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.campaigns.On("GetByID", ctx, "camp-1").Return(surveyCampaign(), nil)

	view, err := f.service.Start(ctx, startRequest())
	require.NoError(t, err)
	f.clock.Add(5 * time.Second)

	require.NoError(t, f.service.Abandon(ctx, view.SessionID))
	assert.Equal(t, 0, f.service.ActiveSessions())
	_, ok := f.checkpoints.get(view.SessionID)
	assert.False(t, ok)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, events.EventSessionAbandoned, published[1].Type)
	abandoned := published[1].Data.(events.SessionAbandonedEvent)
	assert.Equal(t, 5, abandoned.TimeMetadata.ActiveSeconds)

	assert.ErrorIs(t, f.service.Abandon(ctx, view.SessionID), ErrSessionNotFound)
	_, err = f.service.Snapshot(ctx, view.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.service.ReportVisibility(ctx, view.SessionID, true)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_ReapIdle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.campaigns.On("GetByID", ctx, "camp-1").Return(surveyCampaign(), nil)

	idle, err := f.service.Start(ctx, startRequest())
	require.NoError(t, err)
	f.clock.Add(8 * time.Minute)

	busy, err := f.service.Start(ctx, &StartSessionRequest{TaskID: "task-2", CampaignID: "camp-1"})
	require.NoError(t, err)
	f.clock.Add(3 * time.Minute)

	assert.Equal(t, 1, f.service.ReapIdle(ctx))
	assert.Equal(t, 1, f.service.ActiveSessions())

	_, err = f.service.Snapshot(ctx, busy.SessionID)
	assert.NoError(t, err)

	// The reaped session keeps its checkpoint and can be resumed.
	checkpoint, ok := f.checkpoints.get(idle.SessionID)
	require.True(t, ok)
	assert.Equal(t, 660, checkpoint.ActiveSeconds)

	resumed, err := f.service.Start(ctx, &StartSessionRequest{TaskID: "task-1", CampaignID: "camp-1", SessionID: idle.SessionID})
	require.NoError(t, err)
	assert.True(t, resumed.Resumed)
}

func TestSessionService_CloseRejectsNewSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.campaigns.On("GetByID", ctx, "camp-1").Return(surveyCampaign(), nil)

	_, err := f.service.Start(ctx, startRequest())
	require.NoError(t, err)

	f.service.Close()
	assert.Equal(t, 0, f.service.ActiveSessions())

	_, err = f.service.Start(ctx, startRequest())
	assert.ErrorIs(t, err, ErrServiceClosed)
}

func TestSessionService_StatelessEvaluation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	questions := models.QuestionSet{
		{ID: "rating", Kind: models.KindScale, Text: "Rate it"},
		{ID: "ac", Kind: models.KindMultipleChoice, Text: "Pick Blue", Options: []string{"Red", "Blue"},
			CorrectAnswer: models.StringPtr("Blue"), IsAttentionCheck: true},
		{ID: "feedback", Kind: models.KindText, Text: "What happened?"},
	}

	result, err := f.service.Evaluate(ctx, &EvaluateRequest{
		Responses: models.ResponseMap{
			"rating":   models.NumberValue(4),
			"ac":       models.StringValue("Blue"),
			"feedback": models.StringValue(goodFeedback),
		},
		TimeMetadata: models.TimeGateSnapshot{ActiveSeconds: 40, MinimumRequiredSeconds: 30, Passed: true},
		Questions:    questions,
	})
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.InDelta(t, 0.9, result.Score, 1e-9)

	_, err = f.service.Evaluate(ctx, &EvaluateRequest{})
	assert.True(t, IsValidation(err))

	dup := append(models.QuestionSet{}, questions...)
	dup[2].ID = "rating"
	_, err = f.service.Evaluate(ctx, &EvaluateRequest{Questions: dup})
	assert.ErrorIs(t, err, ErrValidationFailed)

	text, err := f.service.AnalyzeText(ctx, &AnalyzeTextRequest{Text: "aaaaaa"})
	require.NoError(t, err)
	assert.True(t, text.Rejected)
	assert.Contains(t, text.Flags, models.FlagGibberish)

	_, err = f.service.AnalyzeText(ctx, &AnalyzeTextRequest{Text: "fine", MinChars: -1})
	assert.True(t, IsValidation(err))

	sentiment, err := f.service.CheckSentiment(ctx, &SentimentRequest{Rating: 5, Text: "Terrible, it is slow and broken"})
	require.NoError(t, err)
	assert.False(t, sentiment.Consistent)

	_, err = f.service.CheckSentiment(ctx, &SentimentRequest{Rating: 9, Text: "ok"})
	assert.True(t, IsValidation(err))
}

func TestSessionService_VisibilitySaveDuringSubmitDoesNotRevive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.campaigns.On("GetByID", ctx, "camp-1").Return(surveyCampaign(), nil)

	view, err := f.service.Start(ctx, startRequest())
	require.NoError(t, err)
	responses := f.goodResponses(t, view.SessionID)

	entered, release := f.checkpoints.holdNextSave()

	visibilityDone := make(chan error, 1)
	go func() {
		_, err := f.service.ReportVisibility(ctx, view.SessionID, false)
		visibilityDone <- err
	}()
	<-entered

	submitDone := make(chan error, 1)
	go func() {
		_, err := f.service.Submit(ctx, view.SessionID, &SubmitRequest{Responses: responses})
		submitDone <- err
	}()

	close(release)
	require.NoError(t, <-visibilityDone)
	require.NoError(t, <-submitDone)

	_, ok := f.checkpoints.get(view.SessionID)
	assert.False(t, ok, "checkpoint must stay deleted after submit")

	again, err := f.service.Start(ctx, &StartSessionRequest{TaskID: "task-1", CampaignID: "camp-1", SessionID: view.SessionID})
	require.NoError(t, err)
	assert.False(t, again.Resumed)
	assert.NotEqual(t, view.SessionID, again.SessionID)

	_, err = f.service.Submit(ctx, view.SessionID, &SubmitRequest{Responses: responses})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	evaluated := 0
	for _, event := range f.publisher.GetPublishedEvents() {
		if event.Type == events.EventSubmissionEvaluated {
			evaluated++
		}
	}
	assert.Equal(t, 1, evaluated)
}

func TestSessionService_CheckpointSkippedOnceEnded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.campaigns.On("GetByID", ctx, "camp-1").Return(surveyCampaign(), nil)

	view, err := f.service.Start(ctx, startRequest())
	require.NoError(t, err)

	sess, ok := f.service.detach(view.SessionID)
	require.True(t, ok)
	require.NoError(t, f.checkpoints.Delete(ctx, view.SessionID))

	f.service.checkpoint(ctx, sess)

	_, ok = f.checkpoints.get(view.SessionID)
	assert.False(t, ok)
	f.service.end(sess)
}

func TestSessionService_EvaluateRecomputesTimeGate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	questions := models.QuestionSet{
		{ID: "rating", Kind: models.KindScale, Text: "Rate it"},
		{ID: "feedback", Kind: models.KindText, Text: "What happened?"},
	}
	responses := models.ResponseMap{
		"rating":   models.NumberValue(4),
		"feedback": models.StringValue(goodFeedback),
	}

	claimed, err := f.service.Evaluate(ctx, &EvaluateRequest{
		Responses:    responses,
		TimeMetadata: models.TimeGateSnapshot{ActiveSeconds: 10, MinimumRequiredSeconds: 30, Passed: true},
		Questions:    questions,
	})
	require.NoError(t, err)
	assert.Contains(t, claimed.Flags, models.FlagTooFast)

	understated, err := f.service.Evaluate(ctx, &EvaluateRequest{
		Responses:    responses,
		TimeMetadata: models.TimeGateSnapshot{ActiveSeconds: 40, MinimumRequiredSeconds: 30, Passed: false},
		Questions:    questions,
	})
	require.NoError(t, err)
	assert.NotContains(t, understated.Flags, models.FlagTooFast)
	assert.True(t, understated.Passed)
}
