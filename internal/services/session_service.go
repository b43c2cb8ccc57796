package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/quality-service/internal/cache"
	"github.com/SAP-F-2025/quality-service/internal/events"
	"github.com/SAP-F-2025/quality-service/internal/metrics"
	"github.com/SAP-F-2025/quality-service/internal/models"
	"github.com/SAP-F-2025/quality-service/internal/quality"
	"github.com/SAP-F-2025/quality-service/internal/repositories"
	"github.com/SAP-F-2025/quality-service/internal/tracking"
	"github.com/SAP-F-2025/quality-service/internal/validator"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

// CheckpointStore persists what a session needs to survive a page reload
type CheckpointStore interface {
	Save(ctx context.Context, checkpoint *models.SessionCheckpoint) error
	Load(ctx context.Context, sessionID string) (*models.SessionCheckpoint, error)
	Delete(ctx context.Context, sessionID string) error
}

type SessionServiceConfig struct {
	Quality quality.Config
	// IdleTimeout releases trackers of sessions nobody has touched for this
	// long. Their checkpoints are kept so a reload can still resume.
	IdleTimeout time.Duration
	Clock       clock.Clock
	// Rand places the attention check; nil uses the global source
	Rand quality.Rand
}

type session struct {
	// mu serializes checkpoint writes against the session ending, so a late
	// save cannot bring back a submitted or abandoned session.
	mu    sync.Mutex
	ended bool

	id         string
	taskID     string
	campaignID string
	questions  models.QuestionSet
	hub        *tracking.VisibilityHub
	tracker    *tracking.ActiveTimeTracker
	lastSeen   time.Time
}

type sessionService struct {
	mu       sync.Mutex
	sessions map[string]*session
	closed   bool

	campaigns    repositories.CampaignRepository
	checkpoints  CheckpointStore
	publisher    events.EventPublisher
	metrics      *metrics.Metrics
	orchestrator *quality.Orchestrator
	validator    *validator.Validator

	clock       clock.Clock
	rng         quality.Rand
	idleTimeout time.Duration

	logger    *slog.Logger
	svcLogger *ServiceLogger
}

func NewSessionService(
	cfg SessionServiceConfig,
	campaigns repositories.CampaignRepository,
	checkpoints CheckpointStore,
	publisher events.EventPublisher,
	m *metrics.Metrics,
	v *validator.Validator,
	logger *slog.Logger,
) SessionService {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &sessionService{
		sessions:     make(map[string]*session),
		campaigns:    campaigns,
		checkpoints:  checkpoints,
		publisher:    publisher,
		metrics:      m,
		orchestrator: quality.NewOrchestrator(cfg.Quality),
		validator:    v,
		clock:        clk,
		rng:          cfg.Rand,
		idleTimeout:  cfg.IdleTimeout,
		logger:       logger,
		svcLogger: NewServiceLogger(logger, LogConfig{
			Service:   "quality-service",
			Component: "session",
		}),
	}
}

// ===== SESSION LIFECYCLE =====

func (s *sessionService) Start(ctx context.Context, req *StartSessionRequest) (view *SessionView, err error) {
	start := s.clock.Now()
	defer func() {
		sessionID := req.SessionID
		if view != nil {
			sessionID = view.SessionID
		}
		s.svcLogger.LogOperation(ctx, "start_session", sessionID, s.clock.Since(start), err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.SessionID != "" {
		if live, ok := s.lookup(req.SessionID); ok {
			if live.taskID != req.TaskID || live.campaignID != req.CampaignID {
				return nil, ErrSessionMismatch
			}
			s.touch(live)
			return s.viewOf(live, true), nil
		}
	}

	sess, resumed, err := s.restore(ctx, req)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		if sess, err = s.create(ctx, req); err != nil {
			return nil, err
		}
	}

	winner, err := s.register(sess)
	if err != nil {
		sess.tracker.Release()
		return nil, err
	}
	if winner != sess {
		// A concurrent resume of the same session registered first.
		sess.tracker.Release()
		return s.viewOf(winner, true), nil
	}
	s.metrics.SessionStarted(resumed)
	s.checkpoint(ctx, sess)

	event := events.NewSessionStartedEvent(sess.taskID, events.SessionStartedEvent{
		SessionID:            sess.id,
		CampaignID:           sess.campaignID,
		QuestionCount:        len(sess.questions),
		AttentionCheckAdded:  hasAttentionCheck(sess.questions),
		Resumed:              resumed,
		MinimumActiveSeconds: sess.tracker.Snapshot().MinimumRequiredSeconds,
		StartedAt:            start,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.svcLogger.LogDegraded(ctx, "event publisher", "start_session", err, "session_id", sess.id)
	}

	return s.viewOf(sess, resumed), nil
}

// restore rebuilds a session from its checkpoint. A missing or unreadable
// checkpoint starts a fresh session instead.
func (s *sessionService) restore(ctx context.Context, req *StartSessionRequest) (*session, bool, error) {
	if req.SessionID == "" {
		return nil, false, nil
	}

	checkpoint, err := s.checkpoints.Load(ctx, req.SessionID)
	if errors.Is(err, cache.ErrCheckpointNotFound) {
		return nil, false, nil
	}
	if err != nil {
		s.svcLogger.LogDegraded(ctx, "checkpoint store", "restore_session", err, "session_id", req.SessionID)
		return nil, false, nil
	}
	if checkpoint.TaskID != req.TaskID || checkpoint.CampaignID != req.CampaignID {
		return nil, false, ErrSessionMismatch
	}

	return s.newSession(checkpoint.SessionID, req, checkpoint.Questions, checkpoint.MinimumActive, checkpoint.ActiveSeconds), true, nil
}

func (s *sessionService) create(ctx context.Context, req *StartSessionRequest) (*session, error) {
	campaign, err := s.campaigns.GetByID(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}

	questions := campaign.QuestionSet()
	if err := s.validator.Question().ValidateSet(questions); err != nil {
		return nil, &CampaignConfigError{CampaignID: campaign.ID, Err: err}
	}
	for _, q := range questions {
		if q.IsAttentionCheck {
			return nil, &CampaignConfigError{CampaignID: campaign.ID, Err: fmt.Errorf("question %s is marked as an attention check", q.ID)}
		}
	}

	withDecoy := s.orchestrator.Attention().Inject(questions, s.rng)
	return s.newSession(uuid.NewString(), req, withDecoy, campaign.MinimumActiveSeconds, 0), nil
}

func (s *sessionService) newSession(id string, req *StartSessionRequest, questions models.QuestionSet, minimum, preElapsed int) *session {
	hub := tracking.NewVisibilityHub()
	return &session{
		id:         id,
		taskID:     req.TaskID,
		campaignID: req.CampaignID,
		questions:  questions,
		hub:        hub,
		tracker:    tracking.NewActiveTimeTracker(minimum, preElapsed, hub, s.clock),
		lastSeen:   s.clock.Now(),
	}
}

func (s *sessionService) ReportVisibility(ctx context.Context, sessionID string, visible bool) (models.TimeGateSnapshot, error) {
	sess, ok := s.lookup(sessionID)
	if !ok {
		return models.TimeGateSnapshot{}, ErrSessionNotFound
	}

	state := tracking.Visible
	if !visible {
		state = tracking.Hidden
	}
	sess.hub.Publish(state)
	s.touch(sess)
	s.checkpoint(ctx, sess)

	s.svcLogger.LogDebug(ctx, "Visibility changed", "session_id", sessionID, "visibility", state.String())
	return sess.tracker.Snapshot(), nil
}

func (s *sessionService) Snapshot(ctx context.Context, sessionID string) (models.TimeGateSnapshot, error) {
	sess, ok := s.lookup(sessionID)
	if !ok {
		return models.TimeGateSnapshot{}, ErrSessionNotFound
	}
	s.touch(sess)
	s.checkpoint(ctx, sess)
	return sess.tracker.Snapshot(), nil
}

// Submit evaluates the responses and forwards the envelope. The session ends
// whatever the outcome; a second submit for it reports ErrSessionNotFound.
func (s *sessionService) Submit(ctx context.Context, sessionID string, req *SubmitRequest) (result *SubmitResult, err error) {
	start := s.clock.Now()
	defer func() {
		s.svcLogger.LogOperation(ctx, "submit", sessionID, s.clock.Since(start), err)
	}()

	sess, ok := s.detach(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	defer s.end(sess)

	snapshot := sess.tracker.Snapshot()
	verdict := s.orchestrator.Evaluate(req.Responses, snapshot, sess.questions, req.Honeypot)

	responses := req.Responses
	if responses == nil {
		responses = models.ResponseMap{}
	}
	envelope := models.SubmissionEnvelope{
		TaskID:        sess.taskID,
		CampaignID:    sess.campaignID,
		Responses:     responses,
		ClientQuality: verdict,
		TimeMetadata:  snapshot,
	}

	forwarded := true
	if err := s.publisher.Publish(ctx, events.NewSubmissionEvaluatedEvent(envelope, sess.id)); err != nil {
		forwarded = false
		s.metrics.PublishFailed()
		s.logger.ErrorContext(ctx, "Failed to forward submission for re-validation",
			"session_id", sess.id,
			"task_id", sess.taskID,
			"error", err)
	}

	if err := s.checkpoints.Delete(ctx, sess.id); err != nil {
		s.svcLogger.LogDegraded(ctx, "checkpoint store", "submit", err, "session_id", sess.id)
	}

	s.metrics.SubmissionEvaluated(verdict, snapshot)
	s.svcLogger.LogVerdict(ctx, sess.id, sess.taskID, verdict, snapshot)

	return &SubmitResult{
		Result:       verdict,
		TimeMetadata: snapshot,
		Forwarded:    forwarded,
	}, nil
}

func (s *sessionService) Abandon(ctx context.Context, sessionID string) (err error) {
	start := s.clock.Now()
	defer func() {
		s.svcLogger.LogOperation(ctx, "abandon", sessionID, s.clock.Since(start), err)
	}()

	sess, ok := s.detach(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	defer s.end(sess)

	snapshot := sess.tracker.Snapshot()
	if err := s.checkpoints.Delete(ctx, sess.id); err != nil {
		s.svcLogger.LogDegraded(ctx, "checkpoint store", "abandon", err, "session_id", sess.id)
	}

	event := events.NewSessionAbandonedEvent(sess.taskID, events.SessionAbandonedEvent{
		SessionID:    sess.id,
		CampaignID:   sess.campaignID,
		TimeMetadata: snapshot,
		AbandonedAt:  s.clock.Now(),
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.svcLogger.LogDegraded(ctx, "event publisher", "abandon", err, "session_id", sess.id)
	}
	return nil
}

// ===== STATELESS EVALUATION =====

func (s *sessionService) Evaluate(ctx context.Context, req *EvaluateRequest) (models.QualityResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return models.QualityResult{}, err
	}
	if err := s.validator.Question().ValidateSet(req.Questions); err != nil {
		return models.QualityResult{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	// The client's verdict on the time gate is not trusted.
	snapshot := req.TimeMetadata
	snapshot.Passed = snapshot.ActiveSeconds >= snapshot.MinimumRequiredSeconds

	result := s.orchestrator.Evaluate(req.Responses, snapshot, req.Questions, req.Honeypot)
	s.metrics.SubmissionEvaluated(result, snapshot)
	return result, nil
}

func (s *sessionService) AnalyzeText(ctx context.Context, req *AnalyzeTextRequest) (models.TextQuality, error) {
	if err := s.validator.Validate(req); err != nil {
		return models.TextQuality{}, err
	}
	return s.orchestrator.Text().AnalyzeWithMinimum(req.Text, req.MinChars), nil
}

func (s *sessionService) CheckSentiment(ctx context.Context, req *SentimentRequest) (*SentimentResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	return &SentimentResult{Consistent: quality.CheckSentimentConsistency(req.Rating, req.Text)}, nil
}

// ===== HOUSEKEEPING =====

func (s *sessionService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ReapIdle releases the trackers of sessions idle for longer than the idle
// timeout and returns how many were released.
func (s *sessionService) ReapIdle(ctx context.Context) int {
	if s.idleTimeout <= 0 {
		return 0
	}
	cutoff := s.clock.Now().Add(-s.idleTimeout)

	s.mu.Lock()
	var idle []*session
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			idle = append(idle, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		s.checkpoint(ctx, sess)
		sess.markEnded()
		s.end(sess)
	}
	if len(idle) > 0 {
		s.logger.InfoContext(ctx, "Released idle sessions", "count", len(idle))
	}
	return len(idle)
}

// RunReaper calls ReapIdle on every interval until ctx is done
func (s *sessionService) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := s.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ReapIdle(ctx)
		}
	}
}

// Close releases every live tracker. Checkpoints are kept so sessions can
// resume on another instance.
func (s *sessionService) Close() {
	s.mu.Lock()
	live := make([]*session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		live = append(live, sess)
		delete(s.sessions, id)
	}
	s.closed = true
	s.mu.Unlock()

	for _, sess := range live {
		sess.markEnded()
		s.end(sess)
	}
	s.logger.Info("Session service closed", "released_sessions", len(live))
}

// ===== HELPERS =====

func (s *sessionService) register(sess *session) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrServiceClosed
	}
	if existing, ok := s.sessions[sess.id]; ok {
		return existing, nil
	}
	s.sessions[sess.id] = sess
	return sess, nil
}

func (s *sessionService) lookup(sessionID string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	return sess, ok
}

// detach removes the session from the live set and marks it ended. It waits
// for an in-flight checkpoint save, so no save lands after it returns.
func (s *sessionService) detach(sessionID string) (*session, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if ok {
		sess.markEnded()
	}
	return sess, ok
}

func (sess *session) markEnded() {
	sess.mu.Lock()
	sess.ended = true
	sess.mu.Unlock()
}

func (s *sessionService) touch(sess *session) {
	s.mu.Lock()
	sess.lastSeen = s.clock.Now()
	s.mu.Unlock()
}

func (s *sessionService) end(sess *session) {
	sess.tracker.Release()
	s.metrics.SessionEnded()
}

// checkpoint saves the session unless it has ended
func (s *sessionService) checkpoint(ctx context.Context, sess *session) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.ended {
		return
	}

	snapshot := sess.tracker.Snapshot()
	err := s.checkpoints.Save(ctx, &models.SessionCheckpoint{
		SessionID:     sess.id,
		TaskID:        sess.taskID,
		CampaignID:    sess.campaignID,
		ActiveSeconds: snapshot.ActiveSeconds,
		MinimumActive: snapshot.MinimumRequiredSeconds,
		Questions:     sess.questions,
		UpdatedAt:     s.clock.Now(),
	})
	if err != nil {
		s.svcLogger.LogDegraded(ctx, "checkpoint store", "checkpoint", err, "session_id", sess.id)
	}
}

func (s *sessionService) viewOf(sess *session, resumed bool) *SessionView {
	return &SessionView{
		SessionID:     sess.id,
		TaskID:        sess.taskID,
		CampaignID:    sess.campaignID,
		Questions:     sess.questions.Public(),
		HoneypotField: quality.HoneypotField,
		Time:          sess.tracker.Snapshot(),
		Resumed:       resumed,
	}
}

func hasAttentionCheck(questions models.QuestionSet) bool {
	for _, q := range questions {
		if q.IsAttentionCheck {
			return true
		}
	}
	return false
}
