package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/quality-service/internal/models"
)

// SessionService hosts task sessions: it owns each session's active-time
// tracker, evaluates the submission and forwards it for re-validation.
type SessionService interface {
	Start(ctx context.Context, req *StartSessionRequest) (*SessionView, error)
	ReportVisibility(ctx context.Context, sessionID string, visible bool) (models.TimeGateSnapshot, error)
	Snapshot(ctx context.Context, sessionID string) (models.TimeGateSnapshot, error)
	Submit(ctx context.Context, sessionID string, req *SubmitRequest) (*SubmitResult, error)
	Abandon(ctx context.Context, sessionID string) error

	// Stateless evaluation for callers that keep their own timer
	Evaluate(ctx context.Context, req *EvaluateRequest) (models.QualityResult, error)
	AnalyzeText(ctx context.Context, req *AnalyzeTextRequest) (models.TextQuality, error)
	CheckSentiment(ctx context.Context, req *SentimentRequest) (*SentimentResult, error)

	// ActiveSessions returns the number of sessions with a live tracker
	ActiveSessions() int
	RunReaper(ctx context.Context, interval time.Duration)
	Close()
}

// ===== REQUESTS =====

type StartSessionRequest struct {
	TaskID     string `json:"task_id" validate:"required,max=100"`
	CampaignID string `json:"campaign_id" validate:"required,max=100"`
	// SessionID resumes a checkpointed session after a reload
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=100"`
}

type VisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

type SubmitRequest struct {
	Responses models.ResponseMap `json:"responses"`
	// Honeypot carries the value of the hidden form field
	Honeypot string `json:"honeypot"`
}

type EvaluateRequest struct {
	Responses    models.ResponseMap      `json:"responses"`
	TimeMetadata models.TimeGateSnapshot `json:"time_metadata"`
	Questions    models.QuestionSet      `json:"questions" validate:"required,min=1,dive"`
	Honeypot     string                  `json:"honeypot"`
}

type AnalyzeTextRequest struct {
	Text     string `json:"text"`
	MinChars int    `json:"min_chars" validate:"min=0,max=10000"`
}

type SentimentRequest struct {
	Rating float64 `json:"rating" validate:"min=1,max=5"`
	Text   string  `json:"text"`
}

// ===== RESPONSES =====

// SessionView is what the task page renders. Questions carry no correct
// answers and the attention check is not marked.
type SessionView struct {
	SessionID     string                  `json:"session_id"`
	TaskID        string                  `json:"task_id"`
	CampaignID    string                  `json:"campaign_id"`
	Questions     models.QuestionSet      `json:"questions"`
	HoneypotField string                  `json:"honeypot_field"`
	Time          models.TimeGateSnapshot `json:"time"`
	Resumed       bool                    `json:"resumed"`
}

type SubmitResult struct {
	Result       models.QualityResult    `json:"result"`
	TimeMetadata models.TimeGateSnapshot `json:"time_metadata"`
	// Forwarded is false when the envelope could not be published
	Forwarded bool `json:"forwarded"`
}

type SentimentResult struct {
	Consistent bool `json:"consistent"`
}
