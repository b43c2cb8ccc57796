package events

import (
	"time"

	"github.com/SAP-F-2025/quality-service/internal/models"
	"github.com/google/uuid"
)

const (
	eventSource  = "quality-service"
	eventVersion = "1.0"
)

// EventType represents the kinds of events emitted by the quality service
type EventType string

const (
	// Session lifecycle events
	EventSessionStarted   EventType = "session.started"
	EventSessionAbandoned EventType = "session.abandoned"

	// Verdict forwarded for server-side re-validation
	EventSubmissionEvaluated EventType = "submission.evaluated"
)

// SubmissionEvent is the envelope for every event published by the service
type SubmissionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	TaskID    string                 `json:"task_id"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SessionStartedEvent struct {
	SessionID            string    `json:"session_id"`
	CampaignID           string    `json:"campaign_id"`
	QuestionCount        int       `json:"question_count"`
	AttentionCheckAdded  bool      `json:"attention_check_added"`
	Resumed              bool      `json:"resumed"`
	MinimumActiveSeconds int       `json:"minimum_active_seconds"`
	StartedAt            time.Time `json:"started_at"`
}

type SessionAbandonedEvent struct {
	SessionID    string                  `json:"session_id"`
	CampaignID   string                  `json:"campaign_id"`
	TimeMetadata models.TimeGateSnapshot `json:"time_metadata"`
	AbandonedAt  time.Time               `json:"abandoned_at"`
}

// Event factory functions

func NewSubmissionEvaluatedEvent(envelope models.SubmissionEnvelope, sessionID string) *SubmissionEvent {
	return newEvent(EventSubmissionEvaluated, envelope.TaskID, envelope, map[string]interface{}{
		"session_id": sessionID,
		"passed":     envelope.ClientQuality.Passed,
	})
}

func NewSessionStartedEvent(taskID string, data SessionStartedEvent) *SubmissionEvent {
	return newEvent(EventSessionStarted, taskID, data, nil)
}

func NewSessionAbandonedEvent(taskID string, data SessionAbandonedEvent) *SubmissionEvent {
	return newEvent(EventSessionAbandoned, taskID, data, nil)
}

func newEvent(eventType EventType, taskID string, data interface{}, metadata map[string]interface{}) *SubmissionEvent {
	return &SubmissionEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		TaskID:    taskID,
		Data:      data,
		Metadata:  metadata,
	}
}

// GenerateEventID returns a unique event identifier
func GenerateEventID() string {
	return uuid.NewString()
}
