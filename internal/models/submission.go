package models

import "time"

// SubmissionEnvelope is the record forwarded to server-side re-validation. The
// server is the authority; ClientQuality is advisory.
type SubmissionEnvelope struct {
	TaskID        string           `json:"task_id"`
	CampaignID    string           `json:"campaign_id"`
	Responses     ResponseMap      `json:"responses"`
	ClientQuality QualityResult    `json:"client_quality"`
	TimeMetadata  TimeGateSnapshot `json:"time_metadata"`
}

// SessionCheckpoint is what survives a page reload: the active time banked so
// far and the question set with its injected attention check.
type SessionCheckpoint struct {
	SessionID     string      `json:"session_id"`
	TaskID        string      `json:"task_id"`
	CampaignID    string      `json:"campaign_id"`
	ActiveSeconds int         `json:"active_seconds"`
	MinimumActive int         `json:"minimum_active"`
	Questions     QuestionSet `json:"questions"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
