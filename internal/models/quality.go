package models

// TimeGateSnapshot is the active-time reading of a task session at one instant.
type TimeGateSnapshot struct {
	TotalElapsedSeconds    int  `json:"total_elapsed_seconds"`
	ActiveSeconds          int  `json:"active_seconds"`
	MinimumRequiredSeconds int  `json:"minimum_required_seconds"`
	Passed                 bool `json:"passed"`
}

// TextQuality is the verdict for a single free-text answer.
type TextQuality struct {
	Score    float64  `json:"score"`
	Flags    []string `json:"flags"`
	Rejected bool     `json:"rejected"`
	Reason   string   `json:"reason,omitempty"`
}

// QualityResult is the combined verdict for a whole submission.
type QualityResult struct {
	Passed bool     `json:"passed"`
	Score  float64  `json:"score"`
	Flags  []string `json:"flags"`
	Reason string   `json:"reason,omitempty"`
}

// Clamp01 bounds a score to [0, 1].
func Clamp01(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
