// Package quality scores task submissions: honeypot detection, attention checks,
// free-text heuristics and the weighted verdict that combines them.
//
// Every evaluator in this package is a pure function of its inputs and is safe
// for concurrent use.
package quality

// Config holds the tunable thresholds of the pipeline. The zero value is not
// useful; start from DefaultConfig.
type Config struct {
	// MinTextLength is the trimmed length below which a text answer is too_short.
	MinTextLength int `validate:"min=1,max=10000"`
	// LowQualityThreshold rejects a text answer scoring below it.
	LowQualityThreshold float64 `validate:"min=0,max=1"`
	// GenericScoreCap bounds the score of answers flagged generic.
	GenericScoreCap float64 `validate:"min=0,max=1"`
	// RejectThreshold rejects a submission whose composite score is below it.
	RejectThreshold float64 `validate:"min=0,max=1"`
	// SentimentCheck cross-checks text answers against the submitted rating.
	SentimentCheck bool
}

func DefaultConfig() Config {
	return Config{
		MinTextLength:       20,
		LowQualityThreshold: 0.2,
		GenericScoreCap:     0.4,
		RejectThreshold:     0.25,
		SentimentCheck:      false,
	}
}
