package quality

import (
	"github.com/SAP-F-2025/quality-service/internal/models"
)

const (
	timeWeight      = 0.25
	textWeight      = 0.50
	attentionWeight = 0.25

	// Partial credit for a session that failed the active-time gate.
	tooFastCredit = 0.2
)

// Flags that reject a submission regardless of its score.
var autoRejectFlags = []string{models.FlagBot, models.FlagGibberish, models.FlagAttentionFailed}

// Orchestrator combines the individual checks into one QualityResult.
type Orchestrator struct {
	cfg       Config
	text      *TextAnalyzer
	attention *AttentionCheckManager
}

func NewOrchestrator(cfg Config) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		text:      NewTextAnalyzer(cfg),
		attention: NewAttentionCheckManager(),
	}
}

// Text returns the analyzer used for free-text answers.
func (o *Orchestrator) Text() *TextAnalyzer {
	return o.text
}

// Attention returns the attention-check manager.
func (o *Orchestrator) Attention() *AttentionCheckManager {
	return o.attention
}

// Evaluate produces the verdict for one submission. It never fails: responses
// without a matching question are not text-scored, and malformed input only
// ever lowers the score.
//
// Text answers are visited in question order so flag order is deterministic.
func (o *Orchestrator) Evaluate(
	responses models.ResponseMap,
	snapshot models.TimeGateSnapshot,
	questions models.QuestionSet,
	honeypotValue string,
) models.QualityResult {
	if !IsHuman(honeypotValue) {
		return models.QualityResult{
			Passed: false,
			Score:  0,
			Flags:  []string{models.FlagBot},
			Reason: models.ReasonBotDetected,
		}
	}

	flags := models.NewFlagSet()
	if !snapshot.Passed {
		flags.Add(models.FlagTooFast)
	}

	if !o.attention.Verify(responses, questions) {
		flags.Add(models.FlagAttentionFailed)
	}

	rating, hasRating := o.ratingOf(responses, questions)

	textScore := 1.0
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if !q.IsText() {
			continue
		}
		if _, dup := seen[q.ID]; dup {
			continue
		}
		seen[q.ID] = struct{}{}

		value, ok := responses[q.ID]
		if !ok {
			continue
		}
		text, ok := value.Text()
		if !ok {
			continue
		}

		result := o.text.AnalyzeWithMinimum(text, q.MinChars)
		if result.Score < textScore {
			textScore = result.Score
		}
		flags.Add(result.Flags...)

		if o.cfg.SentimentCheck && hasRating && !CheckSentimentConsistency(rating, text) {
			flags.Add(models.FlagSentimentMismatch)
		}
	}

	timeScore := tooFastCredit
	if snapshot.Passed {
		timeScore = 1
	}
	attentionScore := 1.0
	if flags.Has(models.FlagAttentionFailed) {
		attentionScore = 0
	}
	score := models.Clamp01(timeWeight*timeScore + textWeight*textScore + attentionWeight*attentionScore)

	autoReject := flags.HasAny(autoRejectFlags...) || score < o.cfg.RejectThreshold

	result := models.QualityResult{
		Passed: !autoReject,
		Score:  score,
		Flags:  flags.Values(),
	}
	if autoReject {
		result.Reason = models.ReasonLowQuality
		if first, ok := flags.First(); ok {
			result.Reason = first
		}
	}
	return result
}

// ratingOf returns the numeric answer to the first scale question.
func (o *Orchestrator) ratingOf(responses models.ResponseMap, questions models.QuestionSet) (float64, bool) {
	for _, q := range questions {
		if q.Kind != models.KindScale {
			continue
		}
		value, ok := responses[q.ID]
		if !ok {
			continue
		}
		if n, ok := value.Number(); ok {
			return n, true
		}
	}
	return 0, false
}
