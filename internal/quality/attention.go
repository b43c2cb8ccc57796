package quality

import (
	"math/rand/v2"

	"github.com/SAP-F-2025/quality-service/internal/models"
	"github.com/google/uuid"
)

const (
	attentionCheckText   = "To show you are reading carefully, please select \"Blue\" for this question."
	attentionCheckAnswer = "Blue"
)

var attentionCheckOptions = []string{"Red", "Green", "Blue", "Yellow"}

// Rand is the random source used to place the decoy. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// AttentionCheckManager hides one decoy question among the real ones and later
// verifies it was answered correctly.
type AttentionCheckManager struct {
	newID func() string
}

func NewAttentionCheckManager() *AttentionCheckManager {
	return &AttentionCheckManager{
		newID: uuid.NewString,
	}
}

// Inject returns a copy of questions with one attention check inserted at a
// random position that is never the first or the last. Fewer than two
// questions cannot hide a decoy, so the input is returned unchanged.
//
// Inject does not look for an existing decoy; call it once per session.
func (m *AttentionCheckManager) Inject(questions models.QuestionSet, rng Rand) models.QuestionSet {
	n := len(questions)
	if n < 2 {
		return questions
	}
	if rng == nil {
		rng = globalRand{}
	}

	decoy := models.Question{
		ID:               m.newID(),
		Kind:             models.KindMultipleChoice,
		Text:             attentionCheckText,
		Options:          append([]string(nil), attentionCheckOptions...),
		CorrectAnswer:    models.StringPtr(attentionCheckAnswer),
		IsAttentionCheck: true,
	}

	// Position in 1..n-1 of the original indexing.
	pos := 1 + rng.IntN(n-1)

	out := make(models.QuestionSet, 0, n+1)
	out = append(out, questions[:pos]...)
	out = append(out, decoy)
	out = append(out, questions[pos:]...)
	return out
}

// Verify reports whether every attention check in questions was answered with
// its correct answer. A question set without attention checks verifies
// vacuously. A missing answer fails; a check without a correct answer is not
// verifiable and is skipped.
func (m *AttentionCheckManager) Verify(responses models.ResponseMap, questions models.QuestionSet) bool {
	for _, q := range questions {
		if !q.IsAttentionCheck || q.CorrectAnswer == nil {
			continue
		}
		answer, ok := responses[q.ID]
		if !ok || answer.String() != *q.CorrectAnswer {
			return false
		}
	}
	return true
}
