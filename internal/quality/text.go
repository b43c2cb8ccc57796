package quality

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/SAP-F-2025/quality-service/internal/models"
)

const (
	repeatedCharRun   = 5
	shortTokenMinRun  = 4
	shortTokenMaxLen  = 3
	genericFillerMin  = 2
	specificityTarget = 4.0
)

var acknowledgementPattern = regexp.MustCompile(`(?i)^(?:yes|no|ok|okay|good|nice|great|fine)[.!?,;:]*$`)

var fillerPhrases = []string{
	"great product",
	"love it",
	"highly recommend",
	"very good",
	"easy to use",
	"works well",
	"best app",
}

// Concrete language: numbered steps, UI nouns, failure words and causal phrasing.
var specificityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bstep\s*\d+`),
	regexp.MustCompile(`button`),
	regexp.MustCompile(`screen`),
	regexp.MustCompile(`error`),
	regexp.MustCompile(`crash`),
	regexp.MustCompile(`slow`),
	regexp.MustCompile(`fast`),
	regexp.MustCompile(`\bwhen i\b`),
	regexp.MustCompile(`\bafter i\b`),
	regexp.MustCompile(`\bcould ?not\b|\bcouldn't\b`),
}

// TextAnalyzer scores free-text answers for gibberish, genericness and
// specificity. It keeps no state between calls.
type TextAnalyzer struct {
	cfg Config
}

func NewTextAnalyzer(cfg Config) *TextAnalyzer {
	return &TextAnalyzer{cfg: cfg}
}

// Analyze scores a single answer with the configured minimum length.
func (a *TextAnalyzer) Analyze(text string) models.TextQuality {
	return a.AnalyzeWithMinimum(text, 0)
}

// AnalyzeWithMinimum scores an answer whose field has its own minimum
// character count. The stricter of minChars and the configured minimum wins.
func (a *TextAnalyzer) AnalyzeWithMinimum(text string, minChars int) models.TextQuality {
	trimmed := strings.TrimSpace(text)

	minLength := a.cfg.MinTextLength
	if minChars > minLength {
		minLength = minChars
	}
	if utf8.RuneCountInString(trimmed) < minLength {
		flags := models.NewFlagSet(models.FlagTooShort)
		if hasRepeatedRun(trimmed, repeatedCharRun) {
			flags.Add(models.FlagGibberish)
		}
		return models.TextQuality{
			Score:    0,
			Flags:    flags.Values(),
			Rejected: true,
			Reason:   models.FlagTooShort,
		}
	}

	if isGibberish(trimmed) {
		return models.TextQuality{
			Score:    0,
			Flags:    []string{models.FlagGibberish},
			Rejected: true,
			Reason:   models.FlagGibberish,
		}
	}

	lower := strings.ToLower(trimmed)
	flags := models.NewFlagSet()

	fillers := countFillerPhrases(lower)
	if fillers >= genericFillerMin {
		flags.Add(models.FlagGeneric)
	}

	specificity := float64(countSpecificityMatches(lower)) / specificityTarget
	if specificity > 1 {
		specificity = 1
	}

	fillerBonus := 0.3
	if fillers > 0 {
		fillerBonus = 0.1
	}
	score := specificity*0.7 + fillerBonus
	if flags.Has(models.FlagGeneric) && score > a.cfg.GenericScoreCap {
		score = a.cfg.GenericScoreCap
	}
	score = models.Clamp01(score)

	result := models.TextQuality{
		Score: score,
		Flags: flags.Values(),
	}
	if score < a.cfg.LowQualityThreshold {
		result.Rejected = true
		result.Reason = models.ReasonLowQuality
		if first, ok := flags.First(); ok {
			result.Reason = first
		}
	}
	return result
}

func isGibberish(trimmed string) bool {
	return isShortTokenRun(trimmed) ||
		hasRepeatedRun(trimmed, repeatedCharRun) ||
		acknowledgementPattern.MatchString(trimmed)
}

// isShortTokenRun matches when the whole text is 4+ short letter fragments,
// e.g. "asd fgh jkl qwe". A run of short words inside a longer sentence
// ("it is so so bad") does not count.
func isShortTokenRun(trimmed string) bool {
	tokens := strings.Fields(trimmed)
	if len(tokens) < shortTokenMinRun {
		return false
	}
	for _, token := range tokens {
		if !isShortLetterToken(token) {
			return false
		}
	}
	return true
}

func isShortLetterToken(token string) bool {
	n := 0
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
		n++
	}
	return n >= 1 && n <= shortTokenMaxLen
}

// hasRepeatedRun reports whether any rune repeats at least n times in a row.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}

func countFillerPhrases(lower string) int {
	count := 0
	for _, phrase := range fillerPhrases {
		if strings.Contains(lower, phrase) {
			count++
		}
	}
	return count
}

func countSpecificityMatches(lower string) int {
	count := 0
	for _, pattern := range specificityPatterns {
		if pattern.MatchString(lower) {
			count++
		}
	}
	return count
}
