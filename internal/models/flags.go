package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Flag names recorded by the quality pipeline.
const (
	FlagBot               = "bot"
	FlagTooFast           = "too_fast"
	FlagAttentionFailed   = "attention_failed"
	FlagTooShort          = "too_short"
	FlagGibberish         = "gibberish"
	FlagGeneric           = "generic"
	FlagSentimentMismatch = "sentiment_mismatch"
)

// Rejection reasons that are not flags.
const (
	ReasonBotDetected = "bot_detected"
	ReasonLowQuality  = "low_quality"
)

// FlagSet is an insertion-ordered set of flags. Adding a flag that is already
// present keeps its first position. The zero value is ready to use.
type FlagSet struct {
	entries *orderedmap.OrderedMap[string, struct{}]
}

func NewFlagSet(flags ...string) *FlagSet {
	fs := &FlagSet{}
	fs.Add(flags...)
	return fs
}

func (fs *FlagSet) Add(flags ...string) {
	if fs.entries == nil {
		fs.entries = orderedmap.New[string, struct{}]()
	}
	for _, flag := range flags {
		fs.entries.Set(flag, struct{}{})
	}
}

func (fs *FlagSet) Has(flag string) bool {
	if fs.entries == nil {
		return false
	}
	_, ok := fs.entries.Get(flag)
	return ok
}

// HasAny reports whether at least one of the given flags is present.
func (fs *FlagSet) HasAny(flags ...string) bool {
	for _, flag := range flags {
		if fs.Has(flag) {
			return true
		}
	}
	return false
}

func (fs *FlagSet) Len() int {
	if fs.entries == nil {
		return 0
	}
	return fs.entries.Len()
}

// First returns the earliest recorded flag.
func (fs *FlagSet) First() (string, bool) {
	if fs.Len() == 0 {
		return "", false
	}
	return fs.entries.Oldest().Key, true
}

// Values returns the flags in first-occurrence order. It never returns nil.
func (fs *FlagSet) Values() []string {
	values := make([]string, 0, fs.Len())
	if fs.entries == nil {
		return values
	}
	for pair := fs.entries.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Key)
	}
	return values
}
