// Package tracking measures how long a task was actually in front of the worker.
package tracking

import (
	"math"
	"sync"
	"time"

	"github.com/SAP-F-2025/quality-service/internal/models"
	"github.com/benbjohnson/clock"
)

// ActiveTimeTracker accumulates foreground time for one task session. It
// counts while the task is visible and pauses while it is hidden.
//
// A tracker belongs to exactly one session and must be released when that
// session ends, whatever the outcome.
type ActiveTimeTracker struct {
	mu sync.Mutex

	clock          clock.Clock
	minimumSeconds int

	accumulated  time.Duration
	startedAt    time.Time
	lastActiveAt time.Time
	foreground   bool

	degraded    bool
	unsubscribe Unsubscribe
	releaseOnce sync.Once
}

// NewActiveTimeTracker starts a tracker in the foreground. preElapsedSeconds
// seeds the active time of a session resumed after a reload. Without a usable
// source the tracker treats the whole session as foreground.
func NewActiveTimeTracker(minimumSeconds, preElapsedSeconds int, source VisibilitySource, clk clock.Clock) *ActiveTimeTracker {
	if clk == nil {
		clk = clock.New()
	}
	if preElapsedSeconds < 0 {
		preElapsedSeconds = 0
	}

	now := clk.Now()
	t := &ActiveTimeTracker{
		clock:          clk,
		minimumSeconds: minimumSeconds,
		accumulated:    time.Duration(preElapsedSeconds) * time.Second,
		startedAt:      now,
		lastActiveAt:   now,
		foreground:     true,
	}

	if source == nil {
		t.degraded = true
		return t
	}
	unsubscribe, err := source.Subscribe(t.onVisibility)
	if err != nil || unsubscribe == nil {
		t.degraded = true
		return t
	}
	t.unsubscribe = unsubscribe
	return t
}

func (t *ActiveTimeTracker) onVisibility(v Visibility) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	switch {
	case v == Hidden && t.foreground:
		t.accumulated += now.Sub(t.lastActiveAt)
		t.foreground = false
	case v == Visible && !t.foreground:
		t.lastActiveAt = now
		t.foreground = true
	}
}

// ActiveSeconds returns the foreground time so far, rounded to whole seconds.
func (t *ActiveTimeTracker) ActiveSeconds() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activeSecondsLocked(t.clock.Now())
}

func (t *ActiveTimeTracker) activeSecondsLocked(now time.Time) int {
	active := t.accumulated
	if t.foreground {
		active += now.Sub(t.lastActiveAt)
	}
	return roundSeconds(active)
}

// Passed reports whether the minimum active time has been reached.
func (t *ActiveTimeTracker) Passed() bool {
	return t.ActiveSeconds() >= t.minimumSeconds
}

// Snapshot reads the tracker at the current instant.
func (t *ActiveTimeTracker) Snapshot() models.TimeGateSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	active := t.activeSecondsLocked(now)
	return models.TimeGateSnapshot{
		TotalElapsedSeconds:    roundSeconds(now.Sub(t.startedAt)),
		ActiveSeconds:          active,
		MinimumRequiredSeconds: t.minimumSeconds,
		Passed:                 active >= t.minimumSeconds,
	}
}

// Foreground reports whether the tracker is currently counting.
func (t *ActiveTimeTracker) Foreground() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.foreground
}

// Degraded reports whether the tracker runs without a visibility source.
func (t *ActiveTimeTracker) Degraded() bool {
	return t.degraded
}

// Release stops observing visibility changes. It is idempotent.
func (t *ActiveTimeTracker) Release() {
	t.releaseOnce.Do(func() {
		if t.unsubscribe != nil {
			t.unsubscribe()
		}
	})
}

// roundSeconds rounds at millisecond precision, half away from zero.
func roundSeconds(d time.Duration) int {
	return int(math.Round(float64(d.Milliseconds()) / 1000))
}
