// Package track maintains a running count of schema changes — additions,
// modifications and deletions — that can be adjusted in O(1) without re-running
// a full diff.
//
// Fine-grained designer edits ("one column added") bump a counter directly,
// while periodic full diff passes anchor the tracker back to ground truth via
// SetFromSummary, correcting any drift. Observers subscribe for badge-style UI
// updates and are notified synchronously on every mutation.
//
// Trackers are meant to be constructed with NewTracker and injected into the
// components that need them. The process-wide instance behind Shared exists
// for hosts that want a single tracker without wiring one through; ResetShared
// replaces it wholesale for session resets and test isolation.
package track

import (
	"sync"

	difftypes "github.com/schemadelta/schemadelta/diff/types"
)

// Listener receives the tracker's state after every mutation. The first call
// happens synchronously inside Subscribe with the state at subscribe time.
type Listener func(difftypes.ChangeCountSummary)

type subscription struct {
	id uint64
	fn Listener
}

// Tracker is a goroutine-safe counter of schema changes by type. The zero
// value is not usable; construct with NewTracker.
type Tracker struct {
	mu            sync.Mutex
	additions     int
	modifications int
	deletions     int
	nextSubID     uint64
	listeners     []subscription
}

// NewTracker creates a tracker with all counters at zero.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Counts returns the current counter snapshot. Total is recomputed from the
// three counts on every call, so it can never drift from their sum.
func (t *Tracker) Counts() difftypes.ChangeCountSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.summaryLocked()
}

// Increment adjusts the counter for the given change type by +1 and notifies
// subscribers.
func (t *Tracker) Increment(ct difftypes.ChangeType) {
	t.adjust(ct, 1)
}

// Decrement adjusts the counter for the given change type by -1 and notifies
// subscribers. Counters clamp at zero and never go negative.
func (t *Tracker) Decrement(ct difftypes.ChangeType) {
	t.adjust(ct, -1)
}

func (t *Tracker) adjust(ct difftypes.ChangeType, delta int) {
	t.mu.Lock()
	switch ct {
	case difftypes.Addition:
		t.additions = clamp(t.additions + delta)
	case difftypes.Deletion:
		t.deletions = clamp(t.deletions + delta)
	case difftypes.Modification:
		t.modifications = clamp(t.modifications + delta)
	}
	summary, listeners := t.snapshotLocked()
	t.mu.Unlock()

	notify(listeners, summary)
}

// Reset zeroes all counters and notifies subscribers.
func (t *Tracker) Reset() {
	t.SetFromSummary(difftypes.ChangeCountSummary{})
}

// SetFromSummary replaces all counters wholesale from a diff summary and
// notifies subscribers. Callers use this after a full diff pass to anchor the
// tracker to the authoritative counts. The summary's Total field is ignored;
// the tracker always derives its own.
func (t *Tracker) SetFromSummary(summary difftypes.ChangeCountSummary) {
	t.mu.Lock()
	t.additions = clamp(summary.Additions)
	t.modifications = clamp(summary.Modifications)
	t.deletions = clamp(summary.Deletions)
	current, listeners := t.snapshotLocked()
	t.mu.Unlock()

	notify(listeners, current)
}

// Subscribe registers a listener and returns its unsubscribe function.
//
// The listener is invoked synchronously and immediately with the current state
// before Subscribe returns, so UI consumers can initialize without a separate
// poll. Afterwards it is invoked on every mutation, in registration order,
// within the mutating call. The returned unsubscribe function is idempotent
// and stops only this listener.
func (t *Tracker) Subscribe(fn Listener) (unsubscribe func()) {
	t.mu.Lock()
	t.nextSubID++
	id := t.nextSubID
	t.listeners = append(t.listeners, subscription{id: id, fn: fn})
	current := t.summaryLocked()
	t.mu.Unlock()

	fn(current)

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, sub := range t.listeners {
			if sub.id == id {
				t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

func (t *Tracker) summaryLocked() difftypes.ChangeCountSummary {
	return difftypes.ChangeCountSummary{
		Additions:     t.additions,
		Modifications: t.modifications,
		Deletions:     t.deletions,
		Total:         t.additions + t.modifications + t.deletions,
	}
}

// snapshotLocked copies the listener list so callbacks run outside the lock.
// A listener that mutates the tracker from inside its callback would otherwise
// deadlock.
func (t *Tracker) snapshotLocked() (difftypes.ChangeCountSummary, []subscription) {
	listeners := make([]subscription, len(t.listeners))
	copy(listeners, t.listeners)
	return t.summaryLocked(), listeners
}

func notify(listeners []subscription, summary difftypes.ChangeCountSummary) {
	for _, sub := range listeners {
		sub.fn(summary)
	}
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

var (
	sharedMu sync.Mutex
	shared   *Tracker
)

// Shared returns the process-wide tracker, lazily constructed on first call
// and reused thereafter.
func Shared() *Tracker {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = NewTracker()
	}
	return shared
}

// ResetShared discards the process-wide tracker. The next Shared call returns
// a brand-new, zeroed instance distinct from any previously held reference.
// Previously registered listeners stay attached to the old instance and stop
// receiving updates from the shared one.
func ResetShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	shared = nil
}
