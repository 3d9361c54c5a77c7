package logic

import "sync/atomic"

// DebounceTimer is a tick countdown shared between two timelines: the sample
// loop, which arms and polls it, and the periodic tick source, which
// decrements it. The countdown is the only state the two share, so every
// access goes through an atomic.
type DebounceTimer struct {
	remaining atomic.Int32
}

// Arm loads the countdown with n ticks.
func (t *DebounceTimer) Arm(ticks int32) {
	t.remaining.Store(ticks)
}

// Tick decrements the countdown if it has not yet reached zero.
// Called once per hardware tick period.
func (t *DebounceTimer) Tick() {
	for {
		n := t.remaining.Load()
		if n <= 0 {
			return
		}
		if t.remaining.CompareAndSwap(n, n-1) {
			return
		}
	}
}

// Expired reports whether the countdown has reached zero.
func (t *DebounceTimer) Expired() bool {
	return t.remaining.Load() <= 0
}

// Remaining returns the ticks left on the countdown.
func (t *DebounceTimer) Remaining() int32 {
	return t.remaining.Load()
}
