// Package status provides a thread-safe status tracker for the battery-led
// daemon. It is read by the heartbeat logger and the print-state mode.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/battery-led/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	SampleMs        int64
	TickUs          int64
	ShortDebounceMs int64
	LongDebounceMs  int64
	HeartbeatMs     int64
	I2CBus          string
	ADCAddr         uint16
	PinRed          int
	PinYellow       int
	PinGreen        int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Level     logic.Level
	Voltage   float64
	Machine   logic.MachineState
	Ready     bool
	Counts    logic.TransitionCounts
	StartTime time.Time
	Now       time.Time
	Config    Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the monitor-derived fields.
// Called from runLoop on every sample tick.
func (t *Tracker) Update(level logic.Level, voltage float64, machine logic.MachineState, ready bool, counts logic.TransitionCounts) {
	t.mu.Lock()
	t.snap.Level = level
	t.snap.Voltage = voltage
	t.snap.Machine = machine
	t.snap.Ready = ready
	t.snap.Counts = counts
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
