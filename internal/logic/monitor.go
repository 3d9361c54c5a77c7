package logic

import "time"

// Config holds the monitor's design constants. Thresholds and windows are
// fixed at build time; only the hardware wiring is selectable elsewhere.
type Config struct {
	Thresholds Thresholds
	Envelope   Envelope

	// TickPeriod is the period of the hardware tick that drives the
	// debounce countdown.
	TickPeriod time.Duration
	// ShortDebounce is the window armed once, right after the initial
	// commit.
	ShortDebounce time.Duration
	// LongDebounce is the window armed for every later candidate level
	// change.
	LongDebounce time.Duration
}

// DefaultConfig mirrors the board timings: a 2.048ms timer tick with a
// 16-tick (~33ms) initial window and a 752-tick (~1.54s) change window.
func DefaultConfig() Config {
	const tick = 2048 * time.Microsecond
	return Config{
		Thresholds:    DefaultThresholds,
		Envelope:      DefaultEnvelope,
		TickPeriod:    tick,
		ShortDebounce: 16 * tick,
		LongDebounce:  752 * tick,
	}
}

// ticks converts a wall-clock window into whole debounce ticks, rounding up
// so a window never ends early.
func (c Config) ticks(d time.Duration) int32 {
	if c.TickPeriod <= 0 {
		return 0
	}
	return int32((d + c.TickPeriod - 1) / c.TickPeriod)
}

// Monitor decides the committed battery level from a stream of voltage
// readings, debouncing short-lived threshold crossings.
//
// It runs a four-state cycle: Initializing waits for a plausible reading and
// commits the first level, Measuring classifies a fresh reading, Debouncing
// waits out the countdown after a candidate change, Committing applies the
// confirmed level. Step never blocks; waiting is a poll of the countdown.
type Monitor struct {
	cfg   Config
	timer DebounceTimer

	machine MachineState
	// cur is the latest classification and the classifier's hysteresis
	// reference; while a change is pending it holds the staged candidate,
	// not the displayed level.
	cur Level
	// prev is the classification before cur.
	prev Level
	// committed is the level currently shown on the indicator.
	committed Level
	ready     bool
	voltage   float64
	counts    TransitionCounts
}

// NewMonitor creates a monitor in the Initializing state, assuming a High
// level until the first plausible reading says otherwise.
func NewMonitor(cfg Config) *Monitor {
	return &Monitor{
		cfg:       cfg,
		machine:   StateInitializing,
		cur:       LevelHigh,
		prev:      LevelHigh,
		committed: LevelHigh,
	}
}

// Timer exposes the debounce countdown for the tick source. The tick source
// must call only Tick on it.
func (m *Monitor) Timer() *DebounceTimer {
	return &m.timer
}

// Machine returns the monitor's current state.
func (m *Monitor) Machine() MachineState {
	return m.machine
}

// Level returns the committed battery level. Before the first commit it
// returns the High seed; check Ready to distinguish.
func (m *Monitor) Level() Level {
	return m.committed
}

// Ready reports whether the first commit has happened.
func (m *Monitor) Ready() bool {
	return m.ready
}

// Voltage returns the most recent accepted reading.
func (m *Monitor) Voltage() float64 {
	return m.voltage
}

// Counts returns the transition counters.
func (m *Monitor) Counts() TransitionCounts {
	return m.counts
}

// Step runs one pass of the state machine and returns a Commit when the pass
// ended in the Committing state, nil otherwise. Sampling happens only in the
// Initializing and Measuring states; Debouncing polls the countdown without
// touching the sampler.
func (m *Monitor) Step(s Sampler) *Commit {
	switch m.machine {
	case StateInitializing:
		return m.stepInitializing(s)
	case StateMeasuring:
		m.stepMeasuring(s)
		return nil
	case StateDebouncing:
		if m.timer.Expired() {
			m.machine = StateMeasuring
		}
		return nil
	case StateCommitting:
		m.machine = StateMeasuring
		return m.commit()
	default:
		return nil
	}
}

// stepInitializing discards readings outside the plausibility envelope. The
// first plausible reading is classified from the High seed, committed
// immediately, and the short window is armed before handing over to
// Measuring.
func (m *Monitor) stepInitializing(s Sampler) *Commit {
	v := s.Sample()
	if !m.cfg.Envelope.Contains(v) {
		m.counts.Discarded++
		return nil
	}
	m.prev = m.cur
	m.cur = m.cfg.Thresholds.Classify(m.cur, v)
	m.voltage = v
	m.timer.Arm(m.cfg.ticks(m.cfg.ShortDebounce))
	m.machine = StateMeasuring
	return m.commit()
}

// stepMeasuring classifies a fresh reading. A repeat of the previous
// classification goes straight to Committing; a new candidate stages it,
// arms the full window, and waits it out in Debouncing.
func (m *Monitor) stepMeasuring(s Sampler) {
	v := s.Sample()
	m.voltage = v
	m.cur = m.cfg.Thresholds.Classify(m.cur, v)
	if m.cur != m.prev {
		m.prev = m.cur
		m.timer.Arm(m.cfg.ticks(m.cfg.LongDebounce))
		m.machine = StateDebouncing
		return
	}
	m.machine = StateCommitting
}

// commit applies cur as the displayed level. Changed is set only when the
// indicator actually needs a write, so each transition reaches the hardware
// exactly once.
func (m *Monitor) commit() *Commit {
	c := &Commit{
		Level:    m.cur,
		Previous: m.committed,
		Voltage:  m.voltage,
		Changed:  !m.ready || m.cur != m.committed,
	}
	if c.Changed {
		switch m.cur {
		case LevelLow:
			m.counts.ToLow++
		case LevelMedium:
			m.counts.ToMedium++
		case LevelHigh:
			m.counts.ToHigh++
		}
	}
	m.committed = m.cur
	m.ready = true
	return c
}
