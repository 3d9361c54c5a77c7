package logic

import (
	"testing"
)

// scriptSampler returns scripted voltages and counts how often it is asked.
// When the script runs out it repeats the last value.
type scriptSampler struct {
	values []float64
	index  int
	calls  int
}

func (s *scriptSampler) Sample() float64 {
	s.calls++
	v := s.values[s.index]
	if s.index < len(s.values)-1 {
		s.index++
	}
	return v
}

// expire burns the debounce countdown down to zero.
func expire(m *Monitor) {
	for !m.Timer().Expired() {
		m.Timer().Tick()
	}
}

// stepUntilCommit runs Step until a commit is produced, failing the test if
// none arrives within limit steps. The countdown is ticked while debouncing.
func stepUntilCommit(t *testing.T, m *Monitor, s Sampler, limit int) *Commit {
	t.Helper()
	for i := 0; i < limit; i++ {
		if m.Machine() == StateDebouncing {
			expire(m)
		}
		if c := m.Step(s); c != nil {
			return c
		}
	}
	t.Fatalf("no commit within %d steps", limit)
	return nil
}

func TestNewMonitor(t *testing.T) {
	m := NewMonitor(DefaultConfig())

	if m.Machine() != StateInitializing {
		t.Errorf("machine: got %s, want INITIALIZING", m.Machine())
	}
	if m.Ready() {
		t.Error("new monitor should not be ready")
	}
	if m.Level() != LevelHigh {
		t.Errorf("seed level: got %s, want HIGH", m.Level())
	}
}

func TestInitializingDiscardsImplausible(t *testing.T) {
	m := NewMonitor(DefaultConfig())
	s := &scriptSampler{values: []float64{4.6, 0.0, 2.2, 3.5}}

	for i := 0; i < 3; i++ {
		if c := m.Step(s); c != nil {
			t.Fatalf("step %d: unexpected commit for implausible reading", i)
		}
		if m.Machine() != StateInitializing {
			t.Fatalf("step %d: left Initializing on implausible reading", i)
		}
	}
	if m.Counts().Discarded != 3 {
		t.Errorf("Discarded: got %d, want 3", m.Counts().Discarded)
	}

	c := m.Step(s)
	if c == nil {
		t.Fatal("expected initial commit on first plausible reading")
	}
	if c.Level != LevelHigh {
		t.Errorf("initial level: got %s, want HIGH", c.Level)
	}
	if !c.Changed {
		t.Error("initial commit should report Changed")
	}
	if !m.Ready() {
		t.Error("monitor should be ready after initial commit")
	}
	if m.Machine() != StateMeasuring {
		t.Errorf("machine: got %s, want MEASURING", m.Machine())
	}
}

func TestInitialCommitArmsShortWindow(t *testing.T) {
	m := NewMonitor(DefaultConfig())
	s := &scriptSampler{values: []float64{3.5}}

	m.Step(s)

	if got := m.Timer().Remaining(); got != 16 {
		t.Errorf("short window: got %d ticks, want 16", got)
	}
}

func TestInitialCommitClassifiesFromHighSeed(t *testing.T) {
	// 2.9V seeded from High lands in Medium, not Low.
	m := NewMonitor(DefaultConfig())
	s := &scriptSampler{values: []float64{2.9}}

	c := m.Step(s)
	if c == nil {
		t.Fatal("expected initial commit")
	}
	if c.Level != LevelMedium {
		t.Errorf("initial level: got %s, want MEDIUM", c.Level)
	}
}

func TestStableLevelReaffirmsWithoutDebounce(t *testing.T) {
	m := NewMonitor(DefaultConfig())
	s := &scriptSampler{values: []float64{3.5}}

	m.Step(s) // initial commit, High

	if c := m.Step(s); c != nil {
		t.Fatal("Measuring pass should not commit directly")
	}
	if m.Machine() != StateCommitting {
		t.Fatalf("machine: got %s, want COMMITTING (no debounce for a stable level)", m.Machine())
	}

	c := m.Step(s)
	if c == nil {
		t.Fatal("expected re-affirming commit")
	}
	if c.Changed {
		t.Error("re-affirming commit must not report Changed")
	}
	if c.Level != LevelHigh {
		t.Errorf("level: got %s, want HIGH", c.Level)
	}

	counts := m.Counts()
	if counts.ToHigh != 1 {
		t.Errorf("ToHigh: got %d, want 1 (initial commit only)", counts.ToHigh)
	}
}

func TestLevelChangeDebouncedThenCommitted(t *testing.T) {
	m := NewMonitor(DefaultConfig())
	s := &scriptSampler{values: []float64{3.5, 2.9}}

	m.Step(s) // initial commit at High from 3.5V

	// 2.9V classifies Medium; the change is staged, not committed.
	if c := m.Step(s); c != nil {
		t.Fatal("staged change must not commit")
	}
	if m.Machine() != StateDebouncing {
		t.Fatalf("machine: got %s, want DEBOUNCING", m.Machine())
	}
	if got := m.Timer().Remaining(); got != 752 {
		t.Errorf("long window: got %d ticks, want 752", got)
	}
	if m.Level() != LevelHigh {
		t.Errorf("displayed level during debounce: got %s, want HIGH", m.Level())
	}

	// The countdown holds the machine in Debouncing.
	if c := m.Step(s); c != nil || m.Machine() != StateDebouncing {
		t.Fatal("machine left Debouncing before the window elapsed")
	}

	expire(m)
	m.Step(s) // Debouncing -> Measuring
	m.Step(s) // re-measure 2.9V, still Medium -> Committing

	c := m.Step(s)
	if c == nil {
		t.Fatal("expected commit after confirmed change")
	}
	if c.Level != LevelMedium || !c.Changed {
		t.Errorf("commit: got level=%s changed=%v, want MEDIUM changed", c.Level, c.Changed)
	}
	if c.Previous != LevelHigh {
		t.Errorf("Previous: got %s, want HIGH", c.Previous)
	}
	if m.Level() != LevelMedium {
		t.Errorf("displayed level: got %s, want MEDIUM", m.Level())
	}
	if m.Counts().ToMedium != 1 {
		t.Errorf("ToMedium: got %d, want 1", m.Counts().ToMedium)
	}
}

func TestNoisySampleSuppressed(t *testing.T) {
	m := NewMonitor(DefaultConfig())
	// One 2.9V blip between solid 3.5V readings.
	s := &scriptSampler{values: []float64{3.5, 2.9, 3.5}}

	m.Step(s) // initial commit at High
	m.Step(s) // blip stages Medium, arms the window

	expire(m)
	m.Step(s) // Debouncing -> Measuring
	m.Step(s) // re-measure 3.5V: back to High, staged again

	if m.Machine() != StateDebouncing {
		t.Fatalf("machine: got %s, want DEBOUNCING (reverted candidate re-debounces)", m.Machine())
	}

	expire(m)
	m.Step(s)
	m.Step(s)

	c := m.Step(s)
	if c == nil {
		t.Fatal("expected re-affirming commit")
	}
	if c.Changed {
		t.Error("suppressed blip must not change the indicator")
	}
	if m.Level() != LevelHigh {
		t.Errorf("displayed level: got %s, want HIGH", m.Level())
	}
}

func TestMediumToLowCommits(t *testing.T) {
	m := NewMonitor(DefaultConfig())
	s := &scriptSampler{values: []float64{2.9, 2.7}}

	c := m.Step(s)
	if c.Level != LevelMedium {
		t.Fatalf("initial level: got %s, want MEDIUM", c.Level)
	}

	c = stepUntilCommit(t, m, s, 20)
	if c.Level != LevelLow || !c.Changed {
		t.Errorf("commit: got level=%s changed=%v, want LOW changed", c.Level, c.Changed)
	}
}

func TestHighDirectToLow(t *testing.T) {
	m := NewMonitor(DefaultConfig())
	s := &scriptSampler{values: []float64{3.5, 2.5}}

	m.Step(s) // High

	c := stepUntilCommit(t, m, s, 20)
	if c.Level != LevelLow {
		t.Errorf("level: got %s, want LOW (2.5V is at or below RedLow)", c.Level)
	}
}

func TestNoSamplingWhileDebouncing(t *testing.T) {
	m := NewMonitor(DefaultConfig())
	s := &scriptSampler{values: []float64{3.5, 2.9}}

	m.Step(s) // sample 1 (init)
	m.Step(s) // sample 2 (measure, stages Medium)
	calls := s.calls

	for i := 0; i < 10; i++ {
		m.Step(s)
	}
	if s.calls != calls {
		t.Errorf("sampler called %d times while debouncing, want 0", s.calls-calls)
	}
}

func TestRisingRecovery(t *testing.T) {
	// Low pack put on charge: Low -> Medium at RedHigh, Medium -> High at
	// YellowHigh.
	m := NewMonitor(DefaultConfig())
	s := &scriptSampler{values: []float64{2.5, 3.0}}

	c := m.Step(s)
	if c.Level != LevelLow {
		t.Fatalf("initial level: got %s, want LOW", c.Level)
	}

	c = stepUntilCommit(t, m, s, 20)
	if c.Level != LevelMedium {
		t.Fatalf("level at 3.0V: got %s, want MEDIUM (rising edge inclusive)", c.Level)
	}

	s.values = []float64{3.35}
	s.index = 0
	c = stepUntilCommit(t, m, s, 20)
	if c.Level != LevelHigh {
		t.Errorf("level at 3.35V: got %s, want HIGH", c.Level)
	}

	counts := m.Counts()
	if counts.ToLow != 1 || counts.ToMedium != 1 || counts.ToHigh != 1 {
		t.Errorf("counts: got %+v, want one transition to each level", counts)
	}
}
