// Package logic contains pure business logic for battery level tracking.
// This package has NO external dependencies (no I2C, GPIO, OS, or time.Sleep).
// Debounce time is counted in hardware ticks fed in through DebounceTimer.Tick.
package logic

// Level represents the discretized battery charge bucket shown on the indicator.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "LOW"
	case LevelMedium:
		return "MEDIUM"
	case LevelHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// MachineState is the monitor's position in its measure/debounce/commit cycle.
type MachineState int

const (
	StateInitializing MachineState = iota
	StateMeasuring
	StateDebouncing
	StateCommitting
)

func (s MachineState) String() string {
	switch s {
	case StateInitializing:
		return "INITIALIZING"
	case StateMeasuring:
		return "MEASURING"
	case StateDebouncing:
		return "DEBOUNCING"
	case StateCommitting:
		return "COMMITTING"
	default:
		return "UNKNOWN"
	}
}

// Sampler produces one voltage reading, in volts, per call.
type Sampler interface {
	Sample() float64
}

// Commit reports a pass through the Committing state.
type Commit struct {
	// Level is the committed battery level.
	Level Level
	// Previous is the level shown before this commit.
	Previous Level
	// Voltage is the reading that produced the commit.
	Voltage float64
	// Changed is true when the indicator needs a write. Re-affirming
	// commits of an unchanged level report Changed=false.
	Changed bool
}

// TransitionCounts tracks committed level changes since startup.
type TransitionCounts struct {
	ToLow    int
	ToMedium int
	ToHigh   int
	// Discarded counts implausible readings dropped during Initializing.
	Discarded int
}
