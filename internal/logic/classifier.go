package logic

// Thresholds holds the classifier's voltage boundaries, in volts.
//
// The gap between RedLow/RedHigh and between YellowLow/YellowHigh is the
// hysteresis band: a falling voltage only needs to cross the Low boundary of
// the band below, while a rising voltage must clear the High boundary of the
// band above. A voltage hovering inside a gap keeps the current level.
type Thresholds struct {
	RedLow     float64
	RedHigh    float64
	YellowLow  float64
	YellowHigh float64
}

// DefaultThresholds are the board's design constants. They are not
// runtime-configurable.
var DefaultThresholds = Thresholds{
	RedLow:     2.8,
	RedHigh:    3.0,
	YellowLow:  3.1,
	YellowHigh: 3.3,
}

// Classify returns the candidate level for voltage v given the current
// level. The comparison table depends on current, which is what gives the
// classifier its hysteresis. An unrecognized current level is returned
// unchanged.
func (t Thresholds) Classify(current Level, v float64) Level {
	switch current {
	case LevelHigh:
		switch {
		case v > t.RedLow && v < t.YellowLow:
			return LevelMedium
		case v <= t.RedLow:
			return LevelLow
		default:
			return LevelHigh
		}
	case LevelMedium:
		switch {
		case v <= t.RedLow:
			return LevelLow
		case v >= t.YellowHigh:
			return LevelHigh
		default:
			return LevelMedium
		}
	case LevelLow:
		switch {
		case v >= t.RedHigh && v < t.YellowHigh:
			return LevelMedium
		case v >= t.YellowHigh:
			return LevelHigh
		default:
			return LevelLow
		}
	default:
		return current
	}
}

// Envelope is the range of physically plausible pack voltages, inclusive.
// The first few conversions after power-up read far too high and are
// rejected against it during Initializing.
type Envelope struct {
	Min float64
	Max float64
}

// DefaultEnvelope covers a single Li-ion cell from cutoff to full charge.
var DefaultEnvelope = Envelope{Min: 2.3, Max: 4.2}

// Contains reports whether v is a plausible pack voltage.
func (e Envelope) Contains(v float64) bool {
	return v >= e.Min && v <= e.Max
}
