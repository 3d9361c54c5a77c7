// Package led drives the tri-color battery indicator.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package led

import "github.com/sweeney/battery-led/internal/logic"

// Driver sets the indicator color for a battery level.
type Driver interface {
	// Set lights the line for the level's color and clears the others.
	// Exactly one color is lit after a successful Set.
	Set(level logic.Level) error

	// Close turns the indicator off and releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultPinRed    = 17
	DefaultPinYellow = 27
	DefaultPinGreen  = 22
)

// Color returns the indicator color name for a level.
func Color(level logic.Level) string {
	switch level {
	case logic.LevelLow:
		return "red"
	case logic.LevelMedium:
		return "yellow"
	case logic.LevelHigh:
		return "green"
	default:
		return "off"
	}
}
