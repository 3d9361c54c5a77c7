// Package adc reads the battery voltage through an I2C analog-to-digital
// converter. The real implementation talks to the device with periph.io.
// The fake implementation allows testing without hardware.
package adc

// Calibration constants for the converter and its divider network.
// V = Vref * FullScale / raw.
const (
	Vref      = 1.13
	FullScale = 1024
)

// DefaultAddr is the converter's I2C address.
const DefaultAddr uint16 = 0x48

// RawReader reads the most recent completed conversion code.
// The converter free-runs, so a read never waits for a conversion.
type RawReader interface {
	ReadRaw() (uint16, error)

	// Close releases reader resources.
	Close() error
}
