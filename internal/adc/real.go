package adc

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// regResult is the conversion result register. The converter auto-triggers,
// so the register always holds the latest completed code.
const regResult = 0x00

// RealReader reads conversion codes from the converter over I2C.
type RealReader struct {
	dev *i2c.Dev
}

// NewRealReader attaches to the converter on the given bus. It performs a
// probe read so a missing or mis-addressed device fails at startup rather
// than on the first sample.
func NewRealReader(bus i2c.Bus, addr uint16) (*RealReader, error) {
	r := &RealReader{dev: &i2c.Dev{Bus: bus, Addr: addr}}
	if _, err := r.ReadRaw(); err != nil {
		return nil, fmt.Errorf("probe adc at 0x%X: %w", addr, err)
	}
	return r, nil
}

// ReadRaw returns the latest conversion code (result register, big-endian).
func (r *RealReader) ReadRaw() (uint16, error) {
	read := make([]byte, 2)
	if err := r.dev.Tx([]byte{regResult}, read); err != nil {
		return 0, fmt.Errorf("read conversion register: %w", err)
	}
	return uint16(read[0])<<8 | uint16(read[1]), nil
}

// Close releases nothing; the bus is owned and closed by the caller.
func (r *RealReader) Close() error {
	return nil
}
