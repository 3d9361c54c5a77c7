package led

import "github.com/sweeney/battery-led/internal/logic"

// FakeDriver is a test double that records indicator writes.
type FakeDriver struct {
	// Writes holds every level passed to Set, in order.
	Writes []logic.Level

	// Closed tracks if Close was called
	Closed bool

	// SetError, if set, will be returned by Set()
	SetError error
}

// NewFakeDriver creates an empty FakeDriver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{}
}

// Set records the level.
func (f *FakeDriver) Set(level logic.Level) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Writes = append(f.Writes, level)
	return nil
}

// Close marks the driver as closed.
func (f *FakeDriver) Close() error {
	f.Closed = true
	return nil
}

// Current returns the last written level; ok is false before any write.
func (f *FakeDriver) Current() (level logic.Level, ok bool) {
	if len(f.Writes) == 0 {
		return 0, false
	}
	return f.Writes[len(f.Writes)-1], true
}
