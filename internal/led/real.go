//go:build linux

package led

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/battery-led/internal/logic"
)

// RealDriver drives three GPIO output lines, one per color, on actual
// hardware using Linux GPIO character device.
type RealDriver struct {
	chip   *gpiocdev.Chip
	red    *gpiocdev.Line
	yellow *gpiocdev.Line
	green  *gpiocdev.Line
}

// NewRealDriver requests the three indicator lines as outputs, all low
// (indicator dark) until the first Set.
func NewRealDriver(pinRed, pinYellow, pinGreen int) (*RealDriver, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	red, err := chip.RequestLine(pinRed, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request red pin %d: %w", pinRed, err)
	}

	yellow, err := chip.RequestLine(pinYellow, gpiocdev.AsOutput(0))
	if err != nil {
		red.Close()
		chip.Close()
		return nil, fmt.Errorf("request yellow pin %d: %w", pinYellow, err)
	}

	green, err := chip.RequestLine(pinGreen, gpiocdev.AsOutput(0))
	if err != nil {
		yellow.Close()
		red.Close()
		chip.Close()
		return nil, fmt.Errorf("request green pin %d: %w", pinGreen, err)
	}

	return &RealDriver{
		chip:   chip,
		red:    red,
		yellow: yellow,
		green:  green,
	}, nil
}

// Set lights the line for level and clears the other two. The lit line is
// written last so at most one color shows during the update.
func (d *RealDriver) Set(level logic.Level) error {
	lit := d.line(level)
	if lit == nil {
		return fmt.Errorf("no indicator line for level %s", level)
	}

	for _, l := range []*gpiocdev.Line{d.red, d.yellow, d.green} {
		if l == lit {
			continue
		}
		if err := l.SetValue(0); err != nil {
			return fmt.Errorf("clear line: %w", err)
		}
	}
	if err := lit.SetValue(1); err != nil {
		return fmt.Errorf("set %s line: %w", Color(level), err)
	}
	return nil
}

func (d *RealDriver) line(level logic.Level) *gpiocdev.Line {
	switch level {
	case logic.LevelLow:
		return d.red
	case logic.LevelMedium:
		return d.yellow
	case logic.LevelHigh:
		return d.green
	default:
		return nil
	}
}

// Close drives all lines low before releasing them, so the indicator goes
// dark rather than freezing on the last color.
func (d *RealDriver) Close() error {
	var errs []error

	for _, l := range []*gpiocdev.Line{d.red, d.yellow, d.green} {
		if l == nil {
			continue
		}
		if err := l.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear line: %w", err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
