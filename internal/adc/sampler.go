package adc

// Sampler converts raw conversion codes into volts.
//
// A raw code of zero would put a zero divisor in the scaling formula; the
// converter reports it briefly at power-up. Sample substitutes the last
// valid reading instead (0 V before any valid reading, which the monitor's
// plausibility envelope rejects), so the division never runs degenerate.
type Sampler struct {
	r    RawReader
	last float64
}

// NewSampler creates a Sampler over the given raw reader.
func NewSampler(r RawReader) *Sampler {
	return &Sampler{r: r}
}

// Sample returns the battery voltage for the most recent conversion.
// Read errors and degenerate raw codes yield the previous valid reading;
// sampling faults never surface past this point.
func (s *Sampler) Sample() float64 {
	raw, err := s.r.ReadRaw()
	if err != nil || raw == 0 {
		return s.last
	}
	s.last = Vref * FullScale / float64(raw)
	return s.last
}
