package wave

import "math"

// silenceThreshold is the peak below which a signal counts as silent.
const silenceThreshold = 1e-9

// Range is a time window in milliseconds. Len may be zero or negative.
type Range struct {
	StartMs float64 `json:"start_ms" yaml:"start_ms"`
	EndMs   float64 `json:"end_ms" yaml:"end_ms"`
}

func (r Range) Len() float64 { return r.EndMs - r.StartMs }

// Contains reports whether t lies inside the range, in either direction.
func (r Range) Contains(tMs float64) bool {
	lo, hi := r.StartMs, r.EndMs
	if lo > hi {
		lo, hi = hi, lo
	}
	return tMs >= lo && tMs <= hi
}

// Evaluate returns the composite value sum(sin(2*pi*f*t + phase)) at t seconds.
func Evaluate(oscs []Oscillator, tSec float64) float64 {
	v := 0.0
	for _, o := range oscs {
		v += math.Sin(2*math.Pi*o.Frequency*tSec + o.Phase*math.Pi/180)
	}
	return v
}

type Samples struct {
	Times  []float64 // ms
	Values []float64
	MaxAbs float64
}

func (s Samples) Len() int { return len(s.Values) }

// Scale is the guarded amplitude scale of the samples.
func (s Samples) Scale() float64 { return ScaleFactor(s.MaxAbs) }

// SampleTime returns the i-th sample time in ms for a given resolution.
func SampleTime(startMs, rangeMs float64, i, resolution int) float64 {
	den := resolution - 1
	if den < 1 {
		den = 1
	}
	return startMs + float64(i)/float64(den)*rangeMs
}

// Sample evaluates the composite at resolution evenly spaced instants from
// startMs to startMs+rangeMs inclusive.
func Sample(oscs []Oscillator, startMs, rangeMs float64, resolution int) Samples {
	if resolution <= 0 {
		return Samples{Times: []float64{}, Values: []float64{}}
	}
	s := Samples{
		Times:  make([]float64, resolution),
		Values: make([]float64, resolution),
	}
	for i := 0; i < resolution; i++ {
		tMs := SampleTime(startMs, rangeMs, i, resolution)
		v := Evaluate(oscs, tMs/1000)
		s.Times[i] = tMs
		s.Values[i] = v
		if a := math.Abs(v); a > s.MaxAbs {
			s.MaxAbs = a
		}
	}
	return s
}

func SampleRange(oscs []Oscillator, r Range, resolution int) Samples {
	return Sample(oscs, r.StartMs, r.Len(), resolution)
}

// ScaleFactor guards amplitude normalization against silent signals.
func ScaleFactor(maxAbs float64) float64 {
	if maxAbs > silenceThreshold {
		return maxAbs
	}
	return 1.0
}

// Marker returns the composite value at tMs. Times outside r are omitted.
func Marker(oscs []Oscillator, r Range, tMs float64) (float64, bool) {
	if !r.Contains(tMs) {
		return 0, false
	}
	return Evaluate(oscs, tMs/1000), true
}
