package winding

import (
	"math"

	"github.com/san-kum/windscope/internal/wave"
)

// maxGridLines caps HalfLapTimes for very high lap rates.
const maxGridLines = 4096

// Inputs is everything a full recompute depends on.
type Inputs struct {
	Oscillators        []wave.Oscillator
	Range              wave.Range
	LapRate            float64
	SignalResolution   int
	TraceResolution    int
	CentroidResolution int
	SweepWidth         int
	Origin             Point
	DisplayRadius      float64
	// Workers > 1 spreads the spectral sweep over that many goroutines.
	Workers int
}

// Analysis holds every view derived from one set of Inputs.
type Analysis struct {
	LapRate     float64
	Signal      wave.Samples
	Trace       Trace
	Centroid    Point
	Spectrum    Spectrum
	HalfLaps    []float64
	LapsInRange float64
}

// withDefaults fills unset resolutions and radius with the stock values.
func (in Inputs) withDefaults() Inputs {
	if in.SignalResolution <= 0 {
		in.SignalResolution = DefaultSignalResolution
	}
	if in.TraceResolution <= 0 {
		in.TraceResolution = DefaultTraceResolution
	}
	if in.CentroidResolution <= 0 {
		in.CentroidResolution = DefaultCentroidResolution
	}
	if in.SweepWidth <= 0 {
		in.SweepWidth = DefaultSweepWidth
	}
	if in.DisplayRadius <= 0 {
		in.DisplayRadius = AnalysisRadius
	}
	return in
}

// Analyze recomputes every derived view. It is the only entry point the
// interactive surfaces call when their inputs change.
func Analyze(in Inputs) Analysis {
	in = in.withDefaults()
	lap := NormalizeLapRate(in.LapRate)
	rangeMs := in.Range.Len()

	return Analysis{
		LapRate:     lap,
		Signal:      wave.SampleRange(in.Oscillators, in.Range, in.SignalResolution),
		Trace:       NewTrace(in.Oscillators, in.Range, lap, in.TraceResolution, in.Origin, in.DisplayRadius),
		Centroid:    Centroid(in.Oscillators, lap, in.Range.StartMs, rangeMs, in.CentroidResolution),
		Spectrum:    newSpectrum(in.Oscillators, lap, in.Range.StartMs, rangeMs, in.SweepWidth, in.Workers),
		HalfLaps:    HalfLapTimes(in.Range, lap),
		LapsInRange: LapsInRange(in.Range, lap),
	}
}

// LapsInRange is the number of windings the lap rate makes over r.
func LapsInRange(r wave.Range, lapRate float64) float64 {
	return r.Len() / 1000 * NormalizeLapRate(lapRate)
}

// HalfLapTimes returns the instants inside r where the winding angle is a
// multiple of pi, for drawing a reference grid over the time-domain view.
func HalfLapTimes(r wave.Range, lapRate float64) []float64 {
	step := 500 / NormalizeLapRate(lapRate)
	if r.Len() <= 0 || !isFinite(step) || step <= 0 {
		return []float64{}
	}
	first := r.StartMs - math.Mod(r.StartMs, step)
	times := make([]float64, 0, 16)
	for k := 0; len(times) < maxGridLines; k++ {
		t := first + float64(k)*step
		if t > r.EndMs {
			break
		}
		if t >= r.StartMs {
			times = append(times, t)
		}
	}
	return times
}
