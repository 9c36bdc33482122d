package winding

import (
	"math"

	"github.com/san-kum/windscope/internal/wave"
)

const (
	// MinSweepLap is the lower bound of every sweep domain.
	MinSweepLap = 0.1

	// DefaultSweepWidth is the column count used when none is configured.
	DefaultSweepWidth = 120
)

// SweepBounds returns the sweep domain [0.1, max(2*lapRef, 1)].
func SweepBounds(lapRef float64) (lo, hi float64) {
	return MinSweepLap, math.Max(2*NormalizeLapRate(lapRef), 1)
}

// SweepLaps returns the lap rate evaluated at each of width columns.
func SweepLaps(lapRef float64, width int) []float64 {
	if width <= 0 {
		return []float64{}
	}
	lo, hi := SweepBounds(lapRef)
	den := width - 1
	if den < 1 {
		den = 1
	}
	laps := make([]float64, width)
	for i := range laps {
		laps[i] = lo + float64(i)/float64(den)*(hi-lo)
	}
	return laps
}

// Sweep evaluates the centroid X coordinate across width lap rates spanning
// the sweep domain of lapRef.
func Sweep(oscs []wave.Oscillator, lapRef, startMs, rangeMs float64, width int) []float64 {
	laps := SweepLaps(lapRef, width)
	out := make([]float64, len(laps))
	for i, lap := range laps {
		out[i] = sweepColumn(oscs, lap, startMs, rangeMs)
	}
	return out
}

// SweepParallel is Sweep with columns spread over workers. The result is
// identical to Sweep.
func SweepParallel(oscs []wave.Oscillator, lapRef, startMs, rangeMs float64, width, workers int) []float64 {
	laps := SweepLaps(lapRef, width)
	out := make([]float64, len(laps))
	ParallelFor(len(laps), 8, workers, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = sweepColumn(oscs, laps[i], startMs, rangeMs)
		}
	})
	return out
}

func sweepColumn(oscs []wave.Oscillator, lap, startMs, rangeMs float64) float64 {
	// unreachable with the 0.1 floor, kept as the documented policy
	if lap <= 0 {
		return 0
	}
	return Centroid(oscs, lap, startMs, rangeMs, DefaultCentroidResolution).X
}

type Marker struct {
	Lap float64
	X   float64
}

// Spectrum is a sweep curve ready for plotting.
type Spectrum struct {
	Laps   []float64
	Values []float64
	Scale  float64
	Marker Marker
}

func (s Spectrum) Lo() float64 {
	lo, _ := SweepBounds(s.Marker.Lap)
	return lo
}

func (s Spectrum) Hi() float64 {
	_, hi := SweepBounds(s.Marker.Lap)
	return hi
}

// NewSpectrum sweeps width columns around lapRef and evaluates the marker at
// exactly lapRef.
func NewSpectrum(oscs []wave.Oscillator, lapRef, startMs, rangeMs float64, width int) Spectrum {
	return newSpectrum(oscs, lapRef, startMs, rangeMs, width, 1)
}

func newSpectrum(oscs []wave.Oscillator, lapRef, startMs, rangeMs float64, width, workers int) Spectrum {
	lap := NormalizeLapRate(lapRef)
	var values []float64
	if workers > 1 {
		values = SweepParallel(oscs, lap, startMs, rangeMs, width, workers)
	} else {
		values = Sweep(oscs, lap, startMs, rangeMs, width)
	}
	return Spectrum{
		Laps:   SweepLaps(lap, width),
		Values: values,
		Scale:  CurveScale(values),
		Marker: Marker{Lap: lap, X: Centroid(oscs, lap, startMs, rangeMs, DefaultCentroidResolution).X},
	}
}

// CurveScale is the guarded max(|min|, |max|) of values.
func CurveScale(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return wave.ScaleFactor(peak)
}

// MarkerColumn maps the marker lap to a fractional column in [0, width-1].
// ok is false when the marker falls outside the sweep domain.
func (s Spectrum) MarkerColumn() (col float64, ok bool) {
	n := len(s.Values)
	lo, hi := s.Lo(), s.Hi()
	if n == 0 || s.Marker.Lap < lo || s.Marker.Lap > hi {
		return 0, false
	}
	if n == 1 {
		return 0, true
	}
	return (s.Marker.Lap - lo) / (hi - lo) * float64(n-1), true
}
