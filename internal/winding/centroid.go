package winding

import "github.com/san-kum/windscope/internal/wave"

const (
	DefaultCentroidResolution = 200
	DefaultTraceResolution    = 1000
	DefaultSignalResolution   = 400
)

// Centroid winds resolution samples of [startMs, startMs+rangeMs] at
// AnalysisRadius around the origin and returns their mean.
func Centroid(oscs []wave.Oscillator, lapRate, startMs, rangeMs float64, resolution int) Point {
	if len(oscs) == 0 || resolution <= 0 {
		return Point{}
	}
	s := wave.Sample(oscs, startMs, rangeMs, resolution)
	m := NewMapper(Point{}, AnalysisRadius, NormalizeLapRate(lapRate), s.MaxAbs)
	return Mean(m.WindAll(s))
}

// Mean returns the average of pts, or the zero point for an empty slice.
func Mean(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sum Point
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(pts)))
}

// Trace is a wound polyline together with the mean of its points.
type Trace struct {
	Points   []Point
	Centroid Point
	Mapper   Mapper
}

// NewTrace winds the whole range around origin at baseRadius, for display.
func NewTrace(oscs []wave.Oscillator, r wave.Range, lapRate float64, resolution int, origin Point, baseRadius float64) Trace {
	m := NewMapper(origin, baseRadius, NormalizeLapRate(lapRate), 0)
	if len(oscs) == 0 || resolution <= 0 {
		return Trace{Points: []Point{}, Centroid: origin, Mapper: m}
	}
	s := wave.SampleRange(oscs, r, resolution)
	m = NewMapper(origin, baseRadius, NormalizeLapRate(lapRate), s.MaxAbs)
	pts := m.WindAll(s)
	return Trace{Points: pts, Centroid: Mean(pts), Mapper: m}
}

// DisplayRadius is the base radius the trace uses on a w x h surface.
func DisplayRadius(w, h float64) float64 {
	r := w / 2
	if h/2 < r {
		r = h / 2
	}
	if r < 0 {
		return 0
	}
	return r * 0.5
}
