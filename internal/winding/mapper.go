package winding

import (
	"math"

	"github.com/san-kum/windscope/internal/wave"
)

const (
	// AnalysisRadius is the base radius used for centroid extraction. It is
	// an analysis-space constant, independent of any display size.
	AnalysisRadius = 100.0

	// amplitudeShare is the fraction of the base radius a full-scale sample
	// may push the trace outward or inward.
	amplitudeShare = 0.8
)

type Point struct {
	X, Y float64
}

func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) Norm() float64 { return math.Hypot(p.X, p.Y) }
func (p Point) IsFinite() bool { return isFinite(p.X) && isFinite(p.Y) }
func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// NormalizeLapRate coerces zero, negative and NaN lap rates to 1.0.
func NormalizeLapRate(lapRate float64) float64 {
	if !(lapRate > 0) || math.IsInf(lapRate, 0) {
		return 1.0
	}
	return lapRate
}

// Mapper winds samples around Origin at LapRate laps per 1000 ms.
type Mapper struct {
	Origin         Point
	BaseRadius     float64
	LapRate        float64
	AmplitudeScale float64
}

// NewMapper builds a mapper whose amplitude scale is derived from the guarded
// scale factor of the signal being wound.
func NewMapper(origin Point, baseRadius, lapRate, scaleFactor float64) Mapper {
	return Mapper{
		Origin:         origin,
		BaseRadius:     baseRadius,
		LapRate:        lapRate,
		AmplitudeScale: baseRadius * amplitudeShare / wave.ScaleFactor(scaleFactor),
	}
}

func (m Mapper) Angle(timeMs float64) float64 {
	return timeMs / 1000 * m.LapRate * 2 * math.Pi
}

func (m Mapper) Wind(timeMs, value float64) Point {
	angle := m.Angle(timeMs)
	radius := m.BaseRadius + value*m.AmplitudeScale
	return Point{
		X: m.Origin.X + radius*math.Cos(angle),
		Y: m.Origin.Y + radius*math.Sin(angle),
	}
}

// WindAll maps every sample of s.
func (m Mapper) WindAll(s wave.Samples) []Point {
	pts := make([]Point, len(s.Values))
	for i, v := range s.Values {
		pts[i] = m.Wind(s.Times[i], v)
	}
	return pts
}

// WindPoint is the single-call form of Mapper.Wind. amplitudeScale is used
// as given; callers derive it from the guarded scale factor.
func WindPoint(origin Point, timeMs, value, lapRate, baseRadius, amplitudeScale float64) Point {
	m := Mapper{Origin: origin, BaseRadius: baseRadius, LapRate: lapRate, AmplitudeScale: amplitudeScale}
	return m.Wind(timeMs, value)
}

// AmplitudeScale returns baseRadius*0.8 over the guarded scale of maxAbs.
func AmplitudeScale(baseRadius, maxAbs float64) float64 {
	return baseRadius * amplitudeShare / wave.ScaleFactor(maxAbs)
}
