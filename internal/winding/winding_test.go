package winding

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/windscope/internal/wave"
)

func oneHertz() []wave.Oscillator {
	return []wave.Oscillator{{Frequency: 1}}
}

func TestCentroidEmpty(t *testing.T) {
	for _, lap := range []float64{-1, 0, 1, 37, 1e4} {
		require.Equal(t, Point{}, Centroid(nil, lap, 0, 1000, DefaultCentroidResolution))
	}
	require.Equal(t, Point{}, Centroid(oneHertz(), 1, 0, 1000, 0))
	require.Equal(t, Point{}, Centroid(oneHertz(), 1, 0, 1000, -4))
}

func TestCentroidResonance(t *testing.T) {
	matched := Centroid(oneHertz(), 1, 0, 1000, DefaultCentroidResolution)
	mismatched := Centroid(oneHertz(), 37, 0, 1000, DefaultCentroidResolution)

	assert.Greater(t, matched.Norm(), 30.0, "matched lap rate should pull the centroid off center")
	assert.InDelta(t, 39.8, matched.Y, 0.1)
	assert.Less(t, mismatched.Norm(), 1.0, "mismatched lap rate should leave the centroid near the origin")
}

func TestCentroidDeterministic(t *testing.T) {
	oscs := []wave.Oscillator{{Frequency: 3, Phase: 10}, {Frequency: 7.5, Phase: 200}}
	a := Centroid(oscs, 3, 5, 900, 200)
	b := Centroid(oscs, 3, 5, 900, 200)
	require.Equal(t, a, b)
}

func TestCentroidCoercesLapRate(t *testing.T) {
	oscs := oneHertz()
	want := Centroid(oscs, 1, 0, 1000, 200)
	require.Equal(t, want, Centroid(oscs, 0, 0, 1000, 200))
	require.Equal(t, want, Centroid(oscs, -3, 0, 1000, 200))
}

func TestCentroidDegenerateRange(t *testing.T) {
	c := Centroid(oneHertz(), 1, 0, 0, 200)
	require.True(t, c.IsFinite())

	c = Centroid(oneHertz(), 1, 1000, -1000, 200)
	require.True(t, c.IsFinite())
}

func TestMapperWind(t *testing.T) {
	m := NewMapper(Point{X: 10, Y: -5}, 100, 1, 2)
	require.InDelta(t, 40.0, m.AmplitudeScale, 1e-12)

	p := m.Wind(0, 0)
	assert.InDelta(t, 110.0, p.X, 1e-9)
	assert.InDelta(t, -5.0, p.Y, 1e-9)

	// quarter lap, full-scale sample
	p = m.Wind(250, 2)
	assert.InDelta(t, 10.0, p.X, 1e-9)
	assert.InDelta(t, -5.0+180.0, p.Y, 1e-9)

	q := WindPoint(Point{X: 10, Y: -5}, 250, 2, 1, 100, m.AmplitudeScale)
	assert.Equal(t, p, q)
}

func TestMapperSilentSignal(t *testing.T) {
	oscs := []wave.Oscillator{{Frequency: 440}, {Frequency: 440, Phase: 180}}
	tr := NewTrace(oscs, wave.Range{StartMs: 0, EndMs: 16}, 60, 500, Point{}, 50)

	require.Len(t, tr.Points, 500)
	require.InDelta(t, 40.0, tr.Mapper.AmplitudeScale, 1e-12)
	for _, p := range tr.Points {
		require.True(t, p.IsFinite())
		require.InDelta(t, 50.0, p.Norm(), 1e-6)
	}
}

func TestNormalizeLapRate(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{0, 1},
		{-2, 1},
		{math.NaN(), 1},
		{math.Inf(1), 1},
		{0.25, 0.25},
		{60, 60},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeLapRate(tt.in), "lap %v", tt.in)
	}
}

func TestSweepLengthAndDomain(t *testing.T) {
	oscs := oneHertz()
	for _, w := range []int{1, 2, 17, 120} {
		require.Len(t, Sweep(oscs, 3, 0, 1000, w), w)
	}
	require.Empty(t, Sweep(oscs, 3, 0, 1000, 0))
	require.Empty(t, Sweep(oscs, 3, 0, 1000, -1))

	laps := SweepLaps(60, 5)
	require.Len(t, laps, 5)
	assert.InDelta(t, 0.1, laps[0], 1e-12)
	assert.InDelta(t, 120.0, laps[4], 1e-12)

	laps = SweepLaps(0.2, 3)
	assert.InDelta(t, 1.0, laps[2], 1e-12, "domain never ends below 1")

	laps = SweepLaps(0, 3)
	assert.InDelta(t, 2.0, laps[2], 1e-12, "zero reference is coerced to 1")

	laps = SweepLaps(5, 1)
	assert.Equal(t, []float64{0.1}, laps)
}

func TestSweepParallelMatchesSweep(t *testing.T) {
	oscs := []wave.Oscillator{{Frequency: 2}, {Frequency: 5, Phase: 90}}
	seq := Sweep(oscs, 4, 0, 1000, 64)
	for _, workers := range []int{0, 1, 3, 16} {
		require.Equal(t, seq, SweepParallel(oscs, 4, 0, 1000, 64, workers))
	}
}

func TestSpectrumMarker(t *testing.T) {
	oscs := []wave.Oscillator{{Frequency: 5, Phase: 90}}
	s := NewSpectrum(oscs, 5, 0, 1000, 40)

	require.Len(t, s.Values, 40)
	require.Len(t, s.Laps, 40)
	assert.Equal(t, 5.0, s.Marker.Lap)
	assert.Greater(t, s.Marker.X, 30.0)
	assert.GreaterOrEqual(t, s.Scale, 1.0)

	col, ok := s.MarkerColumn()
	require.True(t, ok)
	assert.InDelta(t, (5-0.1)/(10-0.1)*39, col, 1e-9)
}

func TestSpectrumSilentScale(t *testing.T) {
	s := NewSpectrum(nil, 60, 0, 16, 10)
	require.Len(t, s.Values, 10)
	for _, v := range s.Values {
		require.Zero(t, v)
	}
	require.Equal(t, 1.0, s.Scale)
}

func TestCurveScale(t *testing.T) {
	assert.Equal(t, 1.0, CurveScale(nil))
	assert.Equal(t, 1.0, CurveScale([]float64{0, 1e-12}))
	assert.Equal(t, 7.0, CurveScale([]float64{-7, 3, 2}))
}

func TestHalfLapTimes(t *testing.T) {
	times := HalfLapTimes(wave.Range{StartMs: 0, EndMs: 16}, 60)
	require.Len(t, times, 2)
	assert.InDelta(t, 0.0, times[0], 1e-9)
	assert.InDelta(t, 500.0/60, times[1], 1e-9)

	times = HalfLapTimes(wave.Range{StartMs: 10, EndMs: 1010}, 1)
	assert.Equal(t, []float64{500, 1000}, times)

	assert.Empty(t, HalfLapTimes(wave.Range{StartMs: 10, EndMs: 10}, 1))
	assert.Empty(t, HalfLapTimes(wave.Range{StartMs: 10, EndMs: 0}, 1))
	assert.LessOrEqual(t, len(HalfLapTimes(wave.Range{StartMs: 0, EndMs: 1e6}, 1e6)), maxGridLines)
}

func TestLapsInRange(t *testing.T) {
	assert.InDelta(t, 0.96, LapsInRange(wave.Range{StartMs: 0, EndMs: 16}, 60), 1e-12)
	assert.InDelta(t, 2.0, LapsInRange(wave.Range{StartMs: 0, EndMs: 2000}, 0), 1e-12)
}

func TestSpectrumMarkerOutsideDomain(t *testing.T) {
	s := NewSpectrum(oneHertz(), 0.05, 0, 1000, 40)
	require.Len(t, s.Values, 40)
	assert.Equal(t, 0.05, s.Marker.Lap)

	_, ok := s.MarkerColumn()
	assert.False(t, ok)

	_, ok = Spectrum{Marker: Marker{Lap: 5}}.MarkerColumn()
	assert.False(t, ok)
}

func TestAnalyzeParallelSweep(t *testing.T) {
	in := Inputs{
		Oscillators: []wave.Oscillator{{Frequency: 3}, {Frequency: 7, Phase: 45}},
		Range:       wave.Range{StartMs: 0, EndMs: 1000},
		LapRate:     5,
	}
	seq := Analyze(in)

	in.Workers = 4
	par := Analyze(in)

	require.Len(t, par.Spectrum.Values, DefaultSweepWidth)
	assert.Len(t, par.Spectrum.Laps, len(par.Spectrum.Values))
	assert.Equal(t, seq.Spectrum, par.Spectrum)
}

func TestAnalyze(t *testing.T) {
	in := Inputs{
		Oscillators: oneHertz(),
		Range:       wave.Range{StartMs: 0, EndMs: 1000},
		LapRate:     1,
	}
	a := Analyze(in)

	assert.Equal(t, DefaultSignalResolution, a.Signal.Len())
	assert.Len(t, a.Trace.Points, DefaultTraceResolution)
	assert.Len(t, a.Spectrum.Values, DefaultSweepWidth)
	assert.Equal(t, Centroid(in.Oscillators, 1, 0, 1000, DefaultCentroidResolution), a.Centroid)
	assert.Equal(t, 1.0, a.LapsInRange)

	empty := Analyze(Inputs{Range: wave.Range{StartMs: 5, EndMs: 5}, LapRate: -1})
	assert.Equal(t, 1.0, empty.LapRate)
	assert.Empty(t, empty.Trace.Points)
	assert.Equal(t, Point{}, empty.Centroid)
	assert.Empty(t, empty.HalfLaps)
}

func TestDisplayRadius(t *testing.T) {
	assert.Equal(t, 25.0, DisplayRadius(200, 100))
	assert.Equal(t, 0.0, DisplayRadius(-4, 10))
}

func TestParallelFor(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1001} {
		hits := make([]int32, n)
		var calls int32
		ParallelFor(n, 4, 6, func(start, end int) {
			atomic.AddInt32(&calls, 1)
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			require.EqualValues(t, 1, h, "n=%d index %d", n, i)
		}
		require.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
	}
}
