package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/windscope/internal/wave"
	"github.com/san-kum/windscope/internal/winding"
)

const (
	DefaultSteps      = 200
	DefaultRefineIter = 40

	invPhi = 0.6180339887498949
)

// Peak is the lap rate whose winding departs furthest from the bare circle.
type Peak struct {
	Lap      float64
	Strength float64
	Centroid winding.Point
}

type GridSearch struct {
	lo, hi     float64
	steps      int
	refineIter int
}

func NewGridSearch(lo, hi float64, steps int) *GridSearch {
	if steps < 2 {
		steps = DefaultSteps
	}
	return &GridSearch{lo: lo, hi: hi, steps: steps, refineIter: DefaultRefineIter}
}

func (g *GridSearch) WithRefinement(iter int) *GridSearch {
	g.refineIter = iter
	return g
}

// Search scans the band on a uniform grid, then narrows the best cell with a
// golden-section search.
func (g *GridSearch) Search(ctx context.Context, oscs []wave.Oscillator, startMs, rangeMs float64) (Peak, error) {
	if !(g.hi > g.lo) || g.lo <= 0 {
		return Peak{}, fmt.Errorf("invalid band [%g, %g]", g.lo, g.hi)
	}
	if len(oscs) == 0 {
		return Peak{Lap: g.lo}, nil
	}

	step := (g.hi - g.lo) / float64(g.steps-1)
	best := Peak{Strength: math.Inf(-1)}
	for i := 0; i < g.steps; i++ {
		select {
		case <-ctx.Done():
			return best, ctx.Err()
		default:
		}

		lap := g.lo + float64(i)*step
		if p := Evaluate(oscs, lap, startMs, rangeMs); p.Strength > best.Strength {
			best = p
		}
	}

	a := math.Max(g.lo, best.Lap-step)
	b := math.Min(g.hi, best.Lap+step)
	for i := 0; i < g.refineIter && b-a > 1e-9; i++ {
		c := b - (b-a)*invPhi
		d := a + (b-a)*invPhi
		if Strength(oscs, c, startMs, rangeMs) > Strength(oscs, d, startMs, rangeMs) {
			b = d
		} else {
			a = c
		}
	}
	if p := Evaluate(oscs, (a+b)/2, startMs, rangeMs); p.Strength > best.Strength {
		best = p
	}
	return best, nil
}

// Evaluate measures one lap rate.
func Evaluate(oscs []wave.Oscillator, lap, startMs, rangeMs float64) Peak {
	c := winding.Centroid(oscs, lap, startMs, rangeMs, winding.DefaultCentroidResolution)
	return Peak{Lap: lap, Centroid: c, Strength: c.Sub(circleMean(lap, startMs, rangeMs)).Norm()}
}

// Strength is the distance between the signal centroid and the centroid of
// the unmodulated base circle. Subtracting the circle removes the pull every
// lap rate below one full winding shows regardless of the signal.
func Strength(oscs []wave.Oscillator, lap, startMs, rangeMs float64) float64 {
	return Evaluate(oscs, lap, startMs, rangeMs).Strength
}

func circleMean(lap, startMs, rangeMs float64) winding.Point {
	n := winding.DefaultCentroidResolution
	m := winding.NewMapper(winding.Point{}, winding.AnalysisRadius, winding.NormalizeLapRate(lap), 1)
	pts := make([]winding.Point, n)
	for i := range pts {
		pts[i] = m.Wind(wave.SampleTime(startMs, rangeMs, i, n), 0)
	}
	return winding.Mean(pts)
}
