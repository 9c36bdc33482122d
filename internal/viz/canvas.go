package viz

import (
	"math"
	"strings"

	"github.com/san-kum/windscope/internal/wave"
	"github.com/san-kum/windscope/internal/winding"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// SubWidth and SubHeight are the canvas size in braille dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set lights the dot at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Dashed draws every other run of dash dots along a line.
func (c *Canvas) Dashed(x0, y0, x1, y1, dash int) {
	if dash < 1 {
		dash = 1
	}
	n := absInt(x1-x0) + absInt(y1-y0)
	if n == 0 {
		c.Set(x0, y0)
		return
	}
	for i := 0; i <= n; i++ {
		if (i/dash)%2 != 0 {
			continue
		}
		t := float64(i) / float64(n)
		c.Set(x0+int(math.Round(t*float64(x1-x0))), y0+int(math.Round(t*float64(y1-y0))))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps plane coordinates, y pointing up, onto canvas dots.
type Viewport struct {
	MinX, MaxX, MinY, MaxY float64
	W, H                   int
}

// SquareViewport centers a square window of half-size extent on the
// canvas, padding the longer axis so circles stay round.
func (c *Canvas) SquareViewport(center winding.Point, extent float64) Viewport {
	w, h := float64(c.SubWidth()), float64(c.SubHeight())
	ex, ey := extent, extent
	if w > h {
		ex = extent * w / h
	} else {
		ey = extent * h / w
	}
	return Viewport{
		MinX: center.X - ex, MaxX: center.X + ex,
		MinY: center.Y - ey, MaxY: center.Y + ey,
		W: c.SubWidth(), H: c.SubHeight(),
	}
}

func (v Viewport) Project(x, y float64) (int, int) {
	sx := (x - v.MinX) / (v.MaxX - v.MinX) * float64(v.W-1)
	sy := (v.MaxY - y) / (v.MaxY - v.MinY) * float64(v.H-1)
	return int(math.Round(sx)), int(math.Round(sy))
}

// Scale converts a plane length along x to dots.
func (v Viewport) Scale(d float64) float64 {
	return d / (v.MaxX - v.MinX) * float64(v.W-1)
}

// DrawPolyline connects consecutive points. Non-finite points break the line.
func (c *Canvas) DrawPolyline(v Viewport, pts []winding.Point) {
	havePrev := false
	var px, py int
	for _, p := range pts {
		if !p.IsFinite() {
			havePrev = false
			continue
		}
		x, y := v.Project(p.X, p.Y)
		if havePrev {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, havePrev = x, y, true
	}
}

func (c *Canvas) DrawCircle(v Viewport, center winding.Point, r float64) {
	steps := int(math.Max(16, v.Scale(r)*2*math.Pi))
	pts := make([]winding.Point, steps+1)
	for i := range pts {
		a := float64(i) / float64(steps) * 2 * math.Pi
		pts[i] = winding.Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
	}
	c.DrawPolyline(v, pts)
}

// DrawMarker draws a small filled diamond at p.
func (c *Canvas) DrawMarker(v Viewport, p winding.Point) {
	if !p.IsFinite() {
		return
	}
	x, y := v.Project(p.X, p.Y)
	for dy := -2; dy <= 2; dy++ {
		for dx := -2 + absInt(dy); dx <= 2-absInt(dy); dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

// RenderTrace draws the winding plane: dashed axes, the base circle, the
// wound trace and its centroid.
func RenderTrace(tr winding.Trace, w, h int) *Canvas {
	c := NewCanvas(w, h)
	m := tr.Mapper
	v := c.SquareViewport(m.Origin, m.BaseRadius*1.9)

	x0, y0 := v.Project(v.MinX, m.Origin.Y)
	x1, _ := v.Project(v.MaxX, m.Origin.Y)
	c.Dashed(x0, y0, x1, y0, 2)
	cx, top := v.Project(m.Origin.X, v.MaxY)
	_, bottom := v.Project(m.Origin.X, v.MinY)
	c.Dashed(cx, top, cx, bottom, 2)

	c.DrawCircle(v, m.Origin, m.BaseRadius)
	c.DrawPolyline(v, tr.Points)
	if len(tr.Points) > 0 {
		c.DrawMarker(v, tr.Centroid)
	}
	return c
}

// RenderSignal draws the composite waveform over r, with optional vertical
// grid lines at the given times.
func RenderSignal(s wave.Samples, r wave.Range, grid []float64, w, h int) *Canvas {
	c := NewCanvas(w, h)
	scale := s.Scale()
	v := Viewport{
		MinX: r.StartMs, MaxX: r.EndMs,
		MinY: -scale * 1.1, MaxY: scale * 1.1,
		W: c.SubWidth(), H: c.SubHeight(),
	}
	if !(v.MaxX > v.MinX) {
		v.MaxX = v.MinX + 1
	}

	_, mid := v.Project(v.MinX, 0)
	c.Dashed(0, mid, c.SubWidth()-1, mid, 3)
	for _, t := range grid {
		x, _ := v.Project(t, 0)
		c.Dashed(x, 0, x, c.SubHeight()-1, 1)
	}

	pts := make([]winding.Point, len(s.Values))
	for i, val := range s.Values {
		pts[i] = winding.Point{X: s.Times[i], Y: val}
	}
	c.DrawPolyline(v, pts)
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
