package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/san-kum/windscope/internal/winding"
)

const (
	width       = 70
	height      = 24
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	headShare   = 0.1
	barWidth    = 30
)

// LiveRenderer redraws the winding plane on a plain ANSI terminal, one
// full screen per frame.
type LiveRenderer struct {
	out       io.Writer
	title     string
	frameRate int
	lastFrame time.Time
	mapper    winding.Mapper
	canvas    [][]rune
	frames    int
}

// NewLiveRenderer draws frames wound by mapper. frameRate <= 0 draws every
// frame.
func NewLiveRenderer(out io.Writer, title string, frameRate int, mapper winding.Mapper) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       out,
		title:     title,
		frameRate: frameRate,
		mapper:    mapper,
		canvas:    canvas,
	}
}

// Frames is the number of frames actually drawn.
func (r *LiveRenderer) Frames() int { return r.frames }

// OnFrame matches animate.FrameFunc. The final frame is always drawn.
func (r *LiveRenderer) OnFrame(trace []winding.Point, progress float64) {
	if r.frameRate > 0 && progress < 1 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
	}
	r.lastFrame = time.Now()

	r.clear()
	r.drawAxes()
	r.drawCircle()
	r.drawTrace(trace)
	c := winding.Mean(trace)
	if len(trace) > 0 {
		x, y := r.project(c)
		r.set(x, y, 'X')
	}
	r.render(c, len(trace), progress)
	r.frames++
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

// project maps the plane onto the character grid. Cells are about twice as
// tall as wide, so x gets twice the resolution of y.
func (r *LiveRenderer) project(p winding.Point) (int, int) {
	extent := r.mapper.BaseRadius * 1.9
	if extent <= 0 {
		extent = 1
	}
	dx := (p.X - r.mapper.Origin.X) / extent
	dy := (p.Y - r.mapper.Origin.Y) / extent
	sx := width/2 + int(math.Round(dx*float64(height-2)))
	sy := height/2 - int(math.Round(dy*float64(height/2-1)))
	return sx, sy
}

func (r *LiveRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (r *LiveRenderer) drawAxes() {
	ox, oy := r.project(r.mapper.Origin)
	for x := 0; x < width; x += 2 {
		r.set(x, oy, '-')
	}
	for y := 0; y < height; y += 2 {
		r.set(ox, y, '|')
	}
	r.set(ox, oy, '+')
}

func (r *LiveRenderer) drawCircle() {
	const steps = 96
	o, rad := r.mapper.Origin, r.mapper.BaseRadius
	for i := 0; i < steps; i++ {
		a := float64(i) / steps * 2 * math.Pi
		x, y := r.project(winding.Point{X: o.X + rad*math.Cos(a), Y: o.Y + rad*math.Sin(a)})
		r.set(x, y, '·')
	}
}

// drawTrace connects the wound points; the most recent part is drawn heavier.
func (r *LiveRenderer) drawTrace(trace []winding.Point) {
	head := len(trace) - int(float64(len(trace))*headShare)
	var px, py int
	have := false
	for i, p := range trace {
		if !p.IsFinite() {
			have = false
			continue
		}
		x, y := r.project(p)
		c := '.'
		if i >= head {
			c = 'o'
		}
		if have {
			r.line(px, py, x, y, c)
		} else {
			r.set(x, y, c)
		}
		px, py, have = x, y, true
	}
}

func (r *LiveRenderer) render(c winding.Point, n int, progress float64) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  %3.0f%%\n", r.title, progress*100))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	filled := int(math.Round(progress * barWidth))
	filled = max(0, min(filled, barWidth))
	b.WriteString(fmt.Sprintf("  [%s%s] points=%d centroid=(%.2f, %.2f)\n",
		strings.Repeat("=", filled), strings.Repeat(" ", barWidth-filled), n, c.X, c.Y))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
