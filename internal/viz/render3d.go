package viz

import (
	"math"
	"sort"

	"github.com/san-kum/windscope/internal/winding"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Camera projects the helix view onto the canvas.
type Camera struct {
	Distance   float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 6, RotX: -0.5, RotY: 0.6, Zoom: 1.0}
}

func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// Project converts 3D coordinates to canvas dots.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	pScale := float64(min(sw, sh)) / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe         { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) Polyline(pts []Vec3) {
	for i := 1; i < len(pts); i++ {
		w.AddEdge(pts[i-1], pts[i])
	}
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe far-to-near.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.SubWidth(), c.SubHeight()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// HelixWireframe lifts the trace into 3D with time along z: each wound
// point keeps its plane position and rises from z=-1 at the range start
// to z=1 at the end. Seen from above it is the ordinary trace.
func HelixWireframe(tr winding.Trace) *Wireframe {
	w := NewWireframe()
	n := len(tr.Points)
	if n == 0 {
		return w
	}
	m := tr.Mapper
	extent := m.BaseRadius * 1.9
	if extent <= 0 {
		extent = 1
	}
	lift := func(p winding.Point, z float64) Vec3 {
		return Vec3{(p.X - m.Origin.X) / extent, (p.Y - m.Origin.Y) / extent, z}
	}

	pts := make([]Vec3, 0, n)
	for i, p := range tr.Points {
		if !p.IsFinite() {
			continue
		}
		z := 0.0
		if n > 1 {
			z = -1 + 2*float64(i)/float64(n-1)
		}
		pts = append(pts, lift(p, z))
	}
	w.Polyline(pts)

	w.AddEdge(Vec3{0, 0, -1}, Vec3{0, 0, 1})
	if tr.Centroid.IsFinite() {
		c := lift(tr.Centroid, 0)
		w.AddEdge(Vec3{c.X, c.Y, -1}, Vec3{c.X, c.Y, 1})
	}
	return w
}

// RenderHelix draws the helix view of tr on a w x h canvas.
func RenderHelix(tr winding.Trace, cam *Camera, w, h int) *Canvas {
	c := NewCanvas(w, h)
	Render3D(c, HelixWireframe(tr), cam)
	return c
}
