package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/windscope/internal/viz"
	"github.com/san-kum/windscope/internal/wave"
	"github.com/san-kum/windscope/internal/winding"
)

const (
	background  = "#0a0a0a"
	traceColor  = "#67e8f9"
	markerColor = "#ef4444"
	guideColor  = "#ffffff33"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	header(&sb, width, height)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", color)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
				float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TraceToSVG draws a winding trace the way the live view does: dashed axes,
// the base circle, the trace and a centroid dot.
func TraceToSVG(tr winding.Trace, size int) string {
	if size <= 0 {
		size = 400
	}
	s := float64(size)
	m := tr.Mapper
	extent := m.BaseRadius * 1.9
	if extent <= 0 {
		extent = 1
	}
	project := func(p winding.Point) (float64, float64) {
		return (p.X - m.Origin.X + extent) / (2 * extent) * s,
			(m.Origin.Y - p.Y + extent) / (2 * extent) * s
	}

	var sb strings.Builder
	header(&sb, s, s)
	fmt.Fprintf(&sb, "<g stroke=\"%s\" stroke-dasharray=\"2 4\">\n", guideColor)
	fmt.Fprintf(&sb, "<line x1=\"0\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\"/>\n", s/2, s, s/2)
	fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"0\" x2=\"%.1f\" y2=\"%.1f\"/>\n", s/2, s/2, s)
	sb.WriteString("</g>\n")
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"none\" stroke=\"%s\"/>\n",
		s/2, s/2, m.BaseRadius/(2*extent)*s, guideColor)

	if len(tr.Points) > 1 {
		path(&sb, tr.Points, project, traceColor, 2)
	}
	if len(tr.Points) > 0 {
		cx, cy := project(tr.Centroid)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"6\" fill=\"%s\" stroke=\"#ffffffcc\" stroke-width=\"1.5\"/>\n",
			cx, cy, markerColor)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SpectrumToSVG plots centroid X against lap rate with a zero line and the
// reference marker.
func SpectrumToSVG(spec winding.Spectrum, width, height int) string {
	if len(spec.Values) == 0 {
		return ""
	}
	w, h := float64(width), float64(height)
	lo, hi := spec.Lo(), spec.Hi()
	scale := spec.Scale
	project := func(p winding.Point) (float64, float64) {
		return (p.X - lo) / (hi - lo) * w, h/2 - p.Y/scale*(h/2)*0.9
	}

	pts := make([]winding.Point, len(spec.Values))
	for i, v := range spec.Values {
		pts[i] = winding.Point{X: spec.Laps[i], Y: v}
	}

	var sb strings.Builder
	header(&sb, w, h)
	fmt.Fprintf(&sb, "<line x1=\"0\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\"/>\n", h/2, w, h/2, guideColor)
	if len(pts) == 1 {
		x, y := project(pts[0])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"2\" fill=\"%s\"/>\n", x, y, traceColor)
	} else {
		path(&sb, pts, project, traceColor, 1.5)
	}

	if _, ok := spec.MarkerColumn(); ok && !math.IsNaN(spec.Marker.X) {
		x, y := project(winding.Point{X: spec.Marker.Lap, Y: spec.Marker.X})
		fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"0\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\" stroke-dasharray=\"3 3\"/>\n",
			x, x, h, markerColor)
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"4\" fill=\"%s\"/>\n", x, y, markerColor)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SignalToSVG draws the composite waveform over r.
func SignalToSVG(s wave.Samples, r wave.Range, width, height int) string {
	if s.Len() < 2 || !(r.Len() > 0) {
		return ""
	}
	w, h := float64(width), float64(height)
	scale := s.Scale()
	project := func(p winding.Point) (float64, float64) {
		return (p.X - r.StartMs) / r.Len() * w, h/2 - p.Y/scale*(h/2)*0.9
	}
	pts := make([]winding.Point, s.Len())
	for i := range pts {
		pts[i] = winding.Point{X: s.Times[i], Y: s.Values[i]}
	}

	var sb strings.Builder
	header(&sb, w, h)
	fmt.Fprintf(&sb, "<line x1=\"0\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\"/>\n", h/2, w, h/2, guideColor)
	path(&sb, pts, project, traceColor, 1.5)
	sb.WriteString("</svg>")
	return sb.String()
}

func header(sb *strings.Builder, w, h float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background)
}

func path(sb *strings.Builder, pts []winding.Point, project func(winding.Point) (float64, float64), color string, stroke float64) {
	fmt.Fprintf(sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"%.1f\" d=\"", color, stroke)
	for i, p := range pts {
		x, y := project(p)
		if i == 0 {
			fmt.Fprintf(sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}
