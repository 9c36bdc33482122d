package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/windscope/internal/viz"
	"github.com/san-kum/windscope/internal/wave"
	"github.com/san-kum/windscope/internal/winding"
)

func analysis() (winding.Analysis, []wave.Oscillator, wave.Range) {
	oscs := []wave.Oscillator{{Frequency: 1}}
	r := wave.Range{StartMs: 0, EndMs: 1000}
	return winding.Analyze(winding.Inputs{Oscillators: oscs, Range: r, LapRate: 1, SweepWidth: 30}), oscs, r
}

func TestTraceToSVG(t *testing.T) {
	a, _, _ := analysis()
	svg := TraceToSVG(a.Trace, 300)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("malformed svg document")
	}
	if !strings.Contains(svg, `width="300"`) {
		t.Error("expected requested size")
	}
	if strings.Count(svg, "<path") != 1 {
		t.Error("expected one trace path")
	}
	if !strings.Contains(svg, markerColor) {
		t.Error("expected centroid marker")
	}
	if n := strings.Count(svg, " L"); n != len(a.Trace.Points)-1 {
		t.Errorf("expected %d segments, got %d", len(a.Trace.Points)-1, n)
	}
}

func TestTraceToSVGEmpty(t *testing.T) {
	tr := winding.NewTrace(nil, wave.Range{EndMs: 16}, 60, 1000, winding.Point{}, 100)
	svg := TraceToSVG(tr, 0)
	if strings.Contains(svg, "<path") || strings.Contains(svg, markerColor) {
		t.Error("empty trace should only draw guides")
	}
	if !strings.Contains(svg, `width="400"`) {
		t.Error("expected default size")
	}
}

func TestSpectrumToSVG(t *testing.T) {
	a, _, _ := analysis()
	svg := SpectrumToSVG(a.Spectrum, 600, 200)
	if strings.Count(svg, "<path") != 1 {
		t.Error("expected one curve")
	}
	if !strings.Contains(svg, "stroke-dasharray=\"3 3\"") {
		t.Error("expected marker line")
	}
	if SpectrumToSVG(winding.Spectrum{}, 10, 10) != "" {
		t.Error("expected empty output for an empty spectrum")
	}
}

func TestSignalToSVG(t *testing.T) {
	a, _, r := analysis()
	if svg := SignalToSVG(a.Signal, r, 400, 100); !strings.Contains(svg, "<path") {
		t.Error("expected waveform path")
	}
	if SignalToSVG(a.Signal, wave.Range{StartMs: 5, EndMs: 5}, 400, 100) != "" {
		t.Error("expected empty output for a degenerate range")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	svg := CanvasToSVG(c, 2, "#00ff00")
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if CanvasToSVG(nil, 1, "#fff") != "" {
		t.Error("expected empty output for nil canvas")
	}
}

func TestWriteSamplesCSV(t *testing.T) {
	s := wave.Sample([]wave.Oscillator{{Frequency: 1}}, 0, 1000, 4)
	var buf bytes.Buffer
	if err := WriteSamplesCSV(&buf, s); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 5 {
		t.Fatalf("expected header + 4 rows, got %d", len(records))
	}
	if records[0][0] != "time_ms" || records[4][0] != "1000.000000" {
		t.Errorf("unexpected rows %v", records)
	}
}

func TestWriteSweepCSV(t *testing.T) {
	a, _, _ := analysis()
	var buf bytes.Buffer
	if err := WriteSweepCSV(&buf, a.Spectrum); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 31 {
		t.Errorf("expected 31 lines, got %d", len(lines))
	}
	if lines[1] != "0.100000,"+formatFloat(a.Spectrum.Values[0]) {
		t.Errorf("unexpected first row %q", lines[1])
	}
}

func TestWriteTraceCSV(t *testing.T) {
	a, _, _ := analysis()
	var buf bytes.Buffer
	if err := WriteTraceCSV(&buf, a.Trace); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != len(a.Trace.Points)+1 {
		t.Errorf("expected %d lines, got %d", len(a.Trace.Points)+1, n)
	}
}

func TestExportJSON(t *testing.T) {
	a, oscs, r := analysis()
	path := filepath.Join(t.TempDir(), "sweep.json")
	if err := ExportJSON(path, NewExportData(a, oscs, r)); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got ExportData
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Values) != 30 || len(got.Laps) != 30 {
		t.Errorf("expected 30 columns, got %d/%d", len(got.Values), len(got.Laps))
	}
	if got.Marker.Lap != 1 || got.EndMs != 1000 || len(got.Oscillators) != 1 {
		t.Errorf("unexpected document %+v", got)
	}
}
