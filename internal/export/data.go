package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/windscope/internal/wave"
	"github.com/san-kum/windscope/internal/winding"
)

// ExportData is the JSON document written by `windscope sweep --json`.
type ExportData struct {
	Oscillators []wave.Oscillator `json:"oscillators"`
	StartMs     float64           `json:"start_ms"`
	EndMs       float64           `json:"end_ms"`
	LapRate     float64           `json:"lap_rate"`
	Centroid    PointData         `json:"centroid"`
	Laps        []float64         `json:"laps"`
	Values      []float64         `json:"values"`
	Scale       float64           `json:"scale"`
	Marker      MarkerData        `json:"marker"`
}

type PointData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type MarkerData struct {
	Lap float64 `json:"lap"`
	X   float64 `json:"x"`
}

func NewExportData(a winding.Analysis, oscs []wave.Oscillator, r wave.Range) ExportData {
	return ExportData{
		Oscillators: oscs,
		StartMs:     r.StartMs,
		EndMs:       r.EndMs,
		LapRate:     a.LapRate,
		Centroid:    PointData{X: a.Centroid.X, Y: a.Centroid.Y},
		Laps:        a.Spectrum.Laps,
		Values:      a.Spectrum.Values,
		Scale:       a.Spectrum.Scale,
		Marker:      MarkerData{Lap: a.Spectrum.Marker.Lap, X: a.Spectrum.Marker.X},
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func WriteSamplesCSV(w io.Writer, s wave.Samples) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time_ms", "value"}); err != nil {
		return err
	}
	for i, v := range s.Values {
		if err := cw.Write([]string{formatFloat(s.Times[i]), formatFloat(v)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteSweepCSV(w io.Writer, spec winding.Spectrum) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"lap_rate", "centroid_x"}); err != nil {
		return err
	}
	for i, v := range spec.Values {
		if err := cw.Write([]string{formatFloat(spec.Laps[i]), formatFloat(v)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteTraceCSV(w io.Writer, tr winding.Trace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y"}); err != nil {
		return err
	}
	for _, p := range tr.Points {
		if err := cw.Write([]string{formatFloat(p.X), formatFloat(p.Y)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
