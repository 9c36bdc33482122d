package automation

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/windscope/internal/storage"
	"github.com/san-kum/windscope/internal/wave"
)

const scenarioYAML = `name: smoke
description: resonance and a chord
steps:
  - name: matched
    preset: resonance
  - name: mismatched
    preset: resonance
    lap_rate: 37
  - name: chord-peak
    preset: chord
    peak:
      lo: 0.5
      hi: 15
      steps: 146
    save_as: chord
  - oscillators:
      - frequency: 2
        phase: 0
    start_ms: 0
    end_ms: 1000
    lap_rate: 2
    trace_svg: TRACE
`

func quietRunner(t *testing.T) *Runner {
	return &Runner{
		Logger:  log.New(io.Discard),
		Store:   storage.New(t.TempDir()),
		Workers: 2,
	}
}

func TestRunScenario(t *testing.T) {
	dir := t.TempDir()
	svg := filepath.Join(dir, "trace.svg")
	path := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte(strings.Replace(scenarioYAML, "TRACE", svg, 1)), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "smoke" || len(sc.Steps) != 4 {
		t.Fatalf("unexpected scenario %+v", sc)
	}

	r := quietRunner(t)
	results, err := r.RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	if results[0].Name != "matched" || results[0].Centroid.Norm() < 30 {
		t.Errorf("expected a strong matched centroid, got %+v", results[0])
	}
	if results[1].Centroid.Norm() > 1 {
		t.Errorf("expected a weak mismatched centroid, got %+v", results[1])
	}
	if results[2].Peak == nil {
		t.Fatal("expected a peak for the chord step")
	}
	if math.Abs(results[2].Peak.Lap-12) > 0.1 && math.Abs(results[2].Peak.Lap-5) > 0.1 && math.Abs(results[2].Peak.Lap-7) > 0.1 {
		t.Errorf("expected the peak on a chord tone, got %.3f", results[2].Peak.Lap)
	}
	if results[3].Name != "step-4" || results[3].Laps != 2 {
		t.Errorf("unexpected unnamed step %+v", results[3])
	}

	if _, err := r.Store.Load("chord"); err != nil {
		t.Errorf("expected saved bank: %v", err)
	}
	if data, err := os.ReadFile(svg); err != nil || !strings.Contains(string(data), "<svg") {
		t.Errorf("expected trace svg, err %v", err)
	}
}

func TestRunScenarioFailsFast(t *testing.T) {
	sc := &Scenario{Name: "bad", Steps: []ScenarioStep{
		{Preset: "resonance"},
		{Preset: "missing"},
	}}
	if _, err := quietRunner(t).RunScenario(context.Background(), sc); err == nil || !strings.Contains(err.Error(), "unknown preset") {
		t.Errorf("expected unknown preset error, got %v", err)
	}
}

func TestResolveValidates(t *testing.T) {
	step := ScenarioStep{Oscillators: nil}
	cfg, err := step.Resolve()
	if err != nil {
		t.Fatalf("defaults should resolve: %v", err)
	}
	if cfg.LapRate != 60 {
		t.Errorf("expected default lap rate, got %f", cfg.LapRate)
	}

	neg := -1.0
	step = ScenarioStep{Preset: "chord", LapRate: &neg}
	if _, err := step.Resolve(); err != nil {
		t.Errorf("negative lap rate should be accepted: %v", err)
	}
}

func TestSaveWithoutStore(t *testing.T) {
	r := &Runner{Logger: log.New(io.Discard)}
	sc := &Scenario{Steps: []ScenarioStep{{SaveAs: "x"}}}
	if _, err := r.RunScenario(context.Background(), sc); err == nil {
		t.Error("expected error when saving without a store")
	}
}

func TestRunLapSweep(t *testing.T) {
	r := quietRunner(t)
	oscs := []wave.Oscillator{{Frequency: 4}}
	pts, err := r.RunLapSweep(context.Background(), oscs, wave.Range{EndMs: 1000}, 1, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 8 {
		t.Fatalf("expected 8 points, got %d", len(pts))
	}
	best := 0
	for i, p := range pts {
		if p.Strength > pts[best].Strength {
			best = i
		}
	}
	if math.Abs(pts[best].Lap-4) > 1e-9 {
		t.Errorf("expected strongest lap 4, got %v", pts[best].Lap)
	}

	if _, err := r.RunLapSweep(context.Background(), oscs, wave.Range{EndMs: 1000}, 3, 1, 8); err == nil {
		t.Error("expected error for inverted band")
	}
}
