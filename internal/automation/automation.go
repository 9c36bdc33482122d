package automation

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/windscope/internal/config"
	"github.com/san-kum/windscope/internal/export"
	"github.com/san-kum/windscope/internal/optim"
	"github.com/san-kum/windscope/internal/storage"
	"github.com/san-kum/windscope/internal/wave"
	"github.com/san-kum/windscope/internal/winding"
)

// Scenario is a batch of analyses described in YAML.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and overrides the
// fields it sets.
type ScenarioStep struct {
	Name        string                    `yaml:"name"`
	Preset      string                    `yaml:"preset"`
	Oscillators []config.OscillatorConfig `yaml:"oscillators"`
	StartMs     *float64                  `yaml:"start_ms"`
	EndMs       *float64                  `yaml:"end_ms"`
	LapRate     *float64                  `yaml:"lap_rate"`
	SweepWidth  int                       `yaml:"sweep_width"`
	Peak        *PeakSearch               `yaml:"peak"`
	SaveAs      string                    `yaml:"save_as"`
	TraceSVG    string                    `yaml:"trace_svg"`
}

type PeakSearch struct {
	Lo    float64 `yaml:"lo"`
	Hi    float64 `yaml:"hi"`
	Steps int     `yaml:"steps"`
}

type StepResult struct {
	Name     string
	LapRate  float64
	Centroid winding.Point
	Laps     float64
	Peak     *optim.Peak
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &scenario, nil
}

type Runner struct {
	Logger  *log.Logger
	Store   *storage.Store
	Workers int
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

// Resolve builds the configuration a step runs with.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets())
		}
	}
	if s.Oscillators != nil {
		cfg.Oscillators = s.Oscillators
	}
	if s.StartMs != nil {
		cfg.Range.StartMs = *s.StartMs
	}
	if s.EndMs != nil {
		cfg.Range.EndMs = *s.EndMs
	}
	if s.LapRate != nil {
		cfg.LapRate = *s.LapRate
	}
	if s.SweepWidth > 0 {
		cfg.SweepWidth = s.SweepWidth
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes the steps concurrently and returns results in step
// order. The first failing step cancels the rest.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	logger := r.logger().With("scenario", scenario.Name)
	results := make([]StepResult, len(scenario.Steps))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, step := range scenario.Steps {
		g.Go(func() error {
			name := step.Name
			if name == "" {
				name = fmt.Sprintf("step-%d", i+1)
			}
			logger.Debug("running step", "step", name, "index", i+1, "total", len(scenario.Steps))

			res, err := r.runStep(ctx, name, step)
			if err != nil {
				return fmt.Errorf("step %d (%s): %w", i+1, name, err)
			}
			results[i] = res
			logger.Info("step done", "step", name, "lap", res.LapRate, "cx", res.Centroid.X, "cy", res.Centroid.Y)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) runStep(ctx context.Context, name string, step ScenarioStep) (StepResult, error) {
	if err := ctx.Err(); err != nil {
		return StepResult{}, err
	}
	cfg, err := step.Resolve()
	if err != nil {
		return StepResult{}, err
	}

	a := winding.Analyze(cfg.Inputs())
	res := StepResult{Name: name, LapRate: a.LapRate, Centroid: a.Centroid, Laps: a.LapsInRange}

	if step.Peak != nil {
		peak, err := optim.NewGridSearch(step.Peak.Lo, step.Peak.Hi, step.Peak.Steps).
			Search(ctx, cfg.Bank().Snapshot(), cfg.Range.StartMs, cfg.TimeRange().Len())
		if err != nil {
			return res, fmt.Errorf("peak search: %w", err)
		}
		res.Peak = &peak
	}

	if step.SaveAs != "" {
		if r.Store == nil {
			return res, fmt.Errorf("save_as %q given without a bank store", step.SaveAs)
		}
		set := storage.Settings{Range: cfg.TimeRange(), LapRate: cfg.LapRate}
		if err := r.Store.Save(step.SaveAs, cfg.Bank(), set); err != nil {
			return res, err
		}
	}

	if step.TraceSVG != "" {
		if err := os.WriteFile(step.TraceSVG, []byte(export.TraceToSVG(a.Trace, 400)), 0644); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (r *Runner) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// LapPoint is one column of a lap-rate sweep.
type LapPoint struct {
	Lap      float64
	Centroid winding.Point
	Strength float64
}

// RunLapSweep evaluates steps lap rates evenly spaced over [lo, hi].
func (r *Runner) RunLapSweep(ctx context.Context, oscs []wave.Oscillator, rng wave.Range, lo, hi float64, steps int) ([]LapPoint, error) {
	if steps < 2 || !(hi > lo) {
		return nil, fmt.Errorf("invalid lap sweep [%g, %g] x %d", lo, hi, steps)
	}
	out := make([]LapPoint, steps)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i := range out {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lap := lo + float64(i)/float64(steps-1)*(hi-lo)
			p := optim.Evaluate(oscs, lap, rng.StartMs, rng.Len())
			out[i] = LapPoint{Lap: lap, Centroid: p.Centroid, Strength: p.Strength}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.logger().Debug("lap sweep done", "steps", steps, "lo", lo, "hi", hi)
	return out, nil
}
