package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/windscope/internal/animate"
	"github.com/san-kum/windscope/internal/wave"
	"github.com/san-kum/windscope/internal/winding"
)

const (
	DefaultStartMs    = 0.0
	DefaultEndMs      = 16.0
	DefaultLapRate    = 60.0
	DefaultAnimation  = 3.0
	DefaultFPS        = 30
	DefaultVolume     = 50.0
	DefaultSampleRate = 44100
	DefaultToneLength = 2.0
	DefaultTheme      = "dark"
)

var (
	ErrInvalidOscillator = errors.New("invalid oscillator")
	ErrInvalidResolution = errors.New("invalid resolution")
	ErrInvalidAnimation  = errors.New("invalid animation settings")
	ErrInvalidTone       = errors.New("invalid tone settings")
)

type Config struct {
	Oscillators []OscillatorConfig `yaml:"oscillators"`
	Range       RangeConfig        `yaml:"range"`
	LapRate     float64            `yaml:"lap_rate"`
	Resolution  ResolutionConfig   `yaml:"resolution"`
	SweepWidth  int                `yaml:"sweep_width"`
	Animation   AnimationConfig    `yaml:"animation"`
	Tone        ToneConfig         `yaml:"tone"`
	Theme       string             `yaml:"theme"`
}

type OscillatorConfig struct {
	Frequency float64 `yaml:"frequency"`
	Phase     float64 `yaml:"phase"`
}

type RangeConfig struct {
	StartMs float64 `yaml:"start_ms"`
	EndMs   float64 `yaml:"end_ms"`
}

type ResolutionConfig struct {
	Signal   int `yaml:"signal"`
	Trace    int `yaml:"trace"`
	Centroid int `yaml:"centroid"`
}

type AnimationConfig struct {
	Duration float64 `yaml:"duration"` // seconds
	FPS      int     `yaml:"fps"`
}

type ToneConfig struct {
	Volume     float64 `yaml:"volume"` // percent
	SampleRate int     `yaml:"sample_rate"`
	Length     float64 `yaml:"length"` // seconds
}

func DefaultConfig() *Config {
	return &Config{
		Oscillators: []OscillatorConfig{{Frequency: 440, Phase: 90}},
		Range:       RangeConfig{StartMs: DefaultStartMs, EndMs: DefaultEndMs},
		LapRate:     DefaultLapRate,
		Resolution: ResolutionConfig{
			Signal:   winding.DefaultSignalResolution,
			Trace:    winding.DefaultTraceResolution,
			Centroid: winding.DefaultCentroidResolution,
		},
		SweepWidth: winding.DefaultSweepWidth,
		Animation:  AnimationConfig{Duration: DefaultAnimation, FPS: DefaultFPS},
		Tone: ToneConfig{
			Volume:     DefaultVolume,
			SampleRate: DefaultSampleRate,
			Length:     DefaultToneLength,
		},
		Theme: DefaultTheme,
	}
}

// Load reads a YAML file over DefaultConfig. Keys absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings no component can degrade around. Zero and
// negative lap rates are accepted; they are coerced to 1 downstream.
func (c *Config) Validate() error {
	for i, o := range c.Oscillators {
		if o.Frequency < 0 {
			return fmt.Errorf("%w: oscillator %d has negative frequency %g", ErrInvalidOscillator, i, o.Frequency)
		}
	}
	r := c.Resolution
	if r.Signal < 0 || r.Trace < 0 || r.Centroid < 0 || c.SweepWidth < 0 {
		return fmt.Errorf("%w: resolutions must not be negative", ErrInvalidResolution)
	}
	if c.Animation.Duration < 0 {
		return fmt.Errorf("%w: duration %g", ErrInvalidAnimation, c.Animation.Duration)
	}
	if c.Animation.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalidAnimation, c.Animation.FPS)
	}
	if c.Tone.Volume < 0 || c.Tone.Volume > 100 {
		return fmt.Errorf("%w: volume %g outside [0, 100]", ErrInvalidTone, c.Tone.Volume)
	}
	if c.Tone.SampleRate <= 0 || c.Tone.Length < 0 {
		return fmt.Errorf("%w: sample rate %d, length %g", ErrInvalidTone, c.Tone.SampleRate, c.Tone.Length)
	}
	return nil
}

// Bank builds an oscillator bank with ids assigned in file order.
func (c *Config) Bank() wave.Bank {
	b := wave.Bank{}
	for _, o := range c.Oscillators {
		b = b.Add(o.Frequency, o.Phase)
	}
	return b
}

// SetBank replaces the oscillator list with the contents of b.
func (c *Config) SetBank(b wave.Bank) {
	c.Oscillators = make([]OscillatorConfig, 0, b.Len())
	for _, o := range b.Oscillators {
		c.Oscillators = append(c.Oscillators, OscillatorConfig{Frequency: o.Frequency, Phase: o.Phase})
	}
}

func (c *Config) TimeRange() wave.Range {
	return wave.Range{StartMs: c.Range.StartMs, EndMs: c.Range.EndMs}
}

func (c *Config) Inputs() winding.Inputs {
	return winding.Inputs{
		Oscillators:        c.Bank().Snapshot(),
		Range:              c.TimeRange(),
		LapRate:            c.LapRate,
		SignalResolution:   c.Resolution.Signal,
		TraceResolution:    c.Resolution.Trace,
		CentroidResolution: c.Resolution.Centroid,
		SweepWidth:         c.SweepWidth,
	}
}

func (c *Config) AnimationOptions() animate.Options {
	opts := animate.DefaultOptions()
	opts.Duration = time.Duration(c.Animation.Duration * float64(time.Second))
	if c.Resolution.Trace > 0 {
		opts.Resolution = c.Resolution.Trace
	}
	return opts
}

// FrameInterval is the tick period implied by the configured frame rate.
func (c *Config) FrameInterval() time.Duration {
	if c.Animation.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.Animation.FPS)
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Oscillators = append([]OscillatorConfig(nil), c.Oscillators...)
	return &cp
}
