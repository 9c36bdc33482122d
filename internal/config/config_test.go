package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Oscillators) != 1 || cfg.Oscillators[0].Frequency != 440 || cfg.Oscillators[0].Phase != 90 {
		t.Errorf("expected a single 440 Hz oscillator at 90 deg, got %+v", cfg.Oscillators)
	}
	if cfg.Range.EndMs != 16 {
		t.Errorf("expected 16 ms window, got %f", cfg.Range.EndMs)
	}
	if cfg.LapRate != 60 {
		t.Errorf("expected lap rate 60, got %f", cfg.LapRate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := "lap_rate: 5\noscillators:\n  - frequency: 5\n    phase: 0\n  - frequency: 9\n    phase: 45\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.LapRate != 5 {
		t.Errorf("expected lap rate 5, got %f", cfg.LapRate)
	}
	if len(cfg.Oscillators) != 2 || cfg.Oscillators[1].Phase != 45 {
		t.Errorf("unexpected oscillators %+v", cfg.Oscillators)
	}
	if cfg.SweepWidth != DefaultConfig().SweepWidth {
		t.Errorf("expected default sweep width to survive, got %d", cfg.SweepWidth)
	}
	if cfg.Animation.FPS != DefaultFPS {
		t.Errorf("expected default fps, got %d", cfg.Animation.FPS)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("lap_rate: [1, 2"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := GetPreset("chord")
	cfg.Theme = "light"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got.Oscillators) != len(cfg.Oscillators) {
		t.Fatalf("expected %d oscillators, got %d", len(cfg.Oscillators), len(got.Oscillators))
	}
	for i := range cfg.Oscillators {
		if got.Oscillators[i] != cfg.Oscillators[i] {
			t.Errorf("oscillator %d: expected %+v, got %+v", i, cfg.Oscillators[i], got.Oscillators[i])
		}
	}
	if got.Theme != "light" || got.LapRate != cfg.LapRate || got.Range != cfg.Range {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"negative frequency", func(c *Config) { c.Oscillators[0].Frequency = -1 }, ErrInvalidOscillator},
		{"negative trace resolution", func(c *Config) { c.Resolution.Trace = -5 }, ErrInvalidResolution},
		{"negative sweep width", func(c *Config) { c.SweepWidth = -1 }, ErrInvalidResolution},
		{"negative duration", func(c *Config) { c.Animation.Duration = -1 }, ErrInvalidAnimation},
		{"zero fps", func(c *Config) { c.Animation.FPS = 0 }, ErrInvalidAnimation},
		{"loud", func(c *Config) { c.Tone.Volume = 150 }, ErrInvalidTone},
		{"no sample rate", func(c *Config) { c.Tone.SampleRate = 0 }, ErrInvalidTone},
		{"zero lap rate", func(c *Config) { c.LapRate = 0 }, nil},
		{"empty range", func(c *Config) { c.Range = RangeConfig{10, 10} }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBank(t *testing.T) {
	cfg := GetPreset("chord")
	b := cfg.Bank()
	if b.Len() != 3 || b.NextID != 3 {
		t.Fatalf("expected 3 oscillators and next id 3, got %d and %d", b.Len(), b.NextID)
	}
	for i, o := range b.Oscillators {
		if o.ID != i {
			t.Errorf("expected id %d, got %d", i, o.ID)
		}
	}

	b = b.Remove(1).AddDefault()
	cfg.SetBank(b)
	if len(cfg.Oscillators) != 3 || cfg.Oscillators[2].Frequency != 220 {
		t.Errorf("unexpected oscillators after SetBank: %+v", cfg.Oscillators)
	}
}

func TestInputs(t *testing.T) {
	cfg := GetPreset("resonance")
	in := cfg.Inputs()
	if len(in.Oscillators) != 1 || in.Range.Len() != 1000 || in.LapRate != 1 {
		t.Errorf("unexpected inputs %+v", in)
	}
	if in.SweepWidth != cfg.SweepWidth {
		t.Errorf("expected sweep width %d, got %d", cfg.SweepWidth, in.SweepWidth)
	}
}

func TestAnimationOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Animation.Duration = 1.5
	cfg.Resolution.Trace = 300

	opts := cfg.AnimationOptions()
	if opts.Duration != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %v", opts.Duration)
	}
	if opts.Resolution != 300 {
		t.Errorf("expected resolution 300, got %d", opts.Resolution)
	}

	cfg.Animation.FPS = 20
	if cfg.FrameInterval() != 50*time.Millisecond {
		t.Errorf("expected 50ms frames, got %v", cfg.FrameInterval())
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("cancel")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Oscillators) != 2 || cfg.Oscillators[1].Phase != 180 {
		t.Errorf("unexpected cancel preset %+v", cfg.Oscillators)
	}

	cfg.Oscillators[0].Frequency = 1
	if Presets["cancel"].Oscillators[0].Frequency != 440 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
	for _, name := range presets {
		if err := Presets[name].Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
