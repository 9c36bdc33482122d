package config

import "sort"

func osc(f, p float64) OscillatorConfig { return OscillatorConfig{Frequency: f, Phase: p} }

func preset(rng RangeConfig, lap float64, oscs ...OscillatorConfig) *Config {
	cfg := DefaultConfig()
	cfg.Oscillators = oscs
	cfg.Range = rng
	cfg.LapRate = lap
	return cfg
}

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	// two equal tones half a cycle apart; the composite is silent
	"cancel": preset(RangeConfig{0, 16}, 60, osc(440, 0), osc(440, 180)),
	// a slow tone wound at its own rate over one second
	"resonance": preset(RangeConfig{0, 1000}, 1, osc(1, 0)),
	"chord":     preset(RangeConfig{0, 1000}, 5, osc(5, 0), osc(7, 30), osc(12, 90)),
	"beat":      preset(RangeConfig{0, 2000}, 10, osc(10, 0), osc(11, 0)),
	"offset":    preset(RangeConfig{250, 1250}, 3, osc(3, 45), osc(8, 0)),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
