package config

import (
	"sort"

	"github.com/san-kum/sirsim/internal/models"
)

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"fast": {
		Name: "fast", Integrator: DefaultIntegrator, MaxTime: 40,
		Params:    models.Params{Beta: 3.0, Gamma: 0.5},
		InitState: InitStateConfig{S: 1 - 1e-4, I: 1e-4},
		Output:    OutputConfig{Precision: DefaultPrecision},
	},
	"slow": {
		Name: "slow", Integrator: DefaultIntegrator, MaxTime: 1000,
		Params:    models.Params{Beta: 0.06, Gamma: 0.02},
		InitState: InitStateConfig{S: 1 - 1e-3, I: 1e-3},
		Output:    OutputConfig{Precision: DefaultPrecision},
	},
	// With beta = 0 the derived interval truncates to zero, so the schedule
	// is explicit.
	"recovery-only": {
		Name: "recovery-only", Integrator: DefaultIntegrator, MaxTime: 70,
		Params:    models.Params{Beta: 0, Gamma: models.DefaultGamma},
		InitState: InitStateConfig{S: 0.9, I: 0.1},
		Step:      float64Ptr(0.01),
		Every:     float64Ptr(1),
		Output:    OutputConfig{Precision: DefaultPrecision},
	},
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
