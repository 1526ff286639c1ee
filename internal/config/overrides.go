package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// flatConfig is the key=value view of Config accepted by ApplyOverrides.
type flatConfig struct {
	Integrator string   `mapstructure:"integrator"`
	Beta       float64  `mapstructure:"beta"`
	Gamma      float64  `mapstructure:"gamma"`
	S0         float64  `mapstructure:"s0"`
	I0         float64  `mapstructure:"i0"`
	R0         float64  `mapstructure:"r0"`
	MaxTime    float64  `mapstructure:"max_time"`
	Step       *float64 `mapstructure:"step"`
	Every      *float64 `mapstructure:"every"`
	Precision  int      `mapstructure:"precision"`
}

// ApplyOverrides sets fields from "key=value" pairs, e.g. "beta=0.5".
// Values are converted from strings; unknown keys are rejected.
func ApplyOverrides(cfg *Config, pairs []string) error {
	if len(pairs) == 0 {
		return nil
	}

	raw := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fmt.Errorf("override %q: expected key=value", pair)
		}
		raw[strings.ReplaceAll(key, "-", "_")] = strings.TrimSpace(value)
	}

	flat := flatten(cfg)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &flat,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("apply overrides: %w", err)
	}

	unflatten(flat, cfg)
	return nil
}

func flatten(c *Config) flatConfig {
	return flatConfig{
		Integrator: c.Integrator,
		Beta:       c.Params.Beta,
		Gamma:      c.Params.Gamma,
		S0:         c.InitState.S,
		I0:         c.InitState.I,
		R0:         c.InitState.R,
		MaxTime:    c.MaxTime,
		Step:       copyFloat(c.Step),
		Every:      copyFloat(c.Every),
		Precision:  c.Output.Precision,
	}
}

func unflatten(f flatConfig, c *Config) {
	c.Integrator = f.Integrator
	c.Params.Beta = f.Beta
	c.Params.Gamma = f.Gamma
	c.InitState = InitStateConfig{S: f.S0, I: f.I0, R: f.R0}
	c.MaxTime = f.MaxTime
	c.Step = f.Step
	c.Every = f.Every
	c.Output.Precision = f.Precision
}
