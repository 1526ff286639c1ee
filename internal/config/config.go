package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/models"
)

const (
	DefaultIntegrator = "rk4"
	// DefaultPrecision selects the shortest decimal that round-trips.
	DefaultPrecision = -1
)

// Config describes one run. Step and Every replace the derived schedule when
// set; an explicit zero is kept and later rejected.
type Config struct {
	Name       string          `yaml:"name"`
	Integrator string          `yaml:"integrator"`
	Params     models.Params   `yaml:"params"`
	InitState  InitStateConfig `yaml:"init_state"`
	MaxTime    float64         `yaml:"max_time"`
	Step       *float64        `yaml:"step,omitempty"`
	Every      *float64        `yaml:"every,omitempty"`
	Output     OutputConfig    `yaml:"output"`
}

type InitStateConfig struct {
	S float64 `yaml:"s"`
	I float64 `yaml:"i"`
	R float64 `yaml:"r"`
}

type OutputConfig struct {
	Precision int `yaml:"precision"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "default",
		Integrator: DefaultIntegrator,
		Params:     models.DefaultParams(),
		InitState: InitStateConfig{
			S: models.DefaultS0,
			I: models.DefaultI0,
			R: models.DefaultR0,
		},
		MaxTime: models.DefaultMaxTime,
		Output:  OutputConfig{Precision: DefaultPrecision},
	}
}

// Load reads a YAML config on top of the defaults. Unknown keys are errors.
func Load(path string) (*Config, error) {
	return LoadInto(path, DefaultConfig())
}

// LoadInto reads a YAML config on top of base, e.g. a preset. base is
// modified and returned; keys absent from the file keep base's values.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseInto(data, base)
}

// Parse decodes data on top of the defaults. Empty input yields the defaults.
func Parse(data []byte) (*Config, error) {
	return ParseInto(data, DefaultConfig())
}

func ParseInto(data []byte, base *Config) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(base); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) InitialState() dynamo.State {
	return dynamo.State{S: c.InitState.S, I: c.InitState.I, R: c.InitState.R}
}

// Clone returns an independent copy, so presets are never mutated in place.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Step = copyFloat(c.Step)
	cp.Every = copyFloat(c.Every)
	return &cp
}

func float64Ptr(v float64) *float64 { return &v }

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return float64Ptr(*p)
}
