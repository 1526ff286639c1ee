package models

import (
	"fmt"
	"math"

	"github.com/san-kum/sirsim/internal/dynamo"
)

// Default run constants.
const (
	DefaultBeta    = 520.0 / 365.0
	DefaultGamma   = 1.0 / 7.0
	DefaultS0      = 1.0 - 1e-6
	DefaultI0      = 1e-6
	DefaultR0      = 1e-6
	DefaultMaxTime = 70.0
)

// Params are the epidemic rates of an SIR run.
type Params struct {
	// Beta is the transmission rate: encounter rate between susceptible and
	// infectious individuals times the probability of transmission.
	Beta float64 `json:"beta" yaml:"beta" mapstructure:"beta"`
	// Gamma is the recovery rate; 1/Gamma is the mean infectious period.
	Gamma float64 `json:"gamma" yaml:"gamma" mapstructure:"gamma"`
}

func DefaultParams() Params {
	return Params{Beta: DefaultBeta, Gamma: DefaultGamma}
}

func DefaultInitialState() dynamo.State {
	return dynamo.State{S: DefaultS0, I: DefaultI0, R: DefaultR0}
}

// Validate rejects negative or non-finite rates. Zero rates are allowed.
func (p Params) Validate() error {
	if err := checkRate("beta", p.Beta); err != nil {
		return err
	}
	return checkRate("gamma", p.Gamma)
}

func checkRate(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be finite, got %v", dynamo.ErrInvalidParameters, name, v)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must be non-negative, got %v", dynamo.ErrInvalidParameters, name, v)
	}
	return nil
}

// SIR is the Susceptible-Infectious-Recovered model with fixed rates.
type SIR struct {
	params Params
}

// NewSIR validates p and returns a model bound to it.
func NewSIR(p Params) (*SIR, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &SIR{params: p}, nil
}

func (m *SIR) Params() Params { return m.params }

// Derive evaluates
//
//	ds = -beta*s*i
//	di = beta*s*i - gamma*i
//	dr = gamma*i
func (m *SIR) Derive(x dynamo.State) dynamo.Derivative {
	beta, gamma := m.params.Beta, m.params.Gamma
	return dynamo.Derivative{
		DS: -beta * x.S * x.I,
		DI: beta*x.S*x.I - gamma*x.I,
		DR: gamma * x.I,
	}
}

// Rate is the characteristic rate (beta+gamma)*s that sets the step size and
// sampling interval of a run starting at x.
func (m *SIR) Rate(x dynamo.State) float64 {
	return (m.params.Beta + m.params.Gamma) * x.S
}

// R0 is the basic reproduction number beta/gamma.
func (m *SIR) R0() float64 {
	return m.params.Beta / m.params.Gamma
}
