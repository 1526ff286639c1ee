package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/sirsim/internal/dynamo"
)

const (
	// StepFraction scales the characteristic rate into the integration step.
	StepFraction = 0.01
	// MaxSamples bounds the number of emitted rows of one run.
	MaxSamples = 10000
)

// Plan is the fixed step and sampling schedule of one run. It is derived once
// before the loop starts and never changes afterwards.
type Plan struct {
	Step    float64 `json:"step"`
	Every   float64 `json:"every"`
	MaxTime float64 `json:"max_time"`
}

// NewPlan derives the schedule from the characteristic rate (beta+gamma)*s0
// and validates it.
func NewPlan(rate, maxTime float64) (Plan, error) {
	if !positiveFinite(rate) {
		return Plan{}, fmt.Errorf("%w: characteristic rate must be positive and finite, got %v",
			dynamo.ErrDegenerateConfiguration, rate)
	}
	return DerivePlan(rate, maxTime).WithOverrides(nil, nil)
}

// DerivePlan computes the raw schedule without validating it:
//
//	step  = 0.01 * rate
//	every = floor(log10(1/rate)) ^ 10
//
// The log is truncated before the power, so rates in (0.1, 1] give every = 0.
// WithOverrides validates the result and scales every by 10 until
// maxTime/every <= 10000.
func DerivePlan(rate, maxTime float64) Plan {
	return Plan{
		Step:    StepFraction * rate,
		Every:   math.Pow(math.Floor(math.Log10(1/rate)), 10),
		MaxTime: maxTime,
	}
}

// WithOverrides replaces the derived step or sampling interval with explicit
// values; nil leaves the derived value in place. An explicit zero is kept and
// rejected by validation. The result is re-validated and the sampling interval
// re-scaled.
func (p Plan) WithOverrides(step, every *float64) (Plan, error) {
	if step != nil {
		p.Step = *step
	}
	if every != nil {
		p.Every = *every
	}
	if err := p.normalize(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

func (p *Plan) normalize() error {
	if err := p.Validate(); err != nil {
		return err
	}
	for p.MaxTime/p.Every > MaxSamples {
		p.Every *= 10
	}
	return nil
}

// Validate rejects schedules that would never terminate or never emit.
func (p Plan) Validate() error {
	switch {
	case !positiveFinite(p.Step):
		return fmt.Errorf("%w: step must be positive and finite, got %v", dynamo.ErrDegenerateConfiguration, p.Step)
	case !positiveFinite(p.Every):
		return fmt.Errorf("%w: sampling interval must be positive and finite, got %v", dynamo.ErrDegenerateConfiguration, p.Every)
	case !positiveFinite(p.MaxTime):
		return fmt.Errorf("%w: max time must be positive and finite, got %v", dynamo.ErrDegenerateConfiguration, p.MaxTime)
	}
	return nil
}

// Steps is the number of integration steps the plan runs.
func (p Plan) Steps() int {
	return int(math.Ceil(p.MaxTime / p.Step))
}

// crossed reports whether the step ending at t crossed a multiple of Every.
func (p Plan) crossed(t float64) bool {
	return math.Floor(t/p.Every) > math.Floor((t-p.Step)/p.Every)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
