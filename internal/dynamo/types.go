package dynamo

import "math"

// State holds the proportions of susceptible, infectious and recovered
// individuals. The components ideally sum to one; nothing renormalizes them.
type State struct {
	S float64 `json:"s"`
	I float64 `json:"i"`
	R float64 `json:"r"`
}

func (x State) Sum() float64 {
	return x.S + x.I + x.R
}

func (x State) IsValid() bool {
	for _, v := range [...]float64{x.S, x.I, x.R} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Shift returns x + h*d.
func (x State) Shift(d Derivative, h float64) State {
	return State{
		S: x.S + h*d.DS,
		I: x.I + h*d.DI,
		R: x.R + h*d.DR,
	}
}

// Derivative is the instantaneous rate of change of a State.
type Derivative struct {
	DS float64
	DI float64
	DR float64
}

// System differentiates a state. Implementations must be pure and must
// tolerate intermediate states that do not sum to one.
type System interface {
	Derive(x State) Derivative
}

// Integrator advances a state by one fixed step h.
type Integrator interface {
	Step(dyn System, x State, h float64) State
}

// Sample is one emitted row of a trajectory.
type Sample struct {
	Time  float64 `json:"t"`
	State State   `json:"state"`
}

// Metric is fed every integration step, not only emitted samples.
type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Observer is notified of every emitted sample.
type Observer interface {
	OnSample(s Sample)
}

type Result struct {
	Samples    []Sample
	Final      Sample
	StepsTaken int
	Metrics    map[string]float64
}
