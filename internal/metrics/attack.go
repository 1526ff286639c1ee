package metrics

import "github.com/san-kum/sirsim/internal/dynamo"

// AttackRate is the proportion of the population that left the susceptible
// compartment since the first observation.
type AttackRate struct {
	name     string
	initialS float64
	currentS float64
	samples  int
}

func NewAttackRate() *AttackRate {
	return &AttackRate{name: "attack_rate"}
}

func (a *AttackRate) Name() string { return a.name }

func (a *AttackRate) Observe(x dynamo.State, t float64) {
	if a.samples == 0 {
		a.initialS = x.S
	}
	a.currentS = x.S
	a.samples++
}

func (a *AttackRate) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.initialS - a.currentS
}

func (a *AttackRate) Reset() {
	a.initialS = 0
	a.currentS = 0
	a.samples = 0
}

// Default returns a fresh set of the standard run metrics.
func Default() []dynamo.Metric {
	peak := NewPeakPrevalence()
	return []dynamo.Metric{
		peak,
		NewPeakTime(peak),
		NewConservationDrift(),
		NewAttackRate(),
	}
}
