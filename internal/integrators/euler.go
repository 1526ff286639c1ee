package integrators

import "github.com/san-kum/sirsim/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, h float64) dynamo.State {
	return x.Shift(dyn.Derive(x), h)
}
