package integrators

import "github.com/san-kum/sirsim/internal/dynamo"

// RK4 is the four-stage Runge-Kutta step used by default. The final
// combination is h*(k1/6 + k2/3 + k3/3 + k4/4): the fourth stage carries a
// weight of 1/4 rather than the textbook 1/6. Every published run was produced
// with these weights, so changing them changes all output.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, h float64) dynamo.State {
	k1, k2, k3, k4 := stages(dyn, x, h, h)
	return combine(x, h, k1, k2, k3, k4)
}

// HalfStageRK4 keeps the RK4 weights but evaluates the fourth stage at
// x + (h/2)*k3 instead of x + h*k3. Older tables were generated this way.
type HalfStageRK4 struct{}

func NewHalfStageRK4() *HalfStageRK4 {
	return &HalfStageRK4{}
}

func (r *HalfStageRK4) Step(dyn dynamo.System, x dynamo.State, h float64) dynamo.State {
	k1, k2, k3, k4 := stages(dyn, x, h, h/2)
	return combine(x, h, k1, k2, k3, k4)
}

func combine(x dynamo.State, h float64, k1, k2, k3, k4 dynamo.Derivative) dynamo.State {
	return dynamo.State{
		S: x.S + h*(k1.DS/6+k2.DS/3+k3.DS/3+k4.DS/4),
		I: x.I + h*(k1.DI/6+k2.DI/3+k3.DI/3+k4.DI/4),
		R: x.R + h*(k1.DR/6+k2.DR/3+k3.DR/3+k4.DR/4),
	}
}

// ClassicRK4 combines the same stages with the textbook weights
// (k1 + 2k2 + 2k3 + k4)/6.
type ClassicRK4 struct{}

func NewClassicRK4() *ClassicRK4 {
	return &ClassicRK4{}
}

func (r *ClassicRK4) Step(dyn dynamo.System, x dynamo.State, h float64) dynamo.State {
	k1, k2, k3, k4 := stages(dyn, x, h, h)

	h6 := h / 6.0
	return dynamo.State{
		S: x.S + h6*(k1.DS+2*k2.DS+2*k3.DS+k4.DS),
		I: x.I + h6*(k1.DI+2*k2.DI+2*k3.DI+k4.DI),
		R: x.R + h6*(k1.DR+2*k2.DR+2*k3.DR+k4.DR),
	}
}

// stages evaluates the four slopes; the last is taken at x + last*k3.
func stages(dyn dynamo.System, x dynamo.State, h, last float64) (k1, k2, k3, k4 dynamo.Derivative) {
	half := h / 2

	k1 = dyn.Derive(x)
	k2 = dyn.Derive(x.Shift(k1, half))
	k3 = dyn.Derive(x.Shift(k2, half))
	k4 = dyn.Derive(x.Shift(k3, last))
	return
}
