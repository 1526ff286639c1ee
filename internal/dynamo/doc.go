// Package dynamo provides the core primitives for compartmental epidemic
// simulation.
//
// The package defines the value types and interfaces shared by models,
// integrators and the simulation loop:
//
//   - [State]: susceptible, infectious and recovered proportions
//   - [Derivative]: instantaneous rates of change of a [State]
//   - [System]: anything that can differentiate a [State]
//   - [Integrator]: fixed-step numerical integrator over a [System]
//   - [Metric] and [Observer]: per-step and per-sample hooks
//
// # Example
//
//	model, _ := models.NewSIR(models.DefaultParams())
//	integ := integrators.NewRK4()
//	x := integ.Step(model, models.DefaultInitialState(), 0.01)
//
// # Thread Safety
//
// State and Derivative are plain values and safe to copy. Integrators may keep
// scratch buffers and must not be shared between goroutines.
package dynamo
