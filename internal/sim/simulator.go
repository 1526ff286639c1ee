package sim

import (
	"context"
	"fmt"
	"iter"

	"github.com/san-kum/sirsim/internal/dynamo"
)

// Simulator binds a system to an integrator and per-step hooks.
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Start validates the plan and the initial state and returns a trajectory
// positioned at t = 0. Metrics are reset and observe the initial state.
func (s *Simulator) Start(x0 dynamo.State, plan Plan) (*Trajectory, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if !x0.IsValid() {
		return nil, fmt.Errorf("%w: %+v", dynamo.ErrInvalidState, x0)
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(x0, 0)
	}

	return &Trajectory{sim: s, plan: plan, x: x0}, nil
}

// Run drives a trajectory to completion, calling fn for every emitted sample.
// A non-nil error from fn stops the run and is returned as is.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, plan Plan, fn func(dynamo.Sample) error) (*dynamo.Result, error) {
	tr, err := s.Start(x0, plan)
	if err != nil {
		return nil, err
	}

	for {
		sample, ok := tr.Next(ctx)
		if !ok {
			break
		}
		if err := fn(sample); err != nil {
			return tr.Result(nil), err
		}
	}

	return tr.Result(nil), tr.Err()
}

// Collect runs to completion and keeps every emitted sample.
func (s *Simulator) Collect(ctx context.Context, x0 dynamo.State, plan Plan) (*dynamo.Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	samples := make([]dynamo.Sample, 0, min(int(plan.MaxTime/plan.Every)+1, MaxSamples))
	res, err := s.Run(ctx, x0, plan, func(sample dynamo.Sample) error {
		samples = append(samples, sample)
		return nil
	})
	if res != nil {
		res.Samples = samples
	}
	return res, err
}

// Trajectory is a single, lazily advanced run. It owns its state exclusively
// and cannot be rewound; every call to Next integrates forward.
type Trajectory struct {
	sim   *Simulator
	plan  Plan
	x     dynamo.State
	t     float64
	steps int
	done  bool
	err   error
}

// Next integrates until the next sampling boundary is crossed and returns the
// sample taken there. It returns false once the horizon is reached or the
// context is done; Err distinguishes the two.
func (tr *Trajectory) Next(ctx context.Context) (dynamo.Sample, bool) {
	if tr.done {
		return dynamo.Sample{}, false
	}

	step := tr.plan.Step
	for tr.t < tr.plan.MaxTime {
		if err := ctx.Err(); err != nil {
			tr.fail(err)
			return dynamo.Sample{}, false
		}

		tr.x = tr.sim.integrator.Step(tr.sim.dyn, tr.x, step)
		tr.t += step
		tr.steps++

		for _, m := range tr.sim.metrics {
			m.Observe(tr.x, tr.t)
		}

		if tr.plan.crossed(tr.t) {
			sample := dynamo.Sample{Time: tr.t, State: tr.x}
			for _, obs := range tr.sim.observers {
				obs.OnSample(sample)
			}
			return sample, true
		}
	}

	tr.done = true
	return dynamo.Sample{}, false
}

// All adapts the trajectory to a range-over-func sequence.
func (tr *Trajectory) All(ctx context.Context) iter.Seq[dynamo.Sample] {
	return func(yield func(dynamo.Sample) bool) {
		for {
			sample, ok := tr.Next(ctx)
			if !ok || !yield(sample) {
				return
			}
		}
	}
}

func (tr *Trajectory) fail(err error) {
	tr.done = true
	tr.err = &dynamo.SimulationError{Step: tr.steps, Time: tr.t, State: tr.x, Wrapped: err}
}

func (tr *Trajectory) Err() error          { return tr.err }
func (tr *Trajectory) Done() bool          { return tr.done }
func (tr *Trajectory) Time() float64       { return tr.t }
func (tr *Trajectory) State() dynamo.State { return tr.x }
func (tr *Trajectory) StepsTaken() int     { return tr.steps }
func (tr *Trajectory) Plan() Plan          { return tr.plan }

// Result snapshots the trajectory so far. samples may be nil.
func (tr *Trajectory) Result(samples []dynamo.Sample) *dynamo.Result {
	res := &dynamo.Result{
		Samples:    samples,
		Final:      dynamo.Sample{Time: tr.t, State: tr.x},
		StepsTaken: tr.steps,
		Metrics:    make(map[string]float64, len(tr.sim.metrics)),
	}
	for _, m := range tr.sim.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}
