package experiment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/metrics"
	"github.com/san-kum/sirsim/internal/models"
	"github.com/san-kum/sirsim/internal/sim"
)

// Experiment binds a run configuration to a model, an integrator and a
// sampling plan.
type Experiment struct {
	cfg       *config.Config
	model     *models.SIR
	plan      sim.Plan
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup validates the parameters and derives the plan. Both failure kinds
// surface here, before any step is taken.
func (e *Experiment) Setup(reg *Registry) error {
	model, err := models.NewSIR(e.cfg.Params)
	if err != nil {
		return err
	}

	x0 := e.cfg.InitialState()
	if !x0.IsValid() {
		return fmt.Errorf("%w: %+v", dynamo.ErrInvalidState, x0)
	}

	rate := model.Rate(x0)
	plan, err := sim.DerivePlan(rate, e.cfg.MaxTime).WithOverrides(e.cfg.Step, e.cfg.Every)
	if err != nil {
		return err
	}

	integ, err := reg.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	e.model = model
	e.plan = plan
	e.simulator = sim.New(model, integ)
	for _, m := range metrics.Default() {
		e.simulator.AddMetric(m)
	}

	logrus.WithFields(logrus.Fields{
		"config":     e.cfg.Name,
		"integrator": e.cfg.Integrator,
		"beta":       e.cfg.Params.Beta,
		"gamma":      e.cfg.Params.Gamma,
		"r0":         model.R0(),
		"rate":       rate,
		"step":       plan.Step,
		"every":      plan.Every,
		"max_time":   plan.MaxTime,
	}).Debug("experiment configured")

	return nil
}

func (e *Experiment) Start() (*sim.Trajectory, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Start(e.cfg.InitialState(), e.plan)
}

// Run streams every emitted sample to fn.
func (e *Experiment) Run(ctx context.Context, fn func(dynamo.Sample) error) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.InitialState(), e.plan, fn)
}

func (e *Experiment) Collect(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Collect(ctx, e.cfg.InitialState(), e.plan)
}

func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) Plan() sim.Plan         { return e.plan }
func (e *Experiment) Model() *models.SIR     { return e.model }

// AddObserver registers o on the underlying simulator. Setup must run first.
func (e *Experiment) AddObserver(o dynamo.Observer) {
	e.simulator.AddObserver(o)
}
