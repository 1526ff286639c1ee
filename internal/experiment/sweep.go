package experiment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/sim"
)

// SweepPoint is the outcome of one value of a parameter sweep.
type SweepPoint struct {
	Value  float64
	Result *dynamo.Result
}

// Sweep varies one override key (for example "beta") across values and runs
// every variant of base concurrently. Each variant is set up on its own, so a
// degenerate variant fails the whole sweep before anything runs.
func Sweep(ctx context.Context, base *config.Config, reg *Registry, key string, values []float64) ([]SweepPoint, error) {
	jobs := make([]sim.Job, 0, len(values))
	for _, v := range values {
		cfg := base.Clone()
		if err := config.ApplyOverrides(cfg, []string{fmt.Sprintf("%s=%v", key, v)}); err != nil {
			return nil, err
		}

		exp := New(cfg)
		if err := exp.Setup(reg); err != nil {
			return nil, fmt.Errorf("%s=%v: %w", key, v, err)
		}
		jobs = append(jobs, sim.Job{
			Label: fmt.Sprintf("%s=%v", key, v),
			Sim:   exp.simulator,
			X0:    cfg.InitialState(),
			Plan:  exp.plan,
		})
	}

	logrus.WithField("variants", len(jobs)).Debugf("sweeping %s", key)

	results, err := sim.NewEnsemble(jobs).Run(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(values))
	for i, v := range values {
		points[i] = SweepPoint{Value: v, Result: results[i]}
	}
	return points, nil
}
