package sim

import (
	"context"
	"sync"

	"github.com/san-kum/sirsim/internal/dynamo"
)

// Job is one independent run of an ensemble. Each job needs its own
// Simulator because metrics are stateful.
type Job struct {
	Label string
	Sim   *Simulator
	X0    dynamo.State
	Plan  Plan
}

// Ensemble runs independent jobs concurrently, one goroutine per job.
type Ensemble struct {
	jobs []Job
}

func NewEnsemble(jobs []Job) *Ensemble {
	return &Ensemble{jobs: jobs}
}

// Run collects every job and returns results in job order. The first error,
// in job order, is returned and the results discarded.
func (e *Ensemble) Run(ctx context.Context) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(e.jobs))
	errs := make([]error, len(e.jobs))

	var wg sync.WaitGroup
	for i := range e.jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			job := e.jobs[idx]
			results[idx], errs[idx] = job.Sim.Collect(ctx, job.X0, job.Plan)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
