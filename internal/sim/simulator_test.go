package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/integrators"
	"github.com/san-kum/sirsim/internal/models"
	"github.com/san-kum/sirsim/internal/sim"
)

type cancelAfter struct {
	n      int
	seen   int
	cancel context.CancelFunc
}

func (c *cancelAfter) OnSample(s dynamo.Sample) {
	c.seen++
	if c.seen == c.n {
		c.cancel()
	}
}

type stepCounter struct{ steps int }

func (c *stepCounter) Name() string                      { return "steps" }
func (c *stepCounter) Observe(x dynamo.State, t float64) { c.steps++ }
func (c *stepCounter) Value() float64                    { return float64(c.steps) }
func (c *stepCounter) Reset()                            { c.steps = 0 }

func newDefaultSimulator() (*sim.Simulator, sim.Plan) {
	model, err := models.NewSIR(models.DefaultParams())
	Expect(err).NotTo(HaveOccurred())

	plan, err := sim.NewPlan(model.Rate(models.DefaultInitialState()), models.DefaultMaxTime)
	Expect(err).NotTo(HaveOccurred())

	return sim.New(model, integrators.NewRK4()), plan
}

var _ = Describe("Simulator", func() {
	var (
		ctx  context.Context
		s    *sim.Simulator
		plan sim.Plan
	)

	BeforeEach(func() {
		ctx = context.Background()
		s, plan = newDefaultSimulator()
	})

	Context("with the default scenario", func() {
		var res *dynamo.Result

		BeforeEach(func() {
			var err error
			res, err = s.Collect(ctx, models.DefaultInitialState(), plan)
			Expect(err).NotTo(HaveOccurred())
		})

		It("emits one sample per unit of time", func() {
			Expect(len(res.Samples)).To(BeNumerically("~", 70, 1))
		})

		It("emits the first sample at the first crossing of the interval", func() {
			first := res.Samples[0]
			Expect(first.Time).To(BeNumerically(">=", plan.Every))
			Expect(first.Time - plan.Step).To(BeNumerically("<", plan.Every))
			Expect(first.State.I).To(BeNumerically(">", models.DefaultI0))
		})

		It("emits strictly increasing times", func() {
			for i := 1; i < len(res.Samples); i++ {
				Expect(res.Samples[i].Time).To(BeNumerically(">", res.Samples[i-1].Time))
			}
		})

		It("stops at the horizon", func() {
			Expect(res.Final.Time).To(BeNumerically(">=", plan.MaxTime))
			Expect(res.Final.Time - plan.Step).To(BeNumerically("<", plan.MaxTime))
			Expect(res.StepsTaken).To(BeNumerically("~", plan.Steps(), 1))
		})

		It("shows an epidemic that burns through the susceptibles", func() {
			last := res.Samples[len(res.Samples)-1].State
			Expect(last.S).To(BeNumerically("<", 0.01))
			Expect(last.R).To(BeNumerically(">", 0.9))
		})

		It("is deterministic", func() {
			again, err := s.Collect(ctx, models.DefaultInitialState(), plan)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Samples).To(Equal(res.Samples))
		})
	})

	It("never emits more than the sample bound", func() {
		bounded, err := plan.WithOverrides(ptr(0.25), nil)
		Expect(err).NotTo(HaveOccurred())
		bounded.MaxTime = 1e4

		res, err := s.Collect(ctx, models.DefaultInitialState(), bounded)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(res.Samples)).To(BeNumerically("<=", sim.MaxSamples))
		Expect(len(res.Samples)).To(Equal(10000))
	})

	It("can finish without emitting when the interval exceeds the horizon", func() {
		res, err := s.Collect(ctx, models.DefaultInitialState(), sim.Plan{Step: 0.01, Every: 1024, MaxTime: 70})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Samples).To(BeEmpty())
		Expect(res.StepsTaken).To(BeNumerically(">", 0))
	})

	It("drains infections by recovery alone when nobody is susceptible", func() {
		x0 := dynamo.State{S: 0, I: 0.2, R: 0.8}
		res, err := s.Collect(ctx, x0, sim.Plan{Step: 0.01, Every: 1, MaxTime: 20})
		Expect(err).NotTo(HaveOccurred())

		prev := x0.I
		for _, sample := range res.Samples {
			Expect(sample.State.S).To(BeZero())
			Expect(sample.State.I).To(BeNumerically("<", prev))
			prev = sample.State.I
		}
	})

	It("rejects an invalid plan before stepping", func() {
		_, err := s.Collect(ctx, models.DefaultInitialState(), sim.Plan{Step: 0, Every: 1, MaxTime: 70})
		Expect(err).To(MatchError(dynamo.ErrDegenerateConfiguration))
	})

	It("rejects a non-finite initial state", func() {
		_, err := s.Start(dynamo.State{S: 1, I: math.NaN()}, plan)
		Expect(err).To(MatchError(dynamo.ErrInvalidState))
	})

	Describe("cancellation", func() {
		It("stops before the first step when the context is already done", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			res, err := s.Collect(cctx, models.DefaultInitialState(), plan)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(res.Samples).To(BeEmpty())
			Expect(res.StepsTaken).To(BeZero())

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(BeZero())
		})

		It("stops between steps and keeps the last whole state", func() {
			cctx, cancel := context.WithCancel(ctx)
			defer cancel()
			s.AddObserver(&cancelAfter{n: 5, cancel: cancel})

			res, err := s.Collect(cctx, models.DefaultInitialState(), plan)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Samples).To(HaveLen(5))
			Expect(res.Final.Time).To(Equal(res.Samples[4].Time))
			Expect(res.Final.State).To(Equal(res.Samples[4].State))
		})
	})

	Describe("Trajectory", func() {
		It("advances lazily and cannot be restarted", func() {
			tr, err := s.Start(models.DefaultInitialState(), plan)
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.StepsTaken()).To(BeZero())

			first, ok := tr.Next(ctx)
			Expect(ok).To(BeTrue())
			stepsAfterFirst := tr.StepsTaken()
			Expect(stepsAfterFirst).To(BeNumerically(">", 0))
			Expect(stepsAfterFirst).To(BeNumerically("<", plan.Steps()))

			count := 1
			for sample := range tr.All(ctx) {
				Expect(sample.Time).To(BeNumerically(">", first.Time))
				count++
				if count == 10 {
					break
				}
			}

			next, ok := tr.Next(ctx)
			Expect(ok).To(BeTrue())
			Expect(next.Time).To(BeNumerically(">", 10))

			for range tr.All(ctx) {
			}
			Expect(tr.Done()).To(BeTrue())
			Expect(tr.Err()).NotTo(HaveOccurred())

			_, ok = tr.Next(ctx)
			Expect(ok).To(BeFalse())
		})
	})

	It("feeds metrics every step and reports them", func() {
		counter := &stepCounter{}
		s.AddMetric(counter)

		res, err := s.Collect(ctx, models.DefaultInitialState(), plan)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics["steps"]).To(Equal(float64(res.StepsTaken + 1)))
	})

	It("returns the callback error", func() {
		stop := errors.New("stop")
		res, err := s.Run(ctx, models.DefaultInitialState(), plan, func(dynamo.Sample) error { return stop })
		Expect(err).To(MatchError(stop))
		Expect(res.StepsTaken).To(BeNumerically(">", 0))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs jobs concurrently and keeps their order", func() {
		var jobs []sim.Job
		for _, beta := range []float64{0.5, 1.0, 2.0} {
			model, err := models.NewSIR(models.Params{Beta: beta, Gamma: models.DefaultGamma})
			Expect(err).NotTo(HaveOccurred())
			jobs = append(jobs, sim.Job{
				Sim:  sim.New(model, integrators.NewRK4()),
				X0:   models.DefaultInitialState(),
				Plan: sim.Plan{Step: 0.01, Every: 1, MaxTime: 40},
			})
		}

		results, err := sim.NewEnsemble(jobs).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))

		// faster transmission leaves fewer susceptibles
		Expect(results[0].Final.State.S).To(BeNumerically(">", results[1].Final.State.S))
		Expect(results[1].Final.State.S).To(BeNumerically(">", results[2].Final.State.S))
	})

	It("surfaces the first failing job", func() {
		model, err := models.NewSIR(models.DefaultParams())
		Expect(err).NotTo(HaveOccurred())

		jobs := []sim.Job{
			{Sim: sim.New(model, integrators.NewRK4()), X0: models.DefaultInitialState(), Plan: sim.Plan{Step: 0.01, Every: 1, MaxTime: 1}},
			{Sim: sim.New(model, integrators.NewRK4()), X0: models.DefaultInitialState(), Plan: sim.Plan{}},
		}
		_, err = sim.NewEnsemble(jobs).Run(context.Background())
		Expect(err).To(MatchError(dynamo.ErrDegenerateConfiguration))
	})
})
