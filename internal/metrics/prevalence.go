package metrics

import "github.com/san-kum/sirsim/internal/dynamo"

// PeakPrevalence tracks the largest infectious proportion seen.
type PeakPrevalence struct {
	name    string
	peak    float64
	peakT   float64
	samples int
}

func NewPeakPrevalence() *PeakPrevalence {
	return &PeakPrevalence{name: "peak_prevalence"}
}

func (p *PeakPrevalence) Name() string { return p.name }

func (p *PeakPrevalence) Observe(x dynamo.State, t float64) {
	if p.samples == 0 || x.I > p.peak {
		p.peak = x.I
		p.peakT = t
	}
	p.samples++
}

func (p *PeakPrevalence) Value() float64 { return p.peak }

func (p *PeakPrevalence) Reset() {
	p.peak = 0
	p.peakT = 0
	p.samples = 0
}

// PeakTime reports when the peak of a PeakPrevalence occurred. It reads the
// tracker it wraps and is not fed separately.
type PeakTime struct {
	of *PeakPrevalence
}

func NewPeakTime(of *PeakPrevalence) *PeakTime {
	return &PeakTime{of: of}
}

func (p *PeakTime) Name() string                      { return "peak_time" }
func (p *PeakTime) Observe(x dynamo.State, t float64) {}
func (p *PeakTime) Value() float64                    { return p.of.peakT }
func (p *PeakTime) Reset()                            {}
