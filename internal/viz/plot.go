package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sirsim/internal/dynamo"
)

type PlotOptions struct {
	Width   int
	Height  int
	Caption string
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 80, Height: 15}
}

// Plot charts s, i and r of the samples against sample index.
func Plot(samples []dynamo.Sample, opts PlotOptions) (string, error) {
	if len(samples) == 0 {
		return "", fmt.Errorf("no samples to plot")
	}

	s := make([]float64, len(samples))
	i := make([]float64, len(samples))
	r := make([]float64, len(samples))
	for k, sample := range samples {
		s[k], i[k], r[k] = sample.State.S, sample.State.I, sample.State.R
	}

	if opts.Caption == "" {
		opts.Caption = fmt.Sprintf("t = %g .. %g", samples[0].Time, samples[len(samples)-1].Time)
	}
	return PlotCurves([]string{"s", "i", "r"}, [][]float64{s, i, r}, opts,
		CurrentTheme.Graph[0], CurrentTheme.Graph[1], CurrentTheme.Graph[2])
}

// PlotCurves overlays labelled curves on one chart. Colors are optional and
// cycle when fewer than the curves are given; the theme's colors are the
// default.
func PlotCurves(labels []string, curves [][]float64, opts PlotOptions, colors ...asciigraph.AnsiColor) (string, error) {
	if len(curves) == 0 {
		return "", fmt.Errorf("no curves to plot")
	}
	if len(labels) != len(curves) {
		return "", fmt.Errorf("got %d labels for %d curves", len(labels), len(curves))
	}
	for k, c := range curves {
		if len(c) == 0 {
			return "", fmt.Errorf("curve %q is empty", labels[k])
		}
	}

	options := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(4),
		asciigraph.SeriesLegends(labels...),
	}
	if opts.Caption != "" {
		options = append(options, asciigraph.Caption(opts.Caption))
	}
	if len(colors) == 0 {
		colors = CurrentTheme.Graph[:]
	}
	// Every legend needs a series color.
	series := make([]asciigraph.AnsiColor, len(curves))
	for k := range series {
		series[k] = colors[k%len(colors)]
	}
	options = append(options, asciigraph.SeriesColors(series...))

	return asciigraph.PlotMany(curves, options...), nil
}
