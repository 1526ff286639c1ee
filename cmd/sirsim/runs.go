package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/export"
	"github.com/san-kum/sirsim/internal/storage"
	"github.com/san-kum/sirsim/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tINTEG\tBETA\tGAMMA\tHORIZON\tSAMPLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4g\t%.4g\t%g\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Integrator,
			run.Params.Beta,
			run.Params.Gamma,
			run.MaxTime,
			run.Samples,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	opts := viz.DefaultPlotOptions()
	opts.Caption = fmt.Sprintf("%s  (%d samples, every %g)", meta.ID, len(samples), meta.Every)
	graph, err := viz.Plot(samples, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, graph)
	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.Summary(meta.Name, &dynamo.Result{
		Samples:    samples,
		Final:      samples[len(samples)-1],
		StepsTaken: meta.Steps,
		Metrics:    meta.Metrics,
	}))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	samples, err := storage.New(dataDir).LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}
	return export.WriteCSV(cmd.OutOrStdout(), samples, precision)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	return export.WriteJSON(cmd.OutOrStdout(), export.ExportData{
		ID:         meta.ID,
		Integrator: meta.Integrator,
		Params:     meta.Params,
		Step:       meta.Step,
		Every:      meta.Every,
		MaxTime:    meta.MaxTime,
		Samples:    samples,
		Metrics:    meta.Metrics,
	})
}
