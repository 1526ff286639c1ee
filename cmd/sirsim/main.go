package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/experiment"
	"github.com/san-kum/sirsim/internal/export"
	"github.com/san-kum/sirsim/internal/storage"
	"github.com/san-kum/sirsim/internal/viz"
)

var (
	dataDir  string
	logLevel string

	beta       float64
	gamma      float64
	s0         float64
	i0         float64
	r0         float64
	maxTime    float64
	integrator string
	step       float64
	every      float64
	precision  int
	configFile string
	preset     string
	overrides  []string
	save       bool
	plotCurves bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logrus.Error(err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sirsim",
		Short: "SIR epidemic simulator",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %s", logLevel)
			}
			logrus.SetLevel(level)
			logrus.SetOutput(os.Stderr)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sirsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and stream t, s, i, r rows to stdout",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().IntVar(&precision, "precision", config.DefaultPrecision, "significant digits per value (-1 for shortest exact)")
	runCmd.Flags().BoolVar(&save, "save", false, "store the run under the data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same configuration",
		RunE:  compareIntegrators,
	}
	addRunFlags(compareCmd)
	compareCmd.Flags().BoolVar(&plotCurves, "plot", false, "overlay the infectious curves")

	sweepCmd := &cobra.Command{
		Use:   "sweep [key] [value...]",
		Short: "run one variant per value of a parameter",
		Args:  cobra.MinimumNArgs(2),
		RunE:  sweepParameter,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().BoolVar(&plotCurves, "plot", false, "overlay the infectious curves")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().IntVar(&precision, "precision", config.DefaultPrecision, "significant digits per value (-1 for shortest exact)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, sweepCmd, presetsCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&beta, "beta", 0, "transmission rate")
	cmd.Flags().Float64Var(&gamma, "gamma", 0, "recovery rate")
	cmd.Flags().Float64Var(&s0, "s0", 0, "initial susceptible proportion")
	cmd.Flags().Float64Var(&i0, "i0", 0, "initial infectious proportion")
	cmd.Flags().Float64Var(&r0, "r0", 0, "initial recovered proportion")
	cmd.Flags().Float64Var(&maxTime, "time", 0, "time horizon")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().Float64Var(&step, "step", 0, "fixed step, replaces the derived one")
	cmd.Flags().Float64Var(&every, "every", 0, "sampling interval, replaces the derived one")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a config value (key=value, repeatable)")
}

// resolveConfig layers defaults, the preset, the config file, explicitly set
// flags and --set overrides, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("beta") {
		cfg.Params.Beta = beta
	}
	if flags.Changed("gamma") {
		cfg.Params.Gamma = gamma
	}
	if flags.Changed("s0") {
		cfg.InitState.S = s0
	}
	if flags.Changed("i0") {
		cfg.InitState.I = i0
	}
	if flags.Changed("r0") {
		cfg.InitState.R = r0
	}
	if flags.Changed("time") {
		cfg.MaxTime = maxTime
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("step") {
		v := step
		cfg.Step = &v
	}
	if flags.Changed("every") {
		v := every
		cfg.Every = &v
	}
	if flags.Changed("precision") {
		cfg.Output.Precision = precision
	}

	if err := config.ApplyOverrides(cfg, overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupExperiment(cmd *cobra.Command) (*experiment.Experiment, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, err
	}
	return exp, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, err := setupExperiment(cmd)
	if err != nil {
		return err
	}
	cfg := exp.Config()

	rows := export.NewRowWriter(cmd.OutOrStdout(), cfg.Output.Precision)
	var kept []dynamo.Sample

	start := time.Now()
	res, err := exp.Run(cmd.Context(), func(s dynamo.Sample) error {
		if save {
			kept = append(kept, s)
		}
		return rows.Write(s)
	})
	if flushErr := rows.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}

	fields := logrus.Fields{
		"rows":    rows.Rows(),
		"steps":   res.StepsTaken,
		"elapsed": time.Since(start),
	}
	for name, v := range res.Metrics {
		fields[name] = v
	}
	logrus.WithFields(fields).Info("run complete")

	if !save {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	plan := exp.Plan()
	runID, err := st.Save(storage.RunMetadata{
		Name:       cfg.Name,
		Integrator: cfg.Integrator,
		Params:     cfg.Params,
		InitState:  cfg.InitialState(),
		Step:       plan.Step,
		Every:      plan.Every,
		MaxTime:    plan.MaxTime,
		Steps:      res.StepsTaken,
		Metrics:    res.Metrics,
	}, kept)
	if err != nil {
		return err
	}
	logrus.WithField("run_id", runID).Info("run saved")
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	exp, err := setupExperiment(cmd)
	if err != nil {
		return err
	}

	tr, err := exp.Start()
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s  beta=%.4g gamma=%.4g R0=%.3g", exp.Config().Name,
		exp.Config().Params.Beta, exp.Config().Params.Gamma, exp.Model().R0())
	return viz.RunLive(cmd.Context(), tr, title)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	names := args
	if len(names) == 0 {
		names = registry.ListIntegrators()
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tS\tI\tR\tDRIFT\tPEAK I\tPEAK T\tSTEPS\tTIME")

	curves := make([][]float64, 0, len(names))
	for _, name := range names {
		cfg := base.Clone()
		cfg.Integrator = name

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return err
		}

		start := time.Now()
		res, err := exp.Collect(cmd.Context())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		final := res.Final.State
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.2e\t%.6f\t%.2f\t%d\t%v\n",
			name, final.S, final.I, final.R,
			res.Metrics["conservation_drift"],
			res.Metrics["peak_prevalence"],
			res.Metrics["peak_time"],
			res.StepsTaken, elapsed)

		curves = append(curves, infectious(res.Samples))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if plotCurves {
		return printCurves(cmd, names, curves, "infectious by integrator")
	}
	return nil
}

func sweepParameter(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	key := args[0]
	values := make([]float64, 0, len(args)-1)
	for _, arg := range args[1:] {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", key, arg, err)
		}
		values = append(values, v)
	}

	points, err := experiment.Sweep(cmd.Context(), base, experiment.NewRegistry(), key, values)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPEAK I\tPEAK T\tATTACK RATE\tFINAL S\tSAMPLES\n", key)

	labels := make([]string, len(points))
	curves := make([][]float64, len(points))
	for i, p := range points {
		fmt.Fprintf(w, "%g\t%.6f\t%.2f\t%.6f\t%.6f\t%d\n",
			p.Value,
			p.Result.Metrics["peak_prevalence"],
			p.Result.Metrics["peak_time"],
			p.Result.Metrics["attack_rate"],
			p.Result.Final.State.S,
			len(p.Result.Samples))
		labels[i] = fmt.Sprintf("%s=%g", key, p.Value)
		curves[i] = infectious(p.Result.Samples)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if plotCurves {
		return printCurves(cmd, labels, curves, "infectious by "+key)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBETA\tGAMMA\tS0\tI0\tR0\tTIME")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%g\t%g\t%g\t%g\n",
			name, cfg.Params.Beta, cfg.Params.Gamma,
			cfg.InitState.S, cfg.InitState.I, cfg.InitState.R, cfg.MaxTime)
	}
	return w.Flush()
}

func infectious(samples []dynamo.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.State.I
	}
	return out
}

func printCurves(cmd *cobra.Command, labels []string, curves [][]float64, caption string) error {
	opts := viz.DefaultPlotOptions()
	opts.Caption = caption
	graph, err := viz.PlotCurves(labels, curves, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), graph)
	return nil
}
