package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/springbone/internal/analysis"
	"github.com/san-kum/springbone/internal/automation"
	"github.com/san-kum/springbone/internal/config"
	"github.com/san-kum/springbone/internal/experiment"
	"github.com/san-kum/springbone/internal/export"
	"github.com/san-kum/springbone/internal/gui"
	"github.com/san-kum/springbone/internal/optim"
	"github.com/san-kum/springbone/internal/sim"
	"github.com/san-kum/springbone/internal/storage"
	"github.com/san-kum/springbone/internal/store"
	"github.com/san-kum/springbone/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	dt         float64
	duration   float64
	workers    int
	configFile string
	preset     string
	outFile    string
	watch      bool
	runs       int
	plane      string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	trials    int
	perturb   float64
	seed      int64
	gridSpecs []string
	metric    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "springbone",
		Short:         "spring bone secondary motion lab",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".springbone", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log world activity to stderr")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	configFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot tracked tail heights of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "sway frequency and settle time of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [model]",
		Short: "run simulation and export tails and metrics as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	configFlags(exportJSONCmd)
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [model]",
		Short: "run simulation and draw tracked tail paths as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	configFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane: xy, xz or zy")

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "benchmark frame times over parallel runs",
		Args:  cobra.ExactArgs(1),
		RunE:  benchModel,
	}
	configFlags(benchCmd)
	benchCmd.Flags().IntVar(&runs, "runs", 4, "concurrent runs")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run simulation in the terminal viewer",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	configFlags(liveCmd)
	liveCmd.Flags().BoolVar(&watch, "watch", false, "reload chain parameters when --config changes")

	guiCmd := &cobra.Command{
		Use:   "gui [model]",
		Short: "run simulation in a 3D window",
		Args:  cobra.ExactArgs(1),
		RunE:  runGUI,
	}
	configFlags(guiCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list rig models",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := experiment.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tPRESETS\tDESCRIPTION")
			for _, m := range r.ListModels() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m, strings.Join(config.ListPresets(m), ","), r.Describe(m))
			}
			return w.Flush()
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted activation scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "sweep one chain parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (default from preset)")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "stiffness", "chain parameter: "+strings.Join(config.ChainParams, ", "))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.2, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "run randomly perturbed chain parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	monteCarloCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (default from preset)")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 0.1, "maximum absolute perturbation")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [model]",
		Short: "grid search chain parameters minimizing a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runOptimize,
	}
	configFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "param=v1,v2,... (repeatable)")
	optimizeCmd.Flags().StringVar(&metric, "metric", "tail_speed", "metric to minimize")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportJSONCmd, exportSVGCmd,
		benchCmd, liveCmd, guiCmd, presetsCmd, modelsCmd, scenarioCmd, sweepCmd, monteCarloCmd, optimizeCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func configFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&workers, "workers", 0, "goroutines per pipeline stage (0 = one per CPU)")
}

func logger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "springbone: ", log.Ltime|log.Lmicroseconds)
	}
	return log.New(io.Discard, "", 0)
}

// resolveConfig builds the config for model from, in order of precedence,
// explicit flags, the config file, the preset and the defaults.
func resolveConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
	default:
		cfg = config.DefaultConfig()
	}
	cfg.Model = model

	flags := cmd.Flags()
	if flags.Changed("dt") || (configFile == "" && preset == "") {
		cfg.Dt = dt
	}
	if flags.Changed("time") || (configFile == "" && preset == "") {
		cfg.Duration = duration
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, model string) (*experiment.Experiment, *config.Config, error) {
	cfg, err := resolveConfig(cmd, model)
	if err != nil {
		return nil, nil, err
	}
	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry.DefaultMetrics(model), logger()); err != nil {
		return nil, nil, err
	}
	return exp, cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	model := args[0]

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, cfg, err := setup(cmd, model)
	if err != nil {
		return err
	}
	defer exp.Close()

	fmt.Printf("running %s simulation...\n", model)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, preset, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d  chains: %d  nodes: %d  spheres: %d\n",
		result.StepsTaken, result.Stats.Chains, result.Stats.Nodes, result.Stats.Spheres)
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %-15s %.6f\n", name, metrics[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tPRESET\tTIME\tDURATION\tDT\tCHAINS\tNODES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Model,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Chains,
			run.Nodes,
		)
	}
	return w.Flush()
}

// loadSeries returns one component series per tracked tail of a stored run.
func loadSeries(runID string, axis int) (*storage.RunMetadata, []string, [][]float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	header, rows, _, err := st.LoadTails(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil, fmt.Errorf("no data in run %s", runID)
	}

	labels := meta.Labels
	series := make([][]float64, 0, len(labels))
	for i := range labels {
		col := i*3 + axis
		if col >= len(header) {
			break
		}
		data := make([]float64, len(rows))
		for r, row := range rows {
			if col < len(row) {
				data[r] = row[col]
			}
		}
		series = append(series, data)
	}
	return meta, labels[:len(series)], series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, labels, series, err := loadSeries(args[0], 1)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(series[0]))

	const maxPlots = 6
	for i, data := range series {
		if i == maxPlots {
			break
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(labels[i]+" tail height"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, labels, series, err := loadSeries(args[0], 0)
	if err != nil {
		return err
	}

	fmt.Printf("sway analysis: %s\n", meta.ID)
	fmt.Printf("model: %s\n\n", meta.Model)

	var graph string
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRACK\tDOMINANT HZ\tPERIOD\tSETTLE")
	for i, data := range series {
		ps := analysis.Spectrum(data, meta.Dt)
		f := ps.DominantFrequency()
		period := "-"
		if f > 0 {
			period = fmt.Sprintf("%.3fs", 1/f)
		}
		settle := analysis.SettleTime(data, meta.Dt, 1e-3)
		fmt.Fprintf(w, "%s\t%.3f\t%s\t%.2fs\n", labels[i], f, period, settle)

		if i == 0 && len(ps.Powers) > 4 {
			graph = asciigraph.Plot(ps.Powers[:len(ps.Powers)/4],
				asciigraph.Height(12),
				asciigraph.Width(80),
				asciigraph.Caption("power spectrum ("+labels[0]+" x)"),
			)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if graph != "" {
		fmt.Println()
		fmt.Println(graph)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func runAndExport(cmd *cobra.Command, model string) (*config.Config, *sim.Result, error) {
	exp, cfg, err := setup(cmd, model)
	if err != nil {
		return nil, nil, err
	}
	defer exp.Close()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return cfg, result, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, result, err := runAndExport(cmd, args[0])
	if err != nil {
		return err
	}
	if outFile == "" {
		return store.ExportJSONStdout(cfg, result)
	}
	if err := store.ExportJSON(outFile, cfg, result); err != nil {
		return err
	}
	fmt.Printf("exported %d frames to %s\n", result.StepsTaken, outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	axes := map[string][2]int{"xy": {0, 1}, "xz": {0, 2}, "zy": {2, 1}}
	ax, ok := axes[plane]
	if !ok {
		return fmt.Errorf("unknown plane: %s", plane)
	}

	_, result, err := runAndExport(cmd, args[0])
	if err != nil {
		return err
	}

	svg := export.TrailsToSVG(result, ax[0], ax[1], 800, 800)
	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}

func benchModel(cmd *cobra.Command, args []string) error {
	model := args[0]
	if runs < 1 {
		return fmt.Errorf("runs must be positive, got %d", runs)
	}

	sims := make([]*sim.Simulator, 0, runs)
	var cfg *config.Config
	var track []sim.Track
	for i := 0; i < runs; i++ {
		exp, c, err := setup(cmd, model)
		if err != nil {
			return err
		}
		defer exp.Close()
		cfg, track = c, exp.Rig().Track
		sims = append(sims, exp.GetSimulator())
	}

	fmt.Printf("benchmarking %s: %d runs of %.1fs at dt %.4f\n\n", model, runs, cfg.Duration, cfg.Dt)

	start := time.Now()
	results, err := sim.NewEnsemble(sims...).Run(cmd.Context(), sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, Track: track})
	if err != nil {
		return err
	}
	wall := time.Since(start)

	var frameUs []float64
	frames := 0
	for _, r := range results {
		for _, d := range r.FrameTimes {
			frameUs = append(frameUs, float64(d.Microseconds()))
		}
		frames += r.StepsTaken
	}
	if len(frameUs) == 0 {
		return fmt.Errorf("no frames ran; duration %.3f is shorter than dt %.4f", cfg.Duration, cfg.Dt)
	}
	sort.Float64s(frameUs)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NODES\tFRAMES\tWALL\tFRAMES/SEC\tMEAN\tSTDDEV\tP50\tP99")
	fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.1fus\t%.1fus\t%.1fus\t%.1fus\n",
		results[0].Stats.Nodes,
		frames,
		wall.Round(time.Millisecond),
		float64(frames)/wall.Seconds(),
		stat.Mean(frameUs, nil),
		stat.StdDev(frameUs, nil),
		stat.Quantile(0.5, stat.Empirical, frameUs, nil),
		stat.Quantile(0.99, stat.Empirical, frameUs, nil),
	)
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	exp, _, err := setup(cmd, args[0])
	if err != nil {
		return err
	}
	defer exp.Close()

	var watcher *config.Watcher
	if watch {
		if configFile == "" {
			return fmt.Errorf("--watch needs --config")
		}
		watcher, err = config.Watch(configFile)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}
	return viz.Run(cmd.Context(), exp, watcher)
}

func runGUI(cmd *cobra.Command, args []string) error {
	exp, _, err := setup(cmd, args[0])
	if err != nil {
		return err
	}
	defer exp.Close()
	return gui.Run(cmd.Context(), exp)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}
	report, err := automation.RunScenario(cmd.Context(), sc, experiment.NewRegistry(), os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("\nframes: %d  chains: %d  nodes: %d  degenerate: %d\n",
		report.Stats.Frames, report.Stats.Chains, report.Stats.Nodes, report.Stats.Degenerate)
	printMetrics(report.Metrics)
	return nil
}

// changedDuration returns --time when given, else 0 so the preset's
// duration is kept.
func changedDuration(cmd *cobra.Command) float64 {
	if cmd.Flags().Changed("time") {
		return duration
	}
	return 0
}

func runSweep(cmd *cobra.Command, args []string) error {
	sweep := &automation.ParameterSweep{
		Model:     args[0],
		Preset:    preset,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Duration:  changedDuration(cmd),
	}
	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry(), os.Stderr)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tTAIL SPEED\tLENGTH ERR\tPENETRATION\tFINAL TAIL\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.2e\t%.4f\t(%.3f, %.3f, %.3f)\n",
			r.ParamValue, r.Metrics["tail_speed"], r.Metrics["length_error"], r.Metrics["penetration"],
			r.FinalTail[0], r.FinalTail[1], r.FinalTail[2])
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	mc := &automation.MonteCarloConfig{
		Model:        args[0],
		Preset:       preset,
		Perturbation: perturb,
		NumTrials:    trials,
		Duration:     changedDuration(cmd),
		Seed:         seed,
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), mc, experiment.NewRegistry(), os.Stderr)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	speeds := make([]float64, len(results))
	for i, r := range results {
		speeds[i] = r.Metrics["tail_speed"]
	}
	mean, std := stat.MeanStdDev(speeds, nil)

	fmt.Printf("trials: %d  stable: %d  unstable: %d\n", len(results), stable, unstable)
	fmt.Printf("tail speed: %.4f ± %.4f\n", mean, std)
	return nil
}

// parseGrid parses "name=v1,v2,..." specs.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || list == "" {
			return nil, nil, fmt.Errorf("bad grid spec %q, want name=v1,v2", spec)
		}
		var vals []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad grid value in %q: %w", spec, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	if len(gridSpecs) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}
	names, ranges, err := parseGrid(gridSpecs)
	if err != nil {
		return err
	}
	base, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	g := optim.NewGridSearch(names, ranges)
	best, all, err := g.Search(cmd.Context(), base, metric, optim.ExperimentRunner(experiment.NewRegistry()))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metric))
	for _, t := range all {
		row := make([]string, 0, len(names)+1)
		for _, n := range names {
			row = append(row, strconv.FormatFloat(t.Params[n], 'g', 4, 64))
		}
		row = append(row, strconv.FormatFloat(t.Value, 'f', 6, 64))
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest %s = %.6f at %v\n", metric, best.Value, best.Params)
	return nil
}
