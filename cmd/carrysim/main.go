package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/carrysim/internal/analysis"
	"github.com/san-kum/carrysim/internal/automation"
	"github.com/san-kum/carrysim/internal/config"
	"github.com/san-kum/carrysim/internal/experiment"
	"github.com/san-kum/carrysim/internal/export"
	"github.com/san-kum/carrysim/internal/logger"
	"github.com/san-kum/carrysim/internal/metrics"
	"github.com/san-kum/carrysim/internal/optim"
	"github.com/san-kum/carrysim/internal/sim"
	"github.com/san-kum/carrysim/internal/storage"
	"github.com/san-kum/carrysim/internal/viz"
)

var (
	dataDir   string
	logLevel  string
	logFormat string

	configFile string
	preset     string
	duration   float64
	fixedDt    float64
	frameDt    float64
	seed       int64
	numRuns    int

	scripted bool
	theme    string

	threshold  float64
	objective  string
	tuneParams []string
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	trials     int
	perturb    float64
	outFile    string
	snapshotAt float64
	topDown    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "carrysim",
		Short: "first-person pick-up and carry sandbox",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logger.Config{Level: logLevel, Format: logFormat, Color: true})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(quietLogger())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".carrysim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, text, json)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "replay the input script headless and save the trace",
		Args:  cobra.NoArgs,
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "default", "preset configuration")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	runCmd.Flags().Float64Var(&fixedDt, "fixed-dt", config.DefaultFixedDt, "fixed physics timestep")
	runCmd.Flags().Float64Var(&frameDt, "frame-dt", config.DefaultFrameDt, "frame timestep")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "frame jitter seed")
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "number of concurrent runs")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "play a preset with keyboard and mouse",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "default", "preset configuration")
	liveCmd.Flags().BoolVar(&scripted, "scripted", false, "replay the input script alongside the keyboard")
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeNames()[0], "color theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot hold error and hold distance of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trace to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.Presets[name].Description)
			}
			return w.Flush()
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "settle time, error and oscillation per grab",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&threshold, "threshold", metrics.DefaultStabilityThreshold, "hold error counted as settled")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search carry settings against a metric",
		Long:  "Each --param is name=v1,v2,... using dotted config paths, e.g. carry.pickup_force=80,120,160.",
		RunE:  tuneParamsCmd,
	}
	tuneCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	tuneCmd.Flags().StringVar(&preset, "preset", "default", "preset configuration")
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "parameter grid (repeatable)")
	tuneCmd.Flags().StringVar(&objective, "objective", "min:hold_error", "min:<metric> or max:<metric>")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one setting and tabulate the metrics",
		RunE:  sweepParamCmd,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "default", "preset configuration")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "carry.pickup_force", "dotted config path")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 40, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 240, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb the starting aim and count successful grabs",
		RunE:  monteCarlo,
	}
	monteCarloCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	monteCarloCmd.Flags().StringVar(&preset, "preset", "default", "preset configuration")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 10, "largest aim offset in degrees")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml batch of presets and save each run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenarioFile,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the overhead carry path as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render the scene at a point in the script as SVG",
		RunE:  snapshot,
	}
	snapshotCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	snapshotCmd.Flags().StringVar(&preset, "preset", "default", "preset configuration")
	snapshotCmd.Flags().Float64Var(&snapshotAt, "at", 2, "script time in seconds")
	snapshotCmd.Flags().BoolVar(&topDown, "top-down", false, "overhead view instead of first person")
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, presetsCmd,
		analyzeCmd, tuneCmd, sweepCmd, monteCarloCmd, scenarioCmd, exportSVGCmd, snapshotCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// loadConfig resolves the preset, then the config file, then explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.GetPreset(preset)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("time") {
		cfg.Sim.Duration = duration
	}
	if flags.Changed("fixed-dt") {
		cfg.Sim.FixedDt = fixedDt
	}
	if flags.Changed("frame-dt") {
		cfg.Sim.FrameDt = frameDt
	}
	if flags.Lookup("seed") != nil && cmd.Name() == "run" && (flags.Changed("seed") || cfg.Sim.Seed == 0) {
		cfg.Sim.Seed = seed
	}
	return cfg, cfg.Validate()
}

func runScenario(cmd *cobra.Command, args []string) error {
	log := logger.L()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx := cmd.Context()
	start := time.Now()
	var results []*sim.Result
	if numRuns > 1 {
		results, err = experiment.RunEnsemble(ctx, cfg, numRuns, cfg.Sim.Seed, log)
		if err != nil {
			return err
		}
	} else {
		exp := experiment.New(cfg, log)
		if err := exp.Setup(); err != nil {
			return err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		results = []*sim.Result{result}
	}
	elapsed := time.Since(start)

	exp := experiment.New(cfg, log)
	for i, result := range results {
		meta := exp.Metadata(preset, result)
		meta.Seed = cfg.Sim.Seed + int64(i)

		runID, err := st.Save(meta, result.Samples)
		if err != nil {
			return err
		}
		for _, e := range result.Errors {
			log.Warn("run stopped early", "run", runID, "err", e)
		}

		fmt.Printf("run id: %s\n", runID)
		fmt.Printf("frames: %d  ticks: %d  dropped: %.4fs\n", result.Frames, result.Ticks, result.Dropped)
		fmt.Println("metrics:")
		for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
			fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
		}
	}
	fmt.Printf("completed %d run(s) in %v\n", len(results), elapsed)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return viz.RunLive(experiment.New(cfg, quietLogger()), viz.Options{Preset: preset, Scripted: scripted, Theme: theme})
}

// quietLogger keeps everything below error out of the TUI's screen.
func quietLogger() *slog.Logger {
	return logger.New(logger.Config{Level: "error", Format: "text", Output: os.Stderr})
}

// resolveRun returns the requested run id, or the latest run when none is given.
func resolveRun(st *storage.Store, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return st.Latest()
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tFIXED DT\tINTEG\tRELEASE\tHELD")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%.0f%%\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.FixedDt,
			run.Integrator,
			run.ReleasePolicy,
			run.Metrics["held_fraction"]*100,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("ticks: %d\n\n", len(samples))

	holdErr := make([]float64, len(samples))
	distance := make([]float64, len(samples))
	for i, s := range samples {
		holdErr[i] = s.Error
		distance[i] = s.HoldDistance
	}

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"hold error", holdErr},
		{"hold distance", distance},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, *meta, samples)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}

	samples, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	grabs := analysis.Analyze(samples, threshold)
	if len(grabs) == 0 {
		fmt.Println("nothing was held in this run")
		return nil
	}

	fmt.Printf("run: %s\n\n", runID)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENTITY\tSTART\tHELD\tSETTLE\tPEAK\tRMS\tFINAL\tOSC")
	for _, g := range grabs {
		settle := "never"
		if g.Settled {
			settle = fmt.Sprintf("%.2fs", g.SettleTime)
		}
		fmt.Fprintf(w, "%s\t%.2fs\t%.2fs\t%s\t%.4f\t%.4f\t%.4f\t%.2fHz\n",
			g.Entity,
			samples[g.Start].Time,
			g.Duration,
			settle,
			g.PeakError,
			g.RMSError,
			g.FinalError,
			g.OscillationHz,
		)
	}
	return w.Flush()
}

// parseGrid reads name=v1,v2,... flags.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad --param %q: want name=v1,v2", spec)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad --param %q: %w", spec, err)
			}
			vals = append(vals, v)
		}
		names, ranges = append(names, name), append(ranges, vals)
	}
	return names, ranges, nil
}

func parseObjective(s string) (optim.Objective, error) {
	dir, metric, ok := strings.Cut(s, ":")
	switch {
	case !ok:
		return optim.Minimize(s), nil
	case dir == "min":
		return optim.Minimize(metric), nil
	case dir == "max":
		return optim.Maximize(metric), nil
	}
	return nil, fmt.Errorf("bad objective %q: want min:<metric> or max:<metric>", s)
}

func tuneParamsCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	names, ranges, err := parseGrid(tuneParams)
	if err != nil {
		return err
	}
	obj, err := parseObjective(objective)
	if err != nil {
		return err
	}

	g, err := optim.NewGridSearch(names, ranges, logger.L())
	if err != nil {
		return err
	}
	best, trials, err := g.Search(cmd.Context(), cfg, obj)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\tCOST")
	for _, tr := range trials {
		var row []string
		for _, n := range names {
			row = append(row, strconv.FormatFloat(tr.Params[n], 'g', -1, 64))
		}
		cost := fmt.Sprintf("%.6f", tr.Cost)
		if tr.Err != nil {
			cost = "error: " + tr.Err.Error()
		}
		fmt.Fprintln(w, strings.Join(row, "\t")+"\t"+cost)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nbest:")
	for _, n := range names {
		fmt.Printf("  %s: %g\n", n, best.Params[n])
	}
	fmt.Printf("  cost: %.6f\n", best.Cost)
	return nil
}

func sweepParamCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, logger.L())
	if err != nil {
		return err
	}

	names := slices.Sorted(maps.Keys(results[0].Metrics))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(sweepParam+"\t"+strings.Join(names, "\t")))
	for _, r := range results {
		row := []string{strconv.FormatFloat(r.ParamValue, 'g', 6, 64)}
		for _, n := range names {
			row = append(row, fmt.Sprintf("%.4f", r.Metrics[n]))
		}
		if r.Failed {
			row = append(row, "(diverged)")
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         seed,
	}, logger.L())
	if err != nil {
		return err
	}

	grabbed, missed := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d  grabbed: %d  missed: %d  (%.0f%%)\n",
		len(results), grabbed, missed, 100*float64(grabbed)/float64(max(1, len(results))))
	return nil
}

func runScenarioFile(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), sc, st, logger.L())
	for _, r := range results {
		fmt.Printf("%s  held %.0f%%  hold error %.4f\n", r.RunID, 100*r.Result.Metrics["held_fraction"], r.Result.Metrics["hold_error"])
	}
	return err
}

func writeOut(content string) error {
	if outFile == "" {
		_, err := fmt.Println(content)
		return err
	}
	return os.WriteFile(outFile, []byte(content), 0644)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := resolveRun(st, args)
	if err != nil {
		return err
	}

	samples, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	svg := export.CarryPathToSVG(samples, 600, 600)
	if svg == "" {
		return fmt.Errorf("run %s never held anything", runID)
	}
	return writeOut(svg)
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Sim.Duration = snapshotAt

	exp := experiment.New(cfg, logger.L())
	if err := exp.Setup(); err != nil {
		return err
	}
	if _, err := exp.Run(cmd.Context()); err != nil {
		return err
	}

	loop := exp.Loop()
	ctrl := loop.Controller()
	canvas := viz.NewCanvas(80, 30)
	if topDown {
		viz.RenderTopDown(canvas, loop.Camera(), loop.World(), ctrl.HeldEntity(), ctrl.HoldTarget(), viz.TopDown{Scale: 10})
	} else {
		viz.RenderView(canvas, loop.Camera(), loop.World(), cfg.Physics.GroundY, ctrl.HeldEntity(), viz.DefaultProjector())
	}
	return writeOut(export.CanvasToSVG(canvas, 4))
}
