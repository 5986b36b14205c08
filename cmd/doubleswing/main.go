package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/doubleswing/internal/analysis"
	"github.com/san-kum/doubleswing/internal/angle"
	"github.com/san-kum/doubleswing/internal/config"
	"github.com/san-kum/doubleswing/internal/dynamo"
	"github.com/san-kum/doubleswing/internal/engine"
	"github.com/san-kum/doubleswing/internal/export"
	"github.com/san-kum/doubleswing/internal/logging"
	"github.com/san-kum/doubleswing/internal/metrics"
	"github.com/san-kum/doubleswing/internal/optim"
	"github.com/san-kum/doubleswing/internal/physics"
	"github.com/san-kum/doubleswing/internal/sim"
	"github.com/san-kum/doubleswing/internal/storage"
	"github.com/san-kum/doubleswing/internal/viz"
)

var (
	dataDir string
	verbose bool
	logger  = zap.NewNop()

	// run configuration is read per command by resolveConfig
	speedLimit float64

	// plotting
	plotVars    []string
	xVar        string
	yVar        string
	poincare    bool
	spectrumVar string

	// lyapunov
	perturbation float64

	// bifurcation
	paramMin   float64
	paramMax   float64
	paramSteps int
	transient  float64
	record     float64

	// tune
	tuneParams []string
	tuneMetric string

	// svg
	svgSize  int
	svgFrame bool
	svgScale float64

	// live view
	logFile string
	theme   string
)

// bob 2 states traced behind the pendulum by export-svg --frame
const frameTrail = 240

func main() {
	rootCmd := &cobra.Command{
		Use:           "doubleswing",
		Short:         "double pendulum simulation lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".doubleswing", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scripted simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addStateFlags(runCmd)
	runCmd.Flags().String("name", "", "run name (defaults to the preset or config name)")
	runCmd.Flags().Float64("dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64("time", config.DefaultDuration, "duration")
	runCmd.Flags().Float64Var(&speedLimit, "speed-limit", 20, "angular speed threshold for the speed_bound metric")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run variables against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotVars, "vars", []string{"th1", "th2", "energy"},
		"variables to plot ("+strings.Join(analysis.Variables, ", ")+")")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&xVar, "x", "th1", "x-axis variable")
	phaseCmd.Flags().StringVar(&yVar, "y", "w1", "y-axis variable")
	phaseCmd.Flags().BoolVar(&poincare, "poincare", false, "plot the Poincare section (th2, w2 where th1 crosses zero upwards)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&spectrumVar, "var", "th1", "variable to analyze")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.NoArgs,
		RunE:  lyapunov,
	}
	addStateFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64("dt", config.DefaultDt, "timestep")
	lyapunovCmd.Flags().Float64("time", 20, "duration")
	lyapunovCmd.Flags().Float64Var(&perturbation, "perturb", 1e-8, "initial separation in th1")

	bifurcationCmd := &cobra.Command{
		Use:   "bifurcation [param]",
		Short: "sweep a parameter and record th2 on the Poincare section",
		Args:  cobra.ExactArgs(1),
		RunE:  bifurcation,
	}
	addStateFlags(bifurcationCmd)
	bifurcationCmd.Flags().Float64("dt", 1.0/120, "timestep")
	bifurcationCmd.Flags().Float64Var(&paramMin, "min", 0, "sweep start")
	bifurcationCmd.Flags().Float64Var(&paramMax, "max", 1, "sweep end")
	bifurcationCmd.Flags().IntVar(&paramSteps, "steps", 40, "number of parameter values")
	bifurcationCmd.Flags().Float64Var(&transient, "transient", 10, "seconds discarded before recording")
	bifurcationCmd.Flags().Float64Var(&record, "record", 20, "seconds recorded per value")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the bob 2 trajectory of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgSize, "size", export.DefaultFrame().Size, "image size in px")
	exportSVGCmd.Flags().BoolVar(&svgFrame, "frame", false, "draw the final frame as the live view shows it instead of the full trace")
	exportSVGCmd.Flags().Float64Var(&svgScale, "scale", 4, "px per dot with --frame")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search parameters for the lowest metric value",
		Args:  cobra.NoArgs,
		RunE:  tune,
	}
	addStateFlags(tuneCmd)
	tuneCmd.Flags().Float64("dt", config.DefaultDt, "timestep")
	tuneCmd.Flags().Float64("time", 5, "duration of each run")
	tuneCmd.Flags().Float64Var(&speedLimit, "speed-limit", 20, "angular speed threshold for the speed_bound metric")
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "axis as name=min:max:count, repeatable")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "energy_drift", "metric to minimize")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the engine",
		Args:  cobra.NoArgs,
		RunE:  benchEngine,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTHETA1\tTHETA2\tDAMPING\tDURATION\tGESTURES")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.0fs\t%d\n",
					name, p.InitState.Theta1, p.InitState.Theta2,
					p.Params.Damping, p.Run.Duration, len(p.Gestures))
			}
			return w.Flush()
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file to start from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initConfigCmd.Flags().String("preset", "", "start from a preset")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view, drag the bobs with the mouse",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().StringVar(&logFile, "log", "", "write logs to this file while the view is open")
		c.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	}
	addStateFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, analyzeCmd, lyapunovCmd,
		bifurcationCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, tuneCmd, benchCmd, presetsCmd,
		initConfigCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addStateFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "config file path (yaml)")
	cmd.Flags().String("preset", "", "use preset configuration ("+strings.Join(config.ListPresets(), ", ")+")")
	cmd.Flags().Float64("theta1", config.DefaultTheta1, "initial link 1 angle (rad)")
	cmd.Flags().Float64("omega1", 0, "initial link 1 angular velocity")
	cmd.Flags().Float64("theta2", config.DefaultTheta2, "initial link 2 angle (rad)")
	cmd.Flags().Float64("omega2", 0, "initial link 2 angular velocity")
	cmd.Flags().Float64("damping", 0, "linear damping")
}

// resolveConfig layers the configuration: the command's flag defaults, or a
// preset or config file in their place, then any flag set explicitly on the
// command line. Values are read from cmd's own flag set because several
// commands register the same flag name with different defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	presetName, _ := flags.GetString("preset")
	path, _ := flags.GetString("config")

	cfg := config.DefaultConfig()
	if presetName != "" {
		cfg = config.GetPreset(presetName)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
	}

	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	layered := presetName != "" || path != ""
	override := func(name string, dst *float64) {
		f := flags.Lookup(name)
		if f == nil || (layered && !f.Changed) {
			return
		}
		if v, err := flags.GetFloat64(name); err == nil {
			*dst = v
		}
	}
	override("theta1", &cfg.InitState.Theta1)
	override("omega1", &cfg.InitState.Omega1)
	override("theta2", &cfg.InitState.Theta2)
	override("omega2", &cfg.InitState.Omega2)
	override("damping", &cfg.Params.Damping)
	override("dt", &cfg.Run.Dt)
	override("time", &cfg.Run.Duration)

	if flags.Lookup("name") != nil && flags.Changed("name") {
		cfg.Name, _ = flags.GetString("name")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	p := cfg.PhysicsParams()
	s := newSimulator(p)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	script := cfg.Script()
	simCfg := cfg.SimConfig()

	fmt.Printf("running %s...\n", cfg.Name)
	start := time.Now()

	result, err := s.Run(ctx, cfg.InitialState(), script, simCfg)
	if err != nil {
		var simErr *dynamo.SimulationError
		if result == nil || !(errors.As(err, &simErr) || errors.Is(err, context.Canceled)) {
			return err
		}
		// keep the frames recorded so far
		logger.Warn("run stopped early", zap.Error(err), zap.Int("steps", result.StepsTaken))
	}
	elapsed := time.Since(start)

	meta := storage.NewMetadata(cfg.Name, p, simCfg, len(script), result)
	runID, saveErr := st.Save(meta, result)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	final := result.Final()
	fmt.Printf("final: th1=%.1f° th2=%.1f°\n", angle.RadToDeg(final.Th1), angle.RadToDeg(final.Th2))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return err
}

// newSimulator wires the standard metric set.
func newSimulator(p physics.Params) *sim.Simulator {
	h := physics.NewDoublePendulum(&p)

	s := sim.New(p, sim.WithLogger(logger))
	s.AddMetric(metrics.NewEnergyDrift(h))
	s.AddMetric(metrics.NewDissipation(h, 1e-9))
	s.AddMetric(metrics.NewSpeedBound(speedLimit))
	s.AddMetric(metrics.NewDriveEffort())
	return s
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tSTEPS\tGESTURES\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\t%.2e\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
			run.Gestures,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	result, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(result.States) == 0 {
		return nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	return meta, result, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(result.States))

	for _, name := range plotVars {
		data, err := analysis.Series(result, name)
		if err != nil {
			return err
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)

	if poincare {
		section := analysis.NewPoincareSection(result)
		fmt.Printf("poincare section: %d crossings\n\n", len(section.Points))
		fmt.Println(analysis.PoincareSectionToASCII(section, 70, 20))
		return nil
	}

	portrait, err := analysis.NewPhasePortrait(result, xVar, yVar)
	if err != nil {
		return err
	}
	fmt.Printf("x-axis: %s, y-axis: %s\n\n", xVar, yVar)
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 20))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	data, err := analysis.Series(result, spectrumVar)
	if err != nil {
		return err
	}

	frame := meta.Dt
	if len(result.Times) > 1 {
		frame = result.Times[1] - result.Times[0]
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("variable: %s\n\n", spectrumVar)

	ps := analysis.PowerSpectrum(data)
	if len(ps) < 4 {
		return fmt.Errorf("run too short for a spectrum")
	}

	plotData := ps[:len(ps)/4]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+spectrumVar+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, frame)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func lyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	lambda := analysis.LyapunovExponent(cfg.PhysicsParams(), cfg.InitialState(),
		cfg.Run.Dt, cfg.Run.Duration, perturbation)

	fmt.Printf("largest lyapunov exponent: %.4f 1/s\n", lambda)
	if lambda > 0.01 {
		fmt.Printf("chaotic, predictability horizon ~%.1f s\n", 1/lambda)
	} else {
		fmt.Println("regular")
	}
	return nil
}

func bifurcation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger.Info("bifurcation sweep",
		zap.String("param", args[0]),
		zap.Float64("min", paramMin),
		zap.Float64("max", paramMax),
		zap.Int("steps", paramSteps))

	points, err := analysis.BifurcationDiagram(cfg.PhysicsParams(), args[0],
		paramMin, paramMax, paramSteps, cfg.InitialState(), cfg.Run.Dt, transient, record)
	if err != nil {
		return err
	}

	fmt.Printf("bifurcation diagram: %s in [%g, %g]\n\n", args[0], paramMin, paramMax)
	fmt.Println(analysis.BifurcationToASCII(points, 70, 20))
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

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, result)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if svgFrame {
		trail := result.States
		if len(trail) > frameTrail {
			trail = trail[len(trail)-frameTrail:]
		}
		canvas := viz.Snapshot(meta.Params, result.Final(), trail)
		_, err := fmt.Fprintln(os.Stdout, export.CanvasToSVG(canvas, svgScale))
		return err
	}
	f := export.DefaultFrame()
	f.Size = svgSize
	return export.WriteTrajectorySVG(os.Stdout, meta.Params, result, f)
}

// parseAxis reads "name=min:max:count".
func parseAxis(axis string) (string, []float64, error) {
	name, rng, ok := strings.Cut(axis, "=")
	if !ok {
		return "", nil, fmt.Errorf("param %q: want name=min:max:count", axis)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("param %q: want name=min:max:count", axis)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("param %q: %w", axis, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("param %q: %w", axis, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("param %q: count must be a positive integer", axis)
	}
	return strings.TrimSpace(name), optim.Linspace(lo, hi, n), nil
}

func tune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(tuneParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, axis := range tuneParams {
		name, values, err := parseAxis(axis)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s0, script, simCfg := cfg.InitialState(), cfg.Script(), cfg.SimConfig()
	run := func(ctx context.Context, p physics.Params) (*sim.Result, error) {
		return newSimulator(p).Run(ctx, s0, script, simCfg)
	}

	start := time.Now()
	out, err := g.Search(ctx, cfg.PhysicsParams(), run, tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("tried %d combinations in %v (%d failed)\n", out.Tried, time.Since(start), out.Failed)
	fmt.Printf("best %s: %.6g\n", tuneMetric, out.Value)
	for _, name := range names {
		fmt.Printf("  %s = %.6g\n", name, out.Params[name])
	}
	return nil
}

func benchEngine(cmd *cobra.Command, args []string) error {
	durations := []float64{1.0, 5.0, 10.0}
	dts := []float64{1.0 / 960, 1.0 / 240, 1.0 / 60}
	s0 := physics.State{Th1: 2, Th2: 2.5}

	fmt.Println("benchmarking engine")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC\tDRIFT")

	for _, dur := range durations {
		for _, step := range dts {
			eng := engine.New(physics.DefaultParams(), s0)
			e0 := eng.Energy()
			steps := int(dur / step)

			start := time.Now()
			for i := 0; i < steps; i++ {
				eng.Step(step)
			}
			elapsed := time.Since(start)

			drift := (eng.Energy() - e0) / e0
			fmt.Fprintf(w, "%.1fs\t%.5fs\t%d\t%v\t%.0f\t%.2e\n",
				dur, step, steps, elapsed, float64(steps)/elapsed.Seconds(), drift)
		}
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.NewFile(logFile, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	viz.SetTheme(theme)
	m := viz.NewModel(cfg.PhysicsParams(), cfg.InitialState(), cfg.DragSettings(), log)
	return viz.Run(m)
}
