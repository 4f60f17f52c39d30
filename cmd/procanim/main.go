package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/procanim/internal/analysis"
	"github.com/san-kum/procanim/internal/config"
	"github.com/san-kum/procanim/internal/export"
	"github.com/san-kum/procanim/internal/metrics"
	"github.com/san-kum/procanim/internal/scene"
	"github.com/san-kum/procanim/internal/sim"
	"github.com/san-kum/procanim/internal/storage"
	"github.com/san-kum/procanim/internal/verlet"
	"github.com/san-kum/procanim/internal/viz"
)

var (
	dataDir      string
	verbose      bool
	configFile   string
	preset       string
	initPreset   string
	dt           float32
	ticks        int
	frameEvery   int
	iterations   int
	strictLinks  bool
	particle     int
	outFile      string
	svgStyle     string
	svgSize      int
	profileMode  string
	runs         int
	analyzeIndex int
	sentryDSN    string
	statsAddr    string
)

var log = logrus.New()

func main() {
	rootCmd := &cobra.Command{
		Use:   "procanim",
		Short: "verlet particle and link simulation",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".procanim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&sentryDSN, "sentry-dsn", os.Getenv("SENTRY_DSN"), "report simulation errors to sentry")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&particle, "particle", -1, "also plot the height of this particle")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [scene]",
		Short: "simulate a scene and write its final state as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	addSimFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&svgStyle, "style", "vector", "vector, trails or braille")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file from a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&initPreset, "preset", "demo", "preset to start from")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a particle's height",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&analyzeIndex, "particle", 0, "particle index")

	verifyCmd := &cobra.Command{
		Use:   "verify [scene]",
		Short: "run a scene concurrently and check every run ends identically",
		Args:  cobra.MaximumNArgs(1),
		RunE:  verifyScene,
	}
	addSimFlags(verifyCmd)
	verifyCmd.Flags().IntVar(&runs, "runs", 8, "number of concurrent runs")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark tick throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	benchCmd.Flags().StringVar(&profileMode, "profile", "", "write a cpu or mem profile")
	benchCmd.Flags().StringVar(&statsAddr, "statsview", "", "serve live runtime charts on this address")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, initCmd, analyzeCmd, verifyCmd, benchCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float32Var(&dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	cmd.Flags().IntVar(&frameEvery, "frame-every", config.DefaultFrameEvery, "record every n-th tick")
	cmd.Flags().IntVar(&iterations, "iterations", verlet.DefaultIterations, "relaxation passes per link")
	cmd.Flags().BoolVar(&strictLinks, "strict", false, "fail on links with a missing particle")
}

// resolveConfig layers defaults, preset, config file, scene argument and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Scene = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("frame-every") {
		cfg.FrameEvery = frameEvery
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("strict") {
		cfg.StrictLinks = strictLinks
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, ok := scene.Lookup(cfg.Scene); !ok {
		return nil, fmt.Errorf("unknown scene: %s (available: %v)", cfg.Scene, scene.Names())
	}
	return cfg, nil
}

func buildWorld(cfg *config.Config, logger *logrus.Logger) (*verlet.World, error) {
	w := verlet.NewWorld(cfg.Settings())
	w.SetLogger(logger)
	if err := scene.Reset(w, cfg.Scene); err != nil {
		return nil, err
	}
	return w, nil
}

func newSimulator(w *verlet.World) *sim.Simulator {
	s := sim.New(w)
	s.AddMetric(metrics.NewLinkResidual())
	s.AddMetric(metrics.NewKinetic())
	s.AddMetric(metrics.NewContainment(w.Settings().Bounds, 0))
	return s
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w, err := buildWorld(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.WithFields(logrus.Fields{
		"scene":      cfg.Scene,
		"particles":  w.Len(),
		"links":      w.LinkCount(),
		"ticks":      cfg.Ticks,
		"iterations": cfg.Iterations,
	}).Info("running simulation")

	start := time.Now()
	result, err := newSimulator(w).Run(ctx, sim.Config{Dt: cfg.Dt, Ticks: cfg.Ticks, FrameEvery: cfg.FrameEvery})
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		log.WithError(err).Warn("run interrupted, saving partial result")
	}
	elapsed := time.Since(start)

	flush, err := initSentry(sentryDSN)
	if err != nil {
		log.WithError(err).Warn("sentry disabled")
		flush = func() {}
	}
	defer flush()

	for _, e := range result.Errors {
		fields := logrus.Fields{"scene": cfg.Scene, "ticks": result.TicksTaken}
		log.WithError(e).WithFields(fields).Error("simulation stopped")
		reportRunError(e, fields)
	}

	runID, err := st.Save(storage.RunMetadata{
		Scene:      cfg.Scene,
		Dt:         cfg.Dt,
		Ticks:      result.TicksTaken,
		Iterations: cfg.Iterations,
		Gravity:    cfg.Gravity,
		Bounds:     [2][3]float32{cfg.Bounds.Min, cfg.Bounds.Max},
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.TicksTaken)
	fmt.Printf("fingerprint: %016x\n", result.Fingerprint)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	// The TUI owns the terminal; route logs to a file or drop them.
	liveLog := logrus.New()
	liveLog.SetOutput(io.Discard)
	if verbose {
		f, err := os.Create("procanim-live.log")
		if err != nil {
			return err
		}
		defer f.Close()
		liveLog.SetOutput(f)
		liveLog.SetLevel(logrus.DebugLevel)
	}

	w, err := buildWorld(cfg, liveLog)
	if err != nil {
		return err
	}

	m := viz.NewLiveModel(w, cfg.Scene, cfg.Dt)
	m.SetLogger(liveLog)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tTICKS\tDT\tITER\tPARTICLES\tFINGERPRINT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\t%d\t%s\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Dt,
			run.Iterations,
			run.Particles,
			run.Fingerprint,
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

	if len(meta.Series) == 0 && particle < 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("ticks: %d\n\n", meta.Ticks)

	names := make([]string, 0, len(meta.Series))
	for name := range meta.Series {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		data := meta.Series[name]
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if particle >= 0 {
		frames, err := st.LoadFrames(runID)
		if err != nil {
			return err
		}
		data := make([]float64, 0, len(frames))
		for _, f := range frames {
			if particle < len(f.Positions) {
				data = append(data, float64(f.Positions[particle].Y()))
			}
		}
		if len(data) == 0 {
			return fmt.Errorf("run has no particle %d", particle)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("p%d height", particle)),
		))
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	return storage.WriteFramesCSV(os.Stdout, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	w, err := buildWorld(cfg, log)
	if err != nil {
		return err
	}

	result, err := newSimulator(w).Run(context.Background(), sim.Config{Dt: cfg.Dt, Ticks: cfg.Ticks, FrameEvery: cfg.FrameEvery})
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		log.WithError(e).Warn("simulation stopped early")
	}

	bounds := w.Settings().Bounds
	var svg string
	switch svgStyle {
	case "vector":
		svg = export.SnapshotToSVG(w.Snapshot(), bounds, svgSize)
	case "trails":
		svg = export.TrailsToSVG(result.Frames, bounds, svgSize)
	case "braille":
		c := viz.NewCanvas(60, 30)
		viz.RenderSnapshot(c, w.Snapshot(), bounds)
		svg = export.CanvasToSVG(c, float64(svgSize)/120)
	default:
		return fmt.Errorf("unknown svg style: %s", svgStyle)
	}
	if svg == "" {
		return fmt.Errorf("nothing to draw")
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	log.WithField("path", outFile).Info("svg written")
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSCENE\tTICKS\tDT\tITER\tGRAVITY")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4fs\t%d\t%v\n", name, p.Scene, p.Ticks, p.Dt, p.Iterations, p.Gravity)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(initPreset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", initPreset, config.ListPresets())
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	heights := analysis.Series(frames, analyzeIndex, analysis.AxisY)
	rate := analysis.SampleRate(frames)
	if len(heights) < 2 || rate == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s, particle %d\n\n", meta.Scene, analyzeIndex)

	spec := analysis.AmplitudeSpectrum(heights, rate)
	plotData := spec.Amplitude[1:]
	if len(plotData) > 4 {
		plotData = plotData[:len(plotData)/2]
	}

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("amplitude spectrum (p%d height)", analyzeIndex)),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, amp := spec.Peak()
	fmt.Printf("dominant frequency: %.3f Hz (amplitude %.3f)\n", freq, amp)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1/freq)
	}
	return nil
}

func verifyScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", runs)
	}

	build := func() (*verlet.World, error) {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		return buildWorld(cfg, quiet)
	}

	start := time.Now()
	results, err := sim.NewEnsemble(build, runs).
		WithMetrics(func() []sim.Metric { return []sim.Metric{metrics.NewLinkResidual()} }).
		Run(context.Background(), sim.Config{Dt: cfg.Dt, Ticks: cfg.Ticks, FrameEvery: cfg.Ticks + 1})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tTICKS\tRESIDUAL\tFINGERPRINT")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.6f\t%016x\n", i, r.TicksTaken, r.Metrics["link_residual"], r.Fingerprint)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{"runs": runs, "elapsed": time.Since(start)}).Debug("ensemble finished")
	if !sim.Deterministic(results) {
		return fmt.Errorf("%s: runs diverged", cfg.Scene)
	}
	fmt.Printf("\n%s: %d runs identical\n", cfg.Scene, runs)
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	name := config.DefaultScene
	if len(args) > 0 {
		name = args[0]
	}

	switch profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode: %s", profileMode)
	}

	defer startStatsView(statsAddr)()

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	tickCounts := []int{600, 6000}
	iterCounts := []int{1, verlet.DefaultIterations, 20}

	fmt.Printf("benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICKS\tITER\tTIME\tTICKS/SEC\tPASSES/TICK\tEARLY EXITS")

	for _, n := range tickCounts {
		for _, iter := range iterCounts {
			cfg := config.DefaultConfig()
			cfg.Scene = name
			cfg.Iterations = iter

			world, err := buildWorld(cfg, quiet)
			if err != nil {
				return err
			}

			var passes, exits, links int
			start := time.Now()
			for i := 0; i < n; i++ {
				report, err := world.Tick(cfg.Dt)
				if err != nil {
					return err
				}
				passes += report.Passes
				exits += report.EarlyExits
				links += report.Links
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.2f\t%d/%d\n",
				n, iter, elapsed.Round(time.Microsecond),
				float64(n)/elapsed.Seconds(),
				float64(passes)/float64(n),
				exits, links,
			)
		}
	}

	return w.Flush()
}
