package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/roversim/internal/analysis"
	"github.com/san-kum/roversim/internal/config"
	"github.com/san-kum/roversim/internal/experiment"
	"github.com/san-kum/roversim/internal/geom"
	"github.com/san-kum/roversim/internal/metrics"
	"github.com/san-kum/roversim/internal/sim"
	"github.com/san-kum/roversim/internal/storage"
	"github.com/san-kum/roversim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	scenario     string
	policyName   string
	mode         string
	allowReverse bool
	dt           float64
	duration     float64
	seed         int64

	raysPerSide int
	probeAngle  float64
	probeLength float64
	probeRadius float64

	nearThreshold   float64
	mediumThreshold float64
	minThrottle     float64
	steerStrength   float64
	sideWeight      float64

	avoidDistance     float64
	collisionDistance float64
	stuckSpeed        float64
	stuckTime         float64

	svgOut     string
	benchRuns  int
	runToEnd   bool
	numColumns = []string{"speed", "clearance", "throttle", "steer", "x", "z", "yaw"}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "roversim",
		Short: "simulated rover control arbitration lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".roversim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&runToEnd, "full-duration", false, "keep ticking after the course is complete")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the driven path as an SVG file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the steering signal",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run telemetry to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and telemetry as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list presets for a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for scenario: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range names {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [mode1] [mode2] ...",
		Short: "compare arbitration modes on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareModes,
	}
	addConfigFlags(compareCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark tick throughput",
		RunE:  benchScenario,
	}
	addConfigFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchRuns, "runs", 1, "parallel runs per cell")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, presetsCmd, compareCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "preset configuration name")
	f.StringVar(&scenario, "scenario", "slalom", "scenario name")
	f.StringVar(&policyName, "policy", "chase", "navigation policy")
	f.StringVar(&mode, "mode", "blended", "arbitration mode (policy|state|fuzzy|blended)")
	f.BoolVar(&allowReverse, "allow-reverse", false, "allow negative throttle in blended mode")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.Int64Var(&seed, "seed", 0, "random seed (0 means time-based)")

	f.IntVar(&raysPerSide, "rays", config.DefaultRaysPerSide, "probe rays per side")
	f.Float64Var(&probeAngle, "probe-angle", config.DefaultMaxProbeAngle, "probe fan half-angle (degrees)")
	f.Float64Var(&probeLength, "probe-length", config.DefaultProbeLength, "probe length")
	f.Float64Var(&probeRadius, "probe-radius", config.DefaultProbeRadius, "probe sphere radius")

	f.Float64Var(&nearThreshold, "near", config.DefaultNearThreshold, "near membership threshold")
	f.Float64Var(&mediumThreshold, "medium", config.DefaultMediumThreshold, "medium membership threshold")
	f.Float64Var(&minThrottle, "min-throttle", config.DefaultMinThrottle, "throttle floor under full reduction")
	f.Float64Var(&steerStrength, "steer-strength", config.DefaultSteerStrength, "fuzzy steer gain")
	f.Float64Var(&sideWeight, "side-weight", config.DefaultSideSteerWeight, "steer damping for side obstacles")

	f.Float64Var(&avoidDistance, "avoid", config.DefaultAvoidDistance, "avoid-state entry distance")
	f.Float64Var(&collisionDistance, "collision", config.DefaultCollisionDistance, "recover-state entry distance")
	f.Float64Var(&stuckSpeed, "stuck-speed", config.DefaultStuckSpeed, "speed below which the rover counts as stuck")
	f.Float64Var(&stuckTime, "stuck-time", config.DefaultStuckTime, "seconds of stall before forced recovery")
}

// resolveConfig layers preset, config file, and changed flags over the
// defaults, in increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cmd.Flags().Changed("scenario") {
		cfg.Scenario = scenario
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q for %s (available: %v)",
				preset, cfg.Scenario, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("scenario", func() { cfg.Scenario = scenario })
	set("policy", func() { cfg.Policy = policyName })
	set("mode", func() { cfg.Mode = mode })
	set("allow-reverse", func() { cfg.AllowReverseInBlend = allowReverse })
	set("dt", func() { cfg.Dt = dt })
	set("time", func() { cfg.Duration = duration })
	set("seed", func() { cfg.Seed = seed })
	set("rays", func() { cfg.Sensor.RaysPerSide = raysPerSide })
	set("probe-angle", func() { cfg.Sensor.MaxProbeAngle = probeAngle })
	set("probe-length", func() { cfg.Sensor.ProbeLength = probeLength })
	set("probe-radius", func() { cfg.Sensor.ProbeRadius = probeRadius })
	set("near", func() { cfg.Fuzzy.NearThreshold = nearThreshold })
	set("medium", func() { cfg.Fuzzy.MediumThreshold = mediumThreshold })
	set("min-throttle", func() { cfg.Fuzzy.MinThrottleMultiplier = minThrottle })
	set("steer-strength", func() { cfg.Fuzzy.SteerStrength = steerStrength })
	set("side-weight", func() { cfg.Fuzzy.SideSteerWeight = sideWeight })
	set("avoid", func() { cfg.State.AvoidDistance = avoidDistance })
	set("collision", func() { cfg.State.CollisionDistance = collisionDistance })
	set("stuck-speed", func() { cfg.State.StuckSpeedThreshold = stuckSpeed })
	set("stuck-time", func() { cfg.State.StuckTimeThreshold = stuckTime })

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
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

	runner, _, err := experiment.Build(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		runner.AddMetric(m)
	}

	fmt.Printf("running %s (%s, %s)...\n", cfg.Scenario, cfg.Policy, cfg.Mode)
	start := time.Now()
	result, err := runner.Run(context.Background(), sim.Config{
		Dt:           cfg.Dt,
		Duration:     cfg.Duration,
		Seed:         cfg.Seed,
		StopWhenDone: !runToEnd,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Scenario, cfg.Policy, cfg.Mode, cfg.Dt, cfg.Duration, cfg.Seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.TicksRun)
	fmt.Printf("checkpoints: %d (course complete: %v)\n", len(result.Checkpoints), result.Completed)
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
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	runner, scn, err := experiment.Build(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	m := viz.NewModel(runner, scn.Field, scn.Start, cfg.Dt, cfg.Scenario, cfg.Mode)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tPOLICY\tMODE\tTIME\tTICKS\tCP\tDONE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%v\n",
			run.ID,
			run.Scenario,
			run.Policy,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Checkpoints,
			run.Completed,
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
	tel, err := st.LoadTelemetry(runID)
	if err != nil {
		return err
	}
	if len(tel.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s, %s)\n", meta.Scenario, meta.Policy, meta.Mode)
	fmt.Printf("samples: %d\n\n", len(tel.Times))

	for _, name := range []string{"speed", "clearance", "throttle", "steer"} {
		data, ok := tel.Columns[name]
		if !ok || len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgOut != "" {
		path := trajectoryPoints(tel.Columns["x"], tel.Columns["z"])
		svg := viz.TrajectorySVG(path, 800, 600)
		if svg == "" {
			return fmt.Errorf("not enough points for SVG export")
		}
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tel, err := st.LoadTelemetry(runID)
	if err != nil {
		return err
	}
	steer := tel.Columns["steer"]
	if len(steer) == 0 {
		return fmt.Errorf("no steering data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%s, %s)\n\n", meta.Scenario, meta.Policy, meta.Mode)

	ps := analysis.PowerSpectrum(steer)
	plotData := ps[:len(ps)/4]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("steer power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(ps, meta.Dt)
	fmt.Printf("dominant steering frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	tel, err := storage.New(dataDir).LoadTelemetry(args[0])
	if err != nil {
		return err
	}
	if len(tel.Times) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"time"}, numColumns...)
	header = append(header, "state")
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range tel.Times {
		row := []string{strconv.FormatFloat(tel.Times[i], 'f', 6, 64)}
		for _, name := range numColumns {
			row = append(row, strconv.FormatFloat(tel.Columns[name][i], 'f', 6, 64))
		}
		row = append(row, tel.States[i])
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func compareModes(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("comparing modes on %s (%s, dt=%.3f, time=%.0fs, seed=%d)\n\n",
		base.Scenario, base.Policy, base.Dt, base.Duration, base.Seed)
	fmt.Printf("%-10s  %-7s  %-5s  %-5s  %-14s  %-14s  %-10s\n",
		"mode", "ticks", "cp", "done", "min_clearance", "control_effort", "time_ms")
	fmt.Println(strings.Repeat("-", 76))

	for _, name := range args {
		cfg := *base
		cfg.Mode = name

		runner, _, err := experiment.Build(&cfg, experiment.NewRegistry())
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}
		for _, m := range metrics.Default() {
			runner.AddMetric(m)
		}

		start := time.Now()
		result, err := runner.Run(context.Background(), sim.Config{
			Dt:           cfg.Dt,
			Duration:     cfg.Duration,
			Seed:         cfg.Seed,
			StopWhenDone: true,
		})
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		fmt.Printf("%-10s  %-7d  %-5d  %-5v  %14.4f  %14.4f  %10.2f\n",
			name, result.TicksRun, len(result.Checkpoints), result.Completed,
			result.Metrics["min_clearance"], result.Metrics["control_effort"],
			float64(elapsed.Microseconds())/1000)
	}
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	durations := []float64{10, 30, 60}
	dts := []float64{0.005, 0.02, 0.05}

	fmt.Printf("benchmarking %s (%s, %s, runs=%d)\n\n", cfg.Scenario, cfg.Policy, cfg.Mode, benchRuns)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tTICKS\tTIME\tTICKS/SEC")

	// Fail fast on a bad scenario or policy before the grid starts.
	if _, _, err := experiment.Build(cfg, experiment.NewRegistry()); err != nil {
		return err
	}

	for _, dur := range durations {
		for _, step := range dts {
			bench := *cfg
			bench.Dt = step
			bench.Duration = dur

			build := func(idx int, runSeed int64) *sim.Runner {
				c := bench
				c.Seed = runSeed
				runner, _, err := experiment.Build(&c, experiment.NewRegistry())
				if err != nil {
					// Build already succeeded for this config before the
					// grid started; only the seed and step vary here.
					panic(fmt.Sprintf("bench build: %v", err))
				}
				return runner
			}

			fleet := sim.NewFleet(build, benchRuns, bench.Seed)
			start := time.Now()
			results, err := fleet.Run(context.Background(), sim.Config{
				Dt:       bench.Dt,
				Duration: bench.Duration,
				Seed:     bench.Seed,
			})
			elapsed := time.Since(start)
			if err != nil {
				return err
			}

			ticks := 0
			for _, r := range results {
				ticks += r.TicksRun
			}
			fmt.Fprintf(w, "%.0fs\t%.3fs\t%d\t%v\t%.0f\n",
				dur, step, ticks, elapsed, float64(ticks)/elapsed.Seconds())
		}
	}
	return w.Flush()
}

func trajectoryPoints(xs, zs []float64) []geom.Vec3 {
	n := len(xs)
	if len(zs) < n {
		n = len(zs)
	}
	points := make([]geom.Vec3, n)
	for i := 0; i < n; i++ {
		points[i] = geom.Vec3{X: xs[i], Z: zs[i]}
	}
	return points
}
