package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/crustsim/internal/automation"
	"github.com/san-kum/crustsim/internal/config"
	"github.com/san-kum/crustsim/internal/experiment"
	"github.com/san-kum/crustsim/internal/export"
	"github.com/san-kum/crustsim/internal/fracture"
	"github.com/san-kum/crustsim/internal/mesh"
	"github.com/san-kum/crustsim/internal/metrics"
	"github.com/san-kum/crustsim/internal/optim"
	"github.com/san-kum/crustsim/internal/storage"
	"github.com/san-kum/crustsim/internal/tui"
	"github.com/san-kum/crustsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	themeName  string

	width        int
	height       int
	connectivity int
	level        int
	radius       float64
	plates       int
	budget       int
	policy       string
	parallel     bool
	compressive  float64
	tensile      float64
	shear        float64
	hotspots     int
	amplitude    float64
	seed         int64
	fieldFile    string

	live      bool
	noSave    bool
	frameRate int

	outFile   string
	svgWidth  int
	svgHeight int
	pngFile   string

	sweepParams []string
	metricName  string
	maximize    bool

	trials int

	smallPlate float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "crustsim",
		Short:         "stress-guided tectonic plate segmentation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := experiment.New(config.DefaultConfig(), experiment.NewRegistry())
			if err != nil {
				return err
			}
			return tui.RunInteractive(exp)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".crustsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "atlas", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		viz.SetTheme(themeName)
	}

	registry := experiment.NewRegistry()
	meshHelp := fmt.Sprintf("mesh kinds: %s\nstress generators: %s",
		strings.Join(registry.ListMeshes(), ", "), strings.Join(registry.ListGenerators(), ", "))

	runCmd := &cobra.Command{
		Use:   "run [mesh]",
		Short: "fracture a mesh into plates",
		Long:  "Fracture a mesh into plates.\n\n" + meshHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFracture,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&live, "live", false, "redraw the plate map while converging")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --live")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().Float64Var(&smallPlate, "small-plate", 0, "also score plates below this fraction of the grid")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a stored plate map",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot plate sizes and growth",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngFile, "png", "", "also write a size bar chart image (png, svg, pdf)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and plate map to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the plate map to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the plate map as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")

	liveCmd := &cobra.Command{
		Use:   "live [mesh]",
		Short: "step plate growth interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [mesh]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(meshHelp)
			fmt.Println()
			names := config.Kinds()
			if len(args) > 0 {
				names = args
			}
			for _, kind := range names {
				presets := config.ListPresets(kind)
				if len(presets) == 0 {
					fmt.Printf("no presets for mesh: %s\n", kind)
					continue
				}
				fmt.Printf("presets for %s:\n", kind)
				for _, p := range presets {
					cfg := config.GetPreset(kind, p)
					fmt.Printf("  %-10s %d plates, strengths %g/%g/%g\n", p, cfg.Plates,
						cfg.Strengths.Compressive, cfg.Strengths.Tensile, cfg.Strengths.Shear)
				}
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [mesh]",
		Short: "grid search over fracture parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=lo:hi:n (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "balance", "metric to optimise")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", true, "prefer larger metric values")
	sweepCmd.Flags().Float64Var(&smallPlate, "small-plate", 0.01, "size fraction below which small_plates counts a plate")

	benchCmd := &cobra.Command{
		Use:   "bench [mesh]",
		Short: "time sequential and parallel convergence",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchMesh,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo [mesh]",
		Short: "rerun with random stress seeds and summarise a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addConfigFlags(montecarloCmd)
	montecarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	montecarloCmd.Flags().StringVar(&metricName, "metric", "balance", "metric to summarise")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		liveCmd, presetsCmd, sweepCmd, benchCmd, scenarioCmd, montecarloCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&width, "width", def.Mesh.Width, "lattice width")
	f.IntVar(&height, "height", def.Mesh.Height, "lattice height")
	f.IntVar(&connectivity, "conn", def.Mesh.Connectivity, "lattice connectivity (4 or 8)")
	f.IntVar(&level, "level", def.Mesh.Level, "icosphere subdivision level")
	f.Float64Var(&radius, "radius", def.Mesh.Radius, "icosphere radius")
	f.IntVar(&plates, "plates", def.Plates, "number of plate slots")
	f.IntVar(&budget, "budget", def.SeedGrowthBudget, "growth steps per plate while seeding")
	f.StringVar(&policy, "policy", def.Policy, "region 0 policy ("+fracture.PolicyBackgroundReserved.String()+", "+fracture.PolicyAllRegions.String()+")")
	f.BoolVar(&parallel, "parallel", def.Parallel, "advance plates concurrently")
	f.Float64Var(&compressive, "compressive", def.Strengths.Compressive, "compressive strength")
	f.Float64Var(&tensile, "tensile", def.Strengths.Tensile, "tensile strength")
	f.Float64Var(&shear, "shear", def.Strengths.Shear, "shear strength")
	f.IntVar(&hotspots, "hotspots", def.Stress.Hotspots, "number of buoyancy hotspots")
	f.Float64Var(&amplitude, "amplitude", def.Stress.Amplitude, "hotspot amplitude")
	f.Int64Var(&seed, "seed", def.Stress.Seed, "stress generator seed")
	f.StringVar(&fieldFile, "field", "", "read the stress field from CSV (id,x,y,z)")
}

// buildConfig layers preset, config file and explicitly set flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	kind := "lattice"
	if len(args) > 0 {
		kind = args[0]
	}

	cfg := config.DefaultConfig()
	cfg.Mesh.Kind = kind
	if preset != "" {
		cfg = config.GetPreset(kind, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(kind))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Mesh.Kind = kind
		}
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Mesh.Width = width
	}
	if flags.Changed("height") {
		cfg.Mesh.Height = height
	}
	if flags.Changed("conn") {
		cfg.Mesh.Connectivity = connectivity
	}
	if flags.Changed("level") {
		cfg.Mesh.Level = level
	}
	if flags.Changed("radius") {
		cfg.Mesh.Radius = radius
	}
	if flags.Changed("plates") {
		cfg.Plates = plates
	}
	if flags.Changed("budget") {
		cfg.SeedGrowthBudget = budget
	}
	if flags.Changed("policy") {
		cfg.Policy = policy
	}
	if flags.Changed("parallel") {
		cfg.Parallel = parallel
	}
	if flags.Changed("compressive") {
		cfg.Strengths.Compressive = compressive
	}
	if flags.Changed("tensile") {
		cfg.Strengths.Tensile = tensile
	}
	if flags.Changed("shear") {
		cfg.Strengths.Shear = shear
	}
	if flags.Changed("hotspots") {
		cfg.Stress.Hotspots = hotspots
	}
	if flags.Changed("amplitude") {
		cfg.Stress.Amplitude = amplitude
	}
	if flags.Changed("seed") {
		cfg.Stress.Seed = seed
	}
	if fieldFile != "" {
		cfg.Stress.Generator = "file"
		cfg.Stress.File = fieldFile
	}

	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runFracture(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	if smallPlate > 0 {
		exp.AddMetric(metrics.NewSmallPlates(smallPlate))
	}

	var renderer *tui.LiveRenderer
	if live {
		renderer = tui.NewLiveRenderer(os.Stdout, exp.Fracturing().Policy(), frameRate)
		exp.AddObserver(renderer)
		renderer.Start()
	} else {
		fmt.Printf("fracturing %s (%d vertices) into %d plates...\n", cfg.Mesh.Kind, exp.Grid().VertexCount(), cfg.Plates)
	}

	ctx, cancel := signalContext()
	defer cancel()
	result, runErr := exp.Run(ctx)
	if renderer != nil {
		renderer.Stop()
	}
	if runErr != nil && result == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Printf("interrupted: %v\n", runErr)
	}

	printResult(exp, result)

	if noSave {
		return runErr
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, exp.Field(), result)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved: %s\n", runID)
	return runErr
}

func printResult(exp *experiment.Experiment, result *experiment.Result) {
	if l, ok := exp.Grid().(*mesh.Lattice); ok {
		fmt.Println(viz.RenderLatticeFit(l, result.Map, result.Counts, 120, 60, viz.CurrentTheme))
		fmt.Println()
	}

	fmt.Printf("iterations: %d  elapsed: %v\n", result.Iterations, result.Elapsed.Round(time.Microsecond))
	fmt.Println(viz.Legend(result.Sizes, viz.CurrentTheme))

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-18s %.4f\n", name, result.Metrics[name])
	}

	if len(result.Boundaries) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "\nPLATES\tEDGES\tKIND\tTENSILE\tSHEAR")
		for _, b := range result.Boundaries {
			fmt.Fprintf(w, "%d-%d\t%d\t%s\t%.3g\t%.3g\n", b.PlateA, b.PlateB, len(b.Edges), b.Kind, b.Tensile, b.Shear)
		}
		w.Flush()
	}
}

func openRun(arg string) (*storage.Store, *storage.RunMetadata, error) {
	st := storage.New(dataDir)
	runID, err := st.Resolve(arg)
	if err != nil {
		return nil, nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	return st, meta, nil
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
	fmt.Fprintln(w, "ID\tMESH\tTIME\tVERTICES\tPLATES\tPOLICY\tITER\tUNCLAIMED\tBALANCE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%d\t%d\t%.3f\n",
			run.ID[:8],
			run.Mesh,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.VertexCount,
			run.Plates,
			run.Policy,
			run.Iterations,
			run.Unclaimed,
			run.Metrics["balance"],
		)
	}

	return w.Flush()
}

// storedGrid rebuilds the mesh a run was fractured on.
func storedGrid(meta *storage.RunMetadata) (mesh.Grid, error) {
	if meta.Config == nil {
		return nil, fmt.Errorf("run %s has no stored config", meta.ID)
	}
	g, err := experiment.NewRegistry().GetMesh(meta.Config)
	if err != nil {
		return nil, err
	}
	if g.VertexCount() != meta.VertexCount {
		return nil, fmt.Errorf("run %s: rebuilt mesh has %d vertices, want %d", meta.ID, g.VertexCount(), meta.VertexCount)
	}
	return g, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	st, meta, err := openRun(args[0])
	if err != nil {
		return err
	}
	plateMap, counts, err := st.LoadPlateMap(meta.ID)
	if err != nil {
		return err
	}
	g, err := storedGrid(meta)
	if err != nil {
		return err
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(viz.CurrentTheme.Primary)
	fmt.Println(title.Render(fmt.Sprintf("run %s", meta.ID)))
	fmt.Printf("mesh: %s  vertices: %d  plates: %d  policy: %s  iterations: %d\n\n",
		meta.Mesh, meta.VertexCount, meta.Plates, meta.Policy, meta.Iterations)

	if l, ok := g.(*mesh.Lattice); ok {
		fmt.Println(viz.RenderLattice(l, plateMap, counts, viz.CurrentTheme))
	} else {
		fmt.Println(viz.RenderProjection(g, plateMap, counts, 72, 24, viz.CurrentTheme))
	}
	fmt.Println()
	fmt.Println(viz.Legend(meta.Sizes, viz.CurrentTheme))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	_, meta, err := openRun(args[0])
	if err != nil {
		return err
	}
	if len(meta.Sizes) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mesh: %s\n\n", meta.Mesh)

	fmt.Println(viz.SizeChart(meta.Sizes, 10))
	fmt.Println()
	if len(meta.Claimed) > 0 {
		fmt.Println(viz.GrowthChart(meta.Claimed, 80, 10))
		fmt.Println()
	}

	if pngFile != "" {
		if err := viz.WriteSizeChart(pngFile, meta.Sizes, "plate sizes "+meta.ID[:8]); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngFile)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, meta, err := openRun(args[0])
	if err != nil {
		return err
	}
	if outFile != "" {
		return st.ExportJSONFile(outFile, meta.ID)
	}
	return st.ExportJSON(os.Stdout, meta.ID)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, meta, err := openRun(args[0])
	if err != nil {
		return err
	}
	plateMap, counts, err := st.LoadPlateMap(meta.ID)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return storage.WritePlateMap(out, plateMap, counts)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st, meta, err := openRun(args[0])
	if err != nil {
		return err
	}
	plateMap, _, err := st.LoadPlateMap(meta.ID)
	if err != nil {
		return err
	}
	g, err := storedGrid(meta)
	if err != nil {
		return err
	}

	palette := make([]string, len(viz.CurrentTheme.Plates))
	for i, c := range viz.CurrentTheme.Plates {
		palette[i] = string(c)
	}
	svg := export.PlateMapToSVG(g, plateMap, svgWidth, svgHeight, export.AutoProjection(g), palette)

	path := outFile
	if path == "" {
		path = meta.ID[:8] + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}
	return tui.RunInteractive(exp)
}

// parseRange reads name=lo:hi:n.
func parseRange(s string) (string, []float64, error) {
	name, bounds, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("bad --param %q: want name=lo:hi:n", s)
	}
	parts := strings.Split(bounds, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("bad --param %q: want name=lo:hi:n", s)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, err
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, err
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", nil, err
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		sweepParams = []string{"tensile=0.01:0.05:5", "shear=0.01:0.05:5"}
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		name, values, err := parseRange(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	gs := optim.NewGridSearch(names, ranges)
	if maximize {
		gs.Maximize()
	}

	registry := experiment.NewRegistry()
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg, err := optim.Apply(base, params)
		if err != nil {
			return nil, err
		}
		exp, err := experiment.New(cfg, registry)
		if err != nil {
			return nil, err
		}
		if smallPlate > 0 {
			exp.AddMetric(metrics.NewSmallPlates(smallPlate))
		}
		return exp, nil
	}

	ctx, cancel := signalContext()
	defer cancel()
	best, value, trialList, err := gs.Search(ctx, build, metricName)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName))
	for _, t := range trialList {
		row := make([]string, 0, len(names)+1)
		for _, n := range names {
			row = append(row, strconv.FormatFloat(t.Params[n], 'g', 4, 64))
		}
		if t.Err != nil {
			row = append(row, "error: "+t.Err.Error())
		} else {
			row = append(row, strconv.FormatFloat(t.Value, 'f', 4, 64))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()

	if best != nil {
		fmt.Printf("\nbest %s = %.4f at %v\n", metricName, value, best)
	}
	return err
}

func benchMesh(cmd *cobra.Command, args []string) error {
	kind := "lattice"
	if len(args) > 0 {
		kind = args[0]
	}

	var configs []*config.Config
	switch kind {
	case "lattice":
		for _, side := range []int{32, 64, 128, 256} {
			cfg := config.DefaultConfig()
			cfg.Mesh.Width, cfg.Mesh.Height = side, side
			configs = append(configs, cfg)
		}
	case "icosphere":
		for lvl := 2; lvl <= 5; lvl++ {
			cfg := config.DefaultConfig()
			cfg.Mesh.Kind = "icosphere"
			cfg.Mesh.Level = lvl
			configs = append(configs, cfg)
		}
	default:
		return fmt.Errorf("unknown mesh: %s", kind)
	}

	registry := experiment.NewRegistry()

	fmt.Printf("benchmarking %s\n\n", kind)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERTICES\tMODE\tITER\tTIME\tVERTICES/SEC")

	for _, cfg := range configs {
		for _, par := range []bool{false, true} {
			cfg := cfg.Clone()
			cfg.Parallel = par
			exp, err := experiment.New(cfg, registry)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			mode := "sequential"
			if par {
				mode = "parallel"
			}
			n := exp.Grid().VertexCount()
			fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.0f\n",
				n, mode, result.Iterations, elapsed.Round(time.Microsecond), float64(n)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if scenario.Name == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	ctx, cancel := signalContext()
	defer cancel()
	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), st, os.Stdout)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nSTEP\tMESH\tVERTICES\tPLATES\tITER\tUNCLAIMED\tBALANCE\tRUN")
	for i, r := range results {
		runID := "-"
		if r.RunID != "" {
			runID = r.RunID[:8]
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%.3f\t%s\n",
			i+1, r.Config.Mesh.Kind, len(r.Result.Map), r.Config.Plates, r.Result.Iterations,
			len(r.Result.Unclaimed), r.Result.Metrics["balance"], runID)
	}
	w.Flush()
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:      base,
		NumTrials: trials,
		Metric:    metricName,
		Seed:      base.Stress.Seed,
	}, experiment.NewRegistry(), os.Stdout)
	if err != nil && len(results) == 0 {
		return err
	}

	mean, stddev, lo, hi := automation.MonteCarloStats(results)
	fmt.Printf("\n%s over %d trials: mean %.4f  std %.4f  min %.4f  max %.4f\n",
		metricName, len(results), mean, stddev, lo, hi)

	unclaimed := 0
	for _, r := range results {
		if r.Unclaimed > 0 {
			unclaimed++
		}
	}
	fmt.Printf("trials with unclaimed vertices: %d/%d\n", unclaimed, len(results))
	return err
}
