package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/polypot/internal/atoms"
	"github.com/san-kum/polypot/internal/config"
	"github.com/san-kum/polypot/internal/dict"
	"github.com/san-kum/polypot/internal/fit"
	"github.com/san-kum/polypot/internal/invariants"
	"github.com/san-kum/polypot/internal/logger"
	"github.com/san-kum/polypot/internal/md"
	"github.com/san-kum/polypot/internal/nbody"
	"github.com/san-kum/polypot/internal/potential"
	"github.com/san-kum/polypot/internal/record"
	"github.com/san-kum/polypot/internal/store"
	"github.com/san-kum/polypot/internal/viz"
)

var (
	dataDir    string
	debug      bool
	configFile string
	preset     string
	potID      string
	recordFile string
	workers    int

	// basis
	transform string
	cutoff    string
	inverse   bool
	monotone  bool

	// eval / fdcheck
	showSites bool
	rattle    float64
	fdStep    float64

	// scan
	scanFrom float64
	scanTo   float64
	scanN    int
	scanSave string

	// md
	steps      int
	dt         float64
	temp       float64
	live       bool
	exportPath string

	// fit
	samples   int
	ridge     float64
	ridgeGrid []float64
	validFrac float64
	fitName   string

	outFile string
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func heading(s string) { fmt.Println(headingStyle.Render(s)) }

func main() {
	rootCmd := &cobra.Command{
		Use:   "polypot",
		Short: "invariant-polynomial interatomic potentials",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logger.Params{Debug: debug, Output: os.Stderr})
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".polypot", "data directory")
	pf.BoolVar(&debug, "debug", false, "debug logging")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "preset as group/name")
	pf.StringVar(&potID, "potential", "", "stored potential id")
	pf.StringVar(&recordFile, "record", "", "potential record file (json or yaml)")
	pf.IntVar(&workers, "workers", 0, "evaluation goroutines (0 = all CPUs)")

	basisCmd := &cobra.Command{
		Use:   "basis [order] [degree]",
		Short: "list the basis tuples of one body order",
		Args:  cobra.ExactArgs(2),
		RunE:  showBasis,
	}
	basisCmd.Flags().StringVar(&transform, "transform", "inv(1,2)", "distance transform")
	basisCmd.Flags().StringVar(&cutoff, "cutoff", "cos(2,2.5)", "cutoff")
	basisCmd.Flags().BoolVar(&inverse, "inverse", false, "use the inverse of the transform")
	basisCmd.Flags().BoolVar(&monotone, "check-monotone", false, "verify the degree bound is monotone")

	evalCmd := &cobra.Command{
		Use:   "eval [xyz]",
		Short: "energy, forces and stress of a configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  evalStructure,
	}
	evalCmd.Flags().BoolVar(&showSites, "sites", false, "print site energies")
	evalCmd.Flags().Float64Var(&rattle, "rattle", 0, "gaussian displacement of the lattice")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "energy per atom against the lattice constant",
		RunE:  scanLattice,
	}
	scanCmd.Flags().Float64Var(&scanFrom, "from", 0, "first lattice constant (default 0.85a)")
	scanCmd.Flags().Float64Var(&scanTo, "to", 0, "last lattice constant (default 1.25a)")
	scanCmd.Flags().IntVar(&scanN, "n", 40, "number of points")
	scanCmd.Flags().StringVar(&scanSave, "save", "", "store the scan under this potential id")

	fdCmd := &cobra.Command{
		Use:   "fdcheck",
		Short: "compare forces with finite differences",
		RunE:  fdCheck,
	}
	fdCmd.Flags().Float64Var(&rattle, "rattle", 0.03, "gaussian displacement of the lattice")
	fdCmd.Flags().Float64Var(&fdStep, "h", 1e-5, "finite difference step")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time evaluation against the number of workers",
		RunE:  bench,
	}

	mdCmd := &cobra.Command{
		Use:   "md",
		Short: "constant-energy molecular dynamics",
		RunE:  runMD,
	}
	mdCmd.Flags().IntVar(&steps, "steps", 0, "number of steps (default from config)")
	mdCmd.Flags().Float64Var(&dt, "dt", 0, "time step (default from config)")
	mdCmd.Flags().Float64Var(&temp, "temp", -1, "initial temperature (default from config)")
	mdCmd.Flags().BoolVar(&live, "live", false, "live terminal view")
	mdCmd.Flags().StringVar(&exportPath, "export", "", "write the trajectory summary as JSON")

	fitCmd := &cobra.Command{
		Use:   "fit [xyz]",
		Short: "fit the configured basis to reference energies",
		Long: "Fits the basis of the configured bodies by linear least squares. Without an " +
			"xyz file the reference energies come from the configured potential itself.",
		Args: cobra.MaximumNArgs(1),
		RunE: fitBasis,
	}
	fitCmd.Flags().IntVar(&samples, "samples", 40, "generated training configurations")
	fitCmd.Flags().Float64Var(&rattle, "rattle", 0.05, "gaussian displacement of generated configurations")
	fitCmd.Flags().Float64Var(&ridge, "ridge", 0, "ridge parameter")
	fitCmd.Flags().Float64SliceVar(&ridgeGrid, "ridge-grid", nil, "ridge values to select from on a validation split")
	fitCmd.Flags().Float64Var(&validFrac, "valid", 0.2, "validation fraction for --ridge-grid")
	fitCmd.Flags().StringVar(&fitName, "name", "", "store the fitted potential under this name")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored potentials",
		RunE:  listPotentials,
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "show a stored potential",
		Args:  cobra.ExactArgs(1),
		RunE:  showPotential,
	}
	showCmd.Flags().StringVarP(&outFile, "out", "o", "", "also write the potential record to this file")

	presetsCmd := &cobra.Command{
		Use:   "presets [group]",
		Short: "list preset groups or the presets of one group",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, g := range config.ListGroups() {
					fmt.Printf("%s: %s\n", g, strings.Join(config.ListPresets(g), ", "))
				}
				return nil
			}
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets in group: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets in %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return config.Save(args[0], cfg)
		},
	}

	rootCmd.AddCommand(basisCmd, evalCmd, scanCmd, fdCmd, benchCmd, mdCmd, fitCmd, listCmd, showCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves --preset, then --config, then the default.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case preset != "":
		group, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be group/name, got %q (groups: %v)", preset, config.ListGroups())
		}
		p := config.GetPreset(group, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available in %s: %v)", preset, group, config.ListPresets(group))
		}
		c := *p
		cfg = &c
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	default:
		cfg = config.DefaultConfig()
	}
	if workers != 0 {
		cfg.Workers = workers
	}
	return cfg, nil
}

// loadPotential prefers a stored potential, then a record file, then the
// configured one.
func loadPotential(cfg *config.Config) (*potential.Potential, string, error) {
	opts := []potential.Option{potential.WithWorkers(cfg.Workers)}
	switch {
	case potID != "":
		p, err := store.New(dataDir).LoadPotential(potID, opts...)
		return p, potID, err
	case recordFile != "":
		r, err := record.ReadFile(recordFile)
		if err != nil {
			return nil, "", err
		}
		p, err := potential.FromRecord(r, opts...)
		return p, recordFile, err
	}
	p, err := cfg.Build()
	return p, cfg.Name, err
}

func loadStructure(cfg *config.Config, args []string) ([]atoms.Frame, error) {
	if len(args) == 0 {
		at, err := cfg.Atoms()
		if err != nil {
			return nil, err
		}
		if rattle > 0 {
			atoms.Rattle(at, rattle, cfg.Seed)
		}
		return []atoms.Frame{{Atoms: at}}, nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return atoms.ReadXYZ(f)
}

func showBasis(cmd *cobra.Command, args []string) error {
	var order, degree int
	if _, err := fmt.Sscan(args[0], &order); err != nil {
		return fmt.Errorf("order: %w", err)
	}
	if _, err := fmt.Sscan(args[1], &degree); err != nil {
		return fmt.Errorf("degree: %w", err)
	}

	var dopts []dict.Option
	if inverse {
		dopts = append(dopts, dict.WithInverse())
	}
	d, err := dict.New(order, transform, cutoff, dopts...)
	if err != nil {
		return err
	}
	var gopts []nbody.GenOption
	if monotone {
		gopts = append(gopts, nbody.WithMonotoneCheck())
	}
	tuples, err := nbody.GenTuples(order, nbody.DegreeBound(order, degree), gopts...)
	if err != nil {
		return err
	}

	heading(fmt.Sprintf("%s, degree <= %d", d, degree))
	fmt.Println(mutedStyle.Render(fmt.Sprintf("edges %d, primary degrees %v, secondary degrees %v",
		invariants.NumEdges(order), invariants.PrimaryDegrees(order), invariants.SecondaryDegrees(order))))
	fmt.Printf("%d basis functions\n\n", len(tuples))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPRIMARY\tSECONDARY\tDEGREE")
	np := invariants.NumPrimary(order)
	for k, t := range tuples {
		fmt.Fprintf(w, "%d\t%v\t%d\t%d\n", k, []int(t[:np]), t[np], nbody.TotalDegree(order, t))
	}
	return w.Flush()
}

func evalStructure(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, name, err := loadPotential(cfg)
	if err != nil {
		return err
	}
	frames, err := loadStructure(cfg, args)
	if err != nil {
		return err
	}

	heading(fmt.Sprintf("%s: %s", name, p))
	for i, fr := range frames {
		at := fr.Atoms
		start := time.Now()
		e, f, err := p.EnergyForces(at)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		elapsed := time.Since(start)

		var fmax float64
		for _, fi := range f {
			fmax = math.Max(fmax, r3.Norm(fi))
		}

		fmt.Printf("\nframe %d: %d atoms\n", i, at.Len())
		fmt.Printf("  energy       %.10g\n", e)
		fmt.Printf("  energy/atom  %.10g\n", e/float64(at.Len()))
		if fr.HasEnergy {
			fmt.Printf("  reference    %.10g (error %.3g/atom)\n", fr.Energy, (e-fr.Energy)/float64(at.Len()))
		}
		fmt.Printf("  max |force|  %.6g\n", fmax)
		fmt.Printf("  time         %v\n", elapsed)

		if at.Periodic() {
			s, err := p.Stress(at)
			if err != nil {
				return err
			}
			fmt.Printf("  stress\n%v\n", mat.Formatted(s, mat.Prefix("    "), mat.Squeeze()))
		}

		terms := p.Terms()
		es, err := potential.Energies(terms, at, potential.WithWorkers(cfg.Workers))
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  TERM\tORDER\tFUNCTIONS\tENERGY")
		for k, t := range terms {
			fmt.Fprintf(w, "  %d\t%d\t%d\t%.10g\n", k, t.BodyOrder(), t.Len(), es[k])
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if showSites {
			site, err := p.SiteEnergies(at)
			if err != nil {
				return err
			}
			for j, v := range site {
				fmt.Printf("  site %4d  %.10g\n", j, v)
			}
		}
	}
	return nil
}

func scanLattice(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, name, err := loadPotential(cfg)
	if err != nil {
		return err
	}
	if scanN < 2 {
		return fmt.Errorf("need at least 2 points, got %d", scanN)
	}

	from, to := scanFrom, scanTo
	if from == 0 {
		from = 0.85 * cfg.Lattice.A
	}
	if to == 0 {
		to = 1.25 * cfg.Lattice.A
	}

	points := make([]store.ScanPoint, scanN)
	energies := make([]float64, scanN)
	best := 0
	for i := range points {
		a := from + (to-from)*float64(i)/float64(scanN-1)
		at, err := atoms.Lattice(cfg.Lattice.Kind, a, cfg.Lattice.Reps)
		if err != nil {
			return err
		}
		e, err := p.Energy(at)
		if err != nil {
			return err
		}
		energies[i] = e / float64(at.Len())
		points[i] = store.ScanPoint{Param: a, Energy: energies[i]}
		if energies[i] < energies[best] {
			best = i
		}
	}

	heading(fmt.Sprintf("%s on %s", name, cfg.Lattice.Kind))
	fmt.Println(asciigraph.Plot(energies,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("energy/atom for a in [%.3f, %.3f]", from, to)),
	))
	fmt.Printf("\nminimum: a = %.4f, energy/atom = %.6g\n", points[best].Param, points[best].Energy)

	if scanSave != "" {
		if err := store.New(dataDir).SaveScan(scanSave, "a", points); err != nil {
			return err
		}
		fmt.Printf("scan stored with %s\n", scanSave)
	}
	return nil
}

func fdCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, name, err := loadPotential(cfg)
	if err != nil {
		return err
	}
	frames, err := loadStructure(cfg, nil)
	if err != nil {
		return err
	}
	at := frames[0].Atoms

	f, err := p.Forces(at)
	if err != nil {
		return err
	}

	heading(fmt.Sprintf("%s: finite differences, h = %g", name, fdStep))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ATOM\tAXIS\tFORCE\tFD\tERROR")

	check := []int{0, at.Len() / 3, 2 * at.Len() / 3, at.Len() - 1}
	var maxErr float64
	for _, i := range check {
		for axis, label := range []string{"x", "y", "z"} {
			p0 := at.Pos[i]
			at.Pos[i] = displace(p0, axis, fdStep)
			ep, err := p.Energy(at)
			if err != nil {
				return err
			}
			at.Pos[i] = displace(p0, axis, -fdStep)
			em, err := p.Energy(at)
			if err != nil {
				return err
			}
			at.Pos[i] = p0

			fd := -(ep - em) / (2 * fdStep)
			got := component(f[i], axis)
			diff := math.Abs(got - fd)
			maxErr = math.Max(maxErr, diff)
			fmt.Fprintf(w, "%d\t%s\t%.8g\t%.8g\t%.2e\n", i, label, got, fd, diff)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nmax error %.3e\n", maxErr)
	return nil
}

func displace(p r3.Vec, axis int, h float64) r3.Vec {
	switch axis {
	case 0:
		p.X += h
	case 1:
		p.Y += h
	default:
		p.Z += h
	}
	return p
}

func component(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	frames, err := loadStructure(cfg, nil)
	if err != nil {
		return err
	}
	at := frames[0].Atoms

	counts := []int{1}
	for n := 2; n <= runtime.NumCPU(); n *= 2 {
		counts = append(counts, n)
	}

	heading(fmt.Sprintf("benchmarking %s on %d atoms", cfg.Name, at.Len()))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tENERGY\tENERGY+FORCES\tSPEEDUP")

	const reps = 5
	var base time.Duration
	for _, n := range counts {
		cfg.Workers = n
		p, _, err := loadPotential(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		for k := 0; k < reps; k++ {
			if _, err := p.Energy(at); err != nil {
				return err
			}
		}
		te := time.Since(start) / reps

		start = time.Now()
		for k := 0; k < reps; k++ {
			if _, _, err := p.EnergyForces(at); err != nil {
				return err
			}
		}
		tf := time.Since(start) / reps
		if n == 1 {
			base = tf
		}
		fmt.Fprintf(w, "%d\t%v\t%v\t%.2fx\n", n, te, tf, float64(base)/float64(tf))
	}
	return w.Flush()
}

func runMD(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, name, err := loadPotential(cfg)
	if err != nil {
		return err
	}
	at, err := cfg.Atoms()
	if err != nil {
		return err
	}

	mdCfg := cfg.MDConfig()
	if steps > 0 {
		mdCfg.Steps = steps
	}
	if dt > 0 {
		mdCfg.Dt = dt
	}
	t0 := cfg.MD.Temperature
	if temp >= 0 {
		t0 = temp
	}
	vel := md.InitVelocities(at.Len(), t0, mdCfg.Mass, cfg.Seed)

	if live {
		return viz.Run(name, p, at, vel, mdCfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sim := md.New(p)
	sim.AddMetric(md.NewEnergyDrift())
	sim.AddMetric(md.NewMeanTemperature())
	sim.AddObserver(md.ObserverFunc(func(s md.Snapshot) {
		logger.Debug("md", "step", s.Step, "total", s.Total(), "temperature", s.Temperature)
	}))

	fmt.Printf("running %d steps of %s on %d atoms...\n", mdCfg.Steps, name, at.Len())
	start := time.Now()
	res, err := sim.Run(ctx, at, vel, mdCfg)
	if res == nil {
		return err
	}
	if err != nil {
		logger.Warn("md stopped early", "err", err)
	}
	elapsed := time.Since(start)

	total := make([]float64, len(res.Snapshots))
	temps := make([]float64, len(res.Snapshots))
	for i, s := range res.Snapshots {
		total[i] = s.Total()
		temps[i] = s.Temperature
	}
	if len(total) > 1 {
		fmt.Println(asciigraph.Plot(total, asciigraph.Height(8), asciigraph.Width(80), asciigraph.Caption("total energy")))
		fmt.Println()
		fmt.Println(asciigraph.Plot(temps, asciigraph.Height(6), asciigraph.Width(80), asciigraph.Caption("temperature")))
	}

	fmt.Printf("\ncompleted %d steps in %v\n", res.StepsTaken, elapsed)
	fmt.Println("metrics:")
	for name, val := range res.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	if exportPath != "" {
		if err := store.ExportTrajectory(exportPath, mdCfg.Dt, res); err != nil {
			return err
		}
		fmt.Printf("trajectory written to %s\n", exportPath)
	}
	return err
}

func fitBasis(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	basis, err := cfg.Basis()
	if err != nil {
		return err
	}

	var data []fit.Sample
	if len(args) == 1 {
		frames, err := loadStructure(cfg, args)
		if err != nil {
			return err
		}
		data = fit.FromFrames(frames)
	} else {
		data, err = generateSamples(cfg)
		if err != nil {
			return err
		}
	}

	heading(fmt.Sprintf("fitting %d basis functions to %d configurations", len(basis), len(data)))
	opts := fit.Options{Ridge: ridge, Workers: cfg.Workers}

	var res *fit.Result
	if len(ridgeGrid) > 0 {
		cut := len(data) - int(validFrac*float64(len(data)))
		if cut <= 0 || cut >= len(data) {
			return fmt.Errorf("validation split leaves %d of %d samples for training", cut, len(data))
		}
		var verr float64
		res, verr, err = fit.NewRidgeSearch(ridgeGrid).Search(cmd.Context(), basis, data[:cut], data[cut:], opts)
		if err != nil {
			return err
		}
		fmt.Printf("validation rmse/atom %.4g\n", verr)
	} else {
		res, err = fit.Fit(basis, data, opts)
		if err != nil {
			return err
		}
	}

	fmt.Printf("training rmse/atom   %.4g\n", res.RMSE)
	fmt.Printf("max error/atom       %.4g\n", res.MaxError)
	fmt.Printf("result               %s\n", res.Potential)

	if fitName != "" {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(fitName, res.Potential, map[string]float64{
			"rmse":      res.RMSE,
			"max_error": res.MaxError,
			"samples":   float64(len(data)),
		})
		if err != nil {
			return err
		}
		fmt.Printf("stored as %s\n", id)
	}
	return nil
}

// generateSamples labels rattled copies of the configured lattice with the
// configured potential.
func generateSamples(cfg *config.Config) ([]fit.Sample, error) {
	ref, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	out := make([]fit.Sample, samples)
	for i := range out {
		at, err := cfg.Atoms()
		if err != nil {
			return nil, err
		}
		// a little volume change so that the 1-body column is not the only
		// thing separating the samples
		at.Scale(1 + 0.02*(float64(i%5)-2))
		atoms.Rattle(at, rattle, cfg.Seed+int64(i)+1)
		e, err := ref.Energy(at)
		if err != nil {
			return nil, err
		}
		out[i] = fit.Sample{Atoms: at, Energy: e}
	}
	return out, nil
}

func listPotentials(cmd *cobra.Command, args []string) error {
	entries, err := store.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no potentials found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tORDER\tCUTOFF\tTERMS\tFUNCTIONS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3g\t%d\t%d\n",
			e.ID,
			e.Name,
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.BodyOrder,
			e.Cutoff,
			e.Terms,
			e.Functions,
		)
	}
	return w.Flush()
}

func showPotential(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	p, err := st.LoadPotential(args[0])
	if err != nil {
		return err
	}

	heading(meta.ID)
	fmt.Printf("name:     %s\n", meta.Name)
	fmt.Printf("created:  %s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Printf("order:    %d\n", meta.BodyOrder)
	fmt.Printf("cutoff:   %g\n", meta.Cutoff)
	for k, v := range meta.Metrics {
		fmt.Printf("%-9s %.6g\n", k+":", v)
	}

	fmt.Println()
	for k, t := range p.Terms() {
		fmt.Printf("  %d  %v\n", k, t)
	}

	if param, points, err := st.LoadScan(args[0]); err == nil && len(points) > 1 {
		energies := make([]float64, len(points))
		for i, pt := range points {
			energies[i] = pt.Energy
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(energies,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("energy/atom vs %s in [%.3f, %.3f]", param, points[0].Param, points[len(points)-1].Param)),
		))
	}

	if outFile != "" {
		if err := record.WriteFile(outFile, p.ToRecord()); err != nil {
			return err
		}
		fmt.Printf("\nrecord written to %s\n", outFile)
	}
	return nil
}
