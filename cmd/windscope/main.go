package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/windscope/internal/animate"
	"github.com/san-kum/windscope/internal/automation"
	"github.com/san-kum/windscope/internal/config"
	"github.com/san-kum/windscope/internal/export"
	"github.com/san-kum/windscope/internal/optim"
	"github.com/san-kum/windscope/internal/storage"
	"github.com/san-kum/windscope/internal/tone"
	"github.com/san-kum/windscope/internal/tui"
	"github.com/san-kum/windscope/internal/viz"
	"github.com/san-kum/windscope/internal/wave"
	"github.com/san-kum/windscope/internal/winding"
)

var (
	dataDir    string
	configFile string
	preset     string
	bankName   string
	verbose    bool
	// signal overrides
	oscFlags []string
	startMs  float64
	endMs    float64
	lapRate  float64
	width    int
	// output
	csvOut       bool
	jsonOut      string
	svgOut       string
	gifOut       string
	resolution   int
	workers      int
	sweepWorkers int
	rows         int
	// peak search
	peakLo    float64
	peakHi    float64
	peakSteps int
	peakPlot  bool
	// animation
	animSecs  float64
	frameRate int
	// tone
	toneOut  string
	tonePlay bool
	toneSolo int
	toneSecs float64
	volume   float64
	// live
	menu   bool
	saveAs string

	logger *log.Logger
)

// main registers commands and flags, opens the live view when no subcommand
// is given, and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "windscope",
		Short:         "winding transform lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Prefix:          "windscope",
			})
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".windscope", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&bankName, "bank", "", "load a saved oscillator bank")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringArrayVar(&oscFlags, "osc", nil, "oscillator FREQ[:PHASE] (repeatable)")
	pf.Float64Var(&startMs, "start", config.DefaultStartMs, "range start (ms)")
	pf.Float64Var(&endMs, "end", config.DefaultEndMs, "range end (ms)")
	pf.Float64Var(&lapRate, "lap", config.DefaultLapRate, "lap rate (windings per second)")
	pf.IntVar(&width, "width", winding.DefaultSweepWidth, "sweep columns")

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "print the composite signal over the range",
		RunE:  runSample,
	}
	sampleCmd.Flags().IntVar(&resolution, "resolution", 0, "sample count (0: config)")
	sampleCmd.Flags().BoolVar(&csvOut, "csv", false, "write CSV")

	centroidCmd := &cobra.Command{
		Use:   "centroid",
		Short: "centroid of the winding at the lap rate",
		RunE:  runCentroid,
	}
	centroidCmd.Flags().IntVar(&resolution, "resolution", 0, "sample count (0: config)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "plot centroid x across lap rates",
		RunE:  runSweep,
	}
	sweepCmd.Flags().BoolVar(&csvOut, "csv", false, "write CSV")
	sweepCmd.Flags().StringVar(&jsonOut, "json", "", "write JSON to file")
	sweepCmd.Flags().StringVar(&svgOut, "svg", "", "write SVG to file")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 1, "parallel sweep workers")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "draw the winding trace",
		RunE:  runTrace,
	}
	traceCmd.Flags().StringVar(&svgOut, "svg", "", "write SVG to file")
	traceCmd.Flags().IntVar(&rows, "rows", 20, "canvas rows")
	traceCmd.Flags().BoolVar(&csvOut, "csv", false, "write trace points as CSV")

	peakCmd := &cobra.Command{
		Use:   "peak",
		Short: "find the lap rate with the strongest centroid",
		RunE:  runPeak,
	}
	peakCmd.Flags().Float64Var(&peakLo, "lo", winding.MinSweepLap, "band start")
	peakCmd.Flags().Float64Var(&peakHi, "hi", 0, "band end (0: sweep domain)")
	peakCmd.Flags().IntVar(&peakSteps, "steps", optim.DefaultSteps, "grid steps")
	peakCmd.Flags().BoolVar(&peakPlot, "plot", false, "plot strength over the band")

	animateCmd := &cobra.Command{
		Use:   "animate",
		Short: "animate the winding in the terminal",
		RunE:  runAnimate,
	}
	animateCmd.Flags().Float64Var(&animSecs, "duration", config.DefaultAnimation, "animation length (s)")
	animateCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	animateCmd.Flags().StringVar(&gifOut, "gif", "", "record frames to GIF")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive winding view",
		RunE:  runLive,
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().BoolVar(&menu, "menu", false, "start from the preset menu")
		c.Flags().StringVar(&saveAs, "save", "", "save the edited bank on exit")
	}

	toneCmd := &cobra.Command{
		Use:   "tone",
		Short: "render the composite as audio",
		RunE:  runTone,
	}
	toneCmd.Flags().StringVar(&toneOut, "out", "", "write WAV file")
	toneCmd.Flags().BoolVar(&tonePlay, "play", false, "play through the sound card")
	toneCmd.Flags().IntVar(&toneSolo, "solo", -1, "play one oscillator by id")
	toneCmd.Flags().Float64Var(&toneSecs, "seconds", config.DefaultToneLength, "length (s)")
	toneCmd.Flags().Float64Var(&volume, "volume", config.DefaultVolume, "volume percent")

	bankCmd := &cobra.Command{
		Use:   "bank",
		Short: "manage saved oscillator banks",
	}
	bankCmd.AddCommand(
		&cobra.Command{Use: "save [name]", Short: "save the current bank", Args: cobra.ExactArgs(1), RunE: bankSave},
		&cobra.Command{Use: "list", Short: "list saved banks", RunE: bankList},
		&cobra.Command{Use: "show [name]", Short: "print a saved bank", Args: cobra.ExactArgs(1), RunE: bankShow},
		&cobra.Command{Use: "delete [name]", Short: "delete a saved bank", Args: cobra.ExactArgs(1), RunE: bankDelete},
	)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tRANGE\tLAP\tOSCILLATORS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g-%g ms\t%g\t%s\n", name, p.Range.StartMs, p.Range.EndMs, p.LapRate, describe(p.Bank()))
			}
			return w.Flush()
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML batch of analyses",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().IntVar(&workers, "workers", 0, "concurrent steps (0: GOMAXPROCS)")

	rootCmd.AddCommand(sampleCmd, centroidCmd, sweepCmd, traceCmd, peakCmd, animateCmd, liveCmd, toneCmd, bankCmd, presetsCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = log.Default()
		}
		logger.Error(err)
		os.Exit(1)
	}
}

// loadConfig builds the run configuration: defaults, then preset, then
// config file, then saved bank, then flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		logger.Debug("loaded config", "path", configFile)
	}

	if bankName != "" {
		bank, meta, err := storage.New(dataDir).LoadBank(bankName)
		if err != nil {
			return nil, err
		}
		cfg.SetBank(bank)
		set := meta.Settings()
		cfg.Range = config.RangeConfig{StartMs: set.Range.StartMs, EndMs: set.Range.EndMs}
		cfg.LapRate = set.LapRate
		logger.Debug("loaded bank", "name", bankName, "oscillators", bank.Len())
	}

	flags := cmd.Flags()
	if flags.Changed("osc") {
		oscs, err := parseOscillators(oscFlags)
		if err != nil {
			return nil, err
		}
		cfg.Oscillators = oscs
	}
	if flags.Changed("start") {
		cfg.Range.StartMs = startMs
	}
	if flags.Changed("end") {
		cfg.Range.EndMs = endMs
	}
	if flags.Changed("lap") {
		cfg.LapRate = lapRate
	}
	if flags.Changed("width") {
		cfg.SweepWidth = width
	}
	if flags.Changed("duration") {
		cfg.Animation.Duration = animSecs
	}
	if flags.Changed("fps") {
		cfg.Animation.FPS = frameRate
	}
	if flags.Changed("volume") {
		cfg.Tone.Volume = volume
	}
	if flags.Changed("seconds") {
		cfg.Tone.Length = toneSecs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseOscillators reads FREQ or FREQ:PHASE pairs.
func parseOscillators(specs []string) ([]config.OscillatorConfig, error) {
	out := make([]config.OscillatorConfig, 0, len(specs))
	for _, s := range specs {
		freqStr, phaseStr, hasPhase := strings.Cut(s, ":")
		f, err := strconv.ParseFloat(freqStr, 64)
		if err != nil {
			return nil, fmt.Errorf("oscillator %q: %w", s, err)
		}
		p := wave.DefaultPhase
		if hasPhase {
			if p, err = strconv.ParseFloat(phaseStr, 64); err != nil {
				return nil, fmt.Errorf("oscillator %q: %w", s, err)
			}
		}
		out = append(out, config.OscillatorConfig{Frequency: f, Phase: p})
	}
	return out, nil
}

func describe(b wave.Bank) string {
	parts := make([]string, 0, b.Len())
	for _, o := range b.Oscillators {
		parts = append(parts, fmt.Sprintf("%gHz@%g°", o.Frequency, o.Phase))
	}
	return strings.Join(parts, " ")
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res := resolution
	if res <= 0 {
		res = cfg.Resolution.Signal
	}
	s := wave.SampleRange(cfg.Bank().Snapshot(), cfg.TimeRange(), res)

	if csvOut {
		return export.WriteSamplesCSV(os.Stdout, s)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "T_MS\tVALUE")
	for i := range s.Values {
		fmt.Fprintf(w, "%.4f\t%.6f\n", s.Times[i], s.Values[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nsamples: %d  max|v|: %.4f  scale: %.4f\n", s.Len(), s.MaxAbs, s.Scale())
	return nil
}

func runCentroid(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res := resolution
	if res <= 0 {
		res = cfg.Resolution.Centroid
	}
	r := cfg.TimeRange()
	lap := winding.NormalizeLapRate(cfg.LapRate)
	c := winding.Centroid(cfg.Bank().Snapshot(), lap, r.StartMs, r.Len(), res)

	fmt.Printf("lap rate: %g\n", lap)
	fmt.Printf("laps in range: %.4f\n", winding.LapsInRange(r, lap))
	fmt.Printf("centroid: (%.6f, %.6f)\n", c.X, c.Y)
	fmt.Printf("|centroid|: %.6f\n", c.Norm())
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	oscs := cfg.Bank().Snapshot()
	r := cfg.TimeRange()
	in := cfg.Inputs()
	in.Workers = sweepWorkers
	a := winding.Analyze(in)
	spec := a.Spectrum

	if jsonOut != "" {
		if err := export.ExportJSON(jsonOut, export.NewExportData(a, oscs, r)); err != nil {
			return err
		}
		logger.Info("wrote sweep", "path", jsonOut)
	}
	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.SpectrumToSVG(spec, 800, 300)), 0644); err != nil {
			return err
		}
		logger.Info("wrote sweep", "path", svgOut)
	}
	if csvOut {
		return export.WriteSweepCSV(os.Stdout, spec)
	}
	if len(spec.Values) == 0 {
		return errors.New("no sweep columns")
	}

	graph := asciigraph.Plot(spec.Values,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.LowerBound(-spec.Scale),
		asciigraph.UpperBound(spec.Scale),
		asciigraph.Caption(fmt.Sprintf("centroid x, lap %.2f..%.2f", spec.Lo(), spec.Hi())),
	)
	fmt.Println(graph)
	fmt.Printf("\nmarker: lap %g -> x %.6f\n", spec.Marker.Lap, spec.Marker.X)
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a := winding.Analyze(cfg.Inputs())

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.TraceToSVG(a.Trace, 600)), 0644); err != nil {
			return err
		}
		logger.Info("wrote trace", "path", svgOut)
	}
	if csvOut {
		return export.WriteTraceCSV(os.Stdout, a.Trace)
	}

	fmt.Print(viz.RenderTrace(a.Trace, rows*2, rows).String())
	fmt.Printf("lap %g  laps %.3f  trace centroid (%.2f, %.2f)\n",
		a.LapRate, a.LapsInRange, a.Trace.Centroid.X, a.Trace.Centroid.Y)
	return nil
}

func runPeak(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	oscs := cfg.Bank().Snapshot()
	r := cfg.TimeRange()
	lo, hi := peakLo, peakHi
	if hi <= 0 {
		_, hi = winding.SweepBounds(cfg.LapRate)
	}

	start := time.Now()
	peak, err := optim.NewGridSearch(lo, hi, peakSteps).Search(cmd.Context(), oscs, r.StartMs, r.Len())
	if err != nil {
		return err
	}
	logger.Debug("peak search", "lo", lo, "hi", hi, "steps", peakSteps, "elapsed", time.Since(start))

	fmt.Printf("peak lap rate: %.4f\n", peak.Lap)
	fmt.Printf("strength: %.4f\n", peak.Strength)
	fmt.Printf("centroid: (%.4f, %.4f)\n", peak.Centroid.X, peak.Centroid.Y)

	if peakPlot {
		runner := &automation.Runner{Logger: logger}
		pts, err := runner.RunLapSweep(cmd.Context(), oscs, r, lo, hi, min(peakSteps, 200))
		if err != nil {
			return err
		}
		strength := make([]float64, len(pts))
		for i, p := range pts {
			strength[i] = p.Strength
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(strength,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("strength, lap %.2f..%.2f", lo, hi)),
		))
	}
	return nil
}

func runAnimate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := cfg.AnimationOptions()
	sched := animate.New(opts)
	r := cfg.TimeRange()
	oscs := cfg.Bank().Snapshot()
	lap := winding.NormalizeLapRate(cfg.LapRate)
	full := wave.SampleRange(oscs, r, opts.Resolution)
	mapper := winding.NewMapper(opts.Origin, opts.BaseRadius, lap, full.MaxAbs)

	renderer := tui.NewLiveRenderer(os.Stdout, fmt.Sprintf("winding %s at %g laps/s", describe(cfg.Bank()), lap), 0, mapper)
	var rec *export.Recorder
	if gifOut != "" {
		rec = export.NewRecorder(int(cfg.FrameInterval() / (10 * time.Millisecond)))
	}

	completed := false
	onFrame := func(trace []winding.Point, p float64) {
		renderer.OnFrame(trace, p)
		if rec != nil {
			tr := winding.Trace{Points: trace, Centroid: winding.Mean(trace), Mapper: mapper}
			rec.Capture(viz.RenderTrace(tr, 40, 20))
		}
	}
	if _, err := sched.Start(animate.Request{
		Oscillators: oscs,
		StartMs:     r.StartMs,
		RangeMs:     r.Len(),
		LapRate:     lap,
	}, onFrame, func() { completed = true }); err != nil {
		return err
	}

	ticker := time.NewTicker(cfg.FrameInterval())
	defer ticker.Stop()
	renderer.Start()
	err = animate.Drive(ctx, sched, ticker.C)
	renderer.Stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	c := winding.Centroid(oscs, lap, r.StartMs, r.Len(), cfg.Resolution.Centroid)
	if completed {
		fmt.Printf("\ncentroid: (%.4f, %.4f)  frames: %d\n", c.X, c.Y, renderer.Frames())
	} else {
		fmt.Println("\ncancelled")
	}

	if rec != nil && rec.Len() > 0 {
		if err := rec.SaveGIF(gifOut); err != nil {
			return err
		}
		logger.Info("wrote animation", "path", gifOut, "frames", rec.Len())
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if menu {
		return viz.RunInteractive(cfg)
	}
	final, err := viz.Run(cfg)
	if err != nil {
		return err
	}
	if saveAs == "" {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	set := storage.Settings{Range: final.TimeRange(), LapRate: final.LapRate}
	if err := st.Save(saveAs, final.Bank(), set); err != nil {
		return err
	}
	logger.Info("saved bank", "name", saveAs, "oscillators", len(final.Oscillators))
	return nil
}

func runTone(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if toneOut == "" && !tonePlay {
		return errors.New("nothing to do: pass --out FILE and/or --play")
	}

	bank := cfg.Bank()
	synth := tone.NewSynth(bank.Snapshot(), cfg.Tone.Volume, cfg.Tone.SampleRate)
	if toneSolo >= 0 {
		o, ok := bank.Get(toneSolo)
		if !ok {
			return fmt.Errorf("no oscillator with id %d", toneSolo)
		}
		synth = tone.Solo(o, cfg.Tone.SampleRate)
	}
	logger.Debug("synth", "gain", synth.Gain(), "rate", synth.SampleRate(), "seconds", cfg.Tone.Length)

	if toneOut != "" {
		if err := tone.SaveWAV(toneOut, synth, cfg.Tone.Length); err != nil {
			return err
		}
		logger.Info("wrote tone", "path", toneOut)
	}
	if tonePlay {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if err := tone.Play(ctx, synth, cfg.Tone.Length); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	return nil
}

func bankSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	set := storage.Settings{Range: cfg.TimeRange(), LapRate: cfg.LapRate}
	if err := st.Save(args[0], cfg.Bank(), set); err != nil {
		return err
	}
	fmt.Printf("saved %s (%d oscillators)\n", args[0], len(cfg.Oscillators))
	return nil
}

func bankList(cmd *cobra.Command, args []string) error {
	banks, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(banks) == 0 {
		fmt.Println("no banks found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSAVED\tOSCS\tRANGE\tLAP")
	for _, b := range banks {
		fmt.Fprintf(w, "%s\t%s\t%d\t%g-%g ms\t%g\n",
			b.Name,
			b.Timestamp.Format("2006-01-02 15:04:05"),
			b.Oscillators,
			b.StartMs, b.EndMs,
			b.LapRate,
		)
	}
	return w.Flush()
}

func bankShow(cmd *cobra.Command, args []string) error {
	bank, meta, err := storage.New(dataDir).LoadBank(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("bank: %s\n", meta.Name)
	fmt.Printf("saved: %s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Printf("range: %g-%g ms  lap: %g\n\n", meta.StartMs, meta.EndMs, meta.LapRate)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFREQ (HZ)\tPHASE (DEG)")
	for _, o := range bank.Oscillators {
		fmt.Fprintf(w, "%d\t%g\t%g\n", o.ID, o.Frequency, o.Phase)
	}
	return w.Flush()
}

func bankDelete(cmd *cobra.Command, args []string) error {
	if err := storage.New(dataDir).Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
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

	runner := &automation.Runner{Logger: logger, Store: st, Workers: workers}
	start := time.Now()
	results, err := runner.RunScenario(cmd.Context(), scenario)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s (%d steps, %v)\n\n", scenario.Name, len(results), time.Since(start).Round(time.Millisecond))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tLAP\tLAPS\tCENTROID\tPEAK")
	for _, res := range results {
		peak := "-"
		if res.Peak != nil {
			peak = fmt.Sprintf("%.3f (%.2f)", res.Peak.Lap, res.Peak.Strength)
		}
		fmt.Fprintf(w, "%s\t%g\t%.3f\t(%.3f, %.3f)\t%s\n",
			res.Name, res.LapRate, res.Laps, res.Centroid.X, res.Centroid.Y, peak)
	}
	return w.Flush()
}
