package viz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/windscope/internal/animate"
	"github.com/san-kum/windscope/internal/config"
	"github.com/san-kum/windscope/internal/tone"
	"github.com/san-kum/windscope/internal/wave"
	"github.com/san-kum/windscope/internal/winding"
)

const (
	width  = 100
	height = 30

	freqStep      = 1.0
	phaseStep     = 15.0
	lapStep       = 1.0
	lapFineStep   = 0.1
	minLapRate    = 0.1
	rangeStep     = 1.0
	markerSteps   = 50
	spectrumRows  = 7
	sparkWidth    = 12
	springFreq    = 6.0
	springDamping = 0.8
	helixSpin     = 0.02
)

type TickMsg time.Time

type toneDoneMsg struct {
	id  int
	err error
}

// playFunc plays a synth until it ends or ctx is done.
var playFunc = tone.Play

// frameState is written by scheduler callbacks. Model is copied by value on
// every update, so callbacks share it through a pointer.
type frameState struct {
	trace    []winding.Point
	progress float64
	done     bool
}

// Model is the interactive winding view.
type Model struct {
	cfg      *config.Config
	bank     wave.Bank
	selected int
	rng      wave.Range
	lap      float64
	analysis winding.Analysis

	sched  *animate.Scheduler
	handle *animate.Handle
	frame  *frameState

	spring    harmonica.Spring
	markerPos float64
	markerVel float64

	cam      *Camera
	bar      progress.Model
	keys     keyMap
	theme    Theme
	st       styles
	lastTick time.Time

	width, height int
	showGrid      bool
	showHelix     bool
	showHelp      bool
	markerOn      bool
	markerMs      float64
	playing       bool
	toneID        int
	stopTone      context.CancelFunc
	status        string
}

// NewModel builds the view from cfg. cfg is cloned; edits made in the view
// are available through Config.
func NewModel(cfg *config.Config) Model {
	cfg = cfg.Clone()
	fps := cfg.Animation.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	theme := GetTheme(cfg.Theme)
	m := Model{
		cfg:    cfg,
		bank:   cfg.Bank(),
		rng:    cfg.TimeRange(),
		lap:    winding.NormalizeLapRate(cfg.LapRate),
		sched:  animate.New(cfg.AnimationOptions()),
		frame:  &frameState{},
		spring: harmonica.NewSpring(harmonica.FPS(fps), springFreq, springDamping),
		cam:    NewCamera(),
		bar:    newProgressBar(theme),
		keys:   defaultKeys(),
		theme:  theme,
		st:     newStyles(theme),
		width:  width,
		height: height,
	}
	m.markerMs = m.rng.StartMs
	m.recompute()
	if col, ok := m.spectrumTarget(); ok {
		m.markerPos = col
	}
	return m
}

func newProgressBar(t Theme) progress.Model {
	bar := progress.New(
		progress.WithScaledGradient(string(t.Primary), string(t.Secondary)),
		progress.WithoutPercentage(),
	)
	bar.Width = 30
	return bar
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.FrameInterval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the animation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.bar.Width = max(10, min(40, m.width/3))
		return m, nil

	case TickMsg:
		m.advance(time.Time(msg))
		return m, m.tick()

	case toneDoneMsg:
		if msg.id != m.toneID {
			return m, nil
		}
		m.playing, m.stopTone = false, nil
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.status = "tone: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.cancelAnimation()
		m.cancelTone()
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, k.Theme):
		m.setTheme(NextTheme(m.theme.Name))
	case key.Matches(msg, k.Animate):
		m.toggleAnimation()
	case key.Matches(msg, k.Grid):
		m.showGrid = !m.showGrid
	case key.Matches(msg, k.Next):
		m.cycle(1)
	case key.Matches(msg, k.Prev):
		m.cycle(-1)
	case key.Matches(msg, k.Add):
		m.bank = m.bank.AddDefault()
		m.selected = m.bank.Len() - 1
		m.changed()
	case key.Matches(msg, k.Remove):
		if o, ok := m.current(); ok {
			m.bank = m.bank.Remove(o.ID)
			m.selected = max(0, min(m.selected, m.bank.Len()-1))
			m.changed()
		}
	case key.Matches(msg, k.FreqUp):
		m.nudge(freqStep, 0)
	case key.Matches(msg, k.FreqDown):
		m.nudge(-freqStep, 0)
	case key.Matches(msg, k.PhaseUp):
		m.nudge(0, phaseStep)
	case key.Matches(msg, k.PhaseDown):
		m.nudge(0, -phaseStep)
	case key.Matches(msg, k.LapUp):
		m.setLap(m.lap + lapStep)
	case key.Matches(msg, k.LapDown):
		m.setLap(m.lap - lapStep)
	case key.Matches(msg, k.LapFine):
		m.setLap(m.lap + lapFineStep)
	case key.Matches(msg, k.LapCoarse):
		m.setLap(m.lap - lapFineStep)
	case key.Matches(msg, k.Wider):
		m.rng.EndMs += rangeStep
		m.changed()
	case key.Matches(msg, k.Narrower):
		m.rng.EndMs -= rangeStep
		m.changed()
	case key.Matches(msg, k.Marker):
		m.markerOn = !m.markerOn
	case key.Matches(msg, k.MarkLeft):
		m.markerMs -= m.rng.Len() / markerSteps
	case key.Matches(msg, k.MarkRight):
		m.markerMs += m.rng.Len() / markerSteps
	case key.Matches(msg, k.Play):
		cmd := m.playTone()
		return m, cmd
	case key.Matches(msg, k.Helix):
		m.showHelix = !m.showHelix
	case key.Matches(msg, k.ZoomIn):
		m.cam.ZoomIn()
	case key.Matches(msg, k.ZoomOut):
		m.cam.ZoomOut()
	}
	return m, nil
}

// advance moves the scheduler and the spectrum marker spring one frame.
func (m *Model) advance(now time.Time) {
	var dt time.Duration
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick)
	}
	m.lastTick = now
	if m.sched.Running() {
		m.sched.Tick(dt)
	}
	if m.frame.done {
		m.handle = nil
	}
	if m.showHelix {
		m.cam.RotateY(helixSpin)
	}
	if target, ok := m.spectrumTarget(); ok {
		m.markerPos, m.markerVel = m.spring.Update(m.markerPos, m.markerVel, target)
	}
}

func (m *Model) toggleAnimation() {
	if m.animating() {
		m.cancelAnimation()
		return
	}
	m.startAnimation()
}

func (m *Model) startAnimation() {
	fs := &frameState{}
	req := animate.Request{
		Oscillators: m.bank.Snapshot(),
		StartMs:     m.rng.StartMs,
		RangeMs:     m.rng.Len(),
		LapRate:     m.lap,
	}
	h, err := m.sched.Start(req,
		func(tr []winding.Point, p float64) {
			fs.trace = tr
			fs.progress = p
		},
		func() { fs.done = true },
	)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.frame = fs
	m.handle = h
	m.status = ""
}

func (m *Model) cancelAnimation() {
	if m.handle != nil {
		m.handle.Cancel()
	}
	m.handle = nil
	m.frame = &frameState{}
}

func (m Model) animating() bool {
	return m.handle != nil && !m.frame.done
}

// changed recomputes every view and drops a running animation, whose
// request no longer matches the inputs.
func (m *Model) changed() {
	m.cancelAnimation()
	m.cancelTone()
	m.recompute()
}

func (m *Model) recompute() {
	in := m.cfg.Inputs()
	in.Oscillators = m.bank.Snapshot()
	in.Range = m.rng
	in.LapRate = m.lap
	in.DisplayRadius = winding.AnalysisRadius
	m.analysis = winding.Analyze(in)
}

func (m *Model) setLap(v float64) {
	m.lap = math.Max(minLapRate, math.Round(v*10)/10)
	m.changed()
}

func (m *Model) setTheme(name string) {
	m.theme = GetTheme(name)
	m.st = newStyles(m.theme)
	w := m.bar.Width
	m.bar = newProgressBar(m.theme)
	m.bar.Width = w
	m.cfg.Theme = m.theme.Name
}

func (m *Model) cycle(dir int) {
	n := m.bank.Len()
	if n == 0 {
		return
	}
	m.selected = ((m.selected+dir)%n + n) % n
}

func (m Model) current() (wave.Oscillator, bool) {
	if m.selected < 0 || m.selected >= m.bank.Len() {
		return wave.Oscillator{}, false
	}
	return m.bank.Oscillators[m.selected], true
}

func (m *Model) nudge(df, dp float64) {
	o, ok := m.current()
	if !ok {
		return
	}
	f := math.Max(0, o.Frequency+df)
	p := math.Mod(o.Phase+dp+360, 360)
	m.bank = m.bank.Update(o.ID, wave.Patch{Frequency: &f, Phase: &p})
	m.changed()
}

// playTone starts the tone of the current bank, or stops the one playing.
func (m *Model) playTone() tea.Cmd {
	if m.playing {
		m.cancelTone()
		return nil
	}
	if m.bank.Len() == 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.toneID++
	m.playing, m.stopTone = true, cancel
	id := m.toneID
	s := tone.NewSynth(m.bank.Snapshot(), m.cfg.Tone.Volume, m.cfg.Tone.SampleRate)
	length := m.cfg.Tone.Length
	return func() tea.Msg {
		defer cancel()
		return toneDoneMsg{id: id, err: playFunc(ctx, s, length)}
	}
}

func (m *Model) cancelTone() {
	if m.stopTone != nil {
		m.stopTone()
	}
	m.playing, m.stopTone = false, nil
}

// spectrumTarget is the marker column scaled to the chart width.
func (m Model) spectrumTarget() (float64, bool) {
	col, ok := m.analysis.Spectrum.MarkerColumn()
	n := len(m.analysis.Spectrum.Values)
	if !ok || n < 2 {
		return 0, false
	}
	return col / float64(n-1) * float64(m.chartWidth()-1), true
}

func (m Model) chartWidth() int {
	return max(20, m.width-m.traceCells()*2-30)
}

// traceCells is the trace canvas height in rows; the canvas is twice as wide.
func (m Model) traceCells() int {
	return max(8, min(m.height-8, (m.width-40)/4))
}

// Config returns the configuration with the edits made in the view.
func (m Model) Config() *config.Config {
	cfg := m.cfg.Clone()
	cfg.SetBank(m.bank)
	cfg.Range = config.RangeConfig{StartMs: m.rng.StartMs, EndMs: m.rng.EndMs}
	cfg.LapRate = m.lap
	return cfg
}

// Trace is what the winding pane currently shows: the animation frame while
// a session runs, the full trace otherwise.
func (m Model) Trace() winding.Trace {
	if !m.animating() {
		return m.analysis.Trace
	}
	return winding.Trace{
		Points:   m.frame.trace,
		Centroid: winding.Mean(m.frame.trace),
		Mapper:   m.analysis.Trace.Mapper,
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	rows := m.traceCells()
	tr := m.Trace()
	canvas := RenderTrace(tr, rows*2, rows)
	if m.showHelix {
		canvas = RenderHelix(tr, m.cam, rows*2, rows)
	}
	traceView := m.st.panel.Render(m.colorTrace(canvas.String()))

	var s strings.Builder
	s.WriteString(GradientText("WINDSCOPE", m.theme.Primary, m.theme.Secondary) + "\n")
	s.WriteString(m.statusLine() + "\n\n")
	s.WriteString(m.stat("Lap rate", fmt.Sprintf("%.1f /s", m.analysis.LapRate)))
	s.WriteString(m.stat("Range", fmt.Sprintf("%.2f → %.2f ms", m.rng.StartMs, m.rng.EndMs)))
	s.WriteString(m.stat("Laps", fmt.Sprintf("%.3f", m.analysis.LapsInRange)))
	c := m.analysis.Centroid
	s.WriteString(m.stat("Centroid", fmt.Sprintf("(%.2f, %.2f)", c.X, c.Y)))
	s.WriteString(m.stat("|c|", fmt.Sprintf("%.2f", c.Norm())))
	if m.markerOn {
		if v, ok := wave.Marker(m.bank.Snapshot(), m.rng, m.markerMs); ok {
			s.WriteString(m.stat("Marker", fmt.Sprintf("t=%.2fms v=%.3f", m.markerMs, v)))
		} else {
			s.WriteString(m.stat("Marker", "out of range"))
		}
	}
	s.WriteString("\n" + m.st.header.Render("OSCILLATORS") + "\n")
	s.WriteString(m.oscillatorList())
	s.WriteString("\n" + m.st.header.Render("SPECTRUM") + "\n")
	s.WriteString(m.spectrumView() + "\n")
	s.WriteString("\n" + m.st.header.Render("SIGNAL") + "\n")
	s.WriteString(m.signalView())
	s.WriteString("\n" + Separator(m.chartWidth(), m.st.guide) + "\n")
	s.WriteString(m.st.hint.Render("space:animate  tab:select  ↑↓:freq  ←→:phase  +/-:lap  ?:help  q:quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, traceView, lipgloss.NewStyle().Padding(0, 2).Render(s.String()))
	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, m.st.panel.Render(m.helpView()), main)
	}
	return main
}

func (m Model) stat(label, value string) string {
	return m.st.label.Render(label) + m.st.value.Render(value) + "\n"
}

func (m Model) statusLine() string {
	var line string
	switch {
	case m.animating():
		line = m.st.running.Render("WINDING ") + m.bar.ViewAs(m.frame.progress)
	case m.frame.done:
		line = m.st.running.Render("DONE")
	default:
		line = m.st.idle.Render("IDLE")
	}
	if m.playing {
		line += m.st.active.Render("  ♪ playing")
	}
	if m.status != "" {
		line += "  " + m.st.hint.Render(m.status)
	}
	return line
}

func (m Model) oscillatorList() string {
	if m.bank.Len() == 0 {
		return m.st.hint.Render("  (none, press n to add)") + "\n"
	}
	var b strings.Builder
	for i, o := range m.bank.Oscillators {
		spark := SparklineChart(wave.SampleRange([]wave.Oscillator{o}, m.rng, sparkWidth*2).Values, sparkWidth)
		line := fmt.Sprintf("#%-2d %7.1f Hz %5.0f°  %s", o.ID, o.Frequency, o.Phase, spark)
		if i == m.selected {
			b.WriteString(m.st.active.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + m.st.label.UnsetWidth().Render(line) + "\n")
		}
	}
	return b.String()
}

// spectrumView plots the sweep and places a caret under the smoothed marker.
func (m Model) spectrumView() string {
	sp := m.analysis.Spectrum
	if len(sp.Values) == 0 {
		return m.st.hint.Render("  (empty)")
	}
	w := m.chartWidth()
	bound := sp.Scale
	chart := asciigraph.Plot(sp.Values,
		asciigraph.Height(spectrumRows),
		asciigraph.Width(w),
		asciigraph.LowerBound(-bound),
		asciigraph.UpperBound(bound),
		asciigraph.Precision(1),
		asciigraph.Caption(fmt.Sprintf("centroid x over %.1f…%.1f laps/s, marker %.1f → %.2f",
			sp.Lo(), sp.Hi(), sp.Marker.Lap, sp.Marker.X)),
	)
	lines := strings.Split(chart, "\n")
	offset := axisOffset(lines)
	col := offset + int(math.Round(math.Max(0, m.markerPos)))
	caret := strings.Repeat(" ", col) + "^"

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:len(lines)-1]...)
	out = append(out, m.st.centroid.Render(caret), lines[len(lines)-1])
	return m.st.trace.Render(strings.Join(out, "\n"))
}

// axisOffset finds where data columns start in an asciigraph plot.
func axisOffset(lines []string) int {
	for _, l := range lines {
		for i, r := range []rune(l) {
			if r == '┤' || r == '┼' {
				return i + 1
			}
		}
	}
	return 0
}

func (m Model) signalView() string {
	var grid []float64
	if m.showGrid {
		grid = m.analysis.HalfLaps
	}
	c := RenderSignal(m.analysis.Signal, m.rng, grid, m.chartWidth()/2, 4)
	if m.markerOn && m.rng.Contains(m.markerMs) && m.rng.Len() > 0 {
		x := int(math.Round((m.markerMs - m.rng.StartMs) / m.rng.Len() * float64(c.SubWidth()-1)))
		c.Dashed(x, 0, x, c.SubHeight()-1, 1)
	}
	return m.st.trace.Render(strings.TrimRight(c.String(), "\n"))
}

func (m Model) colorTrace(s string) string {
	return m.st.trace.Render(strings.TrimRight(s, "\n"))
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(m.st.header.Render("KEYBOARD SHORTCUTS") + "\n")
	for _, row := range m.keys.rows() {
		parts := make([]string, 0, len(row))
		for _, kb := range row {
			h := kb.Help()
			parts = append(parts, m.st.value.Render(h.Key)+" "+m.st.hint.Render(h.Desc))
		}
		b.WriteString(strings.Join(parts, "   ") + "\n")
	}
	return b.String()
}
