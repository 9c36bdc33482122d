package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/windscope/internal/config"
)

var presetInfo = map[string]string{
	"default":   "one 440 Hz tone",
	"cancel":    "two tones in antiphase",
	"resonance": "lap rate on the tone",
	"chord":     "5, 7 and 12 Hz",
	"beat":      "close frequencies",
	"offset":    "range off zero",
}

const (
	stateMenu = iota
	stateConfig
	stateLive
)

// setting is one editable field on the configuration screen.
type setting struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
	step float64
}

var settings = []setting{
	{"start ms", func(c *config.Config) float64 { return c.Range.StartMs }, func(c *config.Config, v float64) { c.Range.StartMs = v }, 1},
	{"end ms", func(c *config.Config) float64 { return c.Range.EndMs }, func(c *config.Config, v float64) { c.Range.EndMs = v }, 1},
	{"lap rate", func(c *config.Config) float64 { return c.LapRate }, func(c *config.Config, v float64) { c.LapRate = v }, 1},
	{"anim secs", func(c *config.Config) float64 { return c.Animation.Duration }, func(c *config.Config, v float64) { c.Animation.Duration = v }, 0.5},
	{"volume %", func(c *config.Config) float64 { return c.Tone.Volume }, func(c *config.Config, v float64) { c.Tone.Volume = v }, 5},
}

type app struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	base          *config.Config
	fieldCursor   int
	editing       bool
	editBuf       string
	err           string
	width, height int
	live          Model
	st            styles
}

// NewInteractiveApp starts on the preset menu. base supplies every setting
// a preset does not name.
func NewInteractiveApp(base *config.Config) tea.Model {
	return app{
		state:   stateMenu,
		presets: config.ListPresets(),
		base:    base,
		width:   width,
		height:  height,
		st:      newStyles(GetTheme(base.Theme)),
	}
}

func (a app) Init() tea.Cmd { return nil }

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.state == stateLive {
			return a.forward(msg)
		}
		return a, nil
	default:
		if a.state == stateLive {
			return a.forward(msg)
		}
	}
	return a, nil
}

func (a app) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.live.Update(msg)
	a.live = next.(Model)
	return a, cmd
}

func (a app) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.state {
	case stateMenu:
		return a.menuKey(msg)
	case stateConfig:
		return a.configKey(msg)
	}
	return a.forward(msg)
}

func (a app) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter", " ":
		a.cfg = a.withPreset(a.presets[a.cursor])
		a.state, a.fieldCursor, a.err = stateConfig, 0, ""
	}
	return a, nil
}

// withPreset copies the preset's signal settings onto the base config.
func (a app) withPreset(name string) *config.Config {
	cfg := a.base.Clone()
	if p := config.GetPreset(name); p != nil {
		cfg.Oscillators = p.Oscillators
		cfg.Range = p.Range
		cfg.LapRate = p.LapRate
	}
	return cfg
}

func (a app) configKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := settings[a.fieldCursor]
	if a.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(a.editBuf, 64); err == nil {
				f.set(a.cfg, v)
			}
			a.editing, a.editBuf = false, ""
		case "esc":
			a.editing, a.editBuf = false, ""
		case "backspace":
			if len(a.editBuf) > 0 {
				a.editBuf = a.editBuf[:len(a.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-") {
				a.editBuf += s
			}
		}
		return a, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "q", "esc":
		a.state = stateMenu
	case "up", "k":
		if a.fieldCursor > 0 {
			a.fieldCursor--
		}
	case "down", "j":
		if a.fieldCursor < len(settings)-1 {
			a.fieldCursor++
		}
	case "enter", " ":
		a.editing, a.editBuf = true, strconv.FormatFloat(f.get(a.cfg), 'f', -1, 64)
	case "left", "h":
		f.set(a.cfg, f.get(a.cfg)-f.step)
	case "right", "l":
		f.set(a.cfg, f.get(a.cfg)+f.step)
	case "s":
		if err := a.cfg.Validate(); err != nil {
			a.err = err.Error()
			return a, nil
		}
		a.live = NewModel(a.cfg)
		a.state = stateLive
		a.live, _ = a.resized()
		return a, a.live.Init()
	}
	return a, nil
}

func (a app) resized() (Model, tea.Cmd) {
	next, cmd := a.live.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	return next.(Model), cmd
}

func (a app) View() string {
	switch a.state {
	case stateConfig:
		return a.configView()
	case stateLive:
		return a.live.View()
	}
	return a.menuView()
}

func (a app) menuView() string {
	var b strings.Builder
	b.WriteString(GradientText("WINDSCOPE", ThemeDark.Primary, ThemeDark.Secondary) + "\n")
	b.WriteString(a.st.hint.Render("choose a starting signal") + "\n\n")
	for i, name := range a.presets {
		line := fmt.Sprintf("%-10s %s", name, presetInfo[name])
		if i == a.cursor {
			b.WriteString(a.st.active.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + a.st.label.UnsetWidth().Render(line) + "\n")
		}
	}
	b.WriteString("\n" + a.st.hint.Render("↑↓ select  enter choose  q quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (a app) configView() string {
	var b strings.Builder
	b.WriteString(a.st.header.Render(strings.ToUpper(a.presets[a.cursor])) + "\n\n")
	for _, o := range a.cfg.Oscillators {
		b.WriteString(a.st.hint.Render(fmt.Sprintf("  %.1f Hz  %.0f°", o.Frequency, o.Phase)) + "\n")
	}
	b.WriteString("\n")
	for i, f := range settings {
		val := fmt.Sprintf("%.2f", f.get(a.cfg))
		if a.editing && i == a.fieldCursor {
			val = a.editBuf + "_"
		}
		line := fmt.Sprintf("%-10s %s", f.name, val)
		if i == a.fieldCursor {
			b.WriteString(a.st.active.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + a.st.label.UnsetWidth().Render(line) + "\n")
		}
	}
	if a.err != "" {
		b.WriteString("\n" + a.st.idle.Render(a.err) + "\n")
	}
	b.WriteString("\n" + a.st.hint.Render("↑↓ field  ←→ adjust  enter edit  s start  esc back"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Run opens the live view for cfg.
func Run(cfg *config.Config) (*config.Config, error) {
	final, err := tea.NewProgram(NewModel(cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(Model); ok {
		return m.Config(), nil
	}
	return cfg, nil
}

// RunInteractive opens the preset menu before the live view.
func RunInteractive(base *config.Config) error {
	_, err := tea.NewProgram(NewInteractiveApp(base), tea.WithAltScreen()).Run()
	return err
}
