package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Theme     key.Binding
	Animate   key.Binding
	Grid      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Add       key.Binding
	Remove    key.Binding
	FreqUp    key.Binding
	FreqDown  key.Binding
	PhaseUp   key.Binding
	PhaseDown key.Binding
	LapUp     key.Binding
	LapDown   key.Binding
	LapFine   key.Binding
	LapCoarse key.Binding
	Wider     key.Binding
	Narrower  key.Binding
	Marker    key.Binding
	MarkLeft  key.Binding
	MarkRight key.Binding
	Play      key.Binding
	Helix     key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Animate:   key.NewBinding(key.WithKeys(" ", "a"), key.WithHelp("space", "animate/cancel")),
		Grid:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "half-lap grid")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next osc")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev osc")),
		Add:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add osc")),
		Remove:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove osc")),
		FreqUp:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "freq +1Hz")),
		FreqDown:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "freq -1Hz")),
		PhaseUp:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "phase +15°")),
		PhaseDown: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "phase -15°")),
		LapUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "lap +1")),
		LapDown:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "lap -1")),
		LapFine:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "lap +0.1")),
		LapCoarse: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "lap -0.1")),
		Wider:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "range +1ms")),
		Narrower:  key.NewBinding(key.WithKeys("W"), key.WithHelp("W", "range -1ms")),
		Marker:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "marker")),
		MarkLeft:  key.NewBinding(key.WithKeys(","), key.WithHelp(",", "marker ←")),
		MarkRight: key.NewBinding(key.WithKeys("."), key.WithHelp(".", "marker →")),
		Play:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play tone")),
		Helix:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "helix view")),
		ZoomIn:    key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("Z"), key.WithHelp("Z", "zoom out")),
	}
}

// rows groups bindings for the help overlay.
func (k keyMap) rows() [][]key.Binding {
	return [][]key.Binding{
		{k.Animate, k.Grid, k.Marker, k.MarkLeft, k.MarkRight, k.Play},
		{k.Next, k.Prev, k.Add, k.Remove},
		{k.FreqUp, k.FreqDown, k.PhaseUp, k.PhaseDown},
		{k.LapUp, k.LapDown, k.LapFine, k.LapCoarse, k.Wider, k.Narrower},
		{k.Helix, k.ZoomIn, k.ZoomOut, k.Theme, k.Help, k.Quit},
	}
}
