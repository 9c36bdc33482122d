package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Trace     lipgloss.Color
	Centroid  lipgloss.Color
	Guide     lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
}

var (
	ThemeDark = Theme{
		Name:      "dark",
		Primary:   lipgloss.Color("#67e8f9"),
		Secondary: lipgloss.Color("#a78bfa"),
		Trace:     lipgloss.Color("#67e8f9"),
		Centroid:  lipgloss.Color("#ef4444"),
		Guide:     lipgloss.Color("#555566"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888899"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffaa00"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // Green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Trace:     lipgloss.Color("#00ff00"),
		Centroid:  lipgloss.Color("#ffff00"),
		Guide:     lipgloss.Color("#005500"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#007700"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Trace:     lipgloss.Color("#ffffff"),
		Centroid:  lipgloss.Color("#0088ff"),
		Guide:     lipgloss.Color("#444444"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ffaa00"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#00a8cc"),
		Secondary: lipgloss.Color("#0077be"),
		Trace:     lipgloss.Color("#00a8cc"),
		Centroid:  lipgloss.Color("#ffd700"),
		Guide:     lipgloss.Color("#224466"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffcc00"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
		Trace:     lipgloss.Color("#feca57"),
		Centroid:  lipgloss.Color("#ff9ff3"),
		Guide:     lipgloss.Color("#5b3b5c"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Success:   lipgloss.Color("#5fd068"),
		Warning:   lipgloss.Color("#ffc048"),
	}

	CurrentTheme = ThemeDark

	Themes = []Theme{
		ThemeDark,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the dark theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDark
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the name of the theme after name, wrapping around.
func NextTheme(name string) string {
	names := ThemeNames()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
