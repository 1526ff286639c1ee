package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme colors the three compartments in panels and charts.
type Theme struct {
	Name        string
	Susceptible lipgloss.Color
	Infectious  lipgloss.Color
	Recovered   lipgloss.Color
	Accent      lipgloss.Color
	Muted       lipgloss.Color
	// Graph holds the chart colors of s, i and r.
	Graph [3]asciigraph.AnsiColor
}

var (
	ThemeClassic = Theme{
		Name:        "classic",
		Susceptible: lipgloss.Color("#4ea1ff"),
		Infectious:  lipgloss.Color("#ff5f5f"),
		Recovered:   lipgloss.Color("#5fd068"),
		Accent:      lipgloss.Color("#00ffff"),
		Muted:       lipgloss.Color("#666688"),
		Graph:       [3]asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red, asciigraph.Green},
	}

	ThemeSunset = Theme{
		Name:        "sunset",
		Susceptible: lipgloss.Color("#feca57"),
		Infectious:  lipgloss.Color("#ff4757"),
		Recovered:   lipgloss.Color("#ff9ff3"),
		Accent:      lipgloss.Color("#ff6b6b"),
		Muted:       lipgloss.Color("#8b6b8c"),
		Graph:       [3]asciigraph.AnsiColor{asciigraph.Yellow, asciigraph.Red, asciigraph.Magenta},
	}

	ThemeMono = Theme{
		Name:        "mono",
		Susceptible: lipgloss.Color("#ffffff"),
		Infectious:  lipgloss.Color("#cccccc"),
		Recovered:   lipgloss.Color("#888888"),
		Accent:      lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#666666"),
		Graph:       [3]asciigraph.AnsiColor{asciigraph.Default, asciigraph.Default, asciigraph.Default},
	}

	CurrentTheme = ThemeClassic

	Themes = []Theme{ThemeClassic, ThemeSunset, ThemeMono}
)

// GetTheme returns the named theme, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeClassic
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
