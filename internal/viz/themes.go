package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme for plate maps and the TUI.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Boundary  lipgloss.Color
	Unclaimed lipgloss.Color
	Plates    []lipgloss.Color
}

var (
	ThemeAtlas = Theme{
		Name:      "atlas",
		Primary:   lipgloss.Color("#e0c080"),
		Accent:    lipgloss.Color("#ff8c42"),
		Text:      lipgloss.Color("#f5f0e6"),
		Muted:     lipgloss.Color("#7a6f5d"),
		Boundary:  lipgloss.Color("#ffffff"),
		Unclaimed: lipgloss.Color("#3a3a3a"),
		Plates: []lipgloss.Color{
			"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b",
			"#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
		},
	}

	ThemeMagma = Theme{
		Name:      "magma",
		Primary:   lipgloss.Color("#fc8961"),
		Accent:    lipgloss.Color("#fcfdbf"),
		Text:      lipgloss.Color("#fff5eb"),
		Muted:     lipgloss.Color("#5f187f"),
		Boundary:  lipgloss.Color("#fcfdbf"),
		Unclaimed: lipgloss.Color("#000004"),
		Plates: []lipgloss.Color{
			"#3b0f70", "#8c2981", "#de4968", "#fe9f6d", "#b73779", "#51127c",
			"#f7705c", "#feca8d",
		},
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Boundary:  lipgloss.Color("#ffd700"),
		Unclaimed: lipgloss.Color("#001a33"),
		Plates: []lipgloss.Color{
			"#023e8a", "#0096c7", "#48cae4", "#2a9d8f", "#8ecae6", "#219ebc",
			"#006d77", "#83c5be",
		},
	}

	ThemeMono = Theme{
		Name:      "mono",
		Primary:   lipgloss.Color("#ffffff"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Boundary:  lipgloss.Color("#ffffff"),
		Unclaimed: lipgloss.Color("#222222"),
		Plates: []lipgloss.Color{
			"#eeeeee", "#bbbbbb", "#888888", "#555555",
		},
	}

	CurrentTheme = ThemeAtlas

	Themes = []Theme{
		ThemeAtlas,
		ThemeMagma,
		ThemeOcean,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to atlas.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeAtlas
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

// PlateColor returns the palette colour of plate id, wrapping around.
func (t Theme) PlateColor(id int) lipgloss.Color {
	if len(t.Plates) == 0 {
		return t.Text
	}
	if id < 0 {
		id = -id
	}
	return t.Plates[id%len(t.Plates)]
}
