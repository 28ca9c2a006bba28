package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the HUD palette. Idle, Held and Rotating color the carry mode
// readout.
type Theme struct {
	Name     string
	Frame    lipgloss.Color
	Title    lipgloss.Color
	Text     lipgloss.Color
	Dim      lipgloss.Color
	Idle     lipgloss.Color
	Held     lipgloss.Color
	Rotating lipgloss.Color
	Good     lipgloss.Color
	Fair     lipgloss.Color
	Bad      lipgloss.Color
}

var Themes = []Theme{
	{
		Name:     "workshop",
		Frame:    lipgloss.Color("#8a7f6a"),
		Title:    lipgloss.Color("#e3b35c"),
		Text:     lipgloss.Color("#efe6d2"),
		Dim:      lipgloss.Color("#6b6355"),
		Idle:     lipgloss.Color("#9c9484"),
		Held:     lipgloss.Color("#7fc97a"),
		Rotating: lipgloss.Color("#d98c4a"),
		Good:     lipgloss.Color("#7fc97a"),
		Fair:     lipgloss.Color("#e3b35c"),
		Bad:      lipgloss.Color("#c9564b"),
	},
	{
		Name:     "night",
		Frame:    lipgloss.Color("#3d4a66"),
		Title:    lipgloss.Color("#8fb4ff"),
		Text:     lipgloss.Color("#d4dcf0"),
		Dim:      lipgloss.Color("#4f5b78"),
		Idle:     lipgloss.Color("#5e6a88"),
		Held:     lipgloss.Color("#5fd3bc"),
		Rotating: lipgloss.Color("#c493ff"),
		Good:     lipgloss.Color("#5fd3bc"),
		Fair:     lipgloss.Color("#f2c86b"),
		Bad:      lipgloss.Color("#f0717c"),
	},
	{
		// Grayscale for terminals with poor color support.
		Name:     "mono",
		Frame:    lipgloss.Color("244"),
		Title:    lipgloss.Color("255"),
		Text:     lipgloss.Color("252"),
		Dim:      lipgloss.Color("240"),
		Idle:     lipgloss.Color("242"),
		Held:     lipgloss.Color("255"),
		Rotating: lipgloss.Color("250"),
		Good:     lipgloss.Color("250"),
		Fair:     lipgloss.Color("246"),
		Bad:      lipgloss.Color("255"),
	},
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
