package theme

import "github.com/charmbracelet/lipgloss"

var (
	Night    = lipgloss.Color("#1b1a2e")
	Dusk     = lipgloss.Color("#24223a")
	Surface0 = lipgloss.Color("#35324f")
	Surface1 = lipgloss.Color("#4a4668")
	Text     = lipgloss.Color("#f2e9e4")
	Subtext0 = lipgloss.Color("#b8adc4")
	Sky      = lipgloss.Color("#8ecae6")
	Sun      = lipgloss.Color("#ffb703")
	Ember    = lipgloss.Color("#fb8500")
	Leaf     = lipgloss.Color("#95d5b2")
	Rose     = lipgloss.Color("#ef8f9a")

	App = lipgloss.NewStyle().
		Background(Night).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Dusk).
		Foreground(Text).
		Padding(1, 2)

	PaneActive = Pane.BorderForeground(Sun)

	Title = lipgloss.NewStyle().Foreground(Sky).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Ember).Bold(true)
	Good  = lipgloss.NewStyle().Foreground(Leaf).Bold(true)
	Bad   = lipgloss.NewStyle().Foreground(Rose).Bold(true)

	// Stimulus is the full-width block the reaction test flashes.
	Stimulus = lipgloss.NewStyle().
			Background(Sun).
			Foreground(Night).
			Bold(true).
			Padding(2, 6)
)
