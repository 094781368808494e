package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme of the live view.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var Themes = []Theme{
	{
		Name:    "cyberpunk",
		Primary: lipgloss.Color("#00ffff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
	},
	{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	},
	{
		Name:    "ocean",
		Primary: lipgloss.Color("#00a8cc"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
	},
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	canvas  lipgloss.Style
	stats   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	graph   lipgloss.Style
	help    lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	failed  lipgloss.Style
	high    lipgloss.Style
	mid     lipgloss.Style
	low     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas:  lipgloss.NewStyle().Padding(1, 2).Foreground(t.Text),
		stats:   lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(48),
		header:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		graph:   lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		help:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		failed:  lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		high:    lipgloss.NewStyle().Foreground(t.Success),
		mid:     lipgloss.NewStyle().Foreground(t.Warning),
		low:     lipgloss.NewStyle().Foreground(t.Error),
	}
}

// progressBar renders the fraction done of the run.
func (s styles) progressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	filled = min(max(filled, 0), width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case percent > 0.8:
		return s.high.Render(bar)
	case percent > 0.4:
		return s.mid.Render(bar)
	}
	return s.low.Render(bar)
}
