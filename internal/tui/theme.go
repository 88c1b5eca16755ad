package tui

import "github.com/charmbracelet/lipgloss"

// palette is the semantic color set for the console.
type palette struct {
	Base    lipgloss.Color
	Surface lipgloss.Color
	Border  lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Subtext lipgloss.Color
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

var theme = palette{
	Base:    lipgloss.Color("#201F26"),
	Surface: lipgloss.Color("#2D2C35"),
	Border:  lipgloss.Color("#4D4C57"),
	Muted:   lipgloss.Color("#858392"),
	Text:    lipgloss.Color("#DFDBDD"),
	Subtext: lipgloss.Color("#BFBCC8"),
	Primary: lipgloss.Color("#6B50FF"),
	Accent:  lipgloss.Color("#FF60FF"),
	Success: lipgloss.Color("#00FFB2"),
	Warning: lipgloss.Color("#FFD300"),
	Error:   lipgloss.Color("#E94090"),
	Info:    lipgloss.Color("#00CED1"),
}

// statusColors maps the badge color names the view layer emits onto terminal
// colors.
var statusColors = map[string]lipgloss.Color{
	"amber":  theme.Warning,
	"blue":   theme.Info,
	"green":  theme.Success,
	"red":    theme.Error,
	"purple": theme.Accent,
}

func statusColor(name string) lipgloss.Color {
	if c, ok := statusColors[name]; ok {
		return c
	}
	return theme.Muted
}
