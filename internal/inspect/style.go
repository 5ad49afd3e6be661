package inspect

import "github.com/charmbracelet/lipgloss"

// Style controls the inspector's rendering.
type Style struct {
	Header    lipgloss.Style
	Block     lipgloss.Style
	Focused   lipgloss.Style
	Label     lipgloss.Style
	Null      lipgloss.Style
	Event     lipgloss.Style
	Separator lipgloss.Style
}

func DefaultStyle() Style {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Style{
		Header:    lipgloss.NewStyle().Bold(true),
		Block:     lipgloss.NewStyle(),
		Focused:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		Null:      dim.Italic(true),
		Event:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Separator: dim,
	}
}
