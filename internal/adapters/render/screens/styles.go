package screens

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title        lipgloss.Style
	header       lipgloss.Style
	screen       lipgloss.Style
	detail       lipgloss.Style
	warning      lipgloss.Style
	section      lipgloss.Style
	empty        lipgloss.Style
	stateOK      lipgloss.Style
	stateBad     lipgloss.Style
	stateIdle    lipgloss.Style
	statKey      lipgloss.Style
	barBracket   lipgloss.Style
	barFill      lipgloss.Style
	barEmpty     lipgloss.Style
	skippedTitle lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:        lipgloss.NewStyle().Bold(true),
		header:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		screen:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:      lipgloss.NewStyle().MarginTop(1),
		empty:        lipgloss.NewStyle().Faint(true),
		stateOK:      lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		stateBad:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		stateIdle:    lipgloss.NewStyle().Faint(true),
		statKey:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		barBracket:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:      lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		skippedTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
	}
}
