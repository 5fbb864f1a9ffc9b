package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#2563eb")
	colorMuted  = lipgloss.Color("245")
	colorError  = lipgloss.Color("#dc2626")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	summaryStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	filterStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	activeStyle   = lipgloss.NewStyle().Bold(true)
	cardStyle     = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorAccent).
			PaddingLeft(1)
	categoryStyle = lipgloss.NewStyle().Foreground(colorAccent)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)
	menuStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
)
