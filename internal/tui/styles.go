package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6C7086")
	colorSuccess = lipgloss.Color("#A6E3A1")
	colorError   = lipgloss.Color("#F38BA8")
)

// styles holds the lipgloss styles used by the model.
type styles struct {
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Cursor      lipgloss.Style
	Title       lipgloss.Style
	Done        lipgloss.Style
	Body        lipgloss.Style
	Muted       lipgloss.Style
	Error       lipgloss.Style
	Label       lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Underline(true).Padding(0, 1),
		InactiveTab: lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1),
		Cursor:      lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
		Title:       lipgloss.NewStyle(),
		Done:        lipgloss.NewStyle().Foreground(colorSuccess).Strikethrough(true),
		Body:        lipgloss.NewStyle().Foreground(colorMuted).PaddingLeft(6),
		Muted:       lipgloss.NewStyle().Foreground(colorMuted),
		Error:       lipgloss.NewStyle().Foreground(colorError).Bold(true),
		Label:       lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
	}
}
