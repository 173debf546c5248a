package cli

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282"))
)
