package tui

import (
	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/output"
	"tasklist/internal/service"
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true)
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	filterStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeFilterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	ongoingBadge   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	completedBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	otherBadge     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// badge renders a status label in its status colour.
func badge(status service.Status) string {
	label := "unknown"
	if status != "" {
		label = output.SanitizeTitle(string(status))
	}
	switch status {
	case service.StatusOngoing:
		return ongoingBadge.Render(label)
	case service.StatusCompleted:
		return completedBadge.Render(label)
	}
	return otherBadge.Render(label)
}
