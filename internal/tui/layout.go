package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader draws a header bar with breadcrumb navigation.
func renderHeader(parts ...string) string {
	breadcrumb := "cleanslim"
	for _, p := range parts {
		breadcrumb += " > " + p
	}
	return headerBarStyle.Render(breadcrumb) + "\n"
}

// renderFooter draws a footer with keybind hints.
func renderFooter(hints ...string) string {
	return footerStyle.Render(strings.Join(hints, "  "))
}

// renderShare draws a small bar for a category's share of the total.
func renderShare(ratio float64, width int) string {
	ratio = max(0, min(1, ratio))
	filled := int(ratio * float64(width))
	if filled == 0 && ratio > 0 {
		filled = 1
	}
	fill := lipgloss.NewStyle().Foreground(shareColor(ratio))
	return fill.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}
