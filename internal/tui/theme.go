package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Color palette -- single source of truth for all TUI colors.
// Values are ANSI-256 color codes passed to lipgloss.Color().
// ---------------------------------------------------------------------------

var (
	colorPrimary   = lipgloss.Color("170")
	colorSecondary = lipgloss.Color("212")
	colorSuccess   = lipgloss.Color("82")
	colorWarning   = lipgloss.Color("214")
	colorDanger    = lipgloss.Color("196")
	colorDim       = lipgloss.Color("241")
	colorSubtle    = lipgloss.Color("236")
	colorWhite     = lipgloss.Color("255")
)

// Built-in categories keep a fixed color; user-defined ones share the
// primary color.
var categoryColors = map[string]lipgloss.Color{
	"system.cache": lipgloss.Color("75"),
	"xcode.cache":  lipgloss.Color("141"),
	"system.logs":  lipgloss.Color("223"),
	"temp.cache":   lipgloss.Color("208"),
	"app.state":    lipgloss.Color("119"),
}

func categoryColor(name string) lipgloss.Color {
	if c, ok := categoryColors[name]; ok {
		return c
	}
	return colorPrimary
}

// Share colors mark how much of the scanned total a category holds.
var (
	shareColorHigh   = lipgloss.Color("196")
	shareColorMedium = lipgloss.Color("214")
	shareColorLow    = lipgloss.Color("82")
)

// shareColor returns a color for a 0.0-1.0 share of the total.
func shareColor(ratio float64) lipgloss.Color {
	switch {
	case ratio >= 0.5:
		return shareColorHigh
	case ratio >= 0.2:
		return shareColorMedium
	default:
		return shareColorLow
	}
}
