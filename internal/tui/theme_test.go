package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestCategoryColor(t *testing.T) {
	tests := []struct {
		name string
		want lipgloss.Color
	}{
		{"system.cache", lipgloss.Color("75")},
		{"xcode.cache", lipgloss.Color("141")},
		{"app.state", lipgloss.Color("119")},
		{"npm.cache", colorPrimary},
		{"", colorPrimary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := categoryColor(tt.name); got != tt.want {
				t.Errorf("categoryColor(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestShareColor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  lipgloss.Color
	}{
		{1.00, shareColorHigh},
		{0.50, shareColorHigh},
		{0.49, shareColorMedium},
		{0.20, shareColorMedium},
		{0.19, shareColorLow},
		{0.00, shareColorLow},
	}
	for _, tt := range tests {
		if got := shareColor(tt.ratio); got != tt.want {
			t.Errorf("shareColor(%.2f) = %v, want %v", tt.ratio, got, tt.want)
		}
	}
}

func TestRenderShare(t *testing.T) {
	for _, ratio := range []float64{-1, 0, 0.01, 0.5, 1, 2} {
		out := renderShare(ratio, 10)
		cells := strings.Count(out, "█") + strings.Count(out, "░")
		if cells != 10 {
			t.Errorf("renderShare(%v, 10) has %d cells, want 10", ratio, cells)
		}
	}
}
