package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette using ANSI color codes for terminal compatibility.

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// GradientColors cycle through the spinner animation frames.
var GradientColors = []lipgloss.Color{
	"13", // Pink
	"5",  // Purple
	"6",  // Cyan
	"2",  // Green
}

// ConfigureColorProfile applies the color mode from config/environment.
// "never" (or NO_COLOR set) forces plain ASCII output, "always" forces ANSI,
// and "auto" leaves detection to termenv.
func ConfigureColorProfile(mode string) {
	if os.Getenv("NO_COLOR") != "" {
		mode = "never"
	}

	switch mode {
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI)
	default:
		lipgloss.SetColorProfile(termenv.ColorProfile())
	}
}
