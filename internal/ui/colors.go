package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

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

// Brand accents
const (
	ColorNeonPink    lipgloss.Color = "#FF2E97"
	ColorNeonCyan    lipgloss.Color = "#00FFFF"
	ColorGlassBorder lipgloss.Color = "#2A2A4A"
)

// WarningRatio is the fraction of the overload limit at which a load is
// shown as a warning.
const WarningRatio = 0.85

// SuccessStyle renders green text.
func SuccessStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorSuccess) }

// ErrorStyle renders red text.
func ErrorStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorError) }

// WarningStyle renders yellow text.
func WarningStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorWarning) }

// InfoStyle renders cyan text.
func InfoStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorInfo) }

// MutedStyle renders gray text.
func MutedStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorMuted) }

// LoadColor picks the color for load against an overload limit in kW.
func LoadColor(load, limit float64) lipgloss.Color {
	switch {
	case limit <= 0:
		return ColorPrimary
	case load >= limit:
		return ColorError
	case load >= limit*WarningRatio:
		return ColorWarning
	default:
		return ColorSuccess
	}
}

// DisableColors switches all lipgloss rendering to plain text.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
