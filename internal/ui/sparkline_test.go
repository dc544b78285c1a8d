package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderSparkline_EmptyData(t *testing.T) {
	assert.Empty(t, RenderSparkline([]float64{}, 10, 1800))
	assert.Empty(t, RenderSparkline(nil, 10, 1800))
}

func TestRenderSparkline_NonPositiveWidth(t *testing.T) {
	assert.Empty(t, RenderSparkline([]float64{50, 60, 70}, 0, 1800))
	assert.Empty(t, RenderSparkline([]float64{50, 60, 70}, -5, 1800))
}

func TestRenderSparkline_FlatSeriesUsesMiddleLevel(t *testing.T) {
	assert.Equal(t, "▅▅▅", RenderSparkline([]float64{1500, 1500, 1500}, 10, 1800))
}

func TestRenderSparkline_Levels(t *testing.T) {
	result := RenderSparkline([]float64{0, 700, 1400}, 10, 1800)
	assert.Equal(t, "▁▄█", result)
}

func TestRenderSparkline_KeepsMostRecent(t *testing.T) {
	result := RenderSparkline([]float64{0, 0, 0, 100, 200}, 2, 1800)
	assert.Equal(t, 2, len([]rune(result)))
	assert.Equal(t, "▁█", result)
}

func TestLoadColor(t *testing.T) {
	tests := []struct {
		name  string
		load  float64
		limit float64
		want  lipgloss.Color
	}{
		{"no limit", 500, 0, ColorPrimary},
		{"healthy", 1000, 1800, ColorSuccess},
		{"warning", 1600, 1800, ColorWarning},
		{"at limit", 1800, 1800, ColorError},
		{"over limit", 2500, 1800, ColorError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LoadColor(tt.load, tt.limit))
		})
	}
}
