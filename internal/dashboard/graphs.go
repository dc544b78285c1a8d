package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// ChartScale returns the top of the chart's y axis: the larger of the
// capacity and the highest load in data, so neither is ever clipped.
func ChartScale(capacity float64, data []float64) float64 {
	top := capacity
	for _, v := range data {
		if v > top {
			top = v
		}
	}
	if top <= 0 {
		top = 1
	}
	return top
}

// thresholdRow returns the chart row (0 = top) that marks limit, or -1 when
// the limit is unknown or off the chart.
func thresholdRow(limit, scaleMax float64, height int) int {
	if limit <= 0 || scaleMax <= 0 || height <= 0 || limit > scaleMax {
		return -1
	}
	fromBottom := clampInt(int(limit/scaleMax*float64(height)), height-1)
	return height - 1 - fromBottom
}

// RenderLoadChart renders a multi-row column chart of load values scaled to
// [0, scaleMax]. Each column is one reading, coloured against limit, and the
// row holding limit is marked with a dashed line wherever no column covers it.
// With fewer readings than width the chart fills from the right.
func RenderLoadChart(data []float64, width, height int, limit, scaleMax float64) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	if scaleMax <= 0 {
		scaleMax = ChartScale(0, data)
	}

	// Only downsample if we have more data than display width.
	points := data
	if len(data) > width {
		points = resampleData(data, width)
	}
	offset := width - len(points)

	marker := thresholdRow(limit, scaleMax, height)
	markerStyle := lipgloss.NewStyle().Foreground(ColorWarning)

	lines := make([]string, height)
	for row := 0; row < height; row++ {
		rowFromBottom := height - 1 - row

		var b strings.Builder
		for col := 0; col < width; col++ {
			idx := col - offset
			filled := false
			var val float64
			if idx >= 0 {
				val = points[idx]
				normalized := normalizeValue(val, 0, scaleMax)
				filledRows := clampInt(int(normalized*float64(height)+0.5), height)
				if val > 0 && filledRows == 0 {
					filledRows = 1
				}
				filled = rowFromBottom < filledRows
			}

			switch {
			case filled:
				b.WriteString(LoadStyle(val, limit).Render(ChartFill))
			case row == marker:
				b.WriteString(markerStyle.Render(ThresholdMarker))
			default:
				b.WriteString(" ")
			}
		}
		lines[row] = b.String()
	}

	return strings.Join(lines, "\n")
}

// RenderYAxis renders the labels to the left of a chart of the given height:
// scaleMax on the top row, the limit on its threshold row and 0 at the bottom.
// Every line is padded to the same width.
func RenderYAxis(height int, limit, scaleMax float64) string {
	if height <= 0 {
		return ""
	}

	labels := make([]string, height)
	labels[0] = fmt.Sprintf("%.0f", scaleMax)
	if height > 1 {
		labels[height-1] = "0"
	}
	if row := thresholdRow(limit, scaleMax, height); row >= 0 {
		labels[row] = fmt.Sprintf("%.0f", limit)
	}

	labelWidth := 0
	for _, l := range labels {
		if len(l) > labelWidth {
			labelWidth = len(l)
		}
	}

	lines := make([]string, height)
	for i, l := range labels {
		lines[i] = MutedStyle.Render(fmt.Sprintf("%*s ┤", labelWidth, l))
	}
	return strings.Join(lines, "\n")
}

// RenderMiniSparkline renders a single-row sparkline of data scaled to
// [0, maxVal], coloured by the most recent value against limit.
func RenderMiniSparkline(data []float64, width int, limit, maxVal float64) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	points := data
	if len(data) > width {
		points = resampleData(data, width)
	}

	var result strings.Builder
	for _, val := range points {
		normalized := normalizeValue(val, 0, maxVal)
		idx := clampInt(int(normalized*float64(len(sparklineBlocks)-1)), len(sparklineBlocks)-1)
		result.WriteRune(sparklineBlocks[idx])
	}

	last := data[len(data)-1]
	return LoadStyle(last, limit).Render(result.String())
}

// resampleData resamples data to the target size.
// When downsampling (compressing), uses max-based sampling to preserve peaks/spikes.
// When upsampling (expanding), uses linear interpolation.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	// Downsampling: use max within each bucket to preserve peaks
	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	// Upsampling: linear interpolation
	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}
