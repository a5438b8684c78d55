// ABOUTME: Terminal rendering of waveform images
// ABOUTME: Downsamples the pixel image into character cells with playhead and markers
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Resonate-Protocol/clipscope/pkg/playhead"
	"github.com/Resonate-Protocol/clipscope/pkg/waveform"
)

var (
	waveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	playheadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	markerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// cellGrid returns which character cells of a cols x rows grid cover painted
// pixels. Row 0 is the top line.
func cellGrid(img *waveform.Image, cols, rows int) [][]bool {
	grid := make([][]bool, rows)
	for r := range grid {
		grid[r] = make([]bool, cols)
	}
	if img == nil || cols <= 0 || rows <= 0 {
		return grid
	}

	for c := 0; c < cols; c++ {
		x0 := c * img.Width / cols
		x1 := (c + 1) * img.Width / cols
		if x1 <= x0 {
			x1 = x0 + 1
		}

		bottom, top, painted := -1, -1, false
		for x := x0; x < x1 && x < img.Width; x++ {
			b, t, ok := img.ColumnExtent(x)
			if !ok {
				continue
			}
			if !painted || b < bottom {
				bottom = b
			}
			if !painted || t > top {
				top = t
			}
			painted = true
		}
		if !painted {
			continue
		}

		for r := 0; r < rows; r++ {
			low := (rows - 1 - r) * img.Height / rows
			high := (rows-r)*img.Height/rows - 1
			if high < low {
				high = low
			}
			grid[r][c] = bottom <= high && top >= low
		}
	}
	return grid
}

// cellColumn maps an image column to a character column
func cellColumn(x, width, cols int) int {
	if width <= 0 || cols <= 0 {
		return 0
	}
	c := x * cols / width
	if c < 0 {
		return 0
	}
	if c >= cols {
		return cols - 1
	}
	return c
}

// localX returns the image x coordinate at the centre of character column c
func localX(c, width, cols int) float64 {
	if cols <= 0 {
		return 0
	}
	return (float64(c) + 0.5) * float64(width) / float64(cols)
}

// markerColumns returns the character columns holding a marker
func markerColumns(samples []int, n, width, cols int) map[int]bool {
	out := make(map[int]bool, len(samples))
	if n <= 0 || width <= 0 {
		return out
	}
	for _, s := range samples {
		out[cellColumn(playhead.PixelFromSample(s, n, width, 1), width, cols)] = true
	}
	return out
}

// renderWave draws the waveform lines framed by a left and right border
func renderWave(grid [][]bool, playheadCol int, showPlayhead bool) []string {
	lines := make([]string, len(grid))
	for r, row := range grid {
		var b strings.Builder
		b.WriteString(borderStyle.Render("│"))
		for c, lit := range row {
			switch {
			case showPlayhead && c == playheadCol && lit:
				b.WriteString(playheadStyle.Render("█"))
			case showPlayhead && c == playheadCol:
				b.WriteString(playheadStyle.Render("│"))
			case lit:
				b.WriteString(waveStyle.Render("█"))
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString(borderStyle.Render("│"))
		lines[r] = b.String()
	}
	return lines
}

// renderMarkerRow draws marker ticks under the waveform
func renderMarkerRow(cols int, markers map[int]bool) string {
	var b strings.Builder
	b.WriteString(" ")
	for c := 0; c < cols; c++ {
		if markers[c] {
			b.WriteString(markerStyle.Render("▲"))
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}
