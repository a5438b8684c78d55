// ABOUTME: Waveform render configuration
// ABOUTME: Size, scale, colour and amplitude mode settings with parsers
package waveform

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Mode selects how a column's amplitude is computed
type Mode int

const (
	// ModePeak uses the largest absolute sample in the column
	ModePeak Mode = iota
	// ModeAverage uses the mean absolute sample, amplified by Scale
	ModeAverage
)

// String returns the flag spelling of the mode
func (m Mode) String() string {
	switch m {
	case ModePeak:
		return "peak"
	case ModeAverage:
		return "average"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "peak" or "average"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "peak", "":
		return ModePeak, nil
	case "average", "avg":
		return ModeAverage, nil
	default:
		return ModePeak, fmt.Errorf("unknown waveform mode %q (want peak or average)", s)
	}
}

// Config controls image size and appearance
type Config struct {
	BaseWidth int     // width in pixels at Scale 1
	Height    int     // image height in pixels
	Scale     float64 // horizontal zoom; ModeAverage also uses it as gain
	Color     color.NRGBA
	Mode      Mode
}

// DefaultConfig returns the standard inspector settings
func DefaultConfig() Config {
	return Config{
		BaseWidth: 512,
		Height:    128,
		Scale:     1.0,
		Color:     color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Mode:      ModePeak,
	}
}

// Width returns the effective image width, never less than 1
func (c Config) Width() int {
	w := int(math.Round(float64(c.BaseWidth) * c.Scale))
	if w < 1 {
		return 1
	}
	return w
}

// String summarises the settings for logs, e.g. "512x128 peak #FFFFFF"
func (c Config) String() string {
	return fmt.Sprintf("%dx%d %s %s", c.Width(), c.Rows(), c.Mode, FormatColor(c.Color))
}

// Rows returns the effective image height, never less than 1
func (c Config) Rows() int {
	if c.Height < 1 {
		return 1
	}
	return c.Height
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA"
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q (want #RRGGBB or #RRGGBBAA)", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}

	if len(hex) == 6 {
		v = v<<8 | 0xFF
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// FormatColor returns c as "#RRGGBB", or "#RRGGBBAA" when not opaque
func FormatColor(c color.NRGBA) string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
