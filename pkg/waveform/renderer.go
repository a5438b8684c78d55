// ABOUTME: Waveform renderer
// ABOUTME: Computes per-column peak or average amplitude and paints bars
package waveform

import (
	"image/color"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
)

// silenceFloor keeps near-silent clips from dividing by zero
const silenceFloor = 1e-6

// Renderer draws waveform images. It holds no state and is safe to share.
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render draws buf into a fresh image sized by cfg. A nil or empty buffer
// yields a fully transparent image.
func (r *Renderer) Render(buf *audio.Buffer, cfg Config) *Image {
	width, height := cfg.Width(), cfg.Rows()
	img := NewImage(width, height)

	n := buf.SampleCount()
	if n == 0 {
		return img
	}
	channels := buf.Channels

	samplesPerPixel := (n + width - 1) / width
	if samplesPerPixel < 1 {
		samplesPerPixel = 1
	}

	peakAbs := buf.PeakAbs()
	if peakAbs < silenceFloor {
		peakAbs = 1
	}

	halfH := height / 2

	for x := 0; x < width; x++ {
		start := x * samplesPerPixel
		if start >= n {
			// past the last sample: zero amplitude, centre row only
			r.paintColumn(img, x, 0, halfH, cfg.Color)
			continue
		}
		end := start + samplesPerPixel
		if end > n {
			end = n
		}

		column := buf.Data[start*channels : end*channels]

		var v float64
		switch cfg.Mode {
		case ModeAverage:
			v = meanAbs(column) * cfg.Scale / peakAbs
		default:
			v = maxAbs(column) / peakAbs
		}
		v = clamp01(v)

		r.paintColumn(img, x, v, halfH, cfg.Color)
	}

	return img
}

func (r *Renderer) paintColumn(img *Image, x int, v float64, halfH int, c color.NRGBA) {
	extent := int(math.Round(v * float64(halfH)))
	yTop := clampInt(halfH+extent, 0, img.Height-1)
	yBottom := clampInt(halfH-extent, 0, img.Height-1)

	for y := yBottom; y <= yTop; y++ {
		img.Pix[y*img.Width+x] = c
	}
}

func maxAbs(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return vecmath.MaxAbs(samples)
}

// meanAbs has no vecmath counterpart: Sum works on signed values
func meanAbs(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += math.Abs(s)
	}
	return sum / float64(len(samples))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
