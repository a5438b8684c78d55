// ABOUTME: Waveform image type and export helpers
// ABOUTME: Bottom-origin pixel grid with PNG encoding and solid fallback
package waveform

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

// Image is a row-major pixel grid whose row 0 is the bottom edge
type Image struct {
	Width  int
	Height int
	Pix    []color.NRGBA
}

// NewImage returns a fully transparent image
func NewImage(width, height int) *Image {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]color.NRGBA, width*height),
	}
}

// Placeholder shown when a clip has no preview
const (
	FallbackWidth  = 256
	FallbackHeight = 128
)

// FallbackColor is the placeholder fill
var FallbackColor = color.NRGBA{G: 255, A: 255}

// Fallback returns the solid placeholder image
func Fallback() *Image {
	return Solid(FallbackWidth, FallbackHeight, FallbackColor)
}

// Solid returns an image filled with c
func Solid(width, height int, c color.NRGBA) *Image {
	img := NewImage(width, height)
	for i := range img.Pix {
		img.Pix[i] = c
	}
	return img
}

// At returns the pixel at column x, row y counted from the bottom
func (m *Image) At(x, y int) color.NRGBA {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return color.NRGBA{}
	}
	return m.Pix[y*m.Width+x]
}

// Set writes the pixel at column x, row y counted from the bottom
func (m *Image) Set(x, y int, c color.NRGBA) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Pix[y*m.Width+x] = c
}

// ColumnExtent returns the lowest and highest painted rows in column x.
// ok is false when the column is empty.
func (m *Image) ColumnExtent(x int) (bottom, top int, ok bool) {
	bottom, top = -1, -1
	for y := 0; y < m.Height; y++ {
		if m.At(x, y).A == 0 {
			continue
		}
		if bottom < 0 {
			bottom = y
		}
		top = y
	}
	return bottom, top, bottom >= 0
}

// NRGBA converts to a standard top-left-origin image
func (m *Image) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		row := m.Height - 1 - y
		for x := 0; x < m.Width; x++ {
			out.SetNRGBA(x, row, m.Pix[y*m.Width+x])
		}
	}
	return out
}

// EncodePNG writes img as a PNG
func EncodePNG(w io.Writer, img *Image) error {
	if img == nil {
		return fmt.Errorf("no image to encode")
	}
	if err := png.Encode(w, img.NRGBA()); err != nil {
		return fmt.Errorf("png encode error: %w", err)
	}
	return nil
}
