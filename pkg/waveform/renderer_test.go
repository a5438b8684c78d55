// ABOUTME: Tests for waveform renderer
// ABOUTME: Verifies column extents, normalisation, modes and degenerate input
package waveform

import (
	"image/color"
	"math"
	"testing"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
)

var red = color.NRGBA{R: 255, A: 255}

func constantClip(n, channels int, amplitude float64) *audio.Buffer {
	data := make([]float64, n*channels)
	for i := range data {
		data[i] = amplitude
	}
	return audio.NewBuffer(data, channels, 44100)
}

func testConfig(width, height int) Config {
	return Config{BaseWidth: width, Height: height, Scale: 1, Color: red, Mode: ModePeak}
}

func assertTransparent(t *testing.T, img *Image) {
	t.Helper()
	for i, p := range img.Pix {
		if p != (color.NRGBA{}) {
			t.Fatalf("pixel %d: expected transparent, got %v", i, p)
		}
	}
}

func TestRenderEmptyInputs(t *testing.T) {
	tests := []struct {
		name string
		buf  *audio.Buffer
	}{
		{"nil buffer", nil},
		{"no samples", audio.NewBuffer(nil, 2, 44100)},
		{"no channels", audio.NewBuffer([]float64{0.5, 0.5}, 0, 44100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewRenderer().Render(tt.buf, testConfig(64, 32))
			if img.Width != 64 || img.Height != 32 {
				t.Errorf("expected 64x32, got %dx%d", img.Width, img.Height)
			}
			assertTransparent(t, img)
		})
	}
}

func TestRenderConstantClipFullHeight(t *testing.T) {
	img := NewRenderer().Render(constantClip(1000, 1, 0.5), testConfig(100, 128))

	if img.Width != 100 {
		t.Fatalf("expected width 100, got %d", img.Width)
	}

	for x := 0; x < img.Width; x++ {
		bottom, top, ok := img.ColumnExtent(x)
		if !ok {
			t.Fatalf("column %d is empty", x)
		}
		if bottom != 0 || top != 127 {
			t.Fatalf("column %d: expected rows [0, 127], got [%d, %d]", x, bottom, top)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	clip := audio.NewBuffer([]float64{0.1, -0.4, 0.9, 0.2, -0.3, 0.05, 0.7, -0.8}, 2, 44100)
	cfg := testConfig(3, 16)

	a := NewRenderer().Render(clip, cfg)
	b := NewRenderer().Render(clip, cfg)

	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel %d differs between renders", i)
		}
	}
}

func TestRenderAmplitudeInvariance(t *testing.T) {
	clip := audio.NewBuffer([]float64{0.1, -0.4, 0.9, 0.2, -0.3, 0.05, 0.7, -0.8, 0.25, 0.5}, 1, 44100)
	cfg := testConfig(5, 64)

	for _, mode := range []Mode{ModePeak, ModeAverage} {
		t.Run(mode.String(), func(t *testing.T) {
			cfg.Mode = mode
			base := NewRenderer().Render(clip, cfg)
			for _, gain := range []float64{0.01, 0.5, 4} {
				scaled := NewRenderer().Render(clip.Scaled(gain), cfg)
				for i := range base.Pix {
					if base.Pix[i] != scaled.Pix[i] {
						t.Fatalf("gain %v: pixel %d differs", gain, i)
					}
				}
			}
		})
	}
}

func TestRenderSilenceDrawsCentreLine(t *testing.T) {
	img := NewRenderer().Render(constantClip(100, 2, 0), testConfig(10, 20))

	for x := 0; x < img.Width; x++ {
		bottom, top, ok := img.ColumnExtent(x)
		if !ok || bottom != 10 || top != 10 {
			t.Fatalf("column %d: expected centre row 10, got [%d, %d] ok=%v", x, bottom, top, ok)
		}
	}
}

func TestRenderPeakUsesLoudestChannel(t *testing.T) {
	// left channel quiet, right channel at full scale in the second column only
	clip := audio.NewBuffer([]float64{0.1, 0.1, 0.1, 1.0}, 2, 44100)
	img := NewRenderer().Render(clip, testConfig(2, 21))

	_, top0, _ := img.ColumnExtent(0)
	_, top1, _ := img.ColumnExtent(1)

	// halfH = 10; column 0 v = 0.1 -> extent 1, column 1 v = 1 -> extent 10
	if top0 != 11 {
		t.Errorf("column 0: expected top 11, got %d", top0)
	}
	if top1 != 20 {
		t.Errorf("column 1: expected top 20, got %d", top1)
	}
}

func TestRenderAverageModeClamps(t *testing.T) {
	clip := constantClip(100, 1, 0.5)
	cfg := testConfig(10, 21)
	cfg.Mode = ModeAverage
	cfg.Scale = 3

	img := NewRenderer().Render(clip, cfg)
	if img.Width != 30 {
		t.Fatalf("expected width 30, got %d", img.Width)
	}

	// mean 0.5 * scale 3 / peak 0.5 = 3, clamped to 1
	bottom, top, _ := img.ColumnExtent(0)
	if bottom != 0 || top != 20 {
		t.Errorf("expected full column, got [%d, %d]", bottom, top)
	}
}

func TestRenderAverageModeBelowPeak(t *testing.T) {
	clip := audio.NewBuffer([]float64{1, 0, 1, 0}, 1, 44100)
	cfg := testConfig(1, 41)
	cfg.Mode = ModeAverage

	img := NewRenderer().Render(clip, cfg)

	// halfH = 20, mean 0.5 -> extent 10
	bottom, top, _ := img.ColumnExtent(0)
	if bottom != 10 || top != 30 {
		t.Errorf("expected rows [10, 30], got [%d, %d]", bottom, top)
	}
}

func TestRenderDegenerateDimensions(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		wantW int
		wantH int
	}{
		{"zero width", Config{BaseWidth: 0, Height: 10, Scale: 1}, 1, 10},
		{"scale rounds to zero", Config{BaseWidth: 10, Height: 10, Scale: 0.01}, 1, 10},
		{"negative height", Config{BaseWidth: 10, Height: -5, Scale: 1}, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewRenderer().Render(constantClip(50, 1, 0.3), tt.cfg)
			if img.Width != tt.wantW || img.Height != tt.wantH {
				t.Errorf("expected %dx%d, got %dx%d", tt.wantW, tt.wantH, img.Width, img.Height)
			}
		})
	}
}

func TestRenderMoreColumnsThanSamples(t *testing.T) {
	img := NewRenderer().Render(constantClip(3, 1, 0.5), testConfig(10, 11))

	// samplesPerPixel = 1; columns 3..9 have no samples and get the centre row
	bottom, top, ok := img.ColumnExtent(9)
	if !ok || bottom != 5 || top != 5 {
		t.Errorf("expected centre row only, got [%d, %d] ok=%v", bottom, top, ok)
	}
	bottom, top, _ = img.ColumnExtent(0)
	if bottom != 0 || top != 10 {
		t.Errorf("expected full column 0, got [%d, %d]", bottom, top)
	}
}

func TestColumnAmplitudeScans(t *testing.T) {
	samples := []float64{0.1, -0.75, 0.3, -0.2, 0.5}

	if got := maxAbs(samples); got != 0.75 {
		t.Errorf("expected max abs 0.75, got %f", got)
	}
	if got := maxAbs(nil); got != 0 {
		t.Errorf("expected max abs 0 for empty column, got %f", got)
	}
	if got := meanAbs(samples); math.Abs(got-0.37) > 1e-9 {
		t.Errorf("expected mean abs 0.37, got %f", got)
	}
}
