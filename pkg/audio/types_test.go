// ABOUTME: Tests for audio types
// ABOUTME: Tests buffer accounting and sample conversion functions
package audio

import (
	"math"
	"testing"
	"time"
)

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected float64
	}{
		{"zero", 0, 0},
		{"half", 16384, 0.5},
		{"negative half", -16384, -0.5},
		{"min", -32768, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int16
	}{
		{"zero", 0, 0},
		{"full positive", 1, 32767},
		{"full negative", -1, -32767},
		{"clipped positive", 1.5, 32767},
		{"clipped negative", -1.5, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleFrom24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    [3]byte
		expected float64
	}{
		{"zero", [3]byte{0, 0, 0}, 0},
		{"max negative", [3]byte{0x00, 0x00, 0x80}, -1},
		{"half positive", [3]byte{0x00, 0x00, 0x40}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFrom24Bit(tt.input)
			if result != tt.expected {
				t.Errorf("expected %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestIntsToFloat(t *testing.T) {
	src := []int{0, 16384, -32768}
	dst := make([]float64, len(src))

	IntsToFloat(dst, src, 16)

	expected := []float64{0, 0.5, -1}
	for i := range expected {
		if math.Abs(dst[i]-expected[i]) > 1e-12 {
			t.Errorf("sample %d: expected %f, got %f", i, expected[i], dst[i])
		}
	}
}

func TestBufferSampleCount(t *testing.T) {
	tests := []struct {
		name     string
		buf      *Buffer
		expected int
	}{
		{"nil", nil, 0},
		{"zero channels", &Buffer{Data: []float64{1, 2}}, 0},
		{"mono", NewBuffer(make([]float64, 10), 1, 48000), 10},
		{"stereo", NewBuffer(make([]float64, 10), 2, 48000), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.buf.SampleCount(); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestBufferDuration(t *testing.T) {
	buf := NewBuffer(make([]float64, 48000*2), 2, 48000)

	if buf.Duration() != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", buf.Duration())
	}

	if got := buf.SampleAt(250 * time.Millisecond); got != 12000 {
		t.Errorf("expected sample 12000, got %d", got)
	}

	if got := buf.SampleAt(time.Hour); got != buf.SampleCount()-1 {
		t.Errorf("expected last sample, got %d", got)
	}

	if got := buf.TimeAt(24000); got != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", got)
	}
}

func TestBufferScaled(t *testing.T) {
	buf := NewBuffer([]float64{0.25, -0.5, 0.125, 0}, 2, 44100)

	scaled := buf.Scaled(2)

	if scaled.PeakAbs() != 1.0 {
		t.Errorf("expected peak 1.0, got %f", scaled.PeakAbs())
	}
	if buf.PeakAbs() != 0.5 {
		t.Error("Scaled modified the source buffer")
	}
	if scaled.Channels != 2 || scaled.SampleRate != 44100 {
		t.Errorf("expected format to carry over, got %dch %dHz", scaled.Channels, scaled.SampleRate)
	}
}

func TestBufferPeakAbs(t *testing.T) {
	tests := []struct {
		name string
		buf  *Buffer
		want float64
	}{
		{"nil buffer", nil, 0},
		{"empty buffer", NewBuffer(nil, 1, 8000), 0},
		{"negative peak", NewBuffer([]float64{0.1, -0.75, 0.3, -0.2, 0.5}, 1, 8000), 0.75},
		{"across channels", NewBuffer([]float64{0.2, 0.9, -0.4, 0.1}, 2, 8000), 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.buf.PeakAbs(); got != tt.want {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}
