// ABOUTME: Unit tests for PCM encoder
// ABOUTME: Tests 16-bit and 24-bit PCM encoding of float samples
package encode

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
)

func TestNewPCM(t *testing.T) {
	tests := []struct {
		name     string
		bitDepth int
		wantErr  bool
	}{
		{"valid 16-bit PCM", 16, false},
		{"valid 24-bit PCM", 24, false},
		{"unsupported 8-bit", 8, true},
		{"unsupported 32-bit", 32, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder, err := NewPCM(tt.bitDepth)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				} else if !strings.Contains(err.Error(), "unsupported bit depth") {
					t.Errorf("expected unsupported bit depth error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := encoder.(*PCMEncoder).BitDepth(); got != tt.bitDepth {
				t.Errorf("expected bit depth %d, got %d", tt.bitDepth, got)
			}
		})
	}
}

func TestPCMEncoder_Encode16Bit(t *testing.T) {
	encoder, err := NewPCM(16)
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}
	defer encoder.Close()

	tests := []struct {
		sample float64
		want   int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{2, 32767},   // clipped
		{-2, -32768}, // clipped
	}

	samples := make([]float64, len(tests))
	for i, tt := range tests {
		samples[i] = tt.sample
	}

	output, err := encoder.Encode(samples)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if len(output) != len(samples)*2 {
		t.Fatalf("expected %d bytes, got %d", len(samples)*2, len(output))
	}

	for i := range tests {
		expected := audio.SampleToInt16(tests[i].sample)
		actual := int16(binary.LittleEndian.Uint16(output[i*2:]))
		if actual != expected {
			t.Errorf("sample %d: expected %d, got %d", i, expected, actual)
		}
	}
}

func TestPCMEncoder_Encode24Bit(t *testing.T) {
	encoder, err := NewPCM(24)
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}
	defer encoder.Close()

	samples := []float64{0, 1, -1, 0.5, 3}
	output, err := encoder.Encode(samples)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if len(output) != len(samples)*3 {
		t.Fatalf("expected %d bytes, got %d", len(samples)*3, len(output))
	}

	for i, sample := range samples {
		expected := audio.SampleTo24Bit(sample)
		actual := [3]byte{output[i*3], output[i*3+1], output[i*3+2]}
		if actual != expected {
			t.Errorf("sample %d: expected %v, got %v", i, expected, actual)
		}
	}

	if got := audio.SampleTo24Bit(1); got != [3]byte{0xFF, 0xFF, 0x7F} {
		t.Errorf("expected full scale 7FFFFF, got %v", got)
	}
	if got := audio.SampleTo24Bit(-2); got != [3]byte{0x00, 0x00, 0x80} {
		t.Errorf("expected clipped 800000, got %v", got)
	}
}

func TestPCMEncoder_Empty(t *testing.T) {
	encoder, err := NewPCM(16)
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}

	output, err := encoder.Encode(nil)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if len(output) != 0 {
		t.Errorf("expected no bytes, got %d", len(output))
	}
	if err := encoder.Close(); err != nil {
		t.Errorf("Close() unexpected error = %v", err)
	}
}
