// ABOUTME: Audio type definitions
// ABOUTME: Defines decoded clip buffers and sample conversions
package audio

import (
	"math"
	"time"

	"github.com/cwbudde/algo-vecmath"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes the encoding a clip was decoded from
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Buffer holds a decoded clip as interleaved float samples, nominally in [-1, 1].
// Buffers are treated as immutable once handed to the renderer or a transport.
type Buffer struct {
	Data       []float64 // interleaved, len = SampleCount() * Channels
	Channels   int
	SampleRate int
	Format     Format
}

// NewBuffer wraps interleaved samples without copying
func NewBuffer(data []float64, channels, sampleRate int) *Buffer {
	return &Buffer{
		Data:       data,
		Channels:   channels,
		SampleRate: sampleRate,
	}
}

// SampleCount returns the number of samples per channel
func (b *Buffer) SampleCount() int {
	if b == nil || b.Channels <= 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// Empty reports whether the buffer has no renderable samples
func (b *Buffer) Empty() bool {
	return b.SampleCount() == 0
}

// Duration returns the playback length of the buffer
func (b *Buffer) Duration() time.Duration {
	if b.Empty() || b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.SampleCount()) * time.Second / time.Duration(b.SampleRate)
}

// SampleAt returns the sample index reached after d of playback
func (b *Buffer) SampleAt(d time.Duration) int {
	if b.Empty() || b.SampleRate <= 0 || d <= 0 {
		return 0
	}
	n := int(d * time.Duration(b.SampleRate) / time.Second)
	if n >= b.SampleCount() {
		n = b.SampleCount() - 1
	}
	return n
}

// TimeAt returns the playback offset of a sample index
func (b *Buffer) TimeAt(sample int) time.Duration {
	if b == nil || b.SampleRate <= 0 || sample <= 0 {
		return 0
	}
	return time.Duration(sample) * time.Second / time.Duration(b.SampleRate)
}

// PeakAbs returns the largest absolute sample value across all channels
func (b *Buffer) PeakAbs() float64 {
	if b == nil || len(b.Data) == 0 {
		return 0
	}
	return vecmath.MaxAbs(b.Data)
}

// Scaled returns a copy of the buffer with every sample multiplied by gain
func (b *Buffer) Scaled(gain float64) *Buffer {
	out := &Buffer{
		Data:       make([]float64, len(b.Data)),
		Channels:   b.Channels,
		SampleRate: b.SampleRate,
		Format:     b.Format,
	}
	vecmath.ScaleBlock(out.Data, b.Data, gain)
	return out
}

// FullScale returns the magnitude of the most negative integer sample at bitDepth
func FullScale(bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return 128.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

// SampleFromInt16 converts a 16-bit sample to float range [-1, 1)
func SampleFromInt16(sample int16) float64 {
	return float64(sample) / 32768.0
}

// SampleToInt16 converts a float sample to 16-bit, clipping out-of-range values
func SampleToInt16(sample float64) int16 {
	v := math.Round(sample * 32767.0)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// SampleFrom24Bit converts 24-bit packed bytes (little-endian) to float range
func SampleFrom24Bit(b [3]byte) float64 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return float64(val) / FullScale(24)
}

// SampleTo24Bit converts a float sample to 24-bit packed bytes (little-endian),
// clipping out-of-range values
func SampleTo24Bit(sample float64) [3]byte {
	v := math.Round(sample * Max24Bit)
	if v > Max24Bit {
		v = Max24Bit
	}
	if v < Min24Bit {
		v = Min24Bit
	}
	i := int32(v)
	return [3]byte{byte(i), byte(i >> 8), byte(i >> 16)}
}

// IntsToFloat converts integer PCM at bitDepth into dst, which must be at least len(src) long
func IntsToFloat(dst []float64, src []int, bitDepth int) {
	for i, v := range src {
		dst[i] = float64(v)
	}
	vecmath.ScaleBlock(dst[:len(src)], dst[:len(src)], 1.0/FullScale(bitDepth))
}
