// ABOUTME: Raw PCM audio decoder
// ABOUTME: Decodes headerless 16-bit and 24-bit little-endian PCM
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
)

// DefaultRawFormat is assumed for .raw files
var DefaultRawFormat = audio.Format{
	Codec:      "pcm",
	SampleRate: 48000,
	Channels:   2,
	BitDepth:   16,
}

// PCM decodes headerless PCM in a fixed format
type PCM struct {
	Format audio.Format
}

// Decode converts PCM bytes to float samples
func (d PCM) Decode(r io.ReadSeeker) (*audio.Buffer, error) {
	if d.Format.BitDepth != 16 && d.Format.BitDepth != 24 {
		return nil, fmt.Errorf("%w: %d (supported: 16, 24)", ErrUnsupportedBitDepth, d.Format.BitDepth)
	}
	if d.Format.Channels <= 0 {
		return nil, ErrNoChannels
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read pcm data: %w", err)
	}

	bytesPerSample := d.Format.BitDepth / 8
	numSamples := len(data) / bytesPerSample
	// Drop a trailing partial frame
	numSamples -= numSamples % d.Format.Channels

	samples := make([]float64, numSamples)
	if d.Format.BitDepth == 24 {
		for i := 0; i < numSamples; i++ {
			b := [3]byte{data[i*3], data[i*3+1], data[i*3+2]}
			samples[i] = audio.SampleFrom24Bit(b)
		}
	} else {
		for i := 0; i < numSamples; i++ {
			sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
			samples[i] = audio.SampleFromInt16(sample16)
		}
	}

	buf := audio.NewBuffer(samples, d.Format.Channels, d.Format.SampleRate)
	buf.Format = d.Format
	return buf, nil
}
