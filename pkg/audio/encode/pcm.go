// ABOUTME: PCM audio encoder
// ABOUTME: Encodes float samples to 16-bit or 24-bit little-endian PCM bytes
package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
)

// PCMEncoder encodes PCM audio
type PCMEncoder struct {
	bitDepth int
}

// NewPCM creates a new PCM encoder
func NewPCM(bitDepth int) (Encoder, error) {
	if bitDepth != 16 && bitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", bitDepth)
	}

	return &PCMEncoder{
		bitDepth: bitDepth,
	}, nil
}

// BitDepth returns the encoded sample width in bits
func (e *PCMEncoder) BitDepth() int {
	return e.bitDepth
}

// Encode converts float samples to PCM bytes, clipping to full scale
func (e *PCMEncoder) Encode(samples []float64) ([]byte, error) {
	if e.bitDepth == 24 {
		// 24-bit PCM: 3 bytes per sample
		output := make([]byte, len(samples)*3)
		for i, sample := range samples {
			bytes := audio.SampleTo24Bit(sample)
			output[i*3] = bytes[0]
			output[i*3+1] = bytes[1]
			output[i*3+2] = bytes[2]
		}
		return output, nil
	}

	// 16-bit PCM: 2 bytes per sample
	output := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(audio.SampleToInt16(sample)))
	}
	return output, nil
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}
