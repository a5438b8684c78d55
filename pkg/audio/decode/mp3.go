// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 files to float samples via go-mp3
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3 decodes MPEG-1/2 layer III files
type MP3 struct{}

// Decode converts MP3 bytes to float samples
func (MP3) Decode(r io.ReadSeeker) (*audio.Buffer, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	// go-mp3 always produces 16-bit little-endian stereo
	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	numSamples := len(pcm) / 2
	numSamples -= numSamples % 2
	samples := make([]float64, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		samples[i] = audio.SampleFromInt16(sample16)
	}

	buf := audio.NewBuffer(samples, 2, decoder.SampleRate())
	buf.Format = audio.Format{Codec: "mp3", SampleRate: decoder.SampleRate(), Channels: 2, BitDepth: 16}
	return buf, nil
}
