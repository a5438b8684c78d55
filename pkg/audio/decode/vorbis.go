// ABOUTME: Ogg Vorbis audio decoder
// ABOUTME: Decodes Ogg Vorbis files through jfreymuth/oggvorbis
package decode

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
)

// Vorbis decodes Ogg Vorbis files
type Vorbis struct{}

// Decode converts Ogg Vorbis bytes to float samples
func (Vorbis) Decode(r io.ReadSeeker) (*audio.Buffer, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode vorbis: %w", err)
	}
	if format.Channels <= 0 {
		return nil, ErrNoChannels
	}

	samples := make([]float64, len(data)-len(data)%format.Channels)
	for i := range samples {
		samples[i] = float64(data[i])
	}

	buf := audio.NewBuffer(samples, format.Channels, format.SampleRate)
	buf.Format = audio.Format{Codec: "vorbis", SampleRate: format.SampleRate, Channels: format.Channels, BitDepth: 32}
	return buf, nil
}
