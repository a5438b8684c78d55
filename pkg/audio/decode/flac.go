// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC files to float samples via mewkiz/flac
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLAC decodes native FLAC streams
type FLAC struct{}

// Decode converts FLAC bytes to float samples
func (FLAC) Decode(r io.ReadSeeker) (*audio.Buffer, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)
	if channels == 0 {
		return nil, ErrNoChannels
	}

	scale := audio.FullScale(bitDepth)
	samples := make([]float64, 0, int(info.NSamples)*channels)

	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("flac frame error: %w", err)
		}

		if len(frame.Subframes) < channels {
			return nil, fmt.Errorf("flac frame has %d subframes, expected %d", len(frame.Subframes), channels)
		}

		// Interleave subframes
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, float64(frame.Subframes[ch].Samples[i])/scale)
			}
		}
	}

	buf := audio.NewBuffer(samples, channels, int(info.SampleRate))
	buf.Format = audio.Format{Codec: "flac", SampleRate: int(info.SampleRate), Channels: channels, BitDepth: bitDepth}
	return buf, nil
}
