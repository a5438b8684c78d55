// ABOUTME: Shared reader for go-audio integer PCM decoders
// ABOUTME: Drains WAV and AIFF decoders into float buffers
package decode

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
)

const pcmChunkSize = 8192

// pcmReader is implemented by both wav.Decoder and aiff.Decoder
type pcmReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

func readIntPCM(dec pcmReader, bitDepth int, codec string) (*audio.Buffer, error) {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d (supported: 16, 24, 32)", ErrUnsupportedBitDepth, bitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, ErrNoChannels
	}

	chunk := &goaudio.IntBuffer{
		Data:           make([]int, pcmChunkSize*format.NumChannels),
		Format:         format,
		SourceBitDepth: bitDepth,
	}
	var samples []float64

	for {
		n, err := dec.PCMBuffer(chunk)
		if n > 0 {
			start := len(samples)
			samples = append(samples, make([]float64, n)...)
			audio.IntsToFloat(samples[start:], chunk.Data[:n], bitDepth)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%s pcm read error: %w", codec, err)
		}
		if n == 0 {
			break
		}
	}

	// Drop a trailing partial frame
	samples = samples[:len(samples)-len(samples)%format.NumChannels]

	buf := audio.NewBuffer(samples, format.NumChannels, format.SampleRate)
	buf.Format = audio.Format{Codec: codec, SampleRate: format.SampleRate, Channels: format.NumChannels, BitDepth: bitDepth}
	return buf, nil
}
