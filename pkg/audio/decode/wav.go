// ABOUTME: WAV audio decoder and writer
// ABOUTME: Reads and writes RIFF/WAVE PCM through go-audio/wav
package decode

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
)

// WAV decodes RIFF/WAVE PCM files
type WAV struct{}

// Decode converts WAV bytes to float samples
func (WAV) Decode(r io.ReadSeeker) (*audio.Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	dec.ReadInfo()

	return readIntPCM(dec, int(dec.BitDepth), "wav")
}

// WriteWAV encodes buf as integer PCM at bitDepth
func WriteWAV(w io.WriteSeeker, buf *audio.Buffer, bitDepth int) error {
	if buf.Channels <= 0 {
		return ErrNoChannels
	}

	scale := audio.FullScale(bitDepth) - 1
	data := make([]int, len(buf.Data))
	for i, s := range buf.Data {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * scale)
	}

	enc := wav.NewEncoder(w, buf.SampleRate, bitDepth, buf.Channels, 1)
	intBuf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: buf.Channels,
			SampleRate:  buf.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(intBuf); err != nil {
		return fmt.Errorf("wav encode error: %w", err)
	}
	return enc.Close()
}
