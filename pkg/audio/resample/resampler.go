// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Used to convert clips to the playback device rate before preview
package resample

import (
	"github.com/Resonate-Protocol/clipscope/pkg/audio"
)

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts a complete clip to the output sample rate.
// input: interleaved samples at inputRate
// output: interleaved samples at outputRate
// The final input frame is held when interpolation runs past the end.
func (r *Resampler) Resample(input []float64, output []float64) int {
	if len(input) == 0 || r.channels <= 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	outIdx := 0
	for outIdx < outputFrames {
		inputPos := float64(outIdx) * r.ratio
		inputIdx := int(inputPos)
		if inputIdx >= inputFrames {
			break
		}

		nextIdx := inputIdx + 1
		if nextIdx >= inputFrames {
			nextIdx = inputFrames - 1
		}

		frac := inputPos - float64(inputIdx)
		for ch := 0; ch < r.channels; ch++ {
			sample1 := input[inputIdx*r.channels+ch]
			sample2 := input[nextIdx*r.channels+ch]
			output[outIdx*r.channels+ch] = sample1*(1.0-frac) + sample2*frac
		}

		outIdx++
	}

	return outIdx * r.channels
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	if r.channels <= 0 || r.inputRate <= 0 {
		return 0
	}
	inputFrames := inputSamples / r.channels
	// ceil(inputFrames * outputRate / inputRate) in integer math
	outputFrames := (inputFrames*r.outputRate + r.inputRate - 1) / r.inputRate
	return outputFrames * r.channels
}

// Buffer returns buf converted to outputRate. The input is returned as-is
// when no conversion is needed.
func Buffer(buf *audio.Buffer, outputRate int) *audio.Buffer {
	if buf.Empty() || outputRate <= 0 || buf.SampleRate <= 0 || buf.SampleRate == outputRate {
		return buf
	}

	r := New(buf.SampleRate, outputRate, buf.Channels)
	data := make([]float64, r.OutputSamplesNeeded(len(buf.Data)))
	n := r.Resample(buf.Data, data)

	out := audio.NewBuffer(data[:n], buf.Channels, outputRate)
	out.Format = buf.Format
	return out
}

// Remix returns buf with its channel count changed to channels.
// Downmixing to mono averages all channels; otherwise each output channel
// copies the matching input channel, repeating the last one as needed.
func Remix(buf *audio.Buffer, channels int) *audio.Buffer {
	if buf.Empty() || channels <= 0 || buf.Channels == channels {
		return buf
	}

	frames := buf.SampleCount()
	data := make([]float64, frames*channels)

	for i := 0; i < frames; i++ {
		in := buf.Data[i*buf.Channels : (i+1)*buf.Channels]
		if channels == 1 {
			sum := 0.0
			for _, s := range in {
				sum += s
			}
			data[i] = sum / float64(len(in))
			continue
		}
		for ch := 0; ch < channels; ch++ {
			src := ch
			if src >= len(in) {
				src = len(in) - 1
			}
			data[i*channels+ch] = in[src]
		}
	}

	out := audio.NewBuffer(data, channels, buf.SampleRate)
	out.Format = buf.Format
	return out
}
