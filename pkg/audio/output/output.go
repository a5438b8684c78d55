// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for clip preview transports
package output

import (
	"errors"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
)

var (
	// ErrEmptyClip is returned when asked to play a buffer with no samples
	ErrEmptyClip = errors.New("clip has no samples")

	// ErrNoSampleRate is returned for buffers without a positive sample rate
	ErrNoSampleRate = errors.New("clip has no sample rate")
)

// Transport plays whole decoded clips and reports where playback is
type Transport interface {
	// StopAll stops any clip currently previewing
	StopAll() error

	// PlayAt starts buf from startSample, replacing any current preview
	PlayAt(buf *audio.Buffer, startSample int, loop bool) error

	// CurrentPosition returns the clip sample being heard
	CurrentPosition() int

	// IsPlaying reports whether audio is still being produced
	IsPlaying() bool

	// Close releases output resources
	Close() error
}
