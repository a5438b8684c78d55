// ABOUTME: Decoder error values
// ABOUTME: Sentinel errors returned while loading clips
package decode

import "errors"

var (
	ErrUnsupportedFormat   = errors.New("unsupported audio format")
	ErrNotWavFile          = errors.New("not a WAV file")
	ErrNotAiffFile         = errors.New("not an AIFF file")
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	ErrNoChannels          = errors.New("stream reports zero channels")
)
