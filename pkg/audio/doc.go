// ABOUTME: Audio fundamentals package providing core clip types
// ABOUTME: Defines Format, Buffer types and sample conversion functions
// Package audio provides the decoded clip representation shared by the
// loader, the waveform renderer and the preview transport.
//
// This package defines:
//   - Format: Describes the source encoding (codec, sample rate, channels, bit depth)
//   - Buffer: Interleaved float samples for a whole clip
//
// It also provides utilities for converting integer PCM to float samples
// and back for 16-bit playback.
//
// Example:
//
//	buf := audio.NewBuffer(samples, 2, 48000)
//	n := buf.SampleCount() // samples per channel
//	d := buf.Duration()
package audio
