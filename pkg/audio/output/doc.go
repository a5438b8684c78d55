// ABOUTME: Audio output package for previewing clips
// ABOUTME: Provides the Transport interface and an oto implementation
// Package output provides clip preview transports.
//
// The oto transport opens one device context per process and converts
// every clip to its format, so clips of any rate can be previewed.
//
// Example:
//
//	out := output.NewOto(output.OtoConfig{SampleRate: 48000, Channels: 2})
//	err := out.PlayAt(clip, 0, false)
//	pos := out.CurrentPosition()
package output
