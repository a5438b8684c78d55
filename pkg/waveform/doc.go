// ABOUTME: Waveform rendering package
// ABOUTME: Turns decoded clips into fixed-size amplitude images
// Package waveform renders a clip's amplitude envelope into an RGBA image.
//
// Each column covers a contiguous range of samples and is filled with a
// vertical bar whose half-height is the column's amplitude, normalised by
// the loudest sample in the clip. The background stays transparent.
//
// Example:
//
//	img := waveform.NewRenderer().Render(clip, waveform.DefaultConfig())
//	err := waveform.EncodePNG(w, img)
package waveform
