// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts clips between sample rates and channel layouts
// Package resample provides sample rate and channel layout conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling of whole clips.
//
// Example:
//
//	out := resample.Buffer(clip, 48000)
//	stereo := resample.Remix(out, 2)
package resample
