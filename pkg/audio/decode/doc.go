// ABOUTME: Audio decoder package for whole-clip loading
// ABOUTME: Provides Decoder interface and implementations for WAV, AIFF, FLAC, MP3, Ogg Vorbis, raw PCM
// Package decode turns encoded audio files into audio.Buffer values.
//
// Supports: WAV and AIFF (16/24/32-bit PCM), FLAC, MP3, Ogg Vorbis and raw
// little-endian PCM.
//
// Every decoder reads the whole clip and returns interleaved float samples
// in [-1, 1], which is what the waveform renderer and preview transport
// consume.
//
// Example:
//
//	buf, err := decode.LoadFile("kick.wav")
//	n := buf.SampleCount()
package decode
