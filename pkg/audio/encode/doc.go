// ABOUTME: Audio encoder package for encoding clip samples to PCM
// ABOUTME: Provides the Encoder interface and a 16/24-bit PCM implementation
// Package encode turns decoded float samples back into integer PCM bytes.
//
// The preview transport uses it to feed the audio device.
//
// Example:
//
//	encoder, err := encode.NewPCM(16)
//	data, err := encoder.Encode(buf.Data)
package encode
