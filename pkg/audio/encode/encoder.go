// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for clip sample encoders
package encode

// Encoder encodes float samples to a byte format
type Encoder interface {
	// Encode converts interleaved samples to encoded audio data
	Encode(samples []float64) ([]byte, error)

	// Close releases encoder resources
	Close() error
}
