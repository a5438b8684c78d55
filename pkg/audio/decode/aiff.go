// ABOUTME: AIFF audio decoder
// ABOUTME: Decodes AIFF PCM files through go-audio/aiff
package decode

import (
	"io"

	"github.com/go-audio/aiff"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
)

// AIFF decodes uncompressed AIFF files
type AIFF struct{}

// Decode converts AIFF bytes to float samples
func (AIFF) Decode(r io.ReadSeeker) (*audio.Buffer, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	return readIntPCM(dec, int(dec.BitDepth), "aiff")
}
