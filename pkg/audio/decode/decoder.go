// ABOUTME: Decoder interface definition and extension registry
// ABOUTME: Maps file extensions to decoders and loads whole clips from disk
package decode

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
)

// Decoder decodes a complete encoded clip into float PCM
type Decoder interface {
	// Decode reads the whole stream and returns interleaved samples
	Decode(r io.ReadSeeker) (*audio.Buffer, error)
}

// Registry maps lower-case file extensions (".wav") to decoders
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

// DefaultRegistry returns a registry with every built-in decoder
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".wav", WAV{})
	r.Register(".wave", WAV{})
	r.Register(".aif", AIFF{})
	r.Register(".aiff", AIFF{})
	r.Register(".flac", FLAC{})
	r.Register(".mp3", MP3{})
	r.Register(".ogg", Vorbis{})
	r.Register(".oga", Vorbis{})
	r.Register(".raw", PCM{Format: DefaultRawFormat})
	return r
}

// Register adds or replaces the decoder for an extension
func (r *Registry) Register(ext string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(ext)] = d
}

// Get returns the decoder for an extension
func (r *Registry) Get(ext string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[strings.ToLower(ext)]
	return d, ok
}

// Extensions returns the registered extensions in sorted order
func (r *Registry) Extensions() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	exts := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supports reports whether a path has a registered extension
func (r *Registry) Supports(path string) bool {
	_, ok := r.Get(filepath.Ext(path))
	return ok
}

// Load opens and decodes a file, choosing the decoder by extension
func (r *Registry) Load(path string) (*audio.Buffer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	dec, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(r.Extensions(), ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	buf, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	log.Printf("Loaded %s: %d samples, %d channels, %d Hz",
		filepath.Base(path), buf.SampleCount(), buf.Channels, buf.SampleRate)

	return buf, nil
}

// LoadFile decodes a file with the default registry
func LoadFile(path string) (*audio.Buffer, error) {
	return DefaultRegistry().Load(path)
}
