// ABOUTME: Clip catalog for the inspector
// ABOUTME: Registers audio files under uuid handles and loads their samples
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
	"github.com/Resonate-Protocol/clipscope/pkg/audio/decode"
	"github.com/Resonate-Protocol/clipscope/pkg/inspector"
)

// ErrUnknownClip is returned for handles the catalog did not issue
var ErrUnknownClip = errors.New("unknown clip")

// Catalog maps clip handles to files and caches decoded samples.
// It implements inspector.Loader.
type Catalog struct {
	registry *decode.Registry
	clips    []inspector.ClipRef
	byPath   map[string]uuid.UUID
	cache    map[uuid.UUID]*audio.Buffer

	mtx *sync.Mutex
}

// New creates an empty catalog. A nil registry uses decode.DefaultRegistry.
func New(registry *decode.Registry) *Catalog {
	if registry == nil {
		registry = decode.DefaultRegistry()
	}

	return &Catalog{
		registry: registry,
		byPath:   make(map[string]uuid.UUID),
		cache:    make(map[uuid.UUID]*audio.Buffer),
		mtx:      &sync.Mutex{},
	}
}

// Add registers a file. Adding the same path twice returns the same handle.
func (c *Catalog) Add(path string) (inspector.ClipRef, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return inspector.ClipRef{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	if !c.registry.Supports(abs) {
		return inspector.ClipRef{}, fmt.Errorf("%w: %s", decode.ErrUnsupportedFormat, filepath.Ext(abs))
	}

	info, err := os.Stat(abs)
	if err != nil {
		return inspector.ClipRef{}, fmt.Errorf("failed to stat clip: %w", err)
	}
	if info.IsDir() {
		return inspector.ClipRef{}, fmt.Errorf("%s is a directory", path)
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if id, ok := c.byPath[abs]; ok {
		return c.refLocked(id), nil
	}

	ref := inspector.ClipRef{
		ID:     uuid.New(),
		Name:   strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs)),
		Source: abs,
	}
	c.clips = append(c.clips, ref)
	c.byPath[abs] = ref.ID

	return ref, nil
}

// AddDir registers every supported file under dir in lexical order.
// Unsupported files are skipped.
func (c *Catalog) AddDir(dir string) ([]inspector.ClipRef, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && c.registry.Supports(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(paths)

	refs := make([]inspector.ClipRef, 0, len(paths))
	for _, path := range paths {
		ref, err := c.Add(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// AddPaths registers files and directories, as given on a command line
func (c *Catalog) AddPaths(paths []string) ([]inspector.ClipRef, error) {
	var refs []inspector.ClipRef
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return refs, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if info.IsDir() {
			added, err := c.AddDir(path)
			if err != nil {
				return refs, err
			}
			refs = append(refs, added...)
			continue
		}

		ref, err := c.Add(path)
		if err != nil {
			return refs, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// List returns every registered clip in the order added
func (c *Catalog) List() []inspector.ClipRef {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	out := make([]inspector.ClipRef, len(c.clips))
	copy(out, c.clips)
	return out
}

// Len returns the number of registered clips
func (c *Catalog) Len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return len(c.clips)
}

// Get returns the clip for a handle
func (c *Catalog) Get(id uuid.UUID) (inspector.ClipRef, bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	for _, ref := range c.clips {
		if ref.ID == id {
			return ref, true
		}
	}
	return inspector.ClipRef{}, false
}

// LoadSamples decodes a clip, reusing the cached buffer after the first load
func (c *Catalog) LoadSamples(ref inspector.ClipRef) (*audio.Buffer, error) {
	c.mtx.Lock()
	if buf, ok := c.cache[ref.ID]; ok {
		c.mtx.Unlock()
		return buf, nil
	}
	known := c.knownLocked(ref.ID)
	c.mtx.Unlock()

	if !known {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClip, ref.ID)
	}

	buf, err := c.registry.Load(ref.Source)
	if err != nil {
		return nil, err
	}

	c.mtx.Lock()
	c.cache[ref.ID] = buf
	c.mtx.Unlock()

	return buf, nil
}

// Evict drops a clip's cached samples so the next load re-reads the file
func (c *Catalog) Evict(id uuid.UUID) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	delete(c.cache, id)
}

func (c *Catalog) knownLocked(id uuid.UUID) bool {
	for _, ref := range c.clips {
		if ref.ID == id {
			return true
		}
	}
	return false
}

func (c *Catalog) refLocked(id uuid.UUID) inspector.ClipRef {
	for _, ref := range c.clips {
		if ref.ID == id {
			return ref
		}
	}
	return inspector.ClipRef{}
}
