// ABOUTME: PNG export of clip waveforms
// ABOUTME: Renders a clip offline and writes the image to disk
package app

import (
	"fmt"
	"log"
	"os"

	"github.com/Resonate-Protocol/clipscope/pkg/inspector"
	"github.com/Resonate-Protocol/clipscope/pkg/waveform"
)

// ExportPNG renders ref and writes it to path. With fallback set, a clip
// that cannot be loaded is written as the solid placeholder instead of
// failing.
func ExportPNG(loader inspector.Loader, ref inspector.ClipRef, cfg waveform.Config, path string, fallback bool) error {
	img, err := renderClip(loader, ref, cfg)
	if err != nil {
		if !fallback {
			return err
		}
		log.Printf("Using placeholder for %s: %v", ref.Name, err)
		img = waveform.Fallback()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := waveform.EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Printf("Wrote %dx%d waveform of %s to %s", img.Width, img.Height, ref.Name, path)
	return nil
}

func renderClip(loader inspector.Loader, ref inspector.ClipRef, cfg waveform.Config) (*waveform.Image, error) {
	buf, err := loader.LoadSamples(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", ref.Name, err)
	}
	if buf.Empty() {
		return nil, fmt.Errorf("%s: %w", ref.Name, inspector.ErrEmptyBuffer)
	}
	return waveform.NewRenderer().Render(buf, cfg), nil
}
