// ABOUTME: Entry point for the headless waveform renderer
// ABOUTME: Decodes clips and writes one PNG per clip
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Resonate-Protocol/clipscope/internal/app"
	"github.com/Resonate-Protocol/clipscope/internal/catalog"
	"github.com/Resonate-Protocol/clipscope/internal/config"
	"github.com/Resonate-Protocol/clipscope/pkg/waveform"
)

var defaults = config.Load()

var (
	outDir   = flag.String("out", ".", "Directory for the PNG files")
	width    = flag.Int("width", defaults.Width, "Waveform width in pixels at scale 1")
	height   = flag.Int("height", defaults.Height, "Waveform height in pixels")
	scale    = flag.Float64("scale", defaults.Scale, "Horizontal zoom (0.1-5.0)")
	colour   = flag.String("color", defaults.Color, "Waveform colour (#RRGGBB or #RRGGBBAA)")
	mode     = flag.String("mode", defaults.Mode, "Amplitude mode: peak or average")
	fallback = flag.Bool("fallback", false, "Write a solid placeholder for clips that fail to decode")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <clip or directory>...\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := waveform.DefaultConfig()
	cfg.BaseWidth = *width
	cfg.Height = *height
	cfg.Scale = *scale

	c, err := waveform.ParseColor(*colour)
	if err != nil {
		log.Fatalf("Invalid colour: %v", err)
	}
	cfg.Color = c

	m, err := waveform.ParseMode(*mode)
	if err != nil {
		log.Fatalf("Invalid mode: %v", err)
	}
	cfg.Mode = m

	log.Printf("Rendering %s into %s", cfg, *outDir)

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create %s: %v", *outDir, err)
	}

	cat := catalog.New(nil)
	refs, err := cat.AddPaths(flag.Args())
	if err != nil {
		log.Fatalf("Failed to register clips: %v", err)
	}

	failed := 0
	for _, ref := range refs {
		name := strings.TrimSuffix(filepath.Base(ref.Source), filepath.Ext(ref.Source)) + ".png"
		out := filepath.Join(*outDir, name)

		if err := app.ExportPNG(cat, ref, cfg, out, *fallback); err != nil {
			log.Printf("Failed to render %s: %v", ref.Name, err)
			failed++
		}
		// Samples are only needed once
		cat.Evict(ref.ID)
	}

	log.Printf("Rendered %d of %d clips", len(refs)-failed, len(refs))
	if failed > 0 {
		os.Exit(1)
	}
}
