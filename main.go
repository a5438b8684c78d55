// ABOUTME: Entry point for the clipscope audio clip inspector
// ABOUTME: Parses CLI flags and starts the inspector application
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Resonate-Protocol/clipscope/internal/app"
	"github.com/Resonate-Protocol/clipscope/internal/catalog"
	"github.com/Resonate-Protocol/clipscope/internal/config"
	"github.com/Resonate-Protocol/clipscope/internal/version"
	"github.com/Resonate-Protocol/clipscope/pkg/waveform"
)

var defaults = config.Load()

var (
	width       = flag.Int("width", defaults.Width, "Waveform width in pixels at scale 1")
	height      = flag.Int("height", defaults.Height, "Waveform height in pixels")
	scale       = flag.Float64("scale", defaults.Scale, "Horizontal zoom (0.1-5.0)")
	colour      = flag.String("color", defaults.Color, "Waveform colour (#RRGGBB or #RRGGBBAA)")
	mode        = flag.String("mode", defaults.Mode, "Amplitude mode: peak or average")
	cursorWidth = flag.Int("cursor-width", defaults.CursorWidth, "Playhead width in pixels")
	fps         = flag.Int("fps", defaults.FPS, "Redraw and playback polling rate")
	loop        = flag.Bool("loop", defaults.Loop, "Loop playback")
	volume      = flag.Int("volume", defaults.Volume, "Preview volume (0-100)")
	feedPort    = flag.Int("feed-port", defaults.FeedPort, "Event feed port (0 disables the feed)")
	noMDNS      = flag.Bool("no-mdns", defaults.NoMDNS, "Do not advertise the event feed over mDNS")
	name        = flag.String("name", defaults.Name, "Inspector name (default: hostname-clipscope)")
	logFile     = flag.String("log-file", defaults.LogFile, "Log file path")
	noTUI       = flag.Bool("no-tui", defaults.NoTUI, "Disable TUI, play clips headless with streaming logs")
	pngPath     = flag.String("png", "", "Render the first clip to this PNG file and exit")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <clip or directory>...\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	useTUI := !*noTUI && *pngPath == ""

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	render, err := renderConfig()
	if err != nil {
		log.Fatalf("Invalid waveform settings: %v", err)
	}

	if *pngPath != "" {
		if err := exportFirst(flag.Args(), render, *pngPath); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		return
	}

	inspector, err := app.New(app.Config{
		Paths:       flag.Args(),
		Render:      render,
		CursorWidth: *cursorWidth,
		FPS:         *fps,
		Loop:        *loop,
		Volume:      *volume,
		FeedPort:    *feedPort,
		EnableMDNS:  !*noMDNS,
		Name:        *name,
		UseTUI:      useTUI,
	})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	if !useTUI {
		log.Printf("Starting %s %s", version.Product, version.Version)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			log.Printf("Shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := inspector.Run(ctx); err != nil {
		log.Printf("Inspector error: %v", err)
	}

	log.Printf("Inspector stopped")
}

// renderConfig builds the waveform settings from flags
func renderConfig() (waveform.Config, error) {
	cfg := waveform.DefaultConfig()
	cfg.BaseWidth = *width
	cfg.Height = *height
	cfg.Scale = *scale

	c, err := waveform.ParseColor(*colour)
	if err != nil {
		return cfg, err
	}
	cfg.Color = c

	m, err := waveform.ParseMode(*mode)
	if err != nil {
		return cfg, err
	}
	cfg.Mode = m

	return cfg, nil
}

// exportFirst writes the first clip found in paths to a PNG
func exportFirst(paths []string, render waveform.Config, out string) error {
	cat := catalog.New(nil)
	refs, err := cat.AddPaths(paths)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return app.ErrNoClips
	}
	return app.ExportPNG(cat, refs[0], render, out, false)
}
