// ABOUTME: Main inspector application orchestration
// ABOUTME: Coordinates catalog, controller, audio output, event feed and UI
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Resonate-Protocol/clipscope/internal/catalog"
	"github.com/Resonate-Protocol/clipscope/internal/feed"
	"github.com/Resonate-Protocol/clipscope/internal/ui"
	"github.com/Resonate-Protocol/clipscope/pkg/audio/output"
	"github.com/Resonate-Protocol/clipscope/pkg/inspector"
	"github.com/Resonate-Protocol/clipscope/pkg/marker"
	"github.com/Resonate-Protocol/clipscope/pkg/tick"
	"github.com/Resonate-Protocol/clipscope/pkg/waveform"
)

// ErrNoClips is returned when none of the given paths hold a playable clip
var ErrNoClips = errors.New("no audio clips found")

// Config holds application configuration
type Config struct {
	Paths       []string
	Render      waveform.Config
	CursorWidth int
	FPS         int // default 60
	Loop        bool
	Volume      int // 0-100

	FeedPort   int // 0 disables the event feed
	EnableMDNS bool
	Name       string // default: hostname-clipscope

	UseTUI bool

	// Transport plays clips (default: oto device output)
	Transport output.Transport
}

// App is the running inspector
type App struct {
	config    Config
	catalog   *catalog.Catalog
	clips     []inspector.ClipRef
	transport output.Transport
	feed      *feed.Server
	events    *ui.EventLog

	ctrl       *inspector.Controller
	onFinished func()        // headless: called when playback stops
	done       chan struct{} // closed when headless playback runs out of clips
}

// New registers the clips and prepares the components
func New(config Config) (*App, error) {
	if config.FPS <= 0 {
		config.FPS = 60
	}
	if config.Name == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		config.Name = fmt.Sprintf("%s-clipscope", hostname)
	}

	cat := catalog.New(nil)
	clips, err := cat.AddPaths(config.Paths)
	if err != nil {
		return nil, err
	}
	if len(clips) == 0 {
		return nil, ErrNoClips
	}

	transport := config.Transport
	if transport == nil {
		transport = output.NewOto(output.OtoConfig{Volume: config.Volume})
	}

	a := &App{
		config:    config,
		catalog:   cat,
		clips:     clips,
		transport: transport,
		events:    ui.NewEventLog(4),
		done:      make(chan struct{}),
	}

	if config.FeedPort > 0 {
		a.feed = feed.New(feed.Config{
			Port:             config.FeedPort,
			Name:             config.Name,
			EnableMDNS:       config.EnableMDNS,
			PlayheadInterval: time.Second / time.Duration(config.FPS),
		})
	}

	return a, nil
}

// Clips returns the registered clips in order
func (a *App) Clips() []inspector.ClipRef {
	return a.clips
}

// Run shows the TUI, or plays every clip headless, until the user quits,
// playback runs out, or ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	if a.feed != nil {
		go func() {
			if err := a.feed.Start(); err != nil {
				log.Printf("Event feed error: %v", err)
			}
		}()
		defer a.feed.Stop()
	}

	defer func() {
		if err := a.transport.Close(); err != nil {
			log.Printf("Error closing audio output: %v", err)
		}
	}()

	log.Printf("Inspecting %d clips as %s (waveform %s)", len(a.clips), a.config.Name, a.config.Render)

	if a.config.UseTUI {
		return a.runTUI(ctx)
	}
	return a.runHeadless(ctx)
}

func (a *App) runTUI(ctx context.Context) error {
	clock := tick.NewFrameClock()
	a.ctrl = inspector.NewController(a.controllerConfig(), a.catalog, a.transport, clock)
	defer a.ctrl.Close()

	return ui.Run(ctx, ui.Config{
		Title:      a.config.Name,
		Controller: a.ctrl,
		Clock:      clock,
		Clips:      a.clips,
		Events:     a.events,
		FPS:        a.config.FPS,
	})
}

func (a *App) runHeadless(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := tick.NewLoop(time.Second / time.Duration(a.config.FPS))
	a.ctrl = inspector.NewController(a.controllerConfig(), a.catalog, a.transport, loop)

	var finished sync.Once
	next := 0
	var playNext func()
	playNext = func() {
		for next < len(a.clips) {
			ref := a.clips[next]
			next++
			if err := a.ctrl.Select(&ref); err != nil {
				continue
			}
			if err := a.ctrl.Play(); err != nil {
				continue
			}
			return
		}
		finished.Do(func() { close(a.done) })
	}

	a.onFinished = func() {
		// Runs inside a tick on the loop goroutine, which must not block on its own queue
		go loop.Do(ctx, playNext)
	}

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(ctx)
	}()

	loop.Do(ctx, playNext)

	select {
	case <-ctx.Done():
		log.Printf("Shutdown requested")
	case <-a.done:
		log.Printf("All clips played")
	}

	cancel()
	<-loopDone

	// The loop goroutine has exited, so the controller is ours again
	a.onFinished = nil
	if err := a.ctrl.Close(); err != nil {
		log.Printf("Error stopping playback: %v", err)
	}
	return nil
}

// controllerConfig wires controller hooks to logging, the event log and the feed
func (a *App) controllerConfig() inspector.Config {
	return inspector.Config{
		Render:       a.config.Render,
		CursorWidth:  a.config.CursorWidth,
		TickInterval: time.Second / time.Duration(a.config.FPS),
		Loop:         a.config.Loop,
		OnStateChange: func(s inspector.State) {
			sample := 0
			if a.ctrl != nil {
				sample = a.ctrl.Playhead()
			}
			log.Printf("Playback %s at sample %d", s, sample)
			if a.feed != nil {
				a.feed.PublishState(s, sample)
			}
			if s == inspector.Stopped && a.onFinished != nil {
				a.onFinished()
			}
		},
		OnPlayhead: func(sample int) {
			if a.feed != nil {
				a.feed.PublishPlayhead(sample)
			}
		},
		OnMarkerReached: func(ref inspector.ClipRef, mk marker.Marker) {
			log.Printf("Marker %d reached at sample %d on %s", mk.ID, mk.Sample, ref.Name)
			a.events.Addf("marker %d reached at sample %d", mk.ID, mk.Sample)
			if a.feed != nil {
				a.feed.PublishMarker(ref, mk)
			}
		},
		OnClipChange: func(ref *inspector.ClipRef) {
			if a.feed == nil {
				return
			}
			var session *inspector.Session
			if a.ctrl != nil {
				session = a.ctrl.Session()
			}
			if ref == nil || session == nil {
				a.feed.PublishClip(ref, nil)
				return
			}
			a.feed.PublishClip(ref, session.Buffer)
		},
		OnError: func(err error) {
			log.Printf("Inspector error: %v", err)
			a.events.Addf("error: %v", err)
		},
	}
}
