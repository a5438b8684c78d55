// ABOUTME: Playback controller for the clip inspector
// ABOUTME: Handles selection, play/stop, seeking, ticks and markers
package inspector

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
	"github.com/Resonate-Protocol/clipscope/pkg/marker"
	"github.com/Resonate-Protocol/clipscope/pkg/playhead"
	"github.com/Resonate-Protocol/clipscope/pkg/tick"
	"github.com/Resonate-Protocol/clipscope/pkg/waveform"
)

// Config holds controller configuration
type Config struct {
	// Render sets image size, colour and amplitude mode (default: waveform.DefaultConfig)
	Render waveform.Config

	// CursorWidth is the playhead width in pixels (default: 2)
	CursorWidth int

	// TickInterval is how often playback is polled (default: 16ms)
	TickInterval time.Duration

	// Loop restarts the clip when it reaches the end
	Loop bool

	// OnStateChange is called when playback starts or stops
	OnStateChange func(State)

	// OnPlayhead is called when the playhead moves
	OnPlayhead func(sample int)

	// OnMarkerReached is called when playback crosses a marker
	OnMarkerReached func(ClipRef, marker.Marker)

	// OnClipChange is called after a selection change; nil means cleared
	OnClipChange func(*ClipRef)

	// OnError is called when loading or the transport fails
	OnError func(error)
}

// Controller is the inspector's playback state machine.
// It is not safe for concurrent use.
type Controller struct {
	config    Config
	loader    Loader
	transport Transport
	clock     tick.Clock
	renderer  *waveform.Renderer
	tracker   *playhead.Tracker

	session *Session
	markers map[uuid.UUID]*marker.Manager
	state   State
	timer   tick.Timer

	// loop the transport was started with; SetLoop only affects later plays
	playLoop bool
}

// NewController creates a controller with no clip selected
func NewController(config Config, loader Loader, transport Transport, clock tick.Clock) *Controller {
	// Set defaults
	if config.Render == (waveform.Config{}) {
		config.Render = waveform.DefaultConfig()
	}
	if config.Render.Scale == 0 {
		config.Render.Scale = 1.0
	}
	config.Render.Scale = clampScale(config.Render.Scale)
	if config.CursorWidth <= 0 {
		config.CursorWidth = playhead.DefaultCursorWidth
	}
	if config.TickInterval <= 0 {
		config.TickInterval = 16 * time.Millisecond
	}

	return &Controller{
		config:    config,
		loader:    loader,
		transport: transport,
		clock:     clock,
		renderer:  waveform.NewRenderer(),
		tracker:   playhead.NewTracker(),
		markers:   make(map[uuid.UUID]*marker.Manager),
	}
}

// Select switches to ref, or clears the display when ref is nil. Playback
// always stops and the playhead returns to the start. If the clip cannot be
// loaded the previous image stays up and the error is returned.
func (c *Controller) Select(ref *ClipRef) error {
	c.halt()
	c.tracker.Reset()

	if ref == nil {
		c.session = nil
		log.Printf("Selection cleared")
		c.notifyClipChange(nil)
		return nil
	}

	prevImage := c.image()
	markers := c.markersFor(*ref)
	markers.ResetPlayheadCheck()

	buf, err := c.loader.LoadSamples(*ref)
	if err == nil && buf.Empty() {
		err = ErrEmptyBuffer
	}
	if err != nil {
		c.session = &Session{Clip: *ref, Image: prevImage, Markers: markers}
		err = fmt.Errorf("failed to load %s: %w", ref.Name, err)
		c.notifyClipChange(ref)
		c.notifyError(err)
		return err
	}

	// Build the image fully before publishing the session
	img := c.renderer.Render(buf, c.config.Render)
	c.session = &Session{Clip: *ref, Buffer: buf, Image: img, Markers: markers}

	log.Printf("Selected %s: %d samples, %d channels, %d Hz",
		ref.Name, buf.SampleCount(), buf.Channels, buf.SampleRate)

	c.notifyClipChange(ref)
	c.notifyPlayhead()
	return nil
}

// TogglePlayback is the play button: it starts playback when stopped and
// stops it when playing
func (c *Controller) TogglePlayback() error {
	if c.state == Playing {
		return c.Stop()
	}
	return c.Play()
}

// Play starts the clip from the playhead. The marker crossing baseline
// moves to just before the start sample, so a marker at the start fires on
// the first tick and markers behind it stay quiet.
func (c *Controller) Play() error {
	buf, err := c.buffer()
	if err != nil {
		return err
	}
	if c.state == Playing {
		return nil
	}

	// Playing from the final sample would end immediately; start over instead
	n := buf.SampleCount()
	if n > 1 && c.tracker.Sample() >= n-1 {
		c.tracker.Reset()
		c.notifyPlayhead()
	}

	start := c.tracker.Sample()
	if err := c.transport.StopAll(); err != nil {
		return c.transportFailed("stop", err)
	}
	if err := c.transport.PlayAt(buf, start, c.config.Loop); err != nil {
		return c.transportFailed("play", err)
	}
	c.playLoop = c.config.Loop

	c.session.Markers.Rewind(start)
	c.timer = c.clock.Start(c.config.TickInterval, c.Tick)
	c.setState(Playing)
	return nil
}

// Stop halts playback, keeping the playhead where it is
func (c *Controller) Stop() error {
	if c.state != Playing {
		return nil
	}

	err := c.transport.StopAll()
	c.cancelTimer()
	c.setState(Stopped)

	if err != nil {
		err = fmt.Errorf("%w: stop: %w", ErrTransport, err)
		c.notifyError(err)
	}
	return err
}

// Tick follows playback: it stops on natural end, otherwise moves the
// playhead to the transport position and checks markers
func (c *Controller) Tick() {
	if c.state != Playing || c.session == nil || c.session.Buffer == nil {
		return
	}

	if !c.transport.IsPlaying() {
		log.Printf("Playback finished at sample %d", c.tracker.Sample())
		c.cancelTimer()
		c.setState(Stopped)
		return
	}

	n := c.session.Buffer.SampleCount()
	c.tracker.Set(c.transport.CurrentPosition(), n)
	pos := c.tracker.Sample()

	markers := c.session.Markers
	if c.playLoop && pos < markers.LastPlayhead() {
		// Wrapped: finish the tail, then count the head as a fresh pass
		markers.CheckPlayhead(n - 1)
		markers.ResetPlayheadCheck()
	}

	c.notifyPlayhead()
	markers.CheckPlayhead(pos)
}

// Click seeks to the sample under localX. Only the left button acts, and
// only when a clip with an image is loaded. While playing, playback
// restarts from the new position and the marker baseline moves to just
// before it, as in Play.
func (c *Controller) Click(localX float64, button Button) error {
	if button != ButtonLeft {
		return nil
	}
	if c.session == nil || c.session.Buffer == nil || c.session.Image == nil {
		return nil
	}

	buf := c.session.Buffer
	n := buf.SampleCount()
	sample := playhead.SampleFromPixel(localX, c.session.Image.Width, n)
	c.tracker.Set(sample, n)
	c.notifyPlayhead()

	if c.state != Playing {
		return nil
	}

	if err := c.transport.StopAll(); err != nil {
		return c.transportFailed("stop", err)
	}
	if err := c.transport.PlayAt(buf, c.tracker.Sample(), c.config.Loop); err != nil {
		return c.transportFailed("seek", err)
	}
	c.playLoop = c.config.Loop
	c.session.Markers.Rewind(c.tracker.Sample())
	return nil
}

// SetScale changes the horizontal zoom, clamped to [MinScale, MaxScale],
// and redraws the current clip
func (c *Controller) SetScale(scale float64) {
	c.config.Render.Scale = clampScale(scale)
	c.rerender()
}

// Scale returns the current zoom
func (c *Controller) Scale() float64 {
	return c.config.Render.Scale
}

// SetMode changes the amplitude mode and redraws the current clip
func (c *Controller) SetMode(mode waveform.Mode) {
	c.config.Render.Mode = mode
	c.rerender()
}

// SetLoop sets whether later plays loop
func (c *Controller) SetLoop(loop bool) {
	c.config.Loop = loop
}

// Loop reports whether plays loop
func (c *Controller) Loop() bool {
	return c.config.Loop
}

// AddMarker places a marker on the selected clip. The sample must lie in
// [0, N) of a loaded clip.
func (c *Controller) AddMarker(sample int) (marker.Marker, error) {
	buf, err := c.buffer()
	if err != nil {
		return marker.Marker{}, err
	}
	if sample < 0 || sample >= buf.SampleCount() {
		return marker.Marker{}, fmt.Errorf("%w: sample %d of %d", ErrMarkerRange, sample, buf.SampleCount())
	}
	mk := c.session.Markers.Add(sample)
	log.Printf("Added marker %d at sample %d on %s", mk.ID, mk.Sample, c.session.Clip.Name)
	return mk, nil
}

// AddMarkerAtPlayhead places a marker at the current playhead
func (c *Controller) AddMarkerAtPlayhead() (marker.Marker, error) {
	return c.AddMarker(c.tracker.Sample())
}

// RemoveMarker deletes a marker from the selected clip
func (c *Controller) RemoveMarker(id int) bool {
	if c.session == nil {
		return false
	}
	return c.session.Markers.Remove(id)
}

// RemoveMarkerNearPlayhead deletes the marker closest to the playhead
// within tolerance samples
func (c *Controller) RemoveMarkerNearPlayhead(tolerance int) (marker.Marker, bool) {
	if c.session == nil {
		return marker.Marker{}, false
	}
	mk, ok := c.session.Markers.Nearest(c.tracker.Sample(), tolerance)
	if !ok {
		return marker.Marker{}, false
	}
	c.session.Markers.Remove(mk.ID)
	log.Printf("Removed marker %d at sample %d", mk.ID, mk.Sample)
	return mk, true
}

// MarkerAtSample returns the first marker exactly at sample
func (c *Controller) MarkerAtSample(sample int) (marker.Marker, bool) {
	if c.session == nil {
		return marker.Marker{}, false
	}
	return c.session.Markers.MarkerAtSample(sample)
}

// Markers returns the selected clip's markers in insertion order
func (c *Controller) Markers() []marker.Marker {
	if c.session == nil {
		return nil
	}
	return c.session.Markers.Markers()
}

// State returns the playback state
func (c *Controller) State() State {
	return c.state
}

// ButtonLabel returns the play button text
func (c *Controller) ButtonLabel() string {
	return c.state.ButtonLabel()
}

// Playhead returns the playhead sample
func (c *Controller) Playhead() int {
	return c.tracker.Sample()
}

// Session returns the current session, or nil when nothing is selected
func (c *Controller) Session() *Session {
	return c.session
}

// Snapshot returns the current display state
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:       c.state,
		Playhead:    c.tracker.Sample(),
		Scale:       c.config.Render.Scale,
		Mode:        c.config.Render.Mode,
		CursorWidth: c.config.CursorWidth,
	}

	if c.session == nil {
		return snap
	}

	clip := c.session.Clip
	snap.Clip = &clip
	snap.Image = c.session.Image
	snap.Markers = c.session.Markers.Markers()

	if buf := c.session.Buffer; buf != nil {
		snap.SampleCount = buf.SampleCount()
		snap.SampleRate = buf.SampleRate
		snap.Duration = buf.Duration()
	}

	w := 0
	if snap.Image != nil {
		w = snap.Image.Width
	}
	snap.PlayheadX, snap.PlayheadVisible = c.tracker.Position(snap.SampleCount, w, c.config.CursorWidth,
		snap.Image != nil && c.session.Buffer != nil)

	return snap
}

// Close stops playback
func (c *Controller) Close() error {
	return c.Stop()
}

func (c *Controller) buffer() (*audio.Buffer, error) {
	if c.session == nil {
		return nil, ErrNoClip
	}
	if c.session.Buffer.Empty() {
		return nil, ErrEmptyBuffer
	}
	return c.session.Buffer, nil
}

func (c *Controller) image() *waveform.Image {
	if c.session == nil {
		return nil
	}
	return c.session.Image
}

func (c *Controller) markersFor(ref ClipRef) *marker.Manager {
	if m, ok := c.markers[ref.ID]; ok {
		return m
	}

	m := marker.NewManager()
	m.OnMarkerReached(func(mk marker.Marker) {
		if c.config.OnMarkerReached != nil {
			c.config.OnMarkerReached(ref, mk)
		}
	})
	c.markers[ref.ID] = m
	return m
}

func (c *Controller) rerender() {
	if c.session == nil || c.session.Buffer == nil {
		return
	}
	c.session.Image = c.renderer.Render(c.session.Buffer, c.config.Render)
}

// halt stops playback without reporting stop errors; used on selection change
func (c *Controller) halt() {
	if err := c.transport.StopAll(); err != nil {
		log.Printf("Stop before selection change failed: %v", err)
	}
	c.cancelTimer()
	c.setState(Stopped)
}

func (c *Controller) transportFailed(op string, err error) error {
	wrapped := fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
	log.Printf("Transport %s failed: %v", op, err)

	c.cancelTimer()
	c.setState(Stopped)
	c.notifyError(wrapped)
	return wrapped
}

func (c *Controller) cancelTimer() {
	if c.timer != nil {
		c.timer.Cancel()
		c.timer = nil
	}
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.state = s
	if c.config.OnStateChange != nil {
		c.config.OnStateChange(s)
	}
}

func (c *Controller) notifyPlayhead() {
	if c.config.OnPlayhead != nil {
		c.config.OnPlayhead(c.tracker.Sample())
	}
}

func (c *Controller) notifyClipChange(ref *ClipRef) {
	if c.config.OnClipChange != nil {
		c.config.OnClipChange(ref)
	}
}

func (c *Controller) notifyError(err error) {
	if c.config.OnError != nil {
		c.config.OnError(err)
	}
}

func clampScale(scale float64) float64 {
	if math.IsNaN(scale) {
		return 1.0
	}
	return math.Max(MinScale, math.Min(MaxScale, scale))
}
