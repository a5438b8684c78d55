// ABOUTME: Inspector types and collaborator interfaces
// ABOUTME: Defines clip references, playback state, loader and transport
package inspector

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Resonate-Protocol/clipscope/pkg/audio"
	"github.com/Resonate-Protocol/clipscope/pkg/marker"
	"github.com/Resonate-Protocol/clipscope/pkg/waveform"
)

var (
	// ErrNoClip is returned by operations that need a selected clip
	ErrNoClip = errors.New("no clip selected")

	// ErrEmptyBuffer is returned when a clip has no samples or failed to load
	ErrEmptyBuffer = errors.New("clip has no samples")

	// ErrTransport wraps failures reported by the transport
	ErrTransport = errors.New("transport unavailable")

	// ErrMarkerRange is returned when a marker would fall outside [0, N)
	ErrMarkerRange = errors.New("marker outside clip")
)

// Zoom limits for SetScale
const (
	MinScale = 0.1
	MaxScale = 5.0
)

// State is the playback state
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "stopped"
}

// ButtonLabel returns the play button text for the state
func (s State) ButtonLabel() string {
	if s == Playing {
		return "Stop"
	}
	return "Play"
}

// Button identifies the pointer button of a click
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// ClipRef identifies a clip the loader can produce samples for
type ClipRef struct {
	ID     uuid.UUID
	Name   string
	Source string // file path or other loader-specific location
}

// Loader produces the samples for a clip
type Loader interface {
	LoadSamples(ref ClipRef) (*audio.Buffer, error)
}

// Transport plays clips and reports the sample being heard
type Transport interface {
	StopAll() error
	PlayAt(buf *audio.Buffer, startSample int, loop bool) error
	CurrentPosition() int
	IsPlaying() bool
}

// Session is the selected clip with its samples and rendered image.
// Buffer is nil when the clip failed to load; Image then keeps the previous
// clip's picture.
type Session struct {
	Clip    ClipRef
	Buffer  *audio.Buffer
	Image   *waveform.Image
	Markers *marker.Manager
}

// Snapshot is a read-only view of the controller for display
type Snapshot struct {
	Clip            *ClipRef
	State           State
	Playhead        int
	PlayheadX       int
	PlayheadVisible bool
	Image           *waveform.Image
	SampleCount     int
	SampleRate      int
	Duration        time.Duration
	Markers         []marker.Marker
	Scale           float64
	Mode            waveform.Mode
	CursorWidth     int
}
