// ABOUTME: Converts inspector events into feed messages
// ABOUTME: Tracks the current clip so positions can be reported in milliseconds
package feed

import (
	"sync"
	"time"

	"github.com/Resonate-Protocol/clipscope/internal/protocol"
	"github.com/Resonate-Protocol/clipscope/pkg/audio"
	"github.com/Resonate-Protocol/clipscope/pkg/inspector"
	"github.com/Resonate-Protocol/clipscope/pkg/marker"
)

// current is the clip events are reported against
type current struct {
	mu     sync.Mutex
	clipID string
	buf    *audio.Buffer
}

// ClipInfo describes a clip and its samples for the feed. buf may be nil
// when the clip failed to load.
func ClipInfo(ref inspector.ClipRef, buf *audio.Buffer) *protocol.ClipInfo {
	info := &protocol.ClipInfo{
		ID:     ref.ID.String(),
		Name:   ref.Name,
		Source: ref.Source,
	}
	if buf != nil {
		info.SampleRate = buf.SampleRate
		info.Channels = buf.Channels
		info.Samples = buf.SampleCount()
		info.DurationMs = buf.Duration().Milliseconds()
	}
	return info
}

// PublishClip announces a selection change. A nil ref clears the selection.
func (s *Server) PublishClip(ref *inspector.ClipRef, buf *audio.Buffer) {
	s.current.mu.Lock()
	if ref == nil {
		s.current.clipID = ""
		s.current.buf = nil
	} else {
		s.current.clipID = ref.ID.String()
		s.current.buf = buf
	}
	s.lastPlayhead = time.Time{}
	s.current.mu.Unlock()

	payload := protocol.ClipSelected{}
	if ref != nil {
		payload.Clip = ClipInfo(*ref, buf)
	}
	s.Publish(protocol.TypeClipSelected, payload)
}

// PublishState announces a play/stop transition
func (s *Server) PublishState(state inspector.State, sample int) {
	s.Publish(protocol.TypePlaybackState, protocol.PlaybackState{
		State:  state.String(),
		Sample: sample,
	})
}

// PublishPlayhead reports the playhead, at most once per PlayheadInterval
func (s *Server) PublishPlayhead(sample int) {
	s.current.mu.Lock()
	now := time.Now()
	if now.Sub(s.lastPlayhead) < s.config.PlayheadInterval {
		s.current.mu.Unlock()
		return
	}
	s.lastPlayhead = now
	update := protocol.PlayheadUpdate{
		ClipID: s.current.clipID,
		Sample: sample,
		TimeMs: s.current.buf.TimeAt(sample).Milliseconds(),
	}
	s.current.mu.Unlock()

	s.Publish(protocol.TypePlayheadUpdate, update)
}

// PublishMarker reports a marker crossing. These are never rate limited.
func (s *Server) PublishMarker(ref inspector.ClipRef, m marker.Marker) {
	s.current.mu.Lock()
	var timeMs int64
	if s.current.clipID == ref.ID.String() {
		timeMs = s.current.buf.TimeAt(m.Sample).Milliseconds()
	}
	s.current.mu.Unlock()

	s.Publish(protocol.TypeMarkerReached, protocol.MarkerReached{
		ClipID:   ref.ID.String(),
		MarkerID: m.ID,
		Sample:   m.Sample,
		TimeMs:   timeMs,
	})
}
