// ABOUTME: Audio clip inspector package
// ABOUTME: Ties waveform rendering, playhead, markers and playback together
// Package inspector provides the playback controller behind the clip
// inspector.
//
// A Controller owns the selected clip's samples and waveform image, drives
// a Transport through play, stop and seek, and follows playback on a
// periodic tick to move the playhead and fire markers.
//
// The controller is single-threaded: every method, and every tick, must be
// called from the same goroutine (a bubbletea Update loop or a tick.Loop).
//
// Example:
//
//	c := inspector.NewController(inspector.Config{
//		OnMarkerReached: func(clip inspector.ClipRef, m marker.Marker) {
//			log.Printf("%s: marker %d", clip.Name, m.ID)
//		},
//	}, catalog, transport, clock)
//
//	if err := c.Select(&ref); err != nil {
//		log.Printf("load failed: %v", err)
//	}
//	c.TogglePlayback()
package inspector
