// ABOUTME: Clip markers with forward-only crossing detection
// ABOUTME: Notifies listeners when the playhead passes a marker
package marker

// noPlayhead is the "before the first sample" baseline, so a marker at
// sample 0 still fires on the first check after a reset
const noPlayhead = -1

// Marker is a user-placed point in a clip
type Marker struct {
	ID     int
	Sample int
}

type listener struct {
	id int
	fn func(Marker)
}

// Manager holds a clip's markers and the last checked playhead sample.
// It is not safe for concurrent use.
type Manager struct {
	markers        []Marker
	nextID         int
	lastPlayhead   int
	listeners      []listener
	nextListenerID int
}

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{
		nextID:       1,
		lastPlayhead: noPlayhead,
	}
}

// Add places a marker at sample. IDs are assigned sequentially from 1;
// markers are neither sorted nor deduplicated.
func (m *Manager) Add(sample int) Marker {
	mk := Marker{ID: m.nextID, Sample: sample}
	m.nextID++
	m.markers = append(m.markers, mk)
	return mk
}

// Remove deletes every marker with id
func (m *Manager) Remove(id int) bool {
	kept := m.markers[:0]
	removed := false
	for _, mk := range m.markers {
		if mk.ID == id {
			removed = true
			continue
		}
		kept = append(kept, mk)
	}
	m.markers = kept
	return removed
}

// Markers returns a copy of the markers in insertion order
func (m *Manager) Markers() []Marker {
	out := make([]Marker, len(m.markers))
	copy(out, m.markers)
	return out
}

// Len returns the number of markers
func (m *Manager) Len() int {
	return len(m.markers)
}

// MarkerAtSample returns the first marker placed exactly at sample
func (m *Manager) MarkerAtSample(sample int) (Marker, bool) {
	for _, mk := range m.markers {
		if mk.Sample == sample {
			return mk, true
		}
	}
	return Marker{}, false
}

// Nearest returns the marker closest to sample within tolerance samples.
// Ties go to the earlier inserted marker.
func (m *Manager) Nearest(sample, tolerance int) (Marker, bool) {
	best, found := Marker{}, false
	bestDist := 0
	for _, mk := range m.markers {
		d := mk.Sample - sample
		if d < 0 {
			d = -d
		}
		if d > tolerance {
			continue
		}
		if !found || d < bestDist {
			best, bestDist, found = mk, d, true
		}
	}
	return best, found
}

// CheckPlayhead fires every marker the playhead crossed moving forward from
// the previous check to sample, in insertion order, then records sample.
func (m *Manager) CheckPlayhead(sample int) {
	// listeners may add or remove markers while being notified
	for _, mk := range m.Markers() {
		if m.lastPlayhead < mk.Sample && sample >= mk.Sample {
			m.notify(mk)
		}
	}
	m.lastPlayhead = sample
}

// ResetPlayheadCheck makes the next check treat every marker at or before
// its sample as crossed
func (m *Manager) ResetPlayheadCheck() {
	m.lastPlayhead = noPlayhead
}

// Rewind sets the baseline so that a check at sample fires a marker placed
// exactly there. Used when playback starts or seeks to sample.
func (m *Manager) Rewind(sample int) {
	if sample <= 0 {
		m.lastPlayhead = noPlayhead
		return
	}
	m.lastPlayhead = sample - 1
}

// LastPlayhead returns the sample recorded by the previous check
func (m *Manager) LastPlayhead() int {
	return m.lastPlayhead
}

// OnMarkerReached registers fn to run synchronously for each crossed marker.
// The returned func unregisters it.
func (m *Manager) OnMarkerReached(fn func(Marker)) (unsubscribe func()) {
	m.nextListenerID++
	id := m.nextListenerID
	m.listeners = append(m.listeners, listener{id: id, fn: fn})

	return func() {
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) notify(mk Marker) {
	listeners := make([]listener, len(m.listeners))
	copy(listeners, m.listeners)
	for _, l := range listeners {
		l.fn(mk)
	}
}
