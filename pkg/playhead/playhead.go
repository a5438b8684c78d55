// ABOUTME: Playhead position tracking and pixel/sample mapping
// ABOUTME: Converts between waveform columns and clip sample indices
package playhead

import "math"

// DefaultCursorWidth is the playhead width in pixels
const DefaultCursorWidth = 2

// PixelFromSample returns the left edge of a cursorWidth-wide playhead for
// sample in a clip of n samples drawn w pixels wide. The cursor never runs
// past the right edge.
func PixelFromSample(sample, n, w, cursorWidth int) int {
	norm := 0.0
	if n > 1 {
		norm = float64(sample) / float64(n)
	}

	maxX := w - cursorWidth
	if maxX < 0 {
		maxX = 0
	}

	x := int(math.Round(norm * float64(w)))
	if x < 0 {
		return 0
	}
	if x > maxX {
		return maxX
	}
	return x
}

// SampleFromPixel returns the sample under localX in a w pixel wide image
// of an n sample clip
func SampleFromPixel(localX float64, w, n int) int {
	if w <= 0 || n <= 0 || math.IsNaN(localX) {
		return 0
	}

	x := localX
	if x < 0 {
		x = 0
	}
	if x > float64(w-1) {
		x = float64(w - 1)
	}

	norm := x / float64(w)
	return int(math.Round(norm * float64(n-1)))
}

// Tracker holds the current playhead sample. It is not safe for concurrent use.
type Tracker struct {
	sample int
}

// NewTracker creates a tracker at sample 0
func NewTracker() *Tracker {
	return &Tracker{}
}

// Sample returns the current playhead sample
func (t *Tracker) Sample() int {
	return t.sample
}

// Set moves the playhead, clamping to [0, n-1]
func (t *Tracker) Set(sample, n int) {
	if n <= 1 || sample < 0 {
		t.sample = 0
		return
	}
	if sample > n-1 {
		sample = n - 1
	}
	t.sample = sample
}

// Reset moves the playhead back to the start
func (t *Tracker) Reset() {
	t.sample = 0
}

// Position returns the playhead's pixel column in a w wide image of an n
// sample clip. visible is false when there is no image to draw on.
func (t *Tracker) Position(n, w, cursorWidth int, hasImage bool) (x int, visible bool) {
	if !hasImage || w <= 0 {
		return 0, false
	}
	return PixelFromSample(t.sample, n, w, cursorWidth), true
}
