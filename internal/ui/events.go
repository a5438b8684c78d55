// ABOUTME: Recent event lines shown under the waveform
// ABOUTME: Keeps the newest few marker and playback messages
package ui

import (
	"fmt"
	"sync"
)

// EventLog holds the most recent event lines
type EventLog struct {
	mu    sync.Mutex
	lines []string
	max   int
}

// NewEventLog creates a log keeping up to max lines
func NewEventLog(max int) *EventLog {
	if max <= 0 {
		max = 1
	}
	return &EventLog{max: max}
}

// Addf appends a formatted line, dropping the oldest when full
func (l *EventLog) Addf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	if len(l.lines) > l.max {
		l.lines = l.lines[len(l.lines)-l.max:]
	}
}

// Lines returns the lines oldest first
func (l *EventLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
