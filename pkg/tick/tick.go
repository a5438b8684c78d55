// ABOUTME: Periodic callback sources for the inspector
// ABOUTME: Host-driven frame clock and a self-driving single-goroutine loop
package tick

import (
	"context"
	"time"
)

// Timer is a running periodic callback
type Timer interface {
	// Cancel stops further calls. Safe to call more than once and from
	// inside the callback itself.
	Cancel()
}

// Clock starts periodic callbacks
type Clock interface {
	Start(interval time.Duration, fn func()) Timer
}

// FrameClock runs callbacks when the host calls Fire, typically once per
// rendered frame. Callbacks run serially on the caller's goroutine.
// It is not safe for concurrent use.
type FrameClock struct {
	timers []*frameTimer
}

type frameTimer struct {
	clock     *FrameClock
	interval  time.Duration
	fn        func()
	last      time.Time
	cancelled bool
}

// NewFrameClock creates a frame clock with no timers
func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

// Start registers fn to run on every Fire at least interval after its
// previous run. The first Fire after Start always runs it.
func (c *FrameClock) Start(interval time.Duration, fn func()) Timer {
	t := &frameTimer{clock: c, interval: interval, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Fire runs every due callback and returns how many ran
func (c *FrameClock) Fire(now time.Time) int {
	ran := 0
	// callbacks may start or cancel timers
	timers := make([]*frameTimer, len(c.timers))
	copy(timers, c.timers)

	for _, t := range timers {
		if t.cancelled {
			continue
		}
		if !t.last.IsZero() && now.Sub(t.last) < t.interval {
			continue
		}
		t.last = now
		t.fn()
		ran++
	}
	return ran
}

// Active returns the number of uncancelled timers
func (c *FrameClock) Active() int {
	return len(c.timers)
}

func (t *frameTimer) Cancel() {
	if t.cancelled {
		return
	}
	t.cancelled = true

	timers := t.clock.timers
	for i, other := range timers {
		if other == t {
			t.clock.timers = append(timers[:i:i], timers[i+1:]...)
			return
		}
	}
}

// Loop drives a FrameClock from a ticker on its own goroutine. Work that
// touches the timers' owner must be posted with Do so everything runs on
// the loop goroutine.
type Loop struct {
	frames *FrameClock
	period time.Duration
	post   chan func()
}

// NewLoop creates a loop that fires every period
func NewLoop(period time.Duration) *Loop {
	if period <= 0 {
		period = 10 * time.Millisecond
	}
	return &Loop{
		frames: NewFrameClock(),
		period: period,
		post:   make(chan func(), 16),
	}
}

// Start registers a periodic callback. Call it from the loop goroutine,
// i.e. inside Do or another callback.
func (l *Loop) Start(interval time.Duration, fn func()) Timer {
	return l.frames.Start(interval, fn)
}

// Do queues fn to run on the loop goroutine. It returns false if ctx ends
// first.
func (l *Loop) Do(ctx context.Context, fn func()) bool {
	select {
	case l.post <- fn:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run processes posted work and fires timers until ctx is cancelled
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.post:
			fn()
		case now := <-ticker.C:
			l.frames.Fire(now)
		}
	}
}
