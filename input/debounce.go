package input

import (
	"sync"
	"time"
)

// Debouncer accepts the first edge on a line and ignores further edges on
// that line until the quiet window has passed.
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	last   [NumLines]time.Time
	armed  [NumLines]bool
}

func NewDebouncer(window time.Duration) *Debouncer {
	return NewDebouncerWithClock(window, time.Now)
}

func NewDebouncerWithClock(window time.Duration, now func() time.Time) *Debouncer {
	if now == nil {
		now = time.Now
	}
	if window < 0 {
		window = 0
	}
	return &Debouncer{window: window, now: now}
}

// Accept reports whether an edge on l counts as a new press.
func (d *Debouncer) Accept(l Line) bool {
	if l >= NumLines {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.now()
	if d.armed[l] && t.Sub(d.last[l]) < d.window {
		return false
	}
	d.armed[l] = true
	d.last[l] = t
	return true
}

// Window is the configured quiet window.
func (d *Debouncer) Window() time.Duration { return d.window }
