// Package input turns raw button edges into debounced control events.
//
// Edge handlers run in interrupt context on the MCU, so they only post an
// Event into a kernel.Mailbox. Loop drains the mailbox from ordinary task
// context, filters bounce, and calls the handler registered for the line.
package input

import (
	"context"
	"fmt"
	"time"

	"wavegen/kernel"
)

// Line identifies one of the control buttons.
type Line uint8

const (
	// LineWave is button 1: cycle the waveform.
	LineWave Line = iota
	// LineRate is button 2: cycle the tick-rate preset.
	LineRate
	// LineDuty is button 3: cycle the square-wave duty.
	LineDuty

	NumLines
)

func (l Line) String() string {
	switch l {
	case LineWave:
		return "wave"
	case LineRate:
		return "rate"
	case LineDuty:
		return "duty"
	default:
		return fmt.Sprintf("Line(%d)", uint8(l))
	}
}

// DefaultQuietWindow matches a 4,000,000 cycle busy wait at 16 MHz.
const DefaultQuietWindow = 250 * time.Millisecond

// Event is one raw edge.
type Event struct {
	Line Line
}

// Queue is the interrupt-safe event mailbox shared by edge handlers and Loop.
type Queue = kernel.Mailbox[Event]

// Post enqueues an edge from interrupt context. Edges that arrive while the
// queue is full are dropped; a full queue means the loop is already behind by
// more presses than a person can make inside one quiet window.
func Post(q *Queue, l Line) bool {
	if l >= NumLines {
		return false
	}
	return q.TrySend(Event{Line: l})
}

// Handler reacts to one accepted press.
type Handler func()

// Loop dispatches debounced events.
type Loop struct {
	q        *Queue
	deb      *Debouncer
	handlers [NumLines]Handler

	// Dropped counts edges discarded by the debouncer.
	Dropped uint32
}

func NewLoop(q *Queue, deb *Debouncer) *Loop {
	return &Loop{q: q, deb: deb}
}

// Handle registers h for line l, replacing any previous handler.
func (lp *Loop) Handle(l Line, h Handler) {
	if l < NumLines {
		lp.handlers[l] = h
	}
}

// Dispatch processes one event and reports whether its handler ran.
func (lp *Loop) Dispatch(ev Event) bool {
	if ev.Line >= NumLines {
		return false
	}
	if lp.deb != nil && !lp.deb.Accept(ev.Line) {
		lp.Dropped++
		return false
	}
	h := lp.handlers[ev.Line]
	if h == nil {
		return false
	}
	h()
	return true
}

// Run drains the queue until ctx is done.
func (lp *Loop) Run(ctx context.Context) error {
	for {
		ev, err := lp.q.RecvContext(ctx)
		if err != nil {
			return err
		}
		lp.Dispatch(ev)
	}
}
