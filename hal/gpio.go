package hal

import (
	"fmt"
	"sync"
)

type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps is the set of things a pin can be asked to do.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
	GPIOCapInterrupt
)

// GPIOEdge selects which level changes raise a pin interrupt.
type GPIOEdge uint8

const (
	GPIOEdgeFalling GPIOEdge = 1 << iota
	GPIOEdgeRising

	GPIOEdgeBoth = GPIOEdgeFalling | GPIOEdgeRising
)

// matches reports whether a transition to level is one of the edges in e.
func (e GPIOEdge) matches(level bool) bool {
	if level {
		return e&GPIOEdgeRising != 0
	}
	return e&GPIOEdgeFalling != 0
}

// GPIOPin is a single digital pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
	// SetInterrupt registers fn for edge changes; nil fn disarms the pin.
	SetInterrupt(edge GPIOEdge, fn func(GPIOPin)) error
}

func pinError(name, format string, args ...any) error {
	return fmt.Errorf("gpio: pin %s: "+format, append([]any{name}, args...)...)
}

var pullCaps = map[GPIOPull]GPIOCaps{
	GPIOPullUp:   GPIOCapPullUp,
	GPIOPullDown: GPIOCapPullDown,
}

// virtualPin is a simulated button input. Its external level is set with
// drive, which also acts as the edge detector.
type virtualPin struct {
	name string
	caps GPIOCaps

	mu     sync.Mutex
	mode   GPIOMode
	level  bool
	edge   GPIOEdge
	irq    func(GPIOPin)
	config bool
}

func newVirtualPin(name string, caps GPIOCaps) *virtualPin {
	return &virtualPin{name: name, caps: caps}
}

func (p *virtualPin) Name() string   { return p.name }
func (p *virtualPin) Caps() GPIOCaps { return p.caps }

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	want := GPIOCapInput
	if mode == GPIOModeOutput {
		want = GPIOCapOutput
	} else if mode != GPIOModeInput {
		return pinError(p.name, "mode %d invalid", mode)
	}
	if pull != GPIOPullNone {
		c, ok := pullCaps[pull]
		if !ok {
			return pinError(p.name, "pull %d invalid", pull)
		}
		want |= c
	}
	if p.caps&want != want {
		return pinError(p.name, "caps %05b lack %05b", p.caps, want)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
	p.config = true
	switch pull {
	case GPIOPullUp:
		p.level = true
	case GPIOPullDown:
		p.level = false
	}
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.config {
		return false, pinError(p.name, "not configured")
	}
	return p.level, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.config || p.mode != GPIOModeOutput {
		return pinError(p.name, "not an output")
	}
	p.level = level
	return nil
}

func (p *virtualPin) SetInterrupt(edge GPIOEdge, fn func(GPIOPin)) error {
	if p.caps&GPIOCapInterrupt == 0 {
		return pinError(p.name, "no interrupt")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.config || p.mode != GPIOModeInput {
		return pinError(p.name, "not an input")
	}
	p.edge, p.irq = edge, fn
	return nil
}

// drive sets the level seen on an input pin and raises the interrupt if the
// change matches the armed edge.
func (p *virtualPin) drive(level bool) {
	p.mu.Lock()
	changed := p.level != level
	p.level = level
	irq, edge := p.irq, p.edge
	p.mu.Unlock()

	if changed && irq != nil && edge.matches(level) {
		irq(p)
	}
}
