// Package player runs the waveform state machine: one generator step per
// timer tick, with mode and parameter changes arriving from button events.
package player

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"wavegen/wave"
)

// Transport delivers one amplitude sample to the output device. It blocks
// until the sample has been shifted out.
type Transport interface {
	Transmit(level uint16) error
}

// Timer is the periodic tick source. SetDivisor takes effect on the next
// reload.
type Timer interface {
	SetDivisor(d uint16)
}

// Settings is one published snapshot of the playback configuration.
type Settings struct {
	Kind wave.Kind
	Rate int // index into the divisor ladder
	Duty int // tenths of the period spent high
}

// Options configures a Player.
type Options struct {
	Initial      wave.Kind
	SineTable    []uint16 // defaults to wave.Sine45
	Period       int      // ticks per period for Sawtooth and Square; defaults to wave.Samples
	Floor        uint16   // defaults to wave.Floor
	Ceiling      uint16   // defaults to wave.Ceiling
	SquarePolicy wave.SquarePolicy
	Ladder       []uint16 // timer divisors; defaults to DefaultLadder
	// DutyFeedback emits one ceiling sample when the duty changes while the
	// square wave is playing.
	DutyFeedback bool
}

// Stats are running counters.
type Stats struct {
	Ticks   uint64
	Emitted uint64
	Failed  uint64
}

// Player owns the generator bank and the published settings.
type Player struct {
	cs     sync.Locker
	out    Transport
	timer  Timer
	ladder []uint16
	period int
	opts   Options

	bank wave.Bank
	cur  atomic.Pointer[Settings]

	ticks   atomic.Uint64
	emitted atomic.Uint64
	failed  atomic.Uint64
	lastErr atomic.Pointer[error]
}

var errNoTransport = errors.New("player: nil transport")

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// New builds a Player. cs guards generator state against the tick handler;
// nil means the caller serializes Tick and control calls itself.
func New(out Transport, timer Timer, cs sync.Locker, opts Options) (*Player, error) {
	if out == nil {
		return nil, errNoTransport
	}
	if cs == nil {
		cs = nopLocker{}
	}
	if opts.SineTable == nil {
		opts.SineTable = wave.Sine45[:]
	}
	if opts.Period == 0 {
		opts.Period = wave.Samples
	}
	if opts.Floor == 0 && opts.Ceiling == 0 {
		opts.Floor, opts.Ceiling = wave.Floor, wave.Ceiling
	}
	if opts.Ladder == nil {
		opts.Ladder = DefaultLadder
	}
	if len(opts.Ladder) == 0 {
		return nil, errors.New("player: empty rate ladder")
	}
	if opts.Initial > wave.Square {
		return nil, fmt.Errorf("player: initial kind %v", opts.Initial)
	}

	sine, err := wave.NewSine(opts.SineTable)
	if err != nil {
		return nil, err
	}
	saw, err := wave.NewSawtooth(opts.Floor, opts.Ceiling, opts.Period)
	if err != nil {
		return nil, err
	}
	sq, err := wave.NewSquare(opts.Floor, opts.Ceiling, opts.Period, opts.SquarePolicy)
	if err != nil {
		return nil, err
	}

	p := &Player{
		cs:     cs,
		out:    out,
		timer:  timer,
		ladder: append([]uint16(nil), opts.Ladder...),
		period: opts.Period,
		opts:   opts,
		bank:   wave.Bank{Sine: sine, Sawtooth: saw, Square: sq},
	}
	p.cur.Store(&Settings{Kind: opts.Initial, Duty: wave.DefaultDuty})
	return p, nil
}

// Settings returns the current snapshot.
func (p *Player) Settings() Settings {
	return *p.cur.Load()
}

// Divisor is the timer divisor for the current rate.
func (p *Player) Divisor() uint16 {
	return p.ladder[p.cur.Load().Rate]
}

// Ladder returns a copy of the divisor ladder.
func (p *Player) Ladder() []uint16 {
	return append([]uint16(nil), p.ladder...)
}

// Period is the Sawtooth/Square period in ticks.
func (p *Player) Period() int { return p.period }

// SineLen is the Sine period in ticks.
func (p *Player) SineLen() int { return p.bank.Sine.Len() }

// Threshold is the square generator's current high-tick count.
func (p *Player) Threshold() int {
	p.cs.Lock()
	defer p.cs.Unlock()
	return p.bank.Square.Threshold()
}

func (p *Player) Stats() Stats {
	return Stats{
		Ticks:   p.ticks.Load(),
		Emitted: p.emitted.Load(),
		Failed:  p.failed.Load(),
	}
}

// LastError is the most recent transport failure, if any.
func (p *Player) LastError() error {
	if e := p.lastErr.Load(); e != nil {
		return *e
	}
	return nil
}

// update publishes fn applied to a copy of the current settings.
func (p *Player) update(fn func(*Settings)) Settings {
	for {
		old := p.cur.Load()
		next := *old
		fn(&next)
		if p.cur.CompareAndSwap(old, &next) {
			return next
		}
	}
}

func (p *Player) emit(level uint16) {
	if err := p.out.Transmit(level); err != nil {
		p.failed.Add(1)
		p.lastErr.Store(&err)
		return
	}
	p.emitted.Add(1)
}
