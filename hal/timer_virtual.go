package hal

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// virtualTimer models an up-counting timer with a compare register. Time only
// moves when advance is called, so the caller chooses the clock: the audio
// device's sample clock, the wall clock, or a test.
type virtualTimer struct {
	mu      sync.Mutex
	clockHz uint32
	period  uint64 // divisor+1 counts per tick
	count   uint64
	acc     uint64 // clock counts * den, not yet whole
	den     uint64
	fn      func()
	running bool

	fired atomic.Uint64
}

var errTimerRunning = errors.New("timer: already running")

func newVirtualTimer(clockHz uint32) *virtualTimer {
	return &virtualTimer{clockHz: clockHz, period: 1}
}

func (t *virtualTimer) ClockHz() uint32 { return t.clockHz }

func (t *virtualTimer) Start(divisor uint16, fn func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return errTimerRunning
	}
	t.period = uint64(divisor) + 1
	t.count = 0
	t.acc = 0
	t.fn = fn
	t.running = true
	return nil
}

// SetDivisor reloads the compare value. A counter already past the new
// compare value restarts from zero.
func (t *virtualTimer) SetDivisor(divisor uint16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.period = uint64(divisor) + 1
	if t.count >= t.period {
		t.count = 0
	}
}

func (t *virtualTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.fn = nil
}

// advance moves time forward by num/den seconds, fires the handler once per
// elapsed tick, and returns the number of ticks fired. Handlers run on the
// caller's goroutine outside the timer lock.
func (t *virtualTimer) advance(num, den uint64) int {
	t.mu.Lock()
	if !t.running || den == 0 {
		t.mu.Unlock()
		return 0
	}
	if den != t.den {
		t.den = den
		t.acc = 0
	}
	t.acc += num * uint64(t.clockHz)
	counts := t.acc / den
	t.acc %= den

	t.count += counts
	ticks := t.count / t.period
	t.count %= t.period
	fn := t.fn
	t.mu.Unlock()

	if fn != nil {
		for i := uint64(0); i < ticks; i++ {
			fn()
		}
	}
	t.fired.Add(ticks)
	return int(ticks)
}

// ticks reports how many ticks have fired since the timer was created.
func (t *virtualTimer) ticks() uint64 { return t.fired.Load() }

// advanceDuration moves time forward by d of wall time.
func (t *virtualTimer) advanceDuration(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return t.advance(uint64(d), uint64(time.Second))
}

// runWallClock advances t from the wall clock until stop is closed. The
// resolution is one scheduler wakeup per millisecond; ticks that fall due in
// between fire in a burst, like a host catching up on missed interrupts.
func (t *virtualTimer) runWallClock(stop <-chan struct{}) {
	tk := time.NewTicker(time.Millisecond)
	defer tk.Stop()
	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-tk.C:
			t.advanceDuration(now.Sub(last))
			last = now
		}
	}
}

// wallTimer is a virtual timer clocked by the wall clock from Start until
// Stop, for boards without a timer interrupt the firmware can own.
type wallTimer struct {
	*virtualTimer
	mu   sync.Mutex
	stop chan struct{}
}

func newWallTimer(clockHz uint32) *wallTimer {
	return &wallTimer{virtualTimer: newVirtualTimer(clockHz)}
}

func (t *wallTimer) Start(divisor uint16, fn func()) error {
	if err := t.virtualTimer.Start(divisor, fn); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stop = make(chan struct{})
	go t.runWallClock(t.stop)
	return nil
}

func (t *wallTimer) Stop() {
	t.virtualTimer.Stop()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}
