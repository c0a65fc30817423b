package hal

import (
	"errors"
	"sync"
	"sync/atomic"

	"wavegen/dac"
)

// traceLen is the number of held levels a simulated DAC remembers.
const traceLen = 1024

var errShortFrame = errors.New("simspi: short frame")

// simSPI stands in for the SPI bus with a 12-bit DAC on the far end. It
// decodes each two-byte frame and latches the payload, like the DAC's output
// register.
type simSPI struct {
	level  atomic.Uint32
	writes atomic.Uint64
	cmd    atomic.Uint32

	mu    sync.Mutex
	trace [traceLen]uint16
	pos   int
	n     int
}

func newSimSPI() *simSPI {
	return &simSPI{}
}

func (s *simSPI) Tx(w, r []byte) error {
	for i := range r {
		r[i] = 0
	}
	if len(w) < 2 {
		return errShortFrame
	}
	cmd, level := dac.Decode(uint16(w[0])<<8 | uint16(w[1]))
	s.cmd.Store(uint32(cmd))
	s.level.Store(uint32(level))
	s.writes.Add(1)
	return nil
}

func (s *simSPI) Transfer(b byte) (byte, error) {
	_ = b
	return 0, errShortFrame
}

// Level is the latched output code.
func (s *simSPI) Level() uint16 { return uint16(s.level.Load()) }

// hold samples the latched level into the trace; called once per tick.
func (s *simSPI) hold() {
	v := s.Level()
	s.mu.Lock()
	s.trace[s.pos] = v
	s.pos = (s.pos + 1) % traceLen
	if s.n < traceLen {
		s.n++
	}
	s.mu.Unlock()
}

func (s *simSPI) Trace(dst []uint16) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.n
	if n > len(dst) {
		n = len(dst)
	}
	start := (s.pos - n + traceLen) % traceLen
	for i := 0; i < n; i++ {
		dst[i] = s.trace[(start+i)%traceLen]
	}
	return n
}

// simTimer wraps the virtual timer so every tick also samples the DAC
// output for the trace.
type simTimer struct {
	*virtualTimer
	spi *simSPI
}

func (t simTimer) Start(divisor uint16, fn func()) error {
	return t.virtualTimer.Start(divisor, func() {
		if fn != nil {
			fn()
		}
		t.spi.hold()
	})
}

// monitor converts the simulated DAC output into an audio stream. Each
// output sample advances the virtual timer by one sample period, so audio
// and playback share one clock.
type monitor struct {
	timer *virtualTimer
	spi   *simSPI
	rate  uint64
}

func newMonitor(t *virtualTimer, spi *simSPI, rate int) *monitor {
	if rate <= 0 {
		rate = 48000
	}
	return &monitor{timer: t, spi: spi, rate: uint64(rate)}
}

// next returns one sample in [-1, 1].
func (m *monitor) next() float32 {
	m.timer.advance(1, m.rate)
	return float32(m.spi.Level())/float32(dac.CodeMask)*2 - 1
}
