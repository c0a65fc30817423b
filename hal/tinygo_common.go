//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"fmt"
	"machine"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers/hd44780"
)

// tinyGoTimerClockHz is the timer input clock the divisors are written for.
const tinyGoTimerClockHz = 2_000_000

// tinyGoTimer is the playback tick: a goroutine sleeping to absolute
// deadlines, so a late tick does not shift the ones after it.
type tinyGoTimer struct {
	divisor atomic.Uint32
	mu      sync.Mutex
	stop    chan struct{}
}

func (t *tinyGoTimer) ClockHz() uint32 { return tinyGoTimerClockHz }

func (t *tinyGoTimer) Start(divisor uint16, fn func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return errTimerRunning
	}
	t.divisor.Store(uint32(divisor))
	t.stop = make(chan struct{})
	go t.run(fn, t.stop)
	return nil
}

func (t *tinyGoTimer) SetDivisor(divisor uint16) { t.divisor.Store(uint32(divisor)) }

func (t *tinyGoTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *tinyGoTimer) period() time.Duration {
	return time.Duration(t.divisor.Load()+1) * time.Second / tinyGoTimerClockHz
}

func (t *tinyGoTimer) run(fn func(), stop <-chan struct{}) {
	next := time.Now()
	for {
		select {
		case <-stop:
			return
		default:
		}
		next = next.Add(t.period())
		if d := time.Until(next); d > 0 {
			time.Sleep(d)
		} else if d < -10*time.Millisecond {
			next = time.Now()
		}
		fn()
	}
}

// uartLogger brings the UART up on the first line written.
type uartLogger struct {
	uart   *machine.UART
	tx, rx machine.Pin
	once   sync.Once
}

func (l *uartLogger) line(write func()) {
	l.once.Do(func() {
		l.uart.Configure(machine.UARTConfig{BaudRate: 115200, TX: l.tx, RX: l.rx})
	})
	write()
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineString(s string) {
	l.line(func() {
		for i := 0; i < len(s); i++ {
			l.uart.WriteByte(s[i])
		}
	})
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	l.line(func() { l.uart.Write(b) })
}

type pinLED struct {
	pin  machine.Pin
	once sync.Once
}

func (l *pinLED) configure() {
	l.once.Do(func() {
		l.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		l.pin.Low()
	})
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// machinePin is a GPIOPin on a real input pin.
type machinePin struct {
	name string
	pin  machine.Pin
	mode GPIOMode
}

func newMachinePin(name string, pin machine.Pin) *machinePin {
	return &machinePin{name: name, pin: pin}
}

func (p *machinePin) Name() string { return p.name }
func (p *machinePin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown | GPIOCapInterrupt
}

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	var m machine.PinMode
	switch {
	case mode == GPIOModeOutput:
		m = machine.PinOutput
	case pull == GPIOPullUp:
		m = machine.PinInputPullup
	case pull == GPIOPullDown:
		m = machine.PinInputPulldown
	default:
		m = machine.PinInput
	}
	p.pin.Configure(machine.PinConfig{Mode: m})
	p.mode = mode
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.pin.Set(level)
	return nil
}

func (p *machinePin) SetInterrupt(edge GPIOEdge, fn func(GPIOPin)) error {
	var change machine.PinChange
	if edge&GPIOEdgeFalling != 0 {
		change |= machine.PinFalling
	}
	if edge&GPIOEdgeRising != 0 {
		change |= machine.PinRising
	}
	if fn == nil {
		return p.pin.SetInterrupt(change, nil)
	}
	return p.pin.SetInterrupt(change, func(machine.Pin) { fn(p) })
}

// lcdText drives a 16x2 HD44780 on its 4-bit parallel interface.
type lcdText struct {
	data       [4]machine.Pin
	en, rs, rw machine.Pin

	dev   hd44780.Device
	ready bool
	last  string
}

const (
	lcdCols = 16
	lcdRows = 2
)

func (t *lcdText) configure() error {
	if t.ready {
		return nil
	}
	dev, err := hd44780.NewGPIO4Bit(t.data[:], t.en, t.rs, t.rw)
	if err != nil {
		return fmt.Errorf("lcd: %w", err)
	}
	if err := dev.Configure(hd44780.Config{Width: lcdCols, Height: lcdRows}); err != nil {
		return fmt.Errorf("lcd: %w", err)
	}
	t.dev = dev
	t.ready = true
	return nil
}

func (t *lcdText) WriteLines(lines ...string) error {
	if err := t.configure(); err != nil {
		return err
	}
	key := strings.Join(lines, "\n")
	if key == t.last {
		return nil
	}
	t.last = key
	t.dev.ClearDisplay()
	for row, s := range lines {
		if row >= lcdRows {
			break
		}
		if len(s) > lcdCols {
			s = s[:lcdCols]
		}
		t.dev.SetCursor(0, uint8(row))
		t.dev.Write([]byte(s))
		if err := t.dev.Display(); err != nil {
			return fmt.Errorf("lcd: %w", err)
		}
	}
	return nil
}
