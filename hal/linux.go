//go:build linux && !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/warthog618/gpiod"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"wavegen/dac"
)

// LinuxConfig maps the board onto a Linux SBC: the DAC on a spidev port,
// buttons and LEDs on a GPIO character device.
type LinuxConfig struct {
	FlashPath string
	// SPIPort is a periph port name ("" picks the first, e.g. "/dev/spidev0.0").
	SPIPort string
	SPIHz   int64
	Chip    string
	// Buttons are line offsets for buttons 1..3, active low.
	Buttons []int
	// LEDs are line offsets for LED 1 and 2; negative entries are skipped.
	LEDs     []int
	Debounce time.Duration
	Out      io.Writer
}

type linuxHAL struct {
	cfg    LinuxConfig
	logger *hostLogger
	flash  *hostFlash
	timer  *wallTimer
	text   *logText

	mu      sync.Mutex
	chip    *gpiod.Chip
	lines   []*gpiod.Line
	leds    []LED
	ledsErr error
	port    spi.PortCloser
	dac     DAC
	buttons *gpiodButtons
}

// NewLinux returns the Linux SBC board. GPIO and SPI are opened on first
// use.
func NewLinux(cfg LinuxConfig) (HAL, error) {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Chip == "" {
		cfg.Chip = "gpiochip0"
	}
	if cfg.SPIHz <= 0 {
		cfg.SPIHz = 1_000_000
	}
	f, err := openHostFlash(cfg.FlashPath)
	if err != nil {
		return nil, err
	}
	logger := &hostLogger{w: cfg.Out}
	h := &linuxHAL{
		cfg:    cfg,
		logger: logger,
		flash:  f,
		timer:  newWallTimer(HostTimerClockHz),
		text:   &logText{logger: logger},
	}
	h.buttons = &gpiodButtons{h: h}
	return h, nil
}

func (h *linuxHAL) Logger() Logger    { return h.logger }
func (h *linuxHAL) Flash() Flash      { return h.flash }
func (h *linuxHAL) Timer() Timer      { return h.timer }
func (h *linuxHAL) Buttons() Buttons  { return h.buttons }
func (h *linuxHAL) Text() TextDisplay { return h.text }
func (h *linuxHAL) Display() Display  { return nil }
func (h *linuxHAL) Probe() Probe      { return nil }

func (h *linuxHAL) gpioChip() (*gpiod.Chip, error) {
	if h.chip != nil {
		return h.chip, nil
	}
	c, err := gpiod.NewChip(h.cfg.Chip, gpiod.WithConsumer("wavegen"))
	if err != nil {
		return nil, fmt.Errorf("gpio: %s: %w", h.cfg.Chip, err)
	}
	h.chip = c
	return c, nil
}

func (h *linuxHAL) LEDs() []LED {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.leds != nil || h.ledsErr != nil {
		return h.leds
	}
	h.leds = []LED{}
	c, err := h.gpioChip()
	if err != nil {
		h.ledsErr = err
		h.logger.WriteLineString("leds: " + err.Error())
		return h.leds
	}
	for _, off := range h.cfg.LEDs {
		if off < 0 {
			continue
		}
		l, err := c.RequestLine(off, gpiod.AsOutput(0))
		if err != nil {
			h.ledsErr = err
			h.logger.WriteLineString(fmt.Sprintf("leds: line %d: %v", off, err))
			continue
		}
		h.lines = append(h.lines, l)
		h.leds = append(h.leds, lineLED{l: l})
	}
	return h.leds
}

func (h *linuxHAL) DAC() (DAC, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.dac != nil {
		return h.dac, nil
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("spi: host init: %w", err)
	}
	p, err := spireg.Open(h.cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("spi: open %q: %w", h.cfg.SPIPort, err)
	}
	conn, err := p.Connect(physic.Frequency(h.cfg.SPIHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("spi: connect: %w", err)
	}
	h.port = p
	// spidev frames every transfer with its own chip select.
	h.dac = dac.New(&periphBus{c: conn}, nil)
	return h.dac, nil
}

// Close stops the timer and releases SPI, GPIO lines and flash.
func (h *linuxHAL) Close() error {
	h.timer.Stop()
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, l := range h.lines {
		_ = l.Close()
	}
	h.lines = nil
	if h.port != nil {
		_ = h.port.Close()
		h.port = nil
	}
	if h.chip != nil {
		_ = h.chip.Close()
		h.chip = nil
	}
	return h.flash.Close()
}

// periphBus adapts a periph SPI connection to drivers.SPI.
type periphBus struct {
	c  spi.Conn
	rx [8]byte
}

func (b *periphBus) Tx(w, r []byte) error {
	if r == nil && len(w) <= len(b.rx) {
		r = b.rx[:len(w)]
	}
	return b.c.Tx(w, r)
}

func (b *periphBus) Transfer(v byte) (byte, error) {
	var r [1]byte
	if err := b.c.Tx([]byte{v}, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

type lineLED struct {
	l *gpiod.Line
}

func (d lineLED) High() { _ = d.l.SetValue(1) }
func (d lineLED) Low()  { _ = d.l.SetValue(0) }

// gpiodButtons requests the button lines with falling-edge events. The
// kernel debounce filter is enabled when configured; the firmware's own
// debounce still applies.
type gpiodButtons struct {
	h *linuxHAL
}

func (b *gpiodButtons) Count() int { return len(b.h.cfg.Buttons) }

func (b *gpiodButtons) Watch(fn func(button int)) error {
	h := b.h
	h.mu.Lock()
	defer h.mu.Unlock()
	c, err := h.gpioChip()
	if err != nil {
		return err
	}
	for i, off := range h.cfg.Buttons {
		i := i
		opts := []gpiod.LineReqOption{
			gpiod.AsInput,
			gpiod.WithPullUp,
			gpiod.WithFallingEdge,
			gpiod.WithEventHandler(func(gpiod.LineEvent) { fn(i) }),
		}
		if h.cfg.Debounce > 0 {
			opts = append(opts, gpiod.WithDebounce(h.cfg.Debounce))
		}
		l, err := c.RequestLine(off, opts...)
		if err != nil {
			return fmt.Errorf("buttons: line %d: %w", off, err)
		}
		h.lines = append(h.lines, l)
	}
	return nil
}
