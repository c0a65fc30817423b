//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"

	"wavegen/dac"
)

// HostTimerClockHz matches the MCU timer: 16 MHz divided by 8.
const HostTimerClockHz = 2_000_000

// HostConfig describes the simulated board.
type HostConfig struct {
	// FlashPath is the backing file for flash. Ignored when Flash is set.
	FlashPath string
	// Flash replaces the file-backed flash.
	Flash Flash
	// Bounces is the contact chatter added to every simulated key press.
	Bounces int
	// Width and Height size the scope framebuffer.
	Width, Height int
	// Out receives log lines; stdout when nil.
	Out io.Writer
}

type hostHAL struct {
	logger  *hostLogger
	leds    []LED
	buttons *pinButtons
	flash   Flash
	closer  io.Closer
	timer   *virtualTimer
	spi     *simSPI
	fb      *hostFramebuffer
	text    *logText
	bounces int

	dacOnce sync.Once
	dac     DAC
}

// New returns the simulated board.
func New(cfg HostConfig) (HAL, error) {
	return newHost(cfg)
}

func newHost(cfg HostConfig) (*hostHAL, error) {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 320, 240
	}
	logger := &hostLogger{w: cfg.Out}

	h := &hostHAL{
		logger:  logger,
		timer:   newVirtualTimer(HostTimerClockHz),
		spi:     newSimSPI(),
		fb:      newHostFramebuffer(cfg.Width, cfg.Height),
		text:    &logText{logger: logger},
		bounces: cfg.Bounces,
	}

	h.flash = cfg.Flash
	if h.flash == nil {
		f, err := openHostFlash(cfg.FlashPath)
		if err != nil {
			return nil, err
		}
		h.flash = f
		h.closer = f
	}

	led1 := &hostLED{name: "led1", logger: logger}
	led2 := &hostLED{name: "led2", logger: logger}
	h.leds = []LED{led1, led2}

	btnCaps := GPIOCapInput | GPIOCapPullUp | GPIOCapInterrupt
	btns := []GPIOPin{
		newVirtualPin("BTN1", btnCaps),
		newVirtualPin("BTN2", btnCaps),
		newVirtualPin("BTN3", btnCaps),
	}
	h.buttons = newPinButtons(btns...)
	return h, nil
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LEDs() []LED      { return h.leds }
func (h *hostHAL) Flash() Flash     { return h.flash }
func (h *hostHAL) Timer() Timer     { return simTimer{virtualTimer: h.timer, spi: h.spi} }
func (h *hostHAL) Buttons() Buttons { return h.buttons }
func (h *hostHAL) Text() TextDisplay {
	return h.text
}
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Probe() Probe     { return h.spi }

func (h *hostHAL) DAC() (DAC, error) {
	h.dacOnce.Do(func() {
		h.dac = dac.New(h.spi, nil)
	})
	return h.dac, nil
}

// press simulates a press of button i.
func (h *hostHAL) press(i int) error {
	return h.buttons.press(i, h.bounces)
}

// Close releases the flash backing file.
func (h *hostHAL) Close() error {
	if h.closer == nil {
		return nil
	}
	return h.closer.Close()
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	name   string
	on     bool
	logger Logger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
	l.logger.WriteLineString(l.name + ": on")
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
	l.logger.WriteLineString(l.name + ": off")
}
