//go:build tinygo && !baremetal

package hal

import (
	"fmt"
	"runtime"

	"wavegen/dac"
)

type tinyGoHostHAL struct {
	logger  *tinyGoHostLogger
	leds    []LED
	flash   Flash
	timer   *virtualTimer
	spi     *simSPI
	buttons *pinButtons
	text    *logText
}

// New returns a TinyGo-on-host board: the simulated DAC clocked by the wall
// clock, with no button source.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU pin mapping.
func New() HAL {
	l := &tinyGoHostLogger{}
	flash := NewMemFlash(64*1024, 4096)
	_ = WriteCalibration(flash, DefaultCalibration)

	btnCaps := GPIOCapInput | GPIOCapPullUp | GPIOCapInterrupt
	h := &tinyGoHostHAL{
		logger: l,
		leds:   []LED{&tinyGoHostLED{name: "led1", logger: l}, &tinyGoHostLED{name: "led2", logger: l}},
		flash:  flash,
		timer:  newVirtualTimer(HostTimerClockHz),
		spi:    newSimSPI(),
		buttons: newPinButtons(
			newVirtualPin("BTN1", btnCaps),
			newVirtualPin("BTN2", btnCaps),
			newVirtualPin("BTN3", btnCaps),
		),
		text: &logText{logger: l},
	}
	go h.timer.runWallClock(nil)
	return h
}

// HostTimerClockHz matches the MCU timer: 16 MHz divided by 8.
const HostTimerClockHz = 2_000_000

func (h *tinyGoHostHAL) Logger() Logger    { return h.logger }
func (h *tinyGoHostHAL) LEDs() []LED       { return h.leds }
func (h *tinyGoHostHAL) Flash() Flash      { return h.flash }
func (h *tinyGoHostHAL) Timer() Timer      { return simTimer{virtualTimer: h.timer, spi: h.spi} }
func (h *tinyGoHostHAL) Buttons() Buttons  { return h.buttons }
func (h *tinyGoHostHAL) Text() TextDisplay { return h.text }
func (h *tinyGoHostHAL) Display() Display  { return nil }
func (h *tinyGoHostHAL) Probe() Probe      { return h.spi }

func (h *tinyGoHostHAL) DAC() (DAC, error) { return dac.New(h.spi, nil), nil }

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostLED struct {
	name   string
	on     bool
	logger *tinyGoHostLogger
}

func (l *tinyGoHostLED) High() {
	l.on = true
	l.logger.WriteLineString(fmt.Sprintf("%s: on (tinygo/%s)", l.name, runtime.GOOS))
}

func (l *tinyGoHostLED) Low() {
	l.on = false
	l.logger.WriteLineString(fmt.Sprintf("%s: off (tinygo/%s)", l.name, runtime.GOOS))
}
