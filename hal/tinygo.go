//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"machine"
)

type tinyGoHAL struct {
	logger  *uartLogger
	leds    []LED
	flash   Flash
	timer   *tinyGoTimer
	buttons *pinButtons
	text    *lcdText
}

// New returns the Pico (RP2040/RP2350) board.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// DAC: SPI0 on GP18 (SCK) / GP19 (SDO), chip select GP17.
// Buttons: GP20, GP21, GP22 to ground.
// LEDs: on-board LED and GP15.
// LCD: HD44780 4-bit, D4-D7 on GP6-GP9, E GP10, RS GP11, RW GP12.
//
// Nothing is configured here; every peripheral on first use.
func New() HAL {
	led1 := &pinLED{pin: machine.LED}
	led2 := &pinLED{pin: machine.GP15}
	btns := []GPIOPin{
		newMachinePin("BTN1", machine.GP20),
		newMachinePin("BTN2", machine.GP21),
		newMachinePin("BTN3", machine.GP22),
	}
	return &tinyGoHAL{
		logger:  &uartLogger{uart: machine.UART0, tx: machine.GP0, rx: machine.GP1},
		leds:    []LED{led1, led2},
		flash:   newPicoFlash(),
		timer:   &tinyGoTimer{},
		buttons: newPinButtons(btns...),
		text: &lcdText{
			data: [4]machine.Pin{machine.GP6, machine.GP7, machine.GP8, machine.GP9},
			en:   machine.GP10,
			rs:   machine.GP11,
			rw:   machine.GP12,
		},
	}
}

func (h *tinyGoHAL) Logger() Logger    { return h.logger }
func (h *tinyGoHAL) Flash() Flash      { return h.flash }
func (h *tinyGoHAL) Timer() Timer      { return h.timer }
func (h *tinyGoHAL) Buttons() Buttons  { return h.buttons }
func (h *tinyGoHAL) Text() TextDisplay { return h.text }
func (h *tinyGoHAL) Display() Display  { return nil }
func (h *tinyGoHAL) Probe() Probe      { return nil }

func (h *tinyGoHAL) LEDs() []LED {
	for _, l := range h.leds {
		l.(*pinLED).configure()
	}
	return h.leds
}

func (h *tinyGoHAL) DAC() (DAC, error) { return newBoardDAC() }
