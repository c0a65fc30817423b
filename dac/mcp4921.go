// Package dac drives a 12-bit MCP4921-style DAC over SPI.
//
// Each write is one 16-bit word, MSB first, framed by chip select:
//
//	15   14   13   12   11..0
//	A/B  BUF  GA   SHDN D11..D0
//
// The configuration nibble used here is 0x3: channel A, unbuffered, gain 1x,
// output active.
package dac

import (
	"errors"
	"fmt"
	"sync"

	"tinygo.org/x/drivers"
)

const (
	// CommandWrite selects channel A, 1x gain, output enabled.
	CommandWrite uint16 = 0x3000
	// CodeMask keeps the 12 payload bits.
	CodeMask uint16 = 0x0FFF
)

var errNoBus = errors.New("dac: no SPI bus")

// Word builds the device word for level. Bits above the 12-bit range are
// discarded.
func Word(level uint16) uint16 {
	return CommandWrite | (level & CodeMask)
}

// Decode splits a device word into its command nibble and payload.
func Decode(w uint16) (cmd, level uint16) {
	return w &^ CodeMask, w & CodeMask
}

// Pin is an active-low chip select. machine.Pin satisfies it.
type Pin interface {
	High()
	Low()
}

// Device is a single-channel DAC on a shared SPI bus.
type Device struct {
	mu  sync.Mutex
	bus drivers.SPI
	cs  Pin
	buf [2]byte
}

// New returns a device on bus. cs may be nil when the bus frames chip select
// itself (Linux spidev).
func New(bus drivers.SPI, cs Pin) *Device {
	d := &Device{bus: bus, cs: cs}
	if cs != nil {
		cs.High()
	}
	return d
}

// Transmit writes one sample and returns once the bus has shifted it out.
func (d *Device) Transmit(level uint16) error {
	if d == nil || d.bus == nil {
		return errNoBus
	}
	w := Word(level)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.buf[0] = byte(w >> 8)
	d.buf[1] = byte(w)
	if d.cs != nil {
		d.cs.Low()
	}
	err := d.bus.Tx(d.buf[:], nil)
	if d.cs != nil {
		d.cs.High()
	}
	if err != nil {
		return fmt.Errorf("dac: write %#04x: %w", w, err)
	}
	return nil
}
