package hal

import (
	"errors"
	"image/color"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

var ErrFlashWriteRequiresErase = errors.New("flash write requires erase")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	Fill(c color.RGBA)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// TextDisplay shows a few short status lines (character LCD or log).
type TextDisplay interface {
	WriteLines(lines ...string) error
}

// Flash provides raw access to non-volatile memory.
//
// It is intentionally low-level: addresses and erase blocks only.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// Timer is the periodic playback interrupt.
//
// The timer counts ClockHz and fires every divisor+1 counts. fn runs in the
// timer context; it never overlaps itself.
type Timer interface {
	ClockHz() uint32
	Start(divisor uint16, fn func()) error
	SetDivisor(divisor uint16)
	Stop()
}

// DAC is the sample transport: one blocking write per amplitude code.
type DAC interface {
	Transmit(level uint16) error
}

// Buttons are the edge-triggered control inputs.
//
// fn receives the button index and may run in interrupt context: it must not
// block or allocate.
type Buttons interface {
	Count() int
	Watch(fn func(button int)) error
}

// Probe exposes the recent output of a simulated DAC (nil on hardware).
type Probe interface {
	// Trace copies the most recent held levels, oldest first, and returns
	// the number copied.
	Trace(dst []uint16) int
}

// HAL provides the only contact point between the firmware and the outside
// world.
//
// Nothing is configured until it is first used, so the boot code can refuse
// to touch peripherals when the clock calibration is missing.
type HAL interface {
	Logger() Logger
	LEDs() []LED
	Flash() Flash
	Timer() Timer
	DAC() (DAC, error)
	Buttons() Buttons
	Text() TextDisplay
	Display() Display
	Probe() Probe
}
