package app

import (
	"errors"

	"wavegen/hal"
	"wavegen/scope"
)

// showHalt reports a fatal boot error. Without calibration the bus clocks
// cannot be trusted, so only the log line is written; other failures are
// also shown on the character LCD and the framebuffer.
func showHalt(h hal.HAL, err error) {
	if err == nil {
		err = errors.New("stopped")
	}
	if l := h.Logger(); l != nil {
		l.WriteLineString("halt: " + err.Error())
	}
	if errors.Is(err, ErrCalibrationErased) {
		return
	}
	if t := h.Text(); t != nil {
		_ = t.WriteLines("HALT", err.Error())
	}
	if d := h.Display(); d != nil {
		_ = scope.Halt(d.Framebuffer(), "wavegen halted:", err.Error())
	}
}
