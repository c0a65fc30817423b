package hal

import (
	"errors"
	"fmt"
)

// Calibration is the factory oscillator trim: a range select and a step/
// modulation byte. It lives in the last erase block of flash as
// {range, step, ^range, ^step}.
type Calibration struct {
	Range byte
	Step  byte
}

// Erased is the value of a wiped flash byte.
const Erased byte = 0xFF

// CalibrationSize is the encoded length.
const CalibrationSize = 4

// DefaultCalibration is the trim used by the simulator and mkflash.
var DefaultCalibration = Calibration{Range: 0x8F, Step: 0x95}

var ErrCalibrationErased = errors.New("calibration: erased")

// Valid reports whether the range byte holds a programmed value.
func (c Calibration) Valid() bool { return c.Range != Erased }

// Encode returns the on-flash representation.
func (c Calibration) Encode() [CalibrationSize]byte {
	return [CalibrationSize]byte{c.Range, c.Step, ^c.Range, ^c.Step}
}

// CalibrationOffset is where the block sits in f.
func CalibrationOffset(f Flash) (uint32, error) {
	size, block := f.SizeBytes(), f.EraseBlockBytes()
	if size == 0 || block == 0 || block > size || block < CalibrationSize {
		return 0, fmt.Errorf("calibration: flash geometry size=%d block=%d: %w", size, block, ErrNotImplemented)
	}
	return size - block, nil
}

// ReadCalibration loads the trim block. An erased range byte yields
// ErrCalibrationErased; a corrupt block is reported as erased too, since its
// values cannot be trusted either.
func ReadCalibration(f Flash) (Calibration, error) {
	if f == nil {
		return Calibration{}, fmt.Errorf("calibration: no flash: %w", ErrNotImplemented)
	}
	off, err := CalibrationOffset(f)
	if err != nil {
		return Calibration{}, err
	}
	var b [CalibrationSize]byte
	if _, err := f.ReadAt(b[:], off); err != nil {
		return Calibration{}, fmt.Errorf("calibration: read at %d: %w", off, err)
	}
	c := Calibration{Range: b[0], Step: b[1]}
	if !c.Valid() {
		return c, ErrCalibrationErased
	}
	if b[2] != ^b[0] || b[3] != ^b[1] {
		return c, fmt.Errorf("calibration: check bytes % x: %w", b[2:], ErrCalibrationErased)
	}
	return c, nil
}

// WriteCalibration erases the trim block and programs c into it.
func WriteCalibration(f Flash, c Calibration) error {
	off, err := CalibrationOffset(f)
	if err != nil {
		return err
	}
	if err := f.Erase(off, f.EraseBlockBytes()); err != nil {
		return fmt.Errorf("calibration: erase: %w", err)
	}
	b := c.Encode()
	if _, err := f.WriteAt(b[:], off); err != nil {
		return fmt.Errorf("calibration: write: %w", err)
	}
	return nil
}

// EraseCalibration wipes the trim block.
func EraseCalibration(f Flash) error {
	off, err := CalibrationOffset(f)
	if err != nil {
		return err
	}
	return f.Erase(off, f.EraseBlockBytes())
}
