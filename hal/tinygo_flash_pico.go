//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"fmt"
	"machine"
)

// picoFlash is the data partition that follows the firmware image. The
// calibration block is its last erase block.
type picoFlash struct {
	size  uint32
	block uint32
}

func newPicoFlash() Flash {
	return &picoFlash{
		size:  clampUint32(machine.Flash.Size()),
		block: clampUint32(machine.Flash.EraseBlockSize()),
	}
}

func clampUint32(v int64) uint32 {
	switch {
	case v <= 0:
		return 0
	case v > int64(^uint32(0)):
		return ^uint32(0)
	}
	return uint32(v)
}

func (f *picoFlash) SizeBytes() uint32       { return f.size }
func (f *picoFlash) EraseBlockBytes() uint32 { return f.block }

func (f *picoFlash) bounds(op string, off uint32, n int) error {
	if uint64(off)+uint64(n) > uint64(f.size) {
		return fmt.Errorf("flash: %s %d bytes at %d: out of range (size %d)", op, n, off, f.size)
	}
	return nil
}

func (f *picoFlash) ReadAt(p []byte, off uint32) (int, error) {
	if err := f.bounds("read", off, len(p)); err != nil {
		return 0, err
	}
	n, err := machine.Flash.ReadAt(p, int64(off))
	if err != nil {
		return n, fmt.Errorf("flash: read at %d: %w", off, err)
	}
	return n, nil
}

// WriteAt programs p. Like MemFlash it refuses to set bits that are already
// cleared, since NOR programming can only pull bits low.
func (f *picoFlash) WriteAt(p []byte, off uint32) (int, error) {
	if err := f.bounds("write", off, len(p)); err != nil {
		return 0, err
	}
	var cur [CalibrationSize]byte
	for done := 0; done < len(p); done += len(cur) {
		chunk := p[done:min(done+len(cur), len(p))]
		if _, err := machine.Flash.ReadAt(cur[:len(chunk)], int64(off)+int64(done)); err != nil {
			return 0, fmt.Errorf("flash: verify at %d: %w", off+uint32(done), err)
		}
		for i, b := range chunk {
			if b&^cur[i] != 0 {
				return 0, fmt.Errorf("flash: write at %d: %w", off+uint32(done+i), ErrFlashWriteRequiresErase)
			}
		}
	}
	n, err := machine.Flash.WriteAt(p, int64(off))
	if err != nil {
		return n, fmt.Errorf("flash: write at %d: %w", off, err)
	}
	return n, nil
}

func (f *picoFlash) Erase(off, size uint32) error {
	if size == 0 {
		return nil
	}
	if f.block == 0 {
		return fmt.Errorf("flash: erase: %w", ErrNotImplemented)
	}
	if off%f.block != 0 || size%f.block != 0 {
		return fmt.Errorf("flash: erase off=%d size=%d: unaligned to %d", off, size, f.block)
	}
	if err := f.bounds("erase", off, int(size)); err != nil {
		return err
	}
	return machine.Flash.EraseBlocks(int64(off/f.block), int64(size/f.block))
}
