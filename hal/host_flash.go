//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	hostFlashDefaultPath = "wavegen.flash"
	hostFlashDefaultSize = 64 * 1024
	hostFlashBlockSize   = 4096
)

// FlashFile is flash backed by an image file.
type FlashFile interface {
	Flash
	io.Closer
}

// hostFlash keeps the image in a MemFlash and writes every programmed or
// erased range through to the file.
type hostFlash struct {
	*MemFlash

	mu sync.Mutex
	f  *os.File
}

// OpenFlashFile opens a flash image, creating a 64 KiB one with
// DefaultCalibration programmed if path does not exist. Images use 4 KiB
// erase blocks.
func OpenFlashFile(path string) (FlashFile, error) {
	return openHostFlash(path)
}

// CreateFlashFile replaces path with a fully erased image.
func CreateFlashFile(path string, size, block uint32) (FlashFile, error) {
	if block < CalibrationSize || block%256 != 0 {
		return nil, fmt.Errorf("flash: erase block %d not a multiple of 256", block)
	}
	if size == 0 || size%block != 0 {
		return nil, fmt.Errorf("flash: size %d not a multiple of erase block %d", size, block)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("flash: create %q: %w", path, err)
	}
	hf := &hostFlash{MemFlash: NewMemFlash(size, block), f: f}
	if err := hf.sync(0, size); err != nil {
		_ = f.Close()
		return nil, err
	}
	return hf, nil
}

func openHostFlash(path string) (*hostFlash, error) {
	if path == "" {
		path = hostFlashDefaultPath
	}
	img, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		hf, err := CreateFlashFile(path, hostFlashDefaultSize, hostFlashBlockSize)
		if err != nil {
			return nil, err
		}
		if err := WriteCalibration(hf, DefaultCalibration); err != nil {
			_ = hf.Close()
			return nil, err
		}
		return hf.(*hostFlash), nil
	case err != nil:
		return nil, fmt.Errorf("flash: read %q: %w", path, err)
	case len(img) == 0 || len(img)%hostFlashBlockSize != 0 || int64(len(img)) > int64(^uint32(0)):
		return nil, fmt.Errorf("flash: %q: %d bytes is not a whole number of %d byte blocks", path, len(img), hostFlashBlockSize)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("flash: open %q: %w", path, err)
	}
	return &hostFlash{MemFlash: &MemFlash{buf: img, block: hostFlashBlockSize}, f: f}, nil
}

// sync copies [off, off+n) of the image to the file.
func (h *hostFlash) sync(off, n uint32) error {
	if h.f == nil {
		return os.ErrClosed
	}
	h.MemFlash.mu.Lock()
	chunk := append([]byte(nil), h.buf[off:off+n]...)
	h.MemFlash.mu.Unlock()
	if _, err := h.f.WriteAt(chunk, int64(off)); err != nil {
		return fmt.Errorf("flash: persist %d bytes at %d: %w", n, off, err)
	}
	return nil
}

func (h *hostFlash) WriteAt(p []byte, off uint32) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.f == nil {
		return 0, os.ErrClosed
	}
	n, err := h.MemFlash.WriteAt(p, off)
	if err != nil {
		return n, err
	}
	return n, h.sync(off, uint32(n))
}

func (h *hostFlash) Erase(off, size uint32) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.f == nil {
		return os.ErrClosed
	}
	if err := h.MemFlash.Erase(off, size); err != nil {
		return err
	}
	return h.sync(off, size)
}

func (h *hostFlash) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.f == nil {
		return nil
	}
	err := h.f.Close()
	h.f = nil
	return err
}
