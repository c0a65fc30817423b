package hal

import (
	"fmt"
	"sync"
)

// MemFlash is a RAM-backed Flash with NOR semantics: erase sets bytes to
// 0xFF and writes can only clear bits.
type MemFlash struct {
	mu    sync.Mutex
	buf   []byte
	block uint32
}

// NewMemFlash returns an erased flash of size bytes.
func NewMemFlash(size, block uint32) *MemFlash {
	f := &MemFlash{buf: make([]byte, size), block: block}
	for i := range f.buf {
		f.buf[i] = Erased
	}
	return f
}

func (f *MemFlash) SizeBytes() uint32       { return uint32(len(f.buf)) }
func (f *MemFlash) EraseBlockBytes() uint32 { return f.block }

func (f *MemFlash) ReadAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if off >= uint32(len(f.buf)) {
		return 0, fmt.Errorf("flash read at %d: out of range", off)
	}
	return copy(p, f.buf[off:]), nil
}

func (f *MemFlash) WriteAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if off >= uint32(len(f.buf)) {
		return 0, fmt.Errorf("flash write at %d: out of range", off)
	}
	dst := f.buf[off:]
	if len(p) > len(dst) {
		p = p[:len(dst)]
	}
	for i := range p {
		if dst[i]&p[i] != p[i] {
			return 0, ErrFlashWriteRequiresErase
		}
	}
	return copy(dst, p), nil
}

func (f *MemFlash) Erase(off, size uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if size == 0 {
		return nil
	}
	if f.block == 0 || off%f.block != 0 || size%f.block != 0 || off+size > uint32(len(f.buf)) {
		return fmt.Errorf("flash erase off=%d size=%d: invalid range", off, size)
	}
	for i := off; i < off+size; i++ {
		f.buf[i] = Erased
	}
	return nil
}
