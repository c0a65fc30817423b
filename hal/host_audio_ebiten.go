//go:build !tinygo && cgo

package hal

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// ebitenReader feeds the monitor to Ebiten, which expects 16-bit
// little-endian stereo.
type ebitenReader struct {
	m *monitor
}

func (r *ebitenReader) Read(p []byte) (int, error) {
	n := len(p) / 4
	for i := 0; i < n; i++ {
		s := int16(r.m.next() * 32767)
		j := i * 4
		p[j+0] = byte(s)
		p[j+1] = byte(s >> 8)
		p[j+2] = byte(s)
		p[j+3] = byte(s >> 8)
	}
	return n * 4, nil
}

// startEbitenMonitor plays m through Ebiten's audio context. Only one
// context may exist per process.
func startEbitenMonitor(m *monitor) (func(), error) {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(int(m.rate))
	} else if ctx.SampleRate() != int(m.rate) {
		return nil, fmt.Errorf("ebiten audio: context rate %d, want %d", ctx.SampleRate(), m.rate)
	}
	p, err := ctx.NewPlayer(&ebitenReader{m: m})
	if err != nil {
		return nil, fmt.Errorf("ebiten audio: %w", err)
	}
	p.SetBufferSize(100 * time.Millisecond)
	p.Play()
	return func() { _ = p.Close() }, nil
}
