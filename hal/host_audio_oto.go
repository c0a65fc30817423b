//go:build !tinygo && cgo

package hal

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ebitengine/oto/v3"
)

// otoReader feeds the monitor into oto as mono float32 samples.
type otoReader struct {
	m *monitor
}

func (r *otoReader) Read(p []byte) (int, error) {
	n := len(p) / 4
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(r.m.next()))
	}
	return n * 4, nil
}

// startOtoMonitor opens the default sound device and starts pulling samples
// from m.
func startOtoMonitor(m *monitor) (func(), error) {
	op := &oto.NewContextOptions{
		SampleRate:   int(m.rate),
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("oto: %w", err)
	}
	<-ready

	p := ctx.NewPlayer(&otoReader{m: m})
	p.Play()
	return func() {
		p.Pause()
		_ = p.Close()
	}, nil
}
