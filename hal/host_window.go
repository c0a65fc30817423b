//go:build !tinygo && cgo

package hal

import (
	"context"
	"errors"
	"sync"

	"wavegen/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var windowKeys = [...]ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3}

// RunWindow runs the firmware on the simulated board and shows the scope
// framebuffer in a desktop window. Keys 1, 2 and 3 press the buttons.
// It blocks until the window closes or the app returns.
func RunWindow(ctx context.Context, cfg RunConfig, app App) error {
	h, err := newHost(cfg.Host)
	if err != nil {
		return err
	}
	defer h.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopClock := startClock(ctx, h, cfg, startEbitenMonitor)
	defer stopClock()

	g := &hostGame{h: h, ctx: ctx}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		err := app(ctx, h)
		g.mu.Lock()
		g.appErr = err
		g.appDone = true
		g.mu.Unlock()
	}()

	ebiten.SetWindowTitle("wavegen (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*2, h.fb.height*2)
	ebiten.SetTPS(60)
	runErr := ebiten.RunGame(g)

	cancel()
	g.wg.Wait()
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		return runErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.appErr != nil && !errors.Is(g.appErr, context.Canceled) {
		return g.appErr
	}
	return nil
}

type hostGame struct {
	h      *hostHAL
	ctx    context.Context
	frame  *ebiten.Image
	rgb565 []byte
	rgba   []byte

	wg      sync.WaitGroup
	mu      sync.Mutex
	appErr  error
	appDone bool
}

func (g *hostGame) Update() error {
	g.mu.Lock()
	done := g.appDone
	g.mu.Unlock()
	if done || g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for i, k := range windowKeys {
		if inpututil.IsKeyJustPressed(k) {
			_ = g.h.press(i)
		}
	}
	return nil
}

// Draw widens the last presented frame to RGBA. The framebuffer size is
// fixed for the life of the window.
func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.frame == nil {
		g.frame = ebiten.NewImage(fb.width, fb.height)
		g.rgb565 = make([]byte, len(fb.front))
		g.rgba = make([]byte, fb.width*fb.height*4)
	}
	fb.snapshotRGB565(g.rgb565)
	for i := 0; i+1 < len(g.rgb565); i += 2 {
		c := LoadRGB565(g.rgb565[i:]).RGBA()
		px := g.rgba[i*2 : i*2+4]
		px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A
	}
	g.frame.WritePixels(g.rgba)
	screen.DrawImage(g.frame, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
