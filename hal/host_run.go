//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// App is the firmware entry point as seen by the host runners. It returns
// when ctx is cancelled or the firmware halts.
type App func(ctx context.Context, h HAL) error

// RunConfig controls the host runners.
type RunConfig struct {
	Host HostConfig
	// Audio clocks the timer from the sound device and plays the DAC output.
	Audio     bool
	AudioRate int
	// Ticks stops the run after this many timer ticks (0 = forever).
	Ticks uint64
	// Keys reads buttons from the terminal (headless only).
	Keys bool
}

const defaultAudioRate = 48000

// RunHeadless runs the firmware on the simulated board without a window.
func RunHeadless(ctx context.Context, cfg RunConfig, app App) error {
	h, err := newHost(cfg.Host)
	if err != nil {
		return err
	}
	defer h.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopClock := startClock(ctx, h, cfg, startOtoMonitor)
	defer stopClock()

	if cfg.Keys {
		keys, err := startTermKeys(h, cancel)
		if err != nil {
			h.logger.WriteLineString("keys: " + err.Error())
		} else {
			defer keys.stop()
		}
	}

	var limited atomic.Bool
	if cfg.Ticks > 0 {
		go func() {
			tk := time.NewTicker(5 * time.Millisecond)
			defer tk.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-tk.C:
					if h.timer.ticks() >= cfg.Ticks {
						limited.Store(true)
						cancel()
						return
					}
				}
			}
		}()
	}

	err = app(ctx, h)
	cancel()
	if limited.Load() && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// startClock drives the virtual timer from the audio device when requested
// and available, otherwise from the wall clock. The returned func stops it.
func startClock(ctx context.Context, h *hostHAL, cfg RunConfig, audio func(*monitor) (func(), error)) func() {
	if cfg.Audio {
		rate := cfg.AudioRate
		if rate <= 0 {
			rate = defaultAudioRate
		}
		stop, err := audio(newMonitor(h.timer, h.spi, rate))
		if err == nil {
			h.logger.WriteLineString(fmt.Sprintf("audio: monitor at %d Hz", rate))
			return stop
		}
		h.logger.WriteLineString("audio: " + err.Error() + "; using wall clock")
	}
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		h.timer.runWallClock(mergeDone(ctx, done))
	}()
	return func() {
		close(done)
		<-stopped
	}
}

func mergeDone(ctx context.Context, done <-chan struct{}) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		defer close(out)
		select {
		case <-ctx.Done():
		case <-done:
		}
	}()
	return out
}
