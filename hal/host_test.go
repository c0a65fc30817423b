//go:build !tinygo

package hal

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestHost(t *testing.T) (*hostHAL, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	f := NewMemFlash(64*1024, 4096)
	if err := WriteCalibration(f, DefaultCalibration); err != nil {
		t.Fatalf("WriteCalibration: %v", err)
	}
	h, err := newHost(HostConfig{Flash: f, Out: &out, Bounces: 2})
	if err != nil {
		t.Fatalf("newHost: %v", err)
	}
	return h, &out
}

func TestHostDACFeedsProbe(t *testing.T) {
	h, _ := newTestHost(t)
	d, err := h.DAC()
	if err != nil {
		t.Fatalf("DAC: %v", err)
	}
	tm := h.Timer()
	if tm.ClockHz() != HostTimerClockHz {
		t.Fatalf("ClockHz() = %d", tm.ClockHz())
	}
	tm.Start(0, func() { d.Transmit(1234) })
	h.timer.advance(3, HostTimerClockHz)

	dst := make([]uint16, 4)
	if n := h.Probe().Trace(dst); n != 3 || dst[2] != 1234 {
		t.Fatalf("Trace() = %d %v, want 3 samples of 1234", n, dst)
	}
}

func TestHostPressRaisesButtonInterrupts(t *testing.T) {
	h, _ := newTestHost(t)
	var n int
	if err := h.Buttons().Watch(func(i int) {
		if i == 2 {
			n++
		}
	}); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := h.press(2); err != nil {
		t.Fatalf("press: %v", err)
	}
	// One clean edge plus two bounces.
	if n != 3 {
		t.Fatalf("interrupts = %d, want 3", n)
	}
}

func TestHostLEDsAndTextLog(t *testing.T) {
	h, out := newTestHost(t)
	leds := h.LEDs()
	if len(leds) != 2 {
		t.Fatalf("LEDs() = %d, want 2", len(leds))
	}
	leds[1].High()
	h.Text().WriteLines("SINE 100Hz", "duty 50%")
	h.Text().WriteLines("SINE 100Hz", "duty 50%")

	s := out.String()
	if !strings.Contains(s, "led2: on") {
		t.Fatalf("log %q lacks led2", s)
	}
	if strings.Count(s, "lcd: SINE 100Hz | duty 50%") != 1 {
		t.Fatalf("log %q: want one lcd line", s)
	}
	if n := h.Buttons().Count(); n != 3 {
		t.Fatalf("Buttons().Count() = %d, want 3", n)
	}
}

func TestHostFlashFileStartsCalibrated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.flash")
	f, err := OpenFlashFile(path)
	if err != nil {
		t.Fatalf("OpenFlashFile: %v", err)
	}
	c, err := ReadCalibration(f)
	if err != nil || c != DefaultCalibration {
		t.Fatalf("ReadCalibration() = %+v, %v", c, err)
	}
	if err := EraseCalibration(f); err != nil {
		t.Fatalf("EraseCalibration: %v", err)
	}
	f.Close()

	// Reopening keeps the erased block.
	f, err = OpenFlashFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()
	if _, err := ReadCalibration(f); !errors.Is(err, ErrCalibrationErased) {
		t.Fatalf("ReadCalibration(reopened) err = %v", err)
	}
}

func TestRunHeadlessStopsAfterTicks(t *testing.T) {
	var out bytes.Buffer
	f := NewMemFlash(64*1024, 4096)
	WriteCalibration(f, DefaultCalibration)
	cfg := RunConfig{
		Host:  HostConfig{Flash: f, Out: &out},
		Ticks: 50,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := RunHeadless(ctx, cfg, func(ctx context.Context, h HAL) error {
		if err := h.Timer().Start(199, func() {}); err != nil {
			return err
		}
		<-ctx.Done()
		return ctx.Err()
	})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("run hit the test deadline")
	}
}

func TestRunHeadlessReturnsAppError(t *testing.T) {
	f := NewMemFlash(64*1024, 4096)
	want := errors.New("halted")
	err := RunHeadless(context.Background(), RunConfig{Host: HostConfig{Flash: f, Out: &bytes.Buffer{}}},
		func(context.Context, HAL) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("RunHeadless err = %v, want %v", err, want)
	}
}
