package hal

import (
	"testing"
	"time"
)

func TestVirtualTimerTicksAtDivisor(t *testing.T) {
	vt := newVirtualTimer(2_000_000)
	var n int
	if err := vt.Start(440, func() { n++ }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := vt.Start(440, nil); err == nil {
		t.Fatal("second Start err = nil")
	}

	// 441 counts per tick: 2e6 counts in one second.
	got := vt.advance(1, 1)
	if got != 2_000_000/441 || n != got {
		t.Fatalf("advance(1s) = %d ticks (fn %d), want %d", got, n, 2_000_000/441)
	}
	if vt.ticks() != uint64(got) {
		t.Fatalf("ticks() = %d, want %d", vt.ticks(), got)
	}
}

func TestVirtualTimerCarriesFractions(t *testing.T) {
	vt := newVirtualTimer(2_000_000)
	var n int
	vt.Start(440, func() { n++ })
	// One 48 kHz sample is 41.67 counts; 441 counts need about 10.6 samples.
	for i := 0; i < 48000; i++ {
		vt.advance(1, 48000)
	}
	if want := 2_000_000 / 441; n != want {
		t.Fatalf("ticks after 48000 samples = %d, want %d", n, want)
	}
}

func TestVirtualTimerSetDivisor(t *testing.T) {
	vt := newVirtualTimer(1000)
	var n int
	vt.Start(9, func() { n++ })
	vt.advanceDuration(8 * time.Millisecond)
	if n != 0 {
		t.Fatalf("ticks = %d before period elapsed", n)
	}
	// Counter 8 is past the new compare value: it restarts.
	vt.SetDivisor(4)
	vt.advanceDuration(4 * time.Millisecond)
	if n != 0 {
		t.Fatalf("ticks = %d, want 0 after restart", n)
	}
	vt.advanceDuration(time.Millisecond)
	if n != 1 {
		t.Fatalf("ticks = %d, want 1", n)
	}
}

func TestVirtualTimerStop(t *testing.T) {
	vt := newVirtualTimer(1000)
	var n int
	vt.Start(0, func() { n++ })
	vt.Stop()
	if got := vt.advance(1, 1); got != 0 || n != 0 {
		t.Fatalf("advance after Stop = %d ticks (fn %d)", got, n)
	}
}

func TestSimSPILatchesAndTraces(t *testing.T) {
	s := newSimSPI()
	if err := s.Tx([]byte{0x37, 0xD0}, nil); err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if s.Level() != 0x7D0 {
		t.Fatalf("Level() = %#x, want 0x7d0", s.Level())
	}
	if err := s.Tx([]byte{0x30}, nil); err == nil {
		t.Fatal("Tx(short) err = nil")
	}

	vt := newVirtualTimer(1000)
	st := simTimer{virtualTimer: vt, spi: s}
	level := uint16(0)
	st.Start(0, func() {
		level += 10
		w := 0x3000 | level
		s.Tx([]byte{byte(w >> 8), byte(w)}, nil)
	})
	vt.advance(5, 1000)

	dst := make([]uint16, 8)
	n := s.Trace(dst)
	if n != 5 {
		t.Fatalf("Trace() = %d samples, want 5", n)
	}
	for i, v := range dst[:n] {
		if want := uint16(10 * (i + 1)); v != want {
			t.Fatalf("trace[%d] = %d, want %d", i, v, want)
		}
	}
}

func TestMonitorDrivesTimer(t *testing.T) {
	vt := newVirtualTimer(2_000_000)
	s := newSimSPI()
	var n int
	vt.Start(440, func() { n++ })
	m := newMonitor(vt, s, 48000)

	s.Tx([]byte{0x3F, 0xFF}, nil)
	var last float32
	for i := 0; i < 4800; i++ {
		last = m.next()
	}
	if last != 1 {
		t.Fatalf("sample at full scale = %v, want 1", last)
	}
	if want := 2_000_000 / 441 / 10; n < want-1 || n > want+1 {
		t.Fatalf("ticks after 100ms of audio = %d, want about %d", n, want)
	}
}
