package hal

import (
	"errors"
	"testing"
)

func TestCalibrationRoundTrip(t *testing.T) {
	f := NewMemFlash(16*1024, 4096)
	if _, err := ReadCalibration(f); !errors.Is(err, ErrCalibrationErased) {
		t.Fatalf("ReadCalibration(erased) err = %v, want ErrCalibrationErased", err)
	}

	want := Calibration{Range: 0x86, Step: 0x6B}
	if err := WriteCalibration(f, want); err != nil {
		t.Fatalf("WriteCalibration: %v", err)
	}
	got, err := ReadCalibration(f)
	if err != nil {
		t.Fatalf("ReadCalibration: %v", err)
	}
	if got != want {
		t.Fatalf("ReadCalibration() = %+v, want %+v", got, want)
	}

	var raw [CalibrationSize]byte
	if _, err := f.ReadAt(raw[:], 12*1024); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if raw != want.Encode() {
		t.Fatalf("block = % x, want % x", raw, want.Encode())
	}

	if err := EraseCalibration(f); err != nil {
		t.Fatalf("EraseCalibration: %v", err)
	}
	if _, err := ReadCalibration(f); !errors.Is(err, ErrCalibrationErased) {
		t.Fatalf("ReadCalibration(after erase) err = %v", err)
	}
}

func TestCalibrationRejectsBadCheckBytes(t *testing.T) {
	f := NewMemFlash(8*1024, 4096)
	if _, err := f.WriteAt([]byte{0x86, 0x6B, 0x00, 0x00}, 4096); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if _, err := ReadCalibration(f); !errors.Is(err, ErrCalibrationErased) {
		t.Fatalf("ReadCalibration(corrupt) err = %v, want ErrCalibrationErased", err)
	}
}

func TestCalibrationNeedsFlash(t *testing.T) {
	if _, err := ReadCalibration(nil); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("ReadCalibration(nil) err = %v", err)
	}
	if _, err := CalibrationOffset(NewMemFlash(2, 4096)); err == nil {
		t.Fatal("CalibrationOffset accepted block larger than flash")
	}
}

func TestMemFlashNORSemantics(t *testing.T) {
	f := NewMemFlash(8192, 4096)
	if _, err := f.WriteAt([]byte{0x0F}, 10); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if _, err := f.WriteAt([]byte{0xF0}, 10); !errors.Is(err, ErrFlashWriteRequiresErase) {
		t.Fatalf("WriteAt(set bits) err = %v, want ErrFlashWriteRequiresErase", err)
	}
	if err := f.Erase(100, 4096); err == nil {
		t.Fatal("Erase(unaligned) err = nil")
	}
	if err := f.Erase(0, 4096); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	var b [1]byte
	f.ReadAt(b[:], 10)
	if b[0] != Erased {
		t.Fatalf("byte after erase = %#x, want %#x", b[0], Erased)
	}
}

func TestVirtualPinEdges(t *testing.T) {
	p := newVirtualPin("P", GPIOCapInput|GPIOCapPullUp|GPIOCapInterrupt)
	if err := p.SetInterrupt(GPIOEdgeFalling, func(GPIOPin) {}); err == nil {
		t.Fatal("SetInterrupt accepted on unconfigured pin")
	}
	if err := p.Configure(GPIOModeOutput, GPIOPullNone); err == nil {
		t.Fatal("Configure(output) accepted on input-only pin")
	}
	if err := p.Configure(GPIOModeInput, GPIOPullUp); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if lv, _ := p.Read(); !lv {
		t.Fatal("pull-up pin reads low")
	}

	var falls, rises int
	p.SetInterrupt(GPIOEdgeFalling, func(GPIOPin) { falls++ })
	p.drive(false)
	p.drive(false)
	p.drive(true)
	if falls != 1 {
		t.Fatalf("falling edges = %d, want 1", falls)
	}

	p.SetInterrupt(GPIOEdgeBoth, func(GPIOPin) { rises++ })
	p.drive(false)
	p.drive(true)
	if rises != 2 {
		t.Fatalf("edges = %d, want 2", rises)
	}
}

func TestButtonsReportEveryBounce(t *testing.T) {
	caps := GPIOCapInput | GPIOCapPullUp | GPIOCapInterrupt
	b := newPinButtons(newVirtualPin("A", caps), newVirtualPin("B", caps))

	var got []int
	if err := b.Watch(func(i int) { got = append(got, i) }); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := b.press(1, 3); err != nil {
		t.Fatalf("press: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("interrupts = %v, want 4 on button 1", got)
	}
	for _, i := range got {
		if i != 1 {
			t.Fatalf("interrupt for button %d, want 1", i)
		}
	}
	if err := b.press(2, 0); err == nil {
		t.Fatal("press(2) on two buttons err = nil")
	}
}

func TestButtonsRejectPinsWithoutInterrupts(t *testing.T) {
	b := newPinButtons(newVirtualPin("A", GPIOCapInput|GPIOCapPullUp))
	if err := b.Watch(func(int) {}); err == nil {
		t.Fatal("Watch err = nil")
	}
}
