//go:build !tinygo

package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"wavegen/hal"
)

func TestRunWritesCalibration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.flash")
	want := hal.Calibration{Range: 0x86, Step: 0x6B}
	var out bytes.Buffer
	err := run(&out, options{out: path, size: 16 * 1024, eraseSize: 4096, cal: want})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	out.Reset()
	if err := runCheck(&out, path); err != nil {
		t.Fatalf("runCheck: %v", err)
	}
	if !strings.Contains(out.String(), "range=0x86 step=0x6b") {
		t.Fatalf("check output = %q", out.String())
	}
}

func TestRunErasedImageFailsCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.flash")
	if err := run(&bytes.Buffer{}, options{out: path, size: 8192, eraseSize: 4096, erased: true}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := runCheck(&bytes.Buffer{}, path); !errors.Is(err, hal.ErrCalibrationErased) {
		t.Fatalf("runCheck err = %v, want ErrCalibrationErased", err)
	}
}

func TestRunValidatesGeometry(t *testing.T) {
	dir := t.TempDir()
	if err := run(&bytes.Buffer{}, options{out: filepath.Join(dir, "a"), size: 5000, eraseSize: 4096}); err == nil {
		t.Fatal("size not multiple of erase size accepted")
	}
	if err := run(&bytes.Buffer{}, options{out: filepath.Join(dir, "b"), size: 4096, eraseSize: 100}); err == nil {
		t.Fatal("odd erase size accepted")
	}
}

func TestByteFlag(t *testing.T) {
	var b byteFlag
	for in, want := range map[string]byte{"0x8f": 0x8F, "143": 143, "0217": 0o217} {
		if err := b.Set(in); err != nil || byte(b) != want {
			t.Fatalf("Set(%q) = %#x, %v; want %#x", in, byte(b), err, want)
		}
	}
	if err := b.Set("256"); err == nil {
		t.Fatal("Set(256) err = nil")
	}
}
