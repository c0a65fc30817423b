//go:build !tinygo

// Command mkflash writes a flash image for the simulated and Linux boards,
// with the oscillator calibration block programmed or erased.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"wavegen/hal"
)

const (
	defaultFlashPath = "wavegen.flash"
	defaultFlashSize = 64 * 1024
	defaultEraseSize = 4096
)

// byteFlag parses 0x8f, 143 or 0217.
type byteFlag byte

func (b *byteFlag) String() string { return fmt.Sprintf("%#02x", byte(*b)) }

func (b *byteFlag) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return err
	}
	*b = byteFlag(v)
	return nil
}

type options struct {
	out       string
	size      uint32
	eraseSize uint32
	cal       hal.Calibration
	erased    bool
}

func main() {
	var o options
	var flashSize, eraseSize uint
	rng := byteFlag(hal.DefaultCalibration.Range)
	step := byteFlag(hal.DefaultCalibration.Step)
	check := flag.String("check", "", "Print the calibration of an existing image and exit.")
	flag.StringVar(&o.out, "out", defaultFlashPath, "Output flash image path.")
	flag.UintVar(&flashSize, "size", defaultFlashSize, "Flash image size (bytes).")
	flag.UintVar(&eraseSize, "erase", defaultEraseSize, "Erase block size (bytes).")
	flag.Var(&rng, "range", "Calibration range byte.")
	flag.Var(&step, "step", "Calibration step byte.")
	flag.BoolVar(&o.erased, "erased", false, "Leave the calibration block erased.")
	flag.Parse()

	if *check != "" {
		if err := runCheck(os.Stdout, *check); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}
	if o.out == "" {
		fmt.Fprintln(os.Stderr, "error: -out is required")
		os.Exit(2)
	}
	if byte(rng) == hal.Erased && !o.erased {
		fmt.Fprintln(os.Stderr, "error: -range 0xff reads as erased; use -erased")
		os.Exit(2)
	}

	o.size, o.eraseSize = uint32(flashSize), uint32(eraseSize)
	o.cal = hal.Calibration{Range: byte(rng), Step: byte(step)}
	if err := run(os.Stdout, o); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(w io.Writer, o options) error {
	ff, err := hal.CreateFlashFile(o.out, o.size, o.eraseSize)
	if err != nil {
		return err
	}
	defer func() { _ = ff.Close() }()

	if o.erased {
		fmt.Fprintf(w, "%s: %d bytes, calibration erased\n", o.out, o.size)
		return nil
	}
	if err := hal.WriteCalibration(ff, o.cal); err != nil {
		return err
	}
	off, _ := hal.CalibrationOffset(ff)
	fmt.Fprintf(w, "%s: %d bytes, calibration range=%#02x step=%#02x at %#x\n",
		o.out, o.size, o.cal.Range, o.cal.Step, off)
	return nil
}

func runCheck(w io.Writer, path string) error {
	f, err := hal.OpenFlashFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	c, err := hal.ReadCalibration(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintf(w, "%s: calibration range=%#02x step=%#02x\n", path, c.Range, c.Step)
	return nil
}
