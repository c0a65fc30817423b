// Package scope renders the recent DAC output and the status lines onto a
// framebuffer, like a small oscilloscope beside the generator.
package scope

import (
	"errors"
	"image/color"

	"wavegen/dac"
	"wavegen/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	colorBG       = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	colorFG       = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	colorHeaderBG = color.RGBA{R: 0x18, G: 0x18, B: 0x18, A: 0xff}
	colorGrid     = color.RGBA{R: 0x24, G: 0x24, B: 0x24, A: 0xff}
	colorWave     = color.RGBA{R: 0x4a, G: 0xdf, B: 0x6a, A: 0xff}
)

const (
	lineHeight = 10
	fontOffset = 8
	margin     = 4
)

var ErrNoFramebuffer = errors.New("scope: no framebuffer")

// Scope draws one screen per Render call.
type Scope struct {
	d     *fbDisplay
	probe hal.Probe
	font  tinyfont.Fonter
	trace []uint16
}

// New returns a scope drawing into fb. probe may be nil, in which case only
// the status lines are shown.
func New(fb hal.Framebuffer, probe hal.Probe) (*Scope, error) {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return nil, ErrNoFramebuffer
	}
	return &Scope{
		d:     newFBDisplay(fb),
		probe: probe,
		font:  &proggy.TinySZ8pt7b,
		trace: make([]uint16, fb.Width()),
	}, nil
}

// Render draws the status lines in a header band and the most recent
// samples, one per column, below it, then presents the frame.
func (s *Scope) Render(lines ...string) error {
	w, h := s.d.Size()
	s.d.FillRectangle(0, 0, w, h, colorBG)

	header := int16(len(lines)*lineHeight + margin)
	s.d.FillRectangle(0, 0, w, header, colorHeaderBG)
	for i, line := range lines {
		tinyfont.WriteLine(s.d, s.font, margin, int16(i*lineHeight)+fontOffset, line, colorFG)
	}

	top, bottom := header+margin, h-margin
	if bottom <= top {
		return s.d.Display()
	}
	for _, code := range []uint16{0, dac.CodeMask / 2, dac.CodeMask} {
		s.d.FillRectangle(0, levelY(code, top, bottom), w, 1, colorGrid)
	}

	if s.probe != nil {
		n := s.probe.Trace(s.trace)
		s.plot(s.trace[:n], top, bottom)
	}
	return s.d.Display()
}

// plot draws samples right-aligned so the newest sample is at the right
// edge. Steps between held levels are joined with vertical segments.
func (s *Scope) plot(samples []uint16, top, bottom int16) {
	w, _ := s.d.Size()
	x0 := w - int16(len(samples))
	prev := int16(-1)
	for i, v := range samples {
		x := x0 + int16(i)
		y := levelY(v, top, bottom)
		if prev < 0 || prev == y {
			s.d.SetPixel(x, y, colorWave)
		} else {
			y0, y1 := prev, y
			if y0 > y1 {
				y0, y1 = y1, y0
			}
			s.d.FillRectangle(x, y0, 1, y1-y0+1, colorWave)
		}
		prev = y
	}
}

// levelY maps a 12-bit code onto [top, bottom], full scale at the top.
func levelY(code uint16, top, bottom int16) int16 {
	if code > dac.CodeMask {
		code = dac.CodeMask
	}
	span := int32(bottom - top)
	return bottom - int16(int32(code)*span/int32(dac.CodeMask))
}
