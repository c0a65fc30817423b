package scope

import (
	"image/color"

	"wavegen/hal"

	"tinygo.org/x/drivers"
)

// fbDisplay adapts an RGB565 framebuffer to drivers.Displayer so tinyfont
// can draw on it. Everything outside the buffer is clipped.
type fbDisplay struct {
	fb     hal.Framebuffer
	buf    []byte
	stride int
	w, h   int
}

var _ drivers.Displayer = (*fbDisplay)(nil)

func newFBDisplay(fb hal.Framebuffer) *fbDisplay {
	return &fbDisplay{
		fb:     fb,
		buf:    fb.Buffer(),
		stride: fb.StrideBytes(),
		w:      fb.Width(),
		h:      fb.Height(),
	}
}

func (d *fbDisplay) Size() (x, y int16) { return int16(d.w), int16(d.h) }

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if int(x) >= d.w || int(y) >= d.h || x < 0 || y < 0 {
		return
	}
	if off := int(y)*d.stride + int(x)*2; off+1 < len(d.buf) {
		hal.PackRGB565(c).Store(d.buf[off:])
	}
}

func (d *fbDisplay) Display() error { return d.fb.Present() }

// FillRectangle paints the part of the rectangle that lies on screen.
func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	x0, x1 := span(int(x), int(width), d.w)
	y0, y1 := span(int(y), int(height), d.h)
	p := hal.PackRGB565(c)
	for row := y0; row < y1; row++ {
		line := d.buf[row*d.stride:]
		for col := x0; col < x1 && col*2+1 < len(line); col++ {
			p.Store(line[col*2:])
		}
	}
	return nil
}

// span clips [at, at+n) to [0, limit).
func span(at, n, limit int) (lo, hi int) {
	lo, hi = max(at, 0), min(at+n, limit)
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
