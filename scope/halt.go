package scope

import (
	"strings"

	"wavegen/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	colorHaltBG = colorFG
	colorHaltFG = colorBG
)

// Halt paints a fatal message, dark on light, wrapping each line at the
// screen width. It draws nothing when fb is not RGB565.
func Halt(fb hal.Framebuffer, lines ...string) error {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return ErrNoFramebuffer
	}
	fb.Fill(colorHaltBG)
	d := newFBDisplay(fb)
	font := &proggy.TinySZ8pt7b

	_, cell := tinyfont.LineWidth(font, "0")
	cols := 1
	if cell > 0 {
		cols = max(d.w/int(cell), 1)
	}

	y := int16(0)
	for _, line := range lines {
		for _, row := range wrap(line, cols) {
			if int(y)+lineHeight > d.h {
				return d.Display()
			}
			tinyfont.WriteLine(d, font, 0, y+fontOffset, row, colorHaltFG)
			y += lineHeight
		}
	}
	return d.Display()
}

// wrap splits s into rows of at most cols runes, dropping the spaces at
// each break.
func wrap(s string, cols int) []string {
	var rows []string
	r := []rune(s)
	for len(r) > cols {
		rows = append(rows, string(r[:cols]))
		r = []rune(strings.TrimLeft(string(r[cols:]), " "))
	}
	return append(rows, string(r))
}
