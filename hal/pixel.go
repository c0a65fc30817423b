package hal

import "image/color"

// RGB565 is one framebuffer pixel. It is stored little-endian.
type RGB565 uint16

// PackRGB565 drops the low bits of each channel.
func PackRGB565(c color.RGBA) RGB565 {
	return RGB565(c.R>>3)<<11 | RGB565(c.G>>2)<<5 | RGB565(c.B>>3)
}

// LoadRGB565 reads the pixel at b[0:2].
func LoadRGB565(b []byte) RGB565 { return RGB565(b[0]) | RGB565(b[1])<<8 }

// Store writes p into b[0:2].
func (p RGB565) Store(b []byte) {
	b[0] = byte(p)
	b[1] = byte(p >> 8)
}

// RGBA widens p by bit replication, so full scale stays 0xFF.
func (p RGB565) RGBA() color.RGBA {
	r := uint8(p>>11) & 0x1F
	g := uint8(p>>5) & 0x3F
	b := uint8(p) & 0x1F
	return color.RGBA{R: r<<3 | r>>2, G: g<<2 | g>>4, B: b<<3 | b>>2, A: 0xFF}
}
