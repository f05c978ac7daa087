package gshapes

import (
	"fmt"
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
)

// Color is a 24 bit RGB value stored in the least significant bits, as in 0xRRGGBB.
type Color uint32

// Red is the point cloud color.
const Red Color = 0xff0000

// RGB returns the color channels on the range 0.0 to 1.0.
func (c Color) RGB() (r, g, b float32) {
	return cToRGB(uint32(c))
}

// RGBA implements [color.Color]. Colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}.RGBA()
}

// HSL returns hue, saturation and luminance on the range 0.0 to 1.0.
func (c Color) HSL() (h, s, l float32) {
	return rgbToHSL(c.RGB())
}

func (c Color) String() string { return fmt.Sprintf("#%06x", uint32(c)&0xffffff) }

// Scale multiplies every channel by f clamping the result.
func (c Color) Scale(f float32) Color {
	r, g, b := c.RGB()
	return Color(rgbToC(r*f, g*f, b*f))
}

// HSL converts hue, saturation and luminance on the range 0.0 to 1.0 to a
// Color. Hue wraps around.
func HSL(h, s, l float32) Color {
	h = h - math.Floor(h)
	return Color(rgbToC(hslToRGB(h, ms1.Clamp(s, 0, 1), ms1.Clamp(l, 0, 1))))
}

// cToRGB converts a 24 bit RGB value stored in the least significant bits
func cToRGB(c uint32) (r, g, b float32) {
	r = float32(uint8(c>>16)) / math.MaxUint8
	g = float32(uint8(c>>8)) / math.MaxUint8
	b = float32(uint8(c)) / math.MaxUint8
	return r, g, b
}

// rgbToC converts r, g, and b values on the range of 0.0 to 1.0 to a
// 24 bit RGB value stored in the least significant bits of a uint32. The inputs
// are clamped to the range of 0.0 to 1.0
func rgbToC(r, g, b float32) (c uint32) {
	return uint32(math.Round(ms1.Clamp(r, 0, 1)*math.MaxUint8))<<16 |
		uint32(math.Round(ms1.Clamp(g, 0, 1)*math.MaxUint8))<<8 |
		uint32(math.Round(ms1.Clamp(b, 0, 1)*math.MaxUint8))
}

// hslToRGB converts hue, saturation and luminance values on the range of 0.0
// to 1.0 to RGB floating point values on the range of 0.0 to 1.0
func hslToRGB(h, s, l float32) (r, g, b float32) {
	var (
		c = (1 - math.Abs(2*l-1)) * s
		x = c * (1 - math.Abs(math.Mod(h*6, 2)-1))
		m = l - c/2
	)
	switch {
	case h < 1.0/6:
		r, g, b = c, x, 0
	case h < 2.0/6:
		r, g, b = x, c, 0
	case h < 3.0/6:
		r, g, b = 0, c, x
	case h < 4.0/6:
		r, g, b = 0, x, c
	case h < 5.0/6:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// rgbToHSL converts red, green, and blue floating point values on the range
// 0.0 to 1.0 to hue, saturation and luminance values on the range 0.0 to 1.0
func rgbToHSL(r, g, b float32) (h, s, l float32) {
	var (
		xmax = max(r, g, b)
		xmin = min(r, g, b)
		c    = xmax - xmin
	)
	l = (xmax + xmin) / 2
	switch {
	case c == 0:
		h = 0
	case xmax == r:
		h = (g - b) / (c * 6)
	case xmax == g:
		h = 1.0/3 + (b-r)/(c*6)
	default:
		h = 2.0/3 + (r-g)/(c*6)
	}
	if h < 0 {
		h += 1
	}
	if c != 0 {
		s = c / (1 - math.Abs(2*l-1))
	}
	return h, s, l
}
