package sprite

import (
	"github.com/spaghettifunk/tinta/engine/math"
	"github.com/spaghettifunk/tinta/engine/renderer"
)

type Color = renderer.Color

var (
	White       = Color{R: 1, G: 1, B: 1, A: 1}
	Black       = Color{A: 1}
	Red         = Color{R: 1, A: 1}
	Green       = Color{G: 1, A: 1}
	Blue        = Color{B: 1, A: 1}
	Yellow      = Color{R: 1, G: 1, A: 1}
	Magenta     = Color{R: 1, B: 1, A: 1}
	Cyan        = Color{G: 1, B: 1, A: 1}
	Gray        = Color{R: 0.5, G: 0.5, B: 0.5, A: 1}
	Transparent = Color{}
)

// RGBA8 converts an 8 bit per channel color.
func RGBA8(r, g, b, a uint8) Color {
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: float32(a) / 255}
}

func toByte(v float32) byte {
	return byte(math.Clamp(v, 0, 1)*255 + 0.5)
}

func colorBytes(c Color) [4]byte {
	return [4]byte{toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)}
}

// Rect is an axis aligned rectangle with its origin at the top left.
type Rect struct {
	X, Y, W, H float32
}
