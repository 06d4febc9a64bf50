package framevk

// RGBA is an 8-bit-per-channel color.
type RGBA struct {
	R, G, B, A uint8
}

// DefaultClear is the clear color used when none is given.
var DefaultClear = RGBA{0x22, 0x22, 0x22, 0xff}

// Hex decodes 0xRRGGBBAA.
func Hex(rgba uint32) RGBA {
	return RGBA{uint8(rgba >> 24), uint8(rgba >> 16), uint8(rgba >> 8), uint8(rgba)}
}

// RGBAFromFloats converts normalized channels, clamping to [0, 1].
func RGBAFromFloats(c [4]float32) RGBA {
	return RGBA{toChannel(c[0]), toChannel(c[1]), toChannel(c[2]), toChannel(c[3])}
}

// Floats returns the normalized channels.
func (c RGBA) Floats() [4]float32 {
	return [4]float32{toFloat(c.R), toFloat(c.G), toFloat(c.B), toFloat(c.A)}
}

func toChannel(f float32) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 0xff
	}
	return uint8(f*0xff + 0.5)
}

func toFloat(c uint8) float32 { return float32(c) / 0xff }
