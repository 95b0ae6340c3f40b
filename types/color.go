package types

// An RGBA colour with components nominally in the [0, 1] range.
type Color = Vec4

// Clamp a colour component to [0, 1]. NaN maps to 0 so that degenerate
// shading results never leak into the frame buffer.
func saturate(x float32) float32 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Saturate clamps all components of c to the [0, 1] range.
func (c Vec4) Saturate() Vec4 {
	return Vec4{saturate(c[0]), saturate(c[1]), saturate(c[2]), saturate(c[3])}
}

// PackABGR clamps c to [0, 1], scales it to [0, 255] and packs it into a
// 32-bit word with alpha in the most significant byte and red in the least
// significant byte.
func PackABGR(c Vec4) uint32 {
	c = c.Saturate().Mul(255)
	return uint32(c[0]) |
		uint32(c[1])<<8 |
		uint32(c[2])<<16 |
		uint32(c[3])<<24
}

// UnpackABGR converts a packed pixel back to a colour in the [0, 1] range.
func UnpackABGR(pixel uint32) Vec4 {
	return Vec4{
		float32(pixel&0xff) / 255,
		float32((pixel>>8)&0xff) / 255,
		float32((pixel>>16)&0xff) / 255,
		float32(pixel>>24) / 255,
	}
}
