package renderer

import (
	"encoding/binary"
	"image"
	"image/png"
	"io"
)

// A rendered frame. Each pixel is packed as 0xAABBGGRR so that the words
// stored little-endian yield R, G, B, A bytes.
type FrameBuffer struct {
	Width  uint32
	Height uint32
	Pixels []uint32
}

// Allocate a frame buffer with the given dimensions.
func NewFrameBuffer(width, height uint32) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, int(width)*int(height)),
	}
}

// Get the packed pixel at (x, y). Row 0 is the top of the image.
func (fb *FrameBuffer) At(x, y uint32) uint32 {
	return fb.Pixels[y*fb.Width+x]
}

// CopyRGBA writes the frame as 8-bit RGBA bytes into dst and returns the
// number of bytes written. dst must hold at least 4*Width*Height bytes.
func (fb *FrameBuffer) CopyRGBA(dst []byte) int {
	for idx, px := range fb.Pixels {
		binary.LittleEndian.PutUint32(dst[idx*4:], px)
	}
	return len(fb.Pixels) * 4
}

// RGBA converts the frame to an image.RGBA.
func (fb *FrameBuffer) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(fb.Width), int(fb.Height)))
	fb.CopyRGBA(img.Pix)
	return img
}

// WritePNG encodes the frame as a PNG image.
func (fb *FrameBuffer) WritePNG(w io.Writer) error {
	return png.Encode(w, fb.RGBA())
}
