package server

import (
	"encoding/binary"
	"fmt"

	"github.com/achilleasa/sdfmarch/renderer"
)

const (
	// Frame messages start with this magic.
	FrameMagic = "SDFM"

	FrameHeaderSize = 16
)

// The header prepended to every binary frame message. All fields are
// little-endian.
type FrameHeader struct {
	Seq    uint32
	Width  uint16
	Height uint16
	Codec  uint32
}

// Encode a frame buffer into a binary frame message.
func EncodeFrame(seq uint32, fb *renderer.FrameBuffer, codec Codec) ([]byte, error) {
	size := int(fb.Width) * int(fb.Height) * 4
	pixels := make([]byte, size)
	fb.CopyRGBA(pixels)

	msg := make([]byte, FrameHeaderSize, FrameHeaderSize+size)
	copy(msg[0:4], FrameMagic)
	binary.LittleEndian.PutUint32(msg[4:8], seq)
	binary.LittleEndian.PutUint32(msg[8:12], fb.Width<<16|fb.Height)
	binary.LittleEndian.PutUint32(msg[12:16], codec.Id())

	return codec.Encode(msg, pixels)
}

// Parse the header of a binary frame message.
func ParseFrameHeader(msg []byte) (FrameHeader, error) {
	if len(msg) < FrameHeaderSize || string(msg[0:4]) != FrameMagic {
		return FrameHeader{}, ErrBadFrame
	}

	dims := binary.LittleEndian.Uint32(msg[8:12])
	return FrameHeader{
		Seq:    binary.LittleEndian.Uint32(msg[4:8]),
		Width:  uint16(dims >> 16),
		Height: uint16(dims),
		Codec:  binary.LittleEndian.Uint32(msg[12:16]),
	}, nil
}

// Decode a binary frame message into its header and RGBA pixel bytes.
func (s *Server) DecodeFrame(msg []byte) (FrameHeader, []byte, error) {
	hdr, err := ParseFrameHeader(msg)
	if err != nil {
		return hdr, nil, err
	}

	codec, err := s.codecs.ById(hdr.Codec)
	if err != nil {
		return hdr, nil, err
	}

	pixels, err := codec.Decode(nil, msg[FrameHeaderSize:])
	if err != nil {
		return hdr, nil, err
	}
	if exp := int(hdr.Width) * int(hdr.Height) * 4; len(pixels) != exp {
		return hdr, nil, fmt.Errorf("%w: expected %d pixel bytes; got %d", ErrBadFrame, exp, len(pixels))
	}
	return hdr, pixels, nil
}
