package server

import (
	"fmt"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// Codec compresses frame payloads before they are sent to clients.
type Codec interface {
	// The id written into the frame header.
	Id() uint32

	Name() string

	// Encode src, appending to dst.
	Encode(dst, src []byte) ([]byte, error)

	// Decode src, appending to dst.
	Decode(dst, src []byte) ([]byte, error)
}

const (
	CodecRaw uint32 = iota
	CodecSnappy
	CodecZstd
)

type rawCodec struct{}

func (rawCodec) Id() uint32 { return CodecRaw }
func (rawCodec) Name() string { return "raw" }

func (rawCodec) Encode(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

func (rawCodec) Decode(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

// Block format snappy; each frame is compressed independently.
type snappyCodec struct{}

func (snappyCodec) Id() uint32 { return CodecSnappy }
func (snappyCodec) Name() string { return "snappy" }

func (snappyCodec) Encode(dst, src []byte) ([]byte, error) {
	return append(dst, snappy.Encode(nil, src)...), nil
}

func (snappyCodec) Decode(dst, src []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, src)
	if err != nil {
		return nil, fmt.Errorf("snappy codec: %w", err)
	}
	return append(dst, out...), nil
}

// zstd encoders and decoders are safe for concurrent EncodeAll/DecodeAll
// calls so a single pair is shared by all sessions.
type zstdCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newZstdCodec() (*zstdCodec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("zstd codec: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd codec: %w", err)
	}
	return &zstdCodec{encoder: encoder, decoder: decoder}, nil
}

func (*zstdCodec) Id() uint32 { return CodecZstd }
func (*zstdCodec) Name() string { return "zstd" }

func (c *zstdCodec) Encode(dst, src []byte) ([]byte, error) {
	return c.encoder.EncodeAll(src, dst), nil
}

func (c *zstdCodec) Decode(dst, src []byte) ([]byte, error) {
	out, err := c.decoder.DecodeAll(src, dst)
	if err != nil {
		return nil, fmt.Errorf("zstd codec: %w", err)
	}
	return out, nil
}

// A set of codecs addressable by name or header id.
type codecRegistry struct {
	byName map[string]Codec
	byId   map[uint32]Codec
}

func newCodecRegistry() (*codecRegistry, error) {
	zc, err := newZstdCodec()
	if err != nil {
		return nil, err
	}

	reg := &codecRegistry{
		byName: make(map[string]Codec),
		byId:   make(map[uint32]Codec),
	}
	for _, c := range []Codec{rawCodec{}, snappyCodec{}, zc} {
		reg.byName[c.Name()] = c
		reg.byId[c.Id()] = c
	}
	return reg, nil
}

// Lookup a codec by name. An empty name selects the raw codec.
func (reg *codecRegistry) ByName(name string) (Codec, error) {
	if name == "" {
		name = "raw"
	}
	if c, ok := reg.byName[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

func (reg *codecRegistry) ById(id uint32) (Codec, error) {
	if c, ok := reg.byId[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: id %d", ErrUnknownCodec, id)
}
