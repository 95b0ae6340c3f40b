package server

import "errors"

var (
	ErrUnknownCodec = errors.New("server: unknown codec")
	ErrBadFrame     = errors.New("server: malformed frame message")
)
