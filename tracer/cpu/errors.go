package cpu

import "errors"

var (
	ErrNoFrameState = errors.New("cpu tracer: block request has no frame state")
	ErrInvalidBlock = errors.New("cpu tracer: block lies outside the frame buffer")
	ErrTracerClosed = errors.New("cpu tracer: tracer is closed")
)
