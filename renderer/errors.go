package renderer

import "errors"

var (
	ErrNoTracers    = errors.New("renderer: no tracers attached")
	ErrInterrupted  = errors.New("renderer: interrupted while rendering")
	ErrClosed       = errors.New("renderer: renderer is closed")
	ErrInvalidFrame = errors.New("renderer: frame dimensions must be positive")
)
