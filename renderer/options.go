package renderer

import (
	"fmt"

	"github.com/achilleasa/sdfmarch/tracer"
)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Sphere tracing and shading parameters.
	Params tracer.MarchParams

	// Initial shading mode.
	Mode tracer.Mode
}

// Get the default renderer options.
func DefaultOptions() Options {
	return Options{
		FrameW: 640,
		FrameH: 480,
		Params: tracer.DefaultMarchParams(),
		Mode:   tracer.Lit,
	}
}

// Validate the options.
func (opts Options) Validate() error {
	if opts.FrameW == 0 || opts.FrameH == 0 || opts.FrameW > 0xffff || opts.FrameH > 0xffff {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidFrame, opts.FrameW, opts.FrameH)
	}
	return opts.Params.Validate()
}

// The frame aspect ratio (width / height).
func (opts Options) AspectRatio() float32 {
	return float32(opts.FrameW) / float32(opts.FrameH)
}
