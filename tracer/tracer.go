package tracer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/achilleasa/sdfmarch/scene"
)

// Mode selects what the tracer writes for each pixel.
type Mode uint8

const (
	// Direct lighting with soft shadows.
	Lit Mode = iota

	// Surface distance mapped from [near, far] to [1, 0].
	Depth

	// Surface normals remapped to [0, 1].
	Normals

	// Sphere tracing step count relative to the step budget.
	Steps
)

var modeNames = []string{"lit", "depth", "normals", "steps"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", m)
}

// Next mode in display order; wraps around.
func (m Mode) Next() Mode {
	return Mode((int(m) + 1) % len(modeNames))
}

// Parse a mode name.
func ParseMode(name string) (Mode, error) {
	for idx, modeName := range modeNames {
		if strings.EqualFold(name, modeName) {
			return Mode(idx), nil
		}
	}
	return Lit, fmt.Errorf("tracer: unknown mode %q; expected one of %s", name, strings.Join(modeNames, ", "))
}

// Tuning parameters for the sphere tracer and the shading engine.
type MarchParams struct {
	// Step budget for primary rays.
	Steps int

	// Base surface tolerance. The primary ray acceptance threshold scales
	// with travelled distance.
	Epsilon float32

	// Tap offset for central-difference normals.
	NormalOffset float32

	// Penumbra sharpness. Larger values produce harder shadow edges.
	ShadowK float32

	// Shadow rays start at ShadowStartScale * Epsilon from the surface.
	ShadowStartScale float32

	// Iteration cap for shadow rays.
	ShadowSteps int

	// Floor iso-distance contour lines.
	ContourSpacing float32
	ContourWidth   float32
	ContourShade   float32
}

// Get the default march parameters.
func DefaultMarchParams() MarchParams {
	return MarchParams{
		Steps:            64,
		Epsilon:          0.001,
		NormalOffset:     0.0001,
		ShadowK:          16,
		ShadowStartScale: 10,
		ShadowSteps:      256,
		ContourSpacing:   0.1,
		ContourWidth:     0.025,
		ContourShade:     0.25,
	}
}

// Validate the march parameters.
func (p MarchParams) Validate() error {
	switch {
	case p.Steps <= 0:
		return fmt.Errorf("tracer: step budget must be positive; got %d", p.Steps)
	case !(p.Epsilon > 0):
		return fmt.Errorf("tracer: epsilon must be positive; got %g", p.Epsilon)
	case !(p.NormalOffset > 0):
		return fmt.Errorf("tracer: normal offset must be positive; got %g", p.NormalOffset)
	case !(p.ShadowK > 0):
		return fmt.Errorf("tracer: shadow k must be positive; got %g", p.ShadowK)
	case p.ShadowStartScale < 0:
		return fmt.Errorf("tracer: shadow start scale must not be negative; got %g", p.ShadowStartScale)
	case p.ShadowSteps <= 0:
		return fmt.Errorf("tracer: shadow step budget must be positive; got %d", p.ShadowSteps)
	case !(p.ContourSpacing > 0):
		return fmt.Errorf("tracer: contour spacing must be positive; got %g", p.ContourSpacing)
	}
	return nil
}

// An immutable snapshot of everything needed to render a frame. The
// renderer builds a new snapshot for each frame; tracers must not modify it.
type FrameState struct {
	Camera      scene.Camera
	Scene       *scene.Scene
	Params      MarchParams
	Mode        Mode
	AspectRatio float32
}

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Cancelling the context aborts the block between scanlines.
	Ctx context.Context

	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The frame snapshot to render.
	State *FrameState

	// The packed frame buffer (FrameW * FrameH words). A tracer only
	// writes the rows of its own block.
	Pixels []uint32

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics for the last rendered block.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block
	RenderTime time.Duration

	// Primary ray counters.
	Rays       uint64
	MarchSteps uint64
	ObjectHits uint64
	FloorHits  uint64
	SkyHits    uint64
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get a relative computation speed estimate. Used by the naive
	// scheduler to split the first frame.
	Speed() uint32

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last block statistics. Only valid after the block's done
	// or error notification has been received.
	Stats() *Stats

	// Shutdown and cleanup tracer.
	Close()
}
