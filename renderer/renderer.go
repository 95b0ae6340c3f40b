package renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/sdfmarch/log"
	"github.com/achilleasa/sdfmarch/scene"
	"github.com/achilleasa/sdfmarch/tracer"
)

type Renderer interface {
	// Render a frame using a snapshot of the current camera, scene and
	// mode. Cancelling ctx aborts the frame with ErrInterrupted.
	Render(ctx context.Context) (*FrameBuffer, error)

	// Replace the camera used for subsequent frames.
	UpdateCamera(scene.Camera) error

	// Replace the scene used for subsequent frames.
	UpdateScene(*scene.Scene) error

	// Change the field operation for subsequent frames.
	SetOperation(scene.Operation) error

	// Change the shading mode for subsequent frames.
	SetMode(tracer.Mode)

	// Get copies of the current renderer state.
	Camera() scene.Camera
	Scene() *scene.Scene
	Mode() tracer.Mode
	Options() Options

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics for the last frame.
	Stats() FrameStats
}

// The default renderer splits each frame into row blocks and renders them
// in parallel using a pool of tracers.
type defaultRenderer struct {
	logger log.Logger

	// Guards the renderer state below.
	sync.Mutex

	// Serializes frames so that tracers only ever work on one frame.
	frameMutex sync.Mutex

	options   Options
	scheduler tracer.BlockScheduler
	tracers   []tracer.Tracer

	camera scene.Camera
	scene  *scene.Scene
	mode   tracer.Mode

	// Block assignments for the last frame.
	blockAssignments []uint32

	stats  FrameStats
	closed bool
}

// Create a new default renderer. The renderer takes ownership of the
// tracers and closes them when it is closed.
func NewDefault(sc *scene.Scene, camera scene.Camera, scheduler tracer.BlockScheduler, tracers []tracer.Tracer, opts Options) (Renderer, error) {
	return newDefaultRenderer(sc, camera, scheduler, tracers, opts)
}

func newDefaultRenderer(sc *scene.Scene, camera scene.Camera, scheduler tracer.BlockScheduler, tracers []tracer.Tracer, opts Options) (*defaultRenderer, error) {
	if len(tracers) == 0 {
		return nil, ErrNoTracers
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, scene.ErrNoField
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	camera.Update()
	if err := camera.Validate(); err != nil {
		return nil, err
	}
	if scheduler == nil {
		scheduler = tracer.NaiveScheduler()
	}

	r := &defaultRenderer{
		logger:    log.New("renderer"),
		options:   opts,
		scheduler: scheduler,
		tracers:   tracers,
		camera:    camera,
		scene:     sc.Clone(),
		mode:      opts.Mode,
	}
	r.logger.Infof("using %d tracer(s) for %dx%d frames", len(tracers), opts.FrameW, opts.FrameH)

	return r, nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	r.frameMutex.Lock()
	defer r.frameMutex.Unlock()
	r.Lock()
	defer r.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for _, tr := range r.tracers {
		tr.Close()
	}
}

// Get last frame stats.
func (r *defaultRenderer) Stats() FrameStats {
	r.Lock()
	defer r.Unlock()
	stats := r.stats
	stats.Tracers = append([]TracerStat(nil), r.stats.Tracers...)
	return stats
}

func (r *defaultRenderer) Options() Options {
	return r.options
}

func (r *defaultRenderer) UpdateCamera(camera scene.Camera) error {
	camera.Update()
	if err := camera.Validate(); err != nil {
		return err
	}
	r.Lock()
	r.camera = camera
	r.Unlock()
	return nil
}

func (r *defaultRenderer) UpdateScene(sc *scene.Scene) error {
	if sc == nil {
		return scene.ErrNoField
	}
	if err := sc.Validate(); err != nil {
		return err
	}
	r.Lock()
	r.scene = sc.Clone()
	r.Unlock()
	return nil
}

func (r *defaultRenderer) SetOperation(op scene.Operation) error {
	r.Lock()
	defer r.Unlock()

	// Frames in flight hold their own clone so the live scene can be
	// edited in place.
	return r.scene.SetOperation(op)
}

func (r *defaultRenderer) SetMode(mode tracer.Mode) {
	r.Lock()
	r.mode = mode
	r.Unlock()
}

func (r *defaultRenderer) Camera() scene.Camera {
	r.Lock()
	defer r.Unlock()
	return r.camera
}

func (r *defaultRenderer) Scene() *scene.Scene {
	r.Lock()
	defer r.Unlock()
	return r.scene.Clone()
}

func (r *defaultRenderer) Mode() tracer.Mode {
	r.Lock()
	defer r.Unlock()
	return r.mode
}

// Freeze the current state into an immutable frame snapshot.
func (r *defaultRenderer) snapshot() (*tracer.FrameState, error) {
	r.Lock()
	defer r.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	return &tracer.FrameState{
		Camera:      r.camera,
		Scene:       r.scene.Clone(),
		Params:      r.options.Params,
		Mode:        r.mode,
		AspectRatio: r.options.AspectRatio(),
	}, nil
}

// Render a frame.
func (r *defaultRenderer) Render(ctx context.Context) (*FrameBuffer, error) {
	r.frameMutex.Lock()
	defer r.frameMutex.Unlock()

	state, err := r.snapshot()
	if err != nil {
		return nil, err
	}

	fb := NewFrameBuffer(r.options.FrameW, r.options.FrameH)
	err = r.renderFrame(ctx, state, fb)
	if err != nil {
		return nil, err
	}

	return fb, nil
}

// Split the frame into blocks, hand them to the tracers and wait for every
// tracer to report back, even when one of them fails.
func (r *defaultRenderer) renderFrame(ctx context.Context, state *tracer.FrameState, fb *FrameBuffer) error {
	if err := ctx.Err(); err != nil {
		return ErrInterrupted
	}

	start := time.Now()
	blockAssignments := r.scheduler.Schedule(r.tracers, fb.Height)

	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))

	var blockY uint32
	pending := 0
	for idx, tr := range r.tracers {
		blockH := blockAssignments[idx]
		if blockH == 0 {
			continue
		}

		tr.Enqueue(tracer.BlockRequest{
			Ctx:      ctx,
			FrameW:   fb.Width,
			FrameH:   fb.Height,
			BlockY:   blockY,
			BlockH:   blockH,
			State:    state,
			Pixels:   fb.Pixels,
			DoneChan: doneChan,
			ErrChan:  errChan,
		})
		blockY += blockH
		pending++
	}

	var blockErr error
	for ; pending > 0; pending-- {
		select {
		case <-doneChan:
		case err := <-errChan:
			if blockErr == nil {
				blockErr = err
			}
		}
	}

	r.updateStats(blockAssignments, time.Since(start))

	if blockErr != nil {
		if errors.Is(blockErr, context.Canceled) || errors.Is(blockErr, context.DeadlineExceeded) {
			r.logger.Debugf("frame interrupted after %s", time.Since(start))
			return ErrInterrupted
		}
		return fmt.Errorf("renderer: block render failed: %w", blockErr)
	}

	return nil
}

func (r *defaultRenderer) updateStats(blockAssignments []uint32, renderTime time.Duration) {
	stats := FrameStats{
		Tracers:    make([]TracerStat, len(r.tracers)),
		RenderTime: renderTime,
	}

	for idx, tr := range r.tracers {
		stat := TracerStat{
			Id:           tr.Id(),
			BlockH:       blockAssignments[idx],
			FramePercent: 100 * float32(blockAssignments[idx]) / float32(r.options.FrameH),
		}

		// Idle tracers keep the stats of an older block.
		if blockAssignments[idx] != 0 {
			trStats := tr.Stats()
			stat.RenderTime = trStats.RenderTime
			stat.Rays = trStats.Rays
			stat.MarchSteps = trStats.MarchSteps

			stats.Rays += trStats.Rays
			stats.MarchSteps += trStats.MarchSteps
			stats.ObjectHits += trStats.ObjectHits
			stats.FloorHits += trStats.FloorHits
			stats.SkyHits += trStats.SkyHits
		}
		stats.Tracers[idx] = stat
	}

	r.Lock()
	r.blockAssignments = blockAssignments
	r.stats = stats
	r.Unlock()
}
